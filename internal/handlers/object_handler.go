package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/Naya-01/PAE/internal/domain/lifecycle"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/response"
	"github.com/Naya-01/PAE/internal/storage/images"
)

type ObjectHandler struct {
	engine *lifecycle.Engine
	log    *log.Logger
}

func NewObjectHandler(engine *lifecycle.Engine) *ObjectHandler {
	return &ObjectHandler{
		engine: engine,
		log:    logger.Handler("object"),
	}
}

type UpdateObjectRequest struct {
	Description string `json:"description" binding:"required"`
	TypeID      int    `json:"type_id"`
}

// GetObject handles GET /api/objects/:id
func (h *ObjectHandler) GetObject(c *gin.Context) {
	objectID, ok := idParam(c, "id")
	if !ok {
		return
	}

	obj, err := h.engine.GetObject(c.Request.Context(), objectID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", obj)
}

// GetMemberObjects handles GET /api/objects/member/:memberId
func (h *ObjectHandler) GetMemberObjects(c *gin.Context) {
	memberID, ok := idParam(c, "memberId")
	if !ok {
		return
	}

	objects, err := h.engine.GetMemberObjects(c.Request.Context(), memberID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", objects)
}

// UpdateObject handles PUT /api/objects/:id
func (h *ObjectHandler) UpdateObject(c *gin.Context) {
	obj, ok := h.ownedObject(c)
	if !ok {
		return
	}

	var req UpdateObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}

	updated, err := h.engine.UpdateObject(c.Request.Context(), object.Update{
		ID:          obj.ID,
		Description: req.Description,
		TypeID:      req.TypeID,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "object updated", updated)
}

// MarkGiven handles POST /api/objects/:id/given
func (h *ObjectHandler) MarkGiven(c *gin.Context) {
	obj, ok := h.ownedObject(c)
	if !ok {
		return
	}

	given, err := h.engine.MarkGiven(c.Request.Context(), obj.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("Object given", "object_id", obj.ID, "offer_id", given.ID)
	response.SuccessResponse(c, http.StatusOK, "object given", given)
}

// UpdatePicture handles POST /api/objects/:id/picture with a multipart "file" field
func (h *ObjectHandler) UpdatePicture(c *gin.Context) {
	obj, ok := h.ownedObject(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequestError(c, "no file provided: "+err.Error())
		return
	}
	defer file.Close()

	updated, err := h.engine.UpdateObjectPicture(c.Request.Context(), obj.ID, images.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("Object picture updated", "object_id", obj.ID, "key", updated.Image)
	response.SuccessResponse(c, http.StatusOK, "picture updated", updated)
}

// GetPicture handles GET /api/objects/:id/picture
func (h *ObjectHandler) GetPicture(c *gin.Context) {
	objectID, ok := idParam(c, "id")
	if !ok {
		return
	}

	picture, key, err := h.engine.OpenObjectPicture(c.Request.Context(), objectID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer picture.Close()

	c.DataFromReader(http.StatusOK, -1, images.ContentType(key), picture, nil)
}

// ownedObject loads the object named by the path and checks the caller offers it
func (h *ObjectHandler) ownedObject(c *gin.Context) (*object.Object, bool) {
	memberID, ok := caller(c)
	if !ok {
		return nil, false
	}
	objectID, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	obj, err := h.engine.GetObject(c.Request.Context(), objectID)
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	if !requireOfferor(c, obj.OfferorID, memberID) {
		return nil, false
	}
	return obj, true
}
