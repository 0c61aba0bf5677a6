package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/lifecycle"
	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/response"
)

type InterestHandler struct {
	engine *lifecycle.Engine
	log    *log.Logger
}

func NewInterestHandler(engine *lifecycle.Engine) *InterestHandler {
	return &InterestHandler{
		engine: engine,
		log:    logger.Handler("interest"),
	}
}

type AddInterestRequest struct {
	ObjectID int `json:"object_id" binding:"required,gt=0"`
}

type AssignOfferRequest struct {
	ObjectID int `json:"object_id" binding:"required,gt=0"`
	MemberID int `json:"member_id" binding:"required,gt=0"`
}

// InterestedCount is the answer of GET /api/interests/count/:objectId
type InterestedCount struct {
	Count     int                  `json:"count"`
	Interests []*interest.Interest `json:"interests"`
}

// AddInterest handles POST /api/interests for the calling member
func (h *InterestHandler) AddInterest(c *gin.Context) {
	memberID, ok := caller(c)
	if !ok {
		return
	}

	var req AddInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}

	created, err := h.engine.AddInterest(c.Request.Context(), req.ObjectID, memberID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "interest added", created)
}

// GetInterest handles GET /api/interests/:objectId/:memberId
func (h *InterestHandler) GetInterest(c *gin.Context) {
	objectID, ok := idParam(c, "objectId")
	if !ok {
		return
	}
	memberID, ok := idParam(c, "memberId")
	if !ok {
		return
	}

	found, err := h.engine.GetInterest(c.Request.Context(), objectID, memberID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", found)
}

// GetInterestedCount handles GET /api/interests/count/:objectId
func (h *InterestHandler) GetInterestedCount(c *gin.Context) {
	objectID, ok := idParam(c, "objectId")
	if !ok {
		return
	}

	interests, err := h.engine.GetInterestedCount(c.Request.Context(), objectID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if interests == nil {
		interests = []*interest.Interest{}
	}
	response.SuccessResponse(c, http.StatusOK, "", InterestedCount{Count: len(interests), Interests: interests})
}

// AssignOffer handles POST /api/interests/assign. Only the offeror of the
// object may choose the recipient.
func (h *InterestHandler) AssignOffer(c *gin.Context) {
	callerID, ok := caller(c)
	if !ok {
		return
	}

	var req AssignOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}

	obj, err := h.engine.GetObject(c.Request.Context(), req.ObjectID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !requireOfferor(c, obj.OfferorID, callerID) {
		return
	}

	assigned, err := h.engine.AssignOffer(c.Request.Context(), req.ObjectID, req.MemberID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("Offer assigned", "object_id", req.ObjectID, "member_id", req.MemberID)
	response.SuccessResponse(c, http.StatusOK, "offer assigned", assigned)
}

// GetNotifications handles GET /api/interests/notifications
func (h *InterestHandler) GetNotifications(c *gin.Context) {
	memberID, ok := caller(c)
	if !ok {
		return
	}

	notifications, err := h.engine.GetNotifications(c.Request.Context(), memberID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if notifications == nil {
		notifications = []*interest.Interest{}
	}
	response.SuccessResponse(c, http.StatusOK, "", notifications)
}

// DismissNotification handles DELETE /api/interests/notifications/:objectId
func (h *InterestHandler) DismissNotification(c *gin.Context) {
	memberID, ok := caller(c)
	if !ok {
		return
	}
	objectID, ok := idParam(c, "objectId")
	if !ok {
		return
	}

	if err := h.engine.DismissNotification(c.Request.Context(), objectID, memberID); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "notification dismissed", nil)
}
