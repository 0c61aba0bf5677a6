package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Naya-01/PAE/internal/response"
	"github.com/Naya-01/PAE/internal/services"
)

type TypeHandler struct {
	types *services.TypeService
}

func NewTypeHandler(types *services.TypeService) *TypeHandler {
	return &TypeHandler{types: types}
}

// GetType handles GET /api/types/:id
func (h *TypeHandler) GetType(c *gin.Context) {
	typeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	t, err := h.types.GetType(c.Request.Context(), typeID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", t)
}

// GetTypeByName handles GET /api/types/name/:name
func (h *TypeHandler) GetTypeByName(c *gin.Context) {
	t, err := h.types.GetTypeByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", t)
}

// GetDefaultTypes handles GET /api/types/defaults
func (h *TypeHandler) GetDefaultTypes(c *gin.Context) {
	types, err := h.types.GetDefaultTypes(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", types)
}
