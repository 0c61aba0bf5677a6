package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/Naya-01/PAE/internal/domain/lifecycle"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/domain/offer"
	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/response"
)

type OfferHandler struct {
	engine *lifecycle.Engine
	log    *log.Logger
}

func NewOfferHandler(engine *lifecycle.Engine) *OfferHandler {
	return &OfferHandler{
		engine: engine,
		log:    logger.Handler("offer"),
	}
}

// ListOffers handles GET /api/offers
func (h *OfferHandler) ListOffers(c *gin.Context) {
	filter := offer.Filter{
		Search:   strings.TrimSpace(c.Query("search")),
		TypeName: strings.TrimSpace(c.Query("type")),
	}

	if raw := c.Query("offeror"); raw != "" {
		offerorID, err := strconv.Atoi(raw)
		if err != nil || offerorID <= 0 {
			response.BadRequestError(c, "offeror must be a positive integer")
			return
		}
		filter.OfferorID = offerorID
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := object.ParseStatus(raw)
		if !ok {
			response.BadRequestError(c, "unknown status "+strconv.Quote(raw))
			return
		}
		filter.ObjectStatus = &status
	}

	offers, err := h.engine.ListOffers(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", offers)
}

// GetLastOffers handles GET /api/offers/last
func (h *OfferHandler) GetLastOffers(c *gin.Context) {
	offers, err := h.engine.GetLastOffers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", offers)
}

// GetOffer handles GET /api/offers/:id
func (h *OfferHandler) GetOffer(c *gin.Context) {
	offerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	o, err := h.engine.GetOffer(c.Request.Context(), offerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", o)
}

// CreateOffer handles POST /api/offers. A body carrying object_id offers a
// cancelled object again.
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	memberID, ok := caller(c)
	if !ok {
		return
	}

	var req offer.NewOffer
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}
	req.OfferorID = memberID

	created, err := h.engine.AddOffer(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("Offer created", "offer_id", created.ID, "object_id", created.ObjectID, "member_id", memberID)
	response.SuccessResponse(c, http.StatusCreated, "offer created", created)
}

// UpdateOffer handles PUT /api/offers/:id
func (h *OfferHandler) UpdateOffer(c *gin.Context) {
	o, memberID, ok := h.ownedOffer(c)
	if !ok {
		return
	}

	var req offer.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}

	updated, err := h.engine.UpdateOffer(c.Request.Context(), o.ID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("Offer updated", "offer_id", o.ID, "member_id", memberID)
	response.SuccessResponse(c, http.StatusOK, "offer updated", updated)
}

// CancelOffer handles POST /api/offers/:id/cancel
func (h *OfferHandler) CancelOffer(c *gin.Context) {
	o, memberID, ok := h.ownedOffer(c)
	if !ok {
		return
	}

	cancelled, err := h.engine.CancelOffer(c.Request.Context(), o.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("Offer cancelled", "offer_id", o.ID, "member_id", memberID)
	response.SuccessResponse(c, http.StatusOK, "offer cancelled", cancelled)
}

// ownedOffer loads the offer named by the path and checks the caller offers its object
func (h *OfferHandler) ownedOffer(c *gin.Context) (*offer.Offer, int, bool) {
	memberID, ok := caller(c)
	if !ok {
		return nil, 0, false
	}
	offerID, ok := idParam(c, "id")
	if !ok {
		return nil, 0, false
	}

	o, err := h.engine.GetOffer(c.Request.Context(), offerID)
	if err != nil {
		response.FromError(c, err)
		return nil, 0, false
	}
	if !requireOfferor(c, o.Object.OfferorID, memberID) {
		return nil, 0, false
	}
	return o, memberID, true
}
