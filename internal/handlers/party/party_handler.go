// internal/handlers/party/party_handler.go
package party

import (
	"errors"
	"net/http"
	"strconv"

	"greenwell-service/internal/domain/party"
	xerrors "greenwell-service/internal/pkg/errors"
	"greenwell-service/internal/pkg/response"
	partysvc "greenwell-service/internal/service/party"

	"github.com/gin-gonic/gin"
)

type PartyHandler struct {
	service *partysvc.PartyService
}

func NewPartyHandler(service *partysvc.PartyService) *PartyHandler {
	return &PartyHandler{service: service}
}

// ListParties handles GET /parties
func (h *PartyHandler) ListParties(c *gin.Context) {
	filters := party.ListFilters{
		Search: c.Query("search"),
		Type:   c.Query("type"),
	}
	if v := c.Query("active"); v != "" {
		active := v == "true"
		filters.Active = &active
	}

	parties, err := h.service.ListParties(c.Request.Context(), filters)
	if err != nil {
		response.Internal(c, "failed to list parties")
		return
	}

	response.OK(c, http.StatusOK, parties)
}

// GetParty handles GET /parties/:id
func (h *PartyHandler) GetParty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid party id", nil)
		return
	}

	p, err := h.service.GetParty(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "party not found")
			return
		}
		response.Internal(c, "failed to load party")
		return
	}

	response.OK(c, http.StatusOK, p)
}

// CreateParty handles POST /parties
func (h *PartyHandler) CreateParty(c *gin.Context) {
	var req party.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid party payload", nil)
		return
	}

	p, err := h.service.CreateParty(c.Request.Context(), &req)
	if err != nil {
		response.Internal(c, "failed to create party")
		return
	}

	response.OK(c, http.StatusCreated, p)
}

// UpdateParty handles PUT /parties/:id
func (h *PartyHandler) UpdateParty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid party id", nil)
		return
	}

	var req party.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid party payload", nil)
		return
	}

	p, err := h.service.UpdateParty(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "party not found")
			return
		}
		response.Internal(c, "failed to update party")
		return
	}

	response.OK(c, http.StatusOK, p)
}

// ActivateParty handles PUT /parties/:id/activate
func (h *PartyHandler) ActivateParty(c *gin.Context) {
	h.setActive(c, true)
}

// DeactivateParty handles PUT /parties/:id/deactivate
func (h *PartyHandler) DeactivateParty(c *gin.Context) {
	h.setActive(c, false)
}

func (h *PartyHandler) setActive(c *gin.Context, active bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid party id", nil)
		return
	}

	if err := h.service.SetPartyActive(c.Request.Context(), id, active); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "party not found")
			return
		}
		response.Internal(c, "failed to update party")
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "party updated"})
}
