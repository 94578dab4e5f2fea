package handler // handler package contains owner-specific cast member handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/reelworks/production-runner/internal/model"
	"github.com/reelworks/production-runner/internal/repository"
)

// castBody is the JSON payload for creating or updating a cast member.
type castBody struct {
	CastNumber uint32  `json:"cast_number"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	ContactID  *uint64 `json:"contact_id"`
}

func (b castBody) validate() string {
	if b.CastNumber == 0 {
		return "cast_number is required"
	}
	if strings.TrimSpace(b.Name) == "" {
		return "name is required"
	}
	return ""
}

// CreateCastMember handles POST /v1/productions/:id/cast.
func (h *OwnerHandler) CreateCastMember(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	var body castBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	m := &model.CastMember{
		ProductionID: productionID,
		CastNumber:   body.CastNumber,
		Name:         strings.TrimSpace(body.Name),
		Role:         strings.TrimSpace(body.Role),
		ContactID:    body.ContactID,
	}
	if err := h.Cast.Create(c.Request().Context(), m); err != nil {
		if strings.Contains(err.Error(), "1062") { // duplicate board number
			return c.JSON(http.StatusConflict, map[string]string{"error": "cast number already in use"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create cast member"})
	}
	return c.JSON(http.StatusCreated, m)
}

// ListCastMembers handles GET /v1/productions/:id/cast.
func (h *OwnerHandler) ListCastMembers(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	items, err := h.Cast.ListByProduction(c.Request().Context(), productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// UpdateCastMember handles PUT /v1/productions/:id/cast/:castId.
func (h *OwnerHandler) UpdateCastMember(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	castID, err := pathID(c, "castId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid cast id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	var body castBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	m := &model.CastMember{
		ID:           castID,
		ProductionID: productionID,
		CastNumber:   body.CastNumber,
		Name:         strings.TrimSpace(body.Name),
		Role:         strings.TrimSpace(body.Role),
		ContactID:    body.ContactID,
	}
	if err := h.Cast.Update(c.Request().Context(), m); err != nil {
		switch err {
		case repository.ErrCastMemberNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{"error": "cast member not found"})
		case repository.ErrNoChange:
			// idempotent update
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
		}
	}
	updated, err := h.Cast.GetByIDAndProduction(c.Request().Context(), castID, productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteCastMember handles DELETE /v1/productions/:id/cast/:castId.
func (h *OwnerHandler) DeleteCastMember(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	castID, err := pathID(c, "castId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid cast id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	if err := h.Cast.Delete(c.Request().Context(), castID, productionID); err != nil {
		if err == repository.ErrCastMemberNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "cast member not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
