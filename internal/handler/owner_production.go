package handler // handler package contains owner-specific production handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reelworks/production-runner/internal/model"
	"github.com/reelworks/production-runner/internal/repository"
)

// productionBody is the JSON payload for creating or updating a production.
type productionBody struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"` // "YYYY-MM-DD", optional
}

// parseStartDate validates the optional start_date field.
func parseStartDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateProduction handles POST /v1/productions.
func (h *OwnerHandler) CreateProduction(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	var body productionBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	startDate, err := parseStartDate(body.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "start_date must be YYYY-MM-DD"})
	}
	p := &model.Production{OwnerID: ownerID, Name: name, StartDate: startDate}
	if err := h.Productions.Create(c.Request().Context(), p); err != nil {
		if strings.Contains(err.Error(), "1062") { // duplicate name per owner
			return c.JSON(http.StatusConflict, map[string]string{"error": "production name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create production"})
	}
	return c.JSON(http.StatusCreated, p)
}

// ListProductions handles GET /v1/productions.
func (h *OwnerHandler) ListProductions(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	items, err := h.Productions.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// GetProduction handles GET /v1/productions/:id.
func (h *OwnerHandler) GetProduction(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	p, err := h.Productions.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrProductionNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "production not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateProduction handles PUT /v1/productions/:id.
func (h *OwnerHandler) UpdateProduction(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body productionBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	startDate, err := parseStartDate(body.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "start_date must be YYYY-MM-DD"})
	}
	p := &model.Production{ID: id, Name: name, StartDate: startDate}
	if err := h.Productions.Update(c.Request().Context(), p, ownerID); err != nil {
		switch err {
		case repository.ErrProductionNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{"error": "production not found"})
		case repository.ErrNoChange:
			// idempotent update; fall through and return the current row
		default:
			if strings.Contains(err.Error(), "1062") {
				return c.JSON(http.StatusConflict, map[string]string{"error": "production name already exists"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
		}
	}
	updated, err := h.Productions.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteProduction handles DELETE /v1/productions/:id.  The repository
// cascades over scenes, cast, contacts, budget items, call sheets and
// delivery history in one transaction.
func (h *OwnerHandler) DeleteProduction(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Productions.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		switch err {
		case repository.ErrProductionNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{"error": "production not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
