package handler // handler package contains owner-specific call sheet handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reelworks/production-runner/internal/model"
	"github.com/reelworks/production-runner/internal/repository"
	"github.com/reelworks/production-runner/internal/transport"
)

// callSheetBody is the JSON payload for creating or updating a call sheet.
type callSheetBody struct {
	DayNumber    uint32 `json:"day_number"`
	ShootDate    string `json:"shoot_date"` // "YYYY-MM-DD"
	LocationName string `json:"location_name"`
	Address      string `json:"address"`
	GeneralCall  string `json:"general_call"`
	DocumentURL  string `json:"document_url"`
}

func (b callSheetBody) toModel(productionID uint64) (model.CallSheet, string) {
	if b.DayNumber == 0 {
		return model.CallSheet{}, "day_number is required"
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(b.ShootDate)); err != nil {
		return model.CallSheet{}, "shoot_date must be YYYY-MM-DD"
	}
	return model.CallSheet{
		ProductionID: productionID,
		DayNumber:    b.DayNumber,
		ShootDate:    strings.TrimSpace(b.ShootDate),
		LocationName: strings.TrimSpace(b.LocationName),
		Address:      strings.TrimSpace(b.Address),
		GeneralCall:  strings.TrimSpace(b.GeneralCall),
		DocumentURL:  strings.TrimSpace(b.DocumentURL),
	}, ""
}

// CreateCallSheet handles POST /v1/productions/:id/call-sheets.
func (h *OwnerHandler) CreateCallSheet(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	var body callSheetBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	cs, msg := body.toModel(productionID)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	if err := h.CallSheets.Create(c.Request().Context(), &cs); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create call sheet"})
	}
	return c.JSON(http.StatusCreated, cs)
}

// ListCallSheets handles GET /v1/productions/:id/call-sheets.
func (h *OwnerHandler) ListCallSheets(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	items, err := h.CallSheets.ListByProduction(c.Request().Context(), productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// GetCallSheet handles GET /v1/productions/:id/call-sheets/:sheetId with
// delivery history attached.
func (h *OwnerHandler) GetCallSheet(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	sheetID, err := pathID(c, "sheetId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid call sheet id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	cs, err := h.CallSheets.GetByIDAndProduction(c.Request().Context(), sheetID, productionID)
	if err != nil {
		if err == repository.ErrCallSheetNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "call sheet not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	deliveries, err := h.Deliveries.ListByCallSheet(c.Request().Context(), sheetID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"call_sheet": cs, "deliveries": deliveries})
}

// UpdateCallSheet handles PUT /v1/productions/:id/call-sheets/:sheetId.
// Coordinates reset to zero so the next weather request re-geocodes the
// possibly changed address.
func (h *OwnerHandler) UpdateCallSheet(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	sheetID, err := pathID(c, "sheetId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid call sheet id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	var body callSheetBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	cs, msg := body.toModel(productionID)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	cs.ID = sheetID
	if err := h.CallSheets.Update(c.Request().Context(), &cs); err != nil {
		switch err {
		case repository.ErrCallSheetNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{"error": "call sheet not found"})
		case repository.ErrNoChange:
			// fall through and return the stored row
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update call sheet"})
		}
	}
	stored, err := h.CallSheets.GetByIDAndProduction(c.Request().Context(), sheetID, productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, stored)
}

// DeleteCallSheet handles DELETE /v1/productions/:id/call-sheets/:sheetId.
// The delivery history goes with the sheet.
func (h *OwnerHandler) DeleteCallSheet(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	sheetID, err := pathID(c, "sheetId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid call sheet id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	if err := h.CallSheets.Delete(c.Request().Context(), sheetID, productionID); err != nil {
		if err == repository.ErrCallSheetNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "call sheet not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete call sheet"})
	}
	return c.NoContent(http.StatusNoContent)
}

// CallSheetWeather handles GET /v1/productions/:id/call-sheets/:sheetId/weather.
// The address is geocoded lazily: coordinates are resolved and stored on
// first request, then reused.
func (h *OwnerHandler) CallSheetWeather(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	sheetID, err := pathID(c, "sheetId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid call sheet id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	cs, err := h.CallSheets.GetByIDAndProduction(c.Request().Context(), sheetID, productionID)
	if err != nil {
		if err == repository.ErrCallSheetNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "call sheet not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	lat, lon := cs.Latitude, cs.Longitude
	if lat == 0 && lon == 0 {
		coord, err := h.Geocoder.Geocode(c.Request().Context(), cs.Address)
		if err != nil {
			switch err {
			case transport.ErrEmptyAddress:
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "call sheet has no address"})
			case transport.ErrAddressNotFound:
				return c.JSON(http.StatusNotFound, map[string]string{"error": "address could not be geocoded"})
			default:
				return c.JSON(http.StatusBadGateway, map[string]string{"error": "geocoding failed"})
			}
		}
		lat, lon = coord.Latitude, coord.Longitude
		if err := h.CallSheets.UpdateCoordinates(c.Request().Context(), sheetID, productionID, lat, lon); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}
	}

	date, err := time.Parse("2006-01-02", cs.ShootDate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "stored shoot date is invalid"})
	}
	fc, err := h.Weather.Forecast(c.Request().Context(), lat, lon, date)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "weather lookup failed"})
	}
	return c.JSON(http.StatusOK, fc)
}
