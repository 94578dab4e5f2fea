package handler // handler package contains owner-specific contact book handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/reelworks/production-runner/internal/model"
	"github.com/reelworks/production-runner/internal/repository"
	"github.com/reelworks/production-runner/internal/transport"
)

// contactBody is the JSON payload for creating or updating a contact.
type contactBody struct {
	Name       string  `json:"name"`
	Department string  `json:"department"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
}

// toModel trims the payload and normalizes the phone number to E.164 so
// the SMS transport never sees a bare 10-digit string.
func (b contactBody) toModel(productionID uint64) (model.Contact, string) {
	if strings.TrimSpace(b.Name) == "" {
		return model.Contact{}, "name is required"
	}
	ct := model.Contact{
		ProductionID: productionID,
		Name:         strings.TrimSpace(b.Name),
		Department:   strings.TrimSpace(b.Department),
	}
	if b.Email != nil && strings.TrimSpace(*b.Email) != "" {
		email := strings.ToLower(strings.TrimSpace(*b.Email))
		ct.Email = &email
	}
	if b.Phone != nil && strings.TrimSpace(*b.Phone) != "" {
		phone := transport.NormalizePhone(strings.TrimSpace(*b.Phone))
		ct.Phone = &phone
	}
	return ct, ""
}

// CreateContact handles POST /v1/productions/:id/contacts.
func (h *OwnerHandler) CreateContact(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	var body contactBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	ct, msg := body.toModel(productionID)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	if err := h.Contacts.Create(c.Request().Context(), &ct); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create contact"})
	}
	return c.JSON(http.StatusCreated, ct)
}

// ListContacts handles GET /v1/productions/:id/contacts.
func (h *OwnerHandler) ListContacts(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	items, err := h.Contacts.ListByProduction(c.Request().Context(), productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// UpdateContact handles PUT /v1/productions/:id/contacts/:contactId.
func (h *OwnerHandler) UpdateContact(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	contactID, err := pathID(c, "contactId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid contact id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	var body contactBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	ct, msg := body.toModel(productionID)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	ct.ID = contactID
	if err := h.Contacts.Update(c.Request().Context(), &ct); err != nil {
		switch err {
		case repository.ErrContactNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{"error": "contact not found"})
		case repository.ErrNoChange:
			// idempotent update
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
		}
	}
	updated, err := h.Contacts.GetByIDAndProduction(c.Request().Context(), contactID, productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteContact handles DELETE /v1/productions/:id/contacts/:contactId.
func (h *OwnerHandler) DeleteContact(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	contactID, err := pathID(c, "contactId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid contact id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	if err := h.Contacts.Delete(c.Request().Context(), contactID, productionID); err != nil {
		if err == repository.ErrContactNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "contact not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
