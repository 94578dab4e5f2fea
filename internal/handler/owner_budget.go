package handler // handler package contains owner-specific budget handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/reelworks/production-runner/internal/budget"
	"github.com/reelworks/production-runner/internal/model"
	"github.com/reelworks/production-runner/internal/repository"
)

// budgetItemBody is the JSON payload for creating or updating a line item.
// Parent linkage is set on create only; group membership does not change
// through an edit.
type budgetItemBody struct {
	Name             string  `json:"name"`
	AccountCode      string  `json:"account_code"`
	Category         string  `json:"category"`
	Subcategory      string  `json:"subcategory"`
	Section          string  `json:"section"`
	Quantity         int64   `json:"quantity"`
	Days             int64   `json:"days"`
	UnitCostCents    int64   `json:"unit_cost_cents"`
	TotalBudgetCents *int64  `json:"total_budget_cents"`
	ParentID         *uint64 `json:"parent_id"`
	ContactID        *uint64 `json:"contact_id"`
	IgnoreTotal      bool    `json:"ignore_total"`
}

func (b budgetItemBody) toModel(productionID uint64) (model.BudgetLineItem, string) {
	if strings.TrimSpace(b.Name) == "" {
		return model.BudgetLineItem{}, "name is required"
	}
	if b.Quantity < 0 || b.Days < 0 || b.UnitCostCents < 0 {
		return model.BudgetLineItem{}, "quantity, days and unit_cost_cents must be >= 0"
	}
	return model.BudgetLineItem{
		ProductionID:     productionID,
		Name:             strings.TrimSpace(b.Name),
		AccountCode:      strings.TrimSpace(b.AccountCode),
		Category:         strings.TrimSpace(b.Category),
		Subcategory:      strings.TrimSpace(b.Subcategory),
		Section:          strings.TrimSpace(b.Section),
		Quantity:         b.Quantity,
		Days:             b.Days,
		UnitCostCents:    b.UnitCostCents,
		TotalBudgetCents: b.TotalBudgetCents,
		ParentID:         b.ParentID,
		ContactID:        b.ContactID,
		IgnoreTotal:      b.IgnoreTotal,
	}, ""
}

// CreateBudgetItem handles POST /v1/productions/:id/budget.  When parent_id
// is set the new item joins that parent's personnel group.
func (h *OwnerHandler) CreateBudgetItem(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	var body budgetItemBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	it, msg := body.toModel(productionID)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	if err := h.Budget.Create(c.Request().Context(), &it); err != nil {
		if err == repository.ErrBudgetItemNotFound { // parent does not exist
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "parent item not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create budget item"})
	}
	return c.JSON(http.StatusCreated, it)
}

// ListBudgetItems handles GET /v1/productions/:id/budget.
func (h *OwnerHandler) ListBudgetItems(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	items, err := h.Budget.ListByProduction(c.Request().Context(), productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// UpdateBudgetItem handles PUT /v1/productions/:id/budget/:itemId.  The
// stored item is replaced by identity; parent/child linkage is untouched.
func (h *OwnerHandler) UpdateBudgetItem(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid item id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	var body budgetItemBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	it, msg := body.toModel(productionID)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	it.ID = itemID
	if err := h.Budget.Update(c.Request().Context(), &it); err != nil {
		switch err {
		case repository.ErrBudgetItemNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{"error": "budget item not found"})
		case repository.ErrNoChange:
			// idempotent update
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
		}
	}
	updated, err := h.Budget.GetByIDAndProduction(c.Request().Context(), itemID, productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteBudgetItem handles DELETE /v1/productions/:id/budget/:itemId.
// Deleting a child also rewrites the parent's child-id list; deleting a
// parent removes its children.
func (h *OwnerHandler) DeleteBudgetItem(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid item id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	if err := h.Budget.Delete(c.Request().Context(), itemID, productionID); err != nil {
		if err == repository.ErrBudgetItemNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "budget item not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearBudget handles POST /v1/productions/:id/budget/clear-all and removes
// every line item of the production.
func (h *OwnerHandler) ClearBudget(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	deleted, err := h.Budget.ClearAll(c.Request().Context(), productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "clear failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{"deleted": deleted})
}

// BudgetSummary handles GET /v1/productions/:id/budget/summary: category
// and section subtotals, the grand total and per-item variances.
func (h *OwnerHandler) BudgetSummary(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	items, err := h.Budget.ListByProduction(c.Request().Context(), productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, budget.Summarize(items))
}
