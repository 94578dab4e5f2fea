package model

import "time"

// BudgetLineItem represents one line of a production budget.  Line items
// may be grouped: a parent item (e.g. "Supporting Cast") carries child
// items (one per performer) and, once it has children, its own
// quantity/days/unit-cost fields are ignored in favor of the children's
// sum.  This struct corresponds to a row in the `budget_items` table.
//
// Fields:
//  ID           – primary key identifier.
//  ProductionID – production to which this line item belongs.
//  Name         – line item description.
//  AccountCode  – budget account code (e.g. "1300").
//  Category     – category name, resolved against the production's
//                 category list; unknown names bucket as "Uncategorized".
//  Subcategory  – optional subcategory name.
//  Section      – optional free-text grouping within a category.
//  Quantity     – unit count.
//  Days         – number of days/weeks the rate applies.
//  UnitCostCents – cost per unit per day, in cents.
//  TotalBudgetCents – explicit budgeted total override in cents
//                 (nullable; when set it replaces qty × days × unit cost).
//  ParentID     – parent line item for grouped personnel (nullable).
//  ChildIDs     – comma-joined child item IDs (empty when no children).
//  ContactID    – optional linked contact (nullable).
//  IgnoreTotal  – excludes the item from every aggregate total.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type BudgetLineItem struct {
	ID               uint64    // budget_items.id
	ProductionID     uint64    // budget_items.production_id
	Name             string    // budget_items.name
	AccountCode      string    // budget_items.account_code
	Category         string    // budget_items.category
	Subcategory      string    // budget_items.subcategory
	Section          string    // budget_items.section
	Quantity         int64     // budget_items.quantity
	Days             int64     // budget_items.days
	UnitCostCents    int64     // budget_items.unit_cost_cents
	TotalBudgetCents *int64    // budget_items.total_budget_cents (nullable)
	ParentID         *uint64   // budget_items.parent_id (nullable)
	ChildIDs         string    // budget_items.child_ids (comma-joined)
	ContactID        *uint64   // budget_items.contact_id (nullable)
	IgnoreTotal      bool      // budget_items.ignore_total
	CreatedAt        time.Time // budget_items.created_at
	UpdatedAt        time.Time // budget_items.updated_at
}
