// This file defines repository methods for budget line items. Grouped
// personnel items keep a denormalized child-id list on the parent row;
// every write that touches group membership rewrites that list inside the
// same transaction so a deleted child can never linger in a parent's total.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/reelworks/production-runner/internal/budget"
	"github.com/reelworks/production-runner/internal/model"
)

// ErrBudgetItemNotFound is returned when a budget line item cannot be found.
var ErrBudgetItemNotFound = errors.New("budget item not found")

// BudgetRepo manages persistence for budget line items.
type BudgetRepo struct {
	db *sql.DB
}

// NewBudgetRepo constructs a BudgetRepo with the given DB handle.
func NewBudgetRepo(db *sql.DB) *BudgetRepo {
	return &BudgetRepo{db: db}
}

const budgetColumns = `id, production_id, name, account_code, category, subcategory, section,
	   quantity, days, unit_cost_cents, total_budget_cents, parent_id, child_ids, contact_id, ignore_total,
	   created_at, updated_at`

func scanBudgetItem(scanner interface{ Scan(...any) error }, it *model.BudgetLineItem) error {
	return scanner.Scan(&it.ID, &it.ProductionID, &it.Name, &it.AccountCode, &it.Category, &it.Subcategory,
		&it.Section, &it.Quantity, &it.Days, &it.UnitCostCents, &it.TotalBudgetCents, &it.ParentID,
		&it.ChildIDs, &it.ContactID, &it.IgnoreTotal, &it.CreatedAt, &it.UpdatedAt)
}

// Create inserts a line item.  When the item has a parent (a personnel
// group member) the parent's child-id list is extended in the same
// transaction.
func (r *BudgetRepo) Create(ctx context.Context, it *model.BudgetLineItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	const qInsert = `INSERT INTO budget_items
		(production_id, name, account_code, category, subcategory, section,
		 quantity, days, unit_cost_cents, total_budget_cents, parent_id, child_ids, contact_id, ignore_total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var res sql.Result
	res, err = tx.ExecContext(ctx, qInsert,
		it.ProductionID, it.Name, it.AccountCode, it.Category, it.Subcategory, it.Section,
		it.Quantity, it.Days, it.UnitCostCents, it.TotalBudgetCents, it.ParentID, it.ChildIDs, it.ContactID, it.IgnoreTotal)
	if err != nil {
		return err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)

	if it.ParentID != nil {
		if err = r.appendChildTx(ctx, tx, *it.ParentID, it.ProductionID, it.ID); err != nil {
			return err
		}
	}

	const qSelect = "SELECT " + budgetColumns + " FROM budget_items WHERE id = ?"
	err = scanBudgetItem(tx.QueryRowContext(ctx, qSelect, it.ID), it)
	return err
}

// appendChildTx adds childID to the parent's child-id list, locking the
// parent row for the duration of the transaction.
func (r *BudgetRepo) appendChildTx(ctx context.Context, tx *sql.Tx, parentID, productionID, childID uint64) error {
	var childIDs string
	err := tx.QueryRowContext(ctx,
		"SELECT child_ids FROM budget_items WHERE id = ? AND production_id = ? FOR UPDATE",
		parentID, productionID).Scan(&childIDs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBudgetItemNotFound
		}
		return err
	}
	ids := append(budget.ParseChildIDs(childIDs), childID)
	_, err = tx.ExecContext(ctx,
		"UPDATE budget_items SET child_ids = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		budget.JoinChildIDs(ids), parentID)
	return err
}

// GetByIDAndProduction fetches one line item scoped to its production.
func (r *BudgetRepo) GetByIDAndProduction(ctx context.Context, id, productionID uint64) (*model.BudgetLineItem, error) {
	const q = "SELECT " + budgetColumns + " FROM budget_items WHERE id = ? AND production_id = ?"
	var it model.BudgetLineItem
	if err := scanBudgetItem(r.db.QueryRowContext(ctx, q, id, productionID), &it); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBudgetItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

// ListByProduction returns every line item of a production ordered by
// account code.  This flat collection is the aggregation layer's input.
func (r *BudgetRepo) ListByProduction(ctx context.Context, productionID uint64) ([]model.BudgetLineItem, error) {
	const q = "SELECT " + budgetColumns + " FROM budget_items WHERE production_id = ? ORDER BY account_code ASC, id ASC"
	rows, err := r.db.QueryContext(ctx, q, productionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.BudgetLineItem
	for rows.Next() {
		var it model.BudgetLineItem
		if err := scanBudgetItem(rows, &it); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

// Update replaces a line item's editable fields by identity.  Group
// membership (parent_id, child_ids) is managed by Create and Delete, not
// here, so an edit can never detach a child accidentally.
func (r *BudgetRepo) Update(ctx context.Context, it *model.BudgetLineItem) error {
	const q = `UPDATE budget_items SET
				   name = ?, account_code = ?, category = ?, subcategory = ?, section = ?,
				   quantity = ?, days = ?, unit_cost_cents = ?, total_budget_cents = ?, contact_id = ?, ignore_total = ?,
				   updated_at = CURRENT_TIMESTAMP
			   WHERE id = ? AND production_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		it.Name, it.AccountCode, it.Category, it.Subcategory, it.Section,
		it.Quantity, it.Days, it.UnitCostCents, it.TotalBudgetCents, it.ContactID, it.IgnoreTotal,
		it.ID, it.ProductionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		const qExists = "SELECT 1 FROM budget_items WHERE id = ? AND production_id = ? LIMIT 1"
		var one int
		if err := r.db.QueryRowContext(ctx, qExists, it.ID, it.ProductionID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBudgetItemNotFound
			}
			return err
		}
		return ErrNoChange
	}
	return nil
}

// Delete removes a line item.  A child's id is dropped from its parent's
// child-id list in the same transaction — skipping that rewrite would
// orphan the child's amount inside the parent's group total.  Deleting a
// parent also deletes its children.
func (r *BudgetRepo) Delete(ctx context.Context, id, productionID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var it model.BudgetLineItem
	const qGet = "SELECT " + budgetColumns + " FROM budget_items WHERE id = ? AND production_id = ? FOR UPDATE"
	err = scanBudgetItem(tx.QueryRowContext(ctx, qGet, id, productionID), &it)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBudgetItemNotFound
		}
		return err
	}

	if it.ParentID != nil {
		if err = r.removeChildTx(ctx, tx, *it.ParentID, id); err != nil {
			return err
		}
	}
	if childIDs := budget.ParseChildIDs(it.ChildIDs); len(childIDs) > 0 {
		if _, err = tx.ExecContext(ctx, "DELETE FROM budget_items WHERE parent_id = ?", id); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM budget_items WHERE id = ?", id)
	return err
}

// removeChildTx rewrites the parent's child-id list without childID.
func (r *BudgetRepo) removeChildTx(ctx context.Context, tx *sql.Tx, parentID, childID uint64) error {
	var childIDs string
	err := tx.QueryRowContext(ctx,
		"SELECT child_ids FROM budget_items WHERE id = ? FOR UPDATE", parentID).Scan(&childIDs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil // parent already gone; nothing to rewrite
		}
		return err
	}
	ids := budget.ParseChildIDs(childIDs)
	kept := ids[:0]
	for _, cid := range ids {
		if cid != childID {
			kept = append(kept, cid)
		}
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE budget_items SET child_ids = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		budget.JoinChildIDs(kept), parentID)
	return err
}

// ClearAll removes every line item of a production and reports how many
// rows were deleted.
func (r *BudgetRepo) ClearAll(ctx context.Context, productionID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM budget_items WHERE production_id = ?", productionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
