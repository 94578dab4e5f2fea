// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for productions. A Production is the
// top-level resource: scenes, cast members, contacts, budget line items and
// call sheets all hang off one.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/reelworks/production-runner/internal/model"
)

// ErrProductionNotFound is returned when a production cannot be found.
var ErrProductionNotFound = errors.New("production not found")

// ProductionRepo encapsulates all database queries related to productions.
type ProductionRepo struct {
	db *sql.DB
}

// NewProductionRepo constructs a ProductionRepo with the provided DB handle.
func NewProductionRepo(db *sql.DB) *ProductionRepo {
	return &ProductionRepo{db: db}
}

const productionColumns = "id, owner_id, name, start_date, created_at, updated_at"

func scanProduction(row *sql.Row, p *model.Production) error {
	return row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.StartDate, &p.CreatedAt, &p.UpdatedAt)
}

// Create inserts a new production.  On success the ID and DB-default
// timestamp fields are populated on the given struct.
func (r *ProductionRepo) Create(ctx context.Context, p *model.Production) error {
	const qInsert = "INSERT INTO productions (owner_id, name, start_date) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, p.OwnerID, p.Name, p.StartDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const qSelect = "SELECT " + productionColumns + " FROM productions WHERE id = ?"
	return scanProduction(r.db.QueryRowContext(ctx, qSelect, p.ID), p)
}

// GetByID fetches a production by its ID regardless of owner.
func (r *ProductionRepo) GetByID(ctx context.Context, id uint64) (*model.Production, error) {
	const q = "SELECT " + productionColumns + " FROM productions WHERE id = ?"
	var p model.Production
	if err := scanProduction(r.db.QueryRowContext(ctx, q, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductionNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByIDAndOwner fetches a production only if it belongs to the given
// owner.  A production owned by someone else reports not-found rather than
// leaking its existence.
func (r *ProductionRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Production, error) {
	const q = "SELECT " + productionColumns + " FROM productions WHERE id = ? AND owner_id = ?"
	var p model.Production
	if err := scanProduction(r.db.QueryRowContext(ctx, q, id, ownerID), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductionNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByOwner returns all productions belonging to the given owner, newest
// first.  An owner with no productions gets an empty slice and nil error.
func (r *ProductionRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Production, error) {
	const q = "SELECT " + productionColumns + " FROM productions WHERE owner_id = ? ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Production
	for rows.Next() {
		var p model.Production
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.StartDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Update modifies a production's name and start date if it belongs to the
// owner.  Returns ErrProductionNotFound when the row/ownership doesn't match.
func (r *ProductionRepo) Update(ctx context.Context, p *model.Production, ownerID uint64) error {
	const q = `UPDATE productions SET name = ?, start_date = ?, updated_at = CURRENT_TIMESTAMP
			   WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.StartDate, p.ID, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either missing/foreign or identical values; distinguish for callers.
		const qExists = "SELECT 1 FROM productions WHERE id = ? AND owner_id = ? LIMIT 1"
		var one int
		if err := r.db.QueryRowContext(ctx, qExists, p.ID, ownerID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProductionNotFound
			}
			return err
		}
		return ErrNoChange
	}
	return nil
}

// DeleteByIDAndOwner removes a production and all of its dependent rows in
// one transaction.  ErrProductionNotFound is returned when the row does
// not exist, ErrForbidden when it belongs to another owner.
func (r *ProductionRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
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

	var dbOwnerID uint64
	err = tx.QueryRowContext(ctx, "SELECT owner_id FROM productions WHERE id = ?", id).Scan(&dbOwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductionNotFound
		}
		return err
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}

	// Dependent rows first; deliveries hang off call sheets.
	if _, err = tx.ExecContext(ctx,
		`DELETE dr FROM delivery_recipients dr
		 JOIN deliveries d ON d.id = dr.delivery_id
		 JOIN call_sheets cs ON cs.id = d.call_sheet_id
		 WHERE cs.production_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE d FROM deliveries d
		 JOIN call_sheets cs ON cs.id = d.call_sheet_id
		 WHERE cs.production_id = ?`, id); err != nil {
		return err
	}
	for _, table := range []string{"call_sheets", "budget_items", "scenes", "cast_members", "contacts"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE production_id = ?", id); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM productions WHERE id = ?", id)
	return err
}
