// This file defines repository methods for cast members, the rows of the
// Day-Out-of-Days report.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/reelworks/production-runner/internal/model"
)

// ErrCastMemberNotFound is returned when a cast member cannot be found.
var ErrCastMemberNotFound = errors.New("cast member not found")

// CastRepo manages persistence for cast members.
type CastRepo struct {
	db *sql.DB
}

// NewCastRepo constructs a CastRepo with the given DB handle.
func NewCastRepo(db *sql.DB) *CastRepo {
	return &CastRepo{db: db}
}

const castColumns = "id, production_id, cast_number, name, role, contact_id, created_at, updated_at"

func scanCastMember(scanner interface{ Scan(...any) error }, m *model.CastMember) error {
	return scanner.Scan(&m.ID, &m.ProductionID, &m.CastNumber, &m.Name, &m.Role, &m.ContactID, &m.CreatedAt, &m.UpdatedAt)
}

// Create inserts a cast member and populates DB-default fields.
func (r *CastRepo) Create(ctx context.Context, m *model.CastMember) error {
	const qInsert = "INSERT INTO cast_members (production_id, cast_number, name, role, contact_id) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, m.ProductionID, m.CastNumber, m.Name, m.Role, m.ContactID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const qSelect = "SELECT " + castColumns + " FROM cast_members WHERE id = ?"
	return scanCastMember(r.db.QueryRowContext(ctx, qSelect, m.ID), m)
}

// GetByIDAndProduction fetches one cast member scoped to its production.
func (r *CastRepo) GetByIDAndProduction(ctx context.Context, id, productionID uint64) (*model.CastMember, error) {
	const q = "SELECT " + castColumns + " FROM cast_members WHERE id = ? AND production_id = ?"
	var m model.CastMember
	if err := scanCastMember(r.db.QueryRowContext(ctx, q, id, productionID), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCastMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListByProduction returns a production's cast ordered by board number.
func (r *CastRepo) ListByProduction(ctx context.Context, productionID uint64) ([]model.CastMember, error) {
	const q = "SELECT " + castColumns + " FROM cast_members WHERE production_id = ? ORDER BY cast_number ASC"
	rows, err := r.db.QueryContext(ctx, q, productionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.CastMember
	for rows.Next() {
		var m model.CastMember
		if err := scanCastMember(rows, &m); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// Update rewrites a cast member's editable fields.
func (r *CastRepo) Update(ctx context.Context, m *model.CastMember) error {
	const q = `UPDATE cast_members SET cast_number = ?, name = ?, role = ?, contact_id = ?, updated_at = CURRENT_TIMESTAMP
			   WHERE id = ? AND production_id = ?`
	res, err := r.db.ExecContext(ctx, q, m.CastNumber, m.Name, m.Role, m.ContactID, m.ID, m.ProductionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		const qExists = "SELECT 1 FROM cast_members WHERE id = ? AND production_id = ? LIMIT 1"
		var one int
		if err := r.db.QueryRowContext(ctx, qExists, m.ID, m.ProductionID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCastMemberNotFound
			}
			return err
		}
		return ErrNoChange
	}
	return nil
}

// Delete removes a cast member.
func (r *CastRepo) Delete(ctx context.Context, id, productionID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cast_members WHERE id = ? AND production_id = ?", id, productionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCastMemberNotFound
	}
	return nil
}
