// This file defines repository methods for the production contact book,
// the recipient pool for call sheet deliveries.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/reelworks/production-runner/internal/model"
)

// ErrContactNotFound is returned when a contact cannot be found.
var ErrContactNotFound = errors.New("contact not found")

// ContactRepo manages persistence for contacts.
type ContactRepo struct {
	db *sql.DB
}

// NewContactRepo constructs a ContactRepo with the given DB handle.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

const contactColumns = "id, production_id, name, department, email, phone, created_at, updated_at"

func scanContact(scanner interface{ Scan(...any) error }, c *model.Contact) error {
	return scanner.Scan(&c.ID, &c.ProductionID, &c.Name, &c.Department, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a contact and populates DB-default fields.
func (r *ContactRepo) Create(ctx context.Context, c *model.Contact) error {
	const qInsert = "INSERT INTO contacts (production_id, name, department, email, phone) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, c.ProductionID, c.Name, c.Department, c.Email, c.Phone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const qSelect = "SELECT " + contactColumns + " FROM contacts WHERE id = ?"
	return scanContact(r.db.QueryRowContext(ctx, qSelect, c.ID), c)
}

// GetByIDAndProduction fetches one contact scoped to its production.
func (r *ContactRepo) GetByIDAndProduction(ctx context.Context, id, productionID uint64) (*model.Contact, error) {
	const q = "SELECT " + contactColumns + " FROM contacts WHERE id = ? AND production_id = ?"
	var c model.Contact
	if err := scanContact(r.db.QueryRowContext(ctx, q, id, productionID), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByProduction returns a production's contacts ordered by name.
func (r *ContactRepo) ListByProduction(ctx context.Context, productionID uint64) ([]model.Contact, error) {
	const q = "SELECT " + contactColumns + " FROM contacts WHERE production_id = ? ORDER BY name ASC"
	rows, err := r.db.QueryContext(ctx, q, productionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Contact
	for rows.Next() {
		var c model.Contact
		if err := scanContact(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// ListByIDs returns the production's contacts matching the given ids, in
// the order the ids were supplied.  Unknown ids are skipped, not errors;
// the caller decides whether a missing recipient matters.
func (r *ContactRepo) ListByIDs(ctx context.Context, productionID uint64, ids []uint64) ([]model.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	q := "SELECT " + contactColumns + " FROM contacts WHERE production_id = ? AND id IN (" + placeholders + ")"
	args := make([]any, 0, len(ids)+1)
	args = append(args, productionID)
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	byID := make(map[uint64]model.Contact, len(ids))
	for rows.Next() {
		var c model.Contact
		if err := scanContact(rows, &c); err != nil {
			return nil, err
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]model.Contact, 0, len(byID))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

// Update rewrites a contact's editable fields.
func (r *ContactRepo) Update(ctx context.Context, c *model.Contact) error {
	const q = `UPDATE contacts SET name = ?, department = ?, email = ?, phone = ?, updated_at = CURRENT_TIMESTAMP
			   WHERE id = ? AND production_id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Department, c.Email, c.Phone, c.ID, c.ProductionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		const qExists = "SELECT 1 FROM contacts WHERE id = ? AND production_id = ? LIMIT 1"
		var one int
		if err := r.db.QueryRowContext(ctx, qExists, c.ID, c.ProductionID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrContactNotFound
			}
			return err
		}
		return ErrNoChange
	}
	return nil
}

// Delete removes a contact.
func (r *ContactRepo) Delete(ctx context.Context, id, productionID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ? AND production_id = ?", id, productionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContactNotFound
	}
	return nil
}
