// This file defines repository methods for call sheets.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/reelworks/production-runner/internal/model"
)

// ErrCallSheetNotFound is returned when a call sheet cannot be found.
var ErrCallSheetNotFound = errors.New("call sheet not found")

// CallSheetRepo manages persistence for call sheets.
type CallSheetRepo struct {
	db *sql.DB
}

// NewCallSheetRepo constructs a CallSheetRepo with the given DB handle.
func NewCallSheetRepo(db *sql.DB) *CallSheetRepo {
	return &CallSheetRepo{db: db}
}

const callSheetColumns = `id, production_id, day_number, shoot_date, location_name, address,
	   latitude, longitude, general_call, document_url, created_at, updated_at`

func scanCallSheet(scanner interface{ Scan(...any) error }, cs *model.CallSheet) error {
	return scanner.Scan(&cs.ID, &cs.ProductionID, &cs.DayNumber, &cs.ShootDate, &cs.LocationName,
		&cs.Address, &cs.Latitude, &cs.Longitude, &cs.GeneralCall, &cs.DocumentURL,
		&cs.CreatedAt, &cs.UpdatedAt)
}

// Create inserts a call sheet and reloads the stored row.
func (r *CallSheetRepo) Create(ctx context.Context, cs *model.CallSheet) error {
	const qInsert = `INSERT INTO call_sheets
		(production_id, day_number, shoot_date, location_name, address, latitude, longitude, general_call, document_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		cs.ProductionID, cs.DayNumber, cs.ShootDate, cs.LocationName, cs.Address,
		cs.Latitude, cs.Longitude, cs.GeneralCall, cs.DocumentURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	const qSelect = "SELECT " + callSheetColumns + " FROM call_sheets WHERE id = ?"
	return scanCallSheet(r.db.QueryRowContext(ctx, qSelect, id), cs)
}

// GetByID fetches one call sheet without a production filter.  Callers
// must have verified ownership through another path, e.g. the delivery →
// call sheet → production join.
func (r *CallSheetRepo) GetByID(ctx context.Context, id uint64) (*model.CallSheet, error) {
	const q = "SELECT " + callSheetColumns + " FROM call_sheets WHERE id = ?"
	var cs model.CallSheet
	if err := scanCallSheet(r.db.QueryRowContext(ctx, q, id), &cs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCallSheetNotFound
		}
		return nil, err
	}
	return &cs, nil
}

// GetByIDAndProduction fetches one call sheet scoped to its production.
func (r *CallSheetRepo) GetByIDAndProduction(ctx context.Context, id, productionID uint64) (*model.CallSheet, error) {
	const q = "SELECT " + callSheetColumns + " FROM call_sheets WHERE id = ? AND production_id = ?"
	var cs model.CallSheet
	if err := scanCallSheet(r.db.QueryRowContext(ctx, q, id, productionID), &cs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCallSheetNotFound
		}
		return nil, err
	}
	return &cs, nil
}

// ListByProduction returns a production's call sheets in shoot order.
func (r *CallSheetRepo) ListByProduction(ctx context.Context, productionID uint64) ([]model.CallSheet, error) {
	const q = "SELECT " + callSheetColumns + " FROM call_sheets WHERE production_id = ? ORDER BY shoot_date ASC, day_number ASC"
	rows, err := r.db.QueryContext(ctx, q, productionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.CallSheet
	for rows.Next() {
		var cs model.CallSheet
		if err := scanCallSheet(rows, &cs); err != nil {
			return nil, err
		}
		result = append(result, cs)
	}
	return result, rows.Err()
}

// Update replaces a call sheet's editable fields by identity.
func (r *CallSheetRepo) Update(ctx context.Context, cs *model.CallSheet) error {
	const q = `UPDATE call_sheets SET
				   day_number = ?, shoot_date = ?, location_name = ?, address = ?,
				   latitude = ?, longitude = ?, general_call = ?, document_url = ?,
				   updated_at = CURRENT_TIMESTAMP
			   WHERE id = ? AND production_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		cs.DayNumber, cs.ShootDate, cs.LocationName, cs.Address,
		cs.Latitude, cs.Longitude, cs.GeneralCall, cs.DocumentURL,
		cs.ID, cs.ProductionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		const qExists = "SELECT 1 FROM call_sheets WHERE id = ? AND production_id = ? LIMIT 1"
		var one int
		if err := r.db.QueryRowContext(ctx, qExists, cs.ID, cs.ProductionID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCallSheetNotFound
			}
			return err
		}
		return ErrNoChange
	}
	return nil
}

// UpdateCoordinates stores geocoded coordinates for a call sheet's
// address.  Called after a successful forward-geocode lookup.
func (r *CallSheetRepo) UpdateCoordinates(ctx context.Context, id, productionID uint64, lat, lon float64) error {
	const q = `UPDATE call_sheets SET latitude = ?, longitude = ?, updated_at = CURRENT_TIMESTAMP
			   WHERE id = ? AND production_id = ?`
	res, err := r.db.ExecContext(ctx, q, lat, lon, id, productionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		const qExists = "SELECT 1 FROM call_sheets WHERE id = ? AND production_id = ? LIMIT 1"
		var one int
		if err := r.db.QueryRowContext(ctx, qExists, id, productionID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCallSheetNotFound
			}
			return err
		}
		// same coordinates written twice is not an error for this path
	}
	return nil
}

// Delete removes a call sheet along with its delivery history.
func (r *CallSheetRepo) Delete(ctx context.Context, id, productionID uint64) error {
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

	const qExists = "SELECT 1 FROM call_sheets WHERE id = ? AND production_id = ? LIMIT 1"
	var one int
	if err = tx.QueryRowContext(ctx, qExists, id, productionID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCallSheetNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE dr FROM delivery_recipients dr
		 JOIN deliveries d ON d.id = dr.delivery_id
		 WHERE d.call_sheet_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM deliveries WHERE call_sheet_id = ?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM call_sheets WHERE id = ?", id)
	return err
}
