// This file defines repository methods for call sheet deliveries and
// their per-recipient state.  A delivery and its recipient rows are
// written atomically; the orchestrator then updates recipient rows as the
// send loop and the provider status poll advance them.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/reelworks/production-runner/internal/model"
)

// ErrDeliveryNotFound is returned when a delivery cannot be found.
var ErrDeliveryNotFound = errors.New("delivery not found")

// DeliveryRepo manages persistence for call sheet deliveries.
type DeliveryRepo struct {
	db *sql.DB
}

// NewDeliveryRepo constructs a DeliveryRepo with the given DB handle.
func NewDeliveryRepo(db *sql.DB) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

const recipientColumns = `id, delivery_id, contact_id, name, email, phone, method, status, error,
	   message_id, sent_at, delivered_at, viewed_at, confirmed_at`

func scanRecipient(scanner interface{ Scan(...any) error }, rec *model.DeliveryRecipient) error {
	return scanner.Scan(&rec.ID, &rec.DeliveryID, &rec.ContactID, &rec.Name, &rec.Email, &rec.Phone,
		&rec.Method, &rec.Status, &rec.Error, &rec.MessageID,
		&rec.SentAt, &rec.DeliveredAt, &rec.ViewedAt, &rec.ConfirmedAt)
}

// Create inserts a delivery together with all of its recipient rows in one
// transaction so a send can never start against a half-written batch.
func (r *DeliveryRepo) Create(ctx context.Context, d *model.CallSheetDelivery) error {
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

	const qDelivery = "INSERT INTO deliveries (id, call_sheet_id, sent_at) VALUES (?, ?, ?)"
	if _, err = tx.ExecContext(ctx, qDelivery, d.ID, d.CallSheetID, d.SentAt); err != nil {
		return err
	}
	const qRecipient = `INSERT INTO delivery_recipients
		(id, delivery_id, seq, contact_id, name, email, phone, method, status, error, message_id,
		 sent_at, delivered_at, viewed_at, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range d.Recipients {
		rec := &d.Recipients[i]
		rec.DeliveryID = d.ID
		if _, err = tx.ExecContext(ctx, qRecipient,
			rec.ID, rec.DeliveryID, i+1, rec.ContactID, rec.Name, rec.Email, rec.Phone,
			rec.Method, rec.Status, rec.Error, rec.MessageID,
			rec.SentAt, rec.DeliveredAt, rec.ViewedAt, rec.ConfirmedAt); err != nil {
			return err
		}
	}
	err = tx.QueryRowContext(ctx, "SELECT created_at FROM deliveries WHERE id = ?", d.ID).Scan(&d.CreatedAt)
	return err
}

// GetByIDAndOwner fetches a delivery only when the chain delivery →
// call sheet → production resolves to the given owner.
func (r *DeliveryRepo) GetByIDAndOwner(ctx context.Context, id string, ownerID uint64) (*model.CallSheetDelivery, error) {
	const q = `SELECT d.id, d.call_sheet_id, d.sent_at, d.created_at
			   FROM deliveries d
			   JOIN call_sheets cs ON cs.id = d.call_sheet_id
			   JOIN productions p ON p.id = cs.production_id
			   WHERE d.id = ? AND p.owner_id = ?`
	var d model.CallSheetDelivery
	if err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(&d.ID, &d.CallSheetID, &d.SentAt, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeliveryNotFound
		}
		return nil, err
	}
	recipients, err := r.listRecipients(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Recipients = recipients
	return &d, nil
}

// ListByCallSheet returns the delivery history of a call sheet, newest
// first, with recipients attached.
func (r *DeliveryRepo) ListByCallSheet(ctx context.Context, callSheetID uint64) ([]model.CallSheetDelivery, error) {
	const q = "SELECT id, call_sheet_id, sent_at, created_at FROM deliveries WHERE call_sheet_id = ? ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, callSheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.CallSheetDelivery
	for rows.Next() {
		var d model.CallSheetDelivery
		if err := rows.Scan(&d.ID, &d.CallSheetID, &d.SentAt, &d.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		recipients, err := r.listRecipients(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Recipients = recipients
	}
	return result, nil
}

func (r *DeliveryRepo) listRecipients(ctx context.Context, deliveryID string) ([]model.DeliveryRecipient, error) {
	// seq preserves the original send order across reloads.
	const q = "SELECT " + recipientColumns + " FROM delivery_recipients WHERE delivery_id = ? ORDER BY seq ASC"
	rows, err := r.db.QueryContext(ctx, q, deliveryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recipients []model.DeliveryRecipient
	for rows.Next() {
		var rec model.DeliveryRecipient
		if err := scanRecipient(rows, &rec); err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

// UpdateRecipient persists one recipient's current state.  Called after
// each send attempt and after each provider status refresh.
func (r *DeliveryRepo) UpdateRecipient(ctx context.Context, rec *model.DeliveryRecipient) error {
	const q = `UPDATE delivery_recipients SET
				   status = ?, error = ?, message_id = ?,
				   sent_at = ?, delivered_at = ?, viewed_at = ?, confirmed_at = ?
			   WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		rec.Status, rec.Error, rec.MessageID,
		rec.SentAt, rec.DeliveredAt, rec.ViewedAt, rec.ConfirmedAt, rec.ID)
	return err
}

// MarkSent records when a delivery's send loop finished.
func (r *DeliveryRepo) MarkSent(ctx context.Context, d *model.CallSheetDelivery) error {
	const q = "UPDATE deliveries SET sent_at = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, q, d.SentAt, d.ID)
	return err
}
