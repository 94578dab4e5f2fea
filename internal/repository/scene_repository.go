// This file defines repository methods for scenes: the strips on a
// production's stripboard. Scene order (the position column) defines the
// shoot sequence and is the schedule builder's input; reordering rewrites
// positions atomically so the board never ends up half-shuffled.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/reelworks/production-runner/internal/model"
)

// ErrSceneNotFound is returned when a scene cannot be found.
var ErrSceneNotFound = errors.New("scene not found")

// SceneRepo manages persistence for scenes.
type SceneRepo struct {
	db *sql.DB
}

// NewSceneRepo constructs a SceneRepo with the given DB handle.
func NewSceneRepo(db *sql.DB) *SceneRepo {
	return &SceneRepo{db: db}
}

const sceneColumns = "id, production_id, number, kind, heading, page_eighths, position, cast_ids, location, notes, created_at, updated_at"

func scanScene(scanner interface{ Scan(...any) error }, s *model.Scene) error {
	return scanner.Scan(&s.ID, &s.ProductionID, &s.Number, &s.Kind, &s.Heading,
		&s.PageEighths, &s.Position, &s.CastIDs, &s.Location, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
}

// Create inserts a scene at the end of the production's board.  The
// position is assigned from the current maximum inside a transaction so
// concurrent inserts cannot collide.
func (r *SceneRepo) Create(ctx context.Context, s *model.Scene) error {
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

	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), 0) + 1 FROM scenes WHERE production_id = ? FOR UPDATE",
		s.ProductionID).Scan(&s.Position)
	if err != nil {
		return err
	}

	const qInsert = `INSERT INTO scenes (production_id, number, kind, heading, page_eighths, position, cast_ids, location, notes)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		s.ProductionID, s.Number, s.Kind, s.Heading, s.PageEighths, s.Position, s.CastIDs, s.Location, s.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = "SELECT " + sceneColumns + " FROM scenes WHERE id = ?"
	err = scanScene(tx.QueryRowContext(ctx, qSelect, s.ID), s)
	return err
}

// BulkCreate appends a batch of scenes (a stripboard import) in one
// transaction, preserving the order given.
func (r *SceneRepo) BulkCreate(ctx context.Context, productionID uint64, scenes []model.Scene) error {
	if len(scenes) == 0 {
		return nil
	}
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

	var next uint32
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), 0) + 1 FROM scenes WHERE production_id = ? FOR UPDATE",
		productionID).Scan(&next)
	if err != nil {
		return err
	}

	const qInsert = `INSERT INTO scenes (production_id, number, kind, heading, page_eighths, position, cast_ids, location, notes)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range scenes {
		s := &scenes[i]
		s.ProductionID = productionID
		s.Position = next
		next++
		var res sql.Result
		res, err = tx.ExecContext(ctx, qInsert,
			s.ProductionID, s.Number, s.Kind, s.Heading, s.PageEighths, s.Position, s.CastIDs, s.Location, s.Notes)
		if err != nil {
			return err
		}
		var id int64
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		s.ID = uint64(id)
	}
	return nil
}

// GetByIDAndProduction fetches one scene scoped to its production.
func (r *SceneRepo) GetByIDAndProduction(ctx context.Context, id, productionID uint64) (*model.Scene, error) {
	const q = "SELECT " + sceneColumns + " FROM scenes WHERE id = ? AND production_id = ?"
	var s model.Scene
	if err := scanScene(r.db.QueryRowContext(ctx, q, id, productionID), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSceneNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByProduction returns a production's scenes in board order.  This is
// the exact input order the one-liner builder expects.
func (r *SceneRepo) ListByProduction(ctx context.Context, productionID uint64) ([]model.Scene, error) {
	const q = "SELECT " + sceneColumns + " FROM scenes WHERE production_id = ? ORDER BY position ASC"
	rows, err := r.db.QueryContext(ctx, q, productionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Scene
	for rows.Next() {
		var s model.Scene
		if err := scanScene(rows, &s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Update rewrites a scene's editable fields.  Position is not touched
// here; use Reorder for that.
func (r *SceneRepo) Update(ctx context.Context, s *model.Scene) error {
	const q = `UPDATE scenes SET number = ?, kind = ?, heading = ?, page_eighths = ?, cast_ids = ?, location = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
			   WHERE id = ? AND production_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		s.Number, s.Kind, s.Heading, s.PageEighths, s.CastIDs, s.Location, s.Notes, s.ID, s.ProductionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		const qExists = "SELECT 1 FROM scenes WHERE id = ? AND production_id = ? LIMIT 1"
		var one int
		if err := r.db.QueryRowContext(ctx, qExists, s.ID, s.ProductionID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSceneNotFound
			}
			return err
		}
		return ErrNoChange
	}
	return nil
}

// Delete removes one scene from the board.
func (r *SceneRepo) Delete(ctx context.Context, id, productionID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM scenes WHERE id = ? AND production_id = ?", id, productionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSceneNotFound
	}
	return nil
}

// Reorder rewrites the position column so that the production's scenes
// follow orderedIDs exactly.  The id list must cover every scene of the
// production; a count mismatch aborts with ErrConflict so a stale client
// cannot silently drop strips off the board.
func (r *SceneRepo) Reorder(ctx context.Context, productionID uint64, orderedIDs []uint64) error {
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

	// Lock and collect the board's current ids, then demand an exact match
	// with the requested ordering before touching anything.
	existing := map[uint64]bool{}
	var rows *sql.Rows
	rows, err = tx.QueryContext(ctx,
		"SELECT id FROM scenes WHERE production_id = ? FOR UPDATE", productionID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var id uint64
		if err = rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		existing[id] = true
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if len(existing) != len(orderedIDs) {
		err = ErrConflict
		return err
	}
	seen := map[uint64]bool{}
	for _, id := range orderedIDs {
		if !existing[id] || seen[id] {
			err = ErrSceneNotFound
			return err
		}
		seen[id] = true
	}

	const q = "UPDATE scenes SET position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND production_id = ?"
	for i, id := range orderedIDs {
		if _, err = tx.ExecContext(ctx, q, uint32(i+1), id, productionID); err != nil {
			return err
		}
	}
	return nil
}
