package model

import "time"

// Production represents a film or TV production managed by an owner.
// A production owns scenes, cast members, budget line items and call
// sheets.  This struct corresponds to a row in the `productions` table.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user ID of the production owner.
//  Name      – unique production name per owner.
//  StartDate – first shoot date used as the schedule anchor (nullable).
//  CreatedAt – timestamp when the production was created.
//  UpdatedAt – timestamp of last update.
type Production struct {
	ID        uint64     // productions.id
	OwnerID   uint64     // productions.owner_id
	Name      string     // productions.name
	StartDate *time.Time // productions.start_date (nullable)
	CreatedAt time.Time  // productions.created_at
	UpdatedAt time.Time  // productions.updated_at
}
