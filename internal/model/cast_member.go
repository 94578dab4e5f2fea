package model

import "time"

// CastMember represents a cast member attached to a production.  Cast
// members appear in scenes (via Scene.CastIDs) and in the Day-Out-of-Days
// report.  This struct corresponds to a row in the `cast_members` table.
//
// Fields:
//  ID           – primary key identifier.
//  ProductionID – production to which this cast member belongs.
//  CastNumber   – board number used on strips and DOOD rows (1-based).
//  Name         – performer name.
//  Role         – character or role name.
//  ContactID    – optional link into the contacts table (nullable).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type CastMember struct {
	ID           uint64    // cast_members.id
	ProductionID uint64    // cast_members.production_id
	CastNumber   uint32    // cast_members.cast_number
	Name         string    // cast_members.name
	Role         string    // cast_members.role
	ContactID    *uint64   // cast_members.contact_id (nullable)
	CreatedAt    time.Time // cast_members.created_at
	UpdatedAt    time.Time // cast_members.updated_at
}
