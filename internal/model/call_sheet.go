package model

import "time"

// CallSheet represents the daily call sheet for one shoot day.  The
// rendered document itself is produced outside this service; only its
// location is stored here so the delivery orchestrator can attach it.
// This struct corresponds to a row in the `call_sheets` table.
//
// Fields:
//  ID           – primary key identifier.
//  ProductionID – production to which this call sheet belongs.
//  DayNumber    – shoot day number (1-based).
//  ShootDate    – calendar date of the shoot day.
//  LocationName – display name of the primary location.
//  Address      – street address of the primary location.
//  Latitude     – location latitude (0 when not geocoded yet).
//  Longitude    – location longitude (0 when not geocoded yet).
//  GeneralCall  – general crew call time string (e.g. "07:00").
//  DocumentURL  – URL of the externally rendered call sheet document.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type CallSheet struct {
	ID           uint64    // call_sheets.id
	ProductionID uint64    // call_sheets.production_id
	DayNumber    uint32    // call_sheets.day_number
	ShootDate    string    // call_sheets.shoot_date ("YYYY-MM-DD")
	LocationName string    // call_sheets.location_name
	Address      string    // call_sheets.address
	Latitude     float64   // call_sheets.latitude
	Longitude    float64   // call_sheets.longitude
	GeneralCall  string    // call_sheets.general_call
	DocumentURL  string    // call_sheets.document_url
	CreatedAt    time.Time // call_sheets.created_at
	UpdatedAt    time.Time // call_sheets.updated_at
}
