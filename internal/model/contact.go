package model

import "time"

// Contact represents an entry in a production's contact book.  Contacts
// are the recipient pool for call sheet deliveries: a delivery recipient
// is built from a contact plus a chosen delivery method.  This struct
// corresponds to a row in the `contacts` table.
//
// Fields:
//  ID           – primary key identifier.
//  ProductionID – production to which this contact belongs.
//  Name         – display name.
//  Department   – crew department or "CAST".
//  Email        – email address (nullable; required for email delivery).
//  Phone        – phone number (nullable; required for SMS delivery).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Contact struct {
	ID           uint64    // contacts.id
	ProductionID uint64    // contacts.production_id
	Name         string    // contacts.name
	Department   string    // contacts.department
	Email        *string   // contacts.email (nullable)
	Phone        *string   // contacts.phone (nullable)
	CreatedAt    time.Time // contacts.created_at
	UpdatedAt    time.Time // contacts.updated_at
}
