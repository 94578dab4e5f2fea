package model

import "time"

// Scene kinds as stored in scenes.kind.  Day break and off day rows are
// markers on the stripboard, not shootable scenes; the one-liner builder
// interprets them when grouping scenes into shoot days.
const (
	SceneKindScene    = "SCENE"     // a shootable scene
	SceneKindDayBreak = "DAY_BREAK" // end-of-day marker on the stripboard
	SceneKindOffDay   = "OFF_DAY"   // calendar day with no shooting
)

// Scene represents one strip on a production's stripboard.  Scenes are
// ordered by Position; that order defines the shoot sequence and is a
// precondition for schedule generation, never inferred.  This struct
// corresponds to a row in the `scenes` table.
//
// Fields:
//  ID          – primary key identifier.
//  ProductionID – production to which this scene belongs.
//  Number      – scene number as printed in the script (e.g. "23A").
//  Kind        – SCENE, DAY_BREAK or OFF_DAY.
//  Heading     – free-text slugline (e.g. "INT. KITCHEN - DAY").
//  PageEighths – scene length in eighths of a page (>= 0).
//  Position    – ordering key within the production's stripboard.
//  CastIDs     – comma-joined cast member IDs appearing in the scene.
//  Location    – shooting location string.
//  Notes       – optional scheduling notes (nullable).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Scene struct {
	ID           uint64    // scenes.id
	ProductionID uint64    // scenes.production_id
	Number       string    // scenes.number
	Kind         string    // scenes.kind
	Heading      string    // scenes.heading
	PageEighths  int       // scenes.page_eighths
	Position     uint32    // scenes.position
	CastIDs      string    // scenes.cast_ids (comma-joined)
	Location     string    // scenes.location
	Notes        *string   // scenes.notes (nullable)
	CreatedAt    time.Time // scenes.created_at
	UpdatedAt    time.Time // scenes.updated_at
}
