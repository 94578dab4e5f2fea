// Package queue defines message payloads exchanged over the message broker.
package queue

// CallSheetSentEvent is published after a call sheet delivery batch
// finishes. It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
type CallSheetSentEvent struct {
	DeliveryID     string `json:"delivery_id"`
	CallSheetID    uint64 `json:"call_sheet_id"`
	ProductionID   uint64 `json:"production_id"`
	ProductionName string `json:"production_name"`
	DayNumber      uint32 `json:"day_number"`
	ShootDate      string `json:"shoot_date"`
	Recipients     int    `json:"recipients"`
	Sent           int    `json:"sent"`
	Failed         int    `json:"failed"`
	SentAt         string `json:"sent_at"`
}
