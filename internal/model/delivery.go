package model

import "time"

// Delivery methods for a recipient.  Each method is dispatched to a
// distinct external transport.
const (
	DeliveryMethodEmail = "email"
	DeliveryMethodSMS   = "sms"
)

// Recipient statuses.  The orchestrator drives pending → sending →
// {sent | failed}; sent SMS recipients may later advance to delivered,
// viewed or confirmed via the provider status poll.  Email has no
// confirmation channel and terminates at sent.
const (
	RecipientStatusPending   = "pending"
	RecipientStatusSending   = "sending"
	RecipientStatusSent      = "sent"
	RecipientStatusDelivered = "delivered"
	RecipientStatusViewed    = "viewed"
	RecipientStatusConfirmed = "confirmed"
	RecipientStatusFailed    = "failed"
)

// DeliveryRecipient tracks one recipient of a call sheet delivery.
// This struct corresponds to a row in the `delivery_recipients` table.
//
// Fields:
//  ID          – primary key identifier (UUID).
//  DeliveryID  – parent delivery identifier (UUID).
//  ContactID   – contact this recipient was built from.
//  Name        – display name snapshot at send time.
//  Email       – email address snapshot (nullable).
//  Phone       – phone number snapshot (nullable).
//  Method      – chosen delivery channel (email|sms).
//  Status      – current recipient status (see constants above).
//  Error       – transport or validation error message when failed.
//  MessageID   – provider message identifier for SMS (nullable).
//  SentAt      – when the transport accepted the message (nullable).
//  DeliveredAt – when the provider reported delivery (nullable).
//  ViewedAt    – when the provider reported the message was read (nullable).
//  ConfirmedAt – when the recipient confirmed receipt (nullable).
type DeliveryRecipient struct {
	ID          string     // delivery_recipients.id (UUID)
	DeliveryID  string     // delivery_recipients.delivery_id (UUID)
	ContactID   uint64     // delivery_recipients.contact_id
	Name        string     // delivery_recipients.name
	Email       *string    // delivery_recipients.email (nullable)
	Phone       *string    // delivery_recipients.phone (nullable)
	Method      string     // delivery_recipients.method
	Status      string     // delivery_recipients.status
	Error       string     // delivery_recipients.error
	MessageID   *string    // delivery_recipients.message_id (nullable)
	SentAt      *time.Time // delivery_recipients.sent_at (nullable)
	DeliveredAt *time.Time // delivery_recipients.delivered_at (nullable)
	ViewedAt    *time.Time // delivery_recipients.viewed_at (nullable)
	ConfirmedAt *time.Time // delivery_recipients.confirmed_at (nullable)
}

// CallSheetDelivery records one "send" action for a call sheet: the full
// recipient list and when the batch completed.  A resend does not create
// a new delivery; it re-attempts the failed recipients of an existing one.
// This struct corresponds to a row in the `deliveries` table.
//
// Fields:
//  ID          – primary key identifier (UUID).
//  CallSheetID – call sheet that was sent.
//  Recipients  – per-recipient delivery state, in send order.
//  SentAt      – when the batch loop finished (nullable until then).
//  CreatedAt   – creation timestamp.
type CallSheetDelivery struct {
	ID          string              // deliveries.id (UUID)
	CallSheetID uint64              // deliveries.call_sheet_id
	Recipients  []DeliveryRecipient // delivery_recipients rows, send order
	SentAt      *time.Time          // deliveries.sent_at (nullable)
	CreatedAt   time.Time           // deliveries.created_at
}
