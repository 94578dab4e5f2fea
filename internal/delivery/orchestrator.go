// Package delivery implements the call sheet delivery orchestrator: a
// strictly sequential per-recipient send loop with pending → sending →
// {sent | failed} recipient states, failed-only resend and an SMS provider
// status poll.  Transports are injected interfaces so tests can substitute
// fakes; the package never reaches for process-wide singletons.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reelworks/production-runner/internal/model"
)

// ErrNoRecipients is returned when a send is attempted with an empty
// recipient list.  This is a synchronous validation failure; no transport
// is contacted.
var ErrNoRecipients = errors.New("delivery has no recipients")

// SMSSender is the outbound SMS transport contract.  Send returns the
// provider message id used later for status polling.
type SMSSender interface {
	Send(ctx context.Context, to, body, mediaURL string) (messageID string, err error)
	Status(ctx context.Context, messageID string) (string, error)
}

// EmailSender is the outbound email transport contract.  Email is
// fire-and-forget: no delivery confirmation is ever obtainable.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body, attachmentURL string) error
}

// Document is the externally rendered call sheet being delivered.
type Document struct {
	Subject string // email subject / SMS header line
	Body    string // message body
	URL     string // rendered document URL, attached or linked
}

// Progress is published to the observer after every recipient so a caller
// can render a "currently sending" indicator and a monotonic sent/total
// fraction.  Sequential processing keeps both well-defined.
type Progress struct {
	CurrentName string // recipient currently being processed ("" when done)
	Done        int    // recipients processed so far
	Total       int    // total recipients in this batch
}

// Orchestrator sends call sheets through the configured transports.
type Orchestrator struct {
	sms      SMSSender
	email    EmailSender
	progress func(Progress)
	now      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProgress registers an observer invoked before and after each
// recipient.  The observer runs on the orchestrator's own loop; it must
// not block for long.
func WithProgress(fn func(Progress)) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// withClock overrides the timestamp source in tests.
func withClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New constructs an Orchestrator around the given transports.
func New(sms SMSSender, email EmailSender, opts ...Option) *Orchestrator {
	o := &Orchestrator{sms: sms, email: email, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Send delivers a document to every recipient in order, one at a time.
// Each recipient's failure (missing contact field, transport error) is
// recorded on that recipient and never aborts the rest of the batch:
// partial failure is the normal terminal state of a delivery, not an
// error.  The returned delivery carries every recipient's final state.
func (o *Orchestrator) Send(ctx context.Context, callSheetID uint64, doc Document, recipients []model.DeliveryRecipient) (model.CallSheetDelivery, error) {
	if len(recipients) == 0 {
		return model.CallSheetDelivery{}, ErrNoRecipients
	}

	d := model.CallSheetDelivery{
		ID:          uuid.NewString(),
		CallSheetID: callSheetID,
		Recipients:  make([]model.DeliveryRecipient, len(recipients)),
		CreatedAt:   o.now(),
	}
	for i, r := range recipients {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		r.DeliveryID = d.ID
		r.Status = model.RecipientStatusPending
		d.Recipients[i] = r
	}

	for i := range d.Recipients {
		o.attempt(ctx, doc, &d.Recipients[i], i, len(d.Recipients))
	}
	o.report(Progress{Done: len(d.Recipients), Total: len(d.Recipients)})

	sentAt := o.now()
	d.SentAt = &sentAt
	return d, nil
}

// ResendFailed re-runs the send loop restricted to recipients currently in
// failed state.  Every other recipient keeps its prior status and
// timestamps verbatim.
func (o *Orchestrator) ResendFailed(ctx context.Context, d model.CallSheetDelivery, doc Document) model.CallSheetDelivery {
	total := 0
	for _, r := range d.Recipients {
		if r.Status == model.RecipientStatusFailed {
			total++
		}
	}
	done := 0
	for i := range d.Recipients {
		if d.Recipients[i].Status != model.RecipientStatusFailed {
			continue
		}
		d.Recipients[i].Error = ""
		o.attempt(ctx, doc, &d.Recipients[i], done, total)
		done++
	}
	o.report(Progress{Done: total, Total: total})
	if total > 0 {
		sentAt := o.now()
		d.SentAt = &sentAt
	}
	return d
}

// RefreshStatuses polls the SMS provider for every SMS recipient in sent or
// sending state with a known provider message id, overwriting local status
// and timestamps with the provider's view.  Email recipients and
// recipients never successfully dispatched are skipped.
func (o *Orchestrator) RefreshStatuses(ctx context.Context, d model.CallSheetDelivery) model.CallSheetDelivery {
	for i := range d.Recipients {
		r := &d.Recipients[i]
		if r.Method != model.DeliveryMethodSMS || r.MessageID == nil {
			continue
		}
		if r.Status != model.RecipientStatusSent && r.Status != model.RecipientStatusSending {
			continue
		}
		provider, err := o.sms.Status(ctx, *r.MessageID)
		if err != nil {
			continue // poll failures leave prior state untouched
		}
		o.applyProviderStatus(r, provider)
	}
	return d
}

// attempt drives one recipient through sending → {sent | failed}.
func (o *Orchestrator) attempt(ctx context.Context, doc Document, r *model.DeliveryRecipient, done, total int) {
	r.Status = model.RecipientStatusSending
	o.report(Progress{CurrentName: r.Name, Done: done, Total: total})

	var err error
	switch r.Method {
	case model.DeliveryMethodSMS:
		if r.Phone == nil || *r.Phone == "" {
			err = errors.New("recipient has no phone number")
			break
		}
		var msgID string
		msgID, err = o.sms.Send(ctx, *r.Phone, doc.Subject+"\n"+doc.Body, doc.URL)
		if err == nil {
			r.MessageID = &msgID
		}
	case model.DeliveryMethodEmail:
		if r.Email == nil || *r.Email == "" {
			err = errors.New("recipient has no email address")
			break
		}
		err = o.email.Send(ctx, *r.Email, doc.Subject, doc.Body, doc.URL)
	default:
		err = fmt.Errorf("unknown delivery method %q", r.Method)
	}

	if err != nil {
		r.Status = model.RecipientStatusFailed
		r.Error = err.Error()
		return
	}
	now := o.now()
	r.Status = model.RecipientStatusSent
	r.SentAt = &now
}

// applyProviderStatus maps the provider status vocabulary onto recipient
// state.  Unknown provider values leave the recipient untouched.
func (o *Orchestrator) applyProviderStatus(r *model.DeliveryRecipient, provider string) {
	now := o.now()
	switch provider {
	case "delivered":
		r.Status = model.RecipientStatusDelivered
		if r.DeliveredAt == nil {
			r.DeliveredAt = &now
		}
	case "read", "viewed":
		r.Status = model.RecipientStatusViewed
		if r.ViewedAt == nil {
			r.ViewedAt = &now
		}
	case "confirmed":
		r.Status = model.RecipientStatusConfirmed
		if r.ConfirmedAt == nil {
			r.ConfirmedAt = &now
		}
	case "failed", "undelivered":
		r.Status = model.RecipientStatusFailed
		r.Error = "provider reported " + provider
	}
}

func (o *Orchestrator) report(p Progress) {
	if o.progress != nil {
		o.progress(p)
	}
}
