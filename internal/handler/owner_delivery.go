package handler // handler package contains call sheet delivery handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reelworks/production-runner/internal/delivery"
	"github.com/reelworks/production-runner/internal/model"
	"github.com/reelworks/production-runner/internal/queue"
	"github.com/reelworks/production-runner/internal/repository"
	queue_publisher "github.com/reelworks/production-runner/internal/service"
)

// recipientBody selects one contact and a delivery channel.
type recipientBody struct {
	ContactID uint64 `json:"contact_id"`
	Method    string `json:"method"` // email | sms
}

// callSheetDocument builds the outgoing message from a stored call sheet.
// The rendered document itself lives at DocumentURL; the message body is a
// short plain-text summary.
func callSheetDocument(p *model.Production, cs *model.CallSheet) delivery.Document {
	subject := fmt.Sprintf("%s — Call Sheet — Day %d (%s)", p.Name, cs.DayNumber, cs.ShootDate)
	var b strings.Builder
	fmt.Fprintf(&b, "Shoot day %d on %s.\n", cs.DayNumber, cs.ShootDate)
	if cs.GeneralCall != "" {
		fmt.Fprintf(&b, "General call: %s.\n", cs.GeneralCall)
	}
	if cs.LocationName != "" {
		fmt.Fprintf(&b, "Location: %s", cs.LocationName)
		if cs.Address != "" {
			fmt.Fprintf(&b, ", %s", cs.Address)
		}
		b.WriteString(".\n")
	}
	return delivery.Document{Subject: subject, Body: b.String(), URL: cs.DocumentURL}
}

// SendCallSheet handles POST /v1/productions/:id/call-sheets/:sheetId/deliveries.
// Recipients are snapshots of contacts at send time; the batch is sent
// sequentially and stored with each recipient's terminal state.
func (h *OwnerHandler) SendCallSheet(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	sheetID, err := pathID(c, "sheetId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid call sheet id"})
	}
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	p, err := h.Productions.GetByIDAndOwner(c.Request().Context(), productionID, ownerID)
	if err != nil {
		return productionGuardError(c, err)
	}
	cs, err := h.CallSheets.GetByIDAndProduction(c.Request().Context(), sheetID, productionID)
	if err != nil {
		if err == repository.ErrCallSheetNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "call sheet not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	var body struct {
		Recipients []recipientBody `json:"recipients"`
	}
	if err := c.Bind(&body); err != nil || len(body.Recipients) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "recipients is required"})
	}

	ids := make([]uint64, 0, len(body.Recipients))
	methodByContact := make(map[uint64]string, len(body.Recipients))
	for _, r := range body.Recipients {
		method := strings.ToLower(strings.TrimSpace(r.Method))
		if method != model.DeliveryMethodEmail && method != model.DeliveryMethodSMS {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "method must be email or sms"})
		}
		ids = append(ids, r.ContactID)
		methodByContact[r.ContactID] = method
	}
	contacts, err := h.Contacts.ListByIDs(c.Request().Context(), productionID, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if len(contacts) != len(ids) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown contact in recipients"})
	}

	recipients := make([]model.DeliveryRecipient, len(contacts))
	for i, ct := range contacts {
		recipients[i] = model.DeliveryRecipient{
			ContactID: ct.ID,
			Name:      ct.Name,
			Email:     ct.Email,
			Phone:     ct.Phone,
			Method:    methodByContact[ct.ID],
		}
	}

	d, err := h.Orchestrator.Send(c.Request().Context(), sheetID, callSheetDocument(p, cs), recipients)
	if err != nil {
		if err == delivery.ErrNoRecipients {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "recipients is required"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "send failed"})
	}
	if err := h.Deliveries.Create(c.Request().Context(), &d); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not store delivery"})
	}

	publishDeliveryEvent(p, cs, d)
	return c.JSON(http.StatusCreated, d)
}

// publishDeliveryEvent fires the callsheet.sent event without blocking the
// response; publish failures are logged by the publisher and dropped.
func publishDeliveryEvent(p *model.Production, cs *model.CallSheet, d model.CallSheetDelivery) {
	sent, failed := 0, 0
	for _, r := range d.Recipients {
		switch r.Status {
		case model.RecipientStatusFailed:
			failed++
		default:
			sent++
		}
	}
	sentAt := ""
	if d.SentAt != nil {
		sentAt = d.SentAt.UTC().Format(time.RFC3339)
	}
	ev := queue.CallSheetSentEvent{
		DeliveryID:     d.ID,
		CallSheetID:    cs.ID,
		ProductionID:   p.ID,
		ProductionName: p.Name,
		DayNumber:      cs.DayNumber,
		ShootDate:      cs.ShootDate,
		Recipients:     len(d.Recipients),
		Sent:           sent,
		Failed:         failed,
		SentAt:         sentAt,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishCallSheetSent(ctx, ev)
	}()
}

// errInvalidDeliveryID marks a request whose delivery path parameter is
// blank.
var errInvalidDeliveryID = errors.New("invalid delivery id")

// loadOwnedDelivery resolves a delivery path parameter against the
// authenticated owner and returns the delivery with its call sheet.  A
// non-nil error means nothing was loaded; callers map it onto a response
// with deliveryGuardError.
func (h *OwnerHandler) loadOwnedDelivery(c echo.Context) (*model.CallSheetDelivery, *model.CallSheet, error) {
	ownerID, err := getUserID(c)
	if err != nil {
		return nil, nil, err
	}
	deliveryID := strings.TrimSpace(c.Param("deliveryId"))
	if deliveryID == "" {
		return nil, nil, errInvalidDeliveryID
	}
	d, err := h.Deliveries.GetByIDAndOwner(c.Request().Context(), deliveryID, ownerID)
	if err != nil {
		return nil, nil, err
	}
	cs, err := h.CallSheets.GetByID(c.Request().Context(), d.CallSheetID)
	if err != nil {
		return nil, nil, err
	}
	return d, cs, nil
}

// deliveryGuardError maps loadOwnedDelivery failures onto HTTP responses.
func deliveryGuardError(c echo.Context, err error) error {
	switch err {
	case errUnauthorized:
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	case errInvalidDeliveryID:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid delivery id"})
	case repository.ErrDeliveryNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "delivery not found"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
}

// GetDelivery handles GET /v1/deliveries/:deliveryId.
func (h *OwnerHandler) GetDelivery(c echo.Context) error {
	d, _, err := h.loadOwnedDelivery(c)
	if err != nil {
		return deliveryGuardError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// ResendFailed handles POST /v1/deliveries/:deliveryId/resend-failed.  Only
// recipients in failed state are re-attempted; everyone else keeps their
// status and timestamps.
func (h *OwnerHandler) ResendFailed(c echo.Context) error {
	d, cs, err := h.loadOwnedDelivery(c)
	if err != nil {
		return deliveryGuardError(c, err)
	}
	p, err := h.Productions.GetByID(c.Request().Context(), cs.ProductionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	updated := h.Orchestrator.ResendFailed(c.Request().Context(), *d, callSheetDocument(p, cs))
	for i := range updated.Recipients {
		if err := h.Deliveries.UpdateRecipient(c.Request().Context(), &updated.Recipients[i]); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not store recipient state"})
		}
	}
	if err := h.Deliveries.MarkSent(c.Request().Context(), &updated); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not store delivery state"})
	}
	return c.JSON(http.StatusOK, updated)
}

// RefreshDelivery handles POST /v1/deliveries/:deliveryId/refresh.  The
// SMS provider is polled for every dispatched SMS recipient; email
// recipients are untouched.
func (h *OwnerHandler) RefreshDelivery(c echo.Context) error {
	d, _, err := h.loadOwnedDelivery(c)
	if err != nil {
		return deliveryGuardError(c, err)
	}
	updated := h.Orchestrator.RefreshStatuses(c.Request().Context(), *d)
	for i := range updated.Recipients {
		if err := h.Deliveries.UpdateRecipient(c.Request().Context(), &updated.Recipients[i]); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not store recipient state"})
		}
	}
	return c.JSON(http.StatusOK, updated)
}
