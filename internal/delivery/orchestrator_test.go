package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelworks/production-runner/internal/model"
)

// fakeSMS records outgoing sends and fails for numbers listed in failTo.
type fakeSMS struct {
	sent     []string
	failTo   map[string]bool
	statuses map[string]string
	nextID   int
}

func (f *fakeSMS) Send(_ context.Context, to, _, _ string) (string, error) {
	if f.failTo[to] {
		return "", errors.New("boom")
	}
	f.sent = append(f.sent, to)
	f.nextID++
	return string(rune('A'-1+f.nextID)) + "M1", nil
}

func (f *fakeSMS) Status(_ context.Context, id string) (string, error) {
	st, ok := f.statuses[id]
	if !ok {
		return "", errors.New("unknown message")
	}
	return st, nil
}

// fakeEmail records outgoing sends and fails for addresses in failTo.
type fakeEmail struct {
	sent   []string
	failTo map[string]bool
}

func (f *fakeEmail) Send(_ context.Context, to, _, _, _ string) error {
	if f.failTo[to] {
		return errors.New("smtp rejected")
	}
	f.sent = append(f.sent, to)
	return nil
}

func str(s string) *string { return &s }

func smsRecipient(name, phone string) model.DeliveryRecipient {
	return model.DeliveryRecipient{ContactID: 1, Name: name, Phone: str(phone), Method: model.DeliveryMethodSMS}
}

func emailRecipient(name, addr string) model.DeliveryRecipient {
	return model.DeliveryRecipient{ContactID: 2, Name: name, Email: str(addr), Method: model.DeliveryMethodEmail}
}

var testDoc = Document{Subject: "Call Sheet - Day 4", Body: "General call 07:00", URL: "https://cdn.example.com/cs4.pdf"}

func TestSendEmptyRecipientList(t *testing.T) {
	o := New(&fakeSMS{}, &fakeEmail{})
	_, err := o.Send(context.Background(), 1, testDoc, nil)
	assert.ErrorIs(t, err, ErrNoRecipients)
}

// A failure in the middle of the batch never aborts the remaining
// recipients; the batch ends with a mix of sent and failed.
func TestSendPartialFailure(t *testing.T) {
	sms := &fakeSMS{failTo: map[string]bool{"+15550000002": true}}
	o := New(sms, &fakeEmail{})

	d, err := o.Send(context.Background(), 7, testDoc, []model.DeliveryRecipient{
		smsRecipient("Ann", "+15550000001"),
		smsRecipient("Bo", "+15550000002"),
		smsRecipient("Cal", "+15550000003"),
	})
	require.NoError(t, err)
	require.Len(t, d.Recipients, 3)

	assert.Equal(t, model.RecipientStatusSent, d.Recipients[0].Status)
	assert.Equal(t, model.RecipientStatusFailed, d.Recipients[1].Status)
	assert.Equal(t, model.RecipientStatusSent, d.Recipients[2].Status)
	assert.Equal(t, "boom", d.Recipients[1].Error)
	assert.NotNil(t, d.Recipients[0].SentAt)
	assert.Nil(t, d.Recipients[1].SentAt)
	assert.NotNil(t, d.Recipients[0].MessageID)
	require.NotNil(t, d.SentAt)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, uint64(7), d.CallSheetID)
}

func TestResendFailedOnlyRetriesFailed(t *testing.T) {
	sms := &fakeSMS{failTo: map[string]bool{"+15550000002": true}}
	o := New(sms, &fakeEmail{})

	d, err := o.Send(context.Background(), 7, testDoc, []model.DeliveryRecipient{
		smsRecipient("Ann", "+15550000001"),
		smsRecipient("Bo", "+15550000002"),
		smsRecipient("Cal", "+15550000003"),
	})
	require.NoError(t, err)
	firstSentAt := *d.Recipients[0].SentAt

	// The transport recovers; retry only touches the failed recipient.
	sms.failTo = nil
	sms.sent = nil
	d2 := o.ResendFailed(context.Background(), d, testDoc)

	assert.Equal(t, []string{"+15550000002"}, sms.sent)
	assert.Equal(t, model.RecipientStatusSent, d2.Recipients[1].Status)
	assert.Empty(t, d2.Recipients[1].Error)
	// Untouched recipients keep their status and timestamps verbatim.
	assert.Equal(t, model.RecipientStatusSent, d2.Recipients[0].Status)
	assert.Equal(t, firstSentAt, *d2.Recipients[0].SentAt)
}

func TestSendMissingContactFieldFailsWithoutTransportCall(t *testing.T) {
	sms := &fakeSMS{}
	email := &fakeEmail{}
	o := New(sms, email)

	d, err := o.Send(context.Background(), 1, testDoc, []model.DeliveryRecipient{
		{ContactID: 3, Name: "NoPhone", Method: model.DeliveryMethodSMS},
		{ContactID: 4, Name: "NoEmail", Method: model.DeliveryMethodEmail},
		{ContactID: 5, Name: "Odd", Method: "carrier-pigeon"},
	})
	require.NoError(t, err)
	assert.Empty(t, sms.sent)
	assert.Empty(t, email.sent)
	for _, r := range d.Recipients {
		assert.Equal(t, model.RecipientStatusFailed, r.Status)
		assert.NotEmpty(t, r.Error)
	}
}

func TestSendDispatchesPerMethod(t *testing.T) {
	sms := &fakeSMS{}
	email := &fakeEmail{}
	o := New(sms, email)

	_, err := o.Send(context.Background(), 1, testDoc, []model.DeliveryRecipient{
		smsRecipient("Ann", "+15550000001"),
		emailRecipient("Bo", "bo@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"+15550000001"}, sms.sent)
	assert.Equal(t, []string{"bo@example.com"}, email.sent)
}

func TestSendReportsProgressSequentially(t *testing.T) {
	var seen []Progress
	o := New(&fakeSMS{}, &fakeEmail{}, WithProgress(func(p Progress) { seen = append(seen, p) }))

	_, err := o.Send(context.Background(), 1, testDoc, []model.DeliveryRecipient{
		smsRecipient("Ann", "+15550000001"),
		smsRecipient("Bo", "+15550000002"),
	})
	require.NoError(t, err)

	require.Len(t, seen, 3)
	assert.Equal(t, Progress{CurrentName: "Ann", Done: 0, Total: 2}, seen[0])
	assert.Equal(t, Progress{CurrentName: "Bo", Done: 1, Total: 2}, seen[1])
	assert.Equal(t, Progress{Done: 2, Total: 2}, seen[2])
}

func TestRefreshStatuses(t *testing.T) {
	fixed := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	sms := &fakeSMS{statuses: map[string]string{}}
	o := New(sms, &fakeEmail{}, withClock(func() time.Time { return fixed }))

	d, err := o.Send(context.Background(), 1, testDoc, []model.DeliveryRecipient{
		smsRecipient("Ann", "+15550000001"),
		smsRecipient("Bo", "+15550000002"),
		emailRecipient("Cal", "cal@example.com"),
	})
	require.NoError(t, err)

	sms.statuses[*d.Recipients[0].MessageID] = "delivered"
	sms.statuses[*d.Recipients[1].MessageID] = "undelivered"

	d2 := o.RefreshStatuses(context.Background(), d)

	assert.Equal(t, model.RecipientStatusDelivered, d2.Recipients[0].Status)
	require.NotNil(t, d2.Recipients[0].DeliveredAt)
	assert.Equal(t, fixed, *d2.Recipients[0].DeliveredAt)
	assert.Equal(t, model.RecipientStatusFailed, d2.Recipients[1].Status)
	// Email recipients have no status channel and stay at sent.
	assert.Equal(t, model.RecipientStatusSent, d2.Recipients[2].Status)
}

func TestRefreshSkipsRecipientsWithoutMessageID(t *testing.T) {
	sms := &fakeSMS{failTo: map[string]bool{"+15550000001": true}, statuses: map[string]string{}}
	o := New(sms, &fakeEmail{})

	d, err := o.Send(context.Background(), 1, testDoc, []model.DeliveryRecipient{
		smsRecipient("Ann", "+15550000001"),
	})
	require.NoError(t, err)

	d2 := o.RefreshStatuses(context.Background(), d)
	assert.Equal(t, model.RecipientStatusFailed, d2.Recipients[0].Status)
}
