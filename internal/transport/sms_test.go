package transport

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedClient(t *testing.T) *http.Client {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5551234567", "+15551234567"},
		{"15551234567", "+15551234567"},
		{"+442071234567", "+442071234567"},
		{"(555) 123-4567", "+15551234567"},
		{"555.123.4567", "+15551234567"},
		{"00442071234567", "00442071234567"}, // not a 10/11-digit US shape
		{"ext. 12", "ext. 12"},               // not numeric at all
		{" 5551234567 ", "+15551234567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "input %q", tt.in)
	}
}

func TestSMSSend(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodPost, "https://sms.example.com/Accounts/AC1/Messages.json",
		httpmock.NewJsonResponderOrPanic(201, map[string]string{"sid": "SM42", "status": "queued"}))

	c := NewSMSClient("https://sms.example.com", "AC1", "secret", "+15550001111", client)
	sid, err := c.Send(context.Background(), "5551234567", "General call 07:00", "")
	require.NoError(t, err)
	assert.Equal(t, "SM42", sid)
}

func TestSMSSendRetriesServerErrors(t *testing.T) {
	client := newMockedClient(t)
	responder := httpmock.NewStringResponder(502, "bad gateway").Then(
		httpmock.NewJsonResponderOrPanic(201, map[string]string{"sid": "SM7"}))
	httpmock.RegisterResponder(http.MethodPost, "https://sms.example.com/Accounts/AC1/Messages.json", responder)

	c := NewSMSClient("https://sms.example.com", "AC1", "secret", "+15550001111", client)
	sid, err := c.Send(context.Background(), "+15551234567", "body", "")
	require.NoError(t, err)
	assert.Equal(t, "SM7", sid)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestSMSSendDoesNotRetryClientErrors(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodPost, "https://sms.example.com/Accounts/AC1/Messages.json",
		httpmock.NewStringResponder(400, `{"message":"invalid To"}`))

	c := NewSMSClient("https://sms.example.com", "AC1", "secret", "+15550001111", client)
	_, err := c.Send(context.Background(), "+15551234567", "body", "")
	require.Error(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestSMSStatus(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://sms.example.com/Accounts/AC1/Messages/SM42.json",
		httpmock.NewJsonResponderOrPanic(200, map[string]string{"sid": "SM42", "status": "delivered"}))

	c := NewSMSClient("https://sms.example.com", "AC1", "secret", "+15550001111", client)
	status, err := c.Status(context.Background(), "SM42")
	require.NoError(t, err)
	assert.Equal(t, "delivered", status)
}
