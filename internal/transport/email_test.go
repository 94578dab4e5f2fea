package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailSendInlinesAttachment(t *testing.T) {
	client := newMockedClient(t)
	var captured emailRequest
	httpmock.RegisterResponder(http.MethodPost, "https://mail.example.com/v3/mail/send",
		func(req *http.Request) (*http.Response, error) {
			body, _ := io.ReadAll(req.Body)
			if err := json.Unmarshal(body, &captured); err != nil {
				return httpmock.NewStringResponse(400, "bad json"), nil
			}
			return httpmock.NewStringResponse(202, ""), nil
		})
	httpmock.RegisterResponder(http.MethodGet, "https://cdn.example.com/cs4.pdf",
		func(req *http.Request) (*http.Response, error) {
			resp := httpmock.NewBytesResponse(200, []byte("%PDF-1.4 day four"))
			resp.Header.Set("Content-Type", "application/pdf")
			return resp, nil
		})

	c := NewEmailClient("https://mail.example.com", "key", "ops@example.com", client)
	err := c.Send(context.Background(), "bo@example.com", "Call Sheet - Day 4", "General call 07:00", "https://cdn.example.com/cs4.pdf")
	require.NoError(t, err)

	assert.Equal(t, "ops@example.com", captured.From.Email)
	assert.Equal(t, "Call Sheet - Day 4", captured.Subject)
	require.Len(t, captured.Personalizations, 1)
	require.Len(t, captured.Personalizations[0].To, 1)
	assert.Equal(t, "bo@example.com", captured.Personalizations[0].To[0].Email)
	require.Len(t, captured.Content, 1)
	assert.Equal(t, "General call 07:00", captured.Content[0].Value)

	require.Len(t, captured.Attachments, 1)
	assert.Equal(t, "cs4.pdf", captured.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", captured.Attachments[0].Type)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 day four")), captured.Attachments[0].Content)
}

func TestEmailSendFallsBackToLink(t *testing.T) {
	client := newMockedClient(t)
	var captured emailRequest
	httpmock.RegisterResponder(http.MethodPost, "https://mail.example.com/v3/mail/send",
		func(req *http.Request) (*http.Response, error) {
			body, _ := io.ReadAll(req.Body)
			if err := json.Unmarshal(body, &captured); err != nil {
				return httpmock.NewStringResponse(400, "bad json"), nil
			}
			return httpmock.NewStringResponse(202, ""), nil
		})
	httpmock.RegisterResponder(http.MethodGet, "https://cdn.example.com/cs4.pdf",
		httpmock.NewStringResponder(503, "storage down"))

	c := NewEmailClient("https://mail.example.com", "key", "ops@example.com", client)
	err := c.Send(context.Background(), "bo@example.com", "Call Sheet - Day 4", "General call 07:00", "https://cdn.example.com/cs4.pdf")
	require.NoError(t, err)

	assert.Empty(t, captured.Attachments)
	require.Len(t, captured.Content, 1)
	assert.Contains(t, captured.Content[0].Value, "https://cdn.example.com/cs4.pdf")
}

func TestEmailSendClientErrorNotRetried(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodPost, "https://mail.example.com/v3/mail/send",
		httpmock.NewStringResponder(401, "bad key"))

	c := NewEmailClient("https://mail.example.com", "key", "ops@example.com", client)
	err := c.Send(context.Background(), "bo@example.com", "s", "b", "")
	require.Error(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
