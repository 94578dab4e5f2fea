// Package transport holds the thin HTTP clients behind which the core
// hides its third-party services: SMS, email, weather and geocoding.  Each
// client takes its endpoint, credentials and *http.Client in the
// constructor and is injected where needed; nothing in here is a process
// singleton.  Transient network errors and 5xx responses are retried a
// bounded number of times, 4xx responses are not.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const transportAttempts = 3

// SMSClient speaks a Twilio-style messaging REST API.
type SMSClient struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
}

// NewSMSClient constructs an SMS client.  A nil httpClient falls back to a
// client with a 15 second timeout.
func NewSMSClient(baseURL, accountSID, authToken, from string, httpClient *http.Client) *SMSClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &SMSClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		httpClient: httpClient,
	}
}

// smsMessage is the provider's message resource shape.
type smsMessage struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// Send submits one outbound message and returns the provider message id.
// The destination number is normalized to E.164 first.
func (c *SMSClient) Send(ctx context.Context, to, body, mediaURL string) (string, error) {
	form := url.Values{}
	form.Set("To", NormalizePhone(to))
	form.Set("From", c.from)
	form.Set("Body", body)
	if mediaURL != "" {
		form.Set("MediaUrl", mediaURL)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	var msg smsMessage
	err := retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return retry.Unrecoverable(err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetBasicAuth(c.accountSID, c.authToken)
		return c.do(req, &msg)
	}, retry.Attempts(transportAttempts), retry.Context(ctx), retry.LastErrorOnly(true))
	if err != nil {
		return "", fmt.Errorf("sms send: %w", err)
	}
	if msg.SID == "" {
		return "", fmt.Errorf("sms send: provider returned no message sid")
	}
	return msg.SID, nil
}

// Status polls the provider for the current status of a previously sent
// message.  The returned value is one of the provider's fixed vocabulary
// (queued, sending, sent, delivered, read, confirmed, failed, undelivered).
func (c *SMSClient) Status(ctx context.Context, messageID string) (string, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages/%s.json", c.baseURL, c.accountSID, url.PathEscape(messageID))
	var msg smsMessage
	err := retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		req.SetBasicAuth(c.accountSID, c.authToken)
		return c.do(req, &msg)
	}, retry.Attempts(transportAttempts), retry.Context(ctx), retry.LastErrorOnly(true))
	if err != nil {
		return "", fmt.Errorf("sms status: %w", err)
	}
	return msg.Status, nil
}

// do runs one request and decodes the JSON body into out.  5xx responses
// come back as retryable errors, anything else below 500 that is not a
// success short-circuits the retry loop.
func (c *SMSClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("provider returned %d", resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		return retry.Unrecoverable(fmt.Errorf("provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return retry.Unrecoverable(fmt.Errorf("decode provider response: %w", err))
	}
	return nil
}

// NormalizePhone adds the US country code to bare 10/11-digit numbers and
// passes anything else through untouched: "5551234567" → "+15551234567",
// "15551234567" → "+15551234567", "+442071234567" → unchanged.
func NormalizePhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	if strings.HasPrefix(trimmed, "+") {
		return trimmed
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		if r == ' ' || r == '-' || r == '(' || r == ')' || r == '.' {
			return -1
		}
		return 'x' // any other character disqualifies normalization
	}, trimmed)
	if strings.ContainsRune(digits, 'x') {
		return trimmed
	}
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits
	default:
		return trimmed
	}
}
