package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// EmailClient speaks a SendGrid-style JSON mail API.  Email is strictly
// fire-and-forget: the provider exposes no per-message status channel, so
// there is no Status counterpart here.
type EmailClient struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewEmailClient constructs an email client.  A nil httpClient falls back
// to a client with a 15 second timeout.
func NewEmailClient(baseURL, apiKey, from string, httpClient *http.Client) *EmailClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &EmailClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		from:       from,
		httpClient: httpClient,
	}
}

type emailAddress struct {
	Email string `json:"email"`
}

type emailRequest struct {
	Personalizations []struct {
		To []emailAddress `json:"to"`
	} `json:"personalizations"`
	From    emailAddress `json:"from"`
	Subject string       `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
	Attachments []emailAttachment `json:"attachments,omitempty"`
}

type emailAttachment struct {
	Content  string `json:"content"` // base64
	Type     string `json:"type,omitempty"`
	Filename string `json:"filename"`
}

// maxAttachmentBytes caps the document size inlined into a message; the
// provider rejects payloads past roughly 30 MB once base64 overhead lands.
const maxAttachmentBytes = 10 << 20

// fetchAttachment downloads the hosted document and base64-encodes it for
// inlining.
func (c *EmailClient) fetchAttachment(ctx context.Context, rawURL string) (*emailAttachment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document fetch returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxAttachmentBytes {
		return nil, fmt.Errorf("document larger than %d bytes", maxAttachmentBytes)
	}
	name := "call-sheet.pdf"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			name = base
		}
	}
	return &emailAttachment{
		Content:  base64.StdEncoding.EncodeToString(data),
		Type:     resp.Header.Get("Content-Type"),
		Filename: name,
	}, nil
}

// Send submits one outbound email.  attachmentURL, when non-empty, names a
// hosted document that is fetched and inlined as a base64 attachment; when
// the fetch fails the URL is appended to the body instead so the recipient
// still gets the document.
func (c *EmailClient) Send(ctx context.Context, to, subject, body, attachmentURL string) error {
	var attachments []emailAttachment
	if attachmentURL != "" {
		if att, err := c.fetchAttachment(ctx, attachmentURL); err == nil {
			attachments = append(attachments, *att)
		} else {
			body = body + "\n\n" + attachmentURL
		}
	}
	payload := emailRequest{
		From:    emailAddress{Email: c.from},
		Subject: subject,
	}
	payload.Personalizations = append(payload.Personalizations, struct {
		To []emailAddress `json:"to"`
	}{To: []emailAddress{{Email: to}}})
	payload.Content = append(payload.Content, struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{Type: "text/plain", Value: body})
	payload.Attachments = attachments

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("email send: %w", err)
	}

	err = retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/mail/send", bytes.NewReader(raw))
		if err != nil {
			return retry.Unrecoverable(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("provider returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 300 {
			detail, _ := io.ReadAll(resp.Body)
			return retry.Unrecoverable(fmt.Errorf("provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))))
		}
		return nil
	}, retry.Attempts(transportAttempts), retry.Context(ctx), retry.LastErrorOnly(true))
	if err != nil {
		return fmt.Errorf("email send: %w", err)
	}
	return nil
}
