// Package email sends transactional mail through the Brevo API and renders
// the HTML bodies for inquiry confirmations and voice-call summaries.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultEndpoint is Brevo's transactional send endpoint.
const DefaultEndpoint = "https://api.brevo.com/v3/smtp/email"

const sendTimeout = 10 * time.Second

// ErrNotConfigured is returned when no API key is set. Handlers map it to a
// server-configuration error rather than an upstream failure.
var ErrNotConfigured = errors.New("email: BREVO_API_KEY is not configured")

// Sender posts messages to the Brevo transactional API.
type Sender struct {
	endpoint  string
	apiKey    string
	fromName  string
	fromEmail string
	logger    *slog.Logger
	client    *http.Client
}

// NewSender constructs a Sender. endpoint falls back to DefaultEndpoint when
// empty.
func NewSender(endpoint, apiKey, fromName, fromEmail string, logger *slog.Logger) *Sender {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Sender{
		endpoint:  endpoint,
		apiKey:    apiKey,
		fromName:  fromName,
		fromEmail: fromEmail,
		logger:    logger,
		client:    &http.Client{Timeout: sendTimeout},
	}
}

// Message is one outbound transactional mail.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	HTML    string
}

type party struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type sendRequest struct {
	Sender      party   `json:"sender"`
	To          []party `json:"to"`
	Subject     string  `json:"subject"`
	HTMLContent string  `json:"htmlContent"`
}

// Send delivers one message. A single attempt, no retries: the caller
// surfaces failures as a 500 and the user may simply retry.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if s.apiKey == "" {
		return ErrNotConfigured
	}

	toName := msg.ToName
	if toName == "" {
		toName = "User"
	}

	payload, err := json.Marshal(sendRequest{
		Sender:      party{Name: s.fromName, Email: s.fromEmail},
		To:          []party{{Name: toName, Email: msg.ToEmail}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, string(body))
	}

	s.logger.Info("email sent", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}
