// Package voice backs the realtime mortgage assistant: it mints ephemeral
// client secrets for the upstream realtime API, tracks per-call sessions, and
// dispatches the assistant's tool calls. The audio negotiation itself happens
// between the browser and the upstream provider; the backend only hands out
// the credential and answers tool calls.
package voice

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

// DefaultSessionsEndpoint is the upstream endpoint that mints ephemeral
// realtime credentials.
const DefaultSessionsEndpoint = "https://api.openai.com/v1/realtime/sessions"

const (
	defaultModel = "gpt-4o-realtime-preview"
	defaultVoice = "verse"
	mintTimeout  = 10 * time.Second
)

// ErrNotConfigured is returned by Mint when no API key is set.
var ErrNotConfigured = errors.New("voice: realtime API key not configured")

// TokenClient mints ephemeral client secrets. A browser hands the secret to
// the upstream provider directly; the long-lived API key never leaves the
// server.
type TokenClient struct {
	endpoint string
	apiKey   string
	model    string
	voice    string
	logger   *slog.Logger
	client   *http.Client
}

// NewTokenClient builds a TokenClient. endpoint may be empty to use
// DefaultSessionsEndpoint; apiKey may be empty, in which case Mint fails
// with ErrNotConfigured.
func NewTokenClient(endpoint, apiKey string, logger *slog.Logger) *TokenClient {
	if endpoint == "" {
		endpoint = DefaultSessionsEndpoint
	}
	return &TokenClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    defaultModel,
		voice:    defaultVoice,
		logger:   logger,
		client:   &http.Client{Timeout: mintTimeout},
	}
}

type mintRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
}

type mintResponse struct {
	ClientSecret struct {
		Value string `json:"value"`
	} `json:"client_secret"`
}

// Mint requests one ephemeral client secret from the upstream provider.
func (c *TokenClient) Mint(ctx context.Context) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(mintRequest{Model: c.model, Voice: c.voice})
	if err != nil {
		return "", fmt.Errorf("marshal mint request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build mint request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("mint token: upstream status %d: %s", resp.StatusCode, snippet)
	}

	var parsed mintResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode mint response: %w", err)
	}
	if parsed.ClientSecret.Value == "" {
		return "", errors.New("mint token: response carried no client secret")
	}

	c.logger.Info("realtime token minted")
	return parsed.ClientSecret.Value, nil
}
