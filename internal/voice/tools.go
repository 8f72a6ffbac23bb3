package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Tool names the assistant is allowed to call.
const (
	ToolSendEmailSummary   = "send_email_summary"
	ToolUpdateProfileField = "update_profile_field"
	ToolCheckAffordability = "check_affordability"
)

var (
	// ErrSessionNotFound marks a tool call referencing an unknown or
	// expired session.
	ErrSessionNotFound = errors.New("voice: session not found")
	// ErrUnknownTool marks a tool call for a name nobody registered.
	ErrUnknownTool = errors.New("voice: unknown tool")
)

// ToolHandler executes one tool call against a session snapshot and returns
// the result object serialized back to the realtime transport.
type ToolHandler func(ctx context.Context, s *Session, args json.RawMessage) (any, error)

// Dispatcher routes tool calls to registered handlers. It replaces ad hoc
// event branching with an explicit table keyed by tool name.
type Dispatcher struct {
	sessions *Manager
	handlers map[string]ToolHandler
	logger   *slog.Logger
}

// NewDispatcher builds an empty Dispatcher bound to a session manager.
func NewDispatcher(sessions *Manager, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sessions: sessions,
		handlers: make(map[string]ToolHandler),
		logger:   logger,
	}
}

// Register binds a handler to a tool name, replacing any previous binding.
func (d *Dispatcher) Register(name string, h ToolHandler) {
	d.handlers[name] = h
}

// Dispatch resolves the session and tool, runs the handler, and returns its
// result. The session passed to the handler is a snapshot; handlers that
// mutate the profile go through Manager.Update.
func (d *Dispatcher) Dispatch(ctx context.Context, sessionID, name string, args json.RawMessage) (any, error) {
	snapshot, ok := d.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	h, ok := d.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	d.logger.Info("dispatching tool call", "session", sessionID, "tool", name)
	result, err := h(ctx, &snapshot, args)
	if err != nil {
		d.logger.Warn("tool call failed", "session", sessionID, "tool", name, "err", err)
		return nil, err
	}
	return result, nil
}
