package leads

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

// Without a database the store must be a safe no-op: the serving path calls
// Save unconditionally.
func TestStoreWithoutPoolIsNoOp(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewStore(nil, logger)
	ctx := context.Background()

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema on poolless store: %v", err)
	}

	s.Save(ctx, Lead{UserEmail: "anna@example.com", Source: SourceEmail})

	n, err := s.CountSince(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountSince on poolless store: %v", err)
	}
	if n != 0 {
		t.Errorf("CountSince = %d, want 0", n)
	}
}

func TestNilStoreIsSafe(t *testing.T) {
	var s *Store
	ctx := context.Background()

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema on nil store: %v", err)
	}
	s.Save(ctx, Lead{UserEmail: "anna@example.com"})
}
