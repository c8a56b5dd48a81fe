// Package testutils provides helpers shared by the package tests.
package testutils

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// MockHandler tracks calls to logging functions and implements slog.Handler.
type MockHandler struct {
	IgnoreBelow  slog.Level
	EnabledCalls []slog.Level
	HandleCalls  []slog.Record

	mu sync.Mutex
}

// NewMockHandler returns a new MockHandler.
// levels <= ignoreBelow will not call handle.
func NewMockHandler(ignoreBelow slog.Level) MockHandler {
	return MockHandler{
		IgnoreBelow:  ignoreBelow,
		EnabledCalls: make([]slog.Level, 0),
		HandleCalls:  make([]slog.Record, 0),

		mu: sync.Mutex{},
	}
}

// Messages returns the messages of the logged records, in order.
func (h *MockHandler) Messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := make([]string, 0, len(h.HandleCalls))
	for _, r := range h.HandleCalls {
		msgs = append(msgs, r.Message)
	}
	return msgs
}

// MilestoneCount returns how many logged messages carry the milestone prefix.
func (h *MockHandler) MilestoneCount() int {
	n := 0
	for _, m := range h.Messages() {
		if strings.HasPrefix(m, "[Ok]") {
			n++
		}
	}
	return n
}

// OutputLogs outputs the logs collected by the handler in a readable format.
func (h *MockHandler) OutputLogs(t *testing.T) {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, call := range h.HandleCalls {
		t.Logf("Logged %v %s:", call.Level, call.Message)
		call.Attrs(func(attr slog.Attr) bool {
			t.Log(attr.String())
			return true
		})
	}
}

// Enabled implements Handler.Enabled.
func (h *MockHandler) Enabled(ctx context.Context, level slog.Level) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.EnabledCalls = append(h.EnabledCalls, level)
	return level > h.IgnoreBelow
}

// Handle implements Handler.Handle.
func (h *MockHandler) Handle(ctx context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.HandleCalls = append(h.HandleCalls, record)
	return nil
}

// WithAttrs implements Handler.WithAttrs.
func (h *MockHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

// WithGroup implements Handler.WithGroup.
func (h *MockHandler) WithGroup(name string) slog.Handler {
	return h
}
