// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify is the attention channel: a place for stages to report
// recoverable failures that the user should see but that must not abort a
// research run.
package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Notifier receives non-fatal notices. Stage names the component that
// recovered from err (e.g. "search", "summarize").
type Notifier interface {
	Notify(stage string, err error)
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(string, error) {}

// Logger reports notices as zap warnings.
type Logger struct {
	Log *zap.Logger
}

// NewLogger returns a Notifier backed by log. A nil log discards notices.
func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{Log: log}
}

// Notify logs err at warn level.
func (l *Logger) Notify(stage string, err error) {
	l.Log.Warn("recovered from failure", zap.String("stage", stage), zap.Error(err))
}

// Writer prints one "warning: <stage>: <err>" line per notice.
type Writer struct {
	mu sync.Mutex
	W  io.Writer
}

// Notify writes the notice to W.
func (w *Writer) Notify(stage string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.W, "warning: %s: %v\n", stage, err)
}

// Recorder keeps notices in memory, in arrival order.
type Recorder struct {
	mu      sync.Mutex
	Notices []Notice
}

// Notice is one recorded notification.
type Notice struct {
	Stage string
	Err   error
}

// Notify appends the notice.
func (r *Recorder) Notify(stage string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notices = append(r.Notices, Notice{Stage: stage, Err: err})
}

// Stages returns the stage of every recorded notice.
func (r *Recorder) Stages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	stages := make([]string, len(r.Notices))
	for i, n := range r.Notices {
		stages[i] = n.Stage
	}
	return stages
}
