package executor

import "thumper/pkg/model"

// ProgressSink receives per-action lifecycle events from the executor.
// Verbose-mode logging and aggregate progress rendering are both just
// sinks; the executor has no notion of a terminal.
type ProgressSink interface {
	ActionStarted(a model.Action)
	ActionCompleted(a model.Action)
	ActionFailed(a model.Action, err error)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) ActionStarted(model.Action)       {}
func (NopSink) ActionCompleted(model.Action)     {}
func (NopSink) ActionFailed(model.Action, error) {}

// LoggingSink reports actions through a logfmt-style logger: every failure
// is logged in both modes, and verbose mode also logs a line when each
// action starts and completes. It keeps no counts of its own.
type LoggingSink struct {
	Log interface {
		Verbose(msg string, fields map[string]any)
		Error(msg string, err error, fields map[string]any)
	}
}

func (s LoggingSink) ActionStarted(a model.Action) {
	s.Log.Verbose("action started", map[string]any{"kind": a.Kind.String(), "path": string(a.Path)})
}

func (s LoggingSink) ActionCompleted(a model.Action) {
	s.Log.Verbose("action completed", map[string]any{"kind": a.Kind.String(), "path": string(a.Path)})
}

func (s LoggingSink) ActionFailed(a model.Action, err error) {
	s.Log.Error("action failed", err, map[string]any{"kind": a.Kind.String(), "path": string(a.Path)})
}
