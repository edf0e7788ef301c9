// Package lock implements the advisory deploy lockfile: acquire with
// force-override policy, and best-effort release on every executor exit
// path.
package lock

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"thumper/pkg/logger"
	"thumper/pkg/zoneclient"
)

// State is one of the lock manager's states, tracked for diagnostics.
// Acquire and Release do not check it, so a repeated Acquire or Release is
// not rejected.
type State int

const (
	StateUnlocked State = iota
	StateAcquiring
	StateHeld
	StateReleasing
)

// Document is the lockfile's JSON contents: informational only, never
// parsed for semantics beyond existence.
type Document struct {
	CreatedAt time.Time `json:"created_at"`
	Identity  string    `json:"identity"`
}

// BusyError is returned by Acquire when a lockfile already exists and force
// was not requested. It carries the retrieved document for diagnostics.
type BusyError struct {
	Path string
	Doc  Document
	Raw  []byte
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("lockfile %q held since %s by %s", e.Path, e.Doc.CreatedAt.Format(time.RFC3339), e.Doc.Identity)
}

// Manager acquires and releases the zone lockfile through a zoneclient.
type Manager struct {
	client zoneclient.Client
	path   string
	log    *logger.Logger
	state  State
}

// New builds a Manager for the lockfile at path.
func New(client zoneclient.Client, path string, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Manager{client: client, path: path, log: log, state: StateUnlocked}
}

// State reports the manager's current state.
func (m *Manager) State() State {
	return m.state
}

// Acquire attempts to take the lock. If the lockfile is absent, it writes a
// fresh document and returns nil. If present and force is false, it returns
// a *BusyError. If present and force is true, it overwrites the document.
func (m *Manager) Acquire(ctx context.Context, force bool) error {
	m.state = StateAcquiring

	existing, err := m.client.Read(ctx, m.path)
	switch {
	case zoneclient.IsNotFound(err):
		// no lock present, fall through to write a fresh one
	case err != nil:
		m.state = StateUnlocked
		return fmt.Errorf("read lockfile: %w", err)
	default:
		var doc Document
		if jsonErr := json.Unmarshal(existing, &doc); jsonErr != nil {
			doc = Document{}
		}
		if !force {
			m.state = StateUnlocked
			return &BusyError{Path: m.path, Doc: doc, Raw: existing}
		}
		m.log.Warn("overriding existing lockfile", map[string]any{
			"path":       m.path,
			"created_at": doc.CreatedAt,
			"identity":   doc.Identity,
		})
	}

	if err := m.write(ctx); err != nil {
		m.state = StateUnlocked
		return fmt.Errorf("write lockfile: %w", err)
	}

	m.state = StateHeld
	return nil
}

func (m *Manager) write(ctx context.Context) error {
	doc := Document{CreatedAt: time.Now(), Identity: identity()}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return m.client.Write(ctx, m.path, data)
}

// Release deletes the lockfile. It is best-effort: a failure is logged but
// does not change the caller's exit status.
func (m *Manager) Release(ctx context.Context) {
	m.state = StateReleasing
	if err := m.client.Delete(ctx, m.path); err != nil {
		m.log.Error("failed to release lockfile", err, map[string]any{"path": m.path})
	}
	m.state = StateUnlocked
}

func identity() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown-host"
	}
	return fmt.Sprintf("%s/%d/%s", host, os.Getpid(), uuid.NewString())
}
