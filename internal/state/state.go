// Package state provides thread-safe state management for the application.
package state

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/epic-tm/completionist/internal/achievements"
	"github.com/epic-tm/completionist/internal/layout"
	"github.com/epic-tm/completionist/internal/logging"
	"github.com/epic-tm/completionist/internal/store"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventCompleted EventType = "COMPLETED"
	EventUnlocked  EventType = "UNLOCKED"
	EventEdited    EventType = "EDITED"
	EventReset     EventType = "RESET"
	EventReloaded  EventType = "RELOADED"
)

// Event represents a change to the achievement document.
type Event struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Ref       *achievements.Ref `json:"ref,omitempty"`
	Title     string            `json:"title,omitempty"`
	Detail    string            `json:"detail,omitempty"`
	Count     int               `json:"count,omitempty"`
}

// Config holds state manager configuration.
type Config struct {
	Shape         achievements.Shape
	Layout        layout.Config
	MaxEvents     int
	AdminPassword string
	Now           func() time.Time
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Shape:         achievements.DefaultShape(),
		Layout:        layout.DefaultConfig(),
		MaxEvents:     50,
		AdminPassword: "admin",
		Now:           time.Now,
	}
}

// Manager owns the achievement document and everything derived from it.
// Every mutation is persisted to the KV store under store.ProgressKey.
type Manager struct {
	mu sync.RWMutex

	cfg Config
	kv  store.KV
	log *logging.Logger

	doc      *achievements.Document
	edits    achievements.Edits
	layout   *layout.Layout
	loadedAt time.Time
	restored bool
	lastErr  error
	revision uint64

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// NewManager creates a new state manager. A nil kv keeps progress in memory.
func NewManager(cfg Config, kv store.KV, log *logging.Logger) *Manager {
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = DefaultConfig().MaxEvents
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if kv == nil {
		kv = store.NewMemory()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{
		cfg:       cfg,
		kv:        kv,
		log:       log,
		edits:     achievements.Edits{},
		events:    make([]Event, 0, cfg.MaxEvents),
		maxEvents: cfg.MaxEvents,
	}
}

// Init installs the loaded document. Progress persisted by an earlier run
// is merged into it by reference, the same way Reload does, so edits to the
// data file between runs survive. Saved admin text edits are applied last.
func (m *Manager) Init(ctx context.Context, doc *achievements.Document) error {
	if doc == nil {
		doc = achievements.Default(m.cfg.Shape)
	}

	restored, err := m.loadProgress(ctx)
	edits, eerr := m.loadEdits(ctx)
	if err == nil {
		err = eerr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.doc = doc.Clone()
	m.edits = edits
	if restored != nil {
		n := m.doc.MergeProgress(restored)
		m.restored = true
		m.log.Info("restored saved progress for %d achievements", n)
	}
	if n := m.doc.ApplyEdits(m.edits); n > 0 {
		m.log.Info("applied %d saved text edits", n)
	}
	m.rebuild()
	m.loadedAt = m.cfg.Now()
	m.lastErr = err
	m.revision++
	return err
}

// loadProgress reads the saved document. An unreadable row is logged and
// ignored; only a failing store is an error.
func (m *Manager) loadProgress(ctx context.Context) (*achievements.Document, error) {
	raw, ok, err := m.kv.Get(ctx, store.ProgressKey)
	if err != nil {
		err = fmt.Errorf("read saved progress: %w", err)
		m.log.Warn("%v", err)
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	doc, perr := achievements.Parse([]byte(raw), m.cfg.Shape)
	if perr != nil {
		m.log.Warn("saved progress unreadable, starting fresh: %v", perr)
		return nil, nil
	}
	return doc, nil
}

func (m *Manager) loadEdits(ctx context.Context) (achievements.Edits, error) {
	edits := achievements.Edits{}
	raw, ok, err := m.kv.Get(ctx, store.EditsKey)
	if err != nil {
		return edits, fmt.Errorf("read saved edits: %w", err)
	}
	if !ok {
		return edits, nil
	}
	if perr := json.Unmarshal([]byte(raw), &edits); perr != nil {
		m.log.Warn("saved edits unreadable, dropping them: %v", perr)
		return achievements.Edits{}, nil
	}
	return edits, nil
}

// Restored reports whether Init used persisted progress.
func (m *Manager) Restored() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.restored
}

// Reload replaces the document with a freshly loaded one, keeping the
// status and completion date of every achievement that still exists.
func (m *Manager) Reload(ctx context.Context, doc *achievements.Document) error {
	if doc == nil {
		return nil
	}
	next := doc.Clone()

	m.mu.Lock()
	merged := next.MergeProgress(m.doc)
	next.ApplyEdits(m.edits)
	m.doc = next
	m.rebuild()
	m.loadedAt = m.cfg.Now()
	m.addEvent(Event{Type: EventReloaded, Count: merged})
	return m.commit(ctx)
}

// Complete marks an achievement completed, cascading unlocks to the next
// tier. It returns the number of achievements unlocked by the cascade.
func (m *Manager) Complete(ctx context.Context, ref achievements.Ref) (int, error) {
	m.mu.Lock()
	a, err := m.doc.Get(ref)
	if err != nil {
		m.mu.Unlock()
		return 0, err
	}
	already := a.Status == achievements.StatusCompleted

	unlocked, err := m.doc.Complete(ref, m.cfg.Now())
	if err != nil || already {
		m.mu.Unlock()
		return 0, err
	}

	m.addEvent(Event{Type: EventCompleted, Ref: &ref, Title: a.Title})
	if unlocked > 0 {
		next := achievements.Ref{Domain: ref.Domain, Tier: ref.Tier + 1}
		m.addEvent(Event{Type: EventUnlocked, Ref: &next, Count: unlocked,
			Detail: m.doc.Domains[ref.Domain].Tiers[ref.Tier+1].Name})
	}
	return unlocked, m.commit(ctx)
}

// SetStatus forces an achievement's status.
func (m *Manager) SetStatus(ctx context.Context, ref achievements.Ref, status achievements.Status) error {
	m.mu.Lock()
	if err := m.doc.SetStatus(ref, status, m.cfg.Now()); err != nil {
		m.mu.Unlock()
		return err
	}
	m.addEvent(m.editEvent(ref, "status="+string(status)))
	return m.commit(ctx)
}

// SetTitle replaces an achievement's title.
func (m *Manager) SetTitle(ctx context.Context, ref achievements.Ref, title string) error {
	m.mu.Lock()
	if err := m.doc.SetTitle(ref, title); err != nil {
		m.mu.Unlock()
		return err
	}
	m.edits.SetTitle(ref, title)
	m.addEvent(m.editEvent(ref, "title"))
	return m.commit(ctx)
}

// SetDescription replaces an achievement's description.
func (m *Manager) SetDescription(ctx context.Context, ref achievements.Ref, desc string) error {
	m.mu.Lock()
	if err := m.doc.SetDescription(ref, desc); err != nil {
		m.mu.Unlock()
		return err
	}
	m.edits.SetDescription(ref, desc)
	m.addEvent(m.editEvent(ref, "description"))
	return m.commit(ctx)
}

// UnlockAll makes every locked achievement available.
func (m *Manager) UnlockAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	n := m.doc.UnlockAll()
	m.addEvent(Event{Type: EventUnlocked, Count: n, Detail: "all"})
	return n, m.commit(ctx)
}

// ResetAll returns every achievement to its initial status.
func (m *Manager) ResetAll(ctx context.Context) error {
	m.mu.Lock()
	m.doc.ResetAll()
	m.addEvent(Event{Type: EventReset})
	return m.commit(ctx)
}

// CheckAdmin compares a password against the configured admin password.
func (m *Manager) CheckAdmin(password string) bool {
	want := m.cfg.AdminPassword
	return subtle.ConstantTimeCompare([]byte(password), []byte(want)) == 1
}

// Revision increases on every change; readers use it to skip redundant
// snapshots.
func (m *Manager) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}

// Layout returns the current layout. Layouts are rebuilt, never mutated,
// so the pointer is safe to share.
func (m *Manager) Layout() *layout.Layout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.layout
}

// LayoutConfig returns the geometry the layout was built with.
func (m *Manager) LayoutConfig() layout.Config {
	return m.cfg.Layout
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Document  *achievements.Document
	Layout    *layout.Layout
	Overall   achievements.Count
	PerDomain []achievements.Count
	Events    []Event
	LoadedAt  time.Time
	LastError error
	Revision  uint64
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc := m.doc.Clone()
	overall, per := doc.Progress()

	return Snapshot{
		Document:  doc,
		Layout:    m.layout,
		Overall:   overall,
		PerDomain: per,
		Events:    m.getEventsOrdered(),
		LoadedAt:  m.loadedAt,
		LastError: m.lastErr,
		Revision:  m.revision,
	}
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.getEventsOrdered()
	if n >= len(events) {
		return events
	}
	return events[len(events)-n:]
}

// commit persists the document and the text edits, then releases the
// write lock. The in-memory change stands even when the write fails.
func (m *Manager) commit(ctx context.Context) error {
	defer m.mu.Unlock()
	m.revision++

	err := m.save(ctx)
	if err != nil {
		m.log.Error("%v", err)
	}
	m.lastErr = err
	return err
}

func (m *Manager) save(ctx context.Context) error {
	data, err := json.Marshal(m.doc)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if err := m.kv.Put(ctx, store.ProgressKey, string(data)); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	if len(m.edits) == 0 {
		if err := m.kv.Delete(ctx, store.EditsKey); err != nil {
			return fmt.Errorf("save edits: %w", err)
		}
		return nil
	}
	data, err = json.Marshal(m.edits)
	if err != nil {
		return fmt.Errorf("save edits: %w", err)
	}
	if err := m.kv.Put(ctx, store.EditsKey, string(data)); err != nil {
		return fmt.Errorf("save edits: %w", err)
	}
	return nil
}

func (m *Manager) rebuild() {
	l := layout.Build(m.cfg.Layout, m.doc.LayoutShape())
	m.layout = &l
}

func (m *Manager) editEvent(ref achievements.Ref, detail string) Event {
	a, _ := m.doc.Get(ref)
	return Event{Type: EventEdited, Ref: &ref, Title: a.Title, Detail: detail}
}

// addEvent stamps e and adds it to the ring buffer.
func (m *Manager) addEvent(e Event) {
	e.ID = uuid.NewString()
	e.Timestamp = m.cfg.Now()
	if m.log.Enabled(logging.LevelDebug) {
		m.log.Debug("event %s %s", e.Type, e.Describe())
	}

	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}
