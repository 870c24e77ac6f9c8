// internal/server/session.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/wizard"
)

// StepInfo is one step's metadata in the state payload.
type StepInfo struct {
	Index    int      `json:"index"`
	Title    string   `json:"title"`
	Fields   []string `json:"fields"`
	Complete bool     `json:"complete"`
}

// State is the full wizard snapshot returned to the UI after every call.
type State struct {
	Kind      string                 `json:"kind"`
	Step      int                    `json:"step"`
	StepCount int                    `json:"stepCount"`
	Steps     []StepInfo             `json:"steps"`
	Draft     map[string]interface{} `json:"draft"`
	Errors    map[string]string      `json:"errors"`
	Completed []int                  `json:"completed"`
	Submitted bool                   `json:"submitted"`
}

// Runner is the type-erased surface of one wizard session, so the HTTP layer
// can drive any kind without knowing its draft type.
type Runner interface {
	State() *State
	ApplyFields(fields map[string]interface{}) error
	Next(ctx context.Context) (*wizard.Advance, error)
	Previous() int
	GoTo(n int) error
	Submit(ctx context.Context) (*wizard.Handoff, error)
}

type runner[D any] struct {
	session *wizard.Session[D]
	def     *wizard.Definition[D]
	encode  func(D) map[string]interface{}
}

// NewRunner wraps a typed wizard session. encode flattens the draft for the
// state payload.
func NewRunner[D any](def *wizard.Definition[D], draft D, saver wizard.Saver[D], finalizer wizard.Finalizer[D], encode func(D) map[string]interface{}, log logger.Logger) Runner {
	return &runner[D]{
		session: wizard.NewSession(def, draft, saver, finalizer, log),
		def:     def,
		encode:  encode,
	}
}

func (r *runner[D]) State() *State {
	draft := r.session.Draft()
	completed := r.session.Completed()
	completedSet := make(map[int]bool, len(completed))
	for _, idx := range completed {
		completedSet[idx] = true
	}

	steps := make([]StepInfo, 0, len(r.def.Steps))
	for _, step := range r.def.Steps {
		steps = append(steps, StepInfo{
			Index:    step.Index,
			Title:    step.Title,
			Fields:   step.Fields,
			Complete: completedSet[step.Index],
		})
	}

	return &State{
		Kind:      r.def.Kind,
		Step:      r.session.Current(),
		StepCount: r.def.StepCount(),
		Steps:     steps,
		Draft:     r.encode(draft),
		Errors:    r.session.Errors(),
		Completed: completed,
		Submitted: r.session.Submitted(),
	}
}

// ApplyFields merges a partial field map into the draft. Unknown fields are
// ignored by the JSON round trip; normalization runs inside Update.
func (r *runner[D]) ApplyFields(fields map[string]interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return commonerrors.NewInvalidPayloadError(err.Error())
	}

	var applyErr error
	r.session.Update(func(d *D) {
		if err := json.Unmarshal(raw, d); err != nil {
			applyErr = commonerrors.NewInvalidPayloadError(err.Error())
		}
	})
	return applyErr
}

func (r *runner[D]) Next(ctx context.Context) (*wizard.Advance, error) {
	return r.session.Next(ctx)
}

func (r *runner[D]) Previous() int {
	return r.session.Previous()
}

func (r *runner[D]) GoTo(n int) error {
	return r.session.GoTo(n)
}

func (r *runner[D]) Submit(ctx context.Context) (*wizard.Handoff, error) {
	return r.session.Submit(ctx)
}

// Factory builds a fresh session for one wizard kind, resuming any saved
// draft for the user.
type Factory func(ctx context.Context, userID string) (Runner, error)

// Manager holds the live sessions, one per user and kind. Sessions are
// in-memory; a restart resumes from the autosaved draft.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]Runner
	factories map[string]Factory
}

func NewManager(factories map[string]Factory) *Manager {
	return &Manager{
		sessions:  make(map[string]Runner),
		factories: factories,
	}
}

// Kinds reports the registered wizard kinds.
func (m *Manager) Kinds() []string {
	kinds := make([]string, 0, len(m.factories))
	for kind := range m.factories {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Start creates (or replaces) the session for this user and kind.
func (m *Manager) Start(ctx context.Context, userID, kind string) (Runner, error) {
	factory, ok := m.factories[kind]
	if !ok {
		return nil, commonerrors.NewRecordNotFoundError("wizard", kind)
	}
	r, err := factory(ctx, userID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sessionKey(userID, kind)] = r
	m.mu.Unlock()
	return r, nil
}

// Get returns the live session, starting one lazily when the user has none.
func (m *Manager) Get(ctx context.Context, userID, kind string) (Runner, error) {
	m.mu.Lock()
	r, ok := m.sessions[sessionKey(userID, kind)]
	m.mu.Unlock()
	if ok {
		return r, nil
	}
	return m.Start(ctx, userID, kind)
}

// Drop discards the session, typically after submission.
func (m *Manager) Drop(userID, kind string) {
	m.mu.Lock()
	delete(m.sessions, sessionKey(userID, kind))
	m.mu.Unlock()
}

func sessionKey(userID, kind string) string {
	return fmt.Sprintf("%s/%s", userID, kind)
}
