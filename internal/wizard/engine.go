// internal/wizard/engine.go
package wizard

import (
	"context"
	"sort"
	"sync"
	"time"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/common/metrics"
)

// Errors maps a field name to a human-readable message. A field absent from
// the map is valid.
type Errors map[string]string

// Step is one screen of a wizard. Validate returns field-level format errors;
// Complete additionally requires presence for gating fields, so a step can be
// "not yet complete" while having no validation errors.
type Step[D any] struct {
	Index    int
	Title    string
	Fields   []string
	Validate func(D) Errors
	Complete func(D) bool
}

// Definition declares one wizard kind: its ordered steps, the normalization
// rules applied after every field mutation, and an optional cross-field check
// run only at submission.
type Definition[D any] struct {
	Kind        string
	Steps       []Step[D]
	Normalize   func(*D)
	SubmitCheck func(D) Errors
}

// StepCount returns N for this wizard kind.
func (d *Definition[D]) StepCount() int {
	return len(d.Steps)
}

// Saver persists the draft on every step advance.
type Saver[D any] interface {
	Save(ctx context.Context, draft D) error
}

// Handoff is the terminal result of a submission: where the user goes next
// and which records were produced.
type Handoff struct {
	Route     string `json:"route"` // "payment", "tracking" or "quotation"
	RecordID  string `json:"recordId"`
	PaymentID string `json:"paymentId,omitempty"`
	DisplayID string `json:"displayId,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Finalizer performs the terminal submission for the wizard kind.
type Finalizer[D any] interface {
	Finalize(ctx context.Context, draft D) (*Handoff, error)
}

// Advance reports the outcome of a successful Next. SaveWarning carries a
// non-blocking persistence failure; the pointer still moved and the typed
// data is kept locally for the next save.
type Advance struct {
	Step        int    `json:"step"`
	SaveWarning string `json:"saveWarning,omitempty"`
}

// Session is the stepper state machine for one in-progress wizard. A session
// has a single writer; the mutex only protects against accidental concurrent
// HTTP calls for the same user.
type Session[D any] struct {
	mu        sync.Mutex
	def       *Definition[D]
	draft     D
	current   int
	errors    Errors
	completed map[int]bool
	saver     Saver[D]
	finalizer Finalizer[D]
	saving    bool
	submitted bool
	logger    logger.Logger
}

func NewSession[D any](def *Definition[D], draft D, saver Saver[D], finalizer Finalizer[D], log logger.Logger) *Session[D] {
	s := &Session[D]{
		def:       def,
		draft:     draft,
		current:   1,
		errors:    Errors{},
		completed: map[int]bool{},
		saver:     saver,
		finalizer: finalizer,
		logger:    log.WithFields(map[string]interface{}{"wizardKind": def.Kind}),
	}
	s.recompute()
	return s
}

// Update applies a mutation to the draft, runs the kind's normalization rules
// and re-derives the completion set from scratch across all steps.
func (s *Session[D]) Update(mutate func(*D)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&s.draft)
	if s.def.Normalize != nil {
		s.def.Normalize(&s.draft)
	}
	s.recompute()
}

// recompute rebuilds the completion set for every step. Caller holds the lock
// (or is the constructor).
func (s *Session[D]) recompute() {
	for _, step := range s.def.Steps {
		s.completed[step.Index] = step.Complete != nil && step.Complete(s.draft)
	}
}

// Draft returns a copy of the current in-memory draft.
func (s *Session[D]) Draft() D {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Current returns the 1-based current step pointer.
func (s *Session[D]) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Errors returns the error map from the last failed validation pass.
func (s *Session[D]) Errors() Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Errors, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// Completed returns the sorted indices of currently complete steps.
func (s *Session[D]) Completed() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.completed))
	for idx, done := range s.completed {
		if done {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

// Submitted reports whether the terminal submission already succeeded.
func (s *Session[D]) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Next validates the current step, persists the draft and advances the
// pointer (clamped at N). On validation failure the error map is stored and
// the pointer does not move. A persistence failure is non-blocking: the
// pointer still advances and the failure is reported as a warning.
func (s *Session[D]) Next(ctx context.Context) (*Advance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saving {
		return nil, commonerrors.NewSaveInProgressError()
	}

	step := s.def.Steps[s.current-1]
	if errs := step.Validate(s.draft); len(errs) > 0 {
		s.errors = errs
		metrics.WizardStepValidationFailures.WithLabelValues(s.def.Kind).Inc()
		return nil, commonerrors.NewStepValidationFailedError(s.current, errs)
	}
	s.errors = Errors{}

	warning := ""
	s.saving = true
	start := time.Now()
	err := s.saver.Save(ctx, s.draft)
	metrics.DraftSaveDuration.WithLabelValues(s.def.Kind).Observe(time.Since(start).Seconds())
	s.saving = false

	if err != nil {
		metrics.DraftSaves.WithLabelValues(s.def.Kind, "failure").Inc()
		s.logger.Warn("draft save failed, keeping local state", map[string]interface{}{
			"step":  s.current,
			"error": err.Error(),
		})
		warning = commonerrors.NewDraftSaveFailedError(err).Message
	} else {
		metrics.DraftSaves.WithLabelValues(s.def.Kind, "success").Inc()
	}

	if s.current < s.def.StepCount() {
		s.current++
	}
	metrics.WizardStepsAdvanced.WithLabelValues(s.def.Kind).Inc()

	return &Advance{Step: s.current, SaveWarning: warning}, nil
}

// Previous moves back one step, clamped at 1. No validation or persistence.
func (s *Session[D]) Previous() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current > 1 {
		s.current--
	}
	return s.current
}

// GoTo jumps directly to step n. Free navigation regardless of validation
// state is intentional so users can revisit earlier answers.
func (s *Session[D]) GoTo(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 1 || n > s.def.StepCount() {
		return &commonerrors.StandardError{
			Code:      commonerrors.ErrCodeInvalidStepIndex,
			Message:   "Step index out of range",
			Timestamp: time.Now().UTC(),
		}
	}
	s.current = n
	return nil
}

// Submit re-validates the final step, runs the kind's cross-field submit
// check, then performs the terminal submission via the Finalizer. On failure
// the error surfaces inline and the session does not transition. The lock is
// held across Finalize, so rapid repeated submits serialize here and every
// caller after the first is rejected by the submitted check.
func (s *Session[D]) Submit(ctx context.Context) (*Handoff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitted {
		return nil, commonerrors.NewAlreadySubmittedError()
	}
	if s.saving {
		return nil, commonerrors.NewSaveInProgressError()
	}

	final := s.def.Steps[s.def.StepCount()-1]
	errs := final.Validate(s.draft)
	if s.def.SubmitCheck != nil {
		for field, msg := range s.def.SubmitCheck(s.draft) {
			if errs == nil {
				errs = Errors{}
			}
			errs[field] = msg
		}
	}
	if len(errs) > 0 {
		s.errors = errs
		metrics.Submissions.WithLabelValues(s.def.Kind, "validation_failure").Inc()
		return nil, commonerrors.NewStepValidationFailedError(s.def.StepCount(), errs)
	}
	s.errors = Errors{}

	s.saving = true
	handoff, err := s.finalizer.Finalize(ctx, s.draft)
	s.saving = false

	if err != nil {
		metrics.Submissions.WithLabelValues(s.def.Kind, "failure").Inc()
		return nil, err
	}

	s.submitted = true
	metrics.Submissions.WithLabelValues(s.def.Kind, "success").Inc()
	s.logger.Info("wizard submitted", map[string]interface{}{
		"route":    handoff.Route,
		"recordId": handoff.RecordID,
	})
	return handoff, nil
}
