// internal/wizard/engine_test.go
package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Fixtures
// ==========================

type testDraft struct {
	Name  string
	Email string
	City  string
}

func testDefinition() *Definition[testDraft] {
	return &Definition[testDraft]{
		Kind: "test",
		Steps: []Step[testDraft]{
			{
				Index:  1,
				Title:  "Identity",
				Fields: []string{"name"},
				Validate: func(d testDraft) Errors {
					errs := Errors{}
					if d.Name == "" {
						errs["name"] = "Name is required"
					}
					return errs
				},
				Complete: func(d testDraft) bool { return d.Name != "" },
			},
			{
				Index:  2,
				Title:  "Contact",
				Fields: []string{"email"},
				Validate: func(d testDraft) Errors {
					errs := Errors{}
					if d.Email == "" {
						errs["email"] = "Email is required"
					}
					return errs
				},
				Complete: func(d testDraft) bool { return d.Email != "" },
			},
			{
				Index:    3,
				Title:    "Review",
				Validate: func(d testDraft) Errors { return Errors{} },
				Complete: func(d testDraft) bool { return d.Name != "" && d.Email != "" },
			},
		},
	}
}

type fakeSaver struct {
	saves  int
	failOn int // fail the nth save, 0 = never
	last   testDraft
}

func (f *fakeSaver) Save(_ context.Context, d testDraft) error {
	f.saves++
	f.last = d
	if f.failOn != 0 && f.saves == f.failOn {
		return errors.New("backend down")
	}
	return nil
}

type fakeFinalizer struct {
	calls   int
	fail    bool
	delay   time.Duration
	handoff *Handoff
}

func (f *fakeFinalizer) Finalize(_ context.Context, d testDraft) (*Handoff, error) {
	f.calls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail {
		return nil, commonerrors.NewSubmissionFailedError(errors.New("backend down"))
	}
	return f.handoff, nil
}

func newTestSession(t *testing.T, saver *fakeSaver, fin *fakeFinalizer) *Session[testDraft] {
	t.Helper()
	return NewSession(testDefinition(), testDraft{}, saver, fin, logger.NewTestLogger(t))
}

// ==========================
// Step Gating Tests
// ==========================

func TestNext_BlocksOnInvalidStep(t *testing.T) {
	saver := &fakeSaver{}
	s := newTestSession(t, saver, &fakeFinalizer{})

	adv, err := s.Next(context.Background())
	assert.Nil(t, adv)
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeStepValidationFailed, stdErr.Code)

	assert.Equal(t, 1, s.Current(), "pointer must not move")
	assert.Equal(t, "Name is required", s.Errors()["name"])
	assert.Zero(t, saver.saves, "invalid step must not persist")
}

func TestNext_PersistsAndAdvances(t *testing.T) {
	saver := &fakeSaver{}
	s := newTestSession(t, saver, &fakeFinalizer{})

	s.Update(func(d *testDraft) { d.Name = "Maria" })

	adv, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, adv.Step)
	assert.Empty(t, adv.SaveWarning)
	assert.Equal(t, 1, saver.saves)
	assert.Equal(t, "Maria", saver.last.Name)
	assert.Empty(t, s.Errors())
}

func TestNext_SaveFailureIsNonBlocking(t *testing.T) {
	saver := &fakeSaver{failOn: 1}
	s := newTestSession(t, saver, &fakeFinalizer{})
	s.Update(func(d *testDraft) { d.Name = "Maria" })

	adv, err := s.Next(context.Background())
	require.NoError(t, err, "a failed save must not block navigation")
	assert.Equal(t, 2, adv.Step)
	assert.NotEmpty(t, adv.SaveWarning)

	// Local state is intact and the next save carries it.
	assert.Equal(t, "Maria", s.Draft().Name)
}

func TestNext_ClampsAtFinalStep(t *testing.T) {
	saver := &fakeSaver{}
	s := newTestSession(t, saver, &fakeFinalizer{})
	s.Update(func(d *testDraft) {
		d.Name = "Maria"
		d.Email = "maria@example.com"
	})

	for i := 0; i < 5; i++ {
		_, err := s.Next(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.Current())
}

// ==========================
// Navigation Tests
// ==========================

func TestPreviousAndGoTo(t *testing.T) {
	s := newTestSession(t, &fakeSaver{}, &fakeFinalizer{})

	assert.Equal(t, 1, s.Previous(), "previous clamps at 1")

	require.NoError(t, s.GoTo(3), "free navigation skips validation")
	assert.Equal(t, 3, s.Current())
	assert.Equal(t, 2, s.Previous())

	assert.Error(t, s.GoTo(0))
	assert.Error(t, s.GoTo(4))
	assert.Equal(t, 2, s.Current())
}

// ==========================
// Completion Derivation Tests
// ==========================

func TestCompletionSet_RecomputedOnEveryMutation(t *testing.T) {
	s := newTestSession(t, &fakeSaver{}, &fakeFinalizer{})
	assert.Empty(t, s.Completed())

	s.Update(func(d *testDraft) { d.Name = "Maria" })
	assert.Equal(t, []int{1}, s.Completed())

	s.Update(func(d *testDraft) { d.Email = "maria@example.com" })
	assert.Equal(t, []int{1, 2, 3}, s.Completed())

	// Clearing a field while revisiting removes the stale completion entry.
	s.Update(func(d *testDraft) { d.Name = "" })
	assert.Equal(t, []int{2}, s.Completed())
}

// ==========================
// Submission Tests
// ==========================

func TestSubmit_RunsSubmitCheck(t *testing.T) {
	def := testDefinition()
	def.SubmitCheck = func(d testDraft) Errors {
		if d.City == "" {
			return Errors{"city": "City must be confirmed"}
		}
		return nil
	}
	fin := &fakeFinalizer{handoff: &Handoff{Route: "tracking", RecordID: "rec-1"}}
	s := NewSession(def, testDraft{Name: "Maria", Email: "maria@example.com"}, &fakeSaver{}, fin, logger.NewNoOpLogger())

	_, err := s.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "City must be confirmed", s.Errors()["city"])
	assert.Zero(t, fin.calls)

	s.Update(func(d *testDraft) { d.City = "Manila" })
	handoff, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tracking", handoff.Route)
	assert.True(t, s.Submitted())
}

func TestSubmit_FailureKeepsSessionOnReviewStep(t *testing.T) {
	fin := &fakeFinalizer{fail: true}
	s := NewSession(testDefinition(), testDraft{Name: "Maria", Email: "m@e.com"}, &fakeSaver{}, fin, logger.NewNoOpLogger())
	require.NoError(t, s.GoTo(3))

	_, err := s.Submit(context.Background())
	require.Error(t, err)
	assert.False(t, s.Submitted())
	assert.Equal(t, 3, s.Current())
}

func TestSubmit_PermissiveAboutEarlierSteps(t *testing.T) {
	// Free navigation means earlier steps can be invalid at submit time; only
	// the final step and the submit check gate submission.
	fin := &fakeFinalizer{handoff: &Handoff{Route: "tracking", RecordID: "rec-2"}}
	s := NewSession(testDefinition(), testDraft{Email: "m@e.com"}, &fakeSaver{}, fin, logger.NewNoOpLogger())

	handoff, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rec-2", handoff.RecordID)
}

func TestSubmit_RepeatSubmitRejected(t *testing.T) {
	fin := &fakeFinalizer{handoff: &Handoff{Route: "payment", RecordID: "rec-3"}}
	s := NewSession(testDefinition(), testDraft{Name: "Maria", Email: "m@e.com"}, &fakeSaver{}, fin, logger.NewNoOpLogger())

	_, err := s.Submit(context.Background())
	require.NoError(t, err)

	_, err = s.Submit(context.Background())
	require.Error(t, err)
	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeAlreadySubmitted, stdErr.Code)
	assert.Equal(t, 1, fin.calls, "finalizer must run exactly once")
}

func TestSubmit_RapidRepeatedSubmitsFinalizeOnce(t *testing.T) {
	// Two in-flight submits for one session: the second serializes behind the
	// first and must be rejected, not finalized again.
	fin := &fakeFinalizer{delay: 50 * time.Millisecond, handoff: &Handoff{Route: "payment", RecordID: "rec-4"}}
	s := NewSession(testDefinition(), testDraft{Name: "Maria", Email: "m@e.com"}, &fakeSaver{}, fin, logger.NewNoOpLogger())

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Submit(context.Background())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, rejected := 0, 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var stdErr *commonerrors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Equal(t, commonerrors.ErrCodeAlreadySubmitted, stdErr.Code)
		rejected++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 1, fin.calls, "finalizer must run exactly once")
	assert.True(t, s.Submitted())
}
