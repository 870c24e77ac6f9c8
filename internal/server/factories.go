// internal/server/factories.go
package server

import (
	"context"
	"time"

	"licensure-service/internal/common/logger"
	"licensure-service/internal/draft"
	"licensure-service/internal/fields"
	"licensure-service/internal/models"
	"licensure-service/internal/reminder"
	"licensure-service/internal/submission"
	"licensure-service/internal/wizard"
	"licensure-service/internal/wizard/ead"
	"licensure-service/internal/wizard/nclex"
	"licensure-service/internal/wizard/quote"
)

// Deps carries the backends the wizard factories wire together.
type Deps struct {
	Applications   draft.ApplicationStore
	Profiles       ProfileService
	Submitter      *submission.Submitter
	QuoteFinalizer *submission.QuoteFinalizer
	Reminders      *reminder.Scheduler
	Logger         logger.Logger
}

// prefill layers stored profile fields under a loaded draft: profile values
// fill the gaps, draft values always win.
func prefill(ctx context.Context, deps Deps, userID string, loaded map[string]interface{}) map[string]interface{} {
	if deps.Profiles == nil {
		return loaded
	}
	profile, err := deps.Profiles.Get(ctx, userID)
	if err != nil {
		deps.Logger.Warn("profile prefill skipped", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		return loaded
	}
	if profile == nil || len(profile.Data) == 0 {
		return loaded
	}
	return draft.Merge(profile.Data, loaded)
}

// Factories registers every wizard kind against its draft codec, autosave
// adapter and finalizer.
func Factories(deps Deps) map[string]Factory {
	return map[string]Factory{
		models.ApplicationTypeEAD:   eadFactory(deps),
		models.ApplicationTypeNCLEX: nclexFactory(deps),
		"quote":                     quoteFactory(deps),
	}
}

func eadFactory(deps Deps) Factory {
	return func(ctx context.Context, userID string) (Runner, error) {
		adapter := draft.NewAdapter(deps.Applications, userID, models.ApplicationTypeEAD, ead.Encode, deps.Logger)
		d := ead.Decode(prefill(ctx, deps, userID, adapter.Load(ctx)))

		finalizer := &submission.Finalizer[ead.Draft]{
			Submitter: deps.Submitter,
			RecordID:  adapter.RecordID,
			Build: func(d ead.Draft) submission.Input {
				return submission.Input{
					UserID:          userID,
					ApplicationType: models.ApplicationTypeEAD,
					Data:            ead.Encode(d),
					Service:         models.ApplicationTypeEAD,
					State:           d.State,
					TakerType:       models.TakerFirstTime,
					PaymentType:     models.PaymentFull,
					Email:           d.Email,
					Phone:           d.Phone,
					FullName:        fields.FormatFullName(d.FirstName, d.MiddleName, d.LastName),
				}
			},
		}

		saver := withProfileSync[ead.Draft](adapter, deps, userID, models.ApplicationTypeEAD, ead.Encode, func(d ead.Draft) (string, string) {
			return d.Email, fields.FormatFullName(d.FirstName, d.MiddleName, d.LastName)
		})
		return NewRunner(ead.Definition(), d, saver, finalizer, ead.Encode, deps.Logger), nil
	}
}

func nclexFactory(deps Deps) Factory {
	return func(ctx context.Context, userID string) (Runner, error) {
		adapter := draft.NewAdapter(deps.Applications, userID, models.ApplicationTypeNCLEX, nclex.Encode, deps.Logger)
		d := nclex.Decode(prefill(ctx, deps, userID, adapter.Load(ctx)))

		finalizer := &submission.Finalizer[nclex.Draft]{
			Submitter: deps.Submitter,
			RecordID:  adapter.RecordID,
			Build: func(d nclex.Draft) submission.Input {
				return submission.Input{
					UserID:          userID,
					ApplicationType: models.ApplicationTypeNCLEX,
					Data:            nclex.Encode(d),
					Service:         models.ApplicationTypeNCLEX,
					State:           d.BoardState,
					TakerType:       d.TakerType,
					Email:           d.Email,
					Phone:           d.Phone,
					FullName:        d.FullName(),
				}
			},
		}

		saver := withProfileSync[nclex.Draft](adapter, deps, userID, models.ApplicationTypeNCLEX, nclex.Encode, func(d nclex.Draft) (string, string) {
			return d.Email, d.FullName()
		})
		return NewRunner(nclex.Definition(), d, saver, finalizer, nclex.Encode, deps.Logger), nil
	}
}

func quoteFactory(deps Deps) Factory {
	return func(ctx context.Context, userID string) (Runner, error) {
		encode := func(d quote.Draft) map[string]interface{} {
			return map[string]interface{}{
				"service":       d.Service,
				"boardState":    d.BoardState,
				"takerType":     d.TakerType,
				"paymentType":   d.PaymentType,
				"firstName":     d.FirstName,
				"lastName":      d.LastName,
				"email":         d.Email,
				"mobile":        d.Mobile,
				"agreedToTerms": d.AgreedToTerms,
			}
		}
		// Quote drafts are anonymous and throwaway: no autosave.
		return NewRunner(quote.Definition(), quote.Draft{}, noopSaver[quote.Draft]{}, deps.QuoteFinalizer, encode, deps.Logger), nil
	}
}

type noopSaver[D any] struct{}

func (noopSaver[D]) Save(ctx context.Context, draft D) error { return nil }

// profileSaver decorates the draft adapter: after a successful save it
// upserts the reusable profile fields and schedules (rate-limited) a
// profile-completion reminder in the background.
type profileSaver[D any] struct {
	inner   wizard.Saver[D]
	deps    Deps
	userID  string
	appType string
	encode  func(D) map[string]interface{}
	contact func(D) (email, fullName string)
}

func withProfileSync[D any](inner wizard.Saver[D], deps Deps, userID, appType string, encode func(D) map[string]interface{}, contact func(D) (string, string)) wizard.Saver[D] {
	if deps.Profiles == nil && deps.Reminders == nil {
		return inner
	}
	return &profileSaver[D]{inner: inner, deps: deps, userID: userID, appType: appType, encode: encode, contact: contact}
}

func (s *profileSaver[D]) Save(ctx context.Context, d D) error {
	if err := s.inner.Save(ctx, d); err != nil {
		return err
	}

	if s.deps.Profiles != nil {
		if data := profileFields(s.encode(d)); len(data) > 0 {
			if err := s.deps.Profiles.Save(ctx, s.userID, data); err != nil {
				s.deps.Logger.Warn("profile sync failed", map[string]interface{}{
					"userId": s.userID,
					"error":  err.Error(),
				})
			}
		}
	}

	if s.deps.Reminders == nil {
		return nil
	}
	email, fullName := s.contact(d)
	if email == "" {
		return nil
	}
	go func() {
		rctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.deps.Reminders.MaybeRemind(rctx, s.userID, email, fullName, s.appType); err != nil {
			s.deps.Logger.Warn("reminder scheduling failed", map[string]interface{}{
				"userId": s.userID,
				"error":  err.Error(),
			})
		}
	}()
	return nil
}

// profileFields extracts the reusable identity/contact subset of a draft.
func profileFields(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, key := range profileKeys {
		if v, ok := data[key].(string); ok && v != "" {
			out[key] = v
		}
	}
	return out
}
