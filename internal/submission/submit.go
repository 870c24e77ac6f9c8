// internal/submission/submit.go
package submission

import (
	"context"
	"time"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"
	"licensure-service/internal/pricing"
	"licensure-service/internal/wizard"
)

// ApplicationStore is the subset of the applications store the submitter
// needs.
type ApplicationStore interface {
	FindLatestPending(ctx context.Context, userID, appType string) (*models.DraftRecord, error)
	Create(ctx context.Context, userID, appType string, data map[string]interface{}) (*models.DraftRecord, error)
	Update(ctx context.Context, id string, data map[string]interface{}, status string) (*models.DraftRecord, error)
}

// PaymentCreator records the payment due for a submitted application and
// answers whether the user already paid for this service before.
type PaymentCreator interface {
	Create(ctx context.Context, applicationID, paymentType string, amount float64) (*models.Payment, error)
	HasPriorPayment(ctx context.Context, userID, applicationType string) (bool, error)
}

// FeeSource resolves the fee schedule variant an application pays against.
type FeeSource interface {
	GetVariant(ctx context.Context, serviceName, state, paymentType string) (*models.ServiceConfig, error)
}

// Notifications is the decoupled confirmation side effect.
type Notifications interface {
	SubmissionReceived(ctx context.Context, record *models.DraftRecord, email, phone, fullName string)
}

// Input carries everything a terminal submission needs. Data is the full
// encoded draft; Service/State/PaymentType select the fee schedule.
type Input struct {
	UserID          string
	ApplicationType string
	RecordID        string // empty when the draft was never autosaved
	Data            map[string]interface{}

	Service     string
	State       string
	TakerType   string
	PaymentType string

	Email    string
	Phone    string
	FullName string
}

// Submitter flips a draft to submitted, creates the payment due now and hands
// the caller the next route. Submission is all-or-nothing for the record
// write; the payment step degrades to the tracking route instead of undoing
// a successful submission.
type Submitter struct {
	apps     ApplicationStore
	payments PaymentCreator
	fees     FeeSource
	engine   *pricing.Engine
	notify   Notifications
	logger   logger.Logger
}

func NewSubmitter(apps ApplicationStore, payments PaymentCreator, fees FeeSource, engine *pricing.Engine, notify Notifications, log logger.Logger) *Submitter {
	return &Submitter{
		apps:     apps,
		payments: payments,
		fees:     fees,
		engine:   engine,
		notify:   notify,
		logger:   log.WithFields(map[string]interface{}{"component": "submitter"}),
	}
}

// Submit persists the complete draft with submitted status, then creates the
// payment record for the amount due now.
func (s *Submitter) Submit(ctx context.Context, in Input) (*wizard.Handoff, error) {
	record, err := s.upsertSubmitted(ctx, in)
	if err != nil {
		return nil, commonerrors.NewSubmissionFailedError(err)
	}

	handoff := &wizard.Handoff{
		Route:    "payment",
		RecordID: record.ID,
	}

	payment, err := s.createPayment(ctx, record.ID, in)
	if err != nil {
		// The application is submitted either way; the user can settle the
		// fee from the tracking page.
		s.logger.Warn("payment creation failed after submission", map[string]interface{}{
			"applicationId": record.ID,
			"error":         err.Error(),
		})
		handoff.Route = "tracking"
		handoff.Message = "Your application was submitted. Payment could not be initiated; you can pay from the tracking page."
	} else {
		handoff.PaymentID = payment.ID
	}

	if s.notify != nil {
		rec := record
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			s.notify.SubmissionReceived(nctx, rec, in.Email, in.Phone, in.FullName)
		}()
	}

	return handoff, nil
}

// upsertSubmitted writes the full draft under the stable record id, creating
// the record first when the wizard never autosaved.
func (s *Submitter) upsertSubmitted(ctx context.Context, in Input) (*models.DraftRecord, error) {
	id := in.RecordID
	if id == "" {
		if rec, err := s.apps.FindLatestPending(ctx, in.UserID, in.ApplicationType); err == nil && rec != nil {
			id = rec.ID
		}
	}
	if id == "" {
		rec, err := s.apps.Create(ctx, in.UserID, in.ApplicationType, in.Data)
		if err != nil {
			return nil, err
		}
		id = rec.ID
	}

	rec, err := s.apps.Update(ctx, id, in.Data, models.StatusSubmitted)
	if err != nil {
		return nil, err
	}
	rec.UserID = in.UserID
	rec.ApplicationType = in.ApplicationType
	return rec, nil
}

// createPayment resolves the amount due now from the fee schedule. Full
// payment owes the whole schedule; staggered owes only the first-step
// partition. Retakers pay the second-step fees in full.
func (s *Submitter) createPayment(ctx context.Context, applicationID string, in Input) (*models.Payment, error) {
	takerType := in.TakerType
	if takerType != models.TakerRetaker {
		// The declared taker type is advisory; a recorded paid attempt
		// decides the fee schedule.
		prior, err := s.payments.HasPriorPayment(ctx, in.UserID, in.ApplicationType)
		if err != nil {
			s.logger.Warn("prior payment check failed, keeping declared taker type", map[string]interface{}{
				"userId": in.UserID,
				"error":  err.Error(),
			})
		} else if prior {
			takerType = models.TakerRetaker
		}
	}

	paymentType := in.PaymentType
	if paymentType == "" || takerType == models.TakerRetaker {
		paymentType = models.PaymentFull
	}

	cfg, err := s.fees.GetVariant(ctx, in.Service, in.State, paymentType)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, commonerrors.NewPriceTableNotFoundError(in.Service, in.State)
	}

	quote, err := s.engine.Build(takerType, paymentType, cfg.LineItems)
	if err != nil {
		return nil, err
	}

	payment, err := s.payments.Create(ctx, applicationID, paymentType, quote.Total)
	if err != nil {
		return nil, commonerrors.NewPaymentCreateFailedError(applicationID, err)
	}
	return payment, nil
}

// Finalizer adapts a Submitter to one wizard kind. Build extracts the
// submission input from the typed draft; RecordID reports the autosaved
// record id, when any.
type Finalizer[D any] struct {
	Submitter *Submitter
	Build     func(D) Input
	RecordID  func() string
}

func (f *Finalizer[D]) Finalize(ctx context.Context, draft D) (*wizard.Handoff, error) {
	in := f.Build(draft)
	if f.RecordID != nil && in.RecordID == "" {
		in.RecordID = f.RecordID()
	}
	return f.Submitter.Submit(ctx, in)
}
