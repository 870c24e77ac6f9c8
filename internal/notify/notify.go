// internal/notify/notify.go
package notify

import (
	"context"
	"fmt"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"
)

// EmailSender sends one plain-text email.
type EmailSender interface {
	SendText(ctx context.Context, from, to, subject, body string) error
}

// SMSSender sends one SMS message.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) error
}

// Notifier sends submission and quotation notifications. Notification
// failures are logged, never surfaced to the caller: a lost email must not
// undo a successful submission.
type Notifier struct {
	email       EmailSender
	sms         SMSSender
	senderEmail string
	logger      logger.Logger
}

func New(email EmailSender, sms SMSSender, senderEmail string, log logger.Logger) *Notifier {
	return &Notifier{
		email:       email,
		sms:         sms,
		senderEmail: senderEmail,
		logger:      log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// warnFailed records a delivery failure as the standard notification error.
// The caller continues; a lost message never propagates.
func (n *Notifier) warnFailed(msg, channel string, err error, fields map[string]interface{}) {
	nerr := commonerrors.NewNotificationFailedError(channel, err)
	fields["errorCode"] = string(nerr.Code)
	fields["details"] = nerr.Details
	n.logger.Warn(msg, fields)
}

// SubmissionReceived confirms a submitted application by email and, when a
// phone number is on file, by SMS.
func (n *Notifier) SubmissionReceived(ctx context.Context, record *models.DraftRecord, email, phone, fullName string) {
	if n.email != nil && email != "" {
		subject := "Application received"
		body := fmt.Sprintf(
			"Hi %s,\n\nWe received your %s application (reference %s). "+
				"Our team will review it and follow up with the next steps.\n",
			fullName, record.ApplicationType, record.ID)
		if err := n.email.SendText(ctx, n.senderEmail, email, subject, body); err != nil {
			n.warnFailed("submission email failed", "email", err, map[string]interface{}{
				"applicationId": record.ID,
			})
		}
	}

	if n.sms != nil && phone != "" {
		msg := fmt.Sprintf("Your %s application was received. Ref: %s", record.ApplicationType, record.ID)
		if err := n.sms.SendSMS(ctx, phone, msg); err != nil {
			n.warnFailed("submission sms failed", "sms", err, map[string]interface{}{
				"applicationId": record.ID,
			})
		}
	}
}

// QuotationReady emails the requester their quotation reference.
func (n *Notifier) QuotationReady(ctx context.Context, q *models.Quotation) {
	if n.email == nil || q.Email == "" {
		return
	}
	subject := fmt.Sprintf("Your quotation %s", q.DisplayID)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour quotation for %s (%s) is ready. "+
			"Amount due: %.2f. Reference: %s.\n",
		q.FirstName, q.Service, q.State, q.Amount, q.DisplayID)
	if err := n.email.SendText(ctx, n.senderEmail, q.Email, subject, body); err != nil {
		n.warnFailed("quotation email failed", "email", err, map[string]interface{}{
			"quotationId": q.ID,
		})
	}
}

// ProfileReminder nudges a user to finish an incomplete draft.
func (n *Notifier) ProfileReminder(ctx context.Context, email, fullName, applicationType string) {
	if n.email == nil || email == "" {
		return
	}
	subject := "Your application is waiting"
	body := fmt.Sprintf(
		"Hi %s,\n\nYou have an unfinished %s application. "+
			"Pick up where you left off any time; your answers are saved.\n",
		fullName, applicationType)
	if err := n.email.SendText(ctx, n.senderEmail, email, subject, body); err != nil {
		n.warnFailed("reminder email failed", "email", err, map[string]interface{}{
			"email": email,
		})
	}
}
