// internal/wizard/quote/steps.go
package quote

import (
	"licensure-service/internal/fields"
	"licensure-service/internal/models"
	"licensure-service/internal/wizard"
)

// Draft holds the in-memory state of a public quotation request. Unlike the
// application wizards this flow is anonymous and never autosaved.
type Draft struct {
	// Step 1: service selection
	Service     string `json:"service"`    // "nclex" today, room for more
	BoardState  string `json:"boardState"` // US state the exam is taken for
	TakerType   string `json:"takerType"`  // "first-time" or "retaker"
	PaymentType string `json:"paymentType"`

	// Step 2: contact details
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`

	// Step 3: review
	AgreedToTerms bool `json:"agreedToTerms"`
}

// normalize keeps the taker/payment combination legal: retakers pay the
// second-step fees up front, so staggered payment silently falls back to
// full.
func normalize(d *Draft) {
	if d.TakerType == models.TakerRetaker && d.PaymentType == models.PaymentStaggered {
		d.PaymentType = models.PaymentFull
	}
	if d.PaymentType == "" {
		d.PaymentType = models.PaymentFull
	}
}

// Definition returns the 3-step quotation wizard.
func Definition() *wizard.Definition[Draft] {
	return &wizard.Definition[Draft]{
		Kind:      "quote",
		Normalize: normalize,
		Steps: []wizard.Step[Draft]{
			{
				Index:  1,
				Title:  "Service Selection",
				Fields: []string{"service", "boardState", "takerType", "paymentType"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.Service, "Service"); msg != "" {
						errs["service"] = msg
					}
					if msg := fields.ValidateRequired(d.BoardState, "Board state"); msg != "" {
						errs["boardState"] = msg
					}
					if d.TakerType != models.TakerFirstTime && d.TakerType != models.TakerRetaker {
						errs["takerType"] = "Select first-time or retaker"
					}
					return errs
				},
				Complete: func(d Draft) bool {
					return d.Service != "" && d.BoardState != "" &&
						(d.TakerType == models.TakerFirstTime || d.TakerType == models.TakerRetaker)
				},
			},
			{
				Index:  2,
				Title:  "Contact Details",
				Fields: []string{"firstName", "lastName", "email", "mobile"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.FirstName, "First name"); msg != "" {
						errs["firstName"] = msg
					}
					if msg := fields.ValidateRequired(d.LastName, "Last name"); msg != "" {
						errs["lastName"] = msg
					}
					if msg := fields.ValidateRequired(d.Email, "Email"); msg != "" {
						errs["email"] = msg
					} else if msg := fields.ValidateEmail(d.Email); msg != "" {
						errs["email"] = msg
					}
					if msg := fields.ValidatePhone(d.Mobile); msg != "" {
						errs["mobile"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool {
					return d.FirstName != "" && d.LastName != "" &&
						d.Email != "" && fields.ValidateEmail(d.Email) == ""
				},
			},
			{
				Index:  3,
				Title:  "Review",
				Fields: []string{"agreedToTerms"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if !d.AgreedToTerms {
						errs["agreedToTerms"] = "You must agree to the terms to request a quotation"
					}
					return errs
				},
				Complete: func(d Draft) bool { return d.AgreedToTerms },
			},
		},
	}
}
