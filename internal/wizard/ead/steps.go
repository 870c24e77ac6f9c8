// internal/wizard/ead/steps.go
package ead

import (
	"licensure-service/internal/fields"
	"licensure-service/internal/wizard"
)

// Draft holds the in-memory state of one EAD (I-765) application wizard.
type Draft struct {
	// Step 1: filing reason
	ReasonForFiling string `json:"reasonForFiling"` // "initial", "renewal", "replacement"

	// Step 2: name
	FirstName      string `json:"firstName"`
	MiddleName     string `json:"middleName"`
	LastName       string `json:"lastName"`
	OtherNamesUsed string `json:"otherNamesUsed"`

	// Step 3: mailing address
	StreetAddress string `json:"streetAddress"`
	AptNumber     string `json:"aptNumber"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`

	// Step 4: contact
	Email string `json:"email"`
	Phone string `json:"phone"`

	// Step 5: birth information
	DateOfBirth    string `json:"dateOfBirth"` // MM/DD/YYYY
	CityOfBirth    string `json:"cityOfBirth"`
	CountryOfBirth string `json:"countryOfBirth"`

	// Step 6: immigration details
	CountryOfCitizenship string `json:"countryOfCitizenship"`
	I94Number            string `json:"i94Number"`
	PassportNumber       string `json:"passportNumber"`
	LastEntryDate        string `json:"lastEntryDate"` // MM/DD/YYYY
	PlaceOfLastEntry     string `json:"placeOfLastEntry"`
	StatusAtLastEntry    string `json:"statusAtLastEntry"`

	// Step 7: social security
	HasSSN               string `json:"hasSSN"` // "Yes" / "No"
	SSN                  string `json:"ssn"`
	WantSSNCard          string `json:"wantSSNCard"`
	ConsentSSADisclosure string `json:"consentSSADisclosure"`

	// Step 8: eligibility
	EligibilityCategory string `json:"eligibilityCategory"`

	// Step 9: supporting documents
	PassportPhotoPath string `json:"passportPhotoPath"`
	I94DocumentPath   string `json:"i94DocumentPath"`

	// Step 10: history
	MaritalStatus        string `json:"maritalStatus"`
	PreviouslyFiledI765  string `json:"previouslyFiledI765"` // "Yes" / "No"
	PreviousFilingDate   string `json:"previousFilingDate"`  // MM/DD/YYYY, when previously filed
	PreviousFilingOffice string `json:"previousFilingOffice"`

	// Step 11: review
	CertifyAccuracy string `json:"certifyAccuracy"` // "Yes" when checked
}

// normalize applies the cross-field auto-set rules. An initial filing means
// the applicant has no SSN yet, so the SSA card request and disclosure
// consent are forced on and any typed SSN is discarded.
func normalize(d *Draft) {
	if d.ReasonForFiling == "initial" {
		d.HasSSN = "No"
		d.SSN = ""
		d.WantSSNCard = "Yes"
		d.ConsentSSADisclosure = "Yes"
	}
	if d.HasSSN == "No" {
		d.SSN = ""
	}
	if d.PreviouslyFiledI765 != "Yes" {
		d.PreviousFilingDate = ""
		d.PreviousFilingOffice = ""
	}
}

// Definition returns the 11-step EAD wizard.
func Definition() *wizard.Definition[Draft] {
	return &wizard.Definition[Draft]{
		Kind:      "ead",
		Normalize: normalize,
		Steps: []wizard.Step[Draft]{
			{
				Index:  1,
				Title:  "Reason for Filing",
				Fields: []string{"reasonForFiling"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.ReasonForFiling, "Reason for filing"); msg != "" {
						errs["reasonForFiling"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool { return d.ReasonForFiling != "" },
			},
			{
				Index:  2,
				Title:  "Your Name",
				Fields: []string{"firstName", "middleName", "lastName", "otherNamesUsed"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.FirstName, "First name"); msg != "" {
						errs["firstName"] = msg
					}
					if msg := fields.ValidateRequired(d.LastName, "Last name"); msg != "" {
						errs["lastName"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool { return d.FirstName != "" && d.LastName != "" },
			},
			{
				Index:  3,
				Title:  "Mailing Address",
				Fields: []string{"streetAddress", "aptNumber", "city", "state", "zip"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.StreetAddress, "Street address"); msg != "" {
						errs["streetAddress"] = msg
					}
					if msg := fields.ValidateRequired(d.City, "City"); msg != "" {
						errs["city"] = msg
					}
					if msg := fields.ValidateRequired(d.State, "State"); msg != "" {
						errs["state"] = msg
					}
					if msg := fields.ValidateRequired(d.Zip, "Zip code"); msg != "" {
						errs["zip"] = msg
					} else if msg := fields.ValidateZip(d.Zip); msg != "" {
						errs["zip"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool {
					return d.StreetAddress != "" && d.City != "" && d.State != "" &&
						d.Zip != "" && fields.ValidateZip(d.Zip) == ""
				},
			},
			{
				Index:  4,
				Title:  "Contact Information",
				Fields: []string{"email", "phone"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.Email, "Email"); msg != "" {
						errs["email"] = msg
					} else if msg := fields.ValidateEmail(d.Email); msg != "" {
						errs["email"] = msg
					}
					if msg := fields.ValidateRequired(d.Phone, "Phone number"); msg != "" {
						errs["phone"] = msg
					} else if msg := fields.ValidatePhone(d.Phone); msg != "" {
						errs["phone"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool {
					return d.Email != "" && fields.ValidateEmail(d.Email) == "" &&
						d.Phone != "" && fields.ValidatePhone(d.Phone) == ""
				},
			},
			{
				Index:  5,
				Title:  "Birth Information",
				Fields: []string{"dateOfBirth", "cityOfBirth", "countryOfBirth"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.DateOfBirth, "Date of birth"); msg != "" {
						errs["dateOfBirth"] = msg
					} else if msg := fields.ValidateNotFuture(d.DateOfBirth); msg != "" {
						errs["dateOfBirth"] = msg
					}
					if msg := fields.ValidateRequired(d.CountryOfBirth, "Country of birth"); msg != "" {
						errs["countryOfBirth"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool {
					return d.DateOfBirth != "" && fields.ValidateNotFuture(d.DateOfBirth) == "" &&
						d.CountryOfBirth != ""
				},
			},
			{
				Index: 6,
				Title: "Immigration Details",
				Fields: []string{
					"countryOfCitizenship", "i94Number", "passportNumber",
					"lastEntryDate", "placeOfLastEntry", "statusAtLastEntry",
				},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.CountryOfCitizenship, "Country of citizenship"); msg != "" {
						errs["countryOfCitizenship"] = msg
					}
					if msg := fields.ValidateNotFuture(d.LastEntryDate); msg != "" {
						errs["lastEntryDate"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool {
					return d.CountryOfCitizenship != "" && d.PassportNumber != "" &&
						fields.ValidateNotFuture(d.LastEntryDate) == ""
				},
			},
			{
				Index:  7,
				Title:  "Social Security",
				Fields: []string{"hasSSN", "ssn", "wantSSNCard", "consentSSADisclosure"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.HasSSN, "SSN status"); msg != "" {
						errs["hasSSN"] = msg
					}
					if d.HasSSN == "Yes" {
						if msg := fields.ValidateRequired(d.SSN, "SSN"); msg != "" {
							errs["ssn"] = msg
						} else if msg := fields.ValidateSSN(d.SSN); msg != "" {
							errs["ssn"] = msg
						}
					}
					return errs
				},
				Complete: func(d Draft) bool {
					if d.HasSSN == "" {
						return false
					}
					if d.HasSSN == "Yes" {
						return d.SSN != "" && fields.ValidateSSN(d.SSN) == ""
					}
					return d.WantSSNCard != "" && d.ConsentSSADisclosure != ""
				},
			},
			{
				Index:  8,
				Title:  "Eligibility Category",
				Fields: []string{"eligibilityCategory"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.EligibilityCategory, "Eligibility category"); msg != "" {
						errs["eligibilityCategory"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool { return d.EligibilityCategory != "" },
			},
			{
				Index:  9,
				Title:  "Supporting Documents",
				Fields: []string{"passportPhotoPath", "i94DocumentPath"},
				Validate: func(d Draft) wizard.Errors {
					// Uploads are optional at navigation time; completion gates on them.
					return wizard.Errors{}
				},
				Complete: func(d Draft) bool {
					return d.PassportPhotoPath != "" && d.I94DocumentPath != ""
				},
			},
			{
				Index:  10,
				Title:  "Filing History",
				Fields: []string{"maritalStatus", "previouslyFiledI765", "previousFilingDate", "previousFilingOffice"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.MaritalStatus, "Marital status"); msg != "" {
						errs["maritalStatus"] = msg
					}
					if msg := fields.ValidateRequired(d.PreviouslyFiledI765, "Previous filing answer"); msg != "" {
						errs["previouslyFiledI765"] = msg
					}
					if d.PreviouslyFiledI765 == "Yes" {
						if msg := fields.ValidateNotFuture(d.PreviousFilingDate); msg != "" {
							errs["previousFilingDate"] = msg
						}
					}
					return errs
				},
				Complete: func(d Draft) bool {
					return d.MaritalStatus != "" && d.PreviouslyFiledI765 != ""
				},
			},
			{
				Index:  11,
				Title:  "Review & Certification",
				Fields: []string{"certifyAccuracy"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if d.CertifyAccuracy != "Yes" {
						errs["certifyAccuracy"] = "You must certify that the information is accurate"
					}
					return errs
				},
				Complete: func(d Draft) bool { return d.CertifyAccuracy == "Yes" },
			},
		},
	}
}
