// internal/wizard/nclex/steps.go
package nclex

import (
	"strings"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/fields"
	"licensure-service/internal/wizard"
)

// Draft holds the in-memory state of one NCLEX application wizard.
type Draft struct {
	// Step 1: personal information
	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"` // MM/DD/YYYY

	// Step 2: contact details
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	Province      string `json:"province"`
	Zip           string `json:"zip"`
	Country       string `json:"country"`

	// Step 3: nursing education
	SchoolName     string `json:"schoolName"`
	SchoolCountry  string `json:"schoolCountry"`
	GraduationDate string `json:"graduationDate"` // MM/YYYY
	YearsAttended  string `json:"yearsAttended"`

	// Step 4: local nursing license
	LicenseNumber     string `json:"licenseNumber"`
	LicenseCountry    string `json:"licenseCountry"`
	LicenseIssueDate  string `json:"licenseIssueDate"` // MM/DD/YYYY
	LicenseExpiryDate string `json:"licenseExpiryDate"`

	// Step 5: examination selection
	BoardState string `json:"boardState"`
	TakerType  string `json:"takerType"` // "first-time" or "retaker"

	// Step 6: work experience
	EmployerName    string `json:"employerName"`
	Position        string `json:"position"`
	EmploymentStart string `json:"employmentStart"` // MM/YYYY
	EmploymentEnd   string `json:"employmentEnd"`   // MM/YYYY, blank when current

	// Step 7: supporting documents
	DiplomaPath string `json:"diplomaPath"`
	LicensePath string `json:"licensePath"`
	PhotoPath   string `json:"photoPath"`

	// Step 8: review and signature
	Signature string `json:"signature"`
}

// FullName joins the name parts the way the signature must match them.
func (d Draft) FullName() string {
	return fields.FormatFullName(d.FirstName, d.MiddleName, d.LastName)
}

// submitCheck enforces that the typed signature textually equals the full
// name, case-insensitive. Run only at submission.
func submitCheck(d Draft) wizard.Errors {
	sig := strings.Join(strings.Fields(d.Signature), " ")
	if sig == "" {
		return wizard.Errors{"signature": "Signature is required"}
	}
	if !strings.EqualFold(sig, d.FullName()) {
		return wizard.Errors{"signature": commonerrors.NewSignatureMismatchError().Message}
	}
	return nil
}

// Definition returns the 8-step NCLEX wizard.
func Definition() *wizard.Definition[Draft] {
	return &wizard.Definition[Draft]{
		Kind:        "nclex",
		SubmitCheck: submitCheck,
		Steps: []wizard.Step[Draft]{
			{
				Index:  1,
				Title:  "Personal Information",
				Fields: []string{"firstName", "middleName", "lastName", "dateOfBirth"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.FirstName, "First name"); msg != "" {
						errs["firstName"] = msg
					}
					if msg := fields.ValidateRequired(d.LastName, "Last name"); msg != "" {
						errs["lastName"] = msg
					}
					if msg := fields.ValidateRequired(d.DateOfBirth, "Date of birth"); msg != "" {
						errs["dateOfBirth"] = msg
					} else if msg := fields.ValidateNotFuture(d.DateOfBirth); msg != "" {
						errs["dateOfBirth"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool {
					return d.FirstName != "" && d.LastName != "" &&
						d.DateOfBirth != "" && fields.ValidateNotFuture(d.DateOfBirth) == ""
				},
			},
			{
				Index:  2,
				Title:  "Contact Details",
				Fields: []string{"email", "phone", "streetAddress", "city", "province", "zip", "country"},
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
					if msg := fields.ValidateRequired(d.City, "City"); msg != "" {
						errs["city"] = msg
					}
					if msg := fields.ValidateZip(d.Zip); msg != "" {
						errs["zip"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool {
					return d.Email != "" && fields.ValidateEmail(d.Email) == "" &&
						d.Phone != "" && fields.ValidatePhone(d.Phone) == "" &&
						d.City != "" && d.Country != ""
				},
			},
			{
				Index:  3,
				Title:  "Nursing Education",
				Fields: []string{"schoolName", "schoolCountry", "graduationDate", "yearsAttended"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.SchoolName, "School name"); msg != "" {
						errs["schoolName"] = msg
					}
					if msg := fields.ValidateMonth(d.GraduationDate); msg != "" {
						errs["graduationDate"] = msg
					}
					if msg := fields.ValidateYearsAttended(d.YearsAttended); msg != "" {
						errs["yearsAttended"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool {
					return d.SchoolName != "" && d.GraduationDate != "" &&
						fields.ValidateMonth(d.GraduationDate) == "" &&
						d.YearsAttended != "" && fields.ValidateYearsAttended(d.YearsAttended) == ""
				},
			},
			{
				Index:  4,
				Title:  "Nursing License",
				Fields: []string{"licenseNumber", "licenseCountry", "licenseIssueDate", "licenseExpiryDate"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.LicenseNumber, "License number"); msg != "" {
						errs["licenseNumber"] = msg
					}
					if msg := fields.ValidateNotFuture(d.LicenseIssueDate); msg != "" {
						errs["licenseIssueDate"] = msg
					}
					if msg := fields.ValidateDate(d.LicenseExpiryDate); msg != "" {
						errs["licenseExpiryDate"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool {
					return d.LicenseNumber != "" && d.LicenseCountry != "" &&
						d.LicenseIssueDate != "" && fields.ValidateNotFuture(d.LicenseIssueDate) == ""
				},
			},
			{
				Index:  5,
				Title:  "Examination",
				Fields: []string{"boardState", "takerType"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.BoardState, "Board state"); msg != "" {
						errs["boardState"] = msg
					}
					if msg := fields.ValidateRequired(d.TakerType, "Taker type"); msg != "" {
						errs["takerType"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool { return d.BoardState != "" && d.TakerType != "" },
			},
			{
				Index:  6,
				Title:  "Work Experience",
				Fields: []string{"employerName", "position", "employmentStart", "employmentEnd"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateMonth(d.EmploymentStart); msg != "" {
						errs["employmentStart"] = msg
					}
					if msg := fields.ValidateMonth(d.EmploymentEnd); msg != "" {
						errs["employmentEnd"] = msg
					}
					return errs
				},
				// Work experience is optional for fresh graduates; the step
				// counts as complete once an employer is named or left blank
				// deliberately alongside a named school.
				Complete: func(d Draft) bool {
					if d.EmployerName == "" {
						return d.SchoolName != ""
					}
					return d.Position != "" && d.EmploymentStart != "" &&
						fields.ValidateMonth(d.EmploymentStart) == ""
				},
			},
			{
				Index:  7,
				Title:  "Supporting Documents",
				Fields: []string{"diplomaPath", "licensePath", "photoPath"},
				Validate: func(d Draft) wizard.Errors {
					return wizard.Errors{}
				},
				Complete: func(d Draft) bool {
					return d.DiplomaPath != "" && d.LicensePath != "" && d.PhotoPath != ""
				},
			},
			{
				Index:  8,
				Title:  "Review & Signature",
				Fields: []string{"signature"},
				Validate: func(d Draft) wizard.Errors {
					errs := wizard.Errors{}
					if msg := fields.ValidateRequired(d.Signature, "Signature"); msg != "" {
						errs["signature"] = msg
					}
					return errs
				},
				Complete: func(d Draft) bool {
					return strings.EqualFold(strings.TrimSpace(d.Signature), d.FullName()) && d.Signature != ""
				},
			},
		},
	}
}
