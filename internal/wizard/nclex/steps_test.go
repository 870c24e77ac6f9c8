// internal/wizard/nclex/steps_test.go
package nclex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================================
// Test Helpers
// ==========================================

func completeDraft() Draft {
	return Draft{
		FirstName:        "Maria",
		MiddleName:       "Dela",
		LastName:         "Cruz",
		DateOfBirth:      "05/14/1996",
		Email:            "maria@example.com",
		Phone:            "+63 917 555 0134",
		StreetAddress:    "12 Mabini St",
		City:             "Manila",
		Province:         "Metro Manila",
		Zip:              "1000",
		Country:          "Philippines",
		SchoolName:       "University of Santo Tomas",
		SchoolCountry:    "Philippines",
		GraduationDate:   "04/2018",
		YearsAttended:    "4",
		LicenseNumber:    "RN-0012345",
		LicenseCountry:   "Philippines",
		LicenseIssueDate: "06/01/2018",
		BoardState:       "New York",
		TakerType:        "first-time",
		DiplomaPath:      "docs/diploma.pdf",
		LicensePath:      "docs/license.pdf",
		PhotoPath:        "docs/photo.jpg",
		Signature:        "Maria Dela Cruz",
	}
}

// ==========================================
// Definition Tests
// ==========================================

func TestDefinitionHasEightSteps(t *testing.T) {
	def := Definition()
	require.Len(t, def.Steps, 8)
	assert.Equal(t, "nclex", def.Kind)
	for i, step := range def.Steps {
		assert.Equal(t, i+1, step.Index)
	}
}

func TestPersonalStepRequiresNames(t *testing.T) {
	def := Definition()
	errs := def.Steps[0].Validate(Draft{})
	assert.Contains(t, errs, "firstName")
	assert.Contains(t, errs, "lastName")
	assert.Contains(t, errs, "dateOfBirth")

	errs = def.Steps[0].Validate(completeDraft())
	assert.Empty(t, errs)
}

func TestPersonalStepRejectsFutureBirthDate(t *testing.T) {
	def := Definition()
	d := completeDraft()
	d.DateOfBirth = "01/01/2090"
	errs := def.Steps[0].Validate(d)
	assert.Contains(t, errs, "dateOfBirth")
}

func TestEducationStepValidatesMonthAndYears(t *testing.T) {
	def := Definition()
	d := completeDraft()
	d.GraduationDate = "13/2018"
	d.YearsAttended = "25"
	errs := def.Steps[2].Validate(d)
	assert.Contains(t, errs, "graduationDate")
	assert.Contains(t, errs, "yearsAttended")
}

func TestWorkExperienceOptionalForFreshGraduates(t *testing.T) {
	def := Definition()
	d := completeDraft()
	d.EmployerName = ""
	assert.True(t, def.Steps[5].Complete(d))

	d.EmployerName = "St. Luke's Medical Center"
	assert.False(t, def.Steps[5].Complete(d), "named employer needs position and start month")

	d.Position = "Staff Nurse"
	d.EmploymentStart = "07/2018"
	assert.True(t, def.Steps[5].Complete(d))
}

func TestDocumentStepGatesCompletion(t *testing.T) {
	def := Definition()
	d := completeDraft()
	d.PhotoPath = ""
	assert.Empty(t, def.Steps[6].Validate(d), "missing uploads do not block navigation")
	assert.False(t, def.Steps[6].Complete(d))

	d.PhotoPath = "docs/photo.jpg"
	assert.True(t, def.Steps[6].Complete(d))
}

// ==========================================
// Signature Tests
// ==========================================

func TestSignatureMatchIsCaseInsensitive(t *testing.T) {
	def := Definition()

	d := completeDraft()
	d.Signature = "maria dela cruz"
	assert.Empty(t, def.SubmitCheck(d))

	d.Signature = "Maria  Dela   Cruz"
	assert.Empty(t, def.SubmitCheck(d), "extra spacing is tolerated")
}

func TestSignatureMismatchRejected(t *testing.T) {
	def := Definition()

	d := completeDraft()
	d.Signature = "Maria Cruz"
	errs := def.SubmitCheck(d)
	require.Contains(t, errs, "signature")
	assert.Equal(t, "Signature must match your full name", errs["signature"])

	d.Signature = ""
	errs = def.SubmitCheck(d)
	assert.Contains(t, errs, "signature")
}

func TestFullNameSkipsBlankMiddleName(t *testing.T) {
	d := Draft{FirstName: "Juan", LastName: "Reyes"}
	assert.Equal(t, "Juan Reyes", d.FullName())
}

// ==========================================
// Encode/Decode Tests
// ==========================================

func TestEncodeDecodeRoundTrip(t *testing.T) {
	d := completeDraft()
	record := Encode(d)

	assert.Equal(t, "1996-05-14", record["dateOfBirth"], "dates stored in database format")
	assert.Equal(t, "04/2018", record["graduationDate"], "months keep their display format")

	back := Decode(record)
	assert.Equal(t, d, back)
}

func TestDecodeToleratesMissingFields(t *testing.T) {
	back := Decode(map[string]interface{}{
		"firstName":   "Maria",
		"dateOfBirth": nil,
		"zip":         1000,
	})
	assert.Equal(t, "Maria", back.FirstName)
	assert.Empty(t, back.DateOfBirth)
	assert.Empty(t, back.Zip)
}
