// internal/fields/format_test.go
package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Progressive Formatting Tests
// ==========================

func TestFormatMMDDYYYY_Progressive(t *testing.T) {
	assert.Equal(t, "", FormatMMDDYYYY(""))
	assert.Equal(t, "1", FormatMMDDYYYY("1"))
	assert.Equal(t, "12", FormatMMDDYYYY("12"))
	assert.Equal(t, "12/3", FormatMMDDYYYY("123"))
	assert.Equal(t, "12/31", FormatMMDDYYYY("1231"))
	assert.Equal(t, "12/31/1", FormatMMDDYYYY("12311"))
	assert.Equal(t, "12/31/1999", FormatMMDDYYYY("12311999"))
}

func TestFormatMMDDYYYY_StripsNonDigitsAndTruncates(t *testing.T) {
	assert.Equal(t, "12/31/1999", FormatMMDDYYYY("12/31/1999"))
	assert.Equal(t, "12/31/1999", FormatMMDDYYYY("12-31-1999 extra"))
	assert.Equal(t, "12/31/1999", FormatMMDDYYYY("123119992025"))
}

func TestFormatMMDDYYYY_Idempotent(t *testing.T) {
	inputs := []string{"", "1", "12", "123", "1231", "12311999", "02/29/2000", "garbage 4 5"}
	for _, in := range inputs {
		once := FormatMMDDYYYY(in)
		assert.Equal(t, once, FormatMMDDYYYY(once), "input %q", in)
	}
}

func TestFormatMMYYYY_Progressive(t *testing.T) {
	assert.Equal(t, "0", FormatMMYYYY("0"))
	assert.Equal(t, "03", FormatMMYYYY("03"))
	assert.Equal(t, "03/2", FormatMMYYYY("032"))
	assert.Equal(t, "03/2024", FormatMMYYYY("032024"))
	assert.Equal(t, "03/2024", FormatMMYYYY("03/2024"))
	assert.Equal(t, "03/2024", FormatMMYYYY("03202499"))
}

// ==========================
// Database Round-Trip Tests
// ==========================

func TestDatabaseDate_RoundTrip(t *testing.T) {
	for _, s := range []string{"01/01/1900", "02/29/2000", "12/31/2100", "07/04/1976"} {
		assert.Equal(t, s, FromDatabaseDate(ToDatabaseDate(s)), "round trip %q", s)
	}
}

func TestToDatabaseDate(t *testing.T) {
	assert.Equal(t, "1999-12-31", ToDatabaseDate("12/31/1999"))
	assert.Equal(t, "", ToDatabaseDate("13/01/1999"))
	assert.Equal(t, "", ToDatabaseDate("12/31/99"))
	assert.Equal(t, "", ToDatabaseDate(""))
}

func TestFromDatabaseDate_ToleratesUIAndLegacyInput(t *testing.T) {
	assert.Equal(t, "12/31/1999", FromDatabaseDate("1999-12-31"))
	// Already UI-formatted input passes through unchanged.
	assert.Equal(t, "12/31/1999", FromDatabaseDate("12/31/1999"))
	// Legacy MM/YYYY values survive untouched.
	assert.Equal(t, "03/2020", FromDatabaseDate("03/2020"))
	assert.Equal(t, "", FromDatabaseDate("not-a-date"))
	assert.Equal(t, "", FromDatabaseDate(""))
}

func TestDatabaseMonth_RoundTrip(t *testing.T) {
	assert.Equal(t, "2020-03", ToDatabaseMonth("03/2020"))
	assert.Equal(t, "03/2020", FromDatabaseMonth("2020-03"))
	assert.Equal(t, "03/2020", FromDatabaseMonth("03/2020"))
	assert.Equal(t, "", ToDatabaseMonth("13/2020"))
}

func TestFormatFullName(t *testing.T) {
	assert.Equal(t, "Maria Dela Cruz", FormatFullName("Maria", "Dela", "Cruz"))
	assert.Equal(t, "Maria Cruz", FormatFullName("Maria", "", "Cruz"))
	assert.Equal(t, "Maria Cruz", FormatFullName(" Maria ", "  ", "Cruz"))
}

func TestFormatGQID_Deterministic(t *testing.T) {
	id := "3f2b1a90-aaaa-bbbb-cccc-000011112222"
	assert.Equal(t, FormatGQID(id), FormatGQID(id))
	assert.Equal(t, "GQ-3F2B1A90", FormatGQID(id))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$775.99", FormatAmount(775.99))
	assert.Equal(t, "$0.00", FormatAmount(0))
}
