// internal/fields/validate.go
package fields

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Predefined patterns
var (
	mmddyyyyRegex = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	mmyyyyRegex   = regexp.MustCompile(`^(\d{2})/(\d{4})$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// daysInMonth indexes day budgets by month (1-based). February is adjusted
// for leap years at validation time.
var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// IsValidMMDDYYYY reports whether value is a real calendar date in MM/DD/YYYY
// form with month 1-12 and year 1900-2100.
func IsValidMMDDYYYY(value string) bool {
	m := mmddyyyyRegex.FindStringSubmatch(value)
	if m == nil {
		return false
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if month < 1 || month > 12 {
		return false
	}
	if year < 1900 || year > 2100 {
		return false
	}

	maxDay := daysInMonth[month]
	if month == 2 && isLeapYear(year) {
		maxDay = 29
	}
	return day >= 1 && day <= maxDay
}

// IsValidMMYYYY reports whether value is an MM/YYYY month with month 1-12 and
// year between 1900 and next year.
func IsValidMMYYYY(value string) bool {
	m := mmyyyyRegex.FindStringSubmatch(value)
	if m == nil {
		return false
	}

	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])

	if month < 1 || month > 12 {
		return false
	}
	return year >= 1900 && year <= time.Now().Year()+1
}

// Field validators below return "" when the value is valid, else a
// user-facing message naming the expected format. All are idempotent and
// side-effect-free.

func ValidateRequired(value, label string) string {
	if strings.TrimSpace(value) == "" {
		return label + " is required"
	}
	return ""
}

func ValidateDate(value string) string {
	if value == "" {
		return ""
	}
	if !IsValidMMDDYYYY(value) {
		return "Enter a valid date in MM/DD/YYYY format"
	}
	return ""
}

func ValidateMonth(value string) string {
	if value == "" {
		return ""
	}
	if !IsValidMMYYYY(value) {
		return "Enter a valid month in MM/YYYY format"
	}
	return ""
}

func ValidateEmail(value string) string {
	if value == "" {
		return ""
	}
	if !emailRegex.MatchString(strings.TrimSpace(value)) {
		return "Enter a valid email address"
	}
	return ""
}

func ValidatePhone(value string) string {
	if value == "" {
		return ""
	}
	if len(digitsOnly(value)) < 7 {
		return "Phone number must have at least 7 digits"
	}
	return ""
}

func ValidateZip(value string) string {
	if value == "" {
		return ""
	}
	v := strings.TrimSpace(value)
	if len(v) < 4 || len(v) > 10 || digitsOnly(v) != v {
		return "Zip code must be 4-10 digits"
	}
	return ""
}

func ValidateYearsAttended(value string) string {
	if value == "" {
		return ""
	}
	years, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return "Years attended must be a whole number"
	}
	if years < 1 || years > 20 {
		return "Years attended must be between 1 and 20"
	}
	return ""
}

// ValidateNotFuture rejects MM/DD/YYYY dates after today. Invalid dates are
// reported as format errors first.
func ValidateNotFuture(value string) string {
	if value == "" {
		return ""
	}
	if msg := ValidateDate(value); msg != "" {
		return msg
	}
	t, err := time.Parse("01/02/2006", value)
	if err != nil {
		return "Enter a valid date in MM/DD/YYYY format"
	}
	if t.After(time.Now()) {
		return "Date cannot be in the future"
	}
	return ""
}

// ValidateSSN accepts a 9-digit social security number.
func ValidateSSN(value string) string {
	if value == "" {
		return ""
	}
	if len(digitsOnly(value)) != 9 {
		return "SSN must have 9 digits"
	}
	return ""
}
