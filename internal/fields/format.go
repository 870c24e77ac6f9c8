// internal/fields/format.go
package fields

import (
	"fmt"
	"strconv"
	"strings"
)

// digitsOnly strips everything but ASCII digits.
func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatMMDDYYYY progressively formats raw keystrokes as MM/DD/YYYY. It never
// fails; partial input yields a best-effort partial string.
func FormatMMDDYYYY(raw string) string {
	digits := digitsOnly(raw)
	if len(digits) > 8 {
		digits = digits[:8]
	}

	switch {
	case len(digits) <= 2:
		return digits
	case len(digits) <= 4:
		return digits[:2] + "/" + digits[2:]
	default:
		return digits[:2] + "/" + digits[2:4] + "/" + digits[4:]
	}
}

// FormatMMYYYY progressively formats raw keystrokes as MM/YYYY.
func FormatMMYYYY(raw string) string {
	digits := digitsOnly(raw)
	if len(digits) > 6 {
		digits = digits[:6]
	}

	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// ToDatabaseDate converts a UI MM/DD/YYYY date to storage YYYY-MM-DD. Invalid
// input yields an empty string rather than an error.
func ToDatabaseDate(value string) string {
	if !IsValidMMDDYYYY(value) {
		return ""
	}
	parts := strings.Split(value, "/")
	return parts[2] + "-" + parts[0] + "-" + parts[1]
}

// FromDatabaseDate converts a storage YYYY-MM-DD date to UI MM/DD/YYYY. It
// tolerates being handed an already-UI-formatted date or a legacy MM/YYYY
// value, which are passed through unchanged. Anything else yields "".
func FromDatabaseDate(value string) string {
	if value == "" {
		return ""
	}
	if IsValidMMDDYYYY(value) {
		return value
	}
	if IsValidMMYYYY(value) {
		return value
	}

	parts := strings.Split(value, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return ""
	}
	ui := parts[1] + "/" + parts[2] + "/" + parts[0]
	if !IsValidMMDDYYYY(ui) {
		return ""
	}
	return ui
}

// ToDatabaseMonth converts a UI MM/YYYY month to storage YYYY-MM.
func ToDatabaseMonth(value string) string {
	if !IsValidMMYYYY(value) {
		return ""
	}
	parts := strings.Split(value, "/")
	return parts[1] + "-" + parts[0]
}

// FromDatabaseMonth converts a storage YYYY-MM month back to UI MM/YYYY.
func FromDatabaseMonth(value string) string {
	if value == "" {
		return ""
	}
	if IsValidMMYYYY(value) {
		return value
	}
	parts := strings.Split(value, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return ""
	}
	ui := parts[1] + "/" + parts[0]
	if !IsValidMMYYYY(ui) {
		return ""
	}
	return ui
}

// FormatAmount renders a money amount the way quotes display it.
func FormatAmount(amount float64) string {
	return "$" + strconv.FormatFloat(amount, 'f', 2, 64)
}

// FormatFullName joins non-empty name parts with single spaces.
func FormatFullName(first, middle, last string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{first, middle, last} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// FormatGQID derives the deterministic display id for a quotation record.
func FormatGQID(id string) string {
	cleaned := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(cleaned) > 8 {
		cleaned = cleaned[:8]
	}
	return fmt.Sprintf("GQ-%s", cleaned)
}
