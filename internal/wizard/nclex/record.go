// internal/wizard/nclex/record.go
package nclex

import (
	"licensure-service/internal/fields"
)

// Encode flattens a draft into the persisted record shape. Dates are
// converted from the UI format to the database format; month fields keep
// their MM/YYYY form.
func Encode(d Draft) map[string]interface{} {
	return map[string]interface{}{
		"firstName":         d.FirstName,
		"middleName":        d.MiddleName,
		"lastName":          d.LastName,
		"dateOfBirth":       fields.ToDatabaseDate(d.DateOfBirth),
		"email":             d.Email,
		"phone":             d.Phone,
		"streetAddress":     d.StreetAddress,
		"city":              d.City,
		"province":          d.Province,
		"zip":               d.Zip,
		"country":           d.Country,
		"schoolName":        d.SchoolName,
		"schoolCountry":     d.SchoolCountry,
		"graduationDate":    d.GraduationDate,
		"yearsAttended":     d.YearsAttended,
		"licenseNumber":     d.LicenseNumber,
		"licenseCountry":    d.LicenseCountry,
		"licenseIssueDate":  fields.ToDatabaseDate(d.LicenseIssueDate),
		"licenseExpiryDate": fields.ToDatabaseDate(d.LicenseExpiryDate),
		"boardState":        d.BoardState,
		"takerType":         d.TakerType,
		"employerName":      d.EmployerName,
		"position":          d.Position,
		"employmentStart":   d.EmploymentStart,
		"employmentEnd":     d.EmploymentEnd,
		"diplomaPath":       d.DiplomaPath,
		"licensePath":       d.LicensePath,
		"photoPath":         d.PhotoPath,
		"signature":         d.Signature,
	}
}

// Decode rebuilds a draft from a persisted record, tolerating missing or
// null fields from older saves.
func Decode(data map[string]interface{}) Draft {
	return Draft{
		FirstName:         str(data, "firstName"),
		MiddleName:        str(data, "middleName"),
		LastName:          str(data, "lastName"),
		DateOfBirth:       fields.FromDatabaseDate(str(data, "dateOfBirth")),
		Email:             str(data, "email"),
		Phone:             str(data, "phone"),
		StreetAddress:     str(data, "streetAddress"),
		City:              str(data, "city"),
		Province:          str(data, "province"),
		Zip:               str(data, "zip"),
		Country:           str(data, "country"),
		SchoolName:        str(data, "schoolName"),
		SchoolCountry:     str(data, "schoolCountry"),
		GraduationDate:    str(data, "graduationDate"),
		YearsAttended:     str(data, "yearsAttended"),
		LicenseNumber:     str(data, "licenseNumber"),
		LicenseCountry:    str(data, "licenseCountry"),
		LicenseIssueDate:  fields.FromDatabaseDate(str(data, "licenseIssueDate")),
		LicenseExpiryDate: fields.FromDatabaseDate(str(data, "licenseExpiryDate")),
		BoardState:        str(data, "boardState"),
		TakerType:         str(data, "takerType"),
		EmployerName:      str(data, "employerName"),
		Position:          str(data, "position"),
		EmploymentStart:   str(data, "employmentStart"),
		EmploymentEnd:     str(data, "employmentEnd"),
		DiplomaPath:       str(data, "diplomaPath"),
		LicensePath:       str(data, "licensePath"),
		PhotoPath:         str(data, "photoPath"),
		Signature:         str(data, "signature"),
	}
}

func str(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
