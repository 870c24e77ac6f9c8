// internal/wizard/ead/record.go
package ead

import "licensure-service/internal/fields"

// Encode maps the in-memory draft to the remote record shape, normalizing UI
// dates to storage format. Blank collapsing happens in the draft adapter.
func Encode(d Draft) map[string]interface{} {
	return map[string]interface{}{
		"reasonForFiling":      d.ReasonForFiling,
		"firstName":            d.FirstName,
		"middleName":           d.MiddleName,
		"lastName":             d.LastName,
		"otherNamesUsed":       d.OtherNamesUsed,
		"streetAddress":        d.StreetAddress,
		"aptNumber":            d.AptNumber,
		"city":                 d.City,
		"state":                d.State,
		"zip":                  d.Zip,
		"email":                d.Email,
		"phone":                d.Phone,
		"dateOfBirth":          fields.ToDatabaseDate(d.DateOfBirth),
		"cityOfBirth":          d.CityOfBirth,
		"countryOfBirth":       d.CountryOfBirth,
		"countryOfCitizenship": d.CountryOfCitizenship,
		"i94Number":            d.I94Number,
		"passportNumber":       d.PassportNumber,
		"lastEntryDate":        fields.ToDatabaseDate(d.LastEntryDate),
		"placeOfLastEntry":     d.PlaceOfLastEntry,
		"statusAtLastEntry":    d.StatusAtLastEntry,
		"hasSSN":               d.HasSSN,
		"ssn":                  d.SSN,
		"wantSSNCard":          d.WantSSNCard,
		"consentSSADisclosure": d.ConsentSSADisclosure,
		"eligibilityCategory":  d.EligibilityCategory,
		"passportPhotoPath":    d.PassportPhotoPath,
		"i94DocumentPath":      d.I94DocumentPath,
		"maritalStatus":        d.MaritalStatus,
		"previouslyFiledI765":  d.PreviouslyFiledI765,
		"previousFilingDate":   fields.ToDatabaseDate(d.PreviousFilingDate),
		"previousFilingOffice": d.PreviousFilingOffice,
		"certifyAccuracy":      d.CertifyAccuracy,
	}
}

// Decode rebuilds a draft from a persisted record, converting storage dates
// back to UI format. Unknown or null fields stay zero-valued.
func Decode(data map[string]interface{}) Draft {
	return Draft{
		ReasonForFiling:      str(data, "reasonForFiling"),
		FirstName:            str(data, "firstName"),
		MiddleName:           str(data, "middleName"),
		LastName:             str(data, "lastName"),
		OtherNamesUsed:       str(data, "otherNamesUsed"),
		StreetAddress:        str(data, "streetAddress"),
		AptNumber:            str(data, "aptNumber"),
		City:                 str(data, "city"),
		State:                str(data, "state"),
		Zip:                  str(data, "zip"),
		Email:                str(data, "email"),
		Phone:                str(data, "phone"),
		DateOfBirth:          fields.FromDatabaseDate(str(data, "dateOfBirth")),
		CityOfBirth:          str(data, "cityOfBirth"),
		CountryOfBirth:       str(data, "countryOfBirth"),
		CountryOfCitizenship: str(data, "countryOfCitizenship"),
		I94Number:            str(data, "i94Number"),
		PassportNumber:       str(data, "passportNumber"),
		LastEntryDate:        fields.FromDatabaseDate(str(data, "lastEntryDate")),
		PlaceOfLastEntry:     str(data, "placeOfLastEntry"),
		StatusAtLastEntry:    str(data, "statusAtLastEntry"),
		HasSSN:               str(data, "hasSSN"),
		SSN:                  str(data, "ssn"),
		WantSSNCard:          str(data, "wantSSNCard"),
		ConsentSSADisclosure: str(data, "consentSSADisclosure"),
		EligibilityCategory:  str(data, "eligibilityCategory"),
		PassportPhotoPath:    str(data, "passportPhotoPath"),
		I94DocumentPath:      str(data, "i94DocumentPath"),
		MaritalStatus:        str(data, "maritalStatus"),
		PreviouslyFiledI765:  str(data, "previouslyFiledI765"),
		PreviousFilingDate:   fields.FromDatabaseDate(str(data, "previousFilingDate")),
		PreviousFilingOffice: str(data, "previousFilingOffice"),
		CertifyAccuracy:      str(data, "certifyAccuracy"),
	}
}

func str(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
