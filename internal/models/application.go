// internal/models/application.go
package models

// Application types persisted in the applications table.
const (
	ApplicationTypeEAD   = "ead"
	ApplicationTypeNCLEX = "nclex"
)

// Draft statuses. A draft stays pending across autosaves and flips to
// submitted exactly once, at final submission.
const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
)

// DraftRecord is the persisted representation of a partially- or
// fully-completed application. Data mirrors the in-memory form fields; blank
// values are collapsed to null before writing so that partial saves never
// erase previously captured data.
type DraftRecord struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"userId"`
	ApplicationType string                 `json:"applicationType"`
	Data            map[string]interface{} `json:"data"`
	Status          string                 `json:"status"`
	CreatedAt       string                 `json:"createdAt"`
	UpdatedAt       string                 `json:"updatedAt"`
}

// Profile is the accumulated user-details record used to prefill wizards.
type Profile struct {
	UserID    string                 `json:"userId"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt string                 `json:"createdAt"`
	UpdatedAt string                 `json:"updatedAt"`
}

// Document is one uploaded file belonging to a user.
type Document struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	DocumentType string `json:"documentType"`
	FilePath     string `json:"filePath"`
	CreatedAt    string `json:"createdAt"`
}
