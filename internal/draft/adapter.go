// internal/draft/adapter.go
package draft

import (
	"context"
	"fmt"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"
)

// metadataFields are record attributes not owned by the form; they are never
// written through a draft save.
var metadataFields = map[string]bool{
	"id":               true,
	"user_id":          true,
	"application_type": true,
	"status":           true,
	"created_at":       true,
	"updated_at":       true,
}

// ApplicationStore is the remote persistence contract the adapter writes
// through.
type ApplicationStore interface {
	FindLatestPending(ctx context.Context, userID, appType string) (*models.DraftRecord, error)
	GetByID(ctx context.Context, id string) (*models.DraftRecord, error)
	Create(ctx context.Context, userID, appType string, data map[string]interface{}) (*models.DraftRecord, error)
	Update(ctx context.Context, id string, data map[string]interface{}, status string) (*models.DraftRecord, error)
}

// Adapter translates one wizard's in-memory draft to the remote record shape
// and performs safe partial-save merging. The record id is captured on first
// persistence and stable for the rest of the session.
type Adapter[D any] struct {
	store   ApplicationStore
	userID  string
	appType string
	id      string
	encode  func(D) map[string]interface{}
	logger  logger.Logger
}

func NewAdapter[D any](store ApplicationStore, userID, appType string, encode func(D) map[string]interface{}, log logger.Logger) *Adapter[D] {
	return &Adapter[D]{
		store:   store,
		userID:  userID,
		appType: appType,
		encode:  encode,
		logger:  log.WithFields(map[string]interface{}{"applicationType": appType}),
	}
}

// RecordID returns the persisted draft id, empty until the first save.
func (a *Adapter[D]) RecordID() string {
	return a.id
}

// Load resumes a session: it fetches the most recent pending record of this
// type for the user and captures its id. Load errors degrade to a blank
// draft; they never block initial render.
func (a *Adapter[D]) Load(ctx context.Context) map[string]interface{} {
	rec, err := a.store.FindLatestPending(ctx, a.userID, a.appType)
	if err != nil {
		loadErr := commonerrors.NewDraftLoadFailedError(err)
		a.logger.Warn("failed to load saved draft, starting blank", map[string]interface{}{
			"errorCode": string(loadErr.Code),
			"details":   loadErr.Details,
		})
		return nil
	}
	if rec == nil {
		return nil
	}
	a.id = rec.ID
	return rec.Data
}

// Save implements wizard.Saver. It merges the current draft over the existing
// remote record so a step revisit with cleared fields never destroys data
// captured in other steps, then upserts against the stable id.
func (a *Adapter[D]) Save(ctx context.Context, draft D) error {
	incoming := CollapseBlanks(a.encode(draft))

	var existing map[string]interface{}
	if a.id == "" {
		rec, err := a.store.FindLatestPending(ctx, a.userID, a.appType)
		if err != nil {
			return commonerrors.NewDraftSaveFailedError(fmt.Errorf("resume lookup: %w", err))
		}
		if rec != nil {
			a.id = rec.ID
			existing = rec.Data
		}
	} else {
		rec, err := a.store.GetByID(ctx, a.id)
		if err != nil {
			return commonerrors.NewDraftSaveFailedError(fmt.Errorf("fetch existing: %w", err))
		}
		if rec != nil {
			existing = rec.Data
		}
	}

	merged := StripMetadata(Merge(existing, incoming))

	if a.id == "" {
		rec, err := a.store.Create(ctx, a.userID, a.appType, merged)
		if err != nil {
			return commonerrors.NewDraftSaveFailedError(err)
		}
		a.id = rec.ID
		a.logger.Info("draft created", map[string]interface{}{"draftId": a.id})
		return nil
	}

	if _, err := a.store.Update(ctx, a.id, merged, models.StatusPending); err != nil {
		return commonerrors.NewDraftSaveFailedError(err)
	}
	a.logger.Debug("draft updated", map[string]interface{}{"draftId": a.id})
	return nil
}

// Merge combines the existing remote fields with the incoming save. For each
// field across both: a non-empty incoming value wins; otherwise a non-empty
// existing value is preserved; otherwise the field is written as null.
func Merge(existing, incoming map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(existing)+len(incoming))

	for field, value := range existing {
		if !isEmpty(value) {
			merged[field] = value
		} else {
			merged[field] = nil
		}
	}
	for field, value := range incoming {
		if !isEmpty(value) {
			merged[field] = value
		} else if prev, ok := merged[field]; !ok || isEmpty(prev) {
			merged[field] = nil
		}
	}
	return merged
}

// CollapseBlanks maps blank strings and empty collections to null so the
// merge treats them as "no new value".
func CollapseBlanks(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for field, value := range data {
		if isEmpty(value) {
			out[field] = nil
		} else {
			out[field] = value
		}
	}
	return out
}

// StripMetadata drops record attributes the form does not own.
func StripMetadata(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for field, value := range data {
		if metadataFields[field] {
			continue
		}
		out[field] = value
	}
	return out
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	default:
		return false
	}
}
