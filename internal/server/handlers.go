// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/validation"
	"licensure-service/internal/models"
	"licensure-service/internal/pdf"
)

// QuoteService prices a selection without persisting it.
type QuoteService interface {
	Price(ctx context.Context, serviceName, state, takerType, paymentType string) (*models.PriceQuote, error)
}

// QuotationSource fetches persisted quotations for PDF rendering.
type QuotationSource interface {
	GetByID(ctx context.Context, id string) (*models.Quotation, error)
}

// DocumentService tracks uploaded files and signs preview links.
type DocumentService interface {
	GetAllByUser(ctx context.Context, userID string) ([]*models.Document, error)
	Insert(ctx context.Context, userID, documentType, filePath string) (*models.Document, error)
	PreviewURL(filePath string) string
	VerifySignedURL(filePath, expiresStr, sig string) bool
}

// ProfileService persists the reusable applicant profile.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Save(ctx context.Context, userID string, data map[string]interface{}) error
}

// ApplicationSource lists a user's application records for the tracking view.
type ApplicationSource interface {
	GetAllByUser(ctx context.Context, userID string) ([]*models.DraftRecord, error)
}

// PaymentSource lists payments recorded against an application.
type PaymentSource interface {
	GetByApplication(ctx context.Context, applicationID string) ([]*models.Payment, error)
}

// profileKeys is the field set a complete profile carries; completion is
// reported as the share of these with non-empty values.
var profileKeys = []string{
	"firstName", "lastName", "email", "phone", "dateOfBirth",
	"streetAddress", "city", "state", "zip",
}

// updateFieldsSchema guards the shape of a field-update request before any
// values reach the draft.
const updateFieldsSchema = `{
	"type": "object",
	"required": ["fields"],
	"additionalProperties": false,
	"properties": {
		"fields": {"type": "object"}
	}
}`

// quotePreviewSchema guards the quote preview request.
const quotePreviewSchema = `{
	"type": "object",
	"required": ["service", "state", "takerType"],
	"additionalProperties": false,
	"properties": {
		"service": {"type": "string", "minLength": 1},
		"state": {"type": "string", "minLength": 1},
		"takerType": {"type": "string", "enum": ["first-time", "retaker"]},
		"paymentType": {"type": "string", "enum": ["full", "staggered"]}
	}
}`

// registerDocumentSchema guards the upload-registration request.
const registerDocumentSchema = `{
	"type": "object",
	"required": ["documentType", "filePath"],
	"additionalProperties": false,
	"properties": {
		"documentType": {"type": "string", "minLength": 1},
		"filePath": {"type": "string", "minLength": 1}
	}
}`

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStart begins a fresh session (resuming any saved draft) and returns
// the initial state.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	runner, err := s.manager.Start(r.Context(), userID, chi.URLParam(r, "kind"))
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runner.State())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	runner, ok := s.runner(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, runner.State())
}

// handleUpdateFields merges partial field values into the draft and returns
// the refreshed state, including recomputed completion.
func (s *Server) handleUpdateFields(w http.ResponseWriter, r *http.Request) {
	runner, ok := s.runner(w, r)
	if !ok {
		return
	}

	body, ok := s.decodeValidated(w, r, updateFieldsSchema)
	if !ok {
		return
	}
	fields, _ := body["fields"].(map[string]interface{})

	if err := runner.ApplyFields(fields); err != nil {
		s.errHandler.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runner.State())
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	runner, ok := s.runner(w, r)
	if !ok {
		return
	}

	kind := chi.URLParam(r, "kind")
	start := time.Now()
	advance, err := runner.Next(r.Context())
	s.obs.RecordTransitionDuration(r.Context(), time.Since(start), kind)
	if err != nil {
		s.obs.RecordTransition(r.Context(), kind, "next", "failure")
		s.errHandler.WriteError(w, err)
		return
	}
	s.obs.RecordTransition(r.Context(), kind, "next", "success")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"advance": advance,
		"state":   runner.State(),
	})
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	runner, ok := s.runner(w, r)
	if !ok {
		return
	}
	runner.Previous()
	writeJSON(w, http.StatusOK, runner.State())
}

func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	runner, ok := s.runner(w, r)
	if !ok {
		return
	}

	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		s.errHandler.WriteError(w, commonerrors.NewInvalidPayloadError("step must be an integer"))
		return
	}
	if err := runner.GoTo(step); err != nil {
		s.errHandler.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runner.State())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	kind := chi.URLParam(r, "kind")
	runner, err := s.manager.Get(r.Context(), userID, kind)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}

	handoff, err := runner.Submit(r.Context())
	if err != nil {
		s.obs.RecordTransition(r.Context(), kind, "submit", "failure")
		s.errHandler.WriteError(w, err)
		return
	}

	s.obs.RecordTransition(r.Context(), kind, "submit", "success")
	s.manager.Drop(userID, kind)
	writeJSON(w, http.StatusOK, handoff)
}

// handleQuotePreview prices a selection without creating a session or a
// quotation record.
func (s *Server) handleQuotePreview(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeValidated(w, r, quotePreviewSchema)
	if !ok {
		return
	}

	takerType, _ := body["takerType"].(string)
	paymentType, _ := body["paymentType"].(string)
	if paymentType == "" || takerType == models.TakerRetaker {
		paymentType = models.PaymentFull
	}

	serviceName, _ := body["service"].(string)
	state, _ := body["state"].(string)
	quote, err := s.backends.Quotes.Price(r.Context(), serviceName, state, takerType, paymentType)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleQuotationPDF(w http.ResponseWriter, r *http.Request) {
	q, err := s.backends.Quotations.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+q.DisplayID+`.pdf"`)
	if err := pdf.GenerateQuotation(q, w); err != nil {
		s.logger.Error("quotation pdf render failed", map[string]interface{}{
			"quotationId": q.ID,
			"error":       err.Error(),
		})
	}
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	docs, err := s.backends.Documents.GetAllByUser(r.Context(), userID)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}

	type docWithURL struct {
		*models.Document
		PreviewURL string `json:"previewUrl"`
	}
	out := make([]docWithURL, 0, len(docs))
	for _, d := range docs {
		out = append(out, docWithURL{Document: d, PreviewURL: s.backends.Documents.PreviewURL(d.FilePath)})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": out})
}

func (s *Server) handleRegisterDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	body, ok := s.decodeValidated(w, r, registerDocumentSchema)
	if !ok {
		return
	}

	documentType, _ := body["documentType"].(string)
	filePath, _ := body["filePath"].(string)
	doc, err := s.backends.Documents.Insert(r.Context(), userID, documentType, filePath)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"document":   doc,
		"previewUrl": s.backends.Documents.PreviewURL(doc.FilePath),
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	profile, err := s.backends.Profiles.Get(r.Context(), userID)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}

	data := map[string]interface{}{}
	if profile != nil {
		data = profile.Data
	}
	filled := 0
	for _, key := range profileKeys {
		if v, ok := data[key].(string); ok && v != "" {
			filled++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile":    data,
		"completion": filled * 100 / len(profileKeys),
	})
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	body, ok := s.decodeValidated(w, r, updateFieldsSchema)
	if !ok {
		return
	}

	data, _ := body["fields"].(map[string]interface{})
	if err := s.backends.Profiles.Save(r.Context(), userID, data); err != nil {
		s.errHandler.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// handleListApplications returns the user's applications, newest first, for
// the tracking view.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	records, err := s.backends.Applications.GetAllByUser(r.Context(), userID)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}
	if records == nil {
		records = []*models.DraftRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"applications": records})
}

func (s *Server) handleApplicationPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	applicationID := chi.URLParam(r, "id")

	// Only the record owner may see its payments.
	records, err := s.backends.Applications.GetAllByUser(r.Context(), userID)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}
	owned := false
	for _, rec := range records {
		if rec.ID == applicationID {
			owned = true
			break
		}
	}
	if !owned {
		s.errHandler.WriteError(w, commonerrors.NewRecordNotFoundError("application", applicationID))
		return
	}

	payments, err := s.backends.Payments.GetByApplication(r.Context(), applicationID)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"payments": payments})
}

// handleFileAccess validates a signed file link. The path segment carries the
// escaped storage path produced by PreviewURL.
func (s *Server) handleFileAccess(w http.ResponseWriter, r *http.Request) {
	filePath, err := url.PathUnescape(chi.URLParam(r, "path"))
	if err != nil {
		s.errHandler.WriteError(w, commonerrors.NewInvalidPayloadError("malformed file path"))
		return
	}

	q := r.URL.Query()
	if !s.backends.Documents.VerifySignedURL(filePath, q.Get("expires"), q.Get("sig")) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "link expired or invalid"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"path": filePath, "valid": true})
}

// identity resolves the caller: authenticated users send X-User-ID, the
// public quote wizard falls back to a client-generated X-Session-ID.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	if userID := r.Header.Get("X-User-ID"); userID != "" {
		return userID, true
	}
	if sessionID := r.Header.Get("X-Session-ID"); sessionID != "" {
		return "anon:" + sessionID, true
	}
	s.errHandler.WriteError(w, commonerrors.NewInvalidPayloadError("X-User-ID or X-Session-ID header required"))
	return "", false
}

func (s *Server) runner(w http.ResponseWriter, r *http.Request) (Runner, bool) {
	userID, ok := s.identity(w, r)
	if !ok {
		return nil, false
	}
	runner, err := s.manager.Get(r.Context(), userID, chi.URLParam(r, "kind"))
	if err != nil {
		s.errHandler.WriteError(w, err)
		return nil, false
	}
	return runner, true
}

// decodeValidated parses the JSON body and checks it against a schema before
// any handler logic runs.
func (s *Server) decodeValidated(w http.ResponseWriter, r *http.Request, schema string) (map[string]interface{}, bool) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.errHandler.WriteError(w, commonerrors.NewInvalidPayloadError("request body must be a JSON object"))
		return nil, false
	}

	result, err := validation.ValidatePayload(body, schema)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return nil, false
	}
	if !result.Valid {
		s.errHandler.WriteError(w, commonerrors.NewInvalidPayloadError(result.Summary()))
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
