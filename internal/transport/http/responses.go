package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"veridoc/internal/domain"
	"veridoc/pkg/platform/sentinel"
)

type documentResponse struct {
	ID              string                 `json:"id"`
	SubmissionID    string                 `json:"submission_id"`
	DocumentType    string                 `json:"document_type"`
	ContentRef      string                 `json:"content_ref"`
	ContentHash     string                 `json:"content_hash"`
	TechnicalScore  int                    `json:"technical_score"`
	FormatScore     int                    `json:"format_score"`
	CoherenceScore  int                    `json:"coherence_score"`
	OverallScore    int                    `json:"overall_score"`
	Flags           domain.Flags           `json:"flags"`
	ExtractedFields domain.ExtractedFields `json:"extracted_fields"`
	Status          string                 `json:"status"`
	ValidationNotes string                 `json:"validation_notes,omitempty"`
	ValidatedBy     string                 `json:"validated_by,omitempty"`
	ValidatedAt     *time.Time             `json:"validated_at,omitempty"`
}

type validationResponse struct {
	Document documentResponse `json:"document"`
	Issues   []string         `json:"issues,omitempty"`
}

type reportResponse struct {
	SubmissionID   string             `json:"submission_id"`
	Documents      []documentResponse `json:"documents"`
	CoherenceScore int                `json:"coherence_score"`
	Issues         []string           `json:"issues,omitempty"`
	Complete       bool               `json:"complete"`
}

func toDocumentResponse(doc *domain.Document) documentResponse {
	return documentResponse{
		ID:              doc.ID.String(),
		SubmissionID:    doc.SubmissionID,
		DocumentType:    string(doc.Type),
		ContentRef:      doc.ContentRef,
		ContentHash:     doc.ContentHash,
		TechnicalScore:  doc.TechnicalScore,
		FormatScore:     doc.FormatScore,
		CoherenceScore:  doc.CoherenceScore,
		OverallScore:    doc.OverallScore,
		Flags:           doc.Flags,
		ExtractedFields: doc.Fields,
		Status:          string(doc.Status),
		ValidationNotes: doc.ValidationNotes,
		ValidatedBy:     doc.ValidatedBy,
		ValidatedAt:     doc.ValidatedAt,
	}
}

func toValidationResponse(result *domain.ValidationResult) validationResponse {
	return validationResponse{
		Document: toDocumentResponse(result.Document),
		Issues:   result.Issues,
	}
}

func toReportResponse(report *domain.SubmissionReport) reportResponse {
	resp := reportResponse{
		SubmissionID:   report.SubmissionID,
		CoherenceScore: report.CoherenceScore,
		Issues:         report.Issues,
		Complete:       report.Complete,
	}
	for _, doc := range report.Documents {
		resp.Documents = append(resp.Documents, toDocumentResponse(doc))
	}
	return resp
}

// requestError marks caller mistakes so writeError can answer 400 without the
// transport inspecting message strings.
type requestError struct {
	msg string
}

func (e requestError) Error() string {
	return e.msg
}

func badRequest(msg string) error {
	return requestError{msg: msg}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError centralizes sentinel translation to HTTP responses so every
// endpoint answers with a consistent JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var reqErr requestError
	switch {
	case errors.As(err, &reqErr):
		status = http.StatusBadRequest
	case errors.Is(err, sentinel.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sentinel.ErrConflict), errors.Is(err, sentinel.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, sentinel.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	})
}
