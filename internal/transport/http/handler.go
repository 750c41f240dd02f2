// Package httptransport is the thin HTTP layer over the validation pipeline.
// It delegates to the service without embedding business logic so transport
// concerns remain isolated.
package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"veridoc/internal/domain"
)

// maxUploadBytes bounds multipart uploads; identity photos fit comfortably.
const maxUploadBytes = 20 << 20

// Service is the pipeline surface the transport needs.
type Service interface {
	Validate(ctx context.Context, content []byte, docType domain.DocumentType, submissionID string) (*domain.ValidationResult, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	Report(ctx context.Context, submissionID string) (*domain.SubmissionReport, error)
	ApplyReview(ctx context.Context, id uuid.UUID, reviewer string, status domain.ValidationStatus, notes string) (*domain.Document, error)
}

// Handler wires validation endpoints to the pipeline service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// HandleUpload handles POST /v1/submissions/{submissionID}/documents.
// Multipart form with a "file" part and a "document_type" value.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	submissionID := chi.URLParam(r, "submissionID")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, badRequest("invalid multipart form"))
		return
	}

	docType := domain.DocumentType(r.FormValue("document_type"))
	if !docType.Valid() {
		writeError(w, badRequest("document_type must be id_card or driving_license"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, badRequest("file part is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, badRequest("could not read file"))
		return
	}

	result, err := h.service.Validate(ctx, content, docType, submissionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "validation failed",
			"submission_id", submissionID,
			"document_type", docType,
			"error", err,
		)
		writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "document validated",
		"submission_id", submissionID,
		"document_id", result.Document.ID,
		"status", result.Document.Status,
	)
	writeJSON(w, http.StatusCreated, toValidationResponse(result))
}

// HandleGetDocument handles GET /v1/documents/{documentID}.
func (h *Handler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, badRequest("invalid document id"))
		return
	}

	doc, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// HandleReport handles GET /v1/submissions/{submissionID}/report.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(report))
}

// HandleReview handles POST /v1/documents/{documentID}/review.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, badRequest("invalid document id"))
		return
	}

	req, ok := decodeReviewRequest(w, r)
	if !ok {
		return
	}

	doc, err := h.service.ApplyReview(ctx, id, req.Reviewer, domain.ValidationStatus(req.Status), req.Notes)
	if err != nil {
		h.logger.WarnContext(ctx, "manual review rejected",
			"document_id", id,
			"reviewer", req.Reviewer,
			"error", err,
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}
