// Package validation orchestrates the document vetting pipeline: technical
// analysis, tamper and duplicate checks, OCR, format validation, coherence
// across a submission, and the final scored decision.
package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"veridoc/internal/audit"
	"veridoc/internal/domain"
	"veridoc/internal/validation/coherence"
	"veridoc/internal/validation/imaging"
	"veridoc/internal/validation/metrics"
	"veridoc/internal/validation/ocr"
	"veridoc/internal/validation/scoring"
	"veridoc/internal/validation/store/document"
	"veridoc/internal/validation/store/hashindex"
	"veridoc/pkg/platform/sentinel"
)

// Service is the validation pipeline orchestrator. It is the only component
// that mutates the record store.
type Service struct {
	docs    document.Store
	reviews document.Reviewer
	hashes  hashindex.Index
	decoder imaging.Decoder
	ocr     *ocr.Extractor

	policy            scoring.Policy
	tamperPrefixBytes int

	logger   *slog.Logger
	metrics  *metrics.Metrics
	recorder *audit.Recorder
	clock    func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditRecorder(r *audit.Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

func WithPolicy(policy scoring.Policy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

func WithTamperPrefixBytes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.tamperPrefixBytes = n
		}
	}
}

// WithClock sets the time source for expiry checks and timestamps. Tests use
// it to pin validation time.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs the orchestrator. The reviewer is optional; pass nil when the
// store does not support manual review.
func New(docs document.Store, reviews document.Reviewer, hashes hashindex.Index, decoder imaging.Decoder, extractor *ocr.Extractor, opts ...Option) (*Service, error) {
	if docs == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if hashes == nil {
		return nil, fmt.Errorf("hash index is required")
	}
	if decoder == nil {
		return nil, fmt.Errorf("image decoder is required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("ocr extractor is required")
	}
	s := &Service{
		docs:              docs,
		reviews:           reviews,
		hashes:            hashes,
		decoder:           decoder,
		ocr:               extractor,
		policy:            scoring.DefaultPolicy(),
		tamperPrefixBytes: 0,
		clock:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Validate runs the full per-document pipeline and persists the outcome.
// Analyzer failures degrade their contribution; only hash-index
// unavailability aborts the run (it wraps sentinel.ErrUnavailable and is
// retryable by resubmitting the document).
func (s *Service) Validate(ctx context.Context, content []byte, docType domain.DocumentType, submissionID string) (*domain.ValidationResult, error) {
	start := s.clock()

	if len(content) == 0 {
		return nil, fmt.Errorf("document content is empty")
	}
	if !docType.Valid() {
		return nil, fmt.Errorf("unknown document type %q", docType)
	}
	if submissionID == "" {
		return nil, fmt.Errorf("submission id is required")
	}

	doc := &domain.Document{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		Type:         docType,
		Status:       domain.StatusPending,
		CreatedAt:    start,
		UpdatedAt:    start,
	}

	stages, err := s.analyze(ctx, doc.ID, content, docType)
	if err != nil {
		return nil, err
	}

	doc.ContentHash = stages.hash
	doc.ContentRef = "sha256:" + stages.hash
	doc.TechnicalScore = stages.quality.Score
	doc.FormatScore = stages.format.Total
	doc.Fields = stages.format.Fields
	doc.Flags = domain.Flags{
		IsScreenshot: stages.quality.Screenshot,
		IsEdited:     stages.edited,
		IsDuplicate:  stages.duplicate,
	}
	var issues []string
	if stages.duplicate {
		if s.metrics != nil {
			s.metrics.IncrementDuplicates()
		}
		s.log(ctx, slog.LevelInfo, "duplicate content detected",
			"document_id", doc.ID, "duplicate_of", stages.duplicateOf)
		if original, err := s.docs.FindByHash(ctx, stages.hash); err == nil {
			issues = append(issues, fmt.Sprintf(
				"content identical to document %s in submission %s", original.ID, original.SubmissionID))
		}
	}

	doc.OverallScore = s.policy.Overall(doc.TechnicalScore, doc.FormatScore, doc.CoherenceScore)
	doc.Status = s.policy.Decide(doc.OverallScore, doc.Flags)
	doc.UpdatedAt = s.clock()

	// Insert before the counterpart lookup. Each upload inserts and then
	// lists, so of two concurrent uploads for one submission at least one
	// must observe the other, and a writer that saw no counterpart performs
	// no write after its insert that could clobber the other's coherence
	// fold. The pairing barrier is guarded by the record store the same way
	// the hash index guards duplicate claims.
	if err := s.docs.Insert(ctx, doc); err != nil {
		return nil, fmt.Errorf("persist document: %w", err)
	}

	pairIssues, err := s.pairCoherence(ctx, doc)
	if err != nil {
		// Coherence needs the record store; treat its loss like any storage
		// failure and surface it rather than approving on partial evidence.
		return nil, err
	}
	issues = append(issues, pairIssues...)

	s.audit(ctx, audit.Event{
		DocumentID:   doc.ID,
		SubmissionID: doc.SubmissionID,
		Action:       audit.ActionValidated,
		Status:       string(doc.Status),
		OverallScore: doc.OverallScore,
		Actor:        "pipeline",
	})
	if s.metrics != nil {
		s.metrics.IncrementOutcome(string(doc.Status), string(doc.Type))
		s.metrics.ObserveValidate(s.clock().Sub(start))
	}
	s.log(ctx, slog.LevelInfo, "document validated",
		"document_id", doc.ID,
		"submission_id", doc.SubmissionID,
		"document_type", doc.Type,
		"overall_score", doc.OverallScore,
		"status", doc.Status,
	)

	return &domain.ValidationResult{Document: doc, Issues: issues}, nil
}

// pairCoherence finds the submission's counterpart document and, when present,
// scores coherence into both sides and persists them. Overall scores and
// statuses are recomputed on both documents unless a manual review already
// superseded them. Both concurrent uploads of a pair may get here; they fold
// the same symmetric score, so the writes converge.
func (s *Service) pairCoherence(ctx context.Context, doc *domain.Document) ([]string, error) {
	siblings, err := s.docs.ListBySubmission(ctx, doc.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("list submission documents: %w: %w", sentinel.ErrUnavailable, err)
	}

	counterpart := findCounterpart(siblings, doc.Type)
	if counterpart == nil {
		return nil, nil
	}

	cohStart := s.clock()
	result := coherence.Check(doc.Fields, counterpart.Fields)
	if s.metrics != nil {
		s.metrics.ObserveStage("coherence", s.clock().Sub(cohStart))
	}

	for _, side := range []*domain.Document{doc, counterpart} {
		side.CoherenceScore = result.Score
		side.OverallScore = s.policy.Overall(side.TechnicalScore, side.FormatScore, side.CoherenceScore)
		if side.ValidatedBy == "" {
			side.Status = s.policy.Decide(side.OverallScore, side.Flags)
		}
		side.UpdatedAt = s.clock()
		if err := s.docs.Update(ctx, side); err != nil {
			return nil, fmt.Errorf("fold coherence into document %s: %w", side.ID, err)
		}
	}
	s.audit(ctx, audit.Event{
		DocumentID:   counterpart.ID,
		SubmissionID: counterpart.SubmissionID,
		Action:       audit.ActionCoherenceScored,
		Status:       string(counterpart.Status),
		OverallScore: counterpart.OverallScore,
		Actor:        "pipeline",
	})

	return result.Issues, nil
}

// findCounterpart picks the earliest document of the other type.
func findCounterpart(siblings []*domain.Document, docType domain.DocumentType) *domain.Document {
	var counterpart *domain.Document
	for _, sibling := range siblings {
		if sibling.Type == docType {
			continue
		}
		if counterpart == nil || sibling.CreatedAt.Before(counterpart.CreatedAt) {
			counterpart = sibling
		}
	}
	return counterpart
}

// GetDocument looks up a persisted document.
func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	return s.docs.FindByID(ctx, id)
}

// Report assembles the combined view of a submission. Coherence issues are
// recomputed on read; they are advisory and never persisted.
func (s *Service) Report(ctx context.Context, submissionID string) (*domain.SubmissionReport, error) {
	docs, err := s.docs.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list submission documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, sentinel.ErrNotFound
	}

	report := &domain.SubmissionReport{
		SubmissionID: submissionID,
		Documents:    docs,
	}

	var idCard, license *domain.Document
	for _, doc := range docs {
		switch doc.Type {
		case domain.DocumentTypeIDCard:
			if idCard == nil {
				idCard = doc
			}
		case domain.DocumentTypeDrivingLicense:
			if license == nil {
				license = doc
			}
		}
	}
	if idCard != nil && license != nil {
		result := coherence.Check(idCard.Fields, license.Fields)
		report.CoherenceScore = result.Score
		report.Issues = result.Issues
		report.Complete = true
	}
	return report, nil
}

// ApplyReview records a manual decision and audits it.
func (s *Service) ApplyReview(ctx context.Context, id uuid.UUID, reviewer string, status domain.ValidationStatus, notes string) (*domain.Document, error) {
	if s.reviews == nil {
		return nil, fmt.Errorf("manual review is not supported by this store")
	}
	doc, err := s.reviews.ApplyReview(ctx, id, reviewer, status, notes, s.clock())
	if err != nil {
		return nil, err
	}
	s.audit(ctx, audit.Event{
		DocumentID:   doc.ID,
		SubmissionID: doc.SubmissionID,
		Action:       audit.ActionReviewed,
		Status:       string(doc.Status),
		OverallScore: doc.OverallScore,
		Actor:        reviewer,
		Reason:       notes,
	})
	if s.metrics != nil {
		s.metrics.IncrementOutcome(string(doc.Status), string(doc.Type))
	}
	return doc, nil
}

func (s *Service) audit(ctx context.Context, event audit.Event) {
	if s.recorder != nil {
		s.recorder.Emit(ctx, event)
	}
}

func (s *Service) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Log(ctx, level, msg, args...)
	}
}
