package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"veridoc/pkg/platform/sentinel"
)

// DocumentType identifies which identity artifact was uploaded.
type DocumentType string

const (
	DocumentTypeIDCard         DocumentType = "id_card"
	DocumentTypeDrivingLicense DocumentType = "driving_license"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	return t == DocumentTypeIDCard || t == DocumentTypeDrivingLicense
}

// ValidationStatus is the lifecycle state of a document inside the vetting flow.
type ValidationStatus string

const (
	StatusPending      ValidationStatus = "pending"
	StatusApproved     ValidationStatus = "approved"
	StatusRejected     ValidationStatus = "rejected"
	StatusManualReview ValidationStatus = "manual_review"
)

// Flags are the boolean outcomes of the tamper, screenshot, and duplicate checks.
type Flags struct {
	IsScreenshot bool `json:"is_screenshot"`
	IsEdited     bool `json:"is_edited"`
	IsDuplicate  bool `json:"is_duplicate"`
}

// Clean reports whether no flag is raised. Approval requires a clean flag set.
func (f Flags) Clean() bool {
	return !f.IsScreenshot && !f.IsEdited && !f.IsDuplicate
}

// ExtractedFields holds the structured fields the format validators parse out of
// OCR text. Fields are typed per document variant rather than a loose map so the
// coherence checker's contract is checkable at compile time.
type ExtractedFields struct {
	IDNumber       string   `json:"id_number,omitempty"`
	LicenseNumber  string   `json:"license_number,omitempty"`
	DateOfBirth    string   `json:"date_of_birth,omitempty"`
	ExpiryDate     string   `json:"expiry_date,omitempty"`
	Names          []string `json:"names,omitempty"`
	LicenseValid   bool     `json:"license_valid,omitempty"`
	LicenseExpired bool     `json:"license_expired,omitempty"`
}

// Document is one uploaded identity artifact and everything the pipeline
// concluded about it. Stages fill their fields in; the orchestrator is the only
// writer.
type Document struct {
	ID           uuid.UUID
	SubmissionID string
	Type         DocumentType

	// ContentRef is a content-addressed reference into the external blob store;
	// the pipeline only ever reads the bytes it was handed.
	ContentRef  string
	ContentHash string

	TechnicalScore int
	FormatScore    int
	CoherenceScore int
	OverallScore   int

	Flags  Flags
	Fields ExtractedFields

	Status ValidationStatus

	// Review fields are only ever set by the human-review path.
	ValidationNotes string
	ValidatedBy     string
	ValidatedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyReview records a manual decision. Only documents the automated pipeline
// left undecided can be overridden, and only to a terminal status.
func (d *Document) ApplyReview(reviewer string, status ValidationStatus, notes string, at time.Time) error {
	if reviewer == "" {
		return fmt.Errorf("reviewer is required")
	}
	if status != StatusApproved && status != StatusRejected {
		return fmt.Errorf("review status %q: %w", status, sentinel.ErrInvalidState)
	}
	if d.Status != StatusManualReview && d.Status != StatusPending {
		return fmt.Errorf("document in status %q cannot be reviewed: %w", d.Status, sentinel.ErrInvalidState)
	}
	d.Status = status
	d.ValidatedBy = reviewer
	d.ValidationNotes = notes
	d.ValidatedAt = &at
	d.UpdatedAt = at
	return nil
}

// ValidationResult is what the pipeline hands back to the upload collaborator.
type ValidationResult struct {
	Document *Document
	// Issues are advisory findings surfaced to a human reviewer: coherence
	// mismatches and duplicate provenance. They never change the score.
	Issues []string
}

// SubmissionReport combines the results of every document in one submission.
type SubmissionReport struct {
	SubmissionID   string
	Documents      []*Document
	CoherenceScore int
	Issues         []string
	Complete       bool
}
