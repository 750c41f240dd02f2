package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"veridoc/internal/domain"
	"veridoc/pkg/platform/sentinel"
)

// Postgres persists documents in PostgreSQL. Extracted fields are stored as a
// jsonb column; scores and flags get their own columns so reviewers can query
// them directly.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const documentColumns = `id, submission_id, document_type, content_ref, content_hash,
	technical_score, format_score, coherence_score, overall_score,
	is_screenshot, is_edited, is_duplicate, extracted_fields,
	status, validation_notes, validated_by, validated_at, created_at, updated_at`

func (s *Postgres) Insert(ctx context.Context, doc *domain.Document) error {
	fields, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("marshal extracted fields: %w", err)
	}

	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (id) DO NOTHING
	`
	tag, err := s.pool.Exec(ctx, query,
		doc.ID, doc.SubmissionID, string(doc.Type), doc.ContentRef, doc.ContentHash,
		doc.TechnicalScore, doc.FormatScore, doc.CoherenceScore, doc.OverallScore,
		doc.Flags.IsScreenshot, doc.Flags.IsEdited, doc.Flags.IsDuplicate, fields,
		string(doc.Status), doc.ValidationNotes, doc.ValidatedBy, doc.ValidatedAt,
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, sentinel.ErrConflict)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, doc *domain.Document) error {
	fields, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("marshal extracted fields: %w", err)
	}

	query := `
		UPDATE documents SET
			technical_score = $2, format_score = $3, coherence_score = $4, overall_score = $5,
			is_screenshot = $6, is_edited = $7, is_duplicate = $8, extracted_fields = $9,
			status = $10, validation_notes = $11, validated_by = $12, validated_at = $13,
			updated_at = $14
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		doc.ID,
		doc.TechnicalScore, doc.FormatScore, doc.CoherenceScore, doc.OverallScore,
		doc.Flags.IsScreenshot, doc.Flags.IsEdited, doc.Flags.IsDuplicate, fields,
		string(doc.Status), doc.ValidationNotes, doc.ValidatedBy, doc.ValidatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

func (s *Postgres) FindByHash(ctx context.Context, hash string) (*domain.Document, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE content_hash = $1 ORDER BY created_at LIMIT 1`, hash)
	return scanDocument(row)
}

func (s *Postgres) ListBySubmission(ctx context.Context, submissionID string) ([]*domain.Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE submission_id = $1 ORDER BY created_at`, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ApplyReview applies a manual decision inside a transaction so the state
// check and the write cannot race with a concurrent reviewer.
func (s *Postgres) ApplyReview(ctx context.Context, id uuid.UUID, reviewer string, status domain.ValidationStatus, notes string, at time.Time) (*domain.Document, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin review tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, id)
	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}

	if err := doc.ApplyReview(reviewer, status, notes, at); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE documents SET
			status = $2, validation_notes = $3, validated_by = $4, validated_at = $5, updated_at = $6
		WHERE id = $1
	`, doc.ID, string(doc.Status), doc.ValidationNotes, doc.ValidatedBy, doc.ValidatedAt, doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("apply review: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit review tx: %w", err)
	}
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		doc         domain.Document
		docType     string
		status      string
		fields      []byte
		validatedAt *time.Time
	)
	err := row.Scan(
		&doc.ID, &doc.SubmissionID, &docType, &doc.ContentRef, &doc.ContentHash,
		&doc.TechnicalScore, &doc.FormatScore, &doc.CoherenceScore, &doc.OverallScore,
		&doc.Flags.IsScreenshot, &doc.Flags.IsEdited, &doc.Flags.IsDuplicate, &fields,
		&status, &doc.ValidationNotes, &doc.ValidatedBy, &validatedAt,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.Type = domain.DocumentType(docType)
	doc.Status = domain.ValidationStatus(status)
	doc.ValidatedAt = validatedAt
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &doc.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal extracted fields: %w", err)
		}
	}
	return &doc, nil
}
