//go:build integration

package document_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"veridoc/internal/domain"
	"veridoc/internal/validation/store/document"
	"veridoc/pkg/platform/sentinel"
	"veridoc/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *document.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = document.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "documents"))
}

func newTestDocument(submissionID string, docType domain.DocumentType) *domain.Document {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Document{
		ID:             uuid.New(),
		SubmissionID:   submissionID,
		Type:           docType,
		ContentRef:     "sha256:" + uuid.NewString(),
		ContentHash:    uuid.NewString(),
		TechnicalScore: 100,
		FormatScore:    100,
		Fields: domain.ExtractedFields{
			IDNumber:    "AB1234567890",
			DateOfBirth: "12/07/1993",
			Names:       []string{"DUPONT", "MARIE"},
		},
		Status:    domain.StatusManualReview,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresStoreSuite) TestInsertAndFind() {
	ctx := context.Background()
	doc := newTestDocument("sub-pg-1", domain.DocumentTypeIDCard)

	s.Require().NoError(s.store.Insert(ctx, doc))

	found, err := s.store.FindByID(ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(doc.SubmissionID, found.SubmissionID)
	s.Equal(doc.Type, found.Type)
	s.Equal(doc.Fields, found.Fields)
	s.Equal(doc.Status, found.Status)

	byHash, err := s.store.FindByHash(ctx, doc.ContentHash)
	s.Require().NoError(err)
	s.Equal(doc.ID, byHash.ID)
}

func (s *PostgresStoreSuite) TestInsertDuplicateID() {
	ctx := context.Background()
	doc := newTestDocument("sub-pg-2", domain.DocumentTypeIDCard)

	s.Require().NoError(s.store.Insert(ctx, doc))
	s.Require().ErrorIs(s.store.Insert(ctx, doc), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestUpdate() {
	ctx := context.Background()
	doc := newTestDocument("sub-pg-3", domain.DocumentTypeIDCard)
	s.Require().NoError(s.store.Insert(ctx, doc))

	doc.CoherenceScore = 100
	doc.OverallScore = 100
	doc.Status = domain.StatusApproved
	doc.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.Update(ctx, doc))

	found, err := s.store.FindByID(ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(100, found.CoherenceScore)
	s.Equal(domain.StatusApproved, found.Status)
}

func (s *PostgresStoreSuite) TestUpdateMissingDocument() {
	ctx := context.Background()
	doc := newTestDocument("sub-pg-4", domain.DocumentTypeIDCard)
	s.Require().ErrorIs(s.store.Update(ctx, doc), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListBySubmission() {
	ctx := context.Background()

	idCard := newTestDocument("sub-pg-5", domain.DocumentTypeIDCard)
	license := newTestDocument("sub-pg-5", domain.DocumentTypeDrivingLicense)
	license.CreatedAt = idCard.CreatedAt.Add(time.Second)
	other := newTestDocument("sub-pg-other", domain.DocumentTypeIDCard)

	s.Require().NoError(s.store.Insert(ctx, idCard))
	s.Require().NoError(s.store.Insert(ctx, license))
	s.Require().NoError(s.store.Insert(ctx, other))

	docs, err := s.store.ListBySubmission(ctx, "sub-pg-5")
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	// Ordered by creation time.
	s.Equal(idCard.ID, docs[0].ID)
	s.Equal(license.ID, docs[1].ID)
}

func (s *PostgresStoreSuite) TestApplyReview() {
	ctx := context.Background()

	s.Run("approves a pending review", func() {
		doc := newTestDocument("sub-pg-6", domain.DocumentTypeIDCard)
		s.Require().NoError(s.store.Insert(ctx, doc))

		reviewed, err := s.store.ApplyReview(ctx, doc.ID, "agent-7", domain.StatusApproved, "verified at the counter", time.Now())
		s.Require().NoError(err)
		s.Equal(domain.StatusApproved, reviewed.Status)
		s.Equal("agent-7", reviewed.ValidatedBy)
		s.Require().NotNil(reviewed.ValidatedAt)

		found, err := s.store.FindByID(ctx, doc.ID)
		s.Require().NoError(err)
		s.Equal(domain.StatusApproved, found.Status)
	})

	s.Run("rejects a second review of a decided document", func() {
		doc := newTestDocument("sub-pg-7", domain.DocumentTypeIDCard)
		s.Require().NoError(s.store.Insert(ctx, doc))

		_, err := s.store.ApplyReview(ctx, doc.ID, "agent-7", domain.StatusRejected, "", time.Now())
		s.Require().NoError(err)

		_, err = s.store.ApplyReview(ctx, doc.ID, "agent-8", domain.StatusApproved, "", time.Now())
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("unknown document returns ErrNotFound", func() {
		_, err := s.store.ApplyReview(ctx, uuid.New(), "agent-7", domain.StatusApproved, "", time.Now())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
