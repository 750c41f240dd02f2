package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuditSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *AuditSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestAuditSuite(t *testing.T) {
	suite.Run(t, new(AuditSuite))
}

func (s *AuditSuite) TestWorkerPersistsEvents() {
	store := NewInMemoryStore()
	recorder := NewRecorder(8, nil)
	worker := NewWorker(store, recorder.Inbox())

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	docID := uuid.New()
	recorder.Emit(s.ctx, Event{
		DocumentID:   docID,
		SubmissionID: "sub-1",
		Action:       ActionValidated,
		Status:       "manual_review",
		OverallScore: 67,
	})
	recorder.Emit(s.ctx, Event{
		DocumentID: docID,
		Action:     ActionReviewed,
		Status:     "approved",
		Actor:      "agent-7",
	})

	s.Require().Eventually(func() bool {
		events, err := store.ListByDocument(s.ctx, docID)
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	events, err := store.ListByDocument(s.ctx, docID)
	s.Require().NoError(err)
	s.Equal(ActionValidated, events[0].Action)
	s.Equal(ActionReviewed, events[1].Action)
	s.False(events[0].Timestamp.IsZero())

	cancel()
	<-done
}

func (s *AuditSuite) TestEmitDropsWhenInboxFull() {
	recorder := NewRecorder(1, nil)

	// No worker draining; second emit must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		recorder.Emit(s.ctx, Event{Action: ActionValidated})
		recorder.Emit(s.ctx, Event{Action: ActionValidated})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("Emit blocked on a full inbox")
	}
	s.Len(recorder.Inbox(), 1)
}

func (s *AuditSuite) TestListByDocumentFiltersOtherDocuments() {
	store := NewInMemoryStore()
	target := uuid.New()
	s.Require().NoError(store.Append(s.ctx, Event{DocumentID: target, Action: ActionValidated}))
	s.Require().NoError(store.Append(s.ctx, Event{DocumentID: uuid.New(), Action: ActionValidated}))

	events, err := store.ListByDocument(s.ctx, target)
	s.Require().NoError(err)
	s.Len(events, 1)
}
