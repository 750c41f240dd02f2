package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/pkg/platform/sentinel"
)

func TestDocumentTypeValid(t *testing.T) {
	assert.True(t, DocumentTypeIDCard.Valid())
	assert.True(t, DocumentTypeDrivingLicense.Valid())
	assert.False(t, DocumentType("passport").Valid())
	assert.False(t, DocumentType("").Valid())
}

func TestFlagsClean(t *testing.T) {
	assert.True(t, Flags{}.Clean())
	assert.False(t, Flags{IsScreenshot: true}.Clean())
	assert.False(t, Flags{IsEdited: true}.Clean())
	assert.False(t, Flags{IsDuplicate: true}.Clean())
}

func TestApplyReview(t *testing.T) {
	now := time.Now()

	t.Run("approves an undecided document", func(t *testing.T) {
		doc := &Document{Status: StatusManualReview}
		require.NoError(t, doc.ApplyReview("agent-7", StatusApproved, "checked", now))
		assert.Equal(t, StatusApproved, doc.Status)
		assert.Equal(t, "agent-7", doc.ValidatedBy)
		assert.Equal(t, "checked", doc.ValidationNotes)
		require.NotNil(t, doc.ValidatedAt)
		assert.Equal(t, now, *doc.ValidatedAt)
	})

	t.Run("requires a reviewer", func(t *testing.T) {
		doc := &Document{Status: StatusManualReview}
		assert.Error(t, doc.ApplyReview("", StatusApproved, "", now))
	})

	t.Run("only terminal statuses are assignable", func(t *testing.T) {
		doc := &Document{Status: StatusManualReview}
		err := doc.ApplyReview("agent-7", StatusPending, "", now)
		require.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("decided documents cannot be reviewed again", func(t *testing.T) {
		for _, status := range []ValidationStatus{StatusApproved, StatusRejected} {
			doc := &Document{Status: status}
			err := doc.ApplyReview("agent-7", StatusRejected, "", now)
			require.ErrorIs(t, err, sentinel.ErrInvalidState)
		}
	})
}
