package review

import (
	"context"
	"testing"
	"time"

	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/internal/database/dbtest"
	"github.com/khanghh/unionhub/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedApplicant(t *testing.T, db *gorm.DB, email string, status model.UserStatus, createdAt time.Time, submittedAt *time.Time, withForm bool) *model.User {
	t.Helper()
	user := &model.User{FirstName: "Applicant", Email: email, Password: "x", Status: status, CreatedAt: createdAt}
	require.NoError(t, db.Create(user).Error)
	if withForm {
		require.NoError(t, db.Create(&model.RegistrationForm{UserID: user.ID, SubmittedAt: submittedAt}).Error)
	}
	return user
}

func candidateIDs(rows []*CandidateRow) []uint {
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids
}

func TestReviewRepository(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	march := dbtest.Date(2026, time.March, 1)
	april := dbtest.Date(2026, time.April, 1)
	ana := seedApplicant(t, db, "ana@example.com", model.UserStatusPending, dbtest.Date(2026, time.January, 1), &march, true)
	ben := seedApplicant(t, db, "ben@example.com", model.UserStatusEmailVerified, dbtest.Date(2026, time.February, 1), nil, false)
	noEmail := seedApplicant(t, db, "", model.UserStatusUnderReview, dbtest.Date(2026, time.February, 1), nil, false)
	approved := seedApplicant(t, db, "cy@example.com", model.UserStatusApproved, dbtest.Date(2026, time.January, 15), &april, true)
	draft := seedApplicant(t, db, "dee@example.com", model.UserStatusIncomplete, dbtest.Date(2026, time.May, 1), nil, false)
	rejected := seedApplicant(t, db, "eve@example.com", model.UserStatusRejected, dbtest.Date(2026, time.January, 10), nil, true)
	seedApplicant(t, db, "  ANA@Example.com", model.UserStatusIncomplete, dbtest.Date(2026, time.June, 1), nil, false)

	t.Run("newest submission first with id tiebreak", func(t *testing.T) {
		rows, total, err := repo.FindCandidates(ctx, CandidateFilter{}, common.NewPageRequest(1, 20))
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		assert.Equal(t, []uint{approved.ID, ana.ID, noEmail.ID, ben.ID, rejected.ID}, candidateIDs(rows))
		assert.NotContains(t, candidateIDs(rows), draft.ID)
	})

	t.Run("paging keeps the total", func(t *testing.T) {
		rows, total, err := repo.FindCandidates(ctx, CandidateFilter{}, common.NewPageRequest(2, 2))
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		assert.Equal(t, []uint{noEmail.ID, ben.ID}, candidateIDs(rows))
	})

	t.Run("status filter", func(t *testing.T) {
		rows, total, err := repo.FindCandidates(ctx, CandidateFilter{Status: model.UserStatusPending}, common.NewPageRequest(1, 20))
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, []uint{ana.ID}, candidateIDs(rows))
	})

	t.Run("duplicate email ignores case and padding", func(t *testing.T) {
		row, err := repo.FindCandidate(ctx, ana.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, row.EmailCount)
		assert.True(t, Annotate(row).DuplicateFlag)
		require.NotNil(t, row.FormID)
		require.NotNil(t, row.SubmittedAt)
		assert.True(t, march.Equal(*row.SubmittedAt))

		row, err = repo.FindCandidate(ctx, ben.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, row.EmailCount)
		assert.False(t, Annotate(row).DuplicateFlag)
		assert.Nil(t, row.FormID)
	})

	t.Run("empty email is never a duplicate", func(t *testing.T) {
		row, err := repo.FindCandidate(ctx, noEmail.ID)
		require.NoError(t, err)
		assert.Zero(t, row.EmailCount)
		assert.False(t, Annotate(row).DuplicateFlag)
	})

	t.Run("document flags", func(t *testing.T) {
		require.NoError(t, db.Create(&model.UserDocument{UserID: ben.ID, Category: model.DocumentIDPhoto, FilePath: "ben/id.png"}).Error)
		row, err := repo.FindCandidate(ctx, ben.ID)
		require.NoError(t, err)
		assert.True(t, row.HasIDPhoto)
		assert.False(t, row.HasEmploymentProof)

		docs, err := repo.FindDocuments(ctx, ben.ID)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("incomplete user without form is not a candidate", func(t *testing.T) {
		_, err := repo.FindCandidate(ctx, draft.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("lock and update inside a transaction", func(t *testing.T) {
		err := database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
			user, err := repo.WithTx(tx).LockUser(ctx, ben.ID)
			if err != nil {
				return err
			}
			return repo.WithTx(tx).UpdateUser(ctx, user.ID, map[string]interface{}{"status": model.UserStatusUnderReview})
		})
		require.NoError(t, err)
		row, err := repo.FindCandidate(ctx, ben.ID)
		require.NoError(t, err)
		assert.Equal(t, model.UserStatusUnderReview, row.Status)

		_, err = repo.LockUser(ctx, 9999)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
