package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDreamRepository_FindByIDAndUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDreamRepository(db)
	id, userID := uuid.New(), uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "content", "mood_tag", "has_insight", "created_at", "updated_at"}).
		AddRow(id.String(), userID.String(), "Flying", "I was flying over the sea", "lucid", false, 1700000000, 1700000000)
	mock.ExpectQuery(`SELECT \* FROM "dreams" WHERE id = \$1 AND user_id = \$2`).WillReturnRows(rows)

	dream, err := repo.FindByIDAndUser(context.Background(), id, userID)
	require.NoError(t, err)
	require.NotNil(t, dream)
	assert.Equal(t, "Flying", dream.Title)
	require.NotNil(t, dream.MoodTag)
	assert.EqualValues(t, "lucid", *dream.MoodTag)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDreamRepository_FindByIDAndUser_OtherOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDreamRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "dreams"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	dream, err := repo.FindByIDAndUser(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, dream)
}

func TestDreamRepository_ListByUser_NewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDreamRepository(db)
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at"}).
		AddRow(uuid.NewString(), userID.String(), "Second", "b", 1700000100).
		AddRow(uuid.NewString(), userID.String(), "First", "a", 1700000000)
	mock.ExpectQuery(`SELECT \* FROM "dreams" WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs(userID).
		WillReturnRows(rows)

	dreams, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, dreams, 2)
	assert.Equal(t, "Second", dreams[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDreamRepository_MarkHasInsight(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDreamRepository(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "dreams" SET "has_insight"=\$1 WHERE id = \$2`).
		WithArgs(true, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkHasInsight(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
