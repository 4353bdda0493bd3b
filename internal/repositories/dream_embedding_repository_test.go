package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDreamEmbeddingRepository_FindSimilar(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDreamEmbeddingRepository(db)
	userID, dreamID := uuid.New(), uuid.New()
	otherID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "content", "has_insight", "created_at", "similarity"}).
		AddRow(otherID.String(), userID.String(), "Sea again", "Waves", true, 1700000000, 0.91)
	mock.ExpectQuery(`SELECT d\.\*, \(1 - \(e\.embedding <=> q\.embedding\)\) AS similarity`).
		WithArgs(dreamID, userID, dreamID, 5).
		WillReturnRows(rows)

	similar, err := repo.FindSimilar(context.Background(), userID, dreamID, 5)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, otherID, similar[0].ID)
	assert.Equal(t, "Sea again", similar[0].Title)
	assert.InDelta(t, 0.91, similar[0].Similarity, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}
