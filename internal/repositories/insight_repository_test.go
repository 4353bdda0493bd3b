package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightRepository_FindByDreamID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInsightRepository(db)
	dreamID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "dream_id", "summary", "key_symbols", "reflection", "created_at"}).
		AddRow(uuid.NewString(), dreamID.String(), "A dream about open water and freedom.", "{ocean,boat}", "Consider where you feel adrift lately.", 1700000000)
	mock.ExpectQuery(`SELECT \* FROM "insights" WHERE dream_id = \$1`).WillReturnRows(rows)

	insight, err := repo.FindByDreamID(context.Background(), dreamID)
	require.NoError(t, err)
	require.NotNil(t, insight)
	assert.Equal(t, dreamID, insight.DreamID)
	assert.Equal(t, []string{"ocean", "boat"}, []string(insight.KeySymbols))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsightRepository_FindByDreamID_None(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInsightRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "insights"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	insight, err := repo.FindByDreamID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, insight)
}
