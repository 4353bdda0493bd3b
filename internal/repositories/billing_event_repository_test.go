package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillingEventRepository_Forget(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingEventRepository(db)

	mock.ExpectExec(`DELETE FROM "billing_events" WHERE provider_event_id = \$1`).
		WithArgs("evt_123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Forget(context.Background(), "evt_123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
