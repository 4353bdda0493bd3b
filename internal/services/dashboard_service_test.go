package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreamsaver/internal/config"
	"dreamsaver/internal/models/db_models"
	"dreamsaver/pkg/utils"
)

func TestBuildDashboard(t *testing.T) {
	userID := uuid.New()
	profile := db_models.NewProfile(userID, "dreamer@example.com")
	profile.InsightsUsed = 3
	profiles := newFakeProfileRepo(profile)
	dreams := newFakeDreamRepo()
	ctx := context.Background()
	require.NoError(t, dreams.Create(ctx, &db_models.Dream{UserID: userID, Title: "one", Content: "a"}))
	require.NoError(t, dreams.Create(ctx, &db_models.Dream{UserID: userID, Title: "two", Content: "b"}))

	svc := NewDashboardService(profiles, dreams, &config.Config{Quota: config.QuotaConfig{FreeInsightLimit: 5}})

	dash, err := svc.BuildDashboard(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "dreamer@example.com", dash.Email)
	assert.Equal(t, 3, dash.Usage.InsightsUsed)
	assert.Equal(t, 5, dash.Usage.FreeLimit)
	assert.Equal(t, 2, dash.Usage.Remaining)
	assert.False(t, dash.Usage.IsPro)
	require.Len(t, dash.Dreams, 2)
	assert.Equal(t, "two", dash.Dreams[0].Title)
}

func TestBuildDashboard_ProAndEmpty(t *testing.T) {
	userID := uuid.New()
	profile := db_models.NewProfile(userID, "pro@example.com")
	profile.IsPro = true
	profile.InsightsUsed = 9
	svc := NewDashboardService(newFakeProfileRepo(profile), newFakeDreamRepo(), &config.Config{Quota: config.QuotaConfig{FreeInsightLimit: 5}})

	dash, err := svc.BuildDashboard(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, -1, dash.Usage.Remaining)
	assert.NotNil(t, dash.Dreams)
	assert.Empty(t, dash.Dreams)

	_, err = svc.BuildDashboard(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrProfileNotFound)
}
