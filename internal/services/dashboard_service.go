package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"dreamsaver/internal/config"
	resp "dreamsaver/internal/models/response_models"
	"dreamsaver/internal/repositories"
	"dreamsaver/pkg/utils"
)

type DashboardService interface {
	BuildDashboard(ctx context.Context, userID uuid.UUID) (*resp.DashboardResponse, error)
}

type dashboardService struct {
	profiles  repositories.ProfileRepository
	dreams    repositories.DreamRepository
	freeLimit int
}

func NewDashboardService(profiles repositories.ProfileRepository, dreams repositories.DreamRepository, cfg *config.Config) DashboardService {
	return &dashboardService{
		profiles:  profiles,
		dreams:    dreams,
		freeLimit: cfg.Quota.FreeInsightLimit,
	}
}

// BuildDashboard returns the caller's usage and dreams, newest first.
// Remaining is -1 for subscribers.
func (s *dashboardService) BuildDashboard(ctx context.Context, userID uuid.UUID) (*resp.DashboardResponse, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load profile: %v", utils.ErrDatabaseError, err)
	}
	if profile == nil {
		return nil, utils.ErrProfileNotFound
	}

	dreams, err := s.dreams.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list dreams: %v", utils.ErrDatabaseError, err)
	}

	return &resp.DashboardResponse{
		Email: profile.Email,
		Usage: resp.UsageResponse{
			InsightsUsed: profile.InsightsUsed,
			FreeLimit:    s.freeLimit,
			Remaining:    profile.RemainingInsights(s.freeLimit),
			IsPro:        profile.IsPro,
		},
		Dreams: ToDreamResponses(dreams),
	}, nil
}
