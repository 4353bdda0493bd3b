package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"dreamsaver/internal/config"
	"dreamsaver/internal/models/db_models"
	"dreamsaver/internal/repositories"
	"dreamsaver/pkg/metrics"
	"dreamsaver/pkg/utils"
)

type InsightServiceInterface interface {
	GenerateInsight(ctx context.Context, userID uuid.UUID, dreamID string) (*db_models.Insight, error)
}

// PersistResult describes what the persister managed to write. The insight
// row is authoritative; the follow-up writes are best-effort and never rolled
// back, so a result can be partially successful.
type PersistResult struct {
	Insight          *db_models.Insight
	Created          bool
	DreamFlagged     bool
	UsageIncremented bool
	Errors           []error
}

func (r PersistResult) Partial() bool { return len(r.Errors) > 0 }

type InsightService struct {
	profiles  repositories.ProfileRepository
	dreams    repositories.DreamRepository
	insights  repositories.InsightRepository
	generator utils.TextGenerator
	quota     config.QuotaConfig
	timeout   time.Duration
	log       *zap.Logger
	group     singleflight.Group
}

func NewInsightService(
	profiles repositories.ProfileRepository,
	dreams repositories.DreamRepository,
	insights repositories.InsightRepository,
	generator utils.TextGenerator,
	cfg *config.Config,
	log *zap.Logger,
) InsightServiceInterface {
	return &InsightService{
		profiles:  profiles,
		dreams:    dreams,
		insights:  insights,
		generator: generator,
		quota:     cfg.Quota,
		timeout:   cfg.AI.Timeout,
		log:       log.Named("insight"),
	}
}

// GenerateInsight returns the dream's interpretation, creating it on first
// request. Concurrent calls for the same dream share one generation.
func (s *InsightService) GenerateInsight(ctx context.Context, userID uuid.UUID, rawDreamID string) (*db_models.Insight, error) {
	rawDreamID = strings.TrimSpace(rawDreamID)
	if rawDreamID == "" {
		return nil, fmt.Errorf("%w: dream ID is required", utils.ErrInvalidInput)
	}
	dreamID, err := uuid.Parse(rawDreamID)
	if err != nil {
		return nil, utils.ErrDreamNotFound
	}

	key := userID.String() + ":" + dreamID.String()
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// Detached so one caller disconnecting does not fail the others.
		return s.generate(context.WithoutCancel(ctx), userID, dreamID)
	})
	if shared {
		s.log.Debug("shared in-flight generation", zap.String("dream_id", dreamID.String()))
	}
	if err != nil {
		return nil, err
	}
	return v.(*db_models.Insight), nil
}

func (s *InsightService) generate(ctx context.Context, userID, dreamID uuid.UUID) (*db_models.Insight, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load profile: %v", utils.ErrDatabaseError, err)
	}
	if profile == nil {
		return nil, utils.ErrProfileNotFound
	}

	if !profile.CanGenerateInsight(s.quota.FreeInsightLimit) {
		metrics.RecordInsightGeneration(metrics.OutcomeRejected)
		return nil, utils.ErrQuotaExceeded
	}

	dream, err := s.dreams.FindByIDAndUser(ctx, dreamID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load dream: %v", utils.ErrDatabaseError, err)
	}
	if dream == nil {
		return nil, utils.ErrDreamNotFound
	}

	existing, err := s.insights.FindByDreamID(ctx, dream.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: load insight: %v", utils.ErrDatabaseError, err)
	}
	if existing != nil {
		metrics.RecordInsightGeneration(metrics.OutcomeExisting)
		return existing, nil
	}

	var mood *string
	if dream.MoodTag != nil {
		m := string(*dream.MoodTag)
		mood = &m
	}
	raw, err := s.requestInterpretation(ctx, BuildInterpretationPrompt(dream.Content, mood))
	if err != nil {
		metrics.RecordInsightGeneration(metrics.OutcomeFailed)
		s.log.Error("interpretation request failed",
			zap.String("dream_id", dream.ID.String()),
			zap.String("provider", s.generator.Provider()),
			zap.Error(err))
		return nil, err
	}

	sanitized := SanitizeInterpretation(ExtractInterpretation(raw))
	if sanitized.Summary == FallbackSummary || sanitized.Reflection == FallbackReflection {
		s.log.Warn("model output needed fallback text",
			zap.String("dream_id", dream.ID.String()),
			zap.String("raw", raw))
	}

	result, err := s.persist(ctx, profile, dream, sanitized)
	if err != nil {
		metrics.RecordInsightGeneration(metrics.OutcomeFailed)
		s.log.Error("failed to save insight", zap.String("dream_id", dream.ID.String()), zap.Error(err))
		return nil, err
	}
	if result.Partial() {
		s.log.Warn("insight saved with incomplete follow-up writes",
			zap.String("dream_id", dream.ID.String()),
			zap.Bool("dream_flagged", result.DreamFlagged),
			zap.Bool("usage_incremented", result.UsageIncremented),
			zap.Errors("errors", result.Errors))
	}

	if result.Created {
		metrics.RecordInsightGeneration(metrics.OutcomeCreated)
	} else {
		metrics.RecordInsightGeneration(metrics.OutcomeExisting)
	}
	return result.Insight, nil
}

func (s *InsightService) requestInterpretation(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.generator.GenerateText(ctx, prompt)
	metrics.ObserveAIRequest(s.generator.Provider(), err, time.Since(start))
	if err != nil {
		if errors.Is(err, utils.ErrUpstreamUnavailable) || errors.Is(err, utils.ErrEmptyResponse) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", utils.ErrUpstreamUnavailable, err)
	}
	if strings.TrimSpace(raw) == "" {
		return "", utils.ErrEmptyResponse
	}
	return raw, nil
}

// persist stores the insight and then applies the follow-up writes. When a
// concurrent writer won the insert, the stored row is returned and neither
// follow-up runs, so the counter moves once per dream.
func (s *InsightService) persist(ctx context.Context, profile *db_models.Profile, dream *db_models.Dream, in SanitizedInterpretation) (PersistResult, error) {
	row := &db_models.Insight{
		DreamID:    dream.ID,
		Summary:    in.Summary,
		KeySymbols: pq.StringArray(in.KeySymbols),
		Reflection: in.Reflection,
	}

	stored, created, err := s.insights.CreateIfAbsent(ctx, row)
	if err != nil {
		return PersistResult{}, fmt.Errorf("%w: %v", utils.ErrPersistence, err)
	}

	result := PersistResult{Insight: stored, Created: created}
	if !created {
		return result, nil
	}

	if err := s.dreams.MarkHasInsight(ctx, dream.ID); err != nil {
		metrics.RecordInsightFollowupFailure("flag_dream")
		result.Errors = append(result.Errors, fmt.Errorf("flag dream: %w", err))
	} else {
		result.DreamFlagged = true
	}

	if !profile.IsPro {
		incremented, err := s.profiles.IncrementInsightsUsed(ctx, profile.ID)
		switch {
		case err != nil:
			metrics.RecordInsightFollowupFailure("increment_usage")
			result.Errors = append(result.Errors, fmt.Errorf("increment usage: %w", err))
		case !incremented:
			s.log.Debug("usage not incremented, profile upgraded meanwhile", zap.String("user_id", profile.ID.String()))
		default:
			result.UsageIncremented = true
		}
	}
	return result, nil
}
