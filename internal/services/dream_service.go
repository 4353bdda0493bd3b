package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dreamsaver/internal/models/db_models"
	"dreamsaver/internal/models/request_models"
	"dreamsaver/internal/models/response_models"
	"dreamsaver/internal/repositories"
	"dreamsaver/pkg/utils"
)

const (
	untitledDreamTitle = "Untitled Dream"
	firstDreamTitle    = "My First Dream"
	maxTitleLength     = 100

	DefaultSimilarLimit = 5
	MaxSimilarLimit     = 20
)

type DreamServiceInterface interface {
	CreateDream(ctx context.Context, userID uuid.UUID, request request_models.CreateDreamRequest) (*response_models.DreamResponse, error)
	CreateFirstDream(ctx context.Context, userID uuid.UUID, content, mood string) (*response_models.DreamResponse, error)
	ListDreams(ctx context.Context, userID uuid.UUID) ([]response_models.DreamResponse, error)
	GetDream(ctx context.Context, userID uuid.UUID, dreamID string) (*response_models.DreamDetailResponse, error)
	SimilarDreams(ctx context.Context, userID uuid.UUID, dreamID string, limit int) ([]response_models.SimilarDreamResponse, error)
}

type DreamService struct {
	dreams     repositories.DreamRepository
	insights   repositories.InsightRepository
	embeddings repositories.DreamEmbeddingRepository
	embedder   utils.EmbeddingClient
	log        *zap.Logger
}

// NewDreamService accepts a nil embedder, which disables similarity search.
func NewDreamService(
	dreams repositories.DreamRepository,
	insights repositories.InsightRepository,
	embeddings repositories.DreamEmbeddingRepository,
	embedder utils.EmbeddingClient,
	log *zap.Logger,
) DreamServiceInterface {
	return &DreamService{
		dreams:     dreams,
		insights:   insights,
		embeddings: embeddings,
		embedder:   embedder,
		log:        log.Named("dream"),
	}
}

func (s *DreamService) CreateDream(ctx context.Context, userID uuid.UUID, request request_models.CreateDreamRequest) (*response_models.DreamResponse, error) {
	return s.create(ctx, userID, request.Title, request.Content, request.MoodTag, untitledDreamTitle)
}

func (s *DreamService) CreateFirstDream(ctx context.Context, userID uuid.UUID, content, mood string) (*response_models.DreamResponse, error) {
	return s.create(ctx, userID, "", content, mood, firstDreamTitle)
}

func (s *DreamService) create(ctx context.Context, userID uuid.UUID, title, content, mood, defaultTitle string) (*response_models.DreamResponse, error) {
	dream, err := NewDream(userID, title, content, mood, defaultTitle)
	if err != nil {
		return nil, err
	}

	if err := s.dreams.Create(ctx, dream); err != nil {
		return nil, fmt.Errorf("%w: create dream: %v", utils.ErrDatabaseError, err)
	}

	s.indexDream(ctx, dream)

	resp := ToDreamResponse(dream)
	return &resp, nil
}

// NewDream normalizes user input into a dream row: content is cut to the
// maximum length and trimmed, and a missing title is taken from the first
// line of the content.
func NewDream(userID uuid.UUID, title, content, mood, defaultTitle string) (*db_models.Dream, error) {
	content = strings.TrimSpace(truncateRunes(content, db_models.MaxDreamContentLength))
	if content == "" {
		return nil, fmt.Errorf("%w: dream content is required", utils.ErrInvalidInput)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSpace(truncateRunes(strings.SplitN(content, "\n", 2)[0], maxTitleLength))
	} else {
		title = truncateRunes(title, maxTitleLength)
	}
	if title == "" {
		title = defaultTitle
	}

	dream := &db_models.Dream{
		UserID:  userID,
		Title:   title,
		Content: content,
	}

	if mood = strings.TrimSpace(strings.ToLower(mood)); mood != "" {
		tag := db_models.MoodTag(mood)
		if !tag.Valid() {
			return nil, fmt.Errorf("%w: %q", utils.ErrInvalidMood, mood)
		}
		dream.MoodTag = &tag
	}
	return dream, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// indexDream stores the content embedding. Failures only cost similarity
// search, so they are logged and dropped.
func (s *DreamService) indexDream(ctx context.Context, dream *db_models.Dream) {
	if s.embedder == nil {
		return
	}
	vec, err := s.embedder.Embed(ctx, dream.Content)
	if err != nil {
		s.log.Warn("embed dream", zap.String("dream_id", dream.ID.String()), zap.Error(err))
		return
	}
	err = s.embeddings.Save(ctx, &db_models.DreamEmbedding{
		DreamID:   dream.ID,
		UserID:    dream.UserID,
		Embedding: vec,
	})
	if err != nil {
		s.log.Warn("save dream embedding", zap.String("dream_id", dream.ID.String()), zap.Error(err))
	}
}

func (s *DreamService) ListDreams(ctx context.Context, userID uuid.UUID) ([]response_models.DreamResponse, error) {
	dreams, err := s.dreams.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list dreams: %v", utils.ErrDatabaseError, err)
	}
	return ToDreamResponses(dreams), nil
}

func (s *DreamService) GetDream(ctx context.Context, userID uuid.UUID, rawID string) (*response_models.DreamDetailResponse, error) {
	dream, err := s.findOwned(ctx, userID, rawID)
	if err != nil {
		return nil, err
	}

	detail := &response_models.DreamDetailResponse{Dream: ToDreamResponse(dream)}

	insight, err := s.insights.FindByDreamID(ctx, dream.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: load insight: %v", utils.ErrDatabaseError, err)
	}
	if insight != nil {
		resp := ToInsightResponse(insight)
		detail.Insight = &resp
	}
	return detail, nil
}

func (s *DreamService) SimilarDreams(ctx context.Context, userID uuid.UUID, rawID string, limit int) ([]response_models.SimilarDreamResponse, error) {
	if s.embedder == nil {
		return nil, utils.ErrSimilarityDisabled
	}
	dream, err := s.findOwned(ctx, userID, rawID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	if limit > MaxSimilarLimit {
		limit = MaxSimilarLimit
	}

	rows, err := s.embeddings.FindSimilar(ctx, userID, dream.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: similar dreams: %v", utils.ErrDatabaseError, err)
	}

	out := make([]response_models.SimilarDreamResponse, 0, len(rows))
	for i := range rows {
		out = append(out, response_models.SimilarDreamResponse{
			DreamResponse: ToDreamResponse(&rows[i].Dream),
			Similarity:    rows[i].Similarity,
		})
	}
	return out, nil
}

func (s *DreamService) findOwned(ctx context.Context, userID uuid.UUID, rawID string) (*db_models.Dream, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, utils.ErrDreamNotFound
	}
	dream, err := s.dreams.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load dream: %v", utils.ErrDatabaseError, err)
	}
	if dream == nil {
		return nil, utils.ErrDreamNotFound
	}
	return dream, nil
}
