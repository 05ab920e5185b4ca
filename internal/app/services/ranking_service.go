package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/cache"
)

// RankingInputSource loads the accepted reviews that feed the leaderboard
type RankingInputSource interface {
	RankingInputs(ctx context.Context) ([]models.RankingInput, error)
}

// RankingService defines the interface for leaderboard operations
type RankingService interface {
	Summary(ctx context.Context) (*models.RankingSummary, error)
	Leaderboard(ctx context.Context, category string) ([]models.ChampionRanking, error)
	Invalidate(ctx context.Context) error
}

type rankingServiceImpl struct {
	source RankingInputSource
	cache  cache.RankingCache
	now    func() time.Time
	logger zerolog.Logger
}

// NewRankingService creates a new ranking service. A nil cache disables caching.
func NewRankingService(source RankingInputSource, rankingCache cache.RankingCache, logger zerolog.Logger) RankingService {
	if rankingCache == nil {
		rankingCache = cache.Noop{}
	}
	return &rankingServiceImpl{
		source: source,
		cache:  rankingCache,
		now:    time.Now,
		logger: logger.With().Str("service", "ranking").Logger(),
	}
}

// Summary returns the leaderboard page. Store failures are logged and yield an
// empty summary.
func (s *rankingServiceImpl) Summary(ctx context.Context) (*models.RankingSummary, error) {
	cached, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Ranking cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	// read before loading inputs so an invalidation in between wins
	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.logger.Warn().Err(genErr).Msg("Ranking cache generation read failed")
	}

	rows, err := s.source.RankingInputs(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error loading accepted reviews for ranking")
		return BuildSummary(nil, s.now()), nil
	}

	summary := BuildSummary(ComputeRankings(rows), s.now())
	if genErr != nil {
		return summary, nil
	}
	if err := s.cache.Set(ctx, gen, summary); err != nil {
		if errors.Is(err, cache.ErrStaleGeneration) {
			s.logger.Debug().Int64("generation", gen).Msg("Ranking changed while computing, summary not cached")
		} else {
			s.logger.Warn().Err(err).Msg("Ranking cache write failed")
		}
	}
	return summary, nil
}

// Leaderboard returns the full list or one category view
func (s *rankingServiceImpl) Leaderboard(ctx context.Context, category string) ([]models.ChampionRanking, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	switch category {
	case "", models.FilterAll:
		return summary.All, nil
	case string(models.CategoryEnvironmental):
		return summary.Environmental, nil
	case string(models.CategorySocial):
		return summary.Social, nil
	case string(models.CategoryGovernance):
		return summary.Governance, nil
	}
	return nil, apperrors.NewValidationError(fmt.Sprintf("unknown category %q", category)).
		WithDetails(map[string]interface{}{"category": category})
}

func (s *rankingServiceImpl) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}
