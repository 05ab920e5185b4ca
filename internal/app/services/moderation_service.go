package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/auth"
	"github.com/yigit/esgchampions/internal/pkg/helpers"
)

// ModerationService defines the interface for admin review moderation
type ModerationService interface {
	List(ctx context.Context, filter models.ReviewFilter) ([]*models.ReviewDetail, error)
	Accept(ctx context.Context, session auth.Session, reviewID string) (*models.AcceptedReview, error)
	Delete(ctx context.Context, session auth.Session, reviewID, notes string) error
	Stats(ctx context.Context) models.ReviewStats
	AcceptedReviews(ctx context.Context, panelID, indicatorID string) []*models.AcceptedReview
	AdminActions(ctx context.Context, limit int) []*models.AdminAction
}

type moderationServiceImpl struct {
	reviews    ReviewStore
	moderation ModerationStore
	admins     AdminGate
	rankings   RankingInvalidator
	logger     zerolog.Logger
}

// NewModerationService creates a new moderation service
func NewModerationService(
	reviews ReviewStore,
	moderation ModerationStore,
	admins AdminGate,
	rankings RankingInvalidator,
	logger zerolog.Logger,
) ModerationService {
	return &moderationServiceImpl{
		reviews:    reviews,
		moderation: moderation,
		admins:     admins,
		rankings:   rankings,
		logger:     logger.With().Str("service", "moderation").Logger(),
	}
}

// ValidateFilter normalizes a review filter, rejecting unknown values
func ValidateFilter(filter models.ReviewFilter) (models.ReviewFilter, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	filter.Category = strings.ToLower(strings.TrimSpace(filter.Category))
	filter.Search = strings.TrimSpace(filter.Search)

	if filter.Status == "" {
		filter.Status = models.FilterAll
	}
	if filter.Category == "" {
		filter.Category = models.FilterAll
	}

	details := map[string]interface{}{}
	if filter.Status != models.FilterAll && !models.ReviewStatus(filter.Status).Valid() {
		details["status"] = filter.Status
	}
	if filter.Category != models.FilterAll && !models.Category(filter.Category).Valid() {
		details["category"] = filter.Category
	}
	if len(details) > 0 {
		return filter, apperrors.NewValidationError("Invalid review filter").WithDetails(details)
	}
	return filter, nil
}

// List returns matching reviews, newest first. A store failure is logged and
// yields an empty list.
func (s *moderationServiceImpl) List(ctx context.Context, filter models.ReviewFilter) ([]*models.ReviewDetail, error) {
	filter, err := ValidateFilter(filter)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Interface("filter", filter).Msg("Error listing reviews")
		return []*models.ReviewDetail{}, nil
	}
	if reviews == nil {
		reviews = []*models.ReviewDetail{}
	}
	return reviews, nil
}

// normalizeReviewID rejects ids that cannot name a review
func normalizeReviewID(reviewID string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(reviewID))
	if err != nil {
		return "", apperrors.NewCustomError(apperrors.ErrReviewNotFound, fmt.Sprintf("review %s not found", reviewID))
	}
	return id.String(), nil
}

// Accept moves a pending review to accepted and materializes it for ranking
func (s *moderationServiceImpl) Accept(ctx context.Context, session auth.Session, reviewID string) (*models.AcceptedReview, error) {
	if err := s.admins.RequireAdmin(ctx, session); err != nil {
		return nil, err
	}
	id, err := normalizeReviewID(reviewID)
	if err != nil {
		return nil, err
	}

	accepted, err := s.moderation.AcceptReview(ctx, id, session.ChampionID)
	if err != nil {
		return nil, err
	}

	if err := s.rankings.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to invalidate ranking cache after accept")
	}

	s.logger.Info().Str("reviewID", id).Str("adminID", session.ChampionID).Msg("Review accepted")
	return accepted, nil
}

// Delete moves a pending review to deleted
func (s *moderationServiceImpl) Delete(ctx context.Context, session auth.Session, reviewID, notes string) error {
	if err := s.admins.RequireAdmin(ctx, session); err != nil {
		return err
	}
	id, err := normalizeReviewID(reviewID)
	if err != nil {
		return err
	}

	if err := s.moderation.DeleteReview(ctx, id, session.ChampionID, strings.TrimSpace(notes)); err != nil {
		return err
	}

	s.logger.Info().Str("reviewID", id).Str("adminID", session.ChampionID).Msg("Review deleted")
	return nil
}

func (s *moderationServiceImpl) Stats(ctx context.Context) models.ReviewStats {
	stats, err := s.reviews.Stats(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error loading review stats")
		return models.ReviewStats{}
	}
	return stats
}

func (s *moderationServiceImpl) AcceptedReviews(ctx context.Context, panelID, indicatorID string) []*models.AcceptedReview {
	out, err := s.moderation.AcceptedReviews(ctx, strings.TrimSpace(panelID), strings.TrimSpace(indicatorID))
	if err != nil || out == nil {
		if err != nil {
			s.logger.Error().Err(err).Msg("Error loading accepted reviews")
		}
		return []*models.AcceptedReview{}
	}
	return out
}

// AdminActions returns recent moderation history; limit defaults to 50 and is capped at 200
func (s *moderationServiceImpl) AdminActions(ctx context.Context, limit int) []*models.AdminAction {
	out, err := s.moderation.AdminActions(ctx, helpers.ClampLimit(limit))
	if err != nil || out == nil {
		if err != nil {
			s.logger.Error().Err(err).Msg("Error loading admin actions")
		}
		return []*models.AdminAction{}
	}
	return out
}
