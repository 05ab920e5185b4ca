package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/auth"
	"github.com/yigit/esgchampions/internal/pkg/validation"
)

// Validation messages shown to champions
const (
	MsgNoReviews        = "no reviews to submit"
	MsgMissingNecessity = "Please select Yes/No/Not Sure for all indicators"
	MsgInvalidReviews   = "Some reviews are invalid"
)

// ReviewInput is one (indicator, judgment) tuple of a submission
type ReviewInput struct {
	IndicatorID string
	Necessary   string
	Rating      int
	Comments    string
}

// SubmissionResult reports what a submission stored
type SubmissionResult struct {
	Submitted int              `json:"submitted"`
	Reviews   []*models.Review `json:"reviews"`
	Withdrawn int64            `json:"withdrawn"`
}

// SubmissionService defines the interface for review submission
type SubmissionService interface {
	Submit(ctx context.Context, session auth.Session, inputs []ReviewInput) (*SubmissionResult, error)
}

type submissionServiceImpl struct {
	reviews  ReviewStore
	rankings RankingInvalidator
	logger   zerolog.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(reviews ReviewStore, rankings RankingInvalidator, logger zerolog.Logger) SubmissionService {
	return &submissionServiceImpl{
		reviews:  reviews,
		rankings: rankings,
		logger:   logger.With().Str("service", "submission").Logger(),
	}
}

// validateBatch checks every tuple before anything is written and reports
// all offending indicators in one error
func validateBatch(inputs []ReviewInput) error {
	if len(inputs) == 0 {
		return apperrors.NewValidationError(MsgNoReviews)
	}

	var missingNecessity, invalidNecessity, invalidRating []string
	missingIndicator := 0

	for _, in := range inputs {
		id := strings.TrimSpace(in.IndicatorID)
		if id == "" {
			missingIndicator++
			continue
		}
		switch {
		case strings.TrimSpace(in.Necessary) == "":
			missingNecessity = append(missingNecessity, id)
		case !models.Necessity(in.Necessary).Valid():
			invalidNecessity = append(invalidNecessity, id)
		}
		if !validation.IsValidRating(in.Rating) {
			invalidRating = append(invalidRating, id)
		}
	}

	if len(missingNecessity) == 0 && len(invalidNecessity) == 0 && len(invalidRating) == 0 && missingIndicator == 0 {
		return nil
	}

	details := map[string]interface{}{}
	if len(missingNecessity) > 0 {
		details["missingNecessity"] = missingNecessity
	}
	if len(invalidNecessity) > 0 {
		details["invalidNecessity"] = invalidNecessity
	}
	if len(invalidRating) > 0 {
		details["invalidRating"] = invalidRating
	}
	if missingIndicator > 0 {
		details["missingIndicatorId"] = missingIndicator
	}

	msg := MsgInvalidReviews
	if len(missingNecessity) > 0 {
		msg = MsgMissingNecessity
	}
	return apperrors.NewValidationError(msg).WithDetails(details)
}

// Submit stores a batch of reviews for the session's champion. Either every
// tuple is valid and all are upserted as pending, or nothing is written.
// A repeated indicator in one batch keeps its last tuple.
func (s *submissionServiceImpl) Submit(ctx context.Context, session auth.Session, inputs []ReviewInput) (*SubmissionResult, error) {
	if !session.Valid() {
		return nil, apperrors.NewNotAuthenticatedError("Please log in to submit reviews")
	}
	if err := validateBatch(inputs); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(inputs))
	reviews := make([]*models.Review, 0, len(inputs))
	for _, in := range inputs {
		id := strings.TrimSpace(in.IndicatorID)
		rv := &models.Review{
			IndicatorID: id,
			Necessary:   models.Necessity(in.Necessary),
			Rating:      in.Rating,
			Comments:    strings.TrimSpace(in.Comments),
		}
		if i, dup := index[id]; dup {
			reviews[i] = rv
			continue
		}
		index[id] = len(reviews)
		reviews = append(reviews, rv)
	}

	withdrawn, err := s.reviews.SubmitBatch(ctx, session.ChampionID, reviews)
	if err != nil {
		return nil, err
	}

	if withdrawn > 0 {
		if err := s.rankings.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to invalidate ranking cache after resubmission")
		}
	}

	s.logger.Info().
		Str("championID", session.ChampionID).
		Int("count", len(reviews)).
		Int64("withdrawn", withdrawn).
		Msg("Reviews submitted")

	return &SubmissionResult{
		Submitted: len(reviews),
		Reviews:   reviews,
		Withdrawn: withdrawn,
	}, nil
}
