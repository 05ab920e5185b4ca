package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/dberrors"
	"github.com/yigit/esgchampions/internal/pkg/logger"
)

var acceptedReviewColumns = []string{
	"id", "review_id", "champion_id", "indicator_id", "panel_id", "rating", "necessary", "accepted_by", "accepted_at",
}

// ModerationRepository calls the review transition procedures and reads
// their materialized results
type ModerationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewModerationRepository creates a new ModerationRepository
func NewModerationRepository(db *pgxpool.Pool) *ModerationRepository {
	return &ModerationRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func scanAcceptedReview(row pgx.Row) (*models.AcceptedReview, error) {
	a := &models.AcceptedReview{}
	err := row.Scan(&a.ID, &a.ReviewID, &a.ChampionID, &a.IndicatorID, &a.PanelID,
		&a.Rating, &a.Necessary, &a.AcceptedBy, &a.AcceptedAt)
	return a, err
}

// mapTransitionError converts the SQLSTATEs raised by the procedures
func mapTransitionError(err error, reviewID string) error {
	switch {
	case dberrors.IsNoDataFound(err):
		return apperrors.NewCustomError(apperrors.ErrReviewNotFound, fmt.Sprintf("review %s not found", reviewID))
	case dberrors.IsInvalidState(err):
		return apperrors.NewCustomError(apperrors.ErrReviewNotPending, fmt.Sprintf("review %s is not pending", reviewID))
	}
	return fmt.Errorf("error moderating review: %w", err)
}

// AcceptReview runs accept_review and returns the materialized row
func (r *ModerationRepository) AcceptReview(ctx context.Context, reviewID, adminID string) (*models.AcceptedReview, error) {
	sql := fmt.Sprintf("SELECT %s FROM accept_review($1::uuid, $2::uuid)", strings.Join(acceptedReviewColumns, ", "))

	a, err := scanAcceptedReview(r.db.QueryRow(ctx, sql, reviewID, adminID))
	if err != nil {
		mapped := mapTransitionError(err, reviewID)
		if !apperrors.Is(mapped, apperrors.ErrReviewNotFound, apperrors.ErrReviewNotPending) {
			logger.Error().Err(err).Str("reviewID", reviewID).Msg("Error executing accept_review")
		}
		return nil, mapped
	}
	return a, nil
}

// DeleteReview runs delete_review
func (r *ModerationRepository) DeleteReview(ctx context.Context, reviewID, adminID, notes string) error {
	_, err := r.db.Exec(ctx, `SELECT delete_review($1::uuid, $2::uuid, $3)`, reviewID, adminID, notes)
	if err != nil {
		mapped := mapTransitionError(err, reviewID)
		if !apperrors.Is(mapped, apperrors.ErrReviewNotFound, apperrors.ErrReviewNotPending) {
			logger.Error().Err(err).Str("reviewID", reviewID).Msg("Error executing delete_review")
		}
		return mapped
	}
	return nil
}

// AcceptedReviews lists materialized reviews, newest first. Empty ids mean no filter.
func (r *ModerationRepository) AcceptedReviews(ctx context.Context, panelID, indicatorID string) ([]*models.AcceptedReview, error) {
	query := r.sb.Select(acceptedReviewColumns...).
		From("accepted_reviews").
		OrderBy("accepted_at DESC", "id")
	if panelID != "" {
		query = query.Where(squirrel.Eq{"panel_id": panelID})
	}
	if indicatorID != "" {
		query = query.Where(squirrel.Eq{"indicator_id": indicatorID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building accepted reviews SQL")
		return nil, fmt.Errorf("failed to build accepted reviews query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing accepted reviews: %w", err)
	}
	defer rows.Close()

	out := make([]*models.AcceptedReview, 0)
	for rows.Next() {
		a, err := scanAcceptedReview(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning accepted review: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return out, nil
}

// AdminActions returns the most recent moderation actions
func (r *ModerationRepository) AdminActions(ctx context.Context, limit int) ([]*models.AdminAction, error) {
	sql, args, err := r.sb.Select("id", "admin_id", "review_id", "action", "notes", "created_at").
		From("admin_actions").
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building admin actions SQL")
		return nil, fmt.Errorf("failed to build admin actions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing admin actions: %w", err)
	}
	defer rows.Close()

	out := make([]*models.AdminAction, 0)
	for rows.Next() {
		a := &models.AdminAction{}
		if err := rows.Scan(&a.ID, &a.AdminID, &a.ReviewID, &a.Action, &a.Notes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning admin action: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return out, nil
}

// RankingInputs joins every accepted review with its champion and panel
// category, in acceptance order
func (r *ModerationRepository) RankingInputs(ctx context.Context) ([]models.RankingInput, error) {
	sql, args, err := r.sb.Select("a.champion_id", "c.first_name", "c.last_name", "c.organization",
		"a.rating", "a.necessary", "p.category").
		From("accepted_reviews a").
		Join("champions c ON c.id = a.champion_id").
		Join("panels p ON p.id = a.panel_id").
		OrderBy("a.accepted_at", "a.id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building ranking inputs SQL")
		return nil, fmt.Errorf("failed to build ranking inputs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading ranking inputs: %w", err)
	}
	defer rows.Close()

	out := make([]models.RankingInput, 0)
	for rows.Next() {
		var in models.RankingInput
		if err := rows.Scan(&in.ChampionID, &in.FirstName, &in.LastName, &in.Organization,
			&in.Rating, &in.Necessary, &in.Category); err != nil {
			return nil, fmt.Errorf("error scanning ranking input: %w", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return out, nil
}
