package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/dberrors"
	"github.com/yigit/esgchampions/internal/pkg/logger"
)

// VoteRepository handles vote database operations
type VoteRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *pgxpool.Pool) *VoteRepository {
	return &VoteRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

// Upsert stores a champion's vote, replacing any earlier one on the same indicator
func (r *VoteRepository) Upsert(ctx context.Context, v *models.Vote) error {
	sql, args, err := r.sb.Insert("votes").
		Columns("id", "champion_id", "indicator_id", "vote", "created_at").
		Values(v.ID, v.ChampionID, v.IndicatorID, v.Vote, v.CreatedAt).
		Suffix("ON CONFLICT (champion_id, indicator_id) DO UPDATE SET vote = EXCLUDED.vote, created_at = EXCLUDED.created_at RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert vote SQL")
		return fmt.Errorf("failed to build upsert vote query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&v.ID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrIndicatorNotFound
		}
		logger.Error().Err(err).Str("indicatorID", v.IndicatorID).Msg("Error executing upsert vote query")
		return fmt.Errorf("error saving vote: %w", err)
	}
	return nil
}

// Tally counts the votes on an indicator
func (r *VoteRepository) Tally(ctx context.Context, indicatorID string) (models.VoteTally, error) {
	var t models.VoteTally
	sql, args, err := r.sb.Select(
		"count(*) FILTER (WHERE vote = 'yes')",
		"count(*) FILTER (WHERE vote = 'no')",
		"count(*)",
	).From("votes").Where(squirrel.Eq{"indicator_id": indicatorID}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building vote tally SQL")
		return t, fmt.Errorf("failed to build vote tally query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&t.Yes, &t.No, &t.Total); err != nil {
		return models.VoteTally{}, fmt.Errorf("error counting votes: %w", err)
	}
	return t, nil
}

// GetVote returns a champion's vote on an indicator, "" when there is none
func (r *VoteRepository) GetVote(ctx context.Context, championID, indicatorID string) (string, error) {
	var vote string
	sql, args, err := r.sb.Select("vote").
		From("votes").
		Where(squirrel.Eq{"champion_id": championID, "indicator_id": indicatorID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build get vote query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&vote); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("error retrieving vote: %w", err)
	}
	return vote, nil
}

// Activity returns one entry per vote of the champion, with the indicator's panel
func (r *VoteRepository) Activity(ctx context.Context, championID string) ([]models.Activity, error) {
	return activityQuery(ctx, r.db, r.sb, "votes", championID)
}

// CountSince counts a champion's votes created at or after since
func (r *VoteRepository) CountSince(ctx context.Context, championID string, since time.Time) (int, error) {
	return countSince(ctx, r.db, r.sb, "votes", championID, since)
}

func activityQuery(ctx context.Context, q Querier, sb squirrel.StatementBuilderType, table, championID string) ([]models.Activity, error) {
	sql, args, err := sb.Select("t.indicator_id", "i.panel_id", "t.created_at").
		From(table + " t").
		Join("indicators i ON i.id = t.indicator_id").
		Where(squirrel.Eq{"t.champion_id": championID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error building activity SQL")
		return nil, fmt.Errorf("failed to build %s activity query: %w", table, err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading %s activity: %w", table, err)
	}
	defer rows.Close()

	out := make([]models.Activity, 0)
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.IndicatorID, &a.PanelID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning %s activity: %w", table, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func countSince(ctx context.Context, q Querier, sb squirrel.StatementBuilderType, table, championID string, since time.Time) (int, error) {
	var n int
	sql, args, err := sb.Select("count(*)").
		From(table).
		Where(squirrel.Eq{"champion_id": championID}).
		Where(squirrel.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s count query: %w", table, err)
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting %s: %w", table, err)
	}
	return n, nil
}
