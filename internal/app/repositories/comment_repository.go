package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/dberrors"
	"github.com/yigit/esgchampions/internal/pkg/logger"
)

// AnonymousChampion names comment authors whose champion row is gone
const AnonymousChampion = "Anonymous"

// CommentRepository handles comment database operations
type CommentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

// Create appends a comment
func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	sql, args, err := r.sb.Insert("comments").
		Columns("id", "champion_id", "indicator_id", "comment", "created_at").
		Values(c.ID, c.ChampionID, c.IndicatorID, c.Comment, c.CreatedAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create comment SQL")
		return fmt.Errorf("failed to build create comment query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrIndicatorNotFound
		}
		logger.Error().Err(err).Str("indicatorID", c.IndicatorID).Msg("Error executing create comment query")
		return fmt.Errorf("error creating comment: %w", err)
	}
	return nil
}

// ListByIndicator returns an indicator's comments, newest first, with author names
func (r *CommentRepository) ListByIndicator(ctx context.Context, indicatorID string) ([]*models.Comment, error) {
	sql, args, err := r.sb.Select(
		"cm.id",
		"COALESCE(cm.champion_id::text, '')",
		"cm.indicator_id",
		"cm.comment",
		"cm.created_at",
	).
		Column("COALESCE(NULLIF(TRIM(ch.first_name || ' ' || ch.last_name), ''), ?)", AnonymousChampion).
		From("comments cm").
		LeftJoin("champions ch ON ch.id = cm.champion_id").
		Where(squirrel.Eq{"cm.indicator_id": indicatorID}).
		OrderBy("cm.created_at DESC", "cm.id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list comments SQL")
		return nil, fmt.Errorf("failed to build list comments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Comment, 0)
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.ChampionID, &c.IndicatorID, &c.Comment, &c.CreatedAt, &c.ChampionName); err != nil {
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return out, nil
}

// Activity returns one entry per comment of the champion, with the indicator's panel
func (r *CommentRepository) Activity(ctx context.Context, championID string) ([]models.Activity, error) {
	return activityQuery(ctx, r.db, r.sb, "comments", championID)
}

// CountSince counts a champion's comments created at or after since
func (r *CommentRepository) CountSince(ctx context.Context, championID string, since time.Time) (int, error) {
	return countSince(ctx, r.db, r.sb, "comments", championID, since)
}
