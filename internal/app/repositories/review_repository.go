package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/db"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/dberrors"
	"github.com/yigit/esgchampions/internal/pkg/logger"
)

var reviewColumns = []string{
	"r.id", "r.champion_id", "r.indicator_id", "r.necessary", "r.rating", "r.comments",
	"r.status", "r.created_at", "r.updated_at",
}

const upsertReviewSuffix = `ON CONFLICT (champion_id, indicator_id) DO UPDATE SET
	necessary = EXCLUDED.necessary,
	rating = EXCLUDED.rating,
	comments = EXCLUDED.comments,
	status = 'pending',
	updated_at = EXCLUDED.updated_at
RETURNING id, created_at`

// ReviewRepository handles review database operations
type ReviewRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func scanReview(row pgx.Row) (*models.Review, error) {
	rv := &models.Review{}
	err := row.Scan(&rv.ID, &rv.ChampionID, &rv.IndicatorID, &rv.Necessary, &rv.Rating,
		&rv.Comments, &rv.Status, &rv.CreatedAt, &rv.UpdatedAt)
	return rv, err
}

// SubmitBatch upserts every review of one champion in a single transaction.
// Each stored review ends up pending; a previously accepted one loses its
// accepted_reviews row. Non-empty comments are also appended to the comments
// table. It returns how many accepted reviews were withdrawn.
func (r *ReviewRepository) SubmitBatch(ctx context.Context, championID string, reviews []*models.Review) (int64, error) {
	var withdrawn int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		withdrawn = 0
		for _, rv := range reviews {
			n, err := r.upsertReview(ctx, tx, championID, rv)
			if err != nil {
				return err
			}
			withdrawn += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return withdrawn, nil
}

func (r *ReviewRepository) upsertReview(ctx context.Context, q Querier, championID string, rv *models.Review) (int64, error) {
	now := time.Now()
	rv.ChampionID = championID
	rv.Status = models.ReviewStatusPending
	rv.UpdatedAt = now
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}

	sql, args, err := r.sb.Insert("reviews").
		Columns("id", "champion_id", "indicator_id", "necessary", "rating", "comments", "status", "created_at", "updated_at").
		Values(rv.ID, championID, rv.IndicatorID, rv.Necessary, rv.Rating, rv.Comments, rv.Status, now, now).
		Suffix(upsertReviewSuffix).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert review SQL")
		return 0, fmt.Errorf("failed to build upsert review query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&rv.ID, &rv.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.NewCustomError(apperrors.ErrIndicatorNotFound,
				fmt.Sprintf("indicator %s not found", rv.IndicatorID))
		}
		logger.Error().Err(err).Str("championID", championID).Str("indicatorID", rv.IndicatorID).Msg("Error executing upsert review query")
		return 0, fmt.Errorf("error saving review: %w", err)
	}

	sql, args, err = r.sb.Delete("accepted_reviews").Where(squirrel.Eq{"review_id": rv.ID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build withdraw accepted review query: %w", err)
	}
	cmdTag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("reviewID", rv.ID).Msg("Error withdrawing accepted review")
		return 0, fmt.Errorf("error withdrawing accepted review: %w", err)
	}

	if strings.TrimSpace(rv.Comments) != "" {
		sql, args, err = r.sb.Insert("comments").
			Columns("id", "champion_id", "indicator_id", "comment", "created_at").
			Values(uuid.NewString(), championID, rv.IndicatorID, rv.Comments, now).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("failed to build review comment query: %w", err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Str("reviewID", rv.ID).Msg("Error inserting review comment")
			return 0, fmt.Errorf("error saving review comment: %w", err)
		}
	}

	return cmdTag.RowsAffected(), nil
}

// likePattern escapes LIKE wildcards in user input
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// List returns reviews joined with champion, indicator and panel, newest first
func (r *ReviewRepository) List(ctx context.Context, filter models.ReviewFilter) ([]*models.ReviewDetail, error) {
	cols := append([]string{}, reviewColumns...)
	cols = append(cols, "c.first_name", "c.last_name", "c.email", "c.organization",
		"i.title", "p.id", "p.title", "p.category")

	query := r.sb.Select(cols...).
		From("reviews r").
		Join("champions c ON c.id = r.champion_id").
		Join("indicators i ON i.id = r.indicator_id").
		Join("panels p ON p.id = i.panel_id").
		OrderBy("r.created_at DESC", "r.id")

	if filter.Status != "" && filter.Status != models.FilterAll {
		query = query.Where(squirrel.Eq{"r.status": filter.Status})
	}
	if filter.Category != "" && filter.Category != models.FilterAll {
		query = query.Where(squirrel.Eq{"p.category": filter.Category})
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := likePattern(term)
		query = query.Where(squirrel.Or{
			squirrel.Expr("(c.first_name || ' ' || c.last_name) ILIKE ?", pattern),
			squirrel.ILike{"i.title": pattern},
			squirrel.ILike{"p.title": pattern},
		})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list reviews SQL")
		return nil, fmt.Errorf("failed to build list reviews query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list reviews query")
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*models.ReviewDetail, 0)
	for rows.Next() {
		d := &models.ReviewDetail{}
		err := rows.Scan(&d.ID, &d.ChampionID, &d.IndicatorID, &d.Necessary, &d.Rating,
			&d.Comments, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.ChampionFirstName, &d.ChampionLastName, &d.ChampionEmail, &d.ChampionOrganization,
			&d.IndicatorTitle, &d.PanelID, &d.PanelTitle, &d.PanelCategory)
		if err != nil {
			return nil, fmt.Errorf("error scanning review: %w", err)
		}
		reviews = append(reviews, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return reviews, nil
}

// Stats counts reviews per status
func (r *ReviewRepository) Stats(ctx context.Context) (models.ReviewStats, error) {
	var s models.ReviewStats
	sql, args, err := r.sb.Select(
		"count(*)",
		"count(*) FILTER (WHERE status = 'pending')",
		"count(*) FILTER (WHERE status = 'accepted')",
		"count(*) FILTER (WHERE status = 'deleted')",
	).From("reviews").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building review stats SQL")
		return s, fmt.Errorf("failed to build review stats query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.Total, &s.Pending, &s.Accepted, &s.Deleted); err != nil {
		logger.Error().Err(err).Msg("Error executing review stats query")
		return models.ReviewStats{}, fmt.Errorf("error counting reviews: %w", err)
	}
	return s, nil
}

// GetForChampion returns a champion's review of one indicator
func (r *ReviewRepository) GetForChampion(ctx context.Context, championID, indicatorID string) (*models.Review, error) {
	sql, args, err := r.sb.Select(reviewColumns...).
		From("reviews r").
		Where(squirrel.Eq{"r.champion_id": championID, "r.indicator_id": indicatorID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get review SQL")
		return nil, fmt.Errorf("failed to build get review query: %w", err)
	}

	rv, err := scanReview(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReviewNotFound
		}
		logger.Error().Err(err).Str("championID", championID).Str("indicatorID", indicatorID).Msg("Error scanning review row")
		return nil, fmt.Errorf("error retrieving review: %w", err)
	}
	return rv, nil
}
