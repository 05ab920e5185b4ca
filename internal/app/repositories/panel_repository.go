package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/dberrors"
	"github.com/yigit/esgchampions/internal/pkg/logger"
)

var panelColumns = []string{
	"id", "title", "category", "description", "purpose", "key_indicators", "frameworks", "icon", "created_at",
}

// PanelRepository handles panel database operations
type PanelRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPanelRepository creates a new PanelRepository
func NewPanelRepository(db *pgxpool.Pool) *PanelRepository {
	return &PanelRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func scanPanel(row pgx.Row) (*models.Panel, error) {
	p := &models.Panel{}
	err := row.Scan(&p.ID, &p.Title, &p.Category, &p.Description, &p.Purpose,
		&p.KeyIndicators, &p.Frameworks, &p.Icon, &p.CreatedAt)
	return p, err
}

// List returns panels ordered by numeric id, optionally restricted to one category
func (r *PanelRepository) List(ctx context.Context, category models.Category) ([]*models.Panel, error) {
	query := r.sb.Select(panelColumns...).
		From("panels").
		// numeric ids sort as numbers, anything else after them
		OrderBy("CASE WHEN id ~ '^[0-9]+$' THEN id::int END NULLS LAST", "id")
	if category != "" {
		query = query.Where(squirrel.Eq{"category": category})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list panels SQL")
		return nil, fmt.Errorf("failed to build list panels query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list panels query")
		return nil, fmt.Errorf("error listing panels: %w", err)
	}
	defer rows.Close()

	panels := make([]*models.Panel, 0)
	for rows.Next() {
		p, err := scanPanel(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning panel: %w", err)
		}
		panels = append(panels, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return panels, nil
}

// GetByID retrieves a panel
func (r *PanelRepository) GetByID(ctx context.Context, id string) (*models.Panel, error) {
	sql, args, err := r.sb.Select(panelColumns...).
		From("panels").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get panel SQL")
		return nil, fmt.Errorf("failed to build get panel query: %w", err)
	}

	p, err := scanPanel(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPanelNotFound
		}
		logger.Error().Err(err).Str("panelID", id).Msg("Error scanning panel row")
		return nil, fmt.Errorf("error retrieving panel: %w", err)
	}
	return p, nil
}

// Create inserts a panel
func (r *PanelRepository) Create(ctx context.Context, p *models.Panel) error {
	sql, args, err := r.sb.Insert("panels").
		Columns(panelColumns...).
		Values(p.ID, p.Title, p.Category, p.Description, p.Purpose, p.KeyIndicators, p.Frameworks, p.Icon, p.CreatedAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create panel SQL")
		return fmt.Errorf("failed to build create panel query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrPanelAlreadyExists
		}
		logger.Error().Err(err).Str("panelID", p.ID).Msg("Error executing create panel query")
		return fmt.Errorf("error creating panel: %w", err)
	}
	return nil
}

// Update replaces every editable field of a panel
func (r *PanelRepository) Update(ctx context.Context, p *models.Panel) error {
	sql, args, err := r.sb.Update("panels").
		SetMap(map[string]interface{}{
			"title":          p.Title,
			"category":       p.Category,
			"description":    p.Description,
			"purpose":        p.Purpose,
			"key_indicators": p.KeyIndicators,
			"frameworks":     p.Frameworks,
			"icon":           p.Icon,
		}).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update panel SQL")
		return fmt.Errorf("failed to build update panel query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("panelID", p.ID).Msg("Error executing update panel query")
		return fmt.Errorf("error updating panel: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPanelNotFound
	}
	return nil
}

// Delete removes a panel that no indicator, accepted review or invitation references
func (r *PanelRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("panels").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete panel SQL")
		return fmt.Errorf("failed to build delete panel query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrPanelHasIndicators
		}
		logger.Error().Err(err).Str("panelID", id).Msg("Error executing delete panel query")
		return fmt.Errorf("error deleting panel: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPanelNotFound
	}
	return nil
}

// InsertIfMissing inserts panels whose id is not yet present and reports how many were added
func (r *PanelRepository) InsertIfMissing(ctx context.Context, panels []*models.Panel) (int64, error) {
	if len(panels) == 0 {
		return 0, nil
	}

	query := r.sb.Insert("panels").Columns(panelColumns...)
	for _, p := range panels {
		query = query.Values(p.ID, p.Title, p.Category, p.Description, p.Purpose, p.KeyIndicators, p.Frameworks, p.Icon, p.CreatedAt)
	}

	sql, args, err := query.Suffix("ON CONFLICT (id) DO NOTHING").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building seed panels SQL")
		return 0, fmt.Errorf("failed to build seed panels query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error seeding panels: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
