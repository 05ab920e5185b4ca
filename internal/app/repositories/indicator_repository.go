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

var indicatorColumns = []string{
	"id", "panel_id", "title", "description", "unit", "frameworks",
	"formula_required", "sector_context", "validation_question", "created_at",
}

// IndicatorRepository handles indicator database operations
type IndicatorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewIndicatorRepository creates a new IndicatorRepository
func NewIndicatorRepository(db *pgxpool.Pool) *IndicatorRepository {
	return &IndicatorRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func scanIndicator(row pgx.Row) (*models.Indicator, error) {
	i := &models.Indicator{}
	err := row.Scan(&i.ID, &i.PanelID, &i.Title, &i.Description, &i.Unit, &i.Frameworks,
		&i.FormulaRequired, &i.SectorContext, &i.ValidationQuestion, &i.CreatedAt)
	return i, err
}

// ListByPanel returns the indicators of a panel in creation order
func (r *IndicatorRepository) ListByPanel(ctx context.Context, panelID string) ([]*models.Indicator, error) {
	sql, args, err := r.sb.Select(indicatorColumns...).
		From("indicators").
		Where(squirrel.Eq{"panel_id": panelID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list indicators SQL")
		return nil, fmt.Errorf("failed to build list indicators query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("panelID", panelID).Msg("Error executing list indicators query")
		return nil, fmt.Errorf("error listing indicators: %w", err)
	}
	defer rows.Close()

	indicators := make([]*models.Indicator, 0)
	for rows.Next() {
		i, err := scanIndicator(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning indicator: %w", err)
		}
		indicators = append(indicators, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return indicators, nil
}

// GetByID retrieves an indicator
func (r *IndicatorRepository) GetByID(ctx context.Context, id string) (*models.Indicator, error) {
	sql, args, err := r.sb.Select(indicatorColumns...).
		From("indicators").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get indicator SQL")
		return nil, fmt.Errorf("failed to build get indicator query: %w", err)
	}

	i, err := scanIndicator(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrIndicatorNotFound
		}
		logger.Error().Err(err).Str("indicatorID", id).Msg("Error scanning indicator row")
		return nil, fmt.Errorf("error retrieving indicator: %w", err)
	}
	return i, nil
}

// Create inserts an indicator
func (r *IndicatorRepository) Create(ctx context.Context, i *models.Indicator) error {
	sql, args, err := r.sb.Insert("indicators").
		Columns(indicatorColumns...).
		Values(i.ID, i.PanelID, i.Title, i.Description, i.Unit, i.Frameworks,
			i.FormulaRequired, i.SectorContext, i.ValidationQuestion, i.CreatedAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create indicator SQL")
		return fmt.Errorf("failed to build create indicator query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return apperrors.ErrIndicatorExists
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrPanelNotFound
		}
		logger.Error().Err(err).Str("indicatorID", i.ID).Msg("Error executing create indicator query")
		return fmt.Errorf("error creating indicator: %w", err)
	}
	return nil
}

// Update replaces every editable field of an indicator
func (r *IndicatorRepository) Update(ctx context.Context, i *models.Indicator) error {
	sql, args, err := r.sb.Update("indicators").
		SetMap(map[string]interface{}{
			"panel_id":            i.PanelID,
			"title":               i.Title,
			"description":         i.Description,
			"unit":                i.Unit,
			"frameworks":          i.Frameworks,
			"formula_required":    i.FormulaRequired,
			"sector_context":      i.SectorContext,
			"validation_question": i.ValidationQuestion,
		}).
		Where(squirrel.Eq{"id": i.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update indicator SQL")
		return fmt.Errorf("failed to build update indicator query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrPanelNotFound
		}
		logger.Error().Err(err).Str("indicatorID", i.ID).Msg("Error executing update indicator query")
		return fmt.Errorf("error updating indicator: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrIndicatorNotFound
	}
	return nil
}

// Delete removes an indicator together with its votes and comments. An
// indicator that has reviews is kept.
func (r *IndicatorRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("indicators").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete indicator SQL")
		return fmt.Errorf("failed to build delete indicator query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewCustomError(apperrors.ErrIndicatorReviewed,
				fmt.Sprintf("indicator %s has reviews and cannot be deleted", id))
		}
		logger.Error().Err(err).Str("indicatorID", id).Msg("Error executing delete indicator query")
		return fmt.Errorf("error deleting indicator: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrIndicatorNotFound
	}
	return nil
}

// InsertIfMissing inserts indicators whose id is not yet present and reports how many were added
func (r *IndicatorRepository) InsertIfMissing(ctx context.Context, indicators []*models.Indicator) (int64, error) {
	if len(indicators) == 0 {
		return 0, nil
	}

	query := r.sb.Insert("indicators").Columns(indicatorColumns...)
	for _, i := range indicators {
		query = query.Values(i.ID, i.PanelID, i.Title, i.Description, i.Unit, i.Frameworks,
			i.FormulaRequired, i.SectorContext, i.ValidationQuestion, i.CreatedAt)
	}

	sql, args, err := query.Suffix("ON CONFLICT (id) DO NOTHING").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building seed indicators SQL")
		return 0, fmt.Errorf("failed to build seed indicators query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error seeding indicators: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
