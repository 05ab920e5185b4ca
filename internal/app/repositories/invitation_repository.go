package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/dberrors"
	"github.com/yigit/esgchampions/internal/pkg/logger"
)

// InvitationRepository handles invitation database operations
type InvitationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *pgxpool.Pool) *InvitationRepository {
	return &InvitationRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

// Create stores an invitation
func (r *InvitationRepository) Create(ctx context.Context, inv *models.Invitation) error {
	sql, args, err := r.sb.Insert("invitations").
		Columns("id", "from_champion_id", "to_email", "panel_id", "message", "status", "created_at").
		Values(inv.ID, inv.FromChampionID, strings.ToLower(inv.ToEmail), inv.PanelID, inv.Message, inv.Status, inv.CreatedAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create invitation SQL")
		return fmt.Errorf("failed to build create invitation query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrPanelNotFound
		}
		logger.Error().Err(err).Str("panelID", inv.PanelID).Msg("Error executing create invitation query")
		return fmt.Errorf("error creating invitation: %w", err)
	}
	return nil
}

// ListForEmail returns invitations addressed to an email, newest first
func (r *InvitationRepository) ListForEmail(ctx context.Context, email string) ([]*models.Invitation, error) {
	sql, args, err := r.sb.Select("id", "from_champion_id", "to_email", "panel_id", "message", "status", "created_at").
		From("invitations").
		Where(squirrel.Eq{"lower(to_email)": strings.ToLower(email)}).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list invitations SQL")
		return nil, fmt.Errorf("failed to build list invitations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing invitations: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Invitation, 0)
	for rows.Next() {
		inv := &models.Invitation{}
		if err := rows.Scan(&inv.ID, &inv.FromChampionID, &inv.ToEmail, &inv.PanelID, &inv.Message, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning invitation: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return out, nil
}
