package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/dberrors"
	"github.com/yigit/esgchampions/internal/pkg/logger"
)

var championColumns = []string{
	"id", "first_name", "last_name", "email", "password_hash", "organization", "role",
	"mobile", "primary_sector", "expertise", "is_admin", "created_at", "updated_at",
}

// ChampionRepository handles champion database operations
type ChampionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewChampionRepository creates a new ChampionRepository
func NewChampionRepository(db *pgxpool.Pool) *ChampionRepository {
	return &ChampionRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func scanChampion(row pgx.Row) (*models.Champion, error) {
	c := &models.Champion{}
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PasswordHash, &c.Organization, &c.Role,
		&c.Mobile, &c.PrimarySector, &c.Expertise, &c.IsAdmin, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.Expertise == nil {
		c.Expertise = []string{}
	}
	return c, nil
}

// Create inserts a champion. ID and timestamps must already be set.
func (r *ChampionRepository) Create(ctx context.Context, c *models.Champion) error {
	expertise := c.Expertise
	if expertise == nil {
		expertise = []string{}
	}

	sql, args, err := r.sb.Insert("champions").
		Columns(championColumns...).
		Values(c.ID, c.FirstName, c.LastName, strings.ToLower(c.Email), c.PasswordHash, c.Organization, c.Role,
			c.Mobile, c.PrimarySector, expertise, c.IsAdmin, c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create champion SQL")
		return fmt.Errorf("failed to build create champion query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "champions_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", c.Email).Msg("Error executing create champion query")
		return fmt.Errorf("error creating champion: %w", err)
	}
	return nil
}

func (r *ChampionRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Champion, error) {
	sql, args, err := r.sb.Select(championColumns...).
		From("champions").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get champion SQL")
		return nil, fmt.Errorf("failed to build get champion query: %w", err)
	}

	c, err := scanChampion(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChampionNotFound
		}
		logger.Error().Err(err).Msg("Error scanning champion row")
		return nil, fmt.Errorf("error retrieving champion: %w", err)
	}
	return c, nil
}

// GetByID retrieves a champion by ID
func (r *ChampionRepository) GetByID(ctx context.Context, id string) (*models.Champion, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a champion by email, case-insensitively
func (r *ChampionRepository) GetByEmail(ctx context.Context, email string) (*models.Champion, error) {
	return r.getOne(ctx, squirrel.Eq{"email": strings.ToLower(email)})
}

// EmailExists checks if an email is already registered
func (r *ChampionRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM champions WHERE email = $1)`,
		strings.ToLower(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// UpdateProfile replaces the editable profile fields
func (r *ChampionRepository) UpdateProfile(ctx context.Context, c *models.Champion) error {
	expertise := c.Expertise
	if expertise == nil {
		expertise = []string{}
	}

	sql, args, err := r.sb.Update("champions").
		SetMap(map[string]interface{}{
			"first_name":     c.FirstName,
			"last_name":      c.LastName,
			"organization":   c.Organization,
			"role":           c.Role,
			"mobile":         c.Mobile,
			"primary_sector": c.PrimarySector,
			"expertise":      expertise,
			"updated_at":     time.Now(),
		}).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update champion SQL")
		return fmt.Errorf("failed to build update champion query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("championID", c.ID).Msg("Error executing update champion query")
		return fmt.Errorf("error updating champion: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrChampionNotFound
	}
	return nil
}

// SetAdmin grants or revokes the admin flag of the champion with the given email
func (r *ChampionRepository) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	sql, args, err := r.sb.Update("champions").
		Set("is_admin", isAdmin).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"email": strings.ToLower(email)}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building set admin SQL")
		return fmt.Errorf("failed to build set admin query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error executing set admin query")
		return fmt.Errorf("error updating admin flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrChampionNotFound
	}
	return nil
}
