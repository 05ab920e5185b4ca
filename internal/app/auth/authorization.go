// Package auth decides what an authenticated champion may do.
package auth

import (
	"context"
	"errors"

	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	pkgauth "github.com/yigit/esgchampions/internal/pkg/auth"
	"github.com/yigit/esgchampions/internal/pkg/logger"
)

// ChampionLookup loads a champion by id
type ChampionLookup interface {
	GetByID(ctx context.Context, id string) (*models.Champion, error)
}

// AdminAuthorizer re-reads the champion on every check so a revoked admin
// flag takes effect immediately
type AdminAuthorizer struct {
	champions ChampionLookup
}

// NewAdminAuthorizer creates a new AdminAuthorizer
func NewAdminAuthorizer(champions ChampionLookup) *AdminAuthorizer {
	return &AdminAuthorizer{champions: champions}
}

// IsAdmin reports whether the session's champion has the admin flag. A missing
// champion row is not an admin.
func (a *AdminAuthorizer) IsAdmin(ctx context.Context, session pkgauth.Session) (bool, error) {
	if !session.Valid() {
		return false, nil
	}

	champion, err := a.champions.GetByID(ctx, session.ChampionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrChampionNotFound) {
			return false, nil
		}
		logger.Error().Err(err).Str("championID", session.ChampionID).Msg("Error loading champion for admin check")
		return false, err
	}
	return champion.IsAdmin, nil
}

// RequireAdmin fails with ErrNotAuthenticated without a session and with
// ErrPermissionDenied when the champion is not an admin
func (a *AdminAuthorizer) RequireAdmin(ctx context.Context, session pkgauth.Session) error {
	if !session.Valid() {
		return apperrors.NewNotAuthenticatedError("Please log in to continue")
	}

	ok, err := a.IsAdmin(ctx, session)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewForbiddenError("Admin privileges required")
	}
	return nil
}
