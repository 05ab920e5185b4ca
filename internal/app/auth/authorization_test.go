package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	pkgauth "github.com/yigit/esgchampions/internal/pkg/auth"
)

type lookupFunc func(ctx context.Context, id string) (*models.Champion, error)

func (f lookupFunc) GetByID(ctx context.Context, id string) (*models.Champion, error) {
	return f(ctx, id)
}

func champions(byID map[string]*models.Champion) ChampionLookup {
	return lookupFunc(func(_ context.Context, id string) (*models.Champion, error) {
		if c, ok := byID[id]; ok {
			return c, nil
		}
		return nil, apperrors.ErrChampionNotFound
	})
}

func TestRequireAdmin(t *testing.T) {
	a := NewAdminAuthorizer(champions(map[string]*models.Champion{
		"admin": {ID: "admin", IsAdmin: true},
		"user":  {ID: "user"},
	}))
	ctx := context.Background()

	tests := []struct {
		name    string
		session pkgauth.Session
		want    error
	}{
		{"no session", pkgauth.Session{}, apperrors.ErrNotAuthenticated},
		{"regular champion", pkgauth.Session{ChampionID: "user"}, apperrors.ErrPermissionDenied},
		{"missing champion row", pkgauth.Session{ChampionID: "ghost"}, apperrors.ErrPermissionDenied},
		{"admin", pkgauth.Session{ChampionID: "admin"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.RequireAdmin(ctx, tt.session)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIsAdminPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	a := NewAdminAuthorizer(lookupFunc(func(context.Context, string) (*models.Champion, error) {
		return nil, boom
	}))

	if _, err := a.IsAdmin(context.Background(), pkgauth.Session{ChampionID: "x"}); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
