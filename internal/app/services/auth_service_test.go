package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/esgchampions/internal/app/models/dto"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/auth"
)

func newAuthFixture(t *testing.T) (AuthService, *memStore, *memTokens, *recordingMailer) {
	t.Helper()
	old := auth.BcryptCost
	auth.BcryptCost = 4
	t.Cleanup(func() { auth.BcryptCost = old })

	store := newMemStore()
	tokens := newMemTokens()
	mailer := &recordingMailer{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "esg-test",
	})
	svc := NewAuthService(championStore{store}, tokens, jwtService, mailer, testLogger)
	return svc, store, tokens, mailer
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:        " Ada@Example.org ",
		Password:     "secret123",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Organization: "Analytical Ltd",
		Expertise:    []string{"1", " 2 ", "1", ""},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, store, tokens, mailer := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Champion.Email != "ada@example.org" || res.Champion.IsAdmin {
		t.Fatalf("champion: %+v", res.Champion)
	}
	if len(res.Champion.Expertise) != 2 {
		t.Fatalf("expertise not cleaned: %v", res.Champion.Expertise)
	}
	if res.Token.AccessToken == "" || res.Token.RefreshToken == "" || res.Token.TokenType != "Bearer" {
		t.Fatalf("token: %+v", res.Token)
	}
	if len(store.champions) != 1 || len(tokens.tokens) != 1 || len(mailer.welcomes) != 1 {
		t.Fatalf("champions=%d tokens=%d welcomes=%d", len(store.champions), len(tokens.tokens), len(mailer.welcomes))
	}

	if _, err := svc.Register(ctx, registerRequest()); !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("duplicate register: got %v", err)
	}

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.org", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.Champion.ID != res.Champion.ID {
		t.Fatalf("login returned another champion")
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.org", Password: "wrong123"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.org", Password: "secret123"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, store, _, _ := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		modify func(*dto.RegisterRequest)
	}{
		{"bad email", func(r *dto.RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *dto.RegisterRequest) { r.Password = "a1" }},
		{"password without digit", func(r *dto.RegisterRequest) { r.Password = "onlyletters" }},
		{"password without letter", func(r *dto.RegisterRequest) { r.Password = "12345678" }},
		{"empty first name", func(r *dto.RegisterRequest) { r.FirstName = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest()
			tt.modify(req)
			if _, err := svc.Register(ctx, req); !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("got %v, want validation error", err)
			}
		})
	}
	if len(store.champions) != 0 {
		t.Fatalf("invalid registrations stored %d champions", len(store.champions))
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	next, err := svc.RefreshToken(ctx, res.Token.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == res.Token.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	if _, err := svc.RefreshToken(ctx, res.Token.RefreshToken); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Fatalf("reusing old token: got %v", err)
	}
	if _, err := svc.RefreshToken(ctx, ""); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("empty token: got %v", err)
	}
}

func TestConcurrentRefreshIssuesOnePair(t *testing.T) {
	svc, _, tokens, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// the second refresh runs between the first one's lookup and revoke
	var winner *dto.TokenResponse
	var winnerErr error
	tokens.afterLookup = func() {
		winner, winnerErr = svc.RefreshToken(ctx, res.Token.RefreshToken)
	}

	_, err = svc.RefreshToken(ctx, res.Token.RefreshToken)
	if winnerErr != nil || winner == nil {
		t.Fatalf("first refresh to revoke should succeed: %v", winnerErr)
	}
	if !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("losing refresh: got %v, want ErrTokenInvalid", err)
	}
	if _, err := svc.RefreshToken(ctx, winner.RefreshToken); err != nil {
		t.Fatalf("winner's token should stay usable: %v", err)
	}
}

func TestLogoutRevokes(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Logout(ctx, res.Token.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Logout(ctx, "unknown"); err != nil {
		t.Fatalf("logout of unknown token: %v", err)
	}
	if _, err := svc.RefreshToken(ctx, res.Token.RefreshToken); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Fatalf("refresh after logout: got %v", err)
	}
}

func TestProfileAndAdminFlag(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	session := auth.Session{ChampionID: res.Champion.ID, Email: res.Champion.Email}

	if _, err := svc.Me(ctx, auth.Session{}); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("me without session: got %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, session, &dto.UpdateProfileRequest{
		FirstName:     "Augusta",
		LastName:      "King",
		PrimarySector: "Energy",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Augusta" || updated.Organization != "" || updated.PrimarySector != "Energy" {
		t.Fatalf("profile fields not replaced: %+v", updated)
	}

	if err := svc.SetAdmin(ctx, "ada@example.org", true); err != nil {
		t.Fatalf("set admin: %v", err)
	}
	me, err := svc.Me(ctx, session)
	if err != nil || !me.IsAdmin {
		t.Fatalf("me after grant: %+v, %v", me, err)
	}
	if err := svc.SetAdmin(ctx, "ghost@example.org", true); !errors.Is(err, apperrors.ErrChampionNotFound) {
		t.Fatalf("grant to unknown: got %v", err)
	}
}
