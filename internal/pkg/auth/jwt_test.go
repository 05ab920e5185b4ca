package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/esgchampions/internal/app/models"
)

func newTestJWT(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  exp,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "esg-champions-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWT(time.Minute)
	champion := &models.Champion{ID: "c-1", Email: "ada@example.org"}

	pair, err := svc.GenerateTokenPair(champion)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if pair.RefreshToken == "" || pair.ExpiresIn != 60 {
		t.Fatalf("unexpected pair: %+v", pair)
	}

	claims, err := svc.ValidateAndExtractClaims(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims: %v", err)
	}
	got := claims.Session()
	if got.ChampionID != "c-1" || got.Email != "ada@example.org" {
		t.Fatalf("session: got=%+v", got)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestJWT(-time.Minute)
	pair, err := svc.GenerateTokenPair(&models.Champion{ID: "c-1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if _, err := svc.ValidateToken(pair.AccessToken); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	pair, _ := newTestJWT(time.Minute).GenerateTokenPair(&models.Champion{ID: "c-1", Email: "a@b.c"})
	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Minute, TokenIssuer: "esg-champions-test"})
	if _, err := other.ValidateToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	if _, err := ExtractBearerToken(""); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	tok, err := ExtractBearerToken("Bearer abc")
	if err != nil || tok != "abc" {
		t.Fatalf("got %q, %v", tok, err)
	}
}

func TestSessionContext(t *testing.T) {
	if _, ok := SessionFrom(context.Background()); ok {
		t.Fatal("empty context must not carry a session")
	}
	ctx := WithSession(context.Background(), Session{ChampionID: "c-9"})
	s, ok := SessionFrom(ctx)
	if !ok || s.ChampionID != "c-9" {
		t.Fatalf("got %+v, %v", s, ok)
	}
	if _, ok := SessionFrom(WithSession(context.Background(), Session{})); ok {
		t.Fatal("empty session must be reported as absent")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	BcryptCost = 4
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "correct horse") || CheckPassword(hash, "wrong") {
		t.Fatal("password check mismatch")
	}
}
