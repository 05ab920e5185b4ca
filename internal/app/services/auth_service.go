package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/app/models/dto"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/auth"
	"github.com/yigit/esgchampions/internal/pkg/email"
	"github.com/yigit/esgchampions/internal/pkg/validation"
)

// AuthService defines the interface for champion identity operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, session auth.Session) (*models.Champion, error)
	UpdateProfile(ctx context.Context, session auth.Session, req *dto.UpdateProfileRequest) (*models.Champion, error)
	SetAdmin(ctx context.Context, email string, isAdmin bool) error
}

type authServiceImpl struct {
	champions  ChampionStore
	tokens     TokenStore
	jwtService *auth.JWTService
	mailer     email.EmailService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	champions ChampionStore,
	tokens TokenStore,
	jwtService *auth.JWTService,
	mailer email.EmailService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		champions:  champions,
		tokens:     tokens,
		jwtService: jwtService,
		mailer:     mailer,
		logger:     logger.With().Str("service", "auth").Logger(),
	}
}

func validateEmail(address string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}
	if !validation.IsValidEmail(address) {
		return fmt.Errorf("%w: %w", apperrors.ErrValidationFailed, apperrors.ErrInvalidEmail)
	}
	return nil
}

// validatePassword requires a minimum length plus at least one letter and one digit
func validatePassword(password string) error {
	if len(password) < validation.PasswordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters long",
			apperrors.ErrValidationFailed, validation.PasswordMinLength)
	}

	var hasLetter, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasLetter {
		return fmt.Errorf("%w: password must contain at least one letter", apperrors.ErrValidationFailed)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain at least one digit", apperrors.ErrValidationFailed)
	}
	return nil
}

func validateName(field, value string) error {
	ok := validation.NewStringValidation(strings.TrimSpace(value)).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).
		Validate()
	if !ok {
		return fmt.Errorf("%w: %s must be between %d and %d characters",
			apperrors.ErrValidationFailed, field, validation.NameMinLength, validation.NameMaxLength)
	}
	return nil
}

func cleanExpertise(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, e := range in {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Register creates a champion and signs them in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := validateName("first name", req.FirstName); err != nil {
		return nil, err
	}
	if err := validateName("last name", req.LastName); err != nil {
		return nil, err
	}

	exists, err := s.champions.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := time.Now()
	champion := &models.Champion{
		ID:            uuid.NewString(),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         req.Email,
		PasswordHash:  hash,
		Organization:  strings.TrimSpace(req.Organization),
		Role:          strings.TrimSpace(req.Role),
		Mobile:        strings.TrimSpace(req.Mobile),
		PrimarySector: strings.TrimSpace(req.PrimarySector),
		Expertise:     cleanExpertise(req.Expertise),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.champions.Create(ctx, champion); err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcomeEmail(champion.Email, champion.FullName()); err != nil {
		s.logger.Warn().Err(err).Str("championID", champion.ID).Msg("Welcome email failed")
	}

	s.logger.Info().Str("championID", champion.ID).Msg("Champion registered")
	return s.authResponse(ctx, champion)
}

// Login verifies credentials and issues a token pair
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}

	champion, err := s.champions.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrChampionNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(champion.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.authResponse(ctx, champion)
}

// RefreshToken rotates a refresh token; the old one cannot be reused
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	championID, err := s.tokens.GetChampionIDByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	champion, err := s.champions.GetByID(ctx, championID)
	if err != nil {
		if errors.Is(err, apperrors.ErrChampionNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}

	// a concurrent refresh that revoked it first wins
	if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return s.issueTokens(ctx, champion)
}

// Logout revokes a refresh token. Revoking an unknown token is not an error.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return err
	}
	return nil
}

func (s *authServiceImpl) Me(ctx context.Context, session auth.Session) (*models.Champion, error) {
	if !session.Valid() {
		return nil, apperrors.NewNotAuthenticatedError("Please log in to continue")
	}
	return s.champions.GetByID(ctx, session.ChampionID)
}

// UpdateProfile replaces the session champion's editable profile fields
func (s *authServiceImpl) UpdateProfile(ctx context.Context, session auth.Session, req *dto.UpdateProfileRequest) (*models.Champion, error) {
	champion, err := s.Me(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := validateName("first name", req.FirstName); err != nil {
		return nil, err
	}
	if err := validateName("last name", req.LastName); err != nil {
		return nil, err
	}

	champion.FirstName = strings.TrimSpace(req.FirstName)
	champion.LastName = strings.TrimSpace(req.LastName)
	champion.Organization = strings.TrimSpace(req.Organization)
	champion.Role = strings.TrimSpace(req.Role)
	champion.Mobile = strings.TrimSpace(req.Mobile)
	champion.PrimarySector = strings.TrimSpace(req.PrimarySector)
	champion.Expertise = cleanExpertise(req.Expertise)

	if err := s.champions.UpdateProfile(ctx, champion); err != nil {
		return nil, err
	}
	return s.champions.GetByID(ctx, champion.ID)
}

// SetAdmin grants or revokes admin rights by email
func (s *authServiceImpl) SetAdmin(ctx context.Context, address string, isAdmin bool) error {
	if err := validateEmail(address); err != nil {
		return err
	}
	if err := s.champions.SetAdmin(ctx, address, isAdmin); err != nil {
		return err
	}
	s.logger.Info().Str("email", address).Bool("isAdmin", isAdmin).Msg("Admin flag updated")
	return nil
}

func (s *authServiceImpl) authResponse(ctx context.Context, champion *models.Champion) (*dto.AuthResponse, error) {
	token, err := s.issueTokens(ctx, champion)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: *token, Champion: dto.FromChampion(champion)}, nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, champion *models.Champion) (*dto.TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(champion)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.CreateToken(ctx, pair.RefreshToken, champion.ID, pair.RefreshExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             pair.ExpiresIn,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: pair.RefreshExpiresIn,
	}, nil
}
