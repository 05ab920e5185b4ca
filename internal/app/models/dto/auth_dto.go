package dto

import (
	"time"

	"github.com/yigit/esgchampions/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RegisterRequest is the champion sign-up form
type RegisterRequest struct {
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,min=8"`
	FirstName     string   `json:"firstName" binding:"required,max=100"`
	LastName      string   `json:"lastName" binding:"required,max=100"`
	Organization  string   `json:"organization" binding:"max=200"`
	Role          string   `json:"role" binding:"max=100"`
	Mobile        string   `json:"mobile" binding:"max=50"`
	PrimarySector string   `json:"primarySector" binding:"max=100"`
	Expertise     []string `json:"expertise"`
}

// UpdateProfileRequest replaces the editable profile fields
type UpdateProfileRequest struct {
	FirstName     string   `json:"firstName" binding:"required,max=100"`
	LastName      string   `json:"lastName" binding:"required,max=100"`
	Organization  string   `json:"organization" binding:"max=200"`
	Role          string   `json:"role" binding:"max=100"`
	Mobile        string   `json:"mobile" binding:"max=50"`
	PrimarySector string   `json:"primarySector" binding:"max=100"`
	Expertise     []string `json:"expertise"`
}

// ChampionResponse is the public view of a champion
type ChampionResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Organization  string    `json:"organization,omitempty"`
	Role          string    `json:"role,omitempty"`
	Mobile        string    `json:"mobile,omitempty"`
	PrimarySector string    `json:"primarySector,omitempty"`
	Expertise     []string  `json:"expertise"`
	IsAdmin       bool      `json:"isAdmin"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token    TokenResponse     `json:"token"`
	Champion *ChampionResponse `json:"champion"`
}

// FromChampion converts a champion to its response
func FromChampion(c *models.Champion) *ChampionResponse {
	if c == nil {
		return nil
	}
	expertise := c.Expertise
	if expertise == nil {
		expertise = []string{}
	}
	return &ChampionResponse{
		ID:            c.ID,
		Email:         c.Email,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Organization:  c.Organization,
		Role:          c.Role,
		Mobile:        c.Mobile,
		PrimarySector: c.PrimarySector,
		Expertise:     expertise,
		IsAdmin:       c.IsAdmin,
		CreatedAt:     c.CreatedAt,
	}
}
