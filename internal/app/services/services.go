// Package services holds the business rules of the review pipeline:
//   - AuthService: registration, login, token refresh and profile
//   - CatalogService: panels and indicators
//   - SubmissionService: batched review submission
//   - ModerationService: admin review list, accept and delete
//   - RankingService: leaderboard built from accepted reviews
//   - EngagementService: votes, comments, invitations and participation
package services

import (
	"context"
	"time"

	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/auth"
)

// ChampionStore persists champions
type ChampionStore interface {
	Create(ctx context.Context, c *models.Champion) error
	GetByID(ctx context.Context, id string) (*models.Champion, error)
	GetByEmail(ctx context.Context, email string) (*models.Champion, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, c *models.Champion) error
	SetAdmin(ctx context.Context, email string, isAdmin bool) error
}

// TokenStore persists refresh tokens
type TokenStore interface {
	CreateToken(ctx context.Context, token, championID string, expiryDate time.Time) error
	GetChampionIDByToken(ctx context.Context, token string) (string, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllChampionTokens(ctx context.Context, championID string) error
}

// PanelStore persists panels
type PanelStore interface {
	List(ctx context.Context, category models.Category) ([]*models.Panel, error)
	GetByID(ctx context.Context, id string) (*models.Panel, error)
	Create(ctx context.Context, p *models.Panel) error
	Update(ctx context.Context, p *models.Panel) error
	Delete(ctx context.Context, id string) error
	InsertIfMissing(ctx context.Context, panels []*models.Panel) (int64, error)
}

// IndicatorStore persists indicators
type IndicatorStore interface {
	ListByPanel(ctx context.Context, panelID string) ([]*models.Indicator, error)
	GetByID(ctx context.Context, id string) (*models.Indicator, error)
	Create(ctx context.Context, i *models.Indicator) error
	Update(ctx context.Context, i *models.Indicator) error
	Delete(ctx context.Context, id string) error
	InsertIfMissing(ctx context.Context, indicators []*models.Indicator) (int64, error)
}

// ReviewStore persists reviews
type ReviewStore interface {
	// SubmitBatch upserts all reviews atomically and returns how many
	// accepted reviews were withdrawn by the resubmission
	SubmitBatch(ctx context.Context, championID string, reviews []*models.Review) (int64, error)
	List(ctx context.Context, filter models.ReviewFilter) ([]*models.ReviewDetail, error)
	Stats(ctx context.Context) (models.ReviewStats, error)
	GetForChampion(ctx context.Context, championID, indicatorID string) (*models.Review, error)
}

// ModerationStore runs review transitions and reads their results
type ModerationStore interface {
	AcceptReview(ctx context.Context, reviewID, adminID string) (*models.AcceptedReview, error)
	DeleteReview(ctx context.Context, reviewID, adminID, notes string) error
	AcceptedReviews(ctx context.Context, panelID, indicatorID string) ([]*models.AcceptedReview, error)
	AdminActions(ctx context.Context, limit int) ([]*models.AdminAction, error)
	RankingInputs(ctx context.Context) ([]models.RankingInput, error)
}

// VoteStore persists votes
type VoteStore interface {
	Upsert(ctx context.Context, v *models.Vote) error
	Tally(ctx context.Context, indicatorID string) (models.VoteTally, error)
	GetVote(ctx context.Context, championID, indicatorID string) (string, error)
	Activity(ctx context.Context, championID string) ([]models.Activity, error)
	CountSince(ctx context.Context, championID string, since time.Time) (int, error)
}

// CommentStore persists comments
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByIndicator(ctx context.Context, indicatorID string) ([]*models.Comment, error)
	Activity(ctx context.Context, championID string) ([]models.Activity, error)
	CountSince(ctx context.Context, championID string, since time.Time) (int, error)
}

// InvitationStore persists invitations
type InvitationStore interface {
	Create(ctx context.Context, inv *models.Invitation) error
	ListForEmail(ctx context.Context, email string) ([]*models.Invitation, error)
}

// AdminGate authorizes admin-only operations
type AdminGate interface {
	RequireAdmin(ctx context.Context, session auth.Session) error
}

// RankingInvalidator drops any cached ranking
type RankingInvalidator interface {
	Invalidate(ctx context.Context) error
}
