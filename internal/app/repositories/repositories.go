package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	ChampionRepository   *ChampionRepository
	TokenRepository      *TokenRepository
	PanelRepository      *PanelRepository
	IndicatorRepository  *IndicatorRepository
	ReviewRepository     *ReviewRepository
	ModerationRepository *ModerationRepository
	VoteRepository       *VoteRepository
	CommentRepository    *CommentRepository
	InvitationRepository *InvitationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ChampionRepository:   NewChampionRepository(db),
		TokenRepository:      NewTokenRepository(db),
		PanelRepository:      NewPanelRepository(db),
		IndicatorRepository:  NewIndicatorRepository(db),
		ReviewRepository:     NewReviewRepository(db),
		ModerationRepository: NewModerationRepository(db),
		VoteRepository:       NewVoteRepository(db),
		CommentRepository:    NewCommentRepository(db),
		InvitationRepository: NewInvitationRepository(db),
	}
}
