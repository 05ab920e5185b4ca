package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/app/models/dto"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/auth"
	"github.com/yigit/esgchampions/internal/pkg/email"
	"golang.org/x/sync/errgroup"
)

// Weekly credit weights
const (
	VoteCredits    = 1
	CommentCredits = 2
	CreditsWindow  = 7 * 24 * time.Hour
)

// EngagementService defines the interface for votes, comments, invitations
// and participation history
type EngagementService interface {
	CastVote(ctx context.Context, session auth.Session, indicatorID, vote string) (*models.Vote, error)
	Votes(ctx context.Context, session auth.Session, indicatorID string) *dto.VoteSummaryResponse
	AddComment(ctx context.Context, session auth.Session, indicatorID, comment string) (*models.Comment, error)
	Comments(ctx context.Context, indicatorID string) []*models.Comment
	MyReview(ctx context.Context, session auth.Session, indicatorID string) (*models.Review, error)
	Invite(ctx context.Context, session auth.Session, req *dto.InvitationRequest) (*models.Invitation, error)
	Invitations(ctx context.Context, session auth.Session) []*models.Invitation
	Participation(ctx context.Context, session auth.Session) []*models.PanelParticipation
	WeeklyCredits(ctx context.Context, session auth.Session) int
}

type engagementServiceImpl struct {
	votes       VoteStore
	comments    CommentStore
	invitations InvitationStore
	reviews     ReviewStore
	panels      PanelStore
	champions   ChampionStore
	mailer      email.EmailService
	logger      zerolog.Logger
	now         func() time.Time
}

// EngagementDeps groups the stores the engagement service reads and writes
type EngagementDeps struct {
	Votes       VoteStore
	Comments    CommentStore
	Invitations InvitationStore
	Reviews     ReviewStore
	Panels      PanelStore
	Champions   ChampionStore
	Mailer      email.EmailService
}

// NewEngagementService creates a new engagement service
func NewEngagementService(deps EngagementDeps, logger zerolog.Logger) EngagementService {
	return &engagementServiceImpl{
		votes:       deps.Votes,
		comments:    deps.Comments,
		invitations: deps.Invitations,
		reviews:     deps.Reviews,
		panels:      deps.Panels,
		champions:   deps.Champions,
		mailer:      deps.Mailer,
		logger:      logger.With().Str("service", "engagement").Logger(),
		now:         time.Now,
	}
}

func requireSession(session auth.Session) error {
	if !session.Valid() {
		return apperrors.NewNotAuthenticatedError("Please log in to continue")
	}
	return nil
}

// CastVote stores the champion's vote on an indicator, replacing an earlier one
func (s *engagementServiceImpl) CastVote(ctx context.Context, session auth.Session, indicatorID, vote string) (*models.Vote, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	vote = strings.ToLower(strings.TrimSpace(vote))
	if vote != "yes" && vote != "no" {
		return nil, apperrors.NewValidationError("Vote must be yes or no").
			WithDetails(map[string]interface{}{"vote": vote})
	}

	v := &models.Vote{
		ID:          uuid.NewString(),
		ChampionID:  session.ChampionID,
		IndicatorID: strings.TrimSpace(indicatorID),
		Vote:        vote,
		CreatedAt:   s.now(),
	}
	if err := s.votes.Upsert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Votes returns the tally on an indicator plus the caller's own vote, if any
func (s *engagementServiceImpl) Votes(ctx context.Context, session auth.Session, indicatorID string) *dto.VoteSummaryResponse {
	indicatorID = strings.TrimSpace(indicatorID)
	out := &dto.VoteSummaryResponse{}

	tally, err := s.votes.Tally(ctx, indicatorID)
	if err != nil {
		s.logger.Error().Err(err).Str("indicatorID", indicatorID).Msg("Error loading vote tally")
		return out
	}
	out.VoteTally = tally

	if session.Valid() {
		mine, err := s.votes.GetVote(ctx, session.ChampionID, indicatorID)
		if err != nil {
			s.logger.Warn().Err(err).Str("indicatorID", indicatorID).Msg("Error loading own vote")
		}
		out.MyVote = mine
	}
	return out
}

func (s *engagementServiceImpl) AddComment(ctx context.Context, session auth.Session, indicatorID, comment string) (*models.Comment, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, apperrors.NewValidationError("Comment cannot be empty")
	}

	c := &models.Comment{
		ID:          uuid.NewString(),
		ChampionID:  session.ChampionID,
		IndicatorID: strings.TrimSpace(indicatorID),
		Comment:     comment,
		CreatedAt:   s.now(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Comments lists an indicator's comments newest first
func (s *engagementServiceImpl) Comments(ctx context.Context, indicatorID string) []*models.Comment {
	out, err := s.comments.ListByIndicator(ctx, strings.TrimSpace(indicatorID))
	if err != nil || out == nil {
		if err != nil {
			s.logger.Error().Err(err).Str("indicatorID", indicatorID).Msg("Error loading comments")
		}
		return []*models.Comment{}
	}
	return out
}

func (s *engagementServiceImpl) MyReview(ctx context.Context, session auth.Session, indicatorID string) (*models.Review, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	return s.reviews.GetForChampion(ctx, session.ChampionID, strings.TrimSpace(indicatorID))
}

// Invite records a pending invitation and emails the invitee. A failed email
// does not undo the invitation.
func (s *engagementServiceImpl) Invite(ctx context.Context, session auth.Session, req *dto.InvitationRequest) (*models.Invitation, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	panel, err := s.panels.GetByID(ctx, strings.TrimSpace(req.PanelID))
	if err != nil {
		return nil, err
	}

	inv := &models.Invitation{
		ID:             uuid.NewString(),
		FromChampionID: session.ChampionID,
		ToEmail:        strings.ToLower(strings.TrimSpace(req.ToEmail)),
		PanelID:        panel.ID,
		Message:        strings.TrimSpace(req.Message),
		Status:         models.InvitationPending,
		CreatedAt:      s.now(),
	}
	if err := validateEmail(inv.ToEmail); err != nil {
		return nil, err
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}

	fromName := session.Email
	if champion, err := s.champions.GetByID(ctx, session.ChampionID); err == nil {
		fromName = champion.FullName()
	}

	err = s.mailer.SendInvitationEmail(email.Invitation{
		ToEmail:    inv.ToEmail,
		FromName:   fromName,
		PanelID:    panel.ID,
		PanelTitle: panel.Title,
		Message:    inv.Message,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("invitationID", inv.ID).Msg("Invitation email failed")
	}
	return inv, nil
}

// Invitations lists invitations addressed to the caller's email
func (s *engagementServiceImpl) Invitations(ctx context.Context, session auth.Session) []*models.Invitation {
	if !session.Valid() || session.Email == "" {
		return []*models.Invitation{}
	}
	out, err := s.invitations.ListForEmail(ctx, session.Email)
	if err != nil || out == nil {
		if err != nil {
			s.logger.Error().Err(err).Msg("Error loading invitations")
		}
		return []*models.Invitation{}
	}
	return out
}

// Participation summarizes the caller's votes and comments per panel, most
// recently active panel first
func (s *engagementServiceImpl) Participation(ctx context.Context, session auth.Session) []*models.PanelParticipation {
	if !session.Valid() {
		return []*models.PanelParticipation{}
	}

	var votes, comments []models.Activity
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		votes, err = s.votes.Activity(gctx, session.ChampionID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.comments.Activity(gctx, session.ChampionID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("championID", session.ChampionID).Msg("Error loading participation")
		return []*models.PanelParticipation{}
	}

	byPanel := map[string]*models.PanelParticipation{}
	order := make([]string, 0)
	touch := func(a models.Activity) *models.PanelParticipation {
		p, ok := byPanel[a.PanelID]
		if !ok {
			p = &models.PanelParticipation{}
			byPanel[a.PanelID] = p
			order = append(order, a.PanelID)
		}
		if p.LastActivity == nil || a.CreatedAt.After(*p.LastActivity) {
			t := a.CreatedAt
			p.LastActivity = &t
		}
		return p
	}
	for _, a := range votes {
		touch(a).VotesCount++
	}
	for _, a := range comments {
		touch(a).CommentsCount++
	}

	out := make([]*models.PanelParticipation, 0, len(order))
	for _, panelID := range order {
		panel, err := s.panels.GetByID(ctx, panelID)
		if err != nil {
			s.logger.Warn().Err(err).Str("panelID", panelID).Msg("Skipping participation for missing panel")
			continue
		}
		p := byPanel[panelID]
		p.Panel = panel
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastActivity, out[j].LastActivity
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
	return out
}

// WeeklyCredits counts engagement in the last seven days
func (s *engagementServiceImpl) WeeklyCredits(ctx context.Context, session auth.Session) int {
	if !session.Valid() {
		return 0
	}
	since := s.now().Add(-CreditsWindow)

	var votes, comments int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		votes, err = s.votes.CountSince(gctx, session.ChampionID, since)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.comments.CountSince(gctx, session.ChampionID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("championID", session.ChampionID).Msg("Error counting credits")
		return 0
	}
	return votes*VoteCredits + comments*CommentCredits
}
