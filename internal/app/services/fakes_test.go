package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/auth"
	"github.com/yigit/esgchampions/internal/pkg/email"
)

var testLogger = zerolog.Nop()

// memStore keeps reviews, accepted reviews and admin actions in memory and
// applies the same guarded transitions as the database procedures
type memStore struct {
	mu         sync.Mutex
	champions  map[string]*models.Champion
	panels     map[string]*models.Panel
	indicators map[string]*models.Indicator
	reviews    map[string]*models.Review
	accepted   map[string]*models.AcceptedReview
	actions    []*models.AdminAction
	writes     int
	clock      time.Time
	failReads  bool
}

func newMemStore() *memStore {
	s := &memStore{
		champions:  map[string]*models.Champion{},
		panels:     map[string]*models.Panel{},
		indicators: map[string]*models.Indicator{},
		reviews:    map[string]*models.Review{},
		accepted:   map[string]*models.AcceptedReview{},
		clock:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	s.addPanel("1", "Climate", models.CategoryEnvironmental, "1-1", "1-2")
	s.addPanel("2", "Workforce", models.CategorySocial, "2-1")
	s.addPanel("3", "Board", models.CategoryGovernance, "3-1")
	return s
}

func (s *memStore) addPanel(id, title string, c models.Category, indicators ...string) {
	s.panels[id] = &models.Panel{ID: id, Title: title, Category: c}
	for _, ind := range indicators {
		s.indicators[ind] = &models.Indicator{ID: ind, PanelID: id, Title: "Indicator " + ind}
	}
}

func (s *memStore) addChampion(c *models.Champion) {
	s.champions[c.ID] = c
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) findReview(championID, indicatorID string) *models.Review {
	for _, r := range s.reviews {
		if r.ChampionID == championID && r.IndicatorID == indicatorID {
			return r
		}
	}
	return nil
}

func (s *memStore) SubmitBatch(_ context.Context, championID string, reviews []*models.Review) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rv := range reviews {
		if _, ok := s.indicators[rv.IndicatorID]; !ok {
			return 0, apperrors.ErrIndicatorNotFound
		}
	}

	var withdrawn int64
	for _, rv := range reviews {
		now := s.tick()
		rv.ChampionID = championID
		rv.Status = models.ReviewStatusPending
		rv.UpdatedAt = now
		if existing := s.findReview(championID, rv.IndicatorID); existing != nil {
			rv.ID = existing.ID
			rv.CreatedAt = existing.CreatedAt
			if _, ok := s.accepted[existing.ID]; ok {
				delete(s.accepted, existing.ID)
				withdrawn++
			}
		} else {
			rv.ID = uuid.NewString()
			rv.CreatedAt = now
		}
		cp := *rv
		s.reviews[rv.ID] = &cp
		s.writes++
	}
	return withdrawn, nil
}

func (s *memStore) detail(r *models.Review) *models.ReviewDetail {
	d := &models.ReviewDetail{Review: *r}
	if c, ok := s.champions[r.ChampionID]; ok {
		d.ChampionFirstName = c.FirstName
		d.ChampionLastName = c.LastName
		d.ChampionEmail = c.Email
		d.ChampionOrganization = c.Organization
	}
	if ind, ok := s.indicators[r.IndicatorID]; ok {
		d.IndicatorTitle = ind.Title
		if p, ok := s.panels[ind.PanelID]; ok {
			d.PanelID = p.ID
			d.PanelTitle = p.Title
			d.PanelCategory = p.Category
		}
	}
	return d
}

func (s *memStore) List(_ context.Context, filter models.ReviewFilter) ([]*models.ReviewDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReads {
		return nil, errStoreDown
	}

	out := make([]*models.ReviewDetail, 0)
	for _, r := range s.reviews {
		d := s.detail(r)
		if filter.Status != models.FilterAll && string(d.Status) != filter.Status {
			continue
		}
		if filter.Category != models.FilterAll && string(d.PanelCategory) != filter.Category {
			continue
		}
		if filter.Search != "" {
			q := strings.ToLower(filter.Search)
			hay := strings.ToLower(d.ChampionFirstName + " " + d.ChampionLastName + " " + d.IndicatorTitle + " " + d.PanelTitle)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) Stats(_ context.Context) (models.ReviewStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReads {
		return models.ReviewStats{}, errStoreDown
	}

	var st models.ReviewStats
	for _, r := range s.reviews {
		st.Total++
		switch r.Status {
		case models.ReviewStatusPending:
			st.Pending++
		case models.ReviewStatusAccepted:
			st.Accepted++
		case models.ReviewStatusDeleted:
			st.Deleted++
		}
	}
	return st, nil
}

func (s *memStore) GetForChampion(_ context.Context, championID, indicatorID string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.findReview(championID, indicatorID); r != nil {
		cp := *r
		return &cp, nil
	}
	return nil, apperrors.ErrReviewNotFound
}

func (s *memStore) transition(reviewID string) (*models.Review, error) {
	r, ok := s.reviews[reviewID]
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrReviewNotFound, "review not found")
	}
	if r.Status != models.ReviewStatusPending {
		return nil, apperrors.NewCustomError(apperrors.ErrReviewNotPending, "review is not pending")
	}
	return r, nil
}

func (s *memStore) AcceptReview(_ context.Context, reviewID, adminID string) (*models.AcceptedReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.transition(reviewID)
	if err != nil {
		return nil, err
	}
	now := s.tick()
	r.Status = models.ReviewStatusAccepted
	s.actions = append(s.actions, &models.AdminAction{
		ID: uuid.NewString(), AdminID: adminID, ReviewID: reviewID,
		Action: models.AdminActionAccept, CreatedAt: now,
	})
	a := &models.AcceptedReview{
		ID:          uuid.NewString(),
		ReviewID:    r.ID,
		ChampionID:  r.ChampionID,
		IndicatorID: r.IndicatorID,
		PanelID:     s.indicators[r.IndicatorID].PanelID,
		Rating:      r.Rating,
		Necessary:   r.Necessary,
		AcceptedBy:  adminID,
		AcceptedAt:  now,
	}
	s.accepted[r.ID] = a
	s.writes++
	return a, nil
}

func (s *memStore) DeleteReview(_ context.Context, reviewID, adminID, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.transition(reviewID)
	if err != nil {
		return err
	}
	r.Status = models.ReviewStatusDeleted
	s.actions = append(s.actions, &models.AdminAction{
		ID: uuid.NewString(), AdminID: adminID, ReviewID: reviewID,
		Action: models.AdminActionDelete, Notes: notes, CreatedAt: s.tick(),
	})
	s.writes++
	return nil
}

func (s *memStore) acceptedSorted() []*models.AcceptedReview {
	out := make([]*models.AcceptedReview, 0, len(s.accepted))
	for _, a := range s.accepted {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AcceptedAt.Before(out[j].AcceptedAt) })
	return out
}

func (s *memStore) AcceptedReviews(_ context.Context, panelID, indicatorID string) ([]*models.AcceptedReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReads {
		return nil, errStoreDown
	}

	out := make([]*models.AcceptedReview, 0)
	for _, a := range s.acceptedSorted() {
		if panelID != "" && a.PanelID != panelID {
			continue
		}
		if indicatorID != "" && a.IndicatorID != indicatorID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *memStore) AdminActions(_ context.Context, limit int) ([]*models.AdminAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReads {
		return nil, errStoreDown
	}

	out := make([]*models.AdminAction, 0, len(s.actions))
	for i := len(s.actions) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.actions[i])
	}
	return out, nil
}

func (s *memStore) RankingInputs(_ context.Context) ([]models.RankingInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReads {
		return nil, errStoreDown
	}

	out := make([]models.RankingInput, 0, len(s.accepted))
	for _, a := range s.acceptedSorted() {
		in := models.RankingInput{
			ChampionID: a.ChampionID,
			Rating:     a.Rating,
			Necessary:  a.Necessary,
		}
		if c, ok := s.champions[a.ChampionID]; ok {
			in.FirstName = c.FirstName
			in.LastName = c.LastName
			in.Organization = c.Organization
		}
		if p, ok := s.panels[a.PanelID]; ok {
			in.Category = p.Category
		}
		out = append(out, in)
	}
	return out, nil
}

var errStoreDown = errors.New("store unavailable")

// adminGate admits the listed champion ids
type adminGate map[string]bool

func (g adminGate) RequireAdmin(_ context.Context, session auth.Session) error {
	if !session.Valid() {
		return apperrors.NewNotAuthenticatedError("Please log in to continue")
	}
	if !g[session.ChampionID] {
		return apperrors.NewForbiddenError("Admin access required")
	}
	return nil
}

// countingInvalidator records cache invalidations
type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

// recordingMailer captures outgoing mail instead of sending it
type recordingMailer struct {
	invitations []email.Invitation
	welcomes    []string
}

func (m *recordingMailer) SendInvitationEmail(inv email.Invitation) error {
	m.invitations = append(m.invitations, inv)
	return nil
}

func (m *recordingMailer) SendWelcomeEmail(toEmail, _ string) error {
	m.welcomes = append(m.welcomes, toEmail)
	return nil
}

// panelStore exposes the memStore catalog as a PanelStore
type panelStore struct{ *memStore }

func (p panelStore) List(_ context.Context, category models.Category) ([]*models.Panel, error) {
	out := make([]*models.Panel, 0)
	for _, panel := range p.panels {
		if category == "" || panel.Category == category {
			out = append(out, panel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p panelStore) GetByID(_ context.Context, id string) (*models.Panel, error) {
	if panel, ok := p.panels[id]; ok {
		return panel, nil
	}
	return nil, apperrors.ErrPanelNotFound
}

func (p panelStore) Create(_ context.Context, panel *models.Panel) error {
	if _, ok := p.panels[panel.ID]; ok {
		return apperrors.ErrPanelAlreadyExists
	}
	p.panels[panel.ID] = panel
	return nil
}

func (p panelStore) Update(_ context.Context, panel *models.Panel) error {
	if _, ok := p.panels[panel.ID]; !ok {
		return apperrors.ErrPanelNotFound
	}
	p.panels[panel.ID] = panel
	return nil
}

func (p panelStore) Delete(_ context.Context, id string) error {
	if _, ok := p.panels[id]; !ok {
		return apperrors.ErrPanelNotFound
	}
	for _, ind := range p.indicators {
		if ind.PanelID == id {
			return apperrors.ErrPanelHasIndicators
		}
	}
	delete(p.panels, id)
	return nil
}

func (p panelStore) InsertIfMissing(_ context.Context, panels []*models.Panel) (int64, error) {
	var n int64
	for _, panel := range panels {
		if _, ok := p.panels[panel.ID]; !ok {
			p.panels[panel.ID] = panel
			n++
		}
	}
	return n, nil
}

// indicatorStore exposes the memStore catalog as an IndicatorStore
type indicatorStore struct{ *memStore }

func (s indicatorStore) ListByPanel(_ context.Context, panelID string) ([]*models.Indicator, error) {
	out := make([]*models.Indicator, 0)
	for _, ind := range s.indicators {
		if ind.PanelID == panelID {
			out = append(out, ind)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s indicatorStore) GetByID(_ context.Context, id string) (*models.Indicator, error) {
	if ind, ok := s.indicators[id]; ok {
		return ind, nil
	}
	return nil, apperrors.ErrIndicatorNotFound
}

func (s indicatorStore) Create(_ context.Context, ind *models.Indicator) error {
	if _, ok := s.panels[ind.PanelID]; !ok {
		return apperrors.ErrPanelNotFound
	}
	if _, ok := s.indicators[ind.ID]; ok {
		return apperrors.ErrIndicatorExists
	}
	s.indicators[ind.ID] = ind
	return nil
}

func (s indicatorStore) Update(_ context.Context, ind *models.Indicator) error {
	if _, ok := s.indicators[ind.ID]; !ok {
		return apperrors.ErrIndicatorNotFound
	}
	s.indicators[ind.ID] = ind
	return nil
}

func (s indicatorStore) Delete(_ context.Context, id string) error {
	if _, ok := s.indicators[id]; !ok {
		return apperrors.ErrIndicatorNotFound
	}
	for _, r := range s.reviews {
		if r.IndicatorID == id {
			return apperrors.ErrIndicatorReviewed
		}
	}
	delete(s.indicators, id)
	return nil
}

func (s indicatorStore) InsertIfMissing(_ context.Context, indicators []*models.Indicator) (int64, error) {
	var n int64
	for _, ind := range indicators {
		if _, ok := s.indicators[ind.ID]; !ok {
			s.indicators[ind.ID] = ind
			n++
		}
	}
	return n, nil
}

// championStore exposes memStore champions as a ChampionStore
type championStore struct{ *memStore }

func (s championStore) Create(_ context.Context, c *models.Champion) error {
	for _, existing := range s.champions {
		if existing.Email == c.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	cp := *c
	s.champions[c.ID] = &cp
	return nil
}

func (s championStore) GetByID(_ context.Context, id string) (*models.Champion, error) {
	if c, ok := s.champions[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, apperrors.ErrChampionNotFound
}

func (s championStore) GetByEmail(_ context.Context, address string) (*models.Champion, error) {
	for _, c := range s.champions {
		if strings.EqualFold(c.Email, address) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperrors.ErrChampionNotFound
}

func (s championStore) EmailExists(ctx context.Context, address string) (bool, error) {
	_, err := s.GetByEmail(ctx, address)
	return err == nil, nil
}

func (s championStore) UpdateProfile(_ context.Context, c *models.Champion) error {
	if _, ok := s.champions[c.ID]; !ok {
		return apperrors.ErrChampionNotFound
	}
	cp := *c
	s.champions[c.ID] = &cp
	return nil
}

func (s championStore) SetAdmin(_ context.Context, address string, isAdmin bool) error {
	for _, c := range s.champions {
		if strings.EqualFold(c.Email, address) {
			c.IsAdmin = isAdmin
			return nil
		}
	}
	return apperrors.ErrChampionNotFound
}

// memTokens is an in-memory refresh token table. afterLookup runs once
// after the next successful lookup.
type memTokens struct {
	tokens      map[string]string
	revoked     map[string]bool
	afterLookup func()
}

func newMemTokens() *memTokens {
	return &memTokens{tokens: map[string]string{}, revoked: map[string]bool{}}
}

func (m *memTokens) CreateToken(_ context.Context, token, championID string, _ time.Time) error {
	m.tokens[token] = championID
	return nil
}

func (m *memTokens) GetChampionIDByToken(_ context.Context, token string) (string, error) {
	id, ok := m.tokens[token]
	if !ok {
		return "", apperrors.ErrTokenNotFound
	}
	if m.revoked[token] {
		return "", apperrors.ErrTokenRevoked
	}
	if hook := m.afterLookup; hook != nil {
		m.afterLookup = nil
		hook()
	}
	return id, nil
}

// RevokeToken only flips active tokens, like the is_revoked guard in SQL
func (m *memTokens) RevokeToken(_ context.Context, token string) error {
	if _, ok := m.tokens[token]; !ok || m.revoked[token] {
		return apperrors.ErrTokenNotFound
	}
	m.revoked[token] = true
	return nil
}

func (m *memTokens) RevokeAllChampionTokens(_ context.Context, championID string) error {
	for token, id := range m.tokens {
		if id == championID {
			m.revoked[token] = true
		}
	}
	return nil
}
