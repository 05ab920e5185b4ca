package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/app/models/dto"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/auth"
)

// memEngagement stores votes, comments and invitations against a memStore catalog
type memEngagement struct {
	mu          sync.Mutex
	catalog     *memStore
	votes       map[string]*models.Vote
	comments    []*models.Comment
	invitations []*models.Invitation
	fail        bool
}

func newMemEngagement(catalog *memStore) *memEngagement {
	return &memEngagement{catalog: catalog, votes: map[string]*models.Vote{}}
}

func (m *memEngagement) Upsert(_ context.Context, v *models.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.catalog.indicators[v.IndicatorID]; !ok {
		return apperrors.ErrIndicatorNotFound
	}
	key := v.ChampionID + "|" + v.IndicatorID
	if existing, ok := m.votes[key]; ok {
		v.ID = existing.ID
	}
	cp := *v
	m.votes[key] = &cp
	return nil
}

func (m *memEngagement) Tally(_ context.Context, indicatorID string) (models.VoteTally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return models.VoteTally{}, errStoreDown
	}
	var t models.VoteTally
	for _, v := range m.votes {
		if v.IndicatorID != indicatorID {
			continue
		}
		t.Total++
		if v.Vote == "yes" {
			t.Yes++
		} else {
			t.No++
		}
	}
	return t, nil
}

func (m *memEngagement) GetVote(_ context.Context, championID, indicatorID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.votes[championID+"|"+indicatorID]; ok {
		return v.Vote, nil
	}
	return "", nil
}

// activity collects the entries emitted by each into Activity rows
func (m *memEngagement) activity(each func(emit func(indicatorID string, createdAt time.Time))) []models.Activity {
	out := make([]models.Activity, 0)
	each(func(indicatorID string, createdAt time.Time) {
		out = append(out, models.Activity{
			IndicatorID: indicatorID,
			PanelID:     m.catalog.indicators[indicatorID].PanelID,
			CreatedAt:   createdAt,
		})
	})
	return out
}

type voteStore struct{ *memEngagement }

func (v voteStore) Activity(_ context.Context, championID string) ([]models.Activity, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.fail {
		return nil, errStoreDown
	}
	return v.activity(func(emit func(string, time.Time)) {
		for _, vote := range v.votes {
			if vote.ChampionID == championID {
				emit(vote.IndicatorID, vote.CreatedAt)
			}
		}
	}), nil
}

func (v voteStore) CountSince(_ context.Context, championID string, since time.Time) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, vote := range v.votes {
		if vote.ChampionID == championID && !vote.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type commentStore struct{ *memEngagement }

func (c commentStore) Create(_ context.Context, cm *models.Comment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.catalog.indicators[cm.IndicatorID]; !ok {
		return apperrors.ErrIndicatorNotFound
	}
	cp := *cm
	c.comments = append(c.comments, &cp)
	return nil
}

func (c commentStore) ListByIndicator(_ context.Context, indicatorID string) ([]*models.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return nil, errStoreDown
	}
	out := make([]*models.Comment, 0)
	for _, cm := range c.comments {
		if cm.IndicatorID == indicatorID {
			out = append(out, cm)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (c commentStore) Activity(_ context.Context, championID string) ([]models.Activity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return nil, errStoreDown
	}
	return c.activity(func(emit func(string, time.Time)) {
		for _, cm := range c.comments {
			if cm.ChampionID == championID {
				emit(cm.IndicatorID, cm.CreatedAt)
			}
		}
	}), nil
}

func (c commentStore) CountSince(_ context.Context, championID string, since time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, cm := range c.comments {
		if cm.ChampionID == championID && !cm.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type invitationStore struct{ *memEngagement }

func (s invitationStore) Create(_ context.Context, inv *models.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *inv
	s.invitations = append(s.invitations, &cp)
	return nil
}

func (s invitationStore) ListForEmail(_ context.Context, address string) ([]*models.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	out := make([]*models.Invitation, 0)
	for _, inv := range s.invitations {
		if inv.ToEmail == address {
			out = append(out, inv)
		}
	}
	return out, nil
}

type engagementFixture struct {
	store  *memStore
	data   *memEngagement
	mailer *recordingMailer
	svc    *engagementServiceImpl
	clock  time.Time
}

func newEngagementFixture() *engagementFixture {
	store := newMemStore()
	store.addChampion(&models.Champion{ID: "c1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org"})
	data := newMemEngagement(store)
	mailer := &recordingMailer{}

	f := &engagementFixture{
		store:  store,
		data:   data,
		mailer: mailer,
		clock:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	svc := NewEngagementService(EngagementDeps{
		Votes:       voteStore{data},
		Comments:    commentStore{data},
		Invitations: invitationStore{data},
		Reviews:     store,
		Panels:      panelStore{store},
		Champions:   championStore{store},
		Mailer:      mailer,
	}, testLogger).(*engagementServiceImpl)
	svc.now = func() time.Time { return f.clock }
	f.svc = svc
	return f
}

func (f *engagementFixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

var ada = auth.Session{ChampionID: "c1", Email: "ada@example.org"}

func TestCastVoteReplacesEarlierVote(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	if _, err := f.svc.CastVote(ctx, ada, "1-1", "yes"); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if _, err := f.svc.CastVote(ctx, ada, "1-1", "NO"); err != nil {
		t.Fatalf("revote: %v", err)
	}
	if _, err := f.svc.CastVote(ctx, auth.Session{ChampionID: "c2"}, "1-1", "yes"); err != nil {
		t.Fatalf("second champion: %v", err)
	}

	got := f.svc.Votes(ctx, ada, "1-1")
	want := models.VoteTally{Yes: 1, No: 1, Total: 2}
	if got.VoteTally != want || got.MyVote != "no" {
		t.Fatalf("votes: got=%+v", got)
	}
}

func TestCastVoteValidation(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	if _, err := f.svc.CastVote(ctx, ada, "1-1", "maybe"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("bad vote: got %v", err)
	}
	if _, err := f.svc.CastVote(ctx, auth.Session{}, "1-1", "yes"); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("no session: got %v", err)
	}
	if _, err := f.svc.CastVote(ctx, ada, "nope", "yes"); !errors.Is(err, apperrors.ErrIndicatorNotFound) {
		t.Fatalf("unknown indicator: got %v", err)
	}
}

func TestCommentsNewestFirst(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	if _, err := f.svc.AddComment(ctx, ada, "1-1", "first"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	f.advance(time.Minute)
	if _, err := f.svc.AddComment(ctx, ada, "1-1", "  second  "); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := f.svc.AddComment(ctx, ada, "1-1", "   "); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("blank comment: got %v", err)
	}

	got := f.svc.Comments(ctx, "1-1")
	if len(got) != 2 || got[0].Comment != "second" || got[1].Comment != "first" {
		t.Fatalf("comments: %+v", got)
	}
}

func TestEngagementReadsDegrade(t *testing.T) {
	f := newEngagementFixture()
	f.data.fail = true
	ctx := context.Background()

	if got := f.svc.Comments(ctx, "1-1"); got == nil || len(got) != 0 {
		t.Fatalf("comments: %v", got)
	}
	if got := f.svc.Votes(ctx, ada, "1-1"); got.Total != 0 {
		t.Fatalf("votes: %+v", got)
	}
	if got := f.svc.Invitations(ctx, ada); got == nil || len(got) != 0 {
		t.Fatalf("invitations: %v", got)
	}
	if got := f.svc.Participation(ctx, ada); got == nil || len(got) != 0 {
		t.Fatalf("participation: %v", got)
	}
}

func TestInviteStoresAndEmails(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	inv, err := f.svc.Invite(ctx, ada, &dto.InvitationRequest{ToEmail: " Peer@Example.org ", PanelID: "2", Message: "join us"})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if inv.Status != models.InvitationPending || inv.ToEmail != "peer@example.org" || inv.FromChampionID != "c1" {
		t.Fatalf("invitation: %+v", inv)
	}
	if len(f.mailer.invitations) != 1 {
		t.Fatalf("expected one email, got %d", len(f.mailer.invitations))
	}
	sent := f.mailer.invitations[0]
	if sent.PanelTitle != "Workforce" || sent.FromName != "Ada Lovelace" {
		t.Fatalf("email: %+v", sent)
	}

	peer := auth.Session{ChampionID: "c9", Email: "peer@example.org"}
	if got := f.svc.Invitations(ctx, peer); len(got) != 1 {
		t.Fatalf("invitations for peer: %d", len(got))
	}

	if _, err := f.svc.Invite(ctx, ada, &dto.InvitationRequest{ToEmail: "x@example.org", PanelID: "404"}); !errors.Is(err, apperrors.ErrPanelNotFound) {
		t.Fatalf("unknown panel: got %v", err)
	}
}

func TestParticipationSortedByLastActivity(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	mustVote := func(indicator string) {
		t.Helper()
		if _, err := f.svc.CastVote(ctx, ada, indicator, "yes"); err != nil {
			t.Fatalf("vote: %v", err)
		}
	}
	mustVote("1-1")
	f.advance(time.Hour)
	mustVote("2-1")
	f.advance(time.Hour)
	if _, err := f.svc.AddComment(ctx, ada, "1-2", "note"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	got := f.svc.Participation(ctx, ada)
	if len(got) != 2 {
		t.Fatalf("expected two panels, got %d", len(got))
	}
	if got[0].Panel.ID != "1" || got[0].VotesCount != 1 || got[0].CommentsCount != 1 {
		t.Fatalf("first panel: %+v", got[0])
	}
	if got[1].Panel.ID != "2" || got[1].VotesCount != 1 || got[1].CommentsCount != 0 {
		t.Fatalf("second panel: %+v", got[1])
	}
	if !got[0].LastActivity.Equal(f.clock) {
		t.Fatalf("last activity: %v", got[0].LastActivity)
	}
}

func TestWeeklyCredits(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	if _, err := f.svc.CastVote(ctx, ada, "3-1", "no"); err != nil {
		t.Fatalf("vote: %v", err)
	}
	f.advance(8 * 24 * time.Hour)
	if _, err := f.svc.CastVote(ctx, ada, "1-1", "yes"); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if _, err := f.svc.AddComment(ctx, ada, "1-1", "a"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := f.svc.AddComment(ctx, ada, "2-1", "b"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	// the first vote is outside the window
	if got := f.svc.WeeklyCredits(ctx, ada); got != 1+2*2 {
		t.Fatalf("credits: got=%d want=5", got)
	}
	if got := f.svc.WeeklyCredits(ctx, auth.Session{}); got != 0 {
		t.Fatalf("anonymous credits: %d", got)
	}
}

func TestMyReview(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	if _, err := f.svc.MyReview(ctx, ada, "1-1"); !errors.Is(err, apperrors.ErrReviewNotFound) {
		t.Fatalf("missing review: got %v", err)
	}
	if _, err := f.store.SubmitBatch(ctx, "c1", []*models.Review{{IndicatorID: "1-1", Necessary: models.NecessityYes, Rating: 2}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	got, err := f.svc.MyReview(ctx, ada, "1-1")
	if err != nil || got.Rating != 2 {
		t.Fatalf("my review: %+v, %v", got, err)
	}
}
