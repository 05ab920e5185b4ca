package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/auth"
)

var adminSession = auth.Session{ChampionID: "admin", Email: "admin@example.org"}

type moderationFixture struct {
	store      *memStore
	submission SubmissionService
	moderation ModerationService
	invalidate *countingInvalidator
}

func newModerationFixture() *moderationFixture {
	store := newMemStore()
	store.addChampion(&models.Champion{ID: "admin", FirstName: "Root", LastName: "Admin", IsAdmin: true})
	store.addChampion(&models.Champion{ID: "c1", FirstName: "Ada", LastName: "Lovelace", Organization: "Analytical Ltd"})
	store.addChampion(&models.Champion{ID: "c2", FirstName: "Grace", LastName: "Hopper"})

	inv := &countingInvalidator{}
	return &moderationFixture{
		store:      store,
		submission: NewSubmissionService(store, inv, testLogger),
		moderation: NewModerationService(store, store, adminGate{"admin": true}, inv, testLogger),
		invalidate: inv,
	}
}

func (f *moderationFixture) submit(t *testing.T, championID string, inputs ...ReviewInput) []*models.Review {
	t.Helper()
	res, err := f.submission.Submit(context.Background(), auth.Session{ChampionID: championID}, inputs)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return res.Reviews
}

func TestDoubleAcceptConflicts(t *testing.T) {
	f := newModerationFixture()
	ctx := context.Background()
	rv := f.submit(t, "c1", ReviewInput{IndicatorID: "1-1", Necessary: "yes", Rating: 4})[0]

	accepted, err := f.moderation.Accept(ctx, adminSession, rv.ID)
	if err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if accepted.ReviewID != rv.ID || accepted.AcceptedBy != "admin" || accepted.PanelID != "1" {
		t.Fatalf("unexpected accepted review: %+v", accepted)
	}

	_, err = f.moderation.Accept(ctx, adminSession, rv.ID)
	if !errors.Is(err, apperrors.ErrReviewNotPending) {
		t.Fatalf("second accept: got %v, want ErrReviewNotPending", err)
	}
	if got := f.moderation.AcceptedReviews(ctx, "", ""); len(got) != 1 {
		t.Fatalf("expected exactly one accepted review, got %d", len(got))
	}
	if f.invalidate.calls != 1 {
		t.Fatalf("invalidations: got=%d want=1", f.invalidate.calls)
	}
}

func TestDeleteThenAcceptConflicts(t *testing.T) {
	f := newModerationFixture()
	ctx := context.Background()
	rv := f.submit(t, "c1", ReviewInput{IndicatorID: "1-1", Necessary: "no", Rating: 1})[0]

	if err := f.moderation.Delete(ctx, adminSession, rv.ID, "  spam  "); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.moderation.Accept(ctx, adminSession, rv.ID); !errors.Is(err, apperrors.ErrReviewNotPending) {
		t.Fatalf("accept after delete: got %v", err)
	}
	if err := f.moderation.Delete(ctx, adminSession, rv.ID, ""); !errors.Is(err, apperrors.ErrReviewNotPending) {
		t.Fatalf("second delete: got %v", err)
	}

	actions := f.moderation.AdminActions(ctx, 0)
	if len(actions) != 1 || actions[0].Action != models.AdminActionDelete || actions[0].Notes != "spam" {
		t.Fatalf("unexpected admin actions: %+v", actions)
	}
}

func TestAcceptUnknownOrMalformedReview(t *testing.T) {
	f := newModerationFixture()
	ctx := context.Background()

	for _, id := range []string{"not-a-uuid", "7b0c8d4e-3f7a-4b55-9d43-1b1a0c9e2f11"} {
		if _, err := f.moderation.Accept(ctx, adminSession, id); !errors.Is(err, apperrors.ErrReviewNotFound) {
			t.Fatalf("accept %q: got %v, want ErrReviewNotFound", id, err)
		}
	}
}

func TestModerationRequiresAdmin(t *testing.T) {
	f := newModerationFixture()
	ctx := context.Background()
	rv := f.submit(t, "c1", ReviewInput{IndicatorID: "1-1", Necessary: "yes", Rating: 4})[0]

	if _, err := f.moderation.Accept(ctx, auth.Session{}, rv.ID); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("no session: got %v", err)
	}
	if _, err := f.moderation.Accept(ctx, auth.Session{ChampionID: "c2"}, rv.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("non-admin accept: got %v", err)
	}
	if err := f.moderation.Delete(ctx, auth.Session{ChampionID: "c2"}, rv.ID, ""); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("non-admin delete: got %v", err)
	}
	if f.store.reviews[rv.ID].Status != models.ReviewStatusPending {
		t.Fatalf("review changed without admin rights")
	}
}

func TestListFilters(t *testing.T) {
	f := newModerationFixture()
	ctx := context.Background()

	env := f.submit(t, "c1",
		ReviewInput{IndicatorID: "1-1", Necessary: "yes", Rating: 4},
		ReviewInput{IndicatorID: "2-1", Necessary: "no", Rating: 2},
	)
	f.submit(t, "c2", ReviewInput{IndicatorID: "1-2", Necessary: "not-sure", Rating: 3})

	if _, err := f.moderation.Accept(ctx, adminSession, env[0].ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.moderation.Accept(ctx, adminSession, env[1].ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got, err := f.moderation.List(ctx, models.ReviewFilter{Status: "accepted", Category: "environmental"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != env[0].ID {
		t.Fatalf("expected only the accepted environmental review, got %d rows", len(got))
	}
	if got[0].Status != models.ReviewStatusAccepted || got[0].PanelCategory != models.CategoryEnvironmental {
		t.Fatalf("row does not match filter: %+v", got[0])
	}

	got, err = f.moderation.List(ctx, models.ReviewFilter{Status: "deleted", Category: "governance"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}

	got, err = f.moderation.List(ctx, models.ReviewFilter{Search: "grace"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ChampionID != "c2" {
		t.Fatalf("search by champion name: got %d rows", len(got))
	}

	got, err = f.moderation.List(ctx, models.ReviewFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("unfiltered list: got %d rows, want 3", len(got))
	}
}

func TestListRejectsUnknownFilterValues(t *testing.T) {
	f := newModerationFixture()

	_, err := f.moderation.List(context.Background(), models.ReviewFilter{Status: "archived"})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestReadPathsDegradeToEmpty(t *testing.T) {
	f := newModerationFixture()
	f.store.failReads = true
	ctx := context.Background()

	got, err := f.moderation.List(ctx, models.ReviewFilter{})
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("list: got=%v err=%v", got, err)
	}
	if st := f.moderation.Stats(ctx); st != (models.ReviewStats{}) {
		t.Fatalf("stats: got %+v", st)
	}
	if a := f.moderation.AcceptedReviews(ctx, "", ""); a == nil || len(a) != 0 {
		t.Fatalf("accepted: got %v", a)
	}
	if a := f.moderation.AdminActions(ctx, 10); a == nil || len(a) != 0 {
		t.Fatalf("actions: got %v", a)
	}
}

func TestStatsCountsByStatus(t *testing.T) {
	f := newModerationFixture()
	ctx := context.Background()
	rv := f.submit(t, "c1",
		ReviewInput{IndicatorID: "1-1", Necessary: "yes", Rating: 4},
		ReviewInput{IndicatorID: "1-2", Necessary: "yes", Rating: 4},
		ReviewInput{IndicatorID: "3-1", Necessary: "yes", Rating: 4},
	)
	if _, err := f.moderation.Accept(ctx, adminSession, rv[0].ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := f.moderation.Delete(ctx, adminSession, rv[1].ID, ""); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := models.ReviewStats{Total: 3, Pending: 1, Accepted: 1, Deleted: 1}
	if got := f.moderation.Stats(ctx); got != want {
		t.Fatalf("stats: got=%+v want=%+v", got, want)
	}
}

func TestValidateFilterDefaults(t *testing.T) {
	got, err := ValidateFilter(models.ReviewFilter{Status: " Pending ", Search: "  ada "})
	if err != nil {
		t.Fatalf("ValidateFilter: %v", err)
	}
	want := models.ReviewFilter{Status: "pending", Category: models.FilterAll, Search: "ada"}
	if got != want {
		t.Fatalf("got=%+v want=%+v", got, want)
	}
}
