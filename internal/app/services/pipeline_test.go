package services

import (
	"context"
	"testing"

	"github.com/yigit/esgchampions/internal/app/models"
)

func TestSubmitAcceptRank(t *testing.T) {
	f := newModerationFixture()
	ctx := context.Background()
	rankings := NewRankingService(f.store, &memCache{}, testLogger)

	// the ranking service is the invalidator in production
	f.submission = NewSubmissionService(f.store, rankings, testLogger)
	f.moderation = NewModerationService(f.store, f.store, adminGate{"admin": true}, rankings, testLogger)

	before, err := rankings.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(before.All) != 0 {
		t.Fatalf("expected empty leaderboard, got %d", len(before.All))
	}

	rv := f.submit(t, "c2", ReviewInput{IndicatorID: "1-1", Necessary: "yes", Rating: 5, Comments: "core metric"})[0]
	if rv.Status != models.ReviewStatusPending {
		t.Fatalf("new review status: %s", rv.Status)
	}

	pending, _ := rankings.Summary(ctx)
	if len(pending.All) != 0 {
		t.Fatalf("pending reviews must not rank")
	}

	if _, err := f.moderation.Accept(ctx, adminSession, rv.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	after, err := rankings.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(after.All) != 1 {
		t.Fatalf("expected one ranked champion, got %d", len(after.All))
	}
	r := after.All[0]
	if r.ChampionID != "c2" || r.TotalScore != 120 || r.AvgScore != 120 {
		t.Fatalf("ranking: %+v", r)
	}
	if r.Environmental.Score != 120 || len(after.Environmental) != 1 || len(after.Social) != 0 {
		t.Fatalf("category views: %+v", after)
	}
	if r.Name != "Grace Hopper" {
		t.Fatalf("name: %q", r.Name)
	}

	// resubmitting withdraws the accepted review from the leaderboard
	f.submit(t, "c2", ReviewInput{IndicatorID: "1-1", Necessary: "no", Rating: 1})
	withdrawn, _ := rankings.Summary(ctx)
	if len(withdrawn.All) != 0 {
		t.Fatalf("withdrawn review still ranked: %+v", withdrawn.All)
	}

	my, err := f.store.GetForChampion(ctx, "c2", "1-1")
	if err != nil || my.Status != models.ReviewStatusPending {
		t.Fatalf("resubmitted review: %+v, %v", my, err)
	}
}
