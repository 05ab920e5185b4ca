package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/yigit/esgchampions/internal/app/models"
)

const (
	pointsPerRatingStar = 20
	necessaryBonus      = 20
	podiumSize          = 3
	unknownSector       = "N/A"
)

// ReviewScore is the contribution of one accepted review
func ReviewScore(rating int, necessary models.Necessity) int {
	score := rating * pointsPerRatingStar
	if necessary == models.NecessityYes {
		score += necessaryBonus
	}
	return score
}

// roundHalfUp rounds non-negative values the way the leaderboard always has
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func average(total, count int) int {
	if count == 0 {
		return 0
	}
	return roundHalfUp(float64(total) / float64(count))
}

// ComputeRankings aggregates accepted reviews per champion and orders them by
// average score, highest first. Equal averages keep the order in which the
// champions first appear in rows.
func ComputeRankings(rows []models.RankingInput) []models.ChampionRanking {
	byChampion := make(map[string]*models.ChampionRanking)
	order := make([]string, 0)

	for _, row := range rows {
		r, ok := byChampion[row.ChampionID]
		if !ok {
			sector := row.Organization
			if strings.TrimSpace(sector) == "" {
				sector = unknownSector
			}
			r = &models.ChampionRanking{
				ChampionID: row.ChampionID,
				Name:       models.DisplayName(row.Organization, row.FirstName, row.LastName),
				Sector:     sector,
			}
			byChampion[row.ChampionID] = r
			order = append(order, row.ChampionID)
		}

		score := ReviewScore(row.Rating, row.Necessary)
		r.TotalScore += score
		r.ReviewCount++

		// unknown categories only count toward the overall score
		if bucket := categoryBucket(r, row.Category); bucket != nil {
			bucket.Score += score
			bucket.Count++
		}
	}

	out := make([]models.ChampionRanking, 0, len(order))
	for _, id := range order {
		r := byChampion[id]
		r.AvgScore = average(r.TotalScore, r.ReviewCount)
		r.Environmental.Avg = average(r.Environmental.Score, r.Environmental.Count)
		r.Social.Avg = average(r.Social.Score, r.Social.Count)
		r.Governance.Avg = average(r.Governance.Score, r.Governance.Count)
		out = append(out, *r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgScore > out[j].AvgScore
	})
	return out
}

func categoryBucket(r *models.ChampionRanking, c models.Category) *models.CategoryScore {
	switch c {
	case models.CategoryEnvironmental:
		return &r.Environmental
	case models.CategorySocial:
		return &r.Social
	case models.CategoryGovernance:
		return &r.Governance
	}
	return nil
}

// FilterByCategory keeps champions with a positive average in category c,
// preserving the input order
func FilterByCategory(rankings []models.ChampionRanking, c models.Category) []models.ChampionRanking {
	out := make([]models.ChampionRanking, 0)
	for _, r := range rankings {
		if r.CategoryAvg(c) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// BuildSummary assembles the ranking page from the ordered leaderboard
func BuildSummary(all []models.ChampionRanking, now time.Time) *models.RankingSummary {
	if all == nil {
		all = []models.ChampionRanking{}
	}

	podium := all
	if len(podium) > podiumSize {
		podium = podium[:podiumSize]
	}

	sectors := make(map[string]struct{})
	total := 0
	for _, r := range all {
		total += r.AvgScore
		sectors[r.Sector] = struct{}{}
	}

	return &models.RankingSummary{
		All:           all,
		Environmental: FilterByCategory(all, models.CategoryEnvironmental),
		Social:        FilterByCategory(all, models.CategorySocial),
		Governance:    FilterByCategory(all, models.CategoryGovernance),
		Podium:        append([]models.ChampionRanking{}, podium...),
		Stats: models.RankingStats{
			TotalChampions: len(all),
			AverageScore:   average(total, len(all)),
			Sectors:        len(sectors),
		},
		GeneratedAt: now,
	}
}
