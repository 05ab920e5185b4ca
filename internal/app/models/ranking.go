package models

import "time"

// RankingInput is one accepted review joined with its champion and panel
type RankingInput struct {
	ChampionID   string
	FirstName    string
	LastName     string
	Organization string
	Rating       int
	Necessary    Necessity
	Category     Category
}

// CategoryScore accumulates one pillar of a champion's score
type CategoryScore struct {
	Score int `json:"score"`
	Count int `json:"count"`
	Avg   int `json:"avg"`
}

// ChampionRanking is one leaderboard row
type ChampionRanking struct {
	ChampionID    string        `json:"championId"`
	Name          string        `json:"name"`
	Sector        string        `json:"sector"`
	TotalScore    int           `json:"totalScore"`
	ReviewCount   int           `json:"reviewCount"`
	AvgScore      int           `json:"score"`
	Environmental CategoryScore `json:"environmental"`
	Social        CategoryScore `json:"social"`
	Governance    CategoryScore `json:"governance"`
}

// CategoryAvg returns the average for a pillar, 0 for unknown pillars
func (r *ChampionRanking) CategoryAvg(c Category) int {
	switch c {
	case CategoryEnvironmental:
		return r.Environmental.Avg
	case CategorySocial:
		return r.Social.Avg
	case CategoryGovernance:
		return r.Governance.Avg
	}
	return 0
}

// RankingStats are the headline numbers shown above the leaderboard
type RankingStats struct {
	TotalChampions int `json:"totalChampions"`
	AverageScore   int `json:"averageScore"`
	Sectors        int `json:"sectors"`
}

// RankingSummary is the full ranking page payload
type RankingSummary struct {
	All           []ChampionRanking `json:"all"`
	Environmental []ChampionRanking `json:"environmental"`
	Social        []ChampionRanking `json:"social"`
	Governance    []ChampionRanking `json:"governance"`
	Podium        []ChampionRanking `json:"podium"`
	Stats         RankingStats      `json:"stats"`
	GeneratedAt   time.Time         `json:"generatedAt"`
}
