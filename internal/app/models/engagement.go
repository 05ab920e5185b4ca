package models

import "time"

// Vote is a champion's yes/no signal on an indicator, one per pair
type Vote struct {
	ID          string    `json:"id" db:"id"`
	ChampionID  string    `json:"championId" db:"champion_id"`
	IndicatorID string    `json:"indicatorId" db:"indicator_id"`
	Vote        string    `json:"vote" db:"vote" example:"yes"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Comment is free text on an indicator. Submission also projects review
// comments here.
type Comment struct {
	ID           string    `json:"id" db:"id"`
	ChampionID   string    `json:"championId" db:"champion_id"`
	ChampionName string    `json:"championName,omitempty"`
	IndicatorID  string    `json:"indicatorId" db:"indicator_id"`
	Comment      string    `json:"comment" db:"comment"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// InvitationStatus is stored but never transitioned by this service
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation is a peer invite to a panel
type Invitation struct {
	ID             string           `json:"id" db:"id"`
	FromChampionID string           `json:"fromChampionId" db:"from_champion_id"`
	ToEmail        string           `json:"toEmail" db:"to_email"`
	PanelID        string           `json:"panelId" db:"panel_id"`
	Message        string           `json:"message,omitempty" db:"message"`
	Status         InvitationStatus `json:"status" db:"status"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
}

// Activity is a timestamped engagement event used for participation stats
type Activity struct {
	IndicatorID string
	PanelID     string
	CreatedAt   time.Time
}

// PanelParticipation summarizes a champion's activity within one panel
type PanelParticipation struct {
	Panel         *Panel     `json:"panel"`
	VotesCount    int        `json:"votesCount"`
	CommentsCount int        `json:"commentsCount"`
	LastActivity  *time.Time `json:"lastActivity"`
}

// VoteTally counts votes on an indicator
type VoteTally struct {
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Total int `json:"total"`
}
