package models

import "time"

// Necessity is a champion's judgment on whether an indicator is needed
type Necessity string

const (
	NecessityYes     Necessity = "yes"
	NecessityNo      Necessity = "no"
	NecessityNotSure Necessity = "not-sure"
)

// Valid reports whether n is a known answer
func (n Necessity) Valid() bool {
	switch n {
	case NecessityYes, NecessityNo, NecessityNotSure:
		return true
	}
	return false
}

// ReviewStatus is the moderation state of a review
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusAccepted ReviewStatus = "accepted"
	ReviewStatusDeleted  ReviewStatus = "deleted"
)

// Terminal reports whether no moderation transition leaves s
func (s ReviewStatus) Terminal() bool {
	return s == ReviewStatusAccepted || s == ReviewStatusDeleted
}

// Valid reports whether s is a known status
func (s ReviewStatus) Valid() bool {
	return s == ReviewStatusPending || s.Terminal()
}

const (
	MinRating = 0
	MaxRating = 5
)

// Review is a champion's judgment on one indicator. At most one exists per
// (ChampionID, IndicatorID).
type Review struct {
	ID          string       `json:"id" db:"id"`
	ChampionID  string       `json:"championId" db:"champion_id"`
	IndicatorID string       `json:"indicatorId" db:"indicator_id"`
	Necessary   Necessity    `json:"necessary" db:"necessary" example:"yes"`
	Rating      int          `json:"rating" db:"rating" example:"4"`
	Comments    string       `json:"comments" db:"comments"`
	Status      ReviewStatus `json:"status" db:"status" example:"pending"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}

// ReviewDetail is a review joined with its champion, indicator and panel
type ReviewDetail struct {
	Review
	ChampionFirstName    string   `json:"championFirstName"`
	ChampionLastName     string   `json:"championLastName"`
	ChampionEmail        string   `json:"championEmail"`
	ChampionOrganization string   `json:"championOrganization,omitempty"`
	IndicatorTitle       string   `json:"indicatorTitle"`
	PanelID              string   `json:"panelId"`
	PanelTitle           string   `json:"panelTitle"`
	PanelCategory        Category `json:"panelCategory"`
}

// AcceptedReview is materialized exactly once when a review is accepted and
// is the sole input to ranking.
type AcceptedReview struct {
	ID          string    `json:"id" db:"id"`
	ReviewID    string    `json:"reviewId" db:"review_id"`
	ChampionID  string    `json:"championId" db:"champion_id"`
	IndicatorID string    `json:"indicatorId" db:"indicator_id"`
	PanelID     string    `json:"panelId" db:"panel_id"`
	Rating      int       `json:"rating" db:"rating"`
	Necessary   Necessity `json:"necessary" db:"necessary"`
	AcceptedBy  string    `json:"acceptedBy" db:"accepted_by"`
	AcceptedAt  time.Time `json:"acceptedAt" db:"accepted_at"`
}

// AdminActionType names a moderation action
type AdminActionType string

const (
	AdminActionAccept AdminActionType = "accept"
	AdminActionDelete AdminActionType = "delete"
)

// AdminAction is an append-only moderation audit record
type AdminAction struct {
	ID        string          `json:"id" db:"id"`
	AdminID   string          `json:"adminId" db:"admin_id"`
	ReviewID  string          `json:"reviewId" db:"review_id"`
	Action    AdminActionType `json:"action" db:"action"`
	Notes     string          `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// ReviewStats counts reviews per moderation status
type ReviewStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Accepted int64 `json:"accepted"`
	Deleted  int64 `json:"deleted"`
}

// FilterAll disables a list filter
const FilterAll = "all"

// ReviewFilter narrows the moderation list. Empty fields mean "all".
type ReviewFilter struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Search   string `form:"search"`
}
