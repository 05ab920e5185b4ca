package dto

import "github.com/yigit/esgchampions/internal/app/models"

// VoteRequest casts or replaces a vote
type VoteRequest struct {
	Vote string `json:"vote" binding:"required,oneof=yes no"`
}

// VoteSummaryResponse is the tally plus the caller's own vote
type VoteSummaryResponse struct {
	models.VoteTally
	MyVote string `json:"myVote,omitempty"`
}

// CommentRequest posts a comment on an indicator
type CommentRequest struct {
	Comment string `json:"comment" binding:"required,max=5000"`
}

// InvitationRequest invites a peer to a panel
type InvitationRequest struct {
	ToEmail string `json:"toEmail" binding:"required,email"`
	PanelID string `json:"panelId" binding:"required"`
	Message string `json:"message" binding:"max=2000"`
}

// CreditsResponse is the caller's weekly credit count
type CreditsResponse struct {
	Credits int `json:"credits"`
}
