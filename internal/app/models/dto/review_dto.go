package dto

import "github.com/yigit/esgchampions/internal/app/models"

// ReviewItem is one (indicator, judgment) tuple of a submission batch.
// Necessity is checked by the service so that every missing answer is reported at once.
type ReviewItem struct {
	IndicatorID string `json:"indicatorId"`
	Necessary   string `json:"necessary" example:"yes"`
	Rating      int    `json:"rating" example:"4"`
	Comments    string `json:"comments"`
}

// SubmitReviewsRequest is a batch of reviews
type SubmitReviewsRequest struct {
	Reviews []ReviewItem `json:"reviews"`
}

// SubmitReviewsResponse reports what was stored
type SubmitReviewsResponse struct {
	Submitted int              `json:"submitted"`
	Reviews   []*models.Review `json:"reviews"`
	Withdrawn int64            `json:"withdrawn"`
}

// DeleteReviewRequest carries optional moderation notes
type DeleteReviewRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// ReviewListResponse is the admin review list
type ReviewListResponse struct {
	Reviews []*models.ReviewDetail `json:"reviews"`
	Count   int                    `json:"count"`
}
