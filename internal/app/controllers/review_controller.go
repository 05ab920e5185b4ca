package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/esgchampions/internal/app/models/dto"
	"github.com/yigit/esgchampions/internal/app/services"
	"github.com/yigit/esgchampions/internal/middleware"
)

// ReviewController accepts review submissions from champions
type ReviewController struct {
	submissionService services.SubmissionService
	logger            zerolog.Logger
}

// NewReviewController creates a new ReviewController
func NewReviewController(submissionService services.SubmissionService, logger zerolog.Logger) *ReviewController {
	return &ReviewController{
		submissionService: submissionService,
		logger:            logger.With().Str("controller", "review").Logger(),
	}
}

// Submit stores a batch of reviews for the signed-in champion
// @Summary Submit reviews
// @Description Validates every tuple first; either all reviews are stored as pending or none are
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitReviewsRequest true "Review batch"
// @Success 201 {object} dto.APIResponse{data=dto.SubmitReviewsResponse} "Reviews submitted"
// @Failure 400 {object} dto.ErrorResponse "Please select Yes/No/Not Sure for all indicators"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Indicator not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reviews [post]
func (c *ReviewController) Submit(ctx *gin.Context) {
	var req dto.SubmitReviewsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	inputs := make([]services.ReviewInput, 0, len(req.Reviews))
	for _, item := range req.Reviews {
		inputs = append(inputs, services.ReviewInput{
			IndicatorID: item.IndicatorID,
			Necessary:   item.Necessary,
			Rating:      item.Rating,
			Comments:    item.Comments,
		})
	}

	res, err := c.submissionService.Submit(ctx.Request.Context(), middleware.SessionFromContext(ctx), inputs)
	if err != nil {
		c.logger.Warn().Err(err).Int("count", len(inputs)).Msg("Review submission rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.SubmitReviewsResponse{
		Submitted: res.Submitted,
		Reviews:   res.Reviews,
		Withdrawn: res.Withdrawn,
	}))
}
