package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/app/models/dto"
	"github.com/yigit/esgchampions/internal/app/services"
	"github.com/yigit/esgchampions/internal/middleware"
	"github.com/yigit/esgchampions/internal/pkg/helpers"
)

// AdminController exposes review moderation
type AdminController struct {
	moderationService services.ModerationService
	logger            zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(moderationService services.ModerationService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		moderationService: moderationService,
		logger:            logger.With().Str("controller", "admin").Logger(),
	}
}

// ListReviews lists reviews for moderation
// @Summary List reviews
// @Description Reviews newest first, filtered by status, panel category and a search over champion name, indicator and panel title
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, accepted, deleted or all"
// @Param category query string false "environmental, social, governance or all"
// @Param search query string false "Free text"
// @Success 200 {object} dto.APIResponse{data=dto.ReviewListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 403 {object} dto.ErrorResponse "Admin privileges required"
// @Router /admin/reviews [get]
func (c *AdminController) ListReviews(ctx *gin.Context) {
	var filter models.ReviewFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	reviews, err := c.moderationService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ReviewListResponse{Reviews: reviews, Count: len(reviews)}))
}

// AcceptReview accepts a pending review
// @Summary Accept review
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} dto.APIResponse{data=models.AcceptedReview}
// @Failure 403 {object} dto.ErrorResponse "Admin privileges required"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Failure 409 {object} dto.ErrorResponse "Review already moderated"
// @Router /admin/reviews/{id}/accept [post]
func (c *AdminController) AcceptReview(ctx *gin.Context) {
	accepted, err := c.moderationService.Accept(ctx.Request.Context(), middleware.SessionFromContext(ctx), ctx.Param("id"))
	if err != nil {
		c.logger.Warn().Err(err).Str("reviewID", ctx.Param("id")).Msg("Accept failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(accepted))
}

// DeleteReview rejects a pending review
// @Summary Delete review
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body dto.DeleteReviewRequest false "Moderation notes"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin privileges required"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Failure 409 {object} dto.ErrorResponse "Review already moderated"
// @Router /admin/reviews/{id}/delete [post]
func (c *AdminController) DeleteReview(ctx *gin.Context) {
	var req dto.DeleteReviewRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			middleware.HandleBindingError(ctx, err)
			return
		}
	}

	if err := c.moderationService.Delete(ctx.Request.Context(), middleware.SessionFromContext(ctx), ctx.Param("id"), req.Notes); err != nil {
		c.logger.Warn().Err(err).Str("reviewID", ctx.Param("id")).Msg("Delete failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Review deleted"}))
}

// Stats counts reviews per status
// @Summary Review stats
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.ReviewStats}
// @Router /admin/reviews/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.moderationService.Stats(ctx.Request.Context())))
}

// AcceptedReviews lists accepted reviews, optionally for one panel or indicator
// @Summary Accepted reviews
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param panelId query string false "Panel ID"
// @Param indicatorId query string false "Indicator ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AcceptedReview}
// @Router /admin/accepted-reviews [get]
func (c *AdminController) AcceptedReviews(ctx *gin.Context) {
	out := c.moderationService.AcceptedReviews(ctx.Request.Context(), ctx.Query("panelId"), ctx.Query("indicatorId"))
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// AdminActions lists recent moderation actions
// @Summary Moderation history
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows, default 50, at most 200"
// @Success 200 {object} dto.APIResponse{data=[]models.AdminAction}
// @Failure 400 {object} dto.ErrorResponse "Invalid limit"
// @Router /admin/actions [get]
func (c *AdminController) AdminActions(ctx *gin.Context) {
	limit, err := helpers.ParseLimitParam(ctx, "limit")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid limit").WithField("limit")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.moderationService.AdminActions(ctx.Request.Context(), limit)))
}
