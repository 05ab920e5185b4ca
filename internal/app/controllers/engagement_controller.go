package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/esgchampions/internal/app/models/dto"
	"github.com/yigit/esgchampions/internal/app/services"
	"github.com/yigit/esgchampions/internal/middleware"
)

// EngagementController handles votes, comments, invitations and participation
type EngagementController struct {
	engagementService services.EngagementService
}

// NewEngagementController creates a new EngagementController
func NewEngagementController(engagementService services.EngagementService) *EngagementController {
	return &EngagementController{engagementService: engagementService}
}

// CastVote stores the caller's vote on an indicator
// @Summary Vote on indicator
// @Tags engagement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Indicator ID"
// @Param request body dto.VoteRequest true "yes or no"
// @Success 200 {object} dto.APIResponse{data=models.Vote}
// @Failure 400 {object} dto.ErrorResponse "Invalid vote"
// @Failure 404 {object} dto.ErrorResponse "Indicator not found"
// @Router /indicators/{id}/vote [put]
func (c *EngagementController) CastVote(ctx *gin.Context) {
	var req dto.VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	vote, err := c.engagementService.CastVote(ctx.Request.Context(), middleware.SessionFromContext(ctx), ctx.Param("id"), req.Vote)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(vote))
}

// Votes returns the vote tally on an indicator
// @Summary Indicator votes
// @Tags engagement
// @Produce json
// @Param id path string true "Indicator ID"
// @Success 200 {object} dto.APIResponse{data=dto.VoteSummaryResponse}
// @Router /indicators/{id}/votes [get]
func (c *EngagementController) Votes(ctx *gin.Context) {
	out := c.engagementService.Votes(ctx.Request.Context(), middleware.SessionFromContext(ctx), ctx.Param("id"))
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// AddComment posts a comment on an indicator
// @Summary Comment on indicator
// @Tags engagement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Indicator ID"
// @Param request body dto.CommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=models.Comment}
// @Failure 400 {object} dto.ErrorResponse "Empty comment"
// @Failure 404 {object} dto.ErrorResponse "Indicator not found"
// @Router /indicators/{id}/comments [post]
func (c *EngagementController) AddComment(ctx *gin.Context) {
	var req dto.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	comment, err := c.engagementService.AddComment(ctx.Request.Context(), middleware.SessionFromContext(ctx), ctx.Param("id"), req.Comment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(comment))
}

// Comments lists an indicator's comments, newest first
// @Summary Indicator comments
// @Tags engagement
// @Produce json
// @Param id path string true "Indicator ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Comment}
// @Router /indicators/{id}/comments [get]
func (c *EngagementController) Comments(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.engagementService.Comments(ctx.Request.Context(), ctx.Param("id"))))
}

// MyReview returns the caller's review of an indicator
// @Summary My review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Indicator ID"
// @Success 200 {object} dto.APIResponse{data=models.Review}
// @Failure 404 {object} dto.ErrorResponse "No review yet"
// @Router /indicators/{id}/reviews/me [get]
func (c *EngagementController) MyReview(ctx *gin.Context) {
	review, err := c.engagementService.MyReview(ctx.Request.Context(), middleware.SessionFromContext(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(review))
}

// Invite invites a peer to a panel
// @Summary Invite peer
// @Tags engagement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InvitationRequest true "Invitation"
// @Success 201 {object} dto.APIResponse{data=models.Invitation}
// @Failure 404 {object} dto.ErrorResponse "Panel not found"
// @Router /invitations [post]
func (c *EngagementController) Invite(ctx *gin.Context) {
	var req dto.InvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	inv, err := c.engagementService.Invite(ctx.Request.Context(), middleware.SessionFromContext(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(inv))
}

// Invitations lists invitations addressed to the caller
// @Summary My invitations
// @Tags engagement
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Invitation}
// @Router /invitations [get]
func (c *EngagementController) Invitations(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.engagementService.Invitations(ctx.Request.Context(), middleware.SessionFromContext(ctx))))
}

// Participation summarizes the caller's activity per panel
// @Summary Participation history
// @Tags champions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.PanelParticipation}
// @Router /champions/me/participation [get]
func (c *EngagementController) Participation(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.engagementService.Participation(ctx.Request.Context(), middleware.SessionFromContext(ctx))))
}

// Credits returns the caller's weekly credits
// @Summary Weekly credits
// @Tags champions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CreditsResponse}
// @Router /champions/me/credits [get]
func (c *EngagementController) Credits(ctx *gin.Context) {
	credits := c.engagementService.WeeklyCredits(ctx.Request.Context(), middleware.SessionFromContext(ctx))
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CreditsResponse{Credits: credits}))
}
