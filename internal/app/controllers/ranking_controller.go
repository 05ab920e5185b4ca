package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/esgchampions/internal/app/models/dto"
	"github.com/yigit/esgchampions/internal/app/services"
	"github.com/yigit/esgchampions/internal/middleware"
)

// RankingController serves the champion leaderboard
type RankingController struct {
	rankingService services.RankingService
}

// NewRankingController creates a new RankingController
func NewRankingController(rankingService services.RankingService) *RankingController {
	return &RankingController{rankingService: rankingService}
}

// Summary returns the leaderboard page
// @Summary Ranking summary
// @Description Overall leaderboard, category views, podium and headline stats, built from accepted reviews
// @Tags rankings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.RankingSummary}
// @Router /rankings [get]
func (c *RankingController) Summary(ctx *gin.Context) {
	summary, err := c.rankingService.Summary(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary))
}

// Leaderboard returns one ordered leaderboard
// @Summary Leaderboard
// @Tags rankings
// @Produce json
// @Param category query string false "environmental, social, governance or all"
// @Success 200 {object} dto.APIResponse{data=[]models.ChampionRanking}
// @Failure 400 {object} dto.ErrorResponse "Unknown category"
// @Router /rankings/leaderboard [get]
func (c *RankingController) Leaderboard(ctx *gin.Context) {
	rankings, err := c.rankingService.Leaderboard(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rankings))
}
