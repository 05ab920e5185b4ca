package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/esgchampions/internal/app/models/dto"
	"github.com/yigit/esgchampions/internal/app/services"
	"github.com/yigit/esgchampions/internal/middleware"
)

// CatalogController serves panels and indicators
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// ListPanels lists panels, optionally by category
// @Summary List panels
// @Tags catalog
// @Produce json
// @Param category query string false "environmental, social, governance or all"
// @Success 200 {object} dto.APIResponse{data=[]models.Panel}
// @Failure 400 {object} dto.ErrorResponse "Invalid category"
// @Router /panels [get]
func (c *CatalogController) ListPanels(ctx *gin.Context) {
	panels, err := c.catalogService.ListPanels(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(panels))
}

// GetPanel returns a panel with its indicators
// @Summary Get panel
// @Tags catalog
// @Produce json
// @Param id path string true "Panel ID"
// @Success 200 {object} dto.APIResponse{data=dto.PanelWithIndicators}
// @Failure 404 {object} dto.ErrorResponse "Panel not found"
// @Router /panels/{id} [get]
func (c *CatalogController) GetPanel(ctx *gin.Context) {
	panel, err := c.catalogService.GetPanel(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(panel))
}

// ListIndicators lists a panel's indicators
// @Summary List panel indicators
// @Tags catalog
// @Produce json
// @Param id path string true "Panel ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Indicator}
// @Failure 404 {object} dto.ErrorResponse "Panel not found"
// @Router /panels/{id}/indicators [get]
func (c *CatalogController) ListIndicators(ctx *gin.Context) {
	indicators, err := c.catalogService.ListIndicators(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(indicators))
}

// GetIndicator returns one indicator
// @Summary Get indicator
// @Tags catalog
// @Produce json
// @Param id path string true "Indicator ID"
// @Success 200 {object} dto.APIResponse{data=models.Indicator}
// @Failure 404 {object} dto.ErrorResponse "Indicator not found"
// @Router /indicators/{id} [get]
func (c *CatalogController) GetIndicator(ctx *gin.Context) {
	indicator, err := c.catalogService.GetIndicator(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(indicator))
}

// CreatePanel adds a panel
// @Summary Create panel
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PanelRequest true "Panel"
// @Success 201 {object} dto.APIResponse{data=models.Panel}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Admin privileges required"
// @Failure 409 {object} dto.ErrorResponse "Panel already exists"
// @Router /admin/panels [post]
func (c *CatalogController) CreatePanel(ctx *gin.Context) {
	var req dto.PanelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	panel, err := c.catalogService.CreatePanel(ctx.Request.Context(), middleware.SessionFromContext(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(panel))
}

// UpdatePanel replaces a panel's fields
// @Summary Update panel
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Panel ID"
// @Param request body dto.PanelRequest true "Panel"
// @Success 200 {object} dto.APIResponse{data=models.Panel}
// @Failure 404 {object} dto.ErrorResponse "Panel not found"
// @Router /admin/panels/{id} [put]
func (c *CatalogController) UpdatePanel(ctx *gin.Context) {
	var req dto.PanelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	panel, err := c.catalogService.UpdatePanel(ctx.Request.Context(), middleware.SessionFromContext(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(panel))
}

// DeletePanel removes a panel without indicators
// @Summary Delete panel
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Panel ID"
// @Success 204 "Panel deleted"
// @Failure 409 {object} dto.ErrorResponse "Panel has indicators"
// @Router /admin/panels/{id} [delete]
func (c *CatalogController) DeletePanel(ctx *gin.Context) {
	if err := c.catalogService.DeletePanel(ctx.Request.Context(), middleware.SessionFromContext(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CreateIndicator adds an indicator
// @Summary Create indicator
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.IndicatorRequest true "Indicator"
// @Success 201 {object} dto.APIResponse{data=models.Indicator}
// @Failure 404 {object} dto.ErrorResponse "Panel not found"
// @Router /admin/indicators [post]
func (c *CatalogController) CreateIndicator(ctx *gin.Context) {
	var req dto.IndicatorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	indicator, err := c.catalogService.CreateIndicator(ctx.Request.Context(), middleware.SessionFromContext(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(indicator))
}

// UpdateIndicator replaces an indicator's fields
// @Summary Update indicator
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Indicator ID"
// @Param request body dto.IndicatorRequest true "Indicator"
// @Success 200 {object} dto.APIResponse{data=models.Indicator}
// @Failure 404 {object} dto.ErrorResponse "Indicator not found"
// @Router /admin/indicators/{id} [put]
func (c *CatalogController) UpdateIndicator(ctx *gin.Context) {
	var req dto.IndicatorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	indicator, err := c.catalogService.UpdateIndicator(ctx.Request.Context(), middleware.SessionFromContext(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(indicator))
}

// DeleteIndicator removes an indicator
// @Summary Delete indicator
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Indicator ID"
// @Success 204 "Indicator deleted"
// @Failure 404 {object} dto.ErrorResponse "Indicator not found"
// @Router /admin/indicators/{id} [delete]
func (c *CatalogController) DeleteIndicator(ctx *gin.Context) {
	if err := c.catalogService.DeleteIndicator(ctx.Request.Context(), middleware.SessionFromContext(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
