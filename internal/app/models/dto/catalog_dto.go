package dto

import "github.com/yigit/esgchampions/internal/app/models"

// PanelRequest creates or replaces a panel
type PanelRequest struct {
	ID            string `json:"id" binding:"omitempty,max=32"`
	Title         string `json:"title" binding:"required,max=200"`
	Category      string `json:"category" binding:"required,esg_category"`
	Description   string `json:"description"`
	Purpose       string `json:"purpose"`
	KeyIndicators string `json:"keyIndicators"`
	Frameworks    string `json:"frameworks"`
	Icon          string `json:"icon" binding:"max=64"`
}

// ToModel builds a panel from the request
func (r *PanelRequest) ToModel() *models.Panel {
	return &models.Panel{
		ID:            r.ID,
		Title:         r.Title,
		Category:      models.Category(r.Category),
		Description:   r.Description,
		Purpose:       r.Purpose,
		KeyIndicators: r.KeyIndicators,
		Frameworks:    r.Frameworks,
		Icon:          r.Icon,
	}
}

// IndicatorRequest creates or replaces an indicator
type IndicatorRequest struct {
	ID                 string `json:"id" binding:"omitempty,max=32"`
	PanelID            string `json:"panelId" binding:"required"`
	Title              string `json:"title" binding:"required,max=300"`
	Description        string `json:"description"`
	Unit               string `json:"unit"`
	Frameworks         string `json:"frameworks"`
	FormulaRequired    bool   `json:"formulaRequired"`
	SectorContext      string `json:"sectorContext"`
	ValidationQuestion string `json:"validationQuestion"`
}

// ToModel builds an indicator from the request
func (r *IndicatorRequest) ToModel() *models.Indicator {
	return &models.Indicator{
		ID:                 r.ID,
		PanelID:            r.PanelID,
		Title:              r.Title,
		Description:        r.Description,
		Unit:               r.Unit,
		Frameworks:         r.Frameworks,
		FormulaRequired:    r.FormulaRequired,
		SectorContext:      r.SectorContext,
		ValidationQuestion: r.ValidationQuestion,
	}
}

// PanelWithIndicators bundles a panel with its indicators
type PanelWithIndicators struct {
	*models.Panel
	Indicators []*models.Indicator `json:"indicators"`
}
