package models

import "time"

// Panel is a thematic grouping of ESG indicators
type Panel struct {
	ID            string    `json:"id" db:"id" example:"1"`
	Title         string    `json:"title" db:"title" example:"Climate & GHG Emissions Panel"`
	Category      Category  `json:"category" db:"category" example:"environmental"`
	Description   string    `json:"description" db:"description"`
	Purpose       string    `json:"purpose" db:"purpose"`
	KeyIndicators string    `json:"keyIndicators" db:"key_indicators"`
	Frameworks    string    `json:"frameworks" db:"frameworks" example:"GRI 305, ISSB S2"`
	Icon          string    `json:"icon" db:"icon"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// Indicator is a single measurable ESG metric definition within a panel
type Indicator struct {
	ID                 string    `json:"id" db:"id" example:"9-1"`
	PanelID            string    `json:"panelId" db:"panel_id" example:"9"`
	Title              string    `json:"title" db:"title" example:"Report ID"`
	Description        string    `json:"description" db:"description"`
	Unit               string    `json:"unit" db:"unit" example:"tCO2e"`
	Frameworks         string    `json:"frameworks" db:"frameworks"`
	FormulaRequired    bool      `json:"formulaRequired" db:"formula_required"`
	SectorContext      string    `json:"sectorContext" db:"sector_context"`
	ValidationQuestion string    `json:"validationQuestion" db:"validation_question"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}
