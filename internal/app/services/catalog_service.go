package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/app/models/dto"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/auth"
	"github.com/yigit/esgchampions/internal/pkg/validation"
)

// CatalogService defines the interface for panel and indicator operations
type CatalogService interface {
	ListPanels(ctx context.Context, category string) ([]*models.Panel, error)
	GetPanel(ctx context.Context, id string) (*dto.PanelWithIndicators, error)
	ListIndicators(ctx context.Context, panelID string) ([]*models.Indicator, error)
	GetIndicator(ctx context.Context, id string) (*models.Indicator, error)

	CreatePanel(ctx context.Context, session auth.Session, req *dto.PanelRequest) (*models.Panel, error)
	UpdatePanel(ctx context.Context, session auth.Session, id string, req *dto.PanelRequest) (*models.Panel, error)
	DeletePanel(ctx context.Context, session auth.Session, id string) error
	CreateIndicator(ctx context.Context, session auth.Session, req *dto.IndicatorRequest) (*models.Indicator, error)
	UpdateIndicator(ctx context.Context, session auth.Session, id string, req *dto.IndicatorRequest) (*models.Indicator, error)
	DeleteIndicator(ctx context.Context, session auth.Session, id string) error

	// Seed inserts panels and indicators that are not stored yet
	Seed(ctx context.Context, panels []*models.Panel, indicators []*models.Indicator) (int64, int64, error)
}

type catalogServiceImpl struct {
	panels     PanelStore
	indicators IndicatorStore
	admins     AdminGate
	logger     zerolog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(panels PanelStore, indicators IndicatorStore, admins AdminGate, logger zerolog.Logger) CatalogService {
	return &catalogServiceImpl{
		panels:     panels,
		indicators: indicators,
		admins:     admins,
		logger:     logger.With().Str("service", "catalog").Logger(),
	}
}

// parseCategory accepts "", "all" or one of the three pillars
func parseCategory(category string) (models.Category, error) {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" || c == models.FilterAll {
		return "", nil
	}
	if !models.Category(c).Valid() {
		return "", apperrors.NewValidationError("Invalid category").
			WithDetails(map[string]interface{}{"category": category})
	}
	return models.Category(c), nil
}

// shortID generates a catalog id when the caller did not supply one
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func validateCatalogID(id string) error {
	if !validation.CompiledPatterns.CatalogID.MatchString(id) {
		return apperrors.NewValidationError("Invalid catalog id").
			WithDetails(map[string]interface{}{"id": id})
	}
	return nil
}

func (s *catalogServiceImpl) ListPanels(ctx context.Context, category string) ([]*models.Panel, error) {
	c, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	return s.panels.List(ctx, c)
}

// GetPanel returns a panel together with its indicators
func (s *catalogServiceImpl) GetPanel(ctx context.Context, id string) (*dto.PanelWithIndicators, error) {
	panel, err := s.panels.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	indicators, err := s.indicators.ListByPanel(ctx, panel.ID)
	if err != nil {
		return nil, err
	}
	return &dto.PanelWithIndicators{Panel: panel, Indicators: indicators}, nil
}

func (s *catalogServiceImpl) ListIndicators(ctx context.Context, panelID string) ([]*models.Indicator, error) {
	panel, err := s.panels.GetByID(ctx, strings.TrimSpace(panelID))
	if err != nil {
		return nil, err
	}
	return s.indicators.ListByPanel(ctx, panel.ID)
}

func (s *catalogServiceImpl) GetIndicator(ctx context.Context, id string) (*models.Indicator, error) {
	return s.indicators.GetByID(ctx, strings.TrimSpace(id))
}

func (s *catalogServiceImpl) CreatePanel(ctx context.Context, session auth.Session, req *dto.PanelRequest) (*models.Panel, error) {
	if err := s.admins.RequireAdmin(ctx, session); err != nil {
		return nil, err
	}

	panel := req.ToModel()
	panel.ID = strings.TrimSpace(panel.ID)
	if panel.ID == "" {
		panel.ID = shortID()
	}
	if err := validateCatalogID(panel.ID); err != nil {
		return nil, err
	}
	if !panel.Category.Valid() {
		return nil, apperrors.NewValidationError("Invalid category")
	}
	panel.CreatedAt = time.Now()

	if err := s.panels.Create(ctx, panel); err != nil {
		return nil, err
	}
	s.logger.Info().Str("panelID", panel.ID).Str("adminID", session.ChampionID).Msg("Panel created")
	return panel, nil
}

// UpdatePanel replaces every editable field of the panel
func (s *catalogServiceImpl) UpdatePanel(ctx context.Context, session auth.Session, id string, req *dto.PanelRequest) (*models.Panel, error) {
	if err := s.admins.RequireAdmin(ctx, session); err != nil {
		return nil, err
	}

	panel := req.ToModel()
	panel.ID = strings.TrimSpace(id)
	if !panel.Category.Valid() {
		return nil, apperrors.NewValidationError("Invalid category")
	}
	if err := s.panels.Update(ctx, panel); err != nil {
		return nil, err
	}
	return s.panels.GetByID(ctx, panel.ID)
}

func (s *catalogServiceImpl) DeletePanel(ctx context.Context, session auth.Session, id string) error {
	if err := s.admins.RequireAdmin(ctx, session); err != nil {
		return err
	}
	if err := s.panels.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.logger.Info().Str("panelID", id).Str("adminID", session.ChampionID).Msg("Panel deleted")
	return nil
}

func (s *catalogServiceImpl) CreateIndicator(ctx context.Context, session auth.Session, req *dto.IndicatorRequest) (*models.Indicator, error) {
	if err := s.admins.RequireAdmin(ctx, session); err != nil {
		return nil, err
	}

	indicator := req.ToModel()
	indicator.PanelID = strings.TrimSpace(indicator.PanelID)
	indicator.ID = strings.TrimSpace(indicator.ID)
	if indicator.ID == "" {
		indicator.ID = fmt.Sprintf("%s-%s", indicator.PanelID, shortID())
	}
	if err := validateCatalogID(indicator.ID); err != nil {
		return nil, err
	}
	indicator.CreatedAt = time.Now()

	if err := s.indicators.Create(ctx, indicator); err != nil {
		return nil, err
	}
	s.logger.Info().Str("indicatorID", indicator.ID).Str("adminID", session.ChampionID).Msg("Indicator created")
	return indicator, nil
}

// UpdateIndicator replaces every editable field of the indicator
func (s *catalogServiceImpl) UpdateIndicator(ctx context.Context, session auth.Session, id string, req *dto.IndicatorRequest) (*models.Indicator, error) {
	if err := s.admins.RequireAdmin(ctx, session); err != nil {
		return nil, err
	}

	indicator := req.ToModel()
	indicator.ID = strings.TrimSpace(id)
	indicator.PanelID = strings.TrimSpace(indicator.PanelID)
	if err := s.indicators.Update(ctx, indicator); err != nil {
		return nil, err
	}
	return s.indicators.GetByID(ctx, indicator.ID)
}

func (s *catalogServiceImpl) DeleteIndicator(ctx context.Context, session auth.Session, id string) error {
	if err := s.admins.RequireAdmin(ctx, session); err != nil {
		return err
	}
	return s.indicators.Delete(ctx, strings.TrimSpace(id))
}

func (s *catalogServiceImpl) Seed(ctx context.Context, panels []*models.Panel, indicators []*models.Indicator) (int64, int64, error) {
	np, err := s.panels.InsertIfMissing(ctx, panels)
	if err != nil {
		return 0, 0, fmt.Errorf("seed panels: %w", err)
	}
	ni, err := s.indicators.InsertIfMissing(ctx, indicators)
	if err != nil {
		return np, 0, fmt.Errorf("seed indicators: %w", err)
	}
	s.logger.Info().Int64("panels", np).Int64("indicators", ni).Msg("Catalog seeded")
	return np, ni, nil
}
