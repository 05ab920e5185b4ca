// Package seed loads the ESG catalog and the bootstrap admin account.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/app/services"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/auth"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the decoded seed file
type Catalog struct {
	Panels     []PanelSeed     `yaml:"panels"`
	Indicators []IndicatorSeed `yaml:"indicators"`
}

// PanelSeed is one panel entry of the seed file
type PanelSeed struct {
	ID            string `yaml:"id"`
	Title         string `yaml:"title"`
	Category      string `yaml:"category"`
	Description   string `yaml:"description"`
	Purpose       string `yaml:"purpose"`
	KeyIndicators string `yaml:"key_indicators"`
	Frameworks    string `yaml:"frameworks"`
	Icon          string `yaml:"icon"`
}

// IndicatorSeed is one indicator entry of the seed file
type IndicatorSeed struct {
	ID                 string `yaml:"id"`
	PanelID            string `yaml:"panel_id"`
	Title              string `yaml:"title"`
	Description        string `yaml:"description"`
	Unit               string `yaml:"unit"`
	Frameworks         string `yaml:"frameworks"`
	FormulaRequired    bool   `yaml:"formula_required"`
	SectorContext      string `yaml:"sector_context"`
	ValidationQuestion string `yaml:"validation_question"`
}

// LoadCatalog decodes the embedded catalog and checks its references
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog decodes a catalog document
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	panelIDs := make(map[string]bool, len(c.Panels))
	for _, p := range c.Panels {
		if !models.Category(p.Category).Valid() {
			return nil, fmt.Errorf("panel %s: unknown category %q", p.ID, p.Category)
		}
		panelIDs[p.ID] = true
	}
	for _, i := range c.Indicators {
		if !panelIDs[i.PanelID] {
			return nil, fmt.Errorf("indicator %s: unknown panel %q", i.ID, i.PanelID)
		}
	}
	return &c, nil
}

// Models converts the seed entries to catalog models
func (c *Catalog) Models(now time.Time) ([]*models.Panel, []*models.Indicator) {
	panels := make([]*models.Panel, 0, len(c.Panels))
	for _, p := range c.Panels {
		panels = append(panels, &models.Panel{
			ID:            p.ID,
			Title:         p.Title,
			Category:      models.Category(p.Category),
			Description:   p.Description,
			Purpose:       p.Purpose,
			KeyIndicators: p.KeyIndicators,
			Frameworks:    p.Frameworks,
			Icon:          p.Icon,
			CreatedAt:     now,
		})
	}

	indicators := make([]*models.Indicator, 0, len(c.Indicators))
	for _, i := range c.Indicators {
		indicators = append(indicators, &models.Indicator{
			ID:                 i.ID,
			PanelID:            i.PanelID,
			Title:              i.Title,
			Description:        i.Description,
			Unit:               i.Unit,
			Frameworks:         i.Frameworks,
			FormulaRequired:    i.FormulaRequired,
			SectorContext:      i.SectorContext,
			ValidationQuestion: i.ValidationQuestion,
			CreatedAt:          now,
		})
	}
	return panels, indicators
}

// AdminAccount is the champion promoted to admin on first start
type AdminAccount struct {
	Email    string
	Password string
}

// Seeder writes the default data
type Seeder struct {
	catalog   services.CatalogService
	champions services.ChampionStore
	logger    zerolog.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(catalog services.CatalogService, champions services.ChampionStore, logger zerolog.Logger) *Seeder {
	return &Seeder{
		catalog:   catalog,
		champions: champions,
		logger:    logger.With().Str("component", "seed").Logger(),
	}
}

// CreateDefaultData seeds the catalog and the admin account. Both steps are
// idempotent; errors of one step do not stop the other.
func (s *Seeder) CreateDefaultData(ctx context.Context, admin AdminAccount) error {
	var finalErr error

	if err := s.SeedCatalog(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Error seeding catalog")
		finalErr = errors.Join(finalErr, err)
	}

	if err := s.EnsureAdmin(ctx, admin); err != nil {
		s.logger.Error().Err(err).Str("email", admin.Email).Msg("Error ensuring admin account")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

// SeedCatalog inserts the embedded panels and indicators that are missing
func (s *Seeder) SeedCatalog(ctx context.Context) error {
	c, err := LoadCatalog()
	if err != nil {
		return err
	}

	panels, indicators := c.Models(time.Now().UTC())
	newPanels, newIndicators, err := s.catalog.Seed(ctx, panels, indicators)
	if err != nil {
		return err
	}

	s.logger.Info().
		Int64("panels", newPanels).
		Int64("indicators", newIndicators).
		Msg("Catalog seeded")
	return nil
}

// EnsureAdmin creates the admin champion, or grants admin to an existing
// one. Without a password only an existing champion can be promoted.
func (s *Seeder) EnsureAdmin(ctx context.Context, admin AdminAccount) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" {
		return nil
	}

	exists, err := s.champions.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin email: %w", err)
	}
	if exists {
		return s.champions.SetAdmin(ctx, email, true)
	}

	if admin.Password == "" {
		s.logger.Warn().Str("email", email).Msg("No admin password configured, skipping admin creation")
		return nil
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	champion := &models.Champion{
		ID:           uuid.NewString(),
		FirstName:    "ESG",
		LastName:     "Admin",
		Email:        email,
		PasswordHash: hash,
		Expertise:    []string{},
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.champions.Create(ctx, champion); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return s.champions.SetAdmin(ctx, email, true)
		}
		return err
	}

	s.logger.Info().Str("email", email).Msg("Default admin created")
	return nil
}
