package services

import (
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/catalog"
	"github.com/KirkDiggler/wod-character-wizard/internal/repositories/snapshots"
	"github.com/KirkDiggler/wod-character-wizard/internal/services/wizard"
	"github.com/KirkDiggler/wod-character-wizard/internal/sheet"
	"github.com/KirkDiggler/wod-character-wizard/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	Catalog       *catalog.Catalog
	WizardService wizard.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	SnapshotRepository snapshots.Repository
	Catalog            *catalog.Catalog
	UUIDGenerator      uuid.Generator
	SheetOptions       []sheet.Option
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	if cfg == nil {
		cfg = &ProviderConfig{}
	}

	// Use in-memory repository if none provided
	repo := cfg.SnapshotRepository
	if repo == nil {
		repo = snapshots.NewInMemoryRepository(nil)
	}

	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	return &Provider{
		Catalog: cat,
		WizardService: wizard.NewService(&wizard.ServiceConfig{
			Repository:    repo,
			Catalog:       cat,
			UUIDGenerator: cfg.UUIDGenerator,
			SheetOptions:  cfg.SheetOptions,
		}),
	}
}
