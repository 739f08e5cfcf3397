// Package intel defines the pluggable intelligence source that feeds raw
// candidate plays into the analysis pipeline.
package intel

import (
	"context"
	"errors"
	"fmt"

	"github.com/stratline/playbook/internal/config"
	"github.com/stratline/playbook/internal/model"
)

var errUnknownArea = errors.New("unknown subject area")

// Provider generates raw candidate plays for one subject area. The pipeline
// depends on this interface only; implementations are selected by
// configuration, never by runtime type inspection.
type Provider interface {
	GeneratePlays(ctx context.Context, area model.Area, marketContext string) ([]model.Play, error)
}

// New returns the provider implementation named by the config.
func New(cfg config.ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case config.ProviderStatic:
		return NewStaticProvider(), nil
	case config.ProviderCatalog:
		return NewCatalogProvider(cfg.CatalogDir), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
}
