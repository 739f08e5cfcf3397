package intel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stratline/playbook/internal/model"
)

// CatalogProvider loads plays from curated YAML files, one file per subject
// area (<dir>/<area>.yaml). This is the production source: analysts maintain
// the catalog, the pipeline consumes it.
type CatalogProvider struct {
	dir string
}

// NewCatalogProvider returns a provider reading from dir.
func NewCatalogProvider(dir string) *CatalogProvider {
	return &CatalogProvider{dir: dir}
}

type catalogFile struct {
	Plays []model.Play `yaml:"plays"`
}

// GeneratePlays loads the catalog file for the area. A missing or malformed
// file is a ProviderError; the owning agent degrades it to an empty
// contribution.
func (p *CatalogProvider) GeneratePlays(_ context.Context, area model.Area, _ string) ([]model.Play, error) {
	if !model.ValidArea(area) {
		return nil, &model.ProviderError{Area: area, Err: errUnknownArea}
	}
	path := filepath.Join(p.dir, string(area)+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.ProviderError{Area: area, Err: fmt.Errorf("read catalog: %w", err)}
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &model.ProviderError{Area: area, Err: fmt.Errorf("parse catalog %s: %w", filepath.Base(path), err)}
	}

	// Catalog entries may omit the area; stamp it from the file identity.
	for i := range file.Plays {
		if file.Plays[i].Area == "" {
			file.Plays[i].Area = area
		}
	}
	return file.Plays, nil
}
