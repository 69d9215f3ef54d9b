package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"

	"github.com/ogulcanaydogan/price-guardian/pkg/model"
)

// Format identifies the encoding of a catalog file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// entry mirrors a catalog line. The Portuguese keys are the ones used by
// older produtos.json files and are only consulted when the English key is absent.
type entry struct {
	Name          string   `json:"name" yaml:"name"`
	Nome          string   `json:"nome" yaml:"nome"`
	URL           string   `json:"url" yaml:"url"`
	DesiredPrice  *float64 `json:"desired_price" yaml:"desired_price"`
	PrecoDesejado *float64 `json:"preco_desejado" yaml:"preco_desejado"`
}

func (e entry) product() model.Product {
	p := model.Product{Name: e.Name, URL: e.URL}
	if p.Name == "" {
		p.Name = e.Nome
	}
	switch {
	case e.DesiredPrice != nil:
		p.DesiredPrice = *e.DesiredPrice
	case e.PrecoDesejado != nil:
		p.DesiredPrice = *e.PrecoDesejado
	}
	return p
}

// FormatFromPath picks a format from the file extension. Anything that is
// not YAML is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Read loads a catalog file and reports any read or parse error.
func Read(path string) ([]model.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	products, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return products, nil
}

// Load reads the catalog for a run. A missing or malformed file is logged
// and yields an empty list so the run can finish normally.
func Load(path string, logger *slog.Logger) []model.Product {
	products, err := Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Error("catalog file not found", "path", path)
		} else {
			logger.Error("catalog could not be loaded", "path", path, "error", err)
		}
		return []model.Product{}
	}

	logger.Debug("catalog loaded", "path", path, "products", len(products))
	return products
}

// Parse decodes raw catalog data. Entries are returned in file order.
func Parse(data []byte, format Format) ([]model.Product, error) {
	var entries []entry

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		if err := json5.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}

	products := make([]model.Product, 0, len(entries))
	for _, e := range entries {
		products = append(products, e.product())
	}
	return products, nil
}
