package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CategoryOther is returned by Categorize when nothing in the table is close enough.
const CategoryOther = "Other"

// ErrInvalidTable is returned when a catalog entry lacks a name for some locale
// or uses an unknown category.
var ErrInvalidTable = errors.New("invalid catalog table")

//go:embed data/products.yaml
var defaultTableData []byte

// Entry is one product with its canonical names per locale.
type Entry struct {
	// Category is the category tag the product belongs to.
	Category string `yaml:"category" json:"category"`
	// Names maps a locale code to the product's canonical names in that locale.
	Names map[string][]string `yaml:"names" json:"names"`
}

// Table is the immutable reference data the matcher is built from.
type Table struct {
	// Locales lists the locales every entry must name the product in.
	Locales []string `yaml:"locales" json:"locales"`
	// Categories lists the known category tags.
	Categories []string `yaml:"categories" json:"categories"`
	// Products holds entries in match priority order.
	Products []Entry `yaml:"products" json:"products"`
}

// ParseTable decodes and validates a YAML catalog.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// DefaultTable returns the catalog compiled into the binary.
func DefaultTable() (*Table, error) {
	return ParseTable(defaultTableData)
}

// DefaultTableData returns the raw YAML of the compiled-in catalog.
func DefaultTableData() []byte {
	out := make([]byte, len(defaultTableData))
	copy(out, defaultTableData)
	return out
}

// Validate checks that every entry has a known category and at least one
// name per table locale, and that no name maps to two different categories.
func (t *Table) Validate() error {
	if len(t.Locales) == 0 {
		return fmt.Errorf("%w: no locales declared", ErrInvalidTable)
	}
	if len(t.Products) == 0 {
		return fmt.Errorf("%w: no products", ErrInvalidTable)
	}

	known := make(map[string]struct{}, len(t.Categories))
	for _, c := range t.Categories {
		if c == "" || c == CategoryOther {
			return fmt.Errorf("%w: reserved or empty category %q", ErrInvalidTable, c)
		}
		known[c] = struct{}{}
	}

	locales, err := LookupLocales(t.Locales)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}

	owner := make(map[string]string)
	for i, p := range t.Products {
		if _, ok := known[p.Category]; !ok {
			return fmt.Errorf("%w: product %d has unknown category %q", ErrInvalidTable, i, p.Category)
		}

		for _, loc := range t.Locales {
			if !hasName(p.Names[loc]) {
				return fmt.Errorf("%w: product %d (%s) has no %s name", ErrInvalidTable, i, p.Category, loc)
			}
		}

		for _, names := range p.Names {
			for _, name := range names {
				key := Normalize(locales, name)
				if key == "" {
					continue
				}
				if prev, ok := owner[key]; ok && prev != p.Category {
					return fmt.Errorf("%w: name %q is in both %s and %s", ErrInvalidTable, name, prev, p.Category)
				}
				owner[key] = p.Category
			}
		}
	}

	return nil
}

// Marshal encodes the table back to YAML.
func (t *Table) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}

func hasName(names []string) bool {
	for _, n := range names {
		if n != "" {
			return true
		}
	}
	return false
}
