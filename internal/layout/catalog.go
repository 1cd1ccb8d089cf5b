// Package layout maps lesson layout types to their ordered slots.
package layout

import (
	_ "embed"
	"fmt"
	"sync"

	models "lectern/internal/domain/models/lesson"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogFile []byte

type catalogDoc struct {
	Layouts []struct {
		Type  string        `yaml:"type"`
		Slots []models.Slot `yaml:"slots"`
	} `yaml:"layouts"`
}

// Catalog is an immutable registry of layout types. Safe for concurrent use.
type Catalog struct {
	layouts map[models.LayoutType][]models.Slot
	types   []models.LayoutType
}

// Parse builds a catalog from YAML. Every member of the layout enum must be
// present with at least one slot, and slot ids must be unique per layout.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal layout catalog: %w", err)
	}

	c := &Catalog{layouts: make(map[models.LayoutType][]models.Slot, len(doc.Layouts))}
	for _, entry := range doc.Layouts {
		layoutType := models.LayoutType(entry.Type)
		if !layoutType.IsKnown() {
			return nil, fmt.Errorf("layout catalog: unknown layout type %q", entry.Type)
		}
		if _, dup := c.layouts[layoutType]; dup {
			return nil, fmt.Errorf("layout catalog: duplicate layout type %q", entry.Type)
		}
		if len(entry.Slots) == 0 {
			return nil, fmt.Errorf("layout catalog: layout %q has no slots", entry.Type)
		}

		seen := make(map[string]bool, len(entry.Slots))
		slots := make([]models.Slot, len(entry.Slots))
		for i, slot := range entry.Slots {
			if slot.ID == "" {
				return nil, fmt.Errorf("layout catalog: layout %q slot %d has no id", entry.Type, i)
			}
			if seen[slot.ID] {
				return nil, fmt.Errorf("layout catalog: layout %q repeats slot %q", entry.Type, slot.ID)
			}
			seen[slot.ID] = true
			if slot.Region == "" {
				slot.Region = slot.ID
			}
			slot.OrderIndex = i
			slots[i] = slot
		}

		c.layouts[layoutType] = slots
		c.types = append(c.types, layoutType)
	}

	for _, required := range models.LayoutTypes {
		if _, ok := c.layouts[required]; !ok {
			return nil, fmt.Errorf("layout catalog: missing layout type %q", required)
		}
	}

	return c, nil
}

// NewCatalog loads the embedded registry
func NewCatalog() (*Catalog, error) {
	return Parse(catalogFile)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. The registry ships with the binary,
// so a load failure is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := NewCatalog()
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Resolve returns the layout for layoutType. Unknown values fall back to the
// single layout instead of failing, so malformed data never blocks rendering.
func (c *Catalog) Resolve(layoutType string) models.Layout {
	if l, ok := c.Lookup(layoutType); ok {
		return l
	}
	l, _ := c.Lookup(string(models.DefaultLayoutType))
	return l
}

// Lookup returns the layout for an exact type match
func (c *Catalog) Lookup(layoutType string) (models.Layout, bool) {
	slots, ok := c.layouts[models.LayoutType(layoutType)]
	if !ok {
		return models.Layout{}, false
	}
	// Copy so callers cannot mutate the registry
	out := make([]models.Slot, len(slots))
	copy(out, slots)
	return models.Layout{NodeType: models.LayoutType(layoutType), Slots: out}, true
}

// Layouts returns every layout in registry order
func (c *Catalog) Layouts() []models.Layout {
	out := make([]models.Layout, 0, len(c.types))
	for _, t := range c.types {
		l, _ := c.Lookup(string(t))
		out = append(out, l)
	}
	return out
}

// Resolve resolves layoutType against the embedded catalog
func Resolve(layoutType string) models.Layout {
	return Default().Resolve(layoutType)
}
