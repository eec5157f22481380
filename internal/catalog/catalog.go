package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/WindyAle/Welcome-to-my/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed furniture.yaml
var defaultFurniture []byte

//go:embed personas.yaml
var defaultPersonas []byte

var (
	ErrEmptyCatalog    = errors.New("furniture catalog is empty")
	ErrEmptyRoster     = errors.New("persona roster is empty")
	ErrCatalogTooSmall = errors.New("furniture catalog is too small")
)

// Style is presentation-only data for drawing an item.
type Style struct {
	Glyph string
	Color string
}

type itemEntry struct {
	models.ItemDefinition `yaml:",inline"`
	Glyph                 string `yaml:"glyph"`
	Color                 string `yaml:"color"`
}

// Catalog is the read-only list of placeable items. Item order is the order
// of the source file.
type Catalog struct {
	items  []models.ItemDefinition
	index  map[string]int
	styles map[string]Style
}

// Load returns the built-in catalog, or the one at path when path is set.
func Load(path string) (*Catalog, error) {
	data := defaultFurniture
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	return Parse(data)
}

// Parse decodes a catalog document and validates it.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Items []itemEntry `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(doc.Items) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		index:  make(map[string]int, len(doc.Items)),
		styles: make(map[string]Style, len(doc.Items)),
	}
	for _, e := range doc.Items {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog item %d has no name", len(c.items))
		}
		if _, dup := c.index[e.Name]; dup {
			return nil, fmt.Errorf("duplicate catalog item %q", e.Name)
		}
		if e.Footprint.Width < 1 || e.Footprint.Height < 1 {
			return nil, fmt.Errorf("catalog item %q has invalid footprint %dx%d", e.Name, e.Footprint.Width, e.Footprint.Height)
		}
		c.index[e.Name] = len(c.items)
		c.items = append(c.items, e.ItemDefinition)
		c.styles[e.Name] = Style{Glyph: e.Glyph, Color: e.Color}
	}
	return c, nil
}

// Items returns a copy of the item definitions.
func (c *Catalog) Items() []models.ItemDefinition {
	out := make([]models.ItemDefinition, len(c.items))
	copy(out, c.items)
	return out
}

// Names returns the catalog's name universe in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.items))
	for i, it := range c.items {
		names[i] = it.Name
	}
	return names
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// At returns the i-th item.
func (c *Catalog) At(i int) models.ItemDefinition {
	return c.items[i]
}

// Lookup finds an item by name.
func (c *Catalog) Lookup(name string) (models.ItemDefinition, bool) {
	i, ok := c.index[name]
	if !ok {
		return models.ItemDefinition{}, false
	}
	return c.items[i], true
}

// Style returns the drawing style for name. Unknown names get a blank style.
func (c *Catalog) Style(name string) Style {
	return c.styles[name]
}

// LoadPersonas returns the built-in persona roster, or the one at path.
func LoadPersonas(path string) ([]models.Persona, error) {
	data := defaultPersonas
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	var doc struct {
		Personas []models.Persona `yaml:"personas"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse personas: %w", err)
	}
	if len(doc.Personas) == 0 {
		return nil, ErrEmptyRoster
	}
	return doc.Personas, nil
}
