package models

import "fmt"

// Footprint is the width x height occupancy of an item in grid cells.
type Footprint struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Area returns the number of cells covered.
func (f Footprint) Area() int {
	return f.Width * f.Height
}

// Rotated returns the footprint with width and height swapped.
func (f Footprint) Rotated() Footprint {
	return Footprint{Width: f.Height, Height: f.Width}
}

// ItemDefinition is a placeable catalog entry. Identity is the name.
type ItemDefinition struct {
	Name      string    `yaml:"name"`
	Footprint Footprint `yaml:"footprint"`
}

// Rotation is a placement rotation in degrees. Only 0 and 90 are valid.
type Rotation int

const (
	Rotation0  Rotation = 0
	Rotation90 Rotation = 90
)

// Toggle flips between the two valid rotations.
func (r Rotation) Toggle() Rotation {
	if r == Rotation90 {
		return Rotation0
	}
	return Rotation90
}

// Point is a grid cell.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// PlacedItem is an item on the room grid. Position is the top-left cell.
// Values are never mutated in place; a change replaces the whole value.
type PlacedItem struct {
	Item     ItemDefinition `yaml:"item"`
	Position Point          `yaml:"position"`
	Rotation Rotation       `yaml:"rotation"`
}

// Footprint returns the rotation-adjusted footprint.
func (p PlacedItem) Footprint() Footprint {
	if p.Rotation == Rotation90 {
		return p.Item.Footprint.Rotated()
	}
	return p.Item.Footprint
}

// Covers reports whether the full rotated footprint contains cell c.
func (p PlacedItem) Covers(c Point) bool {
	fp := p.Footprint()
	return c.X >= p.Position.X && c.X < p.Position.X+fp.Width &&
		c.Y >= p.Position.Y && c.Y < p.Position.Y+fp.Height
}

// RoomSize is the room dimensions in grid cells.
type RoomSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Cells returns the total number of cells in the room.
func (r RoomSize) Cells() int {
	return r.Width * r.Height
}

// Persona is a customer profile from the fixed roster.
type Persona struct {
	Name     string `yaml:"name"`
	Taste    string `yaml:"taste"`
	Tendency string `yaml:"tendency"`
	Tone     string `yaml:"tone"`
	Job      string `yaml:"job"`
}

// Customer is everything generated for one persona session. The wishlist is
// secret to the player.
type Customer struct {
	Persona  Persona  `yaml:"persona"`
	Wishlist []string `yaml:"wishlist"`
	Request  string   `yaml:"request"`
	// Embedding of Request, empty when the gateway could not provide one.
	Embedding []float32 `yaml:"-"`
}

// EvaluationResult is the published outcome of one evaluation.
type EvaluationResult struct {
	Score       float64 `yaml:"score"`
	Description string  `yaml:"description"`
	Feedback    string  `yaml:"feedback"`
	// Similarity of the request and description embeddings on a 0-5 scale.
	// Nil unless similarity reporting is enabled and both embeddings exist.
	Similarity *float64 `yaml:"similarity,omitempty"`
}

// PlacedNames returns the distinct names of the placed items.
func PlacedNames(items []PlacedItem) map[string]struct{} {
	names := make(map[string]struct{}, len(items))
	for _, it := range items {
		names[it.Item.Name] = struct{}{}
	}
	return names
}
