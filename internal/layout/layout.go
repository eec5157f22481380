// Package layout holds the room geometry used while the player drags
// furniture around: door placement and placement validity.
package layout

import (
	"errors"
	"math/rand/v2"

	"github.com/WindyAle/Welcome-to-my/internal/models"
)

var (
	ErrOutOfBounds = errors.New("item does not fit inside the room")
	ErrCollision   = errors.New("item overlaps another item")
	ErrDoorBlocked = errors.New("item blocks the door")
)

// RandomDoor picks a door cell on one of the four walls. The cell at index 0
// along the wall is never chosen.
func RandomDoor(r *rand.Rand, room models.RoomSize) models.Point {
	switch r.IntN(4) {
	case 0: // top
		return models.Point{X: 1 + r.IntN(room.Width-1), Y: 0}
	case 1: // bottom
		return models.Point{X: 1 + r.IntN(room.Width-1), Y: room.Height - 1}
	case 2: // left
		return models.Point{X: 0, Y: 1 + r.IntN(room.Height-1)}
	default: // right
		return models.Point{X: room.Width - 1, Y: 1 + r.IntN(room.Height-1)}
	}
}

type rect struct {
	x, y, w, h int
}

func (a rect) overlaps(b rect) bool {
	return a.x < b.x+b.w && b.x < a.x+a.w &&
		a.y < b.y+b.h && b.y < a.y+a.h
}

// Check reports whether candidate may be added to placed.
//
// The full rotated footprint must lie inside the room and keep clear of the
// door. Items only collide with each other on their base row, since taller
// items are drawn overlapping the row behind them.
func Check(candidate models.PlacedItem, placed []models.PlacedItem, room models.RoomSize, door *models.Point) error {
	fp := candidate.Footprint()
	full := rect{candidate.Position.X, candidate.Position.Y, fp.Width, fp.Height}

	if full.x < 0 || full.y < 0 || full.x+full.w > room.Width || full.y+full.h > room.Height {
		return ErrOutOfBounds
	}

	base := rect{full.x, full.y, full.w, 1}
	for _, p := range placed {
		pfp := p.Footprint()
		if base.overlaps(rect{p.Position.X, p.Position.Y, pfp.Width, 1}) {
			return ErrCollision
		}
	}

	if door != nil && full.overlaps(rect{door.X, door.Y, 1, 1}) {
		return ErrDoorBlocked
	}
	return nil
}

// ItemAt returns the index of the topmost item covering cell c, or -1.
// Later placements are drawn on top, so the search runs back to front.
func ItemAt(placed []models.PlacedItem, c models.Point) int {
	for i := len(placed) - 1; i >= 0; i-- {
		if placed[i].Covers(c) {
			return i
		}
	}
	return -1
}
