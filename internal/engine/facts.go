package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/WindyAle/Welcome-to-my/pkg/logger"
	"github.com/sirupsen/logrus"
)

// EmptyRoomSentence is the whole report for a room with nothing in it.
const EmptyRoomSentence = "방이 완전히 비어 있습니다. 텅 빈 공간입니다."

// zoneMargin is how many cells from a boundary count as wall (or entrance).
const zoneMargin = 2

// Zone is a coarse classification of an item's base cell.
type Zone string

const (
	ZoneCenter   Zone = "center"
	ZoneWall     Zone = "wall"
	ZoneEntrance Zone = "entrance"
)

// Density is the qualitative band of the occupied floor ratio.
type Density string

const (
	DensitySparse   Density = "sparse"
	DensityBalanced Density = "balanced"
	DensityDense    Density = "dense"
)

// ItemCount is one line of the item tally.
type ItemCount struct {
	Name  string
	Count int
}

// ZonedItem is a placed item with its zone.
type ZonedItem struct {
	Name     string
	Position models.Point
	Zone     Zone
}

// Facts is the deterministic description of a layout.
type Facts struct {
	Total int
	// Tally is ordered by first appearance in the placement list.
	Tally []ItemCount
	Items []ZonedItem
	// Area is the sum of rotation-adjusted footprint areas.
	Area    int
	Cells   int
	Density Density
}

// Empty reports whether no items were placed.
func (f Facts) Empty() bool {
	return f.Total == 0
}

// Ratio returns Area / Cells.
func (f Facts) Ratio() float64 {
	if f.Cells == 0 {
		return 0
	}
	return float64(f.Area) / float64(f.Cells)
}

// InZone returns the items classified into z, in placement order.
func (f Facts) InZone(z Zone) []ZonedItem {
	var out []ZonedItem
	for _, it := range f.Items {
		if it.Zone == z {
			out = append(out, it)
		}
	}
	return out
}

// ClassifyZone assigns a base cell to exactly one zone. The entrance is the
// two rows along the bottom edge and is checked first.
func ClassifyZone(p models.Point, room models.RoomSize) Zone {
	if p.Y >= room.Height-zoneMargin {
		return ZoneEntrance
	}
	if p.X < zoneMargin || p.X >= room.Width-zoneMargin || p.Y < zoneMargin {
		return ZoneWall
	}
	return ZoneCenter
}

// DensityBand buckets area/cells. The thresholds are exact: a ratio of
// exactly 0.10 or 0.40 is balanced.
func DensityBand(area, cells int) Density {
	if cells <= 0 {
		return DensityBalanced
	}
	// area/cells < 1/10 and area/cells > 4/10 without floating point.
	switch {
	case area*10 < cells:
		return DensitySparse
	case area*10 > cells*4:
		return DensityDense
	default:
		return DensityBalanced
	}
}

// Analyze computes the layout facts. It is pure and never calls the gateway.
func Analyze(placed []models.PlacedItem, room models.RoomSize) Facts {
	f := Facts{Total: len(placed), Cells: room.Cells()}
	if f.Empty() {
		return f
	}

	counts := make(map[string]int)
	for _, p := range placed {
		name := p.Item.Name
		if _, seen := counts[name]; !seen {
			f.Tally = append(f.Tally, ItemCount{Name: name})
		}
		counts[name]++
		f.Area += p.Footprint().Area()
		f.Items = append(f.Items, ZonedItem{
			Name:     name,
			Position: p.Position,
			Zone:     ClassifyZone(p.Position, room),
		})
	}
	for i := range f.Tally {
		f.Tally[i].Count = counts[f.Tally[i].Name]
	}
	f.Density = DensityBand(f.Area, f.Cells)
	return f
}

// Report renders the facts from a fixed template.
func (f Facts) Report() string {
	if f.Empty() {
		return EmptyRoomSentence
	}

	var sb strings.Builder

	kinds := make([]string, len(f.Tally))
	for i, c := range f.Tally {
		kinds[i] = fmt.Sprintf("%d개의 %s", c.Count, c.Name)
	}
	fmt.Fprintf(&sb, "이 방에는 총 %d개의 가구가 있습니다. (종류: %s)\n", f.Total, strings.Join(kinds, ", "))

	sb.WriteString("\n[ 공간 배치 분석 ]\n")
	if center := f.InZone(ZoneCenter); len(center) > 0 {
		fmt.Fprintf(&sb, "- 방의 중앙부에는 %s 등이 배치되어 공간의 중심을 잡고 있습니다.\n", listItems(center))
	} else {
		sb.WriteString("- 방의 중앙부는 비어있어 개방감이 느껴집니다.\n")
	}
	if wall := f.InZone(ZoneWall); len(wall) > 0 {
		fmt.Fprintf(&sb, "- 벽가에는 %s 등이 배치되었습니다.\n", listItems(wall))
	}
	if entrance := f.InZone(ZoneEntrance); len(entrance) > 0 {
		fmt.Fprintf(&sb, "- 입구(아래쪽) 근처에는 %s 등이 놓여 있습니다.\n", listItems(entrance))
	}

	sb.WriteString("\n[ 밀도 및 인상 ]\n")
	switch f.Density {
	case DensitySparse:
		sb.WriteString("- 전반적으로 방이 매우 넓고 여백이 많아 미니멀한 인상을 줍니다.")
	case DensityDense:
		sb.WriteString("- 전반적으로 방이 가구로 빽빽하게 채워져 있어 동선이 복잡해 보입니다.")
	default:
		sb.WriteString("- 가구들이 적절한 간격을 두고 균형 있게 배치되어 있습니다.")
	}
	return sb.String()
}

func listItems(items []ZonedItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s %s", it.Name, it.Position)
	}
	return strings.Join(parts, ", ")
}

// DescribeFacts is Analyze followed by Report.
func DescribeFacts(placed []models.PlacedItem, room models.RoomSize) string {
	return Analyze(placed, room).Report()
}

// Describe returns the layout description used for judging. With
// naturalization on, the factual report is rephrased by the gateway; an
// empty room or any gateway failure returns the factual report unchanged.
func (e *Engine) Describe(ctx context.Context, placed []models.PlacedItem, room models.RoomSize) string {
	facts := Analyze(placed, room)
	report := facts.Report()
	if !e.opts.Naturalize || facts.Empty() {
		return report
	}

	user, err := render("naturalize_user", naturalizeUserPrompt, struct{ Facts string }{report})
	if err != nil {
		logger.Log.WithError(err).Error("naturalize prompt")
		return report
	}

	raw, err := e.gw.Chat(ctx, naturalizeSystemPrompt, user)
	if err != nil {
		logger.Log.WithError(err).Warn("naturalize failed, using factual report")
		return report
	}

	text := stripQuotes(raw)
	if text == "" || strings.Contains(text, alarmMarker) {
		logger.Log.WithFields(logrus.Fields{
			"component": "describe",
			"raw":       raw,
		}).Warn("naturalize returned unusable text, using factual report")
		return report
	}
	return text
}
