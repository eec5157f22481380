package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/WindyAle/Welcome-to-my/internal/gateway"
	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var room10x8 = models.RoomSize{Width: 10, Height: 8}

func place(name string, w, h, x, y int, rot models.Rotation) models.PlacedItem {
	return models.PlacedItem{
		Item:     models.ItemDefinition{Name: name, Footprint: models.Footprint{Width: w, Height: h}},
		Position: models.Point{X: x, Y: y},
		Rotation: rot,
	}
}

func TestAnalyzeScenario(t *testing.T) {
	placed := []models.PlacedItem{
		place("작은 소파", 2, 1, 0, 0, models.Rotation0),
		place("테이블", 1, 1, 8, 7, models.Rotation0),
	}

	f := Analyze(placed, room10x8)

	assert.Equal(t, 2, f.Total)
	assert.Equal(t, []ItemCount{{"작은 소파", 1}, {"테이블", 1}}, f.Tally)
	require.Len(t, f.Items, 2)
	assert.Equal(t, ZoneWall, f.Items[0].Zone)
	assert.Equal(t, ZoneEntrance, f.Items[1].Zone)
	assert.Equal(t, 3, f.Area)
	assert.Equal(t, 80, f.Cells)
	assert.InDelta(t, 0.0375, f.Ratio(), 1e-9)
	assert.Equal(t, DensitySparse, f.Density)

	report := f.Report()
	assert.Contains(t, report, "총 2개의 가구")
	assert.Contains(t, report, "1개의 작은 소파, 1개의 테이블")
	assert.Contains(t, report, "벽가에는 작은 소파 (0,0)")
	assert.Contains(t, report, "입구(아래쪽) 근처에는 테이블 (8,7)")
	assert.Contains(t, report, "중앙부는 비어있어")
	assert.Contains(t, report, "미니멀한 인상")
}

func TestEmptyRoomIgnoresDimensions(t *testing.T) {
	for _, room := range []models.RoomSize{{Width: 10, Height: 8}, {Width: 5, Height: 5}, {Width: 40, Height: 3}} {
		f := Analyze(nil, room)
		assert.True(t, f.Empty())
		assert.Empty(t, f.Items)
		assert.Equal(t, EmptyRoomSentence, f.Report())
		assert.Equal(t, EmptyRoomSentence, DescribeFacts([]models.PlacedItem{}, room))
	}
}

func TestClassifyZoneIsTotal(t *testing.T) {
	for _, room := range []models.RoomSize{{Width: 10, Height: 8}, {Width: 5, Height: 5}, {Width: 13, Height: 7}} {
		counts := map[Zone]int{}
		for y := 0; y < room.Height; y++ {
			for x := 0; x < room.Width; x++ {
				z := ClassifyZone(models.Point{X: x, Y: y}, room)
				require.Contains(t, []Zone{ZoneCenter, ZoneWall, ZoneEntrance}, z)
				counts[z]++
			}
		}
		assert.Equal(t, room.Cells(), counts[ZoneCenter]+counts[ZoneWall]+counts[ZoneEntrance])
		assert.Equal(t, 2*room.Width, counts[ZoneEntrance])
		assert.Equal(t, (room.Width-4)*(room.Height-4), counts[ZoneCenter])
	}
}

func TestClassifyZoneBoundaries(t *testing.T) {
	tests := []struct {
		p    models.Point
		want Zone
	}{
		{models.Point{X: 0, Y: 0}, ZoneWall},
		{models.Point{X: 2, Y: 2}, ZoneCenter},
		{models.Point{X: 7, Y: 5}, ZoneCenter},
		{models.Point{X: 8, Y: 5}, ZoneWall},
		{models.Point{X: 2, Y: 1}, ZoneWall},
		{models.Point{X: 5, Y: 6}, ZoneEntrance},
		// entrance wins over wall in the bottom corners
		{models.Point{X: 0, Y: 7}, ZoneEntrance},
		{models.Point{X: 9, Y: 6}, ZoneEntrance},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyZone(tt.p, room10x8), "cell %v", tt.p)
	}
}

func TestZoneUsesBaseCellOnly(t *testing.T) {
	// A tall wardrobe starting in the center reaches into the entrance rows
	// but is still classified by its top-left cell.
	f := Analyze([]models.PlacedItem{place("옷장", 2, 3, 4, 4, models.Rotation0)}, room10x8)
	assert.Equal(t, ZoneCenter, f.Items[0].Zone)
	assert.Contains(t, f.Report(), "중앙부에는 옷장 (4,4)")
}

func TestDensityBand(t *testing.T) {
	tests := []struct {
		area, cells int
		want        Density
	}{
		{7, 80, DensitySparse},
		{8, 80, DensityBalanced}, // exactly 0.10
		{20, 80, DensityBalanced},
		{32, 80, DensityBalanced}, // exactly 0.40
		{33, 80, DensityDense},
		{1, 100, DensitySparse},
		{10, 100, DensityBalanced},
		{40, 100, DensityBalanced},
		{41, 100, DensityDense},
		{0, 0, DensityBalanced},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DensityBand(tt.area, tt.cells), "%d/%d", tt.area, tt.cells)
	}
}

func TestDensityUsesRotatedFootprint(t *testing.T) {
	// 3x1 rotated is 1x3: the area is unchanged, so rotation never moves the band.
	a := Analyze([]models.PlacedItem{place("큰 소파", 3, 1, 3, 3, models.Rotation0)}, room10x8)
	b := Analyze([]models.PlacedItem{place("큰 소파", 3, 1, 3, 3, models.Rotation90)}, room10x8)
	assert.Equal(t, a.Area, b.Area)

	var dense []models.PlacedItem
	for x := 0; x < 10; x += 2 {
		for y := 0; y < 8; y += 3 {
			dense = append(dense, place("2인 침대", 2, 3, x, y, models.Rotation0))
		}
	}
	f := Analyze(dense, room10x8)
	assert.Equal(t, DensityDense, f.Density)
	assert.Contains(t, f.Report(), "빽빽하게")
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	placed := []models.PlacedItem{
		place("화분", 1, 2, 3, 3, models.Rotation0),
		place("테이블", 1, 1, 4, 3, models.Rotation0),
		place("화분", 1, 2, 9, 0, models.Rotation90),
	}
	first := DescribeFacts(placed, room10x8)
	for range 20 {
		assert.Equal(t, first, DescribeFacts(placed, room10x8))
	}
	assert.Contains(t, first, "2개의 화분, 1개의 테이블")
}

func TestDescribeNaturalize(t *testing.T) {
	ctx := context.Background()
	placed := []models.PlacedItem{place("테이블", 1, 1, 4, 4, models.Rotation0)}
	facts := DescribeFacts(placed, room10x8)

	t.Run("rephrased", func(t *testing.T) {
		gw := gateway.Reply(`"햇살이 드는 방 한가운데 테이블이 놓여 있네요."`)
		eng := newTestEngine(t, gw, Options{Naturalize: true})

		got := eng.Describe(ctx, placed, room10x8)
		assert.Equal(t, "햇살이 드는 방 한가운데 테이블이 놓여 있네요.", got)
		calls := gw.Calls()
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].User, facts)
	})

	t.Run("gateway down", func(t *testing.T) {
		eng := newTestEngine(t, gateway.Offline{}, Options{Naturalize: true})
		assert.Equal(t, facts, eng.Describe(ctx, placed, room10x8))
	})

	t.Run("error marked", func(t *testing.T) {
		eng := newTestEngine(t, gateway.Reply("🚨 모델이 준비되지 않음"), Options{Naturalize: true})
		assert.Equal(t, facts, eng.Describe(ctx, placed, room10x8))
	})

	t.Run("empty room skips gateway", func(t *testing.T) {
		gw := &gateway.Mock{ChatFunc: func(context.Context, string, string) (string, error) {
			return "", errors.New("should not be called")
		}}
		eng := newTestEngine(t, gw, Options{Naturalize: true})
		assert.Equal(t, EmptyRoomSentence, eng.Describe(ctx, nil, room10x8))
		assert.Empty(t, gw.Calls())
	})

	t.Run("disabled", func(t *testing.T) {
		gw := gateway.Reply("prose")
		eng := newTestEngine(t, gw, Options{})
		assert.Equal(t, facts, eng.Describe(ctx, placed, room10x8))
		assert.Empty(t, gw.Calls())
	})
}
