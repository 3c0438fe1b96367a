package geom

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestMap_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		rect NormRect
		page PageSize
		want AbsRect
	}{
		{
			name: "full page",
			rect: NormRect{RelX: 0, RelY: 0, RelWidth: 1, RelHeight: 1},
			page: PageSize{Width: 595.28, Height: 841.89},
			want: AbsRect{X: 0, Y: 0, Width: 595.28, Height: 841.89},
		},
		{
			name: "top-left quarter maps to upper half of page",
			rect: NormRect{RelX: 0, RelY: 0, RelWidth: 0.25, RelHeight: 0.25},
			page: PageSize{Width: 400, Height: 800},
			want: AbsRect{X: 0, Y: 600, Width: 100, Height: 200},
		},
		{
			name: "bottom-right corner box",
			rect: NormRect{RelX: 0.9, RelY: 0.9, RelWidth: 0.1, RelHeight: 0.1},
			page: PageSize{Width: 500, Height: 1000},
			want: AbsRect{X: 450, Y: 0, Width: 50, Height: 100},
		},
		{
			name: "centered box",
			rect: NormRect{RelX: 0.25, RelY: 0.25, RelWidth: 0.5, RelHeight: 0.5},
			page: PageSize{Width: 100, Height: 100},
			want: AbsRect{X: 25, Y: 25, Width: 50, Height: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Map(tt.rect, tt.page)
			assert.InDelta(t, tt.want.X, got.X, tolerance)
			assert.InDelta(t, tt.want.Y, got.Y, tolerance)
			assert.InDelta(t, tt.want.Width, got.Width, tolerance)
			assert.InDelta(t, tt.want.Height, got.Height, tolerance)
		})
	}
}

// TestMap_StaysWithinPage checks the containment property: any valid
// normalized rectangle maps into [0,W] x [0,H] within floating-point
// tolerance.
func TestMap_StaysWithinPage(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	page := PageSize{Width: RefPageWidth, Height: RefPageHeight}

	for i := 0; i < 1000; i++ {
		relX := rng.Float64()
		relY := rng.Float64()
		rect := NormRect{
			RelX:      relX,
			RelY:      relY,
			RelWidth:  rng.Float64() * (1 - relX),
			RelHeight: rng.Float64() * (1 - relY),
		}

		got := Map(rect, page)

		require.GreaterOrEqual(t, got.X, -tolerance)
		require.GreaterOrEqual(t, got.Y, -tolerance)
		require.LessOrEqual(t, got.Right(), page.Width+tolerance)
		require.LessOrEqual(t, got.Top(), page.Height+tolerance)
	}
}

// TestMap_VerticalFlip verifies that a field drawn near the top of the
// authoring canvas lands near the top of the bottom-left-origin page.
func TestMap_VerticalFlip(t *testing.T) {
	rect := NormRect{RelX: 0.1, RelY: 0.05, RelWidth: 0.2, RelHeight: 0.05}
	page := PageSize{Width: RefPageWidth, Height: RefPageHeight}

	got := Map(rect, page)

	// top-down 5% from the top means the box's top edge sits at 95% height
	assert.InDelta(t, page.Height*0.95, got.Top(), tolerance)
}
