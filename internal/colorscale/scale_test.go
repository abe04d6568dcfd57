package colorscale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestBuildDegenerateRanges(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
	}{
		{"empty input", nil},
		{"all zero", []float64{0, 0, 0}},
		{"negative max", []float64{-3, -1}},
		{"infinite max", []float64{math.Inf(1)}},
		{"nan max", []float64{math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Build(tt.scores, Ramp(DefaultRamp))
			assert.Equal(t, 0.0, s.VMin)
			assert.Equal(t, 1.0, s.VMax, "degenerate range forced to vmin+1")
			assert.Greater(t, s.VMax, s.VMin)
		})
	}
}

func TestBuildNormalRange(t *testing.T) {
	s := Build([]float64{0.5, 4.25, 2.0}, Ramp(DefaultRamp))
	assert.Equal(t, 0.0, s.VMin)
	assert.Equal(t, 4.25, s.VMax)
}

func TestColorForEndpointsAndClamping(t *testing.T) {
	anchors := Ramp("Greens")
	s := Build([]float64{10}, anchors)

	assert.Equal(t, "#f7fcb9", s.HexFor(0))
	assert.Equal(t, "#31a354", s.HexFor(10))

	// Out-of-range scores clamp to the endpoints.
	assert.Equal(t, "#f7fcb9", s.HexFor(-5))
	assert.Equal(t, "#31a354", s.HexFor(99))
	assert.Equal(t, "#f7fcb9", s.HexFor(math.NaN()))
}

func TestColorForMidpoint(t *testing.T) {
	s := Build([]float64{10}, []RGB{{R: 0, G: 0, B: 0}, {R: 200, G: 100, B: 50}})
	mid := s.ColorFor(5)
	assert.Equal(t, RGB{R: 100, G: 50, B: 25}, mid)
}

func TestColorForMultiSegmentRamp(t *testing.T) {
	anchors := []RGB{{R: 0}, {R: 100}, {R: 200}}
	s := Build([]float64{4}, anchors)

	// Score 2 of 4 sits exactly on the middle anchor.
	assert.Equal(t, uint8(100), s.ColorFor(2).R)
	assert.Equal(t, uint8(200), s.ColorFor(4).R)
}

func TestRampFallback(t *testing.T) {
	def := Ramp(DefaultRamp)
	assert.Equal(t, def, Ramp("NotARamp"))
	assert.Equal(t, def, Ramp(""))

	for _, name := range RampNames() {
		require.GreaterOrEqual(t, len(Ramp(name)), 2, "ramp %s", name)
	}
}

func TestScaleReusable(t *testing.T) {
	s := Build([]float64{2}, Ramp(DefaultRamp))
	first := s.HexFor(1)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, s.HexFor(1))
	}
}
