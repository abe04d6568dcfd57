// Package colorscale maps access scores onto a continuous color ramp for
// choropleth rendering.
package colorscale

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// RGB is one anchor color of a ramp.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// DefaultRamp is the ramp used when no (or an unknown) ramp is requested.
const DefaultRamp = "Greens"

// ramps holds the selectable anchor lists. Greens matches the light-to-dark
// pair the dashboard has always used; the rest are the standard sequential
// ramps offered alongside it.
var ramps = map[string][]string{
	"Greens":  {"#f7fcb9", "#31a354"},
	"YlGn":    {"#ffffcc", "#c2e699", "#78c679", "#238443"},
	"BuGn":    {"#edf8fb", "#b2e2e2", "#66c2a4", "#238b45"},
	"YlGnBu":  {"#ffffcc", "#a1dab4", "#41b6c4", "#225ea8"},
	"Viridis": {"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
}

// RampNames returns the selectable ramp names.
func RampNames() []string {
	return []string{"Greens", "YlGn", "BuGn", "YlGnBu", "Viridis"}
}

// Ramp returns the anchors for a named ramp. Unknown names fall back to the
// default ramp with a warning, so a typo in a request never fails a query.
func Ramp(name string) []RGB {
	hexes, ok := ramps[name]
	if !ok {
		if name != "" {
			zap.L().Warn("colorscale: unknown ramp, using default",
				zap.String("ramp", name),
				zap.String("default", DefaultRamp),
			)
		}
		hexes = ramps[DefaultRamp]
	}
	anchors := make([]RGB, len(hexes))
	for i, h := range hexes {
		c, err := parseHex(h)
		if err != nil {
			// Built-in ramps are validated by tests; this cannot happen for them.
			panic(err)
		}
		anchors[i] = c
	}
	return anchors
}

func parseHex(s string) (RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, eris.Errorf("colorscale: bad hex color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return RGB{}, eris.Wrapf(err, "colorscale: bad hex color %q", s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Scale is a linear mapping from a score range onto a color ramp. Build it
// once per query and reuse it for every region.
type Scale struct {
	VMin    float64
	VMax    float64
	anchors []RGB
}

// Build constructs a Scale over the given scores. VMin is always zero; VMax
// is the score maximum, forced to VMin+1 when the input is empty, all-zero,
// or not finite, so the scale is always invertible.
func Build(scores []float64, anchors []RGB) Scale {
	if len(anchors) < 2 {
		anchors = Ramp(DefaultRamp)
	}

	vmin := 0.0
	vmax := vmin
	for _, s := range scores {
		if s > vmax {
			vmax = s
		}
	}
	if math.IsInf(vmax, 0) || math.IsNaN(vmax) || vmax <= vmin {
		vmax = vmin + 1.0
	}

	return Scale{VMin: vmin, VMax: vmax, anchors: anchors}
}

// Anchors returns the ramp anchors of the scale.
func (s Scale) Anchors() []RGB {
	return s.anchors
}

// ColorFor interpolates a score onto the ramp. Scores outside [VMin, VMax]
// are clamped, never extrapolated. NaN maps to VMin.
func (s Scale) ColorFor(score float64) RGB {
	t := 0.0
	if !math.IsNaN(score) {
		t = (score - s.VMin) / (s.VMax - s.VMin)
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	// Position within the anchor segments.
	segments := float64(len(s.anchors) - 1)
	pos := t * segments
	i := int(pos)
	if i >= len(s.anchors)-1 {
		return s.anchors[len(s.anchors)-1]
	}
	frac := pos - float64(i)

	a, b := s.anchors[i], s.anchors[i+1]
	return RGB{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
	}
}

// HexFor is ColorFor rendered as "#rrggbb".
func (s Scale) HexFor(score float64) string {
	return s.ColorFor(score).Hex()
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
