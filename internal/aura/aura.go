// Package aura derives the display color of a message from its four-axis
// mood score vector.
package aura

import (
	"fmt"
	"math"

	"github.com/aurawall/aurawall-api/internal/models"
)

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// Base colors, one per mood axis.
var (
	BasePositive  = RGB{R: 0xFF, G: 0xB7, B: 0x03} // warm amber
	BaseCalm      = RGB{R: 0x8E, G: 0xCA, B: 0xE6} // pale sky
	BaseEnergetic = RGB{R: 0xFB, G: 0x45, B: 0x70} // hot pink
	BaseDeep      = RGB{R: 0x3D, G: 0x40, B: 0x5B} // slate indigo
	BaseNeutral   = RGB{R: 0xBD, G: 0xBD, B: 0xBD} // zero-weight vectors
)

// Blend computes the weighted average of the four base colors, per RGB
// channel, using the score vector as weights. Weights are normalized by
// their actual sum so non-normalized fallback vectors still land in gamut;
// a vector with all weight on one axis yields exactly that axis's base
// color. A zero-sum vector blends to BaseNeutral.
func Blend(s models.Scores) RGB {
	total := s.Sum()
	if total <= 0 {
		return BaseNeutral
	}

	blend := func(p, c, e, d uint8) uint8 {
		v := (s.Positive*float64(p) + s.Calm*float64(c) + s.Energetic*float64(e) + s.Deep*float64(d)) / total
		return uint8(math.Round(math.Min(v, 255)))
	}

	return RGB{
		R: blend(BasePositive.R, BaseCalm.R, BaseEnergetic.R, BaseDeep.R),
		G: blend(BasePositive.G, BaseCalm.G, BaseEnergetic.G, BaseDeep.G),
		B: blend(BasePositive.B, BaseCalm.B, BaseEnergetic.B, BaseDeep.B),
	}
}

// Hex renders the blended color as "#rrggbb".
func Hex(s models.Scores) string {
	c := Blend(s)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
