package grid

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/xyplot/pkg/errors"
)

// Transparent is the background value for a fully transparent canvas. On a
// header or footer band it means "same as the grid".
const Transparent = "transparent"

// ParseColor parses a named color (any SVG color name) or #RGB / #RRGGBB
// hex notation.
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(v, "#") {
		c, err := colorful.Hex(v)
		if err != nil {
			return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", s)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	}
	if c, ok := colornames.Map[v]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor,
		"invalid color %q: must be a color name, #RGB or #RRGGBB", s)
}

// ParseBackground is ParseColor plus the "transparent" sentinel.
func ParseBackground(s string) (color.NRGBA, error) {
	if strings.EqualFold(strings.TrimSpace(s), Transparent) {
		return color.NRGBA{}, nil
	}
	return ParseColor(s)
}
