package grid

import (
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/image/font"

	"github.com/matzehuels/xyplot/pkg/template"
)

// normalizeHeaders unescapes `\n` and wraps each label to width characters
// when width is positive.
func normalizeHeaders(headers []string, width int) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		h = template.Unescape(h)
		if width > 0 {
			h = wrap(h, width)
		}
		out[i] = h
	}
	return out
}

// wrap breaks s into lines of at most width characters, preferring spaces
// and hyphens and splitting longer words. Existing line breaks are kept.
func wrap(s string, width int) string {
	lines := strings.Split(ansi.Wrap(s, width, "-"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}

// textHeight is the pixel height of s: one font size per line.
func textHeight(s string, fontSize int) int {
	return lineCount(s) * fontSize
}

// textWidth is the advance of the widest line of s.
func textWidth(face font.Face, s string) int {
	var w int
	for _, line := range strings.Split(s, "\n") {
		adv := font.MeasureString(face, line)
		w = max(w, int(math.Ceil(float64(adv)/64)))
	}
	return w
}
