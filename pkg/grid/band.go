package grid

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/xyplot/pkg/errors"
)

// bandHeight is the tallest text of the band plus padding above and below.
func bandHeight(s *HeaderFooterStyle, texts [3]string) int {
	var h int
	for _, t := range texts {
		h = max(h, textHeight(t, s.FontSize)+2*s.Padding)
	}
	return h
}

func fillBand(canvas draw.Image, r image.Rectangle, s *HeaderFooterStyle, gridBg color.NRGBA) {
	draw.Draw(canvas, r, image.NewUniform(bandColor(s, gridBg)), image.Point{}, draw.Src)
}

// TextAnchor returns where a band text with the given alignment is drawn
// in a band of size w x h: the anchor point and the horizontal anchor
// fraction (0 left, 0.5 centre, 1 right). Texts are vertically centred.
func TextAnchor(align Align, w, h, padding int) (x, y, ax float64, err error) {
	y = float64(h / 2)
	switch align {
	case AlignLeft:
		return float64(padding), y, 0, nil
	case AlignCenter:
		return float64(w / 2), y, 0.5, nil
	case AlignRight:
		return float64(w - padding), y, 1, nil
	}
	return 0, 0, 0, errors.New(errors.ErrCodeInvalidAlign,
		"invalid align value '%s': must be 'left', 'right' or 'center'", align)
}

func drawBand(dc *gg.Context, s *HeaderFooterStyle, face font.Face, texts [3]string, top, w, h int) error {
	fg, err := ParseColor(s.FontColor)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(fg)
	for i, align := range bandAligns {
		if texts[i] == "" {
			continue
		}
		x, y, ax, err := TextAnchor(align, w, h, s.Padding)
		if err != nil {
			return err
		}
		drawLines(dc, texts[i], x, float64(top)+y, ax, s.FontSize)
	}
	return nil
}
