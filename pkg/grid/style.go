package grid

import (
	"encoding/json"
	"strconv"

	"github.com/matzehuels/xyplot/pkg/errors"
	"github.com/matzehuels/xyplot/pkg/fonts"
)

// Style configures the cell grid and its row and column labels.
type Style struct {
	Gap             int    `toml:"gap" json:"gap"`
	BackgroundColor string `toml:"background_color" json:"background_color"`
	Font            string `toml:"font" json:"font"`
	FontSize        int    `toml:"font_size" json:"font_size"`
	FontColor       string `toml:"font_color" json:"font_color"`
	PadColHeaders   int    `toml:"pad_col_headers" json:"pad_col_headers"`
	PadRowHeaders   int    `toml:"pad_row_headers" json:"pad_row_headers"`
	WrapColHeaders  int    `toml:"wrap_col_headers" json:"wrap_col_headers"` // characters, 0 disables
	WrapRowHeaders  int    `toml:"wrap_row_headers" json:"wrap_row_headers"` // characters, 0 disables
}

// DefaultStyle returns the grid style used when nothing is configured.
func DefaultStyle() Style {
	return Style{
		Gap:             20,
		BackgroundColor: "#b9b9b9",
		Font:            fonts.Regular,
		FontSize:        50,
		FontColor:       "#444",
		PadColHeaders:   30,
		PadRowHeaders:   50,
	}
}

// UnmarshalJSON decodes s over the defaults, so omitted fields keep their
// default values.
func (s *Style) UnmarshalJSON(data []byte) error {
	type plain Style
	p := plain(DefaultStyle())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Style(p)
	return nil
}

// Validate checks sizes and colors. Fonts are resolved when drawing.
func (s Style) Validate() error {
	if s.Gap < 0 || s.PadColHeaders < 0 || s.PadRowHeaders < 0 || s.WrapColHeaders < 0 || s.WrapRowHeaders < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "grid gap, paddings and wraps cannot be negative")
	}
	if s.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "grid font size must be positive, got %d", s.FontSize)
	}
	if s.Font == "" {
		return errors.New(errors.ErrCodeFontNotFound, "grid font is empty")
	}
	if _, err := ParseBackground(s.BackgroundColor); err != nil {
		return err
	}
	_, err := ParseColor(s.FontColor)
	return err
}

// HeaderFooterStyle configures a page header or footer band.
type HeaderFooterStyle struct {
	TextLeft        string `toml:"text_left" json:"text_left"`
	TextCenter      string `toml:"text_center" json:"text_center"`
	TextRight       string `toml:"text_right" json:"text_right"`
	BackgroundColor string `toml:"background_color" json:"background_color"` // "transparent" inherits the grid background
	Font            string `toml:"font" json:"font"`
	FontSize        int    `toml:"font_size" json:"font_size"`
	FontColor       string `toml:"font_color" json:"font_color"`
	Padding         int    `toml:"padding" json:"padding"`
}

// DefaultHeaderFooterStyle returns the band style used when nothing is
// configured. All texts are empty, so the band is not drawn.
func DefaultHeaderFooterStyle() HeaderFooterStyle {
	return HeaderFooterStyle{
		BackgroundColor: Transparent,
		Font:            fonts.Bold,
		FontSize:        60,
		FontColor:       "#222",
		Padding:         30,
	}
}

// UnmarshalJSON decodes s over the defaults, so omitted fields keep their
// default values.
func (s *HeaderFooterStyle) UnmarshalJSON(data []byte) error {
	type plain HeaderFooterStyle
	p := plain(DefaultHeaderFooterStyle())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = HeaderFooterStyle(p)
	return nil
}

// Empty reports whether the band has no text to draw.
func (s *HeaderFooterStyle) Empty() bool {
	return s == nil || (s.TextLeft == "" && s.TextCenter == "" && s.TextRight == "")
}

// Validate checks sizes and colors.
func (s HeaderFooterStyle) Validate() error {
	if s.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "header/footer padding cannot be negative")
	}
	if s.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "header/footer font size must be positive, got %d", s.FontSize)
	}
	if s.Font == "" {
		return errors.New(errors.ErrCodeFontNotFound, "header/footer font is empty")
	}
	if _, err := ParseBackground(s.BackgroundColor); err != nil {
		return err
	}
	_, err := ParseColor(s.FontColor)
	return err
}

// texts returns the band texts in left, center, right order.
func (s *HeaderFooterStyle) texts() [3]string {
	return [3]string{s.TextLeft, s.TextCenter, s.TextRight}
}

// PageVars are the variables available to header and footer templates.
type PageVars struct {
	CurrentPage int `json:"current_page"` // 1-based
	TotalPages  int `json:"total_pages"`
}

// Vars returns the template lookup table.
func (v PageVars) Vars() map[string]string {
	return map[string]string{
		"current_page": strconv.Itoa(v.CurrentPage),
		"total_pages":  strconv.Itoa(v.TotalPages),
	}
}

// Align is the horizontal placement of a band text.
type Align string

// Band text alignments.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

var bandAligns = [3]Align{AlignLeft, AlignCenter, AlignRight}
