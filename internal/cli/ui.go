package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Numbers are ANSI 256 colours.
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	// StyleTitle renders table headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	// StyleHighlight marks page boundaries in index tables.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTeal)
	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders sweep values and paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleNumber renders indices and page numbers.
	StyleNumber = lipgloss.NewStyle().Foreground(colorTeal)

	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFail    = lipgloss.NewStyle().Foreground(colorRed)
	styleWarn    = lipgloss.NewStyle().Foreground(colorAmber)
	styleNote    = lipgloss.NewStyle().Foreground(colorGray)
	styleSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// statusLine writes one icon-prefixed line.
func statusLine(w io.Writer, icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(w, icon.Render(glyph)+" "+msg)
}

func printSuccess(w io.Writer, format string, args ...any) {
	statusLine(w, styleOK, iconSuccess, fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	statusLine(w, styleFail, iconError, fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	statusLine(w, styleWarn, iconWarning, styleWarn.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	statusLine(w, styleNote, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail writes an indented, dimmed line under a status line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile writes one line per written page.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printSweepStats summarises a finished sweep on one line, e.g.
// "  12 images · 3 pages · 1 cached".
func printSweepStats(w io.Writer, iterations, pages, cacheHits int) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d images", iterations)),
		StyleDim.Render(fmt.Sprintf("%d pages", pages)),
	}
	if cacheHits > 0 {
		parts = append(parts, styleOK.Render(fmt.Sprintf("%d cached", cacheHits)))
	} else {
		parts = append(parts, styleNote.Render("fresh"))
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
