// Package template substitutes named placeholders in header, footer and
// label texts.
//
// The syntax is a small subset of brace formatting: {name} is replaced by
// the value registered for name, {{ and }} produce literal braces, and a
// format spec after a colon ({name:>4}) is accepted but ignored. A lone
// brace that does not open or close a placeholder is kept as-is, and so is
// a placeholder without a name ({} or {:>4}).
//
// Substitution never fails. A reference to an unknown name replaces the
// whole text with an inline error message so the problem is visible in the
// rendered image instead of aborting the build.
package template

import (
	"fmt"
	"strings"
)

// UnknownVariable returns the inline text rendered for an unknown name.
func UnknownVariable(name string) string {
	return fmt.Sprintf("Error: unknown variable '%s'", name)
}

// Unescape turns the two-character sequence `\n` into a newline.
func Unescape(text string) string {
	return strings.ReplaceAll(text, `\n`, "\n")
}

// Apply unescapes text and substitutes every placeholder from vars.
func Apply(text string, vars map[string]string) string {
	text = Unescape(text)
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				b.WriteString(text[i:])
				return b.String()
			}
			name := fieldName(text[i+1 : i+1+end])
			if name == "" {
				b.WriteString(text[i : i+end+2])
				i += end + 1
				continue
			}
			val, ok := vars[name]
			if !ok {
				return UnknownVariable(name)
			}
			b.WriteString(val)
			i += end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Names returns the placeholder names referenced by text, in order of first
// appearance.
func Names(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		if i+1 < len(text) && text[i+1] == '{' {
			i++
			continue
		}
		end := strings.IndexByte(text[i+1:], '}')
		if end < 0 {
			break
		}
		name := fieldName(text[i+1 : i+1+end])
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		i += end + 1
	}
	return names
}

// fieldName strips a format spec or conversion from a placeholder body.
func fieldName(body string) string {
	if j := strings.IndexAny(body, ":!"); j >= 0 {
		body = body[:j]
	}
	return strings.TrimSpace(body)
}
