// Package xbar writes menus in the xbar/SwiftBar plugin text format:
// one item per line, "text | key=value ...", with "---" separating the
// menu-bar title from the dropdown and groups within it.
package xbar

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Item is one menu line. The zero value of every optional field is omitted.
type Item struct {
	Text     string
	Color    string
	Dropdown *bool
	Shell    string
	Params   []string
	Terminal *bool
	Href     string
	Refresh  bool
	Disabled bool

	separator bool
}

// Separator splits groups of items.
var Separator = Item{separator: true}

// Bool is a helper for the optional boolean attributes.
func Bool(b bool) *bool { return &b }

// Write encodes items to w.
func Write(w io.Writer, items []Item) error {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(it.line())
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (it Item) line() string {
	if it.separator {
		return "---"
	}
	// "|" starts the attribute section, so it cannot appear in the text.
	text := strings.ReplaceAll(it.Text, "|", "¦")
	var attrs []string
	if it.Color != "" {
		attrs = append(attrs, "color="+it.Color)
	}
	if it.Dropdown != nil {
		attrs = append(attrs, "dropdown="+strconv.FormatBool(*it.Dropdown))
	}
	if it.Shell != "" {
		attrs = append(attrs, "shell="+quote(it.Shell))
		for i, p := range it.Params {
			attrs = append(attrs, fmt.Sprintf("param%d=%s", i+1, quote(p)))
		}
		terminal := false
		if it.Terminal != nil {
			terminal = *it.Terminal
		}
		attrs = append(attrs, "terminal="+strconv.FormatBool(terminal))
	}
	if it.Href != "" {
		attrs = append(attrs, "href="+quote(it.Href))
	}
	if it.Refresh {
		attrs = append(attrs, "refresh=true")
	}
	if it.Disabled {
		attrs = append(attrs, "disabled=true")
	}
	if len(attrs) == 0 {
		return text
	}
	return text + " | " + strings.Join(attrs, " ")
}

func quote(s string) string {
	if !strings.ContainsAny(s, " \t\"'") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
