package xbar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	var sb strings.Builder
	err := Write(&sb, []Item{
		{Text: "Working: 1h 30m 🟡", Color: "#FFFFFF", Dropdown: Bool(false)},
		Separator,
		{Text: "Clock in", Shell: "/Users/me/xbar plugins/clock-in", Refresh: true, Disabled: true},
		{Text: "Open", Shell: "/usr/bin/open", Params: []string{"/tmp/.env"}},
		{Text: "a | b"},
		Separator,
		{Text: "Check my time", Href: "https://app.clockify.me/tracker"},
	})
	require.NoError(t, err)

	want := strings.Join([]string{
		"Working: 1h 30m 🟡 | color=#FFFFFF dropdown=false",
		"---",
		`Clock in | shell="/Users/me/xbar plugins/clock-in" terminal=false refresh=true disabled=true`,
		"Open | shell=/usr/bin/open param1=/tmp/.env terminal=false",
		"a ¦ b",
		"---",
		"Check my time | href=https://app.clockify.me/tracker",
	}, "\n") + "\n"
	assert.Equal(t, want, sb.String())
}
