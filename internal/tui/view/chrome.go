package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/subtriage/internal/triage"
	tuitheme "github.com/glabrego/subtriage/internal/tui/theme"
)

func Toolbar(swipeMode, remote bool) string {
	session := "g sign in"
	if remote {
		session = "x sign out"
	}
	if swipeMode {
		return "→ keep | ← toss | ↓ archive | ↑ skip | t grid | / search | tab filter | e export | p pdf | " + session + " | ? help"
	}
	return "1 keep | 2 toss | 3 archive | ←/→ move | t swipe | / search | tab filter | e export | p pdf | " + session + " | ? help"
}

// Header renders the title line with counters and the demo badge.
func Header(stats triage.Stats, remote bool, th tuitheme.Theme) string {
	parts := []string{th.Title.Render("SubStudio")}
	if !remote {
		parts = append(parts, th.DemoBadge.Render("DEMO"))
	}
	parts = append(parts,
		statCount("total", stats.Total, th),
		statCount("pending", stats.Pending, th),
		statCount("keep", stats.Keep, th),
		statCount("toss", stats.Toss, th),
		statCount("archive", stats.Archive, th),
	)
	return strings.Join(parts, " ")
}

func statCount(label string, n int, th tuitheme.Theme) string {
	return th.MetaLabel.Render(label) + " " + th.StatCount.Render(fmt.Sprintf("%d", n))
}

func Footer(mode string, filter triage.Filter, shown, total int, searchTerm string, searchFocused bool, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(mode),
		th.MetaLabel.Render("filter") + " " + th.MetaValue.Render(string(filter)),
		th.MetaValue.Render(fmt.Sprintf("%d of %d shown", shown, total)),
	}
	if searchTerm != "" || searchFocused {
		label := fmt.Sprintf("%q", searchTerm)
		if searchFocused {
			label += " (typing)"
		}
		parts = append(parts, th.MetaLabel.Render("search")+" "+th.MetaValue.Render(label))
	}
	return strings.Join(parts, " • ")
}

func Message(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

// Alert renders a blocking notice that must be dismissed before continuing.
func Alert(title, body string, width int, th tuitheme.Theme) string {
	style := th.Alert
	if width > 8 {
		style = style.Width(min(width-4, 72))
	}
	content := th.StateWarn.Render(title) + "\n\n" + body + "\n\n" + th.MetaLabel.Render("press enter or esc to dismiss")
	return style.Render(content)
}
