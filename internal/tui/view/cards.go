package view

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/subtriage/internal/subscription"
	"github.com/glabrego/subtriage/internal/triage"
	tuitheme "github.com/glabrego/subtriage/internal/tui/theme"
)

const (
	gridCardWidth  = 30
	swipeCardWidth = 56
	descLines      = 3
)

type CardParams struct {
	Record subscription.Record
	Active bool
	// Moving is the direction of an unsettled classification, if any.
	Moving triage.Direction
}

func movingLabel(d triage.Direction) string {
	switch d {
	case triage.DirectionRight:
		return "→ keeping"
	case triage.DirectionLeft:
		return "← tossing"
	case triage.DirectionDown:
		return "↓ archiving"
	}
	return ""
}

func RenderGridCard(p CardParams, th tuitheme.Theme) string {
	inner := gridCardWidth - 4
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(truncateRunes(p.Record.Name, inner)),
		th.MetaValue.Render(truncateRunes(p.Record.Handle, inner)),
		th.MetaLabel.Render(truncateRunes(p.Record.SubCount+" subscribers", inner)),
		statusLine(p.Record.Status, p.Moving, th),
	}
	return th.RenderCard(p.Active, strings.Join(lines, "\n"), gridCardWidth)
}

// GridColumns is how many cards fit side by side in width.
func GridColumns(width int) int {
	if width <= 0 {
		return 1
	}
	return max(1, width/(gridCardWidth+2))
}

// RenderGrid lays cards out in rows that fit width. When maxRows is positive
// only the rows around the cursor are drawn.
func RenderGrid(records []subscription.Record, cursor int, moving func(id string) triage.Direction, width, maxRows int, th tuitheme.Theme) string {
	if len(records) == 0 {
		return EmptyState(th)
	}
	cols := GridColumns(width)
	totalRows := (len(records) + cols - 1) / cols
	firstRow, lastRow := 0, totalRows
	if maxRows > 0 && totalRows > maxRows {
		cursorRow := cursor / cols
		firstRow = max(0, cursorRow-maxRows/2)
		if firstRow+maxRows > totalRows {
			firstRow = totalRows - maxRows
		}
		lastRow = firstRow + maxRows
	}

	rows := make([]string, 0, lastRow-firstRow)
	for start := firstRow * cols; start < len(records) && start < lastRow*cols; start += cols {
		end := min(start+cols, len(records))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, RenderGridCard(CardParams{
				Record: records[i],
				Active: i == cursor,
				Moving: moving(records[i].ID),
			}, th))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderSwipeCard shows the current record in full, one at a time.
func RenderSwipeCard(p CardParams, position, total int, th tuitheme.Theme) string {
	inner := swipeCardWidth - 4
	lines := []string{
		th.MetaLabel.Render(fmt.Sprintf("%d / %d", position+1, total)),
		"",
		lipgloss.NewStyle().Bold(true).Render(truncateRunes(p.Record.Name, inner)),
		th.MetaValue.Render(truncateRunes(p.Record.Handle, inner)),
		th.MetaLabel.Render(p.Record.SubCount + " subscribers"),
		"",
	}
	if desc := strings.TrimSpace(p.Record.Description); desc != "" {
		lines = append(lines, wrapLines(desc, inner, descLines)...)
		lines = append(lines, "")
	}
	lines = append(lines, statusLine(p.Record.Status, p.Moving, th))
	return th.RenderCard(true, strings.Join(lines, "\n"), swipeCardWidth)
}

func statusLine(status subscription.Status, moving triage.Direction, th tuitheme.Theme) string {
	line := th.StyleStatus(status, status.String())
	if label := movingLabel(moving); label != "" {
		line += " " + th.StateLoad.Render(label)
	}
	return line
}

func EmptyState(th tuitheme.Theme) string {
	return th.Empty.Render("All Clear!") + "\n" + th.MetaLabel.Render("Nothing left in this view. Press tab to change the filter.")
}

func wrapLines(s string, width, maxLines int) []string {
	words := strings.Fields(s)
	lines := make([]string, 0, maxLines)
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() > 0 && utf8.RuneCountInString(cur.String())+1+utf8.RuneCountInString(w) > width {
			lines = append(lines, cur.String())
			cur.Reset()
			if len(lines) == maxLines {
				lines[maxLines-1] = truncateRunes(lines[maxLines-1]+" "+w, width)
				return lines
			}
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, truncateRunes(cur.String(), width))
	}
	return lines
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
