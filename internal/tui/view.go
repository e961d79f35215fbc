package tui

import (
	"strings"

	"github.com/glabrego/subtriage/internal/triage"
	tuiview "github.com/glabrego/subtriage/internal/tui/view"
)

const chromeLines = 12

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(tuiview.Header(m.board.Stats(), m.remote, m.theme))
	b.WriteString("\n")
	b.WriteString(tuiview.Toolbar(m.swipeMode, m.remote))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case m.alert != nil:
		b.WriteString(tuiview.Alert(m.alert.title, m.alert.body, m.width, m.theme))
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading subscriptions...")
	case m.showHelp:
		m.help.ShowAll = true
		b.WriteString(m.help.View(m.keys))
	case m.swipeMode:
		b.WriteString(m.swipeView())
	default:
		b.WriteString(m.gridView())
	}
	b.WriteString("\n\n")

	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) gridView() string {
	maxRows := 0
	if m.height > 0 {
		maxRows = max(1, (m.height-chromeLines)/6)
	}
	return tuiview.RenderGrid(m.board.FilteredView(), m.board.Cursor(), m.moving, m.width, maxRows, m.theme)
}

func (m Model) swipeView() string {
	rec, ok := m.board.Current()
	if !ok {
		return tuiview.EmptyState(m.theme)
	}
	return tuiview.RenderSwipeCard(tuiview.CardParams{
		Record: rec,
		Active: true,
		Moving: m.moving(rec.ID),
	}, m.board.Cursor(), len(m.board.FilteredView()), m.theme)
}

func (m Model) moving(id string) triage.Direction {
	t, ok := m.board.Transition(id)
	if !ok {
		return ""
	}
	return t.Direction
}

func (m Model) messagePanel() string {
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	return tuiview.Message(m.loading, m.err != nil, m.status, warning, m.theme)
}

func (m Model) footer() string {
	mode := "grid"
	if m.swipeMode {
		mode = "swipe"
	}
	return tuiview.Footer(mode, m.board.Filter(), len(m.board.FilteredView()), m.board.Len(), m.board.SearchTerm(), m.search.Focused(), m.theme)
}
