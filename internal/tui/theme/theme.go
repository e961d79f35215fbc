package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/subtriage/internal/subscription"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	DemoBadge  lipgloss.Style
	Section    lipgloss.Style
	StatCount  lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style
	Card       lipgloss.Style
	ActiveCard lipgloss.Style
	Alert      lipgloss.Style
	Empty      lipgloss.Style

	StatusPending lipgloss.Style
	StatusKeep    lipgloss.Style
	StatusToss    lipgloss.Style
	StatusArchive lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface2 := lipgloss.Color("#585b70")
	cpBase := lipgloss.Color("#1e1e2e")

	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:  lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		DemoBadge: lipgloss.NewStyle().Bold(true).Foreground(cpBase).Background(cpYellow).Padding(0, 1),
		Section:   lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		StatCount: lipgloss.NewStyle().Foreground(cpYellow).Bold(true),
		MetaLabel: lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue: lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle: lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn: lipgloss.NewStyle().Foreground(cpRed),
		StateLoad: lipgloss.NewStyle().Foreground(cpPeach),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cpSurface2).
			Foreground(cpText).
			Padding(0, 1),
		ActiveCard: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(cpLavender).
			Foreground(cpText).
			Padding(0, 1),
		Alert: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(cpRed).
			Foreground(cpText).
			Padding(1, 2),
		Empty: lipgloss.NewStyle().Bold(true).Foreground(cpGreen),

		StatusPending: lipgloss.NewStyle().Foreground(cpSubtext0),
		StatusKeep:    lipgloss.NewStyle().Bold(true).Foreground(cpGreen),
		StatusToss:    lipgloss.NewStyle().Bold(true).Foreground(cpRed),
		StatusArchive: lipgloss.NewStyle().Bold(true).Foreground(cpBlue),
	}
}

func (t Theme) StatusStyle(status subscription.Status) lipgloss.Style {
	switch status {
	case subscription.StatusKeep:
		return t.StatusKeep
	case subscription.StatusToss:
		return t.StatusToss
	case subscription.StatusArchive:
		return t.StatusArchive
	default:
		return t.StatusPending
	}
}

// StyleStatus renders a status label in its status color.
func (t Theme) StyleStatus(status subscription.Status, label string) string {
	if label == "" {
		return label
	}
	return t.StatusStyle(status).Render(label)
}

func (t Theme) RenderCard(active bool, body string, width int) string {
	style := t.Card
	if active {
		style = t.ActiveCard
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(body)
}
