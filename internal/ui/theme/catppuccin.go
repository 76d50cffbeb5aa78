package theme

import "github.com/charmbracelet/lipgloss"

var (
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Red      = lipgloss.Color("#f38ba8")
	Crust    = lipgloss.Color("#11111b")

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Focus = lipgloss.NewStyle().Foreground(Sapphire)
	Label = lipgloss.NewStyle().Bold(true).Background(Sapphire).Foreground(Crust)

	TierLow    = lipgloss.NewStyle().Foreground(Red)
	TierMedium = lipgloss.NewStyle().Foreground(Yellow)
	TierHigh   = lipgloss.NewStyle().Foreground(Green)
)

// ForTier picks the style for a tier name as reported by the session stats.
func ForTier(tier string) lipgloss.Style {
	switch tier {
	case "high":
		return TierHigh
	case "medium":
		return TierMedium
	default:
		return TierLow
	}
}
