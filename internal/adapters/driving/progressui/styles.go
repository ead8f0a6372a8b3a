package progressui

import (
	"github.com/charmbracelet/lipgloss"
)

// uiStyles holds the pre-configured lipgloss styles for the display.
type uiStyles struct {
	// Title styles the "Transforming <source>" header.
	Title lipgloss.Style

	// Count styles the big counters.
	Count lipgloss.Style

	// Label styles the text after each counter.
	Label lipgloss.Style

	// Errors styles the malformed-line counter when it is non-zero.
	Errors lipgloss.Style

	// Elapsed styles the wall-clock line.
	Elapsed lipgloss.Style
}

func defaultStyles() uiStyles {
	return uiStyles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		Count:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CDD6F4")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Errors:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
		Elapsed: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}
