package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/njovanovic/studyplan/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StateColor returns the lipgloss style for a queue state.
func StateColor(state domain.QueueState) lipgloss.Style {
	switch state {
	case domain.QueueDone:
		return StyleGreen
	case domain.QueueInProgress:
		return StyleYellow
	case domain.QueueRemoved:
		return StyleDim
	default:
		return StyleBlue
	}
}

// StateIndicator returns a colored state marker such as "● IN PROGRESS".
func StateIndicator(state domain.QueueState) string {
	switch state {
	case domain.QueueDone:
		return StyleGreen.Render("● DONE")
	case domain.QueueInProgress:
		return StyleYellow.Render("● IN PROGRESS")
	case domain.QueueRemoved:
		return StyleDim.Render("● REMOVED")
	default:
		return StyleBlue.Render("● QUEUED")
	}
}

// CategoryLabel renders a curriculum category in its priority color.
func CategoryLabel(c domain.Category) string {
	switch c {
	case domain.CategoryMust:
		return StyleRed.Render("must")
	case domain.CategoryNice:
		return StyleDim.Render("nice")
	default:
		return StyleFg.Render("good")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
