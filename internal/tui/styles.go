package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/contactbook/internal/form"
)

// MinTableWidth is the minimum character width for the contacts pane.
const MinTableWidth = 40

// SelectedMarker is shown in the first column of the selected row.
const SelectedMarker = "▸"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	labelStyle = lipgloss.NewStyle().Bold(true)

	mutedText = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"}).
			Padding(1, 2)
)

// buttonColors maps each command to its button background.
var buttonColors = map[form.CommandKind]lipgloss.Color{
	form.Add:    lipgloss.Color("#4CAF50"),
	form.Search: lipgloss.Color("#2196F3"),
	form.Edit:   lipgloss.Color("#FFC107"),
	form.Delete: lipgloss.Color("#F44336"),
}

// buttonLabels are the command captions shown in the button row.
var buttonLabels = map[form.CommandKind]string{
	form.Add:    "Add Contact",
	form.Search: "Search Contact",
	form.Edit:   "Edit Contact",
	form.Delete: "Delete Selected",
}

// Button renders a command caption as a colored button.
func Button(kind form.CommandKind) string {
	return lipgloss.NewStyle().
		Background(buttonColors[kind]).
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 2).
		Render(buttonLabels[kind])
}

// FocusedBorder returns a lipgloss style with an accent-colored rounded border.
func FocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
}

// UnfocusedBorder returns a lipgloss style with a dim rounded border.
func UnfocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})
}

// PaneWidths splits the total width between the contacts table and the
// details pane. The table gets 2/3 (minimum MinTableWidth).
func PaneWidths(totalWidth int) (table, details int) {
	if totalWidth <= 0 {
		return 0, 0
	}
	table = totalWidth * 2 / 3
	if table < MinTableWidth {
		table = MinTableWidth
	}
	details = totalWidth - table
	if details < 0 {
		details = 0
	}
	return table, details
}
