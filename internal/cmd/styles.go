package cmd

import "github.com/charmbracelet/lipgloss"

// Styles for the terminal summary printed after each command.
var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// renderTag styles a report status tag (OK, SKIP, FAIL) for the terminal.
func renderTag(tag string) string {
	switch tag {
	case "OK", "PASS":
		return okStyle.Render(tag)
	case "SKIP":
		return skipStyle.Render(tag)
	default:
		return failStyle.Render(tag)
	}
}
