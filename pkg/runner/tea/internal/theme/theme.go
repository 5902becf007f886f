package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Title  lipgloss.Style
	Thread ThreadTheme
	Form   FormTheme
	Footer FooterTheme
}

// ThreadTheme styles the rows of the comment tree.
type ThreadTheme struct {
	Author  lipgloss.Style
	Date    lipgloss.Style
	Likes   lipgloss.Style
	Cursor  lipgloss.Style
	Pending lipgloss.Style
	Error   lipgloss.Style
	Hidden  lipgloss.Style
	Empty   lipgloss.Style
}

// FormTheme styles the reply and edit input.
type FormTheme struct {
	Frame lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	return Theme{
		Title: lipgloss.NewStyle().Bold(true).Underline(true),
		Thread: ThreadTheme{
			Author:  lipgloss.NewStyle().Bold(true),
			Date:    faint,
			Likes:   lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
			Cursor:  lipgloss.NewStyle().Foreground(lipgloss.Color("218")).Bold(true),
			Pending: faint,
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			Hidden:  faint.Italic(true),
			Empty:   faint,
		},
		Form: FormTheme{
			Frame: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
	}
}
