// Package teaui is the terminal UI for browsing and writing a comment thread.
package teaui

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/rytisguru/nested-comments/pkg/thread"
)

// Run starts the UI for t in the alternate screen and blocks until it quits.
func Run(t *thread.Thread) error {
	p := tea.NewProgram(New(t), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
