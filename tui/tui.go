// Package tui renders tasks as cards and hosts the interactive list and
// detail views.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, api API, opts ...Option) error {
	// NewModel settles the markdown style before the program takes the terminal.
	model := NewModel(ctx, api, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
