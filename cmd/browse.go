package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"mixtape/internal/shared"
	"mixtape/internal/ui"
)

// Browse launches the interactive terminal browser over the local library.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mixtape-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	lib, err := r.openLibrary(cmd.String("config"))
	if err != nil {
		return err
	}
	defer lib.Close()

	model := ui.NewModel(lib.playlists, lib.catalog)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
