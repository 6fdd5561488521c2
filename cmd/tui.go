package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackrater/internal/shared"
	"github.com/desertthunder/trackrater/internal/ui"
	"github.com/urfave/cli/v3"
)

// UI launches the interactive rating page.
func (r *Runner) UI(ctx context.Context, cmd *cli.Command) error {
	if r.features == nil {
		return fmt.Errorf("%w: feature client not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closer.Close()

	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.features, r.player, shared.WithLogger(fileLogger, "session", shared.GenerateID()))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
