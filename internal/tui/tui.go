// Package tui implements the interactive task board.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"tasktrack/internal/board"
	"tasktrack/internal/config"
	"tasktrack/internal/logging"
	"tasktrack/internal/service"
)

// Run shows the board on out until the user quits or ctx is cancelled.
// The terminal belongs to the board, so diagnostics go to the log file.
func Run(ctx context.Context, cfg *config.Config, svc service.Service, out io.Writer) error {
	logger, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	status, err := board.ParseStatus(cfg.DefaultStatus)
	if err != nil {
		logger.Warn("ignoring default status", "err", err)
		status = board.StatusAll
	}

	m := New(ctx, svc, Options{
		StatsInterval: cfg.StatsInterval.Duration,
		Status:        status,
		Logger:        logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))

	logger.Info("board started", "api", cfg.APIURL)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("board: %w", err)
	}
	logger.Info("board closed")
	return nil
}

func openLog(cfg *config.Config) (*log.Logger, func(), error) {
	f, err := cfg.OpenLog()
	if err != nil {
		return nil, nil, err
	}
	opts := logging.FromConfig(cfg)
	opts.ReportTimestamp = true
	return logging.New(f, opts), func() { f.Close() }, nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
