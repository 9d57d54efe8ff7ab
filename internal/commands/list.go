package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/output"
	"tasktrack/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct {
	filterFlags
	format string
}

// SetFilter sets the view controls (for testing).
func (c *ListCmd) SetFilter(status, category, search string) {
	c.filterFlags = filterFlags{status: status, category: category, search: search}
}

// SetFormat sets the output format (for testing).
func (c *ListCmd) SetFormat(format string) {
	c.format = format
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) NeedsBackend() bool { return true }
func (c *ListCmd) Usage() string {
	return "tasktrack list [--status all|pending|completed] [--category <name>] [--search <text>] [--format text|json|yaml]"
}

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filterFlags.register(fs)
	fs.StringVar(&c.format, "format", "", "")
	fs.StringVar(&c.format, "f", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	filter, err := c.filter(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	format := output.FormatText
	if c.format != "" {
		format, err = output.ParseFormat(c.format)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if format == output.FormatPDF {
		fmt.Fprintln(errOut, "error: pdf output is only available via export")
		return exitcode.UserError
	}

	logger := newLogger(cfg, errOut)
	view, err := loadView(ctx, svc, filter, logger)
	if err != nil {
		logger.Debug(output.MsgLoadFailed, "err", err)
		return reportError(errOut, err, 0)
	}

	if err := output.WriteTasks(out, format, view); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
