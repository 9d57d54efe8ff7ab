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
	Register(&ClearCmd{})
}

// ClearCmd implements the clear command.
type ClearCmd struct {
	yes bool
	in  io.Reader
}

// SetInput sets the reader confirmation answers come from (for testing).
func (c *ClearCmd) SetInput(in io.Reader) {
	c.in = in
}

func (c *ClearCmd) Name() string       { return "clear" }
func (c *ClearCmd) Aliases() []string  { return nil }
func (c *ClearCmd) Synopsis() string   { return "Delete all completed tasks" }
func (c *ClearCmd) Usage() string      { return "tasktrack clear [--yes]" }
func (c *ClearCmd) NeedsBackend() bool { return true }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	if ok, code := confirmAction(c.in, c.yes, errOut, output.MsgConfirmClear); !ok {
		return code
	}

	cleared, err := svc.ClearCompleted(ctx)
	if err != nil {
		return reportError(errOut, err, 0)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, output.MsgCleared(len(cleared)))
	}
	return exitcode.Success
}
