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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
	in  io.Reader
}

// SetInput sets the reader confirmation answers come from (for testing).
func (c *RmCmd) SetInput(in io.Reader) {
	c.in = in
}

// SetYes skips the confirmation prompt (for testing).
func (c *RmCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "tasktrack rm [--yes] <id>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if ok, code := confirmAction(c.in, c.yes, errOut, output.MsgConfirmDelete); !ok {
		return code
	}

	if err := svc.DeleteTask(ctx, id); err != nil {
		newLogger(cfg, errOut).Debug(output.MsgDeleteFailed, "id", id, "err", err)
		return reportError(errOut, err, id)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, output.MsgTaskDeleted)
	}
	return exitcode.Success
}
