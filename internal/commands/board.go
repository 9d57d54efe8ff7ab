package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/service"
	"tasktrack/internal/tui"
)

func init() {
	Register(&BoardCmd{})
}

// BoardCmd implements the board command.
type BoardCmd struct{}

func (c *BoardCmd) Name() string       { return "board" }
func (c *BoardCmd) Aliases() []string  { return []string{"ui"} }
func (c *BoardCmd) Synopsis() string   { return "Open the interactive task board" }
func (c *BoardCmd) Usage() string      { return "tasktrack board" }
func (c *BoardCmd) NeedsBackend() bool { return true }
func (c *BoardCmd) OwnsTerminal() bool { return true }

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BoardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !isTerminal(os.Stdin) || !tui.IsTerminal(out) {
		fmt.Fprintln(errOut, "error: board requires a terminal")
		return exitcode.UserError
	}

	if err := tui.Run(ctx, cfg, svc, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
