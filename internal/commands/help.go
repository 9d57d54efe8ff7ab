package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "tasktrack help [command]" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		cmd, ok := DefaultRegistry.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		fmt.Fprintf(out, "%s\n\nUsage:\n  %s\n", cmd.Synopsis(), cmd.Usage())
		return exitcode.Success
	}
	fmt.Fprint(out, helpText)
	fmt.Fprintln(out, "\nCommands:")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-12s %s\n", cmd.Name(), cmd.Synopsis())
	}
	return exitcode.Success
}

const helpText = `Usage:
  tasktrack                                 List tasks (same as list)
  tasktrack list [common flags] [--status all|pending|completed] [--category <name>]
                 [--search <text>] [--format text|json|yaml]
  tasktrack add [common flags] [--desc <text>] [--category <name>] [--priority <p>]
                [--due YYYY-MM-DD] [--tags a,b] <title...>
  tasktrack toggle [common flags] <id>
  tasktrack edit [common flags] <id> [--title <text>] [--desc <text>] [--category <name>]
                 [--priority <p>] [--due YYYY-MM-DD] [--tags a,b]
  tasktrack rm [common flags] [--yes] <id>
  tasktrack show [common flags] [--format text|json|yaml] <id>
  tasktrack stats [common flags] [--watch] [--schedule <cron spec>]
  tasktrack status [common flags]
  tasktrack categories [common flags]
  tasktrack clear [common flags] [--yes]
  tasktrack export [common flags] [filter flags] [--format json|yaml|pdf] --out <file>
  tasktrack board [common flags]
  tasktrack help [command]
  tasktrack version

Priorities: low, medium, high, urgent
An empty --due on edit clears the due date.

Common flags:
  --config <dir>   Override config directory
  --api <url>      Override the API base URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
