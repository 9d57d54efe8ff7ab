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
	Register(&StatusCmd{})
}

// StatusCmd implements the status command.
type StatusCmd struct{}

func (c *StatusCmd) Name() string       { return "status" }
func (c *StatusCmd) Aliases() []string  { return []string{"health"} }
func (c *StatusCmd) Synopsis() string   { return "Check the API connection" }
func (c *StatusCmd) Usage() string      { return "tasktrack status" }
func (c *StatusCmd) NeedsBackend() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ok, err := svc.Health(ctx)
	if err != nil {
		newLogger(cfg, errOut).Debug("health check failed", "api", cfg.APIURL, "err", err)
		ok = false
	}

	fmt.Fprintln(out, output.HealthText(ok))
	if !ok {
		return exitcode.BackendError
	}
	return exitcode.Success
}
