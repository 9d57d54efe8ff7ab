package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/robfig/cron/v3"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/output"
	"tasktrack/internal/service"
)

// scheduleParser accepts standard 5-field cron expressions and descriptors
// such as "@every 30s" or "@hourly".
var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func init() {
	Register(&StatsCmd{})
}

// StatsCmd implements the stats command.
type StatsCmd struct {
	watch    bool
	schedule string
}

// SetWatch enables watch mode with the given schedule (for testing).
func (c *StatsCmd) SetWatch(watch bool, schedule string) {
	c.watch = watch
	c.schedule = schedule
}

func (c *StatsCmd) Name() string       { return "stats" }
func (c *StatsCmd) Aliases() []string  { return nil }
func (c *StatsCmd) Synopsis() string   { return "Show task counters" }
func (c *StatsCmd) Usage() string      { return "tasktrack stats [--watch] [--schedule <cron spec>]" }
func (c *StatsCmd) NeedsBackend() bool { return true }

func (c *StatsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.watch, "watch", false, "")
	fs.BoolVar(&c.watch, "w", false, "")
	fs.StringVar(&c.schedule, "schedule", "", "")
}

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	spec := c.schedule
	if spec == "" {
		spec = cfg.Schedule()
	}
	var sched cron.Schedule
	if c.watch {
		var err error
		if sched, err = scheduleParser.Parse(spec); err != nil {
			fmt.Fprintf(errOut, "error: invalid schedule: %s\n", spec)
			return exitcode.UserError
		}
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		return reportError(errOut, err, 0)
	}
	output.FormatStats(out, stats)
	if !c.watch {
		return exitcode.Success
	}

	// Background refreshes only log their failures.
	logger := newLogger(cfg, errOut)
	runner := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	runner.Schedule(sched, cron.FuncJob(func() {
		stats, err := svc.Stats(ctx)
		if err != nil {
			logger.Warn("stats refresh failed", "err", err)
			return
		}
		fmt.Fprintln(out)
		output.FormatStats(out, stats)
	}))
	logger.Debug("watching stats", "schedule", spec)

	runner.Start()
	<-ctx.Done()
	<-runner.Stop().Done()
	return exitcode.Success
}
