package commands

import (
	"context"
	"flag"
	"io"

	"tasktrack/internal/board"
	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/output"
	"tasktrack/internal/service"
)

func init() {
	Register(&CategoriesCmd{})
}

// CategoriesCmd implements the categories command.
type CategoriesCmd struct{}

func (c *CategoriesCmd) Name() string       { return "categories" }
func (c *CategoriesCmd) Aliases() []string  { return []string{"cats"} }
func (c *CategoriesCmd) Synopsis() string   { return "List the categories in use" }
func (c *CategoriesCmd) Usage() string      { return "tasktrack categories" }
func (c *CategoriesCmd) NeedsBackend() bool { return true }

func (c *CategoriesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CategoriesCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return reportError(errOut, err, 0)
	}
	output.FormatCategories(out, board.Categories(tasks))
	return exitcode.Success
}
