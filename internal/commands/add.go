package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/output"
	"tasktrack/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	category    string
	priority    string
	due         string
	tags        string
}

// SetFields sets the optional task fields (for testing).
func (c *AddCmd) SetFields(description, category, priority, due, tags string) {
	c.description = description
	c.category = category
	c.priority = priority
	c.due = due
	c.tags = tags
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) NeedsBackend() bool { return true }
func (c *AddCmd) Usage() string {
	return "tasktrack add [--desc <text>] [--category <name>] [--priority low|medium|high|urgent] [--due YYYY-MM-DD] [--tags a,b] <title...>"
}

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.category, "category", "", "")
	fs.StringVar(&c.category, "c", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.tags, "tags", "", "")
	fs.StringVar(&c.tags, "t", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Join args to form title; an empty title never reaches the backend.
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	in, err := service.NewTaskInput(title, c.description, c.category, c.priority, c.due, c.tags)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	logger := newLogger(cfg, errOut)
	logger.Debug("creating task", "title", in.Title, "category", in.Category, "priority", in.Priority)

	task, err := svc.CreateTask(ctx, in)
	if err != nil {
		logger.Debug(output.MsgAddFailed, "err", err)
		return reportError(errOut, err, 0)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, output.MsgTaskAdded(task.Title))
	}
	return exitcode.Success
}
