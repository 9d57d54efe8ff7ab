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
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only flags that are given are sent.
type EditCmd struct {
	title       optString
	description optString
	category    optString
	priority    optString
	due         optString
	tags        optString
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return []string{"update"} }
func (c *EditCmd) Synopsis() string   { return "Change fields of a task" }
func (c *EditCmd) NeedsBackend() bool { return true }
func (c *EditCmd) Usage() string {
	return "tasktrack edit <id> [--title <text>] [--desc <text>] [--category <name>] [--priority <p>] [--due YYYY-MM-DD] [--tags a,b]"
}

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "desc", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.category, "category", "")
	fs.Var(&c.category, "c", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.tags, "tags", "")
	fs.Var(&c.tags, "t", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	upd, err := c.update()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if upd.IsEmpty() {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	task, err := svc.UpdateTask(ctx, id, upd)
	if err != nil {
		newLogger(cfg, errOut).Debug(output.MsgUpdateFailed, "id", id, "err", err)
		return reportError(errOut, err, id)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, output.MsgTaskUpdated(task.Title))
	}
	return exitcode.Success
}

// update builds the partial update from the flags that were set.
func (c *EditCmd) update() (service.TaskUpdate, error) {
	var upd service.TaskUpdate
	if c.title.set {
		title := strings.TrimSpace(c.title.value)
		if title == "" {
			return upd, fmt.Errorf("title required")
		}
		upd.Title = &title
	}
	if c.description.set {
		desc := strings.TrimSpace(c.description.value)
		upd.Description = &desc
	}
	if c.category.set {
		category := strings.TrimSpace(c.category.value)
		if category == "" {
			category = service.DefaultCategory
		}
		upd.Category = &category
	}
	if c.priority.set {
		p, err := service.ParsePriority(c.priority.value)
		if err != nil {
			return upd, err
		}
		upd.Priority = &p
	}
	if c.due.set && strings.TrimSpace(c.due.value) == "" {
		upd.ClearDue = true
	} else if c.due.set {
		d, err := service.ParseDate(c.due.value)
		if err != nil {
			return upd, err
		}
		upd.DueDate = &d
	}
	if c.tags.set {
		tags := service.ParseTags(c.tags.value)
		upd.Tags = &tags
	}
	return upd, nil
}
