package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/output"
	"tasktrack/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	filterFlags
	format string
	out    string
}

// SetOutput sets the destination file and format (for testing).
func (c *ExportCmd) SetOutput(path, format string) {
	c.out = path
	c.format = format
}

func (c *ExportCmd) Name() string       { return "export" }
func (c *ExportCmd) Aliases() []string  { return nil }
func (c *ExportCmd) Synopsis() string   { return "Write the filtered task list to a file" }
func (c *ExportCmd) NeedsBackend() bool { return true }
func (c *ExportCmd) Usage() string {
	return "tasktrack export [--status <s>] [--category <name>] [--search <text>] [--format json|yaml|pdf] --out <file>"
}

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filterFlags.register(fs)
	fs.StringVar(&c.format, "format", "", "")
	fs.StringVar(&c.format, "f", "", "")
	fs.StringVar(&c.out, "out", "", "")
	fs.StringVar(&c.out, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.out == "" {
		fmt.Fprintln(errOut, "error: --out required")
		return exitcode.UserError
	}

	format, err := exportFormat(c.format, c.out)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	filter, err := c.filter(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	logger := newLogger(cfg, errOut)
	view, err := loadView(ctx, svc, filter, logger)
	if err != nil {
		return reportError(errOut, err, 0)
	}

	if err := c.write(format, view); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	logger.Debug("exported", "file", c.out, "format", format, "tasks", len(view))

	if !cfg.Quiet {
		fmt.Fprintf(out, "Exported %d tasks to %s\n", len(view), c.out)
	}
	return exitcode.Success
}

func (c *ExportCmd) write(format output.Format, tasks []service.Task) error {
	return writeFileAtomic(c.out, func(w io.Writer) error {
		if format == output.FormatPDF {
			return output.WritePDF(w, "Tasks", tasks, time.Now())
		}
		return output.WriteTasks(w, format, tasks)
	})
}

// writeFileAtomic writes to a temp file beside path and renames it over path.
// On failure nothing is left at path and any previous file is kept.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if err = write(f); err != nil {
		f.Close()
		return err
	}
	if err = f.Chmod(0o644); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// exportFormat resolves the format from the flag, falling back to the file
// extension and then to JSON.
func exportFormat(flagValue, path string) (output.Format, error) {
	if flagValue != "" {
		return output.ParseFormat(flagValue)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "txt":
		return output.FormatText, nil
	case "yaml", "yml", "pdf", "json":
		return output.ParseFormat(ext)
	default:
		return output.FormatJSON, nil
	}
}
