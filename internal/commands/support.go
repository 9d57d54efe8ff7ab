package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"tasktrack/internal/backend/httpapi"
	"tasktrack/internal/board"
	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/logging"
	"tasktrack/internal/service"
)

// reportError writes a backend failure in the CLI error format and returns
// the matching exit code. id is the task the call was about, or 0.
func reportError(errOut io.Writer, err error, id int64) int {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(errOut, "error: interrupted")
		return exitcode.UserError
	}
	if id > 0 && errors.Is(err, service.ErrNotFound) {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}

	var status *httpapi.StatusError
	if errors.As(err, &status) && status.Rejected() {
		msg := status.Message
		if msg == "" {
			msg = http.StatusText(status.Code)
		}
		fmt.Fprintf(errOut, "error: task rejected: %s\n", msg)
		return exitcode.UserError
	}

	var shape *httpapi.ShapeError
	if errors.As(err, &shape) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// newLogger returns the command logger. It writes to errOut so stdout stays
// parseable.
func newLogger(cfg *config.Config, errOut io.Writer) *log.Logger {
	return logging.New(errOut, logging.FromConfig(cfg))
}

// confirm asks a yes/no question on out and reads the answer from in.
// Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// confirmAction handles the --yes / prompt logic shared by destructive
// commands. It returns ok=false with an exit code when the action must not run.
func confirmAction(in io.Reader, yes bool, errOut io.Writer, prompt string) (ok bool, code int) {
	if yes {
		return true, exitcode.Success
	}
	if in == nil {
		in = os.Stdin
	}
	if _, isFile := in.(*os.File); isFile && !isTerminal(in) {
		fmt.Fprintln(errOut, "error: confirmation required (use --yes)")
		return false, exitcode.UserError
	}
	ok, err := confirm(in, errOut, prompt)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return false, exitcode.UserError
	}
	if !ok {
		fmt.Fprintln(errOut, "cancelled")
		return false, exitcode.Success
	}
	return true, exitcode.Success
}

// filterFlags are the view controls shared by list and export.
type filterFlags struct {
	status   string
	category string
	search   string
}

func (f *filterFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.status, "status", "", "")
	fs.StringVar(&f.status, "s", "", "")
	fs.StringVar(&f.category, "category", "", "")
	fs.StringVar(&f.category, "c", "", "")
	fs.StringVar(&f.search, "search", "", "")
	fs.StringVar(&f.search, "q", "", "")
}

// filter builds the board filter. An unset status falls back to the
// configured default.
func (f *filterFlags) filter(cfg *config.Config) (board.Filter, error) {
	status := f.status
	if status == "" {
		status = cfg.DefaultStatus
	}
	st, err := board.ParseStatus(status)
	if err != nil {
		return board.Filter{}, err
	}
	return board.Filter{
		Status:   st,
		Category: strings.TrimSpace(f.category),
		Search:   strings.TrimSpace(f.search),
	}, nil
}

// loadView fetches the snapshot and derives the filtered, sorted view.
func loadView(ctx context.Context, svc service.Service, f board.Filter, logger *log.Logger) ([]service.Task, error) {
	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	state := board.NewState()
	state.Replace(tasks)
	state.SetFilter(f)
	view := state.View()
	logger.Debug("derived view",
		"total", state.Len(),
		"shown", len(view),
		"status", f.Status,
		"category", f.Category,
		"search", f.Search,
	)
	return view, nil
}

// optString is a string flag that records whether it was set.
type optString struct {
	set   bool
	value string
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(v string) error {
	o.set = true
	o.value = v
	return nil
}
