package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"tasktrack/internal/service"
)

// Format selects how a task list is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatPDF  Format = "pdf"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatPDF:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format: %s", s)
	}
}

// Document is the machine-readable envelope for a task list.
type Document struct {
	Tasks []service.Task `json:"tasks" yaml:"tasks"`
}

// WriteTasks writes tasks in the given format. Text uses RenderList.
func WriteTasks(w io.Writer, format Format, tasks []service.Task) error {
	if tasks == nil {
		tasks = []service.Task{}
	}
	switch format {
	case FormatText, "":
		RenderList(w, tasks)
		return nil
	case FormatJSON:
		return WriteJSON(w, Document{Tasks: tasks})
	case FormatYAML:
		return WriteYAML(w, Document{Tasks: tasks})
	default:
		return fmt.Errorf("format %s is not supported here", format)
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML with two-space indentation.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
