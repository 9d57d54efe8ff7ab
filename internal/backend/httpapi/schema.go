package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// taskSchema describes one task as returned by the backend. Optional fields
// may be null.
const taskSchema = `{
	"type": "object",
	"required": ["id", "title", "completed", "created_at"],
	"properties": {
		"id": {"type": "integer"},
		"title": {"type": "string"},
		"description": {"type": ["string", "null"]},
		"category": {"type": ["string", "null"]},
		"priority": {"type": ["string", "null"]},
		"due_date": {"type": ["string", "null"]},
		"tags": {"type": ["array", "null"], "items": {"type": "string"}},
		"completed": {"type": "boolean"},
		"created_at": {"type": "string"},
		"completed_at": {"type": ["string", "null"]},
		"updated_at": {"type": ["string", "null"]}
	}
}`

var (
	schemaTask = mustCompile("task.json", taskSchema)

	schemaTaskList = mustCompile("task-list.json", fmt.Sprintf(`{
		"type": "object",
		"required": ["tasks"],
		"properties": {"tasks": {"type": "array", "items": %s}}
	}`, taskSchema))

	schemaStats = mustCompile("stats.json", `{
		"type": "object",
		"required": ["total_tasks", "pending", "completed", "completion_rate"],
		"properties": {
			"total_tasks": {"type": "integer", "minimum": 0},
			"pending": {"type": "integer", "minimum": 0},
			"completed": {"type": "integer", "minimum": 0},
			"completion_rate": {"type": "number", "minimum": 0, "maximum": 100}
		}
	}`)

	schemaDeleted = mustCompile("deleted.json", fmt.Sprintf(`{
		"type": "object",
		"properties": {"message": {"type": "string"}, "task": %s}
	}`, taskSchema))

	schemaCleared = mustCompile("cleared.json", fmt.Sprintf(`{
		"type": "object",
		"required": ["cleared"],
		"properties": {
			"message": {"type": "string"},
			"cleared": {"type": "array", "items": %s}
		}
	}`, taskSchema))
)

func mustCompile(url, schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader([]byte(schema))); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", url, err))
	}
	return compiler.MustCompile(url)
}

// validateBody checks a response body against schema. The returned error is a
// *ShapeError locating the first offending value.
func validateBody(method, path string, schema *jsonschema.Schema, body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return &ShapeError{Method: method, Path: path, Message: "invalid JSON: " + err.Error()}
	}
	if err := schema.Validate(doc); err != nil {
		return toShapeError(method, path, err)
	}
	return nil
}

func toShapeError(method, path string, err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ShapeError{Method: method, Path: path, Message: err.Error()}
	}
	leaf := firstLeaf(ve)
	return &ShapeError{
		Method:   method,
		Path:     path,
		Location: leaf.InstanceLocation,
		Message:  leaf.Message,
	}
}

// firstLeaf walks to the first cause without further causes.
func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
