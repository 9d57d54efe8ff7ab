// Package httpapi implements the service.Service interface against the task
// tracker REST API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"tasktrack/internal/config"
	"tasktrack/internal/service"
	"tasktrack/internal/telemetry"
)

const (
	// RequestIDHeader carries a per-call identifier for server-side correlation.
	RequestIDHeader = "X-Request-ID"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 8 << 20
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	tracer    trace.Tracer
	logger    *log.Logger
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTracer sets the tracer used for per-call client spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for the API at cfg.APIURL.
func New(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		baseURL:   cfg.APIURL,
		timeout:   cfg.Timeout.Duration,
		tracer:    nooptrace.NewTracerProvider().Tracer(telemetry.TracerName),
		logger:    log.New(io.Discard),
		userAgent: config.AppName,
	}
	if c.timeout <= 0 {
		c.timeout = config.DefaultTimeout
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Transport: telemetry.WrapTransport(nil)}
	}
	return c
}

// Health reports whether GET /health answered with a success status.
func (c *Client) Health(ctx context.Context) (bool, error) {
	resp, err := c.send(ctx, "health", http.MethodGet, "/health", nil)
	if err != nil {
		return false, err
	}
	return resp.code >= 200 && resp.code < 300, nil
}

// ListTasks returns all tasks in backend order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var out struct {
		Tasks []service.Task `json:"tasks"`
	}
	if err := c.call(ctx, "list", http.MethodGet, "/tasks", nil, schemaTaskList, &out); err != nil {
		return nil, err
	}
	if out.Tasks == nil {
		out.Tasks = []service.Task{}
	}
	return out.Tasks, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, id int64) (service.Task, error) {
	var task service.Task
	err := c.call(ctx, "get", http.MethodGet, taskPath(id), nil, schemaTask, &task, telemetry.AttrTaskID.Int64(id))
	return task, err
}

// Stats returns the server-side counters.
func (c *Client) Stats(ctx context.Context) (service.Stats, error) {
	var stats service.Stats
	err := c.call(ctx, "stats", http.MethodGet, "/stats", nil, schemaStats, &stats)
	return stats, err
}

// CreateTask posts a new task.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	var task service.Task
	err := c.call(ctx, "create", http.MethodPost, "/tasks", in, schemaTask, &task)
	return task, err
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id int64, upd service.TaskUpdate) (service.Task, error) {
	var task service.Task
	err := c.call(ctx, "update", http.MethodPut, taskPath(id), upd, schemaTask, &task, telemetry.AttrTaskID.Int64(id))
	return task, err
}

// ToggleTask flips the completion state.
func (c *Client) ToggleTask(ctx context.Context, id int64) (service.Task, error) {
	var task service.Task
	err := c.call(ctx, "toggle", http.MethodPatch, taskPath(id)+"/toggle", nil, schemaTask, &task, telemetry.AttrTaskID.Int64(id))
	return task, err
}

// DeleteTask deletes a task. The echoed task in the response is discarded.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.call(ctx, "delete", http.MethodDelete, taskPath(id), nil, schemaDeleted, nil, telemetry.AttrTaskID.Int64(id))
}

// ClearCompleted deletes all completed tasks.
func (c *Client) ClearCompleted(ctx context.Context) ([]service.Task, error) {
	var out struct {
		Cleared []service.Task `json:"cleared"`
	}
	if err := c.call(ctx, "clear", http.MethodDelete, "/tasks/clear-completed", nil, schemaCleared, &out); err != nil {
		return nil, err
	}
	return out.Cleared, nil
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

type response struct {
	code int
	body []byte
}

// call sends a request, maps non-2xx answers to *StatusError, validates the
// body against schema and decodes it into out (when non-nil).
func (c *Client) call(ctx context.Context, op, method, path string, in any, schema *jsonschema.Schema, out any, attrs ...attribute.KeyValue) error {
	resp, err := c.send(ctx, op, method, path, in, attrs...)
	if err != nil {
		return err
	}
	if resp.code < 200 || resp.code >= 300 {
		return &StatusError{
			Method:  method,
			Path:    path,
			Code:    resp.code,
			Message: errorMessage(resp.body),
		}
	}
	if err := validateBody(method, path, schema, resp.body); err != nil {
		c.logger.Debug("response shape mismatch", "method", method, "path", path, "err", err)
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &ShapeError{Method: method, Path: path, Message: err.Error()}
	}
	return nil
}

// send performs one HTTP exchange under the per-call timeout and returns the
// raw status and body. Only transport failures are returned as errors.
func (c *Client) send(ctx context.Context, op, method, path string, in any, attrs ...attribute.KeyValue) (response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestID := newRequestID()
	attrs = append(attrs, telemetry.AttrOperation.String(op), telemetry.AttrRequestID.String(requestID))
	ctx, span := telemetry.StartClientSpan(ctx, c.tracer, method+" "+path, attrs...)
	defer span.End()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return response{}, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return response{}, wrapError(method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		span.RecordError(err)
		return response{}, wrapError(method, path, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return response{code: resp.StatusCode, body: data}, nil
}

// errorMessage extracts the "error" field of an error body, if present.
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return payload.Error
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
