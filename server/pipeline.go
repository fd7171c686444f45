package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/pipelayer/errors"
	"github.com/kbukum/pipelayer/logger"
	"github.com/kbukum/pipelayer/manifest"
	"github.com/kbukum/pipelayer/observability"
	"github.com/kbukum/pipelayer/pipeline"
	"github.com/kbukum/pipelayer/server/middleware"
	"github.com/kbukum/pipelayer/validation"
)

// Binder turns a request into the data fed to the pipeline.
type Binder func(c *gin.Context) (any, error)

// PipelineEndpoint serves one pipeline over HTTP. Runs are serialized
// because a Pipeline must not run concurrently.
type PipelineEndpoint struct {
	pipeline     *pipeline.Pipeline
	settings     any
	log          *logger.Logger
	bind         Binder
	withManifest bool
	format       manifest.Format
	indent       int

	mu       sync.Mutex
	runs     int
	failures int
	lastRun  time.Time
	lastErr  error
}

// EndpointOption configures a PipelineEndpoint.
type EndpointOption func(*PipelineEndpoint)

// WithSettings sets the value exposed by Context.Settings() during runs.
func WithSettings(settings any) EndpointOption {
	return func(e *PipelineEndpoint) { e.settings = settings }
}

// WithLogger sets the logger handed to steps through the Context.
func WithLogger(log *logger.Logger) EndpointOption {
	return func(e *PipelineEndpoint) {
		if log != nil {
			e.log = log
		}
	}
}

// WithBinder replaces the default JSON body binding.
func WithBinder(b Binder) EndpointOption {
	return func(e *PipelineEndpoint) {
		if b != nil {
			e.bind = b
		}
	}
}

// WithManifest embeds the run manifest in every successful response.
func WithManifest(include bool) EndpointOption {
	return func(e *PipelineEndpoint) { e.withManifest = include }
}

// WithManifestFormat sets the default rendering of the manifest endpoint.
func WithManifestFormat(format manifest.Format, indent int) EndpointOption {
	return func(e *PipelineEndpoint) {
		e.format = format
		e.indent = indent
	}
}

// NewPipelineEndpoint wraps p.
func NewPipelineEndpoint(p *pipeline.Pipeline, opts ...EndpointOption) *PipelineEndpoint {
	e := &PipelineEndpoint{
		pipeline: p,
		log:      logger.Nop(),
		bind:     BindJSON,
		format:   manifest.FormatJSON,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register mounts POST path (run) and GET path+"/manifest" on r.
func (e *PipelineEndpoint) Register(r gin.IRoutes, path string) {
	r.POST(path, e.Run())
	r.GET(path+"/manifest", e.Manifest())
}

// Run returns the handler that feeds the bound request data through the
// pipeline and responds with its output.
func (e *PipelineEndpoint) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := e.bind(c)
		if err != nil {
			RespondWithError(c, err)
			return
		}

		log := e.log.WithFields(logger.Fields("request_id", middleware.GetRequestID(c)))
		ctx := pipeline.NewContext(c.Request.Context(), e.settings, log)

		e.mu.Lock()
		out, err := e.pipeline.Run(data, ctx)
		runID := e.pipeline.RunID()
		m := e.pipeline.Manifest()
		e.record(err)
		e.mu.Unlock()

		if err != nil {
			log.Warn("pipeline request failed", logger.Fields(
				logger.FieldPipeline, e.pipeline.Name(),
				logger.FieldRunID, runID,
				logger.FieldError, err.Error(),
			))
			RespondWithError(c, err)
			return
		}

		resp := DataResponse{Data: out, RunID: runID}
		if e.withManifest {
			resp.Manifest = m
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Manifest returns the handler rendering the manifest of the latest run.
// The format and indent query parameters override the defaults.
func (e *PipelineEndpoint) Manifest() gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.DefaultQuery("format", string(e.format))
		indent := e.indent
		if raw := c.Query("indent"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				RespondWithError(c, errors.InvalidInput("indent", "must be a non-negative integer"))
				return
			}
			indent = n
		}
		if err := validation.New().OneOf("format", format, manifest.Formats()).Err(); err != nil {
			RespondWithError(c, err)
			return
		}

		e.mu.Lock()
		m := e.pipeline.Manifest()
		e.mu.Unlock()
		if m == nil {
			RespondWithError(c, errors.NotFound("manifest"))
			return
		}

		f := manifest.Format(format)
		out, err := manifest.RenderAs(m, f, indent)
		if err != nil {
			RespondWithError(c, err)
			return
		}
		c.Data(http.StatusOK, f.ContentType(), []byte(out))
	}
}

func (e *PipelineEndpoint) record(err error) {
	e.runs++
	e.lastRun = time.Now().UTC()
	e.lastErr = err
	if err != nil {
		e.failures++
	}
}

// CheckHealth reports the pipeline as degraded while its latest run failed.
func (e *PipelineEndpoint) CheckHealth(context.Context) observability.Health {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := observability.Health{
		Name:   "pipeline:" + e.pipeline.Name(),
		Status: observability.HealthStatusUp,
		Details: map[string]string{
			"runs":     strconv.Itoa(e.runs),
			"failures": strconv.Itoa(e.failures),
		},
	}
	if !e.lastRun.IsZero() {
		h.Details["last_run"] = e.lastRun.Format(time.RFC3339)
	}
	if e.lastErr != nil {
		h.Status = observability.HealthStatusDegraded
		h.Message = e.lastErr.Error()
	}
	return h
}

// BindJSON decodes the request body as JSON. An empty body yields nil data.
func BindJSON(c *gin.Context) (any, error) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil, nil
	}
	var data any
	if err := c.ShouldBindJSON(&data); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, bodyError(err)
	}
	return data, nil
}

// BindStruct decodes the JSON body into a new T and checks its validate
// tags. The pipeline receives a T value.
func BindStruct[T any]() Binder {
	return func(c *gin.Context) (any, error) {
		var v T
		if err := c.ShouldBindJSON(&v); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, bodyError(err)
		}
		if err := validation.Validate(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

func bodyError(err error) *errors.AppError {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			http.StatusRequestEntityTooLarge).WithCause(err)
	}
	return errors.InvalidInput("body", err.Error()).WithCause(err)
}
