// Package server exposes the compiler over HTTP for editor and CI
// integrations.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	compiler "github.com/mjmahone/fragc/internal/compiler"
	eventbus "github.com/mjmahone/fragc/internal/eventbus"
	events "github.com/mjmahone/fragc/internal/events"
	reqid "github.com/mjmahone/fragc/internal/reqid"
	validation "github.com/mjmahone/fragc/internal/validation"
)

var (
	compileTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fragc_compile_total",
		Help: "Compile requests served over HTTP by result.",
	}, []string{"status"})
	compileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fragc_compile_duration_seconds",
		Help:    "Latency of compile requests.",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler is an http.Handler serving the compiler endpoints:
// POST /check validates a document, POST /compile also returns the
// rewritten output, GET /metrics serves Prometheus metrics.
type Handler struct {
	opt Options
	mux *http.ServeMux
}

type Options struct {
	// Timeout sets a default timeout if the incoming request context has none.
	// 0 means no default timeout.
	Timeout time.Duration

	// Pretty enables indented JSON responses (useful for dev).
	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// CORS configuration. If AllowedOrigins is empty, CORS is disabled.
	CORS CORSOptions
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                 { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithCORS(origins ...string) Option {
	return func(o *Options) { o.CORS.AllowedOrigins = origins }
}

// CORSOptions holds simple CORS settings.
type CORSOptions struct {
	AllowedOrigins []string
}

// New creates the tool server handler.
func New(opts ...Option) *Handler {
	op := Options{Timeout: 10 * time.Second}
	for _, f := range opts {
		f(&op)
	}
	h := &Handler{opt: op}
	mux := http.NewServeMux()
	mux.HandleFunc("/check", h.compileEndpoint(false))
	mux.HandleFunc("/compile", h.compileEndpoint(true))
	mux.Handle("/metrics", promhttp.Handler())
	h.mux = mux
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}
	ctx, _ = reqid.NewContext(ctx)
	r = r.WithContext(ctx)

	start := time.Now()
	eventbus.Publish(ctx, events.HTTPStart{Request: r})
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		eventbus.Publish(ctx, events.HTTPFinish{
			Request:  r,
			Route:    r.URL.Path,
			Status:   rec.status,
			Duration: time.Since(start),
		})
	}()

	if len(h.opt.CORS.AllowedOrigins) > 0 {
		setCORSHeaders(rec, r, h.opt.CORS)
	}
	if r.Method == http.MethodOptions {
		rec.WriteHeader(http.StatusNoContent)
		return
	}

	h.mux.ServeHTTP(rec, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// ------------------ Endpoints ------------------

// CompileRequest is the body of /check and /compile.
type CompileRequest struct {
	Query    string `json:"query"`
	Filename string `json:"filename,omitempty"`
}

// CompileResponse is the success body of /compile.
type CompileResponse struct {
	Document string `json:"document"`
	// Resolved maps each fragment declaring arguments to the values
	// substituted into its body, rendered as GraphQL.
	Resolved map[string]map[string]string `json:"resolved"`
}

// CheckResponse is the success body of /check.
type CheckResponse struct {
	OK bool `json:"ok"`
}

type errorsResponse struct {
	Errors []responseError `json:"errors"`
}

type responseError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (h *Handler) compileEndpoint(includeDocument bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorsResponse{Errors: []responseError{
				{Kind: "BadRequest", Message: "method not allowed"},
			}}, h.opt.Pretty)
			return
		}
		req, status, perr := parseRequest(r, h.opt.MaxBodyBytes)
		if perr != nil {
			compileTotal.WithLabelValues("bad_request").Inc()
			writeJSON(w, status, errorsResponse{Errors: []responseError{*perr}}, h.opt.Pretty)
			return
		}

		start := time.Now()
		res, err := compiler.CompileSource(r.Context(), req.Filename, req.Query)
		compileDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			compileTotal.WithLabelValues("invalid").Inc()
			writeJSON(w, http.StatusUnprocessableEntity, toErrorsResponse(err), h.opt.Pretty)
			return
		}
		compileTotal.WithLabelValues("ok").Inc()

		if !includeDocument {
			writeJSON(w, http.StatusOK, CheckResponse{OK: true}, h.opt.Pretty)
			return
		}
		resolved := make(map[string]map[string]string, len(res.Resolved))
		for frag, bindings := range res.Resolved {
			vals := make(map[string]string, len(bindings))
			for arg, value := range bindings {
				vals[arg] = value.String()
			}
			resolved[frag] = vals
		}
		writeJSON(w, http.StatusOK, CompileResponse{Document: res.Rendered, Resolved: resolved}, h.opt.Pretty)
	}
}

func toErrorsResponse(err error) errorsResponse {
	var verr validation.ValidationError
	if errors.As(err, &verr) {
		out := errorsResponse{Errors: make([]responseError, len(verr))}
		for i, v := range verr {
			out.Errors[i] = responseError{
				Kind:    string(v.Kind),
				Message: v.Message,
				File:    v.File,
				Line:    v.Line,
				Column:  v.Column,
			}
		}
		return out
	}
	return errorsResponse{Errors: []responseError{{Kind: "ParseError", Message: err.Error()}}}
}

// ------------------ Request parsing ------------------

const errBodyTooLargeMessage = "body too large"

func parseRequest(r *http.Request, maxBody int64) (CompileRequest, int, *responseError) {
	reader := io.Reader(r.Body)
	if maxBody > 0 {
		reader = io.LimitReader(r.Body, maxBody+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return CompileRequest{}, http.StatusBadRequest, &responseError{Kind: "BadRequest", Message: "failed to read body"}
	}
	defer r.Body.Close()
	if maxBody > 0 && int64(len(body)) > maxBody {
		return CompileRequest{}, http.StatusRequestEntityTooLarge, &responseError{Kind: "BadRequest", Message: errBodyTooLargeMessage}
	}

	var req CompileRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return CompileRequest{}, http.StatusBadRequest, &responseError{Kind: "BadRequest", Message: "invalid JSON"}
	}
	if req.Query == "" {
		return CompileRequest{}, http.StatusBadRequest, &responseError{Kind: "BadRequest", Message: "missing 'query'"}
	}
	if req.Filename == "" {
		req.Filename = "request.graphql"
	}
	return req, http.StatusOK, nil
}

// ------------------ Response formatting ------------------

func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

func setCORSHeaders(w http.ResponseWriter, r *http.Request, opts CORSOptions) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	allowed := false
	for _, o := range opts.AllowedOrigins {
		if o == "*" || o == origin {
			allowed = true
			break
		}
	}
	if !allowed {
		return
	}
	if contains(opts.AllowedOrigins, "*") {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}
	if r.Method == http.MethodOptions {
		if hdr := r.Header.Get("Access-Control-Request-Headers"); hdr != "" {
			w.Header().Set("Access-Control-Allow-Headers", hdr)
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST,OPTIONS")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
