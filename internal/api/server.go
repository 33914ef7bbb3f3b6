// Package api serves the solver over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
	"github.com/vovakirdan/mirrorhouse/internal/cache"
	"github.com/vovakirdan/mirrorhouse/internal/metrics"
	"github.com/vovakirdan/mirrorhouse/internal/mirror"
	"github.com/vovakirdan/mirrorhouse/internal/storage"
)

const (
	maxBodyBytes  = 1 << 20
	maxStepsLimit = 1_000_000
	defaultLimit  = 20
)

// RunStore persists and lists finished runs.
type RunStore interface {
	SaveRun(r storage.RunRecord) (int64, error)
	RecentRuns(limit int) ([]storage.RunRecord, error)
	RunsForBoard(boardID string, limit int) ([]storage.RunRecord, error)
}

// ResultCache stores run summaries by board content.
type ResultCache interface {
	Key(boardHash string, maxSteps int, legacyRightGate bool) string
	Get(ctx context.Context, key string) (cache.Summary, bool, error)
	Put(ctx context.Context, key string, s cache.Summary) error
}

// Deps are the collaborators of the handler. Store, Cache and Metrics
// are optional.
type Deps struct {
	Store           RunStore
	Cache           ResultCache
	Metrics         *metrics.Collector
	Logger          *log.Logger
	MaxSteps        int
	LegacyRightGate bool
}

// Server handles the API requests.
type Server struct {
	deps Deps
}

// NewHandler creates the HTTP handler.
func NewHandler(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	s := &Server{deps: d}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/health", s.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.Solve)
		r.Post("/validate", s.Validate)
		r.Get("/runs", s.Runs)
	})
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	return r
}

// unmatchedRoute labels requests no route matched, keeping the path
// label set bounded.
const unmatchedRoute = "unmatched"

// instrument logs each request and records it in the metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := unmatchedRoute
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		s.deps.Logger.Info("request", "method", r.Method, "path", r.URL.Path, "route", path, "status", status, "duration", elapsed)
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordHTTPRequest(r.Method, path, status, elapsed)
		}
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BoardRequest carries a board description.
type BoardRequest struct {
	ID     string `json:"id,omitempty"`
	Board  string `json:"board"`
	Format string `json:"format,omitempty"` // txt (default), yaml or toml
}

// SolveRequest is the body of POST /v1/solve.
type SolveRequest struct {
	BoardRequest
	MaxSteps int  `json:"max_steps,omitempty"`
	Trace    bool `json:"trace,omitempty"`
}

// Step is one trace entry.
type Step struct {
	Index     int    `json:"step"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Direction string `json:"direction"`
	Reflected bool   `json:"reflected,omitempty"`
}

// SolveResponse is the body of a successful solve.
type SolveResponse struct {
	ID       string        `json:"id,omitempty"`
	Hash     string        `json:"hash"`
	MaxSteps int           `json:"max_steps"`
	Solved   bool          `json:"solved"`
	Result   cache.Summary `json:"result"`
	Cached   bool          `json:"cached"`
	Trace    []Step        `json:"trace,omitempty"`
}

// ValidateResponse is the body of a successful validation.
type ValidateResponse struct {
	Valid     bool   `json:"valid"`
	Hash      string `json:"hash"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Mirrors   int    `json:"mirrors"`
	EntryX    int    `json:"entry_x"`
	EntryY    int    `json:"entry_y"`
	Direction string `json:"direction"`
}

// ErrorResponse is returned with every 4xx/5xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Solve handles POST /v1/solve.
func (s *Server) Solve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if !decode(w, r, &req) {
		return
	}

	maxSteps := req.MaxSteps
	if maxSteps <= 0 {
		maxSteps = s.deps.MaxSteps
	}
	if maxSteps <= 0 {
		maxSteps = mirror.DefaultMaxSteps
	}
	if maxSteps > maxStepsLimit {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST",
			fmt.Sprintf("max_steps must not exceed %d", maxStepsLimit))
		return
	}

	def, b, beam, err := s.load(req.BoardRequest)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	hash := def.Hash()
	resp := SolveResponse{ID: def.ID, Hash: hash, MaxSteps: maxSteps}

	var key string
	if s.deps.Cache != nil && !req.Trace {
		key = s.deps.Cache.Key(hash, maxSteps, s.deps.LegacyRightGate)
		sum, ok, err := s.deps.Cache.Get(r.Context(), key)
		if err != nil {
			s.deps.Logger.Warn("cache read failed", "error", err)
		}
		if ok {
			s.countCache(true)
			resp.Result = sum
			resp.Cached = true
			resp.Solved = sum.Outcome == mirror.OutcomeExited.String()
			writeJSON(w, http.StatusOK, resp)
			return
		}
		s.countCache(false)
	}

	var opts []mirror.RunOption
	if !req.Trace {
		opts = append(opts, mirror.WithoutTrace())
	}
	reflections := 0
	opts = append(opts, mirror.WithObserver(func(rec mirror.StepRecord) {
		if rec.Reflected {
			reflections++
		}
	}))
	res := mirror.Run(b, beam, maxSteps, opts...)

	resp.Result = cache.SummaryOf(res)
	resp.Result.Reflections = reflections
	resp.Solved = res.Outcome.Solved()
	for _, rec := range res.Trace {
		resp.Trace = append(resp.Trace, Step{
			Index:     rec.Index,
			X:         rec.Pos.X,
			Y:         rec.Pos.Y,
			Direction: rec.Dir.String(),
			Reflected: rec.Reflected,
		})
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveRun(res.Outcome, reflections)
	}
	if key != "" {
		if err := s.deps.Cache.Put(r.Context(), key, resp.Result); err != nil {
			s.deps.Logger.Warn("cache write failed", "error", err)
		}
	}
	if s.deps.Store != nil {
		rec := storage.NewRunRecord(boardID(def, hash), hash, b, res.Outcome, maxSteps, "api")
		if _, err := s.deps.Store.SaveRun(rec); err != nil {
			s.deps.Logger.Warn("could not record run", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Validate handles POST /v1/validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var req BoardRequest
	if !decode(w, r, &req) {
		return
	}

	def, b, beam, err := s.load(req)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:     true,
		Hash:      def.Hash(),
		Width:     b.W,
		Height:    b.H,
		Mirrors:   b.MirrorCount(),
		EntryX:    beam.Pos.X,
		EntryY:    beam.Pos.Y,
		Direction: beam.Dir.String(),
	})
}

// RunView is the JSON form of a stored run.
type RunView struct {
	ID        int64     `json:"id"`
	BoardID   string    `json:"board_id"`
	BoardHash string    `json:"board_hash"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Mirrors   int       `json:"mirrors"`
	Outcome   string    `json:"outcome"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Direction string    `json:"direction"`
	Steps     int       `json:"steps"`
	MaxSteps  int       `json:"max_steps"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Runs handles GET /v1/runs?board=&limit=.
func (s *Server) Runs(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "HISTORY_DISABLED", "run history is disabled")
		return
	}

	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
			return
		}
		limit = n
	}

	var (
		runs []storage.RunRecord
		err  error
	)
	if board := r.URL.Query().Get("board"); board != "" {
		runs, err = s.deps.Store.RunsForBoard(board, limit)
	} else {
		runs, err = s.deps.Store.RecentRuns(limit)
	}
	if err != nil {
		s.deps.Logger.Error("listing runs", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "could not list runs")
		return
	}

	views := make([]RunView, 0, len(runs))
	for _, run := range runs {
		views = append(views, RunView{
			ID:        run.ID,
			BoardID:   run.BoardID,
			BoardHash: run.BoardHash,
			Width:     run.Width,
			Height:    run.Height,
			Mirrors:   run.Mirrors,
			Outcome:   run.Outcome.String(),
			X:         run.ExitPos.X,
			Y:         run.ExitPos.Y,
			Direction: run.ExitDir.String(),
			Steps:     run.Steps,
			MaxSteps:  run.MaxSteps,
			Source:    run.Source,
			CreatedAt: run.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) load(req BoardRequest) (boardfile.Definition, *mirror.Board, mirror.Beam, error) {
	format := strings.TrimPrefix(strings.ToLower(req.Format), ".")
	if format == "" {
		format = "txt"
	}

	def, err := boardfile.Parse([]byte(req.Board), "."+format)
	if err != nil {
		return boardfile.Definition{}, nil, mirror.Beam{}, err
	}
	if req.ID != "" {
		def.ID = req.ID
	}

	var opts []mirror.BoardOption
	if s.deps.LegacyRightGate {
		opts = append(opts, mirror.WithLegacyRightGate())
	}
	b, beam, err := def.Build(opts...)
	if err != nil {
		return boardfile.Definition{}, nil, mirror.Beam{}, err
	}
	return def, b, beam, nil
}

func (s *Server) countCache(hit bool) {
	if s.deps.Metrics == nil {
		return
	}
	if hit {
		s.deps.Metrics.CacheHit()
	} else {
		s.deps.Metrics.CacheMiss()
	}
}

// boardID names anonymous boards by a hash prefix.
func boardID(def boardfile.Definition, hash string) string {
	if def.ID != "" {
		return def.ID
	}
	return "anon-" + hash[:12]
}

// -- Helpers --

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// errorCode maps load errors to stable machine-readable codes.
func errorCode(err error) string {
	if errors.Is(err, boardfile.ErrMalformedBoard) {
		return "MALFORMED_BOARD"
	}
	if code := mirror.Code(err); code != "INTERNAL" {
		return code
	}
	return "INVALID_REQUEST"
}

func writeLoadError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, errorCode(err), err.Error())
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("encode error: %v\n", err)
	}
}
