// Package api serves the arcade over HTTP/JSON.
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xtding233/arcade-backend/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server handles HTTP requests.
type Server struct {
	svc     *service.Service
	log     *zap.Logger
	origins []string
	started time.Time
}

func NewServer(svc *service.Service, log *zap.Logger, origins []string) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Server{svc: svc, log: log.With(zap.String("component", "http")), origins: origins, started: time.Now()}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         60 * 15,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/games", s.handleGames)

	r.Route("/wheel/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateWheel)
		r.Get("/{id}", s.handleWheelStatus)
		r.Delete("/{id}", s.handleCloseWheel)
		r.Post("/{id}/spin", s.handleSpin)
		r.Post("/{id}/topup", s.handleTopUp)
		r.Get("/{id}/topup/plan", s.handlePlanTopUp)
		r.Get("/{id}/history", s.handleHistory)
	})

	r.Route("/runner", func(r chi.Router) {
		r.Post("/runs", s.handleCreateRun)
		r.Get("/runs/{id}", s.handleRunStatus)
		r.Post("/runs/{id}/tick", s.handleTick)
		r.Post("/runs/{id}/restart", s.handleRestart)
		r.Get("/leaderboard", s.handleLeaderboard)
	})

	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type errorResp struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode response", zap.Error(err))
	}
}

// writeError maps service errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrUnknownGame):
		status, code = http.StatusNotFound, "unknown_game"
	case errors.Is(err, service.ErrUnknownPack):
		status, code = http.StatusNotFound, "unknown_pack"
	case errors.Is(err, service.ErrBusy):
		status, code = http.StatusConflict, "busy"
	case errors.Is(err, service.ErrGameOver):
		status, code = http.StatusConflict, "game_over"
	case errors.Is(err, service.ErrInsufficientFunds):
		status, code = http.StatusPaymentRequired, "insufficient_funds"
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, errBadRequest):
		status, code = http.StatusBadRequest, "bad_request"
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, errorResp{Error: err.Error(), Code: code})
}

var errBadRequest = errors.New("bad request")

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

func parseInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Join(errBadRequest, errors.New("invalid "+key))
	}
	return n, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.svc.Games(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, games)
}
