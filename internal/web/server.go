// Package web serves the dashboard as a JSON API.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/branchdash/loandash/internal/combine"
	"github.com/branchdash/loandash/internal/dashboard"
	"github.com/branchdash/loandash/internal/model"
	"github.com/branchdash/loandash/internal/report"
	"github.com/branchdash/loandash/internal/table"
)

// Defaults fill in query parameters the client leaves out.
type Defaults struct {
	Title  string
	Branch string
	Status string
}

// Server is the HTTP server for the loan dashboard.
type Server struct {
	service  *dashboard.Service
	defaults Defaults
	logger   *zap.Logger
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a Server.
func NewServer(service *dashboard.Service, defaults Defaults, logger *zap.Logger) *Server {
	s := &Server{
		service:  service,
		defaults: defaults,
		logger:   logger,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/files", s.handleFiles)
		r.Get("/options", s.handleOptions)
		r.Get("/summary", s.handleSummary)
		r.Get("/export", s.handleExport)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr until Shutdown is called. It returns
// http.ErrServerClosed after a clean shutdown.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
	return s.server.Serve(ln)
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type filesResponse struct {
	Choices []string    `json:"choices"`
	Files   []fileEntry `json:"files"`
}

type fileEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.service.Files(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := filesResponse{Choices: []string{combine.Combined}, Files: make([]fileEntry, len(files))}
	for i, f := range files {
		resp.Choices = append(resp.Choices, f.Name)
		resp.Files[i] = fileEntry{ID: f.ID, Name: f.Name, Size: f.Size}
	}
	writeJSON(w, http.StatusOK, resp)
}

type optionsResponse struct {
	File     string   `json:"file"`
	Branches []string `json:"branches"`
	Statuses []string `json:"statuses"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	file := s.fileParam(r)
	branches, statuses, err := s.service.Options(r.Context(), file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, optionsResponse{File: file, Branches: branches, Statuses: statuses})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	maxRows := 0
	if v := r.URL.Query().Get("rows"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "bad_request", Message: "rows must be an integer"})
			return
		}
		maxRows = n
	}

	file := s.fileParam(r)
	sel := s.selection(r)

	res, err := s.service.Summarize(r.Context(), file, sel)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report.NewPayload(report.View{
		Title:     s.defaults.Title,
		File:      file,
		Selection: sel,
		Result:    res,
		MaxRows:   maxRows,
	}))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Summarize(r.Context(), s.fileParam(r), s.selection(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="loans.csv"`)
	if err := table.WriteCSV(w, res.Filtered); err != nil {
		s.logger.Error("writing export", zap.Error(err))
	}
}

func (s *Server) fileParam(r *http.Request) string {
	if f := r.URL.Query().Get("file"); f != "" {
		return f
	}
	return combine.Combined
}

func (s *Server) selection(r *http.Request) model.FilterSelection {
	q := r.URL.Query()
	sel := model.FilterSelection{Branch: q.Get("branch"), Status: q.Get("status")}
	if sel.Branch == "" {
		sel.Branch = s.defaults.Branch
	}
	if sel.Status == "" {
		sel.Status = s.defaults.Status
	}
	return sel
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
