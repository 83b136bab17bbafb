// Package server exposes the roster over HTTP for the browser UI:
// spreadsheet upload, record listing, inline edits, toggles, reminder
// messages and the xlsx export download.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/streetfamily/roster/pkg/config"
	"github.com/streetfamily/roster/pkg/reminder"
	"github.com/streetfamily/roster/pkg/roster"
	"github.com/streetfamily/roster/pkg/workbook"
)

// Server handles HTTP requests for the roster.
type Server struct {
	config *config.Config
	logger *log.Logger
	mux    *http.ServeMux
	store  *roster.Store
}

// New creates a new HTTP server over the given store.
func New(cfg *config.Config, store *roster.Store, logger *log.Logger) *Server {
	s := &Server{
		config: cfg,
		logger: logger,
		mux:    http.NewServeMux(),
		store:  store,
	}
	s.setupRoutes()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server on the configured address.
func (s *Server) Start() error {
	return http.ListenAndServe(s.config.Addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/upload", s.withLogging(s.handleUpload))
	s.mux.HandleFunc("/api/students", s.withLogging(s.handleStudents))
	s.mux.HandleFunc("/api/students/", s.withLogging(s.handleStudent))
	s.mux.HandleFunc("/api/stats", s.withLogging(s.handleStats))
	s.mux.HandleFunc("/api/export", s.withLogging(s.handleExport))
	s.mux.HandleFunc("/api/visibility", s.withLogging(s.handleVisibility))
	s.mux.HandleFunc("/api/tarifs", s.withLogging(s.handleTarifs))
}

// ---------------- upload ----------------

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	file, header, err := r.FormFile("roster")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	rows, err := workbook.Decode(data, header.Filename)
	if err != nil {
		// Decode failure leaves the previous roster untouched.
		s.respondError(w, r, http.StatusBadRequest, "failed to decode file", err)
		return
	}

	s.store.Load(rows)
	stats := s.store.Stats()
	s.logger.Info("roster loaded", "file", header.Filename, "rows", len(rows), "students", stats.Total)

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"file":   header.Filename,
		"stats":  stats,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// ---------------- listing and stats ----------------

func (s *Server) handleStudents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"students": s.store.All(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"stats":  s.store.Stats(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// ---------------- per-student actions ----------------

func (s *Server) handleStudent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/students/")
	idPart, action, _ := strings.Cut(rest, "/")
	id, err := strconv.Atoi(idPart)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid student id", err)
		return
	}

	switch action {
	case "":
		s.handleEdit(w, r, id)
	case "toggle":
		s.store.ToggleActive(id)
		s.respondStudent(w, id)
	case "reminder":
		s.handleReminder(w, r, id)
	default:
		s.respondError(w, r, http.StatusNotFound, "unknown action", nil)
	}
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request, id int) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid edit body", err)
		return
	}
	s.store.SetFields(id, fields)
	s.respondStudent(w, id)
}

func (s *Server) respondStudent(w http.ResponseWriter, id int) {
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"student": s.store.Get(id),
		"stats":   s.store.Stats(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleReminder(w http.ResponseWriter, r *http.Request, id int) {
	st := s.store.Get(id)
	if st == nil {
		s.respondError(w, r, http.StatusNotFound, "student not found", nil)
		return
	}

	style := reminder.Style(r.URL.Query().Get("style"))
	if style == "" {
		style = reminder.Casual
	}
	msg, err := reminder.Render(st, style)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to render reminder", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"style":   style,
		"message": msg,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// ---------------- export download ----------------

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	opts := roster.ExportOptions{
		FormatPhones:  queryFlag(r, "phones"),
		StatusColumn:  queryFlag(r, "status"),
		BalanceColumn: queryFlag(r, "balance"),
	}

	data, err := workbook.Encode(s.store.ExportSnapshot(opts))
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to encode export", err)
		return
	}

	filename := workbook.ExportFilename(time.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write export response", "err", err)
	}
}

func queryFlag(r *http.Request, name string) bool {
	switch strings.ToLower(r.URL.Query().Get(name)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// ---------------- settings ----------------

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if err := s.writeJSON(w, http.StatusOK, map[string]any{
			"status":     "success",
			"visibility": s.store.Visibility(),
		}); err != nil {
			s.logger.Warn("failed to write json response", "err", err)
		}
	case http.MethodPut, http.MethodPost:
		var settings map[string]bool
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			s.respondError(w, r, http.StatusBadRequest, "invalid visibility body", err)
			return
		}
		s.store.SetVisibility(settings)
		if err := s.writeJSON(w, http.StatusOK, map[string]string{"status": "success"}); err != nil {
			s.logger.Warn("failed to write json response", "err", err)
		}
	default:
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	}
}

func (s *Server) handleTarifs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"tarifs": s.store.Tariffs(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log requests and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
