package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/branchdash/loandash/internal/combine"
	"github.com/branchdash/loandash/internal/dashboard"
	"github.com/branchdash/loandash/internal/source"
	"github.com/branchdash/loandash/internal/summary"
	"github.com/branchdash/loandash/internal/table"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, combine.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, combine.ErrEmptyInput):
		return http.StatusConflict
	case errors.Is(err, source.ErrSourceNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, table.ErrUnsupportedFormat),
		errors.Is(err, table.ErrCorruptData),
		errors.Is(err, summary.ErrSchemaViolation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error and returns the user-facing one.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := dashboard.Explain(err)

	s.logger.Error("request error",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("code", msg.Code),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))

	writeJSON(w, status, ErrorResponse{Code: msg.Code, Message: msg.Message, Action: msg.Action})
}

// requestLogger logs one line per request with status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
