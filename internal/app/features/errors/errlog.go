// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with user-facing error pages, so
// handlers report failures in one call instead of logging and rendering
// separately.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger builds an ErrorLogger on the app logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogBadRequest logs a client error and renders the failure page with a
// user-safe message. userMsg must not contain internals.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	e.log.Warn(what,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))
	RenderServerError(w, r, userMsg, backURL)
}

// LogServerError logs a server-side failure and renders the failure page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	e.log.Error(what,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))
	RenderServerError(w, r, userMsg, backURL)
}

// LogNotFound logs a lookup miss and renders the 404 page.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, what string, userMsg string) {
	e.log.Info(what,
		zap.String("path", r.URL.Path))
	RenderNotFound(w, r, userMsg)
}
