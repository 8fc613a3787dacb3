// internal/app/features/errors/errorlogger.go
package errors

import (
	"net/http"

	"github.com/bearenergy/dealflow/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/templates"
	nav "github.com/dalemusser/waffle/pantry/httpnav"
	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with user-facing error pages so
// handlers can report a failure in one call. The log message carries the
// details; the page shows only the user-safe message.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs err at error level and renders a 500 error page with
// userMsg. backURL may be empty; a safe back URL is resolved from the request.
func (el *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	el.log.Error(logMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))

	el.renderError(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs err at warn level and renders a 400 error page with
// userMsg. Used for malformed input: bad form data, invalid IDs.
func (el *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	el.log.Warn(logMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))

	el.renderError(w, r, http.StatusBadRequest, "Invalid request", userMsg, backURL)
}

// LogNotFound logs at info level and renders a 404 error page with userMsg.
func (el *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, userMsg, backURL string) {
	el.log.Info(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))

	el.renderError(w, r, http.StatusNotFound, "Not found", userMsg, backURL)
}

func (el *ErrorLogger) renderError(w http.ResponseWriter, r *http.Request, status int, title, userMsg, backURL string) {
	u, signed := auth.CurrentUser(r)
	role, name := "", ""
	if signed && u != nil {
		role, name = u.Role, u.Name
	}
	if backURL == "" {
		backURL = nav.ResolveBackURL(r, "/")
	}

	w.WriteHeader(status)
	data := pageData{
		Title:      title,
		IsLoggedIn: signed,
		Role:       role,
		UserName:   name,
		Message:    userMsg,
		BackURL:    backURL,
	}

	templates.Render(w, r, "error_page", data)
}
