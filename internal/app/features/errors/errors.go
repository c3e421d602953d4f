// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/stratasite/internal/app/system/apperr"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/requestid"
	"go.uber.org/zap"
)

// ErrorLogger wraps the zap logger for error logging.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log logs an error with the given message and error.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error) {
	e.logger.Error(msg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.String("request_id", requestid.FromContext(r.Context())),
	)
}

// LogWithFields logs an error with additional fields.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.String("request_id", requestid.FromContext(r.Context())),
	}, fields...)
	e.logger.Error(msg, allFields...)
}

// Respond writes the JSON error response for err.
//
// Expected outcomes (*apperr.Error other than KindDatabase) are answered
// with their own status and message. Anything else is logged and answered
// with an opaque 500.
func (e *ErrorLogger) Respond(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if !stderrors.As(err, &ae) || ae.Kind == apperr.KindDatabase {
		e.Log(r, "request failed", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}

	switch ae.Kind {
	case apperr.KindValidation:
		jsonutil.ValidationError(w, ae.Message, ae.Fields)
	default:
		jsonutil.Error(w, apperr.HTTPStatus(ae.Kind), ae.Message)
	}
}

// NotFound answers unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.NotFound(w, "not found")
}

// MethodNotAllowed answers routes matched with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, http.StatusMethodNotAllowed, "method not allowed")
}

// CSRFFailed answers a session request with a missing or invalid CSRF token.
func CSRFFailed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, http.StatusForbidden, "CSRF token invalid or missing")
}
