package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	kindUnauthenticated  errs.Kind = "Unauthenticated"
	kindMethodNotAllowed errs.Kind = "MethodNotAllowed"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody names the failure kind and a message the caller can act on.
type ErrorBody struct {
	Kind    errs.Kind `json:"kind"`
	Message string    `json:"message"`
}

var statusByKind = map[errs.Kind]int{
	errs.KindValidationFailed:   http.StatusBadRequest,
	errs.KindInvalidZone:        http.StatusUnprocessableEntity,
	errs.KindInvalidKitchen:     http.StatusUnprocessableEntity,
	errs.KindInvalidRole:        http.StatusUnprocessableEntity,
	errs.KindInvalidOrderSet:    http.StatusUnprocessableEntity,
	errs.KindInvalidTransition:  http.StatusConflict,
	errs.KindDuplicateRequest:   http.StatusConflict,
	errs.KindNoCapacity:         http.StatusServiceUnavailable,
	errs.KindAccessDenied:       http.StatusForbidden,
	errs.KindPermissionDenied:   http.StatusForbidden,
	errs.KindNotFound:           http.StatusNotFound,
	errs.KindPersistenceFailure: http.StatusInternalServerError,
	errs.KindInternal:           http.StatusInternalServerError,
	kindUnauthenticated:         http.StatusUnauthorized,
	kindMethodNotAllowed:        http.StatusMethodNotAllowed,
}

var kindByStatus = map[int]errs.Kind{
	http.StatusBadRequest:            errs.KindValidationFailed,
	http.StatusUnauthorized:          kindUnauthenticated,
	http.StatusForbidden:             errs.KindPermissionDenied,
	http.StatusNotFound:              errs.KindNotFound,
	http.StatusMethodNotAllowed:      kindMethodNotAllowed,
	http.StatusRequestEntityTooLarge: errs.KindValidationFailed,
	http.StatusUnsupportedMediaType:  errs.KindValidationFailed,
}

// apiError is an error already classified by the adapter itself.
type apiError struct {
	kind    errs.Kind
	message string
}

func (e *apiError) Error() string {
	return e.message
}

func unauthenticated(message string) error {
	return &apiError{kind: kindUnauthenticated, message: message}
}

func invalidRequest(message string) error {
	return &apiError{kind: errs.KindValidationFailed, message: message}
}

// classify resolves the kind, status and public message of err. Server
// failures never leak their cause.
func classify(err error) (errs.Kind, int, string) {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.kind, statusByKind[ae.kind], ae.message
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		kind, ok := kindByStatus[he.Code]
		if !ok {
			kind = errs.KindInternal
		}
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && he.Code < http.StatusInternalServerError {
			message = m
		}
		return kind, he.Code, message
	}

	kind := errs.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		kind, status = errs.KindInternal, http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		return kind, status, "the request could not be completed, retry later"
	}
	return kind, status, err.Error()
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	kind, status, message := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "Request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"kind", kind,
			"error", err,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, Envelope{Error: &ErrorBody{Kind: kind, Message: message}})
	}
	if writeErr != nil {
		s.logger.ErrorContext(c.Request().Context(), "Failed to write error response", "error", writeErr)
	}
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}
