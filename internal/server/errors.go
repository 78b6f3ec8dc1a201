package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	calculationdomain "github.com/smallbiznis/custoscarbon/internal/calculation/domain"
	recorddomain "github.com/smallbiznis/custoscarbon/internal/record/domain"
)

const (
	errorTypeValidation     = "validation_error"
	errorTypeStorage        = "storage_error"
	errorTypeInvalidRequest = "invalid_request"
	errorTypeInternal       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// clientError forces a 400 whatever the cause. The calculate route reports every
// failure this way.
type clientError struct {
	err error
}

func (e *clientError) Error() string { return e.err.Error() }

func (e *clientError) Unwrap() error { return e.err }

func asClientError(err error) error {
	if err == nil {
		return nil
	}
	return &clientError{err: err}
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// mapError keeps the original message text in the body.
func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{
			Error: "internal server error",
			Type:  errorTypeInternal,
		}
	}

	payload := errorResponse{Error: err.Error(), Type: classifyError(err)}

	var cErr *clientError
	if errors.As(err, &cErr) {
		return http.StatusBadRequest, payload
	}

	switch payload.Type {
	case errorTypeValidation, errorTypeInvalidRequest:
		return http.StatusBadRequest, payload
	default:
		return http.StatusInternalServerError, payload
	}
}

func classifyError(err error) string {
	var vErr *calculationdomain.ValidationError
	var sErr *recorddomain.StorageError
	var bErr *bindError
	switch {
	case errors.As(err, &vErr):
		return errorTypeValidation
	case errors.As(err, &sErr):
		return errorTypeStorage
	case errors.As(err, &bErr):
		return errorTypeInvalidRequest
	default:
		return errorTypeInternal
	}
}

// bindError wraps a request body that could not be decoded.
type bindError struct {
	err error
}

func (e *bindError) Error() string { return e.err.Error() }

func (e *bindError) Unwrap() error { return e.err }
