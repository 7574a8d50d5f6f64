package request

import (
	"fmt"

	"github.com/GriffinCanCode/miniapp/backend/internal/providers/host"
	"github.com/GriffinCanCode/miniapp/backend/internal/shared/apperr"
)

// StatusError rejects a response whose status is outside [200, 300)
type StatusError struct {
	Result *host.RequestResult
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.Result.StatusCode)
}

// StatusCode returns the response status
func (e *StatusError) StatusCode() int {
	return e.Result.StatusCode
}

// Kind implements apperr.Kinded
func (e *StatusError) Kind() apperr.Kind {
	return apperr.RequestFailed
}

// NetworkError rejects a call that failed before any status arrived
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Kind implements apperr.Kinded
func (e *NetworkError) Kind() apperr.Kind {
	return apperr.RequestNetworkError
}
