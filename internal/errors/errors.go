package errors

import "fmt"

// ErrorCode represents an irdeck error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"      // 400
	ErrNotFound           ErrorCode = "NOT_FOUND"            // 404
	ErrTimeout            ErrorCode = "TIMEOUT"              // 408
	ErrCaptureBusy        ErrorCode = "CAPTURE_BUSY"         // 409
	ErrStoreFull          ErrorCode = "STORE_FULL"           // 409
	ErrEncodeUnsupported  ErrorCode = "ENCODE_UNSUPPORTED"   // 422
	ErrInternal           ErrorCode = "INTERNAL"             // 500
	ErrBackendWriteFailed ErrorCode = "BACKEND_WRITE_FAILED" // 502
	ErrTransmitFailed     ErrorCode = "TRANSMIT_FAILED"      // 502
)

// IRError represents a structured error with code, status, and details.
type IRError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *IRError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *IRError {
	return &IRError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a stored code cannot be found.
func NewNotFound(name string) *IRError {
	return &IRError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("code not found: %s", name),
		Details: map[string]any{"name": name},
	}
}

// NewTimeout creates a 408 error when a synchronous learn exceeds its deadline.
func NewTimeout(seconds int) *IRError {
	return &IRError{
		Code:    ErrTimeout,
		Status:  408,
		Message: fmt.Sprintf("no IR signal received within %d seconds", seconds),
		Details: map[string]any{"timeout_seconds": seconds},
	}
}

// NewCaptureBusy creates a 409 error for capture resource contention.
// The resource field names the collaborator holding the shared channel.
func NewCaptureBusy(resource string) *IRError {
	return &IRError{
		Code:    ErrCaptureBusy,
		Status:  409,
		Message: fmt.Sprintf("capture resource unavailable: held by %s", resource),
		Details: map[string]any{"resource": resource},
	}
}

// NewStoreFull creates a 409 error when the code store is at capacity.
func NewStoreFull(max int) *IRError {
	return &IRError{
		Code:    ErrStoreFull,
		Status:  409,
		Message: fmt.Sprintf("code store is full (max %d codes)", max),
		Details: map[string]any{"max_codes": max},
	}
}

// NewEncodeUnsupported creates a 422 error for records too malformed to
// encode at all. Protocols that merely lack a dedicated encoder fall back
// to the default scheme and do not raise this.
func NewEncodeUnsupported(protocol string) *IRError {
	return &IRError{
		Code:    ErrEncodeUnsupported,
		Status:  422,
		Message: fmt.Sprintf("cannot encode protocol: %s", protocol),
		Details: map[string]any{"protocol": protocol},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *IRError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &IRError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// NewBackendWriteFailed creates a 502 error for persistence backend failures.
func NewBackendWriteFailed(err error) *IRError {
	msg := "backend write failed"
	if err != nil {
		msg = fmt.Sprintf("backend write failed: %v", err)
	}
	return &IRError{
		Code:    ErrBackendWriteFailed,
		Status:  502,
		Message: msg,
	}
}

// NewTransmitFailed creates a 502 error for transmitter hardware failures.
func NewTransmitFailed(err error) *IRError {
	msg := "transmit failed"
	if err != nil {
		msg = fmt.Sprintf("transmit failed: %v", err)
	}
	return &IRError{
		Code:    ErrTransmitFailed,
		Status:  502,
		Message: msg,
	}
}

// Is checks if an error is an IRError with the given code.
func Is(err error, code ErrorCode) bool {
	if irErr, ok := err.(*IRError); ok {
		return irErr.Code == code
	}
	return false
}
