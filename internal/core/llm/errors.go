package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNoModel indicates a streaming request without a model name.
var ErrNoModel = errors.New("model is required")

// HTTPError is a non-success response from the completion endpoint.
type HTTPError struct {
	Status int
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("endpoint returned HTTP %d", e.Status)
}

// IsCancelled reports whether err stems from caller-initiated
// cancellation. The chat store treats this as a normal, non-error
// termination of a stream.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeout reports whether err stems from a deadline, either the
// client's internal bound or a transport-level timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
