package syncer

import (
	"errors"
	"fmt"

	"github.com/parley-im/parley/types"
)

// ServerError is a response whose header carried a non-OK status. It is
// an application-level failure: the request reached the server and was
// rejected. Transport failures arrive as ordinary errors from the
// transport collaborator and are not wrapped.
type ServerError struct {
	// Status is the response status that caused the failure.
	Status types.ResponseStatus
	// Description is the server's error description, if any.
	Description string
	// TraceID is the request trace id for correlating server logs.
	TraceID string
}

func (e *ServerError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("server status %d: %s", e.Status, e.Description)
	}
	return fmt.Sprintf("server status %d", e.Status)
}

// CheckStatus returns a *ServerError when the response header carries a
// non-OK status, nil otherwise. A nil header counts as OK; some
// responses legitimately omit it.
func CheckStatus(h *types.ResponseHeader) error {
	if h == nil || h.Status == types.ResponseStatusOK {
		return nil
	}
	return &ServerError{
		Status:      h.Status,
		Description: h.ErrorDescription,
		TraceID:     h.RequestTraceID,
	}
}

// IsSessionExpired reports whether the error demands reauthentication
// rather than a retry.
func IsSessionExpired(err error) bool {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Status == types.ResponseStatusReloadSession
	}
	return false
}
