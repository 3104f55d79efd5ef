package nexus

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError is a non-2xx response from the service. The raw body is kept
// so callers can surface the service's own diagnostics.
type TransportError struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// ProtocolError is a response that parsed but is missing a field the protocol
// requires. The raw body is kept for diagnosis.
type ProtocolError struct {
	URL   string
	Field string
	Body  []byte
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected payload from %s: missing attribute '%s'", e.URL, e.Field)
}

// RevisionMismatchError reports that an explicitly requested revision does not
// exist on the resource.
type RevisionMismatchError struct {
	Label     string
	Requested int
	Actual    int
}

// Error implements the error interface.
func (e *RevisionMismatchError) Error() string {
	return fmt.Sprintf("revision %d of '%s' does not exist (latest is %d)", e.Requested, e.Label, e.Actual)
}

// Static errors that can be wrapped with context.
var (
	ErrNotFound              = errors.New("resource not found")
	ErrNoProfileSelected     = errors.New("no deployment profile selected")
	ErrNoDefaultOrganization = errors.New("no default organization selected")
	ErrNoEndpointConfigured  = errors.New("no deployment endpoint configured")
	ErrProfileNotFound       = errors.New("profile not found")
	ErrProfileExists         = errors.New("profile already exists")
	ErrEditCancelled         = errors.New("edit cancelled")
	ErrEndpointRequired      = errors.New("endpoint URL is required")
)

// IsNotFound checks whether the error is a 404 transport error or the
// not-found sentinel.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}

	transportErr := &TransportError{}
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsRevisionMismatch checks whether the error is a revision mismatch.
func IsRevisionMismatch(err error) bool {
	mismatchErr := &RevisionMismatchError{}

	return errors.As(err, &mismatchErr)
}

// ErrorBody returns the raw response body attached to a transport or protocol
// error, or nil when the error carries none.
func ErrorBody(err error) []byte {
	transportErr := &TransportError{}
	if errors.As(err, &transportErr) {
		return transportErr.Body
	}

	protocolErr := &ProtocolError{}
	if errors.As(err, &protocolErr) {
		return protocolErr.Body
	}

	return nil
}
