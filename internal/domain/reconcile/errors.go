package reconcile

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks
var (
	ErrNetwork              = errors.New("reconcile: network error")
	ErrDataIntegrity        = errors.New("reconcile: product row has neither marketplace nor warehouse entity")
	ErrSubtypeNeedsUnlinked = errors.New("reconcile: unlinked subtype requires the unlinked link type")
	ErrUnknownSortKey       = errors.New("reconcile: unknown sort key")
	ErrUnknownLinkType      = errors.New("reconcile: unknown link type")
	ErrUnknownSubtype       = errors.New("reconcile: unknown unlinked subtype")
	ErrUnknownOrdersTab     = errors.New("reconcile: unknown orders tab")
)

// NetworkError is returned when a request to the catalog API fails or
// answers with a non-2xx status.
type NetworkError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

// Unwrap returns the transport error, if any.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is matches ErrNetwork.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// DataIntegrityError reports a row that resolves to no identifiers. The row is
// still rendered but never takes part in selection.
type DataIntegrityError struct {
	Index int
	Row   Product
}

// Error implements the error interface
func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%v (row %d)", ErrDataIntegrity, e.Index)
}

// Is matches ErrDataIntegrity.
func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}
