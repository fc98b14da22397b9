package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and blob backends return
// these (optionally wrapped) so services can translate them into module errors.
//
// These describe the state of a resource, not validation failures:
// - ErrNotFound: key, file or record does not exist in the backend
// - ErrUnavailable: backend temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
