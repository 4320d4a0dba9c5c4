package sentinel

import "errors"

// ErrNotFound is returned (optionally wrapped) by storage dependencies so
// services can translate absence into a domain error exactly once.
var ErrNotFound = errors.New("not found")
