// Package sentinel holds the store-level facts that services translate into
// coded domain errors.
package sentinel

import "errors"

var (
	// ErrNotFound means no record matched within the caller's tenant.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint rejected the write.
	ErrConflict = errors.New("conflict")
)
