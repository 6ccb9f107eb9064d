// Package repository defines error values that are reused across multiple
// repositories. These sentinels let handlers distinguish failure scenarios:
// ErrConflict signals that an operation cannot proceed because of dependent
// records (e.g. deleting a category still referenced by auctions), while the
// per-entity not-found sentinels live next to their repositories.
package repository

import "errors"

// ErrConflict is returned when a write cannot be performed because of
// conflicting state. Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
