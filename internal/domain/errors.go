package domain

import "errors"

// Sentinel errors shared by stores, services and the HTTP layer.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("interval conflicts with an existing booking")
	ErrInvalidSlot      = errors.New("interval outside the room's available hours")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrTypeMismatch     = errors.New("host count does not match event kind")
	ErrNoOp             = errors.New("nothing to change")
	ErrInvalidInput     = errors.New("invalid input")
	ErrForbidden        = errors.New("forbidden")
	ErrDuplicate        = errors.New("already exists")
)
