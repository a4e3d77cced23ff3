package export

import "errors"

var (
	// ErrEmptyFrame indicates an attempt to export a frame with no pixels.
	ErrEmptyFrame = errors.New("export: empty frame")

	// ErrNotFound indicates an export id that does not exist in the store.
	ErrNotFound = errors.New("export: not found")
)
