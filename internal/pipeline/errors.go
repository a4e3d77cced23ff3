package pipeline

import "errors"

// ErrUnknownPolicy is returned when a clamp policy name is not recognized.
var ErrUnknownPolicy = errors.New("pipeline: unknown clamp policy")
