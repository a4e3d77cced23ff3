package raster

import "errors"

// ErrUnknownSampling is returned when a sampling mode name is not recognized.
var ErrUnknownSampling = errors.New("raster: unknown sampling")
