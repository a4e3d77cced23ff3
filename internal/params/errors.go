package params

import "errors"

var (
	// ErrUnknownPreset indicates a preset name that is not registered.
	ErrUnknownPreset = errors.New("params: unknown preset")

	// ErrInvalidPresetFile indicates a preset file that could not be parsed.
	ErrInvalidPresetFile = errors.New("params: invalid preset file")
)
