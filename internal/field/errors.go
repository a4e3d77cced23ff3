package field

import "errors"

// ErrUnknownEffect is returned when an effect name does not match any variant.
var ErrUnknownEffect = errors.New("field: unknown effect")
