package hbv

import "errors"

// ErrConfig is wrapped by every rejection of a model configuration made before
// the time loop starts.
var ErrConfig = errors.New("hbv: invalid configuration")
