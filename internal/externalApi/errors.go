package externalApi

import "errors"

// ErrNotFound means the (symbol, country) pair is unknown to the upstream
// quote source.
var ErrNotFound = errors.New("error not found")
