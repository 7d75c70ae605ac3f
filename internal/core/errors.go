package core

import "errors"

// ErrBadRequest marks input problems that are not covered by binding validation.
var ErrBadRequest = errors.New("bad request")
