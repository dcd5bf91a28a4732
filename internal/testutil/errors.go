package testutil

import "errors"

// ErrSimulated is returned by mocks when a failure is injected.
var ErrSimulated = errors.New("simulated store failure")
