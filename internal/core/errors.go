package core

import "errors"

// ErrIndexNotFound is returned by IndexVerifier implementations for a missing index.
var ErrIndexNotFound = errors.New("index not found")
