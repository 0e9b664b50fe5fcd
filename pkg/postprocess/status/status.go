// Copyright © 2019 One Concern

// Package status declares error constants returned by the postprocess
// registry and its built-in functions.
package status

import "github.com/oneconcern/refmat/pkg/errors"

var (
	// Sentinel errors returned by the postprocess package

	// ErrNotRegistered indicates a lookup for a function name nobody registered
	ErrNotRegistered = errors.New("no such postprocess function")

	// ErrAlreadyRegistered indicates a second registration for the same function name
	ErrAlreadyRegistered = errors.New("postprocess function already registered")

	// ErrInputCount indicates a function invoked with the wrong number of input files
	ErrInputCount = errors.New("unexpected number of inputs")

	// ErrArgCount indicates a function invoked with the wrong number of extra arguments
	ErrArgCount = errors.New("unexpected number of arguments")
)
