// Copyright © 2019 One Concern

// Package status declares error constants returned by the fetch package.
package status

import "github.com/oneconcern/refmat/pkg/errors"

var (
	// Sentinel errors returned by the fetch package

	// ErrInvalidURL indicates a source URL that does not parse
	ErrInvalidURL = errors.New("invalid source URL")

	// ErrScheme indicates a source URL with a scheme no backend handles
	ErrScheme = errors.New("unsupported URL scheme")
)
