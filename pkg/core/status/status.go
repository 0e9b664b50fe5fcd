// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/refmat/pkg/errors"
)

var (
	// ErrNoReferencesDir indicates that neither the configuration nor the
	// environment provide a references directory
	ErrNoReferencesDir = errors.New("references directory not set")

	// ErrDuplicateEntry indicates two reference blocks colliding on their
	// (assembly, tag, type) coordinates
	ErrDuplicateEntry = errors.New("duplicate reference entry")

	// ErrDuplicateRef indicates two reference blocks colliding on
	// (assembly, tag), whatever their types
	ErrDuplicateRef = errors.New("duplicate reference")

	// ErrRefNotFound indicates that no reference block declares the requested
	// (assembly, tag)
	ErrRefNotFound = errors.New("reference not found")

	// ErrUnknownIndex indicates a fasta block requesting an aligner index
	// kind this build does not know about
	ErrUnknownIndex = errors.New("unknown index kind")

	// ErrUnknownConversion indicates a gtf block requesting a conversion
	// kind this build does not know about
	ErrUnknownConversion = errors.New("unknown conversion kind")

	// ErrInvalidPath indicates an artifact path that does not parse back to
	// (assembly, tag, kind) coordinates under the references directory
	ErrInvalidPath = errors.New("invalid artifact path")
)
