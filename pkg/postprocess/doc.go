// Copyright © 2019 One Concern

// Package postprocess maps the function names appearing in references
// configurations to Go implementations.
//
// Fetched archives land as temporary files. A postprocess function turns
// that set of temporary files into the final reference artifact. The
// built-ins cover the common cases: move a single archive into place,
// concatenate several, or filter FASTA records. Anything else is
// registered by the embedding program before materializing.
package postprocess
