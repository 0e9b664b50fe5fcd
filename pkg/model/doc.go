// Package model describes the base objects manipulated by refmat.
//
// The package exposes a model for reference artifacts.
//
// The object model for refmat is composed of:
//
//	References:
//	  A reference block declares one remote resource to materialize as a local
//	  reference artifact (e.g. a fasta or gtf file for some genome assembly),
//	  together with the derived artifacts expected next to it (aligner
//	  indexes, format conversions, chromosome sizes).
//
//	Assemblies and tags:
//	  An assembly identifies a genome build (e.g. dm6). A tag distinguishes
//	  several releases or variants of the same assembly. A block declaring no
//	  tag is filed under the "default" tag.
//
//	Path table:
//	  The flattened view of a configuration: for every assembly, tag and
//	  artifact kind, the absolute path of the artifact under the references
//	  directory.
package model
