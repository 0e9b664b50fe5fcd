/*
Package refmat provides CLI tooling to manage reference genome artifacts.

The primary goal of refmat is to turn a declarative description of genome
references into a concrete set of local artifacts: archives are resolved to
stable paths, fetched from their remote locations and postprocessed into the
files aligners and annotation tools consume.
*/
package refmat
