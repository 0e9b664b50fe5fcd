// Copyright © 2019 One Concern

package fasta

import (
	"bufio"
	"io"
	"strings"
)

// LineWidth is the column at which written sequences wrap
const LineWidth = 60

// Writer emits FASTA records with wrapped sequence lines
type Writer struct {
	w *bufio.Writer
}

// NewWriter builds a FASTA writer on top of w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteRecord writes one record.
//
// The header is the record description when it leads with the record ID,
// otherwise the ID followed by the description.
func (w *Writer) WriteRecord(r Record) error {
	header := r.ID
	switch {
	case r.Description == "" || r.Description == r.ID:
	case strings.SplitN(r.Description, " ", 2)[0] == r.ID:
		header = r.Description
	default:
		header = r.ID + " " + r.Description
	}
	if err := w.w.WriteByte('>'); err != nil {
		return err
	}
	if _, err := w.w.WriteString(header); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	for off := 0; off < len(r.Seq); off += LineWidth {
		end := off + LineWidth
		if end > len(r.Seq) {
			end = len(r.Seq)
		}
		if _, err := w.w.Write(r.Seq[off:end]); err != nil {
			return err
		}
		if err := w.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes out any buffered output
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// BackTranscribe rewrites an RNA sequence as DNA, in place: U becomes T.
// Other symbols are left alone.
func BackTranscribe(seq []byte) []byte {
	for i, b := range seq {
		switch b {
		case 'U':
			seq[i] = 'T'
		case 'u':
			seq[i] = 't'
		}
	}
	return seq
}
