// Copyright © 2019 One Concern

package fasta

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

// multiReadCloser closes all wrapped closers when Close is called
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// OpenReader opens a possibly gzipped file for streaming reads.
//
// Compression is detected from the gzip magic number, not the file name:
// fetched archives land under temporary names which tell nothing about
// their content.
func OpenReader(fs afero.Fs, path string) (io.ReadCloser, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	fh, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	if _, err = fh.Seek(0, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, err
	}
	if n == 2 && sig[0] == 0x1f && sig[1] == 0x8b {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}
