package bedio

import "io"

// multiCloser closes a decompression wrapper and its underlying file, in
// that order, returning the first error encountered.
type multiCloser struct {
	inner, outer io.Closer
}

func (m multiCloser) Close() error {
	err1 := m.inner.Close()
	err2 := m.outer.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
