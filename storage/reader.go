// Package storage provides a byte-source wrapper in the role the
// teacher's retroio/storage package plays for its tape/disk header
// readers: a bufio-backed io.Reader with Peek and typed short-read
// helpers for validating a few bytes before committing to a
// binary.Read. The decoders and format packages in this module work on
// in-memory byte slices and volumes and do not import it.
package storage

import (
	"bufio"
	"encoding/binary"
	"io"
)

// Reader wraps an io.Reader with buffered Peek support and a small
// set of typed reads.
type Reader struct {
	*bufio.Reader
}

// NewReader builds a Reader over any io.Reader, matching the teacher's
// storage.NewReader(f) call at every cmd/*.go entry point.
func NewReader(r io.Reader) *Reader {
	return &Reader{Reader: bufio.NewReaderSize(r, 64*1024)}
}

// ReadByte reads a single byte, discarding the error. Callers that
// care about EOF use the embedded bufio.Reader.ReadByte directly.
func (r *Reader) ReadByte() byte {
	b, _ := r.Reader.ReadByte()
	return b
}

// PeekShort previews the next two bytes as a little-endian uint16
// without consuming them.
func (r *Reader) PeekShort() (uint16, error) {
	b, err := r.Peek(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadAll drains the remainder of the underlying reader into memory.
func ReadAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}
