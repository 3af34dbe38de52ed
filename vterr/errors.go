// Package vterr defines the sentinel error taxonomy shared by every
// volume, decompressor and filesystem reader in this module.
package vterr

import "errors"

// ErrRange signals a caller passed an out-of-bounds block, offset or
// file number. It is the only member of this taxonomy that should
// surface as a hard fault — every other error is recoverable.
var ErrRange = errors.New("vtfs: address out of range")

// ErrInvalid signals image data violates a documented format invariant:
// a bad magic number, a failed checksum, a corrupt compressed code, or
// an unrecognized retrieval-pointer format.
var ErrInvalid = errors.New("vtfs: invalid image data")

// ErrNotFound signals a named file or directory is absent.
var ErrNotFound = errors.New("vtfs: not found")

// ErrUnsupported signals data that is structurally valid but whose
// variant this module does not decode (e.g. ODS-1 retrieval formats
// other than (1,3)).
var ErrUnsupported = errors.New("vtfs: unsupported variant")

// ErrTruncated signals a decompressor reached end-of-input mid-code.
var ErrTruncated = errors.New("vtfs: truncated input")
