// Package bitio implements the two bit-packing conventions used by
// this module's decompressors: LSB-first (compress/.Z, §4.2) and
// MSB-first (LZSS+Huffman, §4.3). Both share the same small contract
// — next(k) returns the next k bits or a sentinel at end of input —
// so callers pick the flavor that matches their stream and otherwise
// use them interchangeably.
package bitio

// EOF is returned by Next when no more bits are available.
const EOF = -1

// LSBReader accumulates input bytes from the left and serves bits
// starting from each byte's least-significant bit, as required by the
// `compress` (.Z) code stream.
type LSBReader struct {
	data   []byte
	bitPos int // absolute bit offset of the next unread bit
}

// NewLSBReader wraps a byte slice for LSB-first bit extraction.
func NewLSBReader(data []byte) *LSBReader {
	return &LSBReader{data: data}
}

// Next returns the low k bits (k in [1,24]) of the accumulated stream,
// consuming them, or EOF if fewer than k bits remain.
func (r *LSBReader) Next(k int) int {
	if r.bitPos+k > len(r.data)*8 {
		return EOF
	}
	var v int
	for i := 0; i < k; i++ {
		bytePos := (r.bitPos + i) / 8
		bitOff := uint((r.bitPos + i) % 8)
		bit := (r.data[bytePos] >> bitOff) & 1
		v |= int(bit) << uint(i)
	}
	r.bitPos += k
	return v
}

// ByteOffset returns the current read position in whole bytes, rounded
// down, so callers can compute block boundaries for code-size changes.
func (r *LSBReader) ByteOffset() int {
	return r.bitPos / 8
}

// SeekByte repositions the reader to the given absolute byte offset.
func (r *LSBReader) SeekByte(off int) {
	r.bitPos = off * 8
}

// Len reports the number of whole bytes backing the reader.
func (r *LSBReader) Len() int {
	return len(r.data)
}

// Remaining reports the number of unread bits left in the stream, used
// by callers to tell a clean end of input (0 remaining) from a
// mid-code truncation (fewer bits than the requested code size).
func (r *LSBReader) Remaining() int {
	return len(r.data)*8 - r.bitPos
}

// MSBReader buffers most-significant-bit first, as required by the
// LZSS+Huffman stream.
type MSBReader struct {
	data   []byte
	bitPos int
}

// NewMSBReader wraps a byte slice for MSB-first bit extraction.
func NewMSBReader(data []byte) *MSBReader {
	return &MSBReader{data: data}
}

// Next returns the next k bits (k in [1,24]), MSB of the stream first,
// consuming them, or EOF if fewer than k bits remain.
func (r *MSBReader) Next(k int) int {
	if r.bitPos+k > len(r.data)*8 {
		return EOF
	}
	var v int
	for i := 0; i < k; i++ {
		bytePos := (r.bitPos + i) / 8
		bitOff := uint(7 - (r.bitPos+i)%8)
		bit := (r.data[bytePos] >> bitOff) & 1
		v = (v << 1) | int(bit)
	}
	r.bitPos += k
	return v
}

// ByteOffset returns the current read position in whole bytes, rounded down.
func (r *MSBReader) ByteOffset() int {
	return r.bitPos / 8
}

// Remaining reports the number of unread bits left in the stream.
func (r *MSBReader) Remaining() int {
	return len(r.data)*8 - r.bitPos
}
