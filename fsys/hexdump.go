package fsys

import (
	"fmt"
	"io"
)

// HexDump renders data as 16-byte rows of hex pairs followed by an
// ASCII gutter, the rendering `dump_file`/`dump_dir` use (spec.md §6).
// Column widths follow the teacher's own `%-19s`-style fixed-width
// metadata lines (tzx.DirectRecording.Metadata).
func HexDump(data []byte, sink io.Writer) error {
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		row := data[off:end]
		hex := make([]byte, 0, 16*3)
		ascii := make([]byte, 0, 16)
		for i := 0; i < 16; i++ {
			if i < len(row) {
				hex = append(hex, []byte(fmt.Sprintf("%02x ", row[i]))...)
				c := row[i]
				if c < 0x20 || c > 0x7e {
					c = '.'
				}
				ascii = append(ascii, c)
			} else {
				hex = append(hex, ' ', ' ', ' ')
			}
		}
		if _, err := fmt.Fprintf(sink, "%08x  %-48s  %s\n", off, string(hex), string(ascii)); err != nil {
			return err
		}
	}
	return nil
}
