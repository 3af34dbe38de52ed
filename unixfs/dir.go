package unixfs

import "strings"

// DirEntry is one directory record, fixed- or variable-length
// depending on dialect (spec.md §4.8).
type DirEntry struct {
	Inum int
	Name string
}

// parseDirBlock decodes every entry in one directory block's raw bytes.
func parseDirBlock(d *dialect, data []byte) []DirEntry {
	if d.dirEntrySize > 0 {
		return parseFixedDir(data, d.dirEntrySize)
	}
	return parseVariableDir(data)
}

func parseFixedDir(data []byte, size int) []DirEntry {
	var out []DirEntry
	for off := 0; off+size <= len(data); off += size {
		rec := data[off : off+size]
		inum := le16(rec[0:2])
		if inum == 0 {
			continue
		}
		name := strings.TrimRight(string(rec[2:size]), "\x00")
		out = append(out, DirEntry{Inum: int(inum), Name: name})
	}
	return out
}

// parseVariableDir decodes 2.11BSD's 6-byte header (inum, record
// length, name length) followed by name bytes; inum 0 marks a hole.
func parseVariableDir(data []byte) []DirEntry {
	var out []DirEntry
	off := 0
	for off+6 <= len(data) {
		inum := le16(data[off : off+2])
		recLen := le16(data[off+2 : off+4])
		nameLen := le16(data[off+4 : off+6])
		if recLen == 0 {
			break
		}
		if inum != 0 && int(6+nameLen) <= int(recLen) && off+int(recLen) <= len(data) {
			name := string(data[off+6 : off+6+int(nameLen)])
			out = append(out, DirEntry{Inum: int(inum), Name: name})
		}
		off += int(recLen)
	}
	return out
}
