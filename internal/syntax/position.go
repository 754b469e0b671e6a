package syntax

import "strings"

// LineAt returns the 1-based line number containing offset.
func LineAt(text string, offset int) int {
	offset = clamp(offset, len(text))
	return strings.Count(text[:offset], "\n") + 1
}

// ColumnAt returns the 1-based byte column of offset within its line.
func ColumnAt(text string, offset int) int {
	offset = clamp(offset, len(text))
	return offset - strings.LastIndexByte(text[:offset], '\n')
}

// LineStart returns the offset of the first byte of the line containing offset.
func LineStart(text string, offset int) int {
	offset = clamp(offset, len(text))
	return strings.LastIndexByte(text[:offset], '\n') + 1
}

func clamp(offset, size int) int {
	if offset < 0 {
		return 0
	}
	if offset > size {
		return size
	}
	return offset
}
