// Package textutil provides byte-level text utilities: binary detection and
// non-blank line counting.
package textutil

import (
	"bytes"
	"strings"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// CountNonBlank returns the number of physical lines in data that are
// non-empty after trimming whitespace. Returns 0 for empty data.
func CountNonBlank(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	count := 0

	for _, line := range SplitLines(string(data)) {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}

	return count
}

// SplitLines splits content into physical lines on '\n', stripping a
// trailing '\r' from each line. A trailing newline does not produce an
// extra empty line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")

	// Drop the phantom line after a trailing newline.
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}
