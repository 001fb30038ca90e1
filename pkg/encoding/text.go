// Package encoding provides text utilities for asset file names and logical paths.
package encoding

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Windows1252ToUTF8 converts Windows-1252 encoded bytes to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func Windows1252ToUTF8(data []byte) string {
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToWindows1252 converts a UTF-8 string to Windows-1252 bytes.
// Characters outside the code page make the conversion fail, in which case the input is returned as-is.
func UTF8ToWindows1252(s string) []byte {
	result, _, err := transform.Bytes(charmap.Windows1252.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// FixedString converts a fixed-size, null-terminated name field to UTF-8.
func FixedString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return Windows1252ToUTF8(data)
}

// PutFixedString encodes s into a fixed-size, null-padded field.
// Names longer than size are truncated.
func PutFixedString(s string, size int) []byte {
	out := make([]byte, size)
	copy(out, UTF8ToWindows1252(s))
	return out
}

// NormalizePath normalizes a logical asset path for case-insensitive lookup.
// Game paths use backslashes and upper case; on-disk copies often do not.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimLeft(path, "/")
	return strings.ToUpper(path)
}

// Stem returns the part of a file name before its first dot, keeping the directory.
func Stem(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}
