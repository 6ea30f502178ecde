package util

import (
	"errors"
	"strings"
)

// ErrInvalidFileName is returned for names that cannot be used as a storage key.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators into a single key and rejects
// names with a ".." path element.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(strings.ReplaceAll(name, "\x00", ""))
	for _, elem := range strings.FieldsFunc(s, isSeparator) {
		if elem == ".." {
			return "", ErrInvalidFileName
		}
	}
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}
	return s, nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
