package util

import (
	"path/filepath"
	"strings"
)

// Stem returns the file name without its final extension.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
