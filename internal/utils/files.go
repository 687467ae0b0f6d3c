package utils

import (
	"os"
	"path/filepath"
	"strings"
)

func GetFilename(filePath string) string {
	// Get the base name (removes directory components)
	base := filepath.Base(filePath)

	// Remove the extension (everything after last dot)
	ext := filepath.Ext(base)

	return strings.TrimSuffix(base, ext)
}

// OutputDir joins the parts of an output directory and creates it.
func OutputDir(parts ...string) (string, error) {
	dir := filepath.Join(parts...)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}

func OpenFile(dir, name string) (*os.File, error) {
	return os.Create(filepath.Join(dir, name+".txt"))
}
