package utils

import (
	"io"
	"os"
	"path/filepath"
)

// GetPathInfo resolves relPath to an absolute path and its directory.
func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}
	return fullPath, filepath.Dir(fullPath), nil
}

// ReadInput returns the bytes to play into the serial line. "-" reads
// stdin until EOF; anything else is a file path.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	fullPath, _, err := GetPathInfo(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(fullPath)
}
