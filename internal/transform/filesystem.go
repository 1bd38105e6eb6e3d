package transform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const temporaryFilePatternTemplateConstant = ".%s.*.tmp"

const defaultOutputFileModeConstant fs.FileMode = 0o644

// FileSystem abstracts the file operations the transform service performs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, content []byte) error
}

// OSFileSystem implements FileSystem on the host filesystem.
type OSFileSystem struct{}

// NewOSFileSystem constructs an OSFileSystem.
func NewOSFileSystem() OSFileSystem {
	return OSFileSystem{}
}

// ReadFile reads the whole file.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile replaces path atomically through a sibling temporary file,
// keeping the mode of an existing destination.
func (OSFileSystem) WriteFile(path string, content []byte) (writeError error) {
	fileMode := defaultOutputFileModeConstant
	if existingInfo, statError := os.Stat(path); statError == nil {
		fileMode = existingInfo.Mode().Perm()
	} else if !errors.Is(statError, fs.ErrNotExist) {
		return statError
	}

	temporaryFile, createError := os.CreateTemp(filepath.Dir(path), fmt.Sprintf(temporaryFilePatternTemplateConstant, filepath.Base(path)))
	if createError != nil {
		return createError
	}
	temporaryPath := temporaryFile.Name()
	defer func() {
		if writeError != nil {
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeError = temporaryFile.Write(content); writeError != nil {
		_ = temporaryFile.Close()
		return writeError
	}
	if writeError = temporaryFile.Close(); writeError != nil {
		return writeError
	}
	if writeError = os.Chmod(temporaryPath, fileMode); writeError != nil {
		return writeError
	}
	return os.Rename(temporaryPath, path)
}
