package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicFile collects writes in a temporary file next to its destination.
// Commit moves it into place; Abort discards it.
type AtomicFile struct {
	tmp  *os.File
	path string
}

// CreateAtomic starts writing the file at path, creating parent directories.
func CreateAtomic(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &AtomicFile{tmp: tmp, path: path}, nil
}

// Write appends p to the temporary file.
func (f *AtomicFile) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Commit replaces the destination with everything written so far.
func (f *AtomicFile) Commit() error {
	if err := f.tmp.Close(); err != nil {
		os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Chmod(f.tmp.Name(), 0644); err != nil {
		os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("failed to move %s into place: %w", f.path, err)
	}
	return nil
}

// Abort removes the temporary file, leaving any existing destination intact.
func (f *AtomicFile) Abort() error {
	f.tmp.Close()
	return os.Remove(f.tmp.Name())
}

// WriteFile writes the output of write to path atomically.
func WriteFile(path string, write func(f *AtomicFile) error) error {
	f, err := CreateAtomic(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Abort()
		return err
	}
	return f.Commit()
}
