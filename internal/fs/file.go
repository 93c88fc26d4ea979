package fs

import (
	"os"
	"path/filepath"
)

// Stat returns a FileInfo structure describing the named file.
// If there is an error, it will be of type *PathError.
func Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// MkdirAll creates a directory named path, along with any necessary parents.
// If path is already a directory, MkdirAll does nothing and returns nil.
func MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Open opens a file for reading.
func Open(name string) (*os.File, error) {
	return os.Open(name)
}

// Remove removes the named file or directory.
func Remove(name string) error {
	return os.Remove(name)
}

// RemoveIfExists removes a file, returning no error if it does not exist.
func RemoveIfExists(filename string) error {
	err := os.Remove(filename)
	if err != nil && os.IsNotExist(err) {
		err = nil
	}
	return err
}

// RemoveAll removes path and any children it contains. If the path does not
// exist, RemoveAll returns nil (no error).
func RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// WriteRename writes p to a temporary file next to filename, syncs it and
// renames it into place, so readers never observe a partially written file.
func WriteRename(filename string, p []byte, perm os.FileMode) error {
	dir, base := filepath.Split(filename)

	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err = f.Write(p); err == nil {
		err = f.Sync()
	}

	cerr := f.Close()
	if err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, perm)
	}
	if err == nil {
		err = os.Rename(tmp, filename)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
