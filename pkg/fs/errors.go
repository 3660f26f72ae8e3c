package fs

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotFound is matched by errors.Is when the path does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrIO is matched by errors.Is for every other read or write failure.
	ErrIO = errors.New("file i/o error")
	// ErrInvalidUTF8 is the cause recorded when a text file is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("content is not valid UTF-8")
)

const (
	opRead  = "reading"
	opWrite = "writing"
	opList  = "listing"
)

// PathError records a failed file operation and the path it touched.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "error " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }

// Is classifies the error as ErrNotFound or ErrIO. Write failures are always
// ErrIO, even when a parent directory is missing.
func (e *PathError) Is(target error) bool {
	notFound := e.Op != opWrite && errors.Is(e.Err, fs.ErrNotExist)
	switch target {
	case ErrNotFound:
		return notFound
	case ErrIO:
		return !notFound
	}
	return false
}

func newPathError(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}
