package dualog

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// Appender persists one batch of newline-terminated lines.
// The append queue never calls Append concurrently on the same Appender.
type Appender interface {
	Append(p []byte) error
}

// AppenderFunc adapts an ordinary function to the Appender interface.
type AppenderFunc func(p []byte) error

// Append calls f(p).
func (f AppenderFunc) Append(p []byte) error { return f(p) }

// FileAppender appends batches to a single file, creating it if absent.
// The file is opened for each batch and closed right after the write, so no
// descriptor outlives a drain cycle.
type FileAppender struct {
	fs   afero.Fs
	path string
	perm os.FileMode
}

// NewFileAppender returns an appender writing to path on fs.
// A nil fs means the operating system file system.
func NewFileAppender(fs afero.Fs, path string, perm os.FileMode) *FileAppender {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if perm == 0 {
		perm = DefaultFilePerm
	}
	return &FileAppender{fs: fs, path: path, perm: perm}
}

// Path returns the target file path.
func (a *FileAppender) Path() string { return a.path }

// Append writes p at the end of the file.
func (a *FileAppender) Append(p []byte) error {
	f, err := a.fs.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, a.perm)
	if err != nil {
		return fmt.Errorf("open %s: %w", a.path, err)
	}

	var merr *multierror.Error
	if _, err := f.Write(p); err != nil {
		merr = multierror.Append(merr, fmt.Errorf("write %s: %w", a.path, err))
	}
	if err := f.Close(); err != nil {
		merr = multierror.Append(merr, fmt.Errorf("close %s: %w", a.path, err))
	}
	return merr.ErrorOrNil()
}
