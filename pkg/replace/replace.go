// Package replace overwrites files in place behind a temporary backup.
package replace

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// DefaultSuffix is appended to a path to name its backup.
const DefaultSuffix = ".backup"

// Sentinel errors for replacement failures.
var (
	ErrBackupFailed = errors.New("backup failed")
	ErrWriteFailed  = errors.New("write failed")
)

// Error describes a failed replacement.
type Error struct {
	Op     string // "backup", "write" or "restore"
	Path   string
	Backup string
	Cause  error // ErrBackupFailed or ErrWriteFailed
	Err    error // underlying filesystem error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Cause, e.Err)
}

// Unwrap exposes the sentinel and the filesystem error.
func (e *Error) Unwrap() []error {
	return []error{e.Cause, e.Err}
}

// Result reports what Replace left on disk.
type Result struct {
	Backup string
	// BackupKept is true when the backup file still exists afterwards.
	BackupKept bool
	// Restored is true when a failed write was rolled back from the backup.
	Restored bool
	// CleanupErr is set when the backup could not be removed after a
	// successful write. The replacement itself still succeeded.
	CleanupErr error
}

// Replacer performs backup, overwrite and cleanup for a single path.
type Replacer struct {
	Suffix string
	// RestoreOnFailure copies the backup back over the target when the
	// write step fails. The backup is kept either way.
	RestoreOnFailure bool
	// Fs is the filesystem replaced files live on. Nil means the OS.
	Fs afero.Fs
}

// New returns a Replacer using DefaultSuffix with restore enabled.
func New() *Replacer {
	return &Replacer{Suffix: DefaultSuffix, RestoreOnFailure: true}
}

// BackupPath returns the backup location for path.
func (r *Replacer) BackupPath(path string) string {
	suffix := r.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return path + suffix
}

// Replace overwrites path with content. The current file is first copied to
// BackupPath(path), replacing any older backup there. The backup is removed
// once content is fully written; if the write fails it stays on disk.
func (r *Replacer) Replace(path string, content []byte) (Result, error) {
	fsys := r.fs()
	res := Result{Backup: r.BackupPath(path)}

	if err := copyFile(fsys, path, res.Backup); err != nil {
		return res, &Error{Op: "backup", Path: path, Backup: res.Backup, Cause: ErrBackupFailed, Err: err}
	}
	res.BackupKept = true

	if err := write(fsys, path, content); err != nil {
		werr := &Error{Op: "write", Path: path, Backup: res.Backup, Cause: ErrWriteFailed, Err: err}
		if r.RestoreOnFailure {
			if rerr := copyFile(fsys, res.Backup, path); rerr != nil {
				werr.Err = fmt.Errorf("%w (restore: %v)", err, rerr)
			} else {
				res.Restored = true
			}
		}
		return res, werr
	}

	if err := fsys.Remove(res.Backup); err != nil {
		res.CleanupErr = err
		return res, nil
	}
	res.BackupKept = false
	return res, nil
}

func (r *Replacer) fs() afero.Fs {
	if r.Fs == nil {
		return afero.NewOsFs()
	}
	return r.Fs
}

// write truncates the existing file at path and writes content into it.
func write(fsys afero.Fs, path string, content []byte) error {
	f, err := fsys.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// copyFile copies src to dst, truncating dst and carrying over src's mode.
func copyFile(fsys afero.Fs, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
