// Package discovery turns command-line arguments, or a default layout of
// well-known directories, into the list of files a run will process.
package discovery

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/dd0wney/enc3-recover/pkg/logging"
)

// Layout names the locations searched when no paths are given.
type Layout struct {
	Dirs  []string
	Files []string
	// Exclude drops a file found under Dirs when its path contains every
	// substring of any one group.
	Exclude [][]string
}

// Finder expands paths on a filesystem.
type Finder struct {
	fs     afero.Fs
	logger logging.Logger
}

// New returns a Finder over fsys. A nil fsys means the OS filesystem.
func New(fsys afero.Fs, logger logging.Logger) *Finder {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Finder{fs: fsys, logger: logger.With(logging.Component("discovery"))}
}

// Expand resolves each argument in order. Regular files are kept as given,
// directories are walked recursively in lexical order, and missing paths
// are logged and skipped.
func (f *Finder) Expand(args []string) []string {
	var files []string
	for _, arg := range args {
		info, err := f.fs.Stat(arg)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				f.logger.Warn("path not found", logging.File(arg))
			} else {
				f.logger.Warn("cannot stat path", logging.File(arg), logging.Error(err))
			}
			continue
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		files = append(files, f.walk(arg, nil)...)
	}
	return files
}

// Default searches root using layout: top-level Files first, then every
// regular file under each of Dirs. Absent entries are ignored.
func (f *Finder) Default(root string, layout Layout) []string {
	f.logger.Info("searching for files", logging.String("root", root))

	var files []string
	for _, name := range layout.Files {
		p := filepath.Join(root, name)
		if info, err := f.fs.Stat(p); err == nil && info.Mode().IsRegular() {
			files = append(files, p)
		}
	}
	for _, name := range layout.Dirs {
		p := filepath.Join(root, name)
		if info, err := f.fs.Stat(p); err == nil && info.IsDir() {
			files = append(files, f.walk(p, layout.Exclude)...)
		}
	}

	f.logger.Info("files found", logging.Count(len(files)))
	return files
}

func (f *Finder) walk(dir string, exclude [][]string) []string {
	var files []string
	err := afero.Walk(f.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are reported and the walk continues.
			f.logger.Warn("cannot read path", logging.File(path), logging.Error(err))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || Excluded(path, exclude) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		f.logger.Warn("walk stopped", logging.File(dir), logging.Error(err))
	}
	return files
}

// Excluded reports whether path contains every substring of at least one
// group. Empty groups never match.
func Excluded(path string, groups [][]string) bool {
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		all := true
		for _, sub := range group {
			if !strings.Contains(path, sub) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
