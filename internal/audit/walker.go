package audit

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	ignore "github.com/sabhiram/go-gitignore"
)

// Walker enumerates project files, skipping dependency, VCS and build directories.
type Walker struct {
	root    string
	exclude []string
	ignore  *ignore.GitIgnore
}

// NewWalker creates a walker rooted at root. A directory is skipped when its name
// contains any of the exclude markers. When respectGitignore is set, entries of
// root/.gitignore are skipped as well.
func NewWalker(root string, exclude []string, respectGitignore bool) *Walker {
	w := &Walker{root: root, exclude: exclude}
	if respectGitignore {
		gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
		if err != nil {
			slog.Debug("no usable .gitignore", "root", root, "error", err)
		} else {
			w.ignore = gi
		}
	}
	return w
}

// Walk calls fn for every regular file under dir in lexical order. dir is either
// the walker root or a path beneath it. Unreadable directories are skipped.
func (w *Walker) Walk(dir string, fn func(path string)) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Debug("walk error", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if path != dir && w.skipDir(path, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isRegularFile(path, d) {
			return nil
		}
		if w.ignored(path, false) {
			return nil
		}
		fn(path)
		return nil
	})
}

// isRegularFile accepts regular files and symlinks resolving to one.
// Symlinked directories are listed as non-dirs by WalkDir and never descended into.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func (w *Walker) skipDir(path, name string) bool {
	if ExcludedDir(name, w.exclude) {
		slog.Debug("skip dir", "path", path)
		return true
	}
	return w.ignored(path, true)
}

// ExcludedDir reports whether a directory name contains any of the markers.
func ExcludedDir(name string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

func (w *Walker) ignored(path string, isDir bool) bool {
	if w.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return w.ignore.MatchesPath(rel)
}

// readText returns the file content when it can be read as UTF-8 text.
func readText(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("skip unreadable file", "path", path, "error", err)
		return "", false
	}
	if !utf8.Valid(data) {
		slog.Debug("skip non-utf8 file", "path", path)
		return "", false
	}
	return string(data), true
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
