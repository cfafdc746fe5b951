// Package fs provides the working-directory lifecycle helpers shared by the
// execution backends.
package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

const (
	dirFrozen  = 0o500
	fileFrozen = 0o400
)

// Fresh replaces dir with an empty writable directory. Leftovers from a
// previous attempt are frozen read-only, so write permission is restored
// across the whole tree before removal.
func Fresh(dir string) error {
	if _, err := os.Lstat(dir); err == nil {
		if err := Thaw(dir); err != nil {
			return err
		}
		if err := os.RemoveAll(dir); err != nil {
			return zerr.Wrap(err, "failed to remove stale work directory")
		}
	} else if !os.IsNotExist(err) {
		return zerr.Wrap(err, "failed to stat work directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerr.Wrap(err, "failed to create work directory")
	}
	return nil
}

// Freeze makes the tree rooted at dir read-only. Directories keep execute
// permission so their contents stay listable.
func Freeze(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		mode := os.FileMode(fileFrozen)
		if d.IsDir() {
			mode = dirFrozen
		}
		return os.Chmod(path, mode)
	})
	if err != nil {
		return zerr.Wrap(err, "failed to freeze work directory")
	}
	return nil
}

// Thaw restores owner write permission across the tree rooted at dir.
// Directories are chmodded on the way down, before their entries are read.
func Thaw(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.Chmod(path, 0o700)
		}
		return os.Chmod(path, 0o600)
	})
	if err != nil {
		return zerr.Wrap(err, "failed to restore write permission")
	}
	return nil
}

// Tail returns up to n trailing bytes of the file at path, trimmed to whole
// lines where possible. A missing file reads as empty.
func Tail(path string, n int64) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ""
	}
	offset := info.Size() - n
	if offset < 0 {
		offset = 0
	}
	buf := make([]byte, info.Size()-offset)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return ""
	}
	s := string(buf)
	if offset > 0 {
		if i := strings.IndexByte(s, '\n'); i >= 0 && i+1 < len(s) {
			s = s[i+1:]
		}
	}
	return strings.TrimRight(s, "\n")
}
