package winsys

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OSFilesystem is the production Filesystem backed by the os package.
type OSFilesystem struct{}

// NewFilesystem returns a Filesystem backed by the real disk.
func NewFilesystem() *OSFilesystem { return &OSFilesystem{} }

func (OSFilesystem) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

func (OSFilesystem) RemoveAll(path string) error { return os.RemoveAll(path) }

func (OSFilesystem) Remove(path string) error { return os.Remove(path) }

func (OSFilesystem) Glob(pattern string) ([]string, error) { return filepath.Glob(pattern) }

func (OSFilesystem) ReadDir(path string) ([]fs.DirEntry, error) { return os.ReadDir(path) }

// IsDriveRoot reports whether path names the root of a volume once
// trailing separators are stripped: a drive designator (`C:`, `C:\`),
// a bare UNC share (`\\server\share`), or a lone slash. Windows path
// syntax is parsed explicitly rather than through filepath so the
// answer is the same on every build platform.
func IsDriveRoot(path string) bool {
	p := strings.TrimRight(strings.TrimSpace(path), `\/`)
	if p == "" {
		return true
	}
	if len(p) == 2 && p[1] == ':' && isDriveLetter(p[0]) {
		return true
	}
	if strings.HasPrefix(p, `\\`) {
		parts := strings.FieldsFunc(p[2:], func(r rune) bool { return r == '\\' || r == '/' })
		return len(parts) <= 2
	}
	return false
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
