package host

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound indicates that a file did not exist at the probed path.  It is
// the only read failure the resolver treats as recoverable: every other I/O
// failure is structural and aborts the pass.
var ErrNotFound = errors.New("File not found")

// FoundFile is the result of a successful directory search: the content of
// the located file together with the path it was actually found at.
type FoundFile struct {
	Path    string
	Content string
}

// FS is the file system capability consumed by the resolver.  Implementations
// must distinguish a missing file (ErrNotFound) from other I/O failures.
type FS interface {
	// ResolvePath resolves a path to a canonical absolute form with forward
	// slashes.
	ResolvePath(path string) string

	// ReadFile reads the full content of the file at the given path.
	ReadFile(path string) (string, error)

	// FindFile searches for relativeName starting in rootDir and walking up
	// through its parent directories, returning the first hit.
	FindFile(rootDir, relativeName string) (*FoundFile, error)

	// DirName returns the directory portion of the given path.
	DirName(path string) string
}

// OSFS is the operating-system backed file system.
type OSFS struct{}

// NewOSFS creates a new OS-backed file system.
func NewOSFS() *OSFS {
	return &OSFS{}
}

func (osfs *OSFS) ResolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		// An unresolvable path is left as written: the read that follows will
		// produce the real diagnostic.
		return filepath.ToSlash(path)
	}

	return filepath.ToSlash(abs)
}

func (osfs *OSFS) ReadFile(path string) (string, error) {
	content, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}

		return "", err
	}

	return string(content), nil
}

func (osfs *OSFS) FindFile(rootDir, relativeName string) (*FoundFile, error) {
	dir := rootDir
	for {
		path := filepath.ToSlash(filepath.Join(dir, relativeName))

		content, err := osfs.ReadFile(path)
		if err == nil {
			return &FoundFile{Path: path, Content: content}, nil
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		parent := filepath.ToSlash(filepath.Dir(dir))
		if parent == dir || dir == "" {
			return nil, ErrNotFound
		}

		dir = parent
	}
}

func (osfs *OSFS) DirName(path string) string {
	dir := filepath.ToSlash(filepath.Dir(path))
	if dir == "." && !strings.HasPrefix(path, ".") {
		return ""
	}

	return dir
}
