package host

import (
	"path"
	"strings"
)

// MemFS is an in-memory file system.  It is primarily used to test the
// resolver against precise file layouts without touching the disk, and it
// records every probe so tests can assert on exact fallback order.
type MemFS struct {
	// Files maps absolute slash-separated paths to file content.
	Files map[string]string

	// Reads is the ordered log of every path passed to ReadFile.
	Reads []string

	// Searches is the ordered log of every relative name passed to FindFile.
	Searches []string
}

// NewMemFS creates a new in-memory file system holding the given files.
func NewMemFS(files map[string]string) *MemFS {
	return &MemFS{Files: files}
}

// ReadCount returns the number of times the given path has been read.
func (mfs *MemFS) ReadCount(p string) int {
	n := 0
	for _, read := range mfs.Reads {
		if read == p {
			n++
		}
	}

	return n
}

func (mfs *MemFS) ResolvePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return path.Clean(p)
}

func (mfs *MemFS) ReadFile(p string) (string, error) {
	mfs.Reads = append(mfs.Reads, p)

	if content, ok := mfs.Files[p]; ok {
		return content, nil
	}

	return "", ErrNotFound
}

func (mfs *MemFS) FindFile(rootDir, relativeName string) (*FoundFile, error) {
	mfs.Searches = append(mfs.Searches, relativeName)

	dir := rootDir
	for {
		p := path.Join(dir, relativeName)
		if content, ok := mfs.Files[p]; ok {
			return &FoundFile{Path: p, Content: content}, nil
		}

		parent := path.Dir(dir)
		if parent == dir || dir == "" {
			return nil, ErrNotFound
		}

		dir = parent
	}
}

func (mfs *MemFS) DirName(p string) string {
	dir := path.Dir(p)
	if dir == "." {
		return ""
	}

	return dir
}
