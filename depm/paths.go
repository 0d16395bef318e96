package depm

import (
	"path"
	"strings"
)

// Recognized source-file suffixes.  `.str` is the legacy source suffix kept
// for compatibility with older tooling; `.d.ts` and `.d.str` mark
// declaration-only files.
const (
	SuffixSource            = ".ts"
	SuffixLegacySource      = ".str"
	SuffixDeclaration       = ".d.ts"
	SuffixLegacyDeclaration = ".d.str"
)

// SwitchToForwardSlashes canonicalizes all path separators to forward
// slashes.
func SwitchToForwardSlashes(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// StripQuotes removes any quote characters from a path as written in source.
func StripQuotes(p string) string {
	p = strings.ReplaceAll(p, "\"", "")
	return strings.ReplaceAll(p, "'", "")
}

// IsRelativePath returns whether the path is explicitly relative: ie. begins
// with `.` (covering both `./` and `../` forms).
func IsRelativePath(p string) bool {
	return strings.HasPrefix(p, ".")
}

// IsRootedPath returns whether the path is absolute: a Unix-rooted path, a
// UNC path, or a Windows drive-letter path.
func IsRootedPath(p string) bool {
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, "\\") {
		return true
	}

	// Drive letter: `C:/...`.
	if len(p) >= 2 && p[1] == ':' {
		c := p[0]
		return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
	}

	return false
}

// HasSourceSuffix returns whether the path ends in one of the two recognized
// source-suffix families.  Declaration files end in a source suffix as well,
// so this also matches them.
func HasSourceSuffix(p string) bool {
	return strings.HasSuffix(p, SuffixSource) || strings.HasSuffix(p, SuffixLegacySource)
}

// HasDeclarationSuffix returns whether the path ends in one of the two
// recognized declaration suffixes.
func HasDeclarationSuffix(p string) bool {
	return strings.HasSuffix(p, SuffixDeclaration) || strings.HasSuffix(p, SuffixLegacyDeclaration)
}

// EnsureSourceSuffix appends the default source suffix to a path that does
// not already end in a recognized source suffix.
func EnsureSourceSuffix(p string) string {
	if !HasSourceSuffix(p) {
		return p + SuffixSource
	}

	return p
}

// PathKey folds a normalized path to the single identity form used for
// deduplication and map lookups.  When case-sensitive resolution is off,
// identity is case-insensitive while storage elsewhere remains
// case-preserving.
func PathKey(p string, caseSensitive bool) string {
	if caseSensitive {
		return p
	}

	return strings.ToLower(p)
}

// ExpandReferencePath normalizes a reference path as written in source (or
// passed on the command line) against the directory of the referencing file.
// It returns the normalized path along with whether the path was left bare
// for a directory search: a bare module name is only searched for when the
// reference is an import (performSearch) and a parent directory is known.
func ExpandReferencePath(refPath, parentPath string, performSearch bool) (string, bool) {
	refPath = StripQuotes(SwitchToForwardSlashes(refPath))

	switch {
	case IsRelativePath(refPath):
		return path.Join(parentPath, refPath), false
	case IsRootedPath(refPath):
		return cleanRooted(refPath), false
	case !performSearch || parentPath == "":
		// Neither relative nor rooted with no search requested: the path is
		// treated as already absolute/well-known.
		return refPath, false
	default:
		return refPath, true
	}
}

// cleanRooted normalizes `.` and `..` segments of a rooted path.  Windows
// drive letters survive cleaning because the drive prefix is an ordinary
// leading segment to path.Clean.
func cleanRooted(p string) string {
	return path.Clean(p)
}

// swapSourceSuffix exchanges the two source-suffix families on a path:
// `.ts` <-> `.str`.  The path must end in a recognized source suffix.
func swapSourceSuffix(p string) string {
	if strings.HasSuffix(p, SuffixSource) {
		return strings.TrimSuffix(p, SuffixSource) + SuffixLegacySource
	}

	return strings.TrimSuffix(p, SuffixLegacySource) + SuffixSource
}

// trimSourceSuffix removes the trailing source suffix from a path, leaving
// the base used to build the declaration-suffix fallbacks.
func trimSourceSuffix(p string) string {
	if strings.HasSuffix(p, SuffixSource) {
		return strings.TrimSuffix(p, SuffixSource)
	}

	return strings.TrimSuffix(p, SuffixLegacySource)
}
