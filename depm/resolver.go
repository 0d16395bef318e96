package depm

import (
	"errors"
	"fmt"

	"github.com/turbulenz/typescript/host"
	"github.com/turbulenz/typescript/report"
	"github.com/turbulenz/typescript/syntax"
)

// Dispatcher is the two-callback sink decoupling the resolver's recursive
// algorithm from how results are accumulated.
type Dispatcher interface {
	// PostResolution is called exactly once per distinct resolved file, after
	// all of the file's own references have been resolved.
	PostResolution(path string, unit *SourceUnit)

	// PostResolutionError is called once per unresolved or invalid reference.
	// referencingFile is the file containing the bad reference, not the file
	// that failed to resolve.
	PostResolutionError(referencingFile string, ref *syntax.Reference, message string)
}

// Resolver recursively resolves references to source files: it normalizes
// each referenced path, applies extension fallback, reads the file's content,
// discovers the file's own outgoing references, and recurses.  A resolver
// owns its visited set for the lifetime of one resolution pass and must not
// be reused across passes or shared between concurrent passes.
type Resolver struct {
	fs       host.FS
	settings CompilationSettings

	// visited maps path keys to presence.  Once a key is marked, resolving it
	// again is an O(1) no-op: this is what makes diamond dependencies and
	// reference cycles terminate with at most one read per file per pass.
	visited map[string]bool
}

// NewResolver creates a new resolver for a single resolution pass.
func NewResolver(fs host.FS, settings CompilationSettings) *Resolver {
	return &Resolver{
		fs:       fs,
		settings: settings,
		visited:  make(map[string]bool),
	}
}

// Visited returns whether the given path was resolved during this pass.  The
// path is keyed exactly as written (after slash canonicalization): no
// extension fallback is applied.
func (r *Resolver) Visited(path string) bool {
	return r.visited[r.pathKey(SwitchToForwardSlashes(path))]
}

// ResolveCode resolves one reference: referencePath as written in source or
// passed on the command line, parentPath the directory of the referencing
// file (empty for entry files), and performSearch true only for
// import-statement references.  Results are reported through the dispatcher.
//
// It returns true if content was acquired, regardless of whether nested
// references had errors, and false only if the content itself could not be
// acquired.  Soft misses are never reported here: the caller decides how to
// report them.
func (r *Resolver) ResolveCode(referencePath, parentPath string, performSearch bool, d Dispatcher) bool {
	normalized, bare := ExpandReferencePath(referencePath, parentPath, performSearch)
	if !bare {
		normalized = EnsureSourceSuffix(normalized)
	}

	key := r.pathKey(normalized)
	if r.visited[key] {
		return true
	}

	var actualPath, content string
	var ok bool
	if bare {
		actualPath, content, ok = r.searchForFile(parentPath, normalized)
	} else {
		actualPath, content, ok = r.readWithFallback(normalized)
	}

	if !ok {
		return false
	}

	// The pre-fallback key and the key of the path the content was actually
	// found at are both marked, so no file is ever read twice in one pass.
	r.visited[key] = true
	r.visited[r.pathKey(actualPath)] = true

	unit := NewSourceUnit(actualPath)
	unit.SetContent(content)

	parentDir := r.fs.DirName(actualPath)

	// Resolve the unit's explicit directive references first.
	for _, ref := range unit.References {
		if ref.Kind != syntax.RefDirective {
			continue
		}

		refNormalized, _ := ExpandReferencePath(ref.Path, parentDir, false)
		if r.pathKey(EnsureSourceSuffix(refNormalized)) == r.pathKey(actualPath) {
			d.PostResolutionError(actualPath, ref, "Incorrect reference: File contains reference to itself.")
			continue
		}

		if !r.ResolveCode(ref.Path, parentDir, false, d) {
			d.PostResolutionError(actualPath, ref,
				fmt.Sprintf("Incorrect reference: referenced file: \"%s\" cannot be resolved.", ref.Path))
		}
	}

	// Then resolve its import references, searching from its directory.
	for _, ref := range unit.References {
		if ref.Kind != syntax.RefImport {
			continue
		}

		if !r.ResolveCode(ref.Path, parentDir, true, d) {
			d.PostResolutionError(actualPath, ref,
				fmt.Sprintf("Incorrect import: imported file: \"%s\" cannot be resolved.", ref.Path))
		}
	}

	// The unit itself is dispatched only after recursing into its references,
	// so the final unit ordering reflects post-order discovery.  Compilation
	// order depends on this recursion shape.
	d.PostResolution(unit.Path, unit)

	return true
}

// readWithFallback implements the direct content-acquisition strategy: read
// the normalized path, then retry with a fixed fallback order of suffix
// substitutions, stopping at the first successful read.  The probe order is
// the written suffix, the swapped source family, the legacy declaration
// suffix, and finally the primary declaration suffix.
func (r *Resolver) readWithFallback(normalized string) (string, string, bool) {
	base := trimSourceSuffix(normalized)
	attempts := []string{
		normalized,
		swapSourceSuffix(normalized),
		base + SuffixLegacyDeclaration,
		base + SuffixDeclaration,
	}

	for _, attempt := range attempts {
		content, err := r.fs.ReadFile(attempt)
		if err == nil {
			return attempt, content, true
		}

		if !errors.Is(err, host.ErrNotFound) {
			// Anything other than a missing file is structural: the host
			// process treats it as fatal rather than a soft miss.
			report.ReportFatal("error reading file \"%s\": %s", attempt, err)
		}
	}

	return "", "", false
}

// searchForFile implements the search content-acquisition strategy for bare
// module names: delegate to the host's directory search with each suffix in
// the same probe order as the direct strategy.  Note that the host search
// reports only presence or absence per probe; it has none of the direct
// strategy's per-read failure granularity.
func (r *Resolver) searchForFile(parentPath, bareName string) (string, string, bool) {
	names := []string{
		bareName + SuffixSource,
		bareName + SuffixLegacySource,
		bareName + SuffixLegacyDeclaration,
		bareName + SuffixDeclaration,
	}

	for _, name := range names {
		found, err := r.fs.FindFile(parentPath, name)
		if err == nil {
			return found.Path, found.Content, true
		}

		if !errors.Is(err, host.ErrNotFound) {
			report.ReportFatal("error searching for file \"%s\": %s", name, err)
		}
	}

	return "", "", false
}

func (r *Resolver) pathKey(path string) string {
	return PathKey(path, r.settings.CaseSensitivePaths)
}
