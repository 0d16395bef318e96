package depm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbulenz/typescript/host"
	"github.com/turbulenz/typescript/syntax"
)

// testDispatcher records dispatcher calls for assertions.
type testDispatcher struct {
	order  []string
	units  map[string]*SourceUnit
	errors []string
}

func newTestDispatcher() *testDispatcher {
	return &testDispatcher{units: make(map[string]*SourceUnit)}
}

func (td *testDispatcher) PostResolution(path string, unit *SourceUnit) {
	td.order = append(td.order, path)
	td.units[path] = unit
}

func (td *testDispatcher) PostResolutionError(referencingFile string, ref *syntax.Reference, message string) {
	td.errors = append(td.errors, fmt.Sprintf("%s: %s", referencingFile, message))
}

func TestResolveIdempotentVisiting(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{
		"/proj/a.ts": "var x = 1;",
	})
	r := NewResolver(mfs, CompilationSettings{})
	d := newTestDispatcher()

	assert.True(t, r.ResolveCode("/proj/a.ts", "", false, d))
	assert.True(t, r.ResolveCode("/proj/a.ts", "", false, d))

	// Exactly one read and exactly one dispatch despite two resolutions.
	assert.Equal(t, 1, mfs.ReadCount("/proj/a.ts"))
	assert.Equal(t, []string{"/proj/a.ts"}, d.order)
}

func TestResolveCycleTerminates(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{
		"/proj/a.ts": `/// <reference path="./b.ts" />`,
		"/proj/b.ts": `/// <reference path="./a.ts" />`,
	})
	r := NewResolver(mfs, CompilationSettings{})
	d := newTestDispatcher()

	assert.True(t, r.ResolveCode("/proj/a.ts", "", false, d))

	// Both files are dispatched exactly once, b first since it is a's
	// dependency; the back edge b->a is a visited-set no-op.
	assert.Equal(t, []string{"/proj/b.ts", "/proj/a.ts"}, d.order)
	assert.Equal(t, 1, mfs.ReadCount("/proj/a.ts"))
	assert.Equal(t, 1, mfs.ReadCount("/proj/b.ts"))
	assert.Empty(t, d.errors)
}

func TestResolveSelfReference(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{
		"/proj/a.ts": `/// <reference path="./a.ts" />`,
	})
	r := NewResolver(mfs, CompilationSettings{})
	d := newTestDispatcher()

	assert.True(t, r.ResolveCode("/proj/a.ts", "", false, d))

	require.Len(t, d.errors, 1)
	assert.Equal(t, "/proj/a.ts: Incorrect reference: File contains reference to itself.", d.errors[0])

	// The self edge is skipped, not recursed: one read, one dispatch.
	assert.Equal(t, 1, mfs.ReadCount("/proj/a.ts"))
	assert.Equal(t, []string{"/proj/a.ts"}, d.order)
}

func TestDirectFallbackProbeOrder(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{
		"/proj/x.d.ts": "declare var x;",
	})
	r := NewResolver(mfs, CompilationSettings{})
	d := newTestDispatcher()

	assert.True(t, r.ResolveCode("/proj/x", "", false, d))

	// Exact probe order: primary source, legacy source, legacy declaration,
	// primary declaration.
	assert.Equal(t, []string{"/proj/x.ts", "/proj/x.str", "/proj/x.d.str", "/proj/x.d.ts"}, mfs.Reads)
	assert.Equal(t, []string{"/proj/x.d.ts"}, d.order)
}

func TestDirectFallbackLegacySource(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{
		"/proj/x.str": "var x = 1;",
	})
	r := NewResolver(mfs, CompilationSettings{})
	d := newTestDispatcher()

	assert.True(t, r.ResolveCode("/proj/x.ts", "", false, d))

	// The legacy-suffix sibling satisfies the reference on the second probe.
	assert.Equal(t, []string{"/proj/x.ts", "/proj/x.str"}, mfs.Reads)
	assert.Equal(t, []string{"/proj/x.str"}, d.order)
}

func TestDirectFallbackAllMiss(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{})
	r := NewResolver(mfs, CompilationSettings{})
	d := newTestDispatcher()

	assert.False(t, r.ResolveCode("/proj/x.ts", "", false, d))

	// A soft miss is not reported through the dispatcher: the caller decides.
	assert.Empty(t, d.errors)
	assert.Empty(t, d.order)
}

func TestCaseInsensitiveResolution(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{
		"/proj/Foo.ts": "var x = 1;",
	})
	r := NewResolver(mfs, CompilationSettings{CaseSensitivePaths: false})
	d := newTestDispatcher()

	assert.True(t, r.ResolveCode("/proj/Foo.ts", "", false, d))
	assert.True(t, r.ResolveCode("/proj/foo.ts", "", false, d))

	// Both casings fold to one visited-set entry: no I/O for the second.
	assert.Equal(t, []string{"/proj/Foo.ts"}, mfs.Reads)
	assert.Equal(t, []string{"/proj/Foo.ts"}, d.order)

	// Storage is case-preserving.
	assert.Equal(t, "/proj/Foo.ts", d.units["/proj/Foo.ts"].Path)
}

func TestCaseSensitiveResolution(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{
		"/proj/Foo.ts": "var x = 1;",
	})
	r := NewResolver(mfs, CompilationSettings{CaseSensitivePaths: true})
	d := newTestDispatcher()

	assert.True(t, r.ResolveCode("/proj/Foo.ts", "", false, d))

	// The other casing is a distinct entry and fails to resolve since only
	// one casing exists on disk.
	assert.False(t, r.ResolveCode("/proj/foo.ts", "", false, d))
	assert.Equal(t, []string{"/proj/Foo.ts"}, d.order)
}

func TestSearchProbeOrder(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{})
	r := NewResolver(mfs, CompilationSettings{})
	d := newTestDispatcher()

	assert.False(t, r.ResolveCode("mylib", "/proj/src", true, d))

	// The search strategy probes the host's directory search per suffix; it
	// never falls back to direct reads.
	assert.Equal(t, []string{"mylib.ts", "mylib.str", "mylib.d.str", "mylib.d.ts"}, mfs.Searches)
	assert.Empty(t, mfs.Reads)
}

func TestSearchWalksUpParentDirectories(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{
		"/proj/lib.ts": "var lib = 1;",
	})
	r := NewResolver(mfs, CompilationSettings{})
	d := newTestDispatcher()

	assert.True(t, r.ResolveCode("lib", "/proj/src/nested", true, d))

	assert.Equal(t, []string{"/proj/lib.ts"}, d.order)
}

func TestDiamondDependency(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{
		"/proj/a.ts": "/// <reference path=\"./b.ts\" />\n/// <reference path=\"./c.ts\" />",
		"/proj/b.ts": `/// <reference path="./d.ts" />`,
		"/proj/c.ts": `/// <reference path="./d.ts" />`,
		"/proj/d.ts": "var d = 1;",
	})
	r := NewResolver(mfs, CompilationSettings{})
	d := newTestDispatcher()

	assert.True(t, r.ResolveCode("/proj/a.ts", "", false, d))

	assert.Equal(t, []string{"/proj/d.ts", "/proj/b.ts", "/proj/c.ts", "/proj/a.ts"}, d.order)
	assert.Equal(t, 1, mfs.ReadCount("/proj/d.ts"))
}

func TestEndToEndDispatchOrder(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{
		"/proj/main.ts": "/// <reference path=\"./util.ts\" />\nimport lib = module(\"lib\");",
		"/proj/util.ts": "var util = 1;",
		"/proj/lib.ts":  `import core = module("core");`,
		"/proj/core.ts": "var core = 1;",
	})
	r := NewResolver(mfs, CompilationSettings{})
	d := newTestDispatcher()

	assert.True(t, r.ResolveCode("/proj/main.ts", "", false, d))

	// Children are fully resolved and dispatched before their referencer.
	assert.Equal(t,
		[]string{"/proj/util.ts", "/proj/core.ts", "/proj/lib.ts", "/proj/main.ts"},
		d.order)
	assert.Empty(t, d.errors)
	assert.Len(t, d.units, 4)
}

func TestNestedSoftErrorDoesNotFailParent(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{
		"/proj/a.ts": "/// <reference path=\"./missing.ts\" />\nimport gone = module(\"gone\");",
	})
	r := NewResolver(mfs, CompilationSettings{})
	d := newTestDispatcher()

	// Content was acquired, so resolution of a.ts itself succeeds even
	// though both of its references failed.
	assert.True(t, r.ResolveCode("/proj/a.ts", "", false, d))

	require.Len(t, d.errors, 2)
	assert.Equal(t, `/proj/a.ts: Incorrect reference: referenced file: "./missing.ts" cannot be resolved.`, d.errors[0])
	assert.Equal(t, `/proj/a.ts: Incorrect import: imported file: "gone" cannot be resolved.`, d.errors[1])
	assert.Equal(t, []string{"/proj/a.ts"}, d.order)
}

func TestVisited(t *testing.T) {
	mfs := host.NewMemFS(map[string]string{
		"/proj/a.ts": "var x = 1;",
	})
	r := NewResolver(mfs, CompilationSettings{})
	d := newTestDispatcher()

	assert.False(t, r.Visited("/proj/a.ts"))

	r.ResolveCode("/proj/a.ts", "", false, d)

	assert.True(t, r.Visited("/proj/a.ts"))

	// Visited applies no extension fallback: the suffix-less form of the
	// same path is a distinct key.
	assert.False(t, r.Visited("/proj/a"))
}
