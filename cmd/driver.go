package cmd

import (
	"fmt"
	"path"
	"strings"

	"github.com/turbulenz/typescript/depm"
	"github.com/turbulenz/typescript/host"
	"github.com/turbulenz/typescript/report"
	"github.com/turbulenz/typescript/syntax"
	"github.com/turbulenz/typescript/util"
)

// Compiler is the capability boundary to the back end of the compiler.
type Compiler interface {
	// AddUnit hands one resolved source unit to the back end, in compilation
	// order.
	AddUnit(unit *depm.SourceUnit)

	// TypeCheck type checks all added units.
	TypeCheck() bool

	// Emit writes the compilation output.
	Emit() error
}

// Driver orchestrates resolution passes.  It owns the original entry-file
// list: every pass, including watch-mode re-runs, is seeded from it with a
// fresh resolver and a fresh compilation environment.
type Driver struct {
	fs       host.FS
	settings depm.CompilationSettings

	// entries is the normalized, deduplicated entry-file list.
	entries []string

	// outputPath is the configured output file or directory ("" for
	// per-input siblings).
	outputPath string
}

// NewDriver creates a new driver for the given entry files.
func NewDriver(fs host.FS, settings depm.CompilationSettings, entryPaths []string, outputPath string) *Driver {
	dr := &Driver{
		fs:         fs,
		settings:   settings,
		outputPath: outputPath,
	}

	for _, p := range entryPaths {
		resolved := fs.ResolvePath(depm.SwitchToForwardSlashes(p))
		if !util.Contains(dr.entries, resolved) {
			dr.entries = append(dr.entries, resolved)
		}
	}

	return dr
}

// ResolveEnvironment runs one full resolution pass from the driver's entry
// files and returns the resolved environment.  Entry files that never
// resolved are reported as user-facing errors; the pass itself always runs to
// completion, and the returned environment holds whatever did resolve.
func (dr *Driver) ResolveEnvironment() *depm.CompilationEnvironment {
	env := depm.NewEnvironment(dr.settings)
	r := depm.NewResolver(dr.fs, dr.settings)
	d := &envDispatcher{env: env}

	for _, entry := range dr.entries {
		r.ResolveCode(entry, "", false, d)
	}

	for _, msg := range dr.entryErrors(r) {
		report.ReportError("%s", msg)
	}

	dr.populateOutputMap(env)

	return env
}

// entryErrors checks for entry files whose paths were never marked resolved,
// distinguishing an unrecognized suffix from an unreadable file.  Note that
// the lookup uses the entry path exactly as given: an entry with no suffix is
// reported even if the resolver completed it to a readable source file.
func (dr *Driver) entryErrors(r *depm.Resolver) []string {
	var msgs []string
	for _, entry := range dr.entries {
		if r.Visited(entry) {
			continue
		}

		if !depm.HasSourceSuffix(entry) && !depm.HasDeclarationSuffix(entry) {
			msgs = append(msgs,
				fmt.Sprintf("Unknown extension for file: \"%s\". Only .ts and .d.ts extensions are allowed.", entry))
		} else {
			msgs = append(msgs, fmt.Sprintf("Error reading file \"%s\": File not found", entry))
		}
	}

	return msgs
}

// Compile hands a resolved environment to the back end.
func (dr *Driver) Compile(env *depm.CompilationEnvironment, backend Compiler) bool {
	for _, unit := range env.Units {
		backend.AddUnit(unit)
	}

	if !backend.TypeCheck() {
		return false
	}

	if err := backend.Emit(); err != nil {
		report.ReportError("error emitting compilation output: %s", err)
		return false
	}

	return report.ShouldProceed()
}

// populateOutputMap computes the output path of each resolved unit.  A
// configured `.js` output path maps every unit to that single file; otherwise
// each unit maps to a `.js` file named after it, placed in the output
// directory when one is configured and next to the input when not.
func (dr *Driver) populateOutputMap(env *depm.CompilationEnvironment) {
	for i, unit := range env.Units {
		if strings.HasSuffix(dr.outputPath, ".js") {
			env.InputOutputMap[i] = dr.outputPath
			continue
		}

		out := outputJSPath(unit.Path)
		if dr.outputPath != "" {
			out = path.Join(dr.outputPath, path.Base(out))
		}

		env.InputOutputMap[i] = out
	}
}

// outputJSPath replaces a unit path's recognized suffix with `.js`.
func outputJSPath(p string) string {
	for _, suffix := range []string{
		depm.SuffixDeclaration,
		depm.SuffixLegacyDeclaration,
		depm.SuffixSource,
		depm.SuffixLegacySource,
	} {
		if strings.HasSuffix(p, suffix) {
			return strings.TrimSuffix(p, suffix) + ".js"
		}
	}

	return p + ".js"
}

// -----------------------------------------------------------------------------

// envDispatcher accumulates resolution results into a compilation environment
// and reports resolution errors to the user.
type envDispatcher struct {
	env *depm.CompilationEnvironment
}

func (ed *envDispatcher) PostResolution(path string, unit *depm.SourceUnit) {
	ed.env.AddUnit(unit)
}

func (ed *envDispatcher) PostResolutionError(referencingFile string, ref *syntax.Reference, message string) {
	report.ReportResolutionError(referencingFile, ref.Line, ref.Col, message)
}
