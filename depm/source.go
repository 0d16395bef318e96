package depm

import (
	"github.com/turbulenz/typescript/syntax"
	"github.com/turbulenz/typescript/util"
)

// SourceUnit represents one source file known to the compiler: its path and
// its lazily loaded textual content.  A unit transitions unloaded -> loaded
// exactly once and never changes path after creation.  Units are owned by the
// compilation environment that holds them and are never shared mutably across
// environments.
type SourceUnit struct {
	// Path is the normalized path to the file.
	Path string

	// Content is the text of the file.  It is only meaningful once Loaded is
	// set.
	Content string

	// Loaded indicates whether Content has been read.
	Loaded bool

	// References is the ordered list of the unit's outgoing references.  It
	// is nil until the unit has been preprocessed.
	References []*syntax.Reference
}

// NewSourceUnit creates a new unloaded source unit for the given path.
func NewSourceUnit(path string) *SourceUnit {
	return &SourceUnit{Path: path}
}

// SetContent loads the unit with the given text and extracts its outgoing
// references.
func (u *SourceUnit) SetContent(text string) {
	u.Content = text
	u.Loaded = true
	u.References = syntax.Preprocess(text)
}

// -----------------------------------------------------------------------------

// CompilationSettings holds the settings controlling resolution.  It is
// threaded through the resolver as a read-only value rather than consulted
// from ambient state.
type CompilationSettings struct {
	// CaseSensitivePaths selects whether path identity is case-sensitive.
	// When false, matching is case-insensitive but storage remains
	// case-preserving.
	CaseSensitivePaths bool
}

// CompilationEnvironment is the mutable ordered collection of source units
// currently known to the compiler.  The unit ordering is append-only and
// significant: it is the compilation order, driven by discovery order.  An
// environment lives for exactly one resolution+compile pass.
type CompilationEnvironment struct {
	// Units is the ordered sequence of source units.  No two units share a
	// path key.
	Units []*SourceUnit

	// Settings are the resolution settings for this environment.
	Settings CompilationSettings

	// InputOutputMap maps a unit's index in Units to its output path.
	InputOutputMap map[int]string
}

// NewEnvironment creates a new empty compilation environment with the given
// settings.
func NewEnvironment(settings CompilationSettings) *CompilationEnvironment {
	return &CompilationEnvironment{
		Settings:       settings,
		InputOutputMap: make(map[int]string),
	}
}

// AddUnit appends a unit to the environment.  It returns false without
// appending if a unit with the same path key is already present.
func (env *CompilationEnvironment) AddUnit(unit *SourceUnit) bool {
	if env.HasUnit(unit.Path) {
		return false
	}

	env.Units = append(env.Units, unit)
	return true
}

// HasUnit returns whether the environment already contains a unit whose path
// shares a path key with the given path.
func (env *CompilationEnvironment) HasUnit(path string) bool {
	key := PathKey(path, env.Settings.CaseSensitivePaths)
	for _, unit := range env.Units {
		if PathKey(unit.Path, env.Settings.CaseSensitivePaths) == key {
			return true
		}
	}

	return false
}

// Paths returns the paths of the environment's units in compilation order.
func (env *CompilationEnvironment) Paths() []string {
	return util.Map(env.Units, func(unit *SourceUnit) string { return unit.Path })
}
