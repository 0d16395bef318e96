package syntax

// ReferenceKind enumerates the kinds of outgoing file references a source
// file can contain.
type ReferenceKind int

const (
	// RefDirective is an explicit reference directive: a reference to another
	// file stated literally by path, eg. `/// <reference path="io.ts" />`.
	// Directive references are resolved without directory search.
	RefDirective ReferenceKind = iota

	// RefImport is an import statement referencing a file by module name, eg.
	// `import io = module("io")`.  Import references are resolved by
	// searching relative to the referencing file's directory.
	RefImport
)

// Reference is a single outgoing file reference extracted from source text.
// References are immutable once produced.
type Reference struct {
	// Path is the referenced path as written in the source, without its
	// surrounding quotes.
	Path string

	// Line and Col give the source position of the reference.  Lines are
	// 1-indexed; columns are 0-indexed.
	Line, Col int

	// Kind is the kind of the reference.
	Kind ReferenceKind
}
