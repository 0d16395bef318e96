package syntax

import "strings"

// Preprocess scans loaded source text and extracts its outgoing file
// references in document order: explicit reference directives and import
// statements.  The scan is purely lexical: it tracks comments and string
// literals so that reference-like text inside either is never misread, but it
// performs no parsing beyond the reference forms themselves.
func Preprocess(text string) []*Reference {
	p := &preprocessor{text: text, line: 1}
	p.scan()
	return p.refs
}

// preprocessor is the scanner state for one call to Preprocess.
type preprocessor struct {
	text string
	pos  int

	// line is 1-indexed; col is 0-indexed.
	line, col int

	refs []*Reference
}

// markedPos is a saved scanner position used to backtrack out of partial
// matches.
type markedPos struct {
	pos, line, col int
}

func (p *preprocessor) scan() {
	for p.pos < len(p.text) {
		switch c := p.text[p.pos]; {
		case c == '/' && p.peekAt(1) == '/':
			p.scanLineComment()
		case c == '/' && p.peekAt(1) == '*':
			p.scanBlockComment()
		case c == '"' || c == '\'':
			p.scanStringLit(c)
		case isIdentStart(c):
			line, col := p.line, p.col
			if p.scanWord() == "import" {
				p.matchImport(line, col)
			}
		default:
			p.advance()
		}
	}
}

// scanLineComment consumes a line comment, extracting a reference directive
// if the comment is of the form `/// <reference path="..." />`.
func (p *preprocessor) scanLineComment() {
	line, col := p.line, p.col

	start := p.pos
	for p.pos < len(p.text) && p.text[p.pos] != '\n' {
		p.advance()
	}

	if path, ok := parseReferenceDirective(p.text[start:p.pos]); ok {
		p.refs = append(p.refs, &Reference{
			Path: path,
			Line: line,
			Col:  col,
			Kind: RefDirective,
		})
	}
}

// scanBlockComment consumes a block comment, including any newlines within
// it.
func (p *preprocessor) scanBlockComment() {
	p.advance() // `/`
	p.advance() // `*`

	for p.pos < len(p.text) {
		if p.text[p.pos] == '*' && p.peekAt(1) == '/' {
			p.advance()
			p.advance()
			return
		}

		p.advance()
	}
}

// scanStringLit consumes a string literal opened by the given quote
// character, honoring backslash escapes.
func (p *preprocessor) scanStringLit(quote byte) {
	p.advance() // opening quote

	for p.pos < len(p.text) {
		switch p.text[p.pos] {
		case '\\':
			p.advance()
			if p.pos < len(p.text) {
				p.advance()
			}
		case quote:
			p.advance()
			return
		default:
			p.advance()
		}
	}
}

// matchImport attempts to match an external module import of the form
// `import <ident> = module("path")` or `import <ident> = require("path")`
// with the `import` keyword already consumed at the given position.  If the
// text does not match, the scanner backtracks to just after the keyword.
func (p *preprocessor) matchImport(line, col int) {
	mark := p.mark()

	p.skipWhitespace()
	if p.scanWord() == "" {
		p.reset(mark)
		return
	}

	p.skipWhitespace()
	if !p.expect('=') {
		p.reset(mark)
		return
	}

	p.skipWhitespace()
	if kw := p.scanWord(); kw != "module" && kw != "require" {
		p.reset(mark)
		return
	}

	p.skipWhitespace()
	if !p.expect('(') {
		p.reset(mark)
		return
	}

	p.skipWhitespace()
	path, ok := p.scanQuoted()
	if !ok {
		p.reset(mark)
		return
	}

	p.refs = append(p.refs, &Reference{
		Path: path,
		Line: line,
		Col:  col,
		Kind: RefImport,
	})
}

// scanQuoted scans a string literal and returns its unquoted value.
func (p *preprocessor) scanQuoted() (string, bool) {
	if p.pos >= len(p.text) {
		return "", false
	}

	quote := p.text[p.pos]
	if quote != '"' && quote != '\'' {
		return "", false
	}

	p.advance()
	start := p.pos
	for p.pos < len(p.text) && p.text[p.pos] != quote && p.text[p.pos] != '\n' {
		p.advance()
	}

	if p.pos >= len(p.text) || p.text[p.pos] != quote {
		return "", false
	}

	value := p.text[start:p.pos]
	p.advance()
	return value, true
}

// scanWord scans an identifier-like word, returning "" if the scanner is not
// positioned at one.
func (p *preprocessor) scanWord() string {
	if p.pos >= len(p.text) || !isIdentStart(p.text[p.pos]) {
		return ""
	}

	start := p.pos
	for p.pos < len(p.text) && isIdentChar(p.text[p.pos]) {
		p.advance()
	}

	return p.text[start:p.pos]
}

func (p *preprocessor) skipWhitespace() {
	for p.pos < len(p.text) {
		switch p.text[p.pos] {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			p.advance()
		default:
			return
		}
	}
}

func (p *preprocessor) expect(c byte) bool {
	if p.pos < len(p.text) && p.text[p.pos] == c {
		p.advance()
		return true
	}

	return false
}

// advance consumes one character, maintaining the line and column counters.
func (p *preprocessor) advance() {
	if p.text[p.pos] == '\n' {
		p.line++
		p.col = 0
	} else {
		p.col++
	}

	p.pos++
}

// peekAt returns the character at the given offset from the scanner position
// or 0 if it is past the end of the text.
func (p *preprocessor) peekAt(offset int) byte {
	if p.pos+offset < len(p.text) {
		return p.text[p.pos+offset]
	}

	return 0
}

func (p *preprocessor) mark() markedPos {
	return markedPos{pos: p.pos, line: p.line, col: p.col}
}

func (p *preprocessor) reset(mark markedPos) {
	p.pos, p.line, p.col = mark.pos, mark.line, mark.col
}

// -----------------------------------------------------------------------------

// parseReferenceDirective extracts the path from a line comment of the form
// `/// <reference path="..." />`.  Comments that are not reference directives
// return false.
func parseReferenceDirective(comment string) (string, bool) {
	if !strings.HasPrefix(comment, "///") {
		return "", false
	}

	rest := strings.TrimLeft(comment[3:], " \t")
	if !strings.HasPrefix(rest, "<reference") {
		return "", false
	}

	rest = strings.TrimLeft(rest[len("<reference"):], " \t")
	if !strings.HasPrefix(rest, "path") {
		return "", false
	}

	rest = strings.TrimLeft(rest[len("path"):], " \t")
	if !strings.HasPrefix(rest, "=") {
		return "", false
	}

	rest = strings.TrimLeft(rest[1:], " \t")
	if len(rest) == 0 || (rest[0] != '"' && rest[0] != '\'') {
		return "", false
	}

	end := strings.IndexByte(rest[1:], rest[0])
	if end < 0 {
		return "", false
	}

	return rest[1 : end+1], true
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}
