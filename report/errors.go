package report

import (
	"fmt"
	"os"
)

// ResolutionErrorString renders a resolution error for user display.  The
// file is the path of the referencing file, not the file that failed to
// resolve.  Lines are stored 1-indexed, but columns are stored 0-indexed and
// so must be incremented before display.
func ResolutionErrorString(file string, line, col int, message string) string {
	return fmt.Sprintf("%s(%d,%d): %s", file, line, col+1, message)
}

// ReportResolutionError reports an error resolving a single reference: an
// unresolvable referenced file, an unresolvable import, or a self-reference.
// These errors are never fatal: the resolution pass continues past them.
func ReportResolutionError(file string, line, col int, message string) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		rep.isErr = true

		displayError(ResolutionErrorString(file, line, col, message))
	}
}

// ReportError reports a driver-level error that has no source position: eg.
// an entry file with an unknown extension.
func ReportError(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		rep.isErr = true

		displayError(fmt.Sprintf(message, args...))
	}
}

// ReportWarning reports a non-fatal warning to the user.
func ReportWarning(message string, args ...interface{}) {
	if rep.logLevel > LogLevelError {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayWarning(fmt.Sprintf(message, args...))
	}
}

// ReportFatal reports a fatal error.  These are errors that should cause the
// front-end to stop immediately: invalid configuration, unreadable project
// files, or unexpected I/O failures other than a missing file.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}
