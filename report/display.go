package report

import (
	"fmt"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// DisplayInfoMessage prints an informational message to the user.  This is
// displayed regardless of log level and so should only be used for output the
// user explicitly asked for (eg. the version string).
func DisplayInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// displayError displays an error message.
func displayError(msg string) {
	ErrorStyleBG.Print("Error")
	ErrorColorFG.Println(" " + msg)
}

// displayWarning displays a warning message.
func displayWarning(msg string) {
	WarnStyleBG.Print("Warning")
	WarnColorFG.Println(" " + msg)
}

// displayFatal displays a fatal error message.
func displayFatal(msg string) {
	ErrorStyleBG.Print("Fatal Error")
	ErrorColorFG.Println(" " + msg)
}

// ReportCompileHeader displays the pre-compilation header: information about
// the front-end's current configuration.  Only shown at the verbose log
// level.
func ReportCompileHeader(version string, watchMode bool) {
	if rep.logLevel == LogLevelVerbose {
		fmt.Print("tsc ")
		InfoColorFG.Println("v" + version)

		if watchMode {
			fmt.Println("watching for file changes")
		}
	}
}

// ReportCompilationFinished displays the concluding message for a
// compilation.  Only shown at the verbose log level.
func ReportCompilationFinished(outputPath string) {
	if rep.logLevel == LogLevelVerbose {
		if ShouldProceed() {
			SuccessStyleBG.Print("Done")
			fmt.Println(" " + outputPath)
		} else {
			ErrorStyleBG.Print("Fail")
			fmt.Println(" compilation finished with errors")
		}
	}
}
