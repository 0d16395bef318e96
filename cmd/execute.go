package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ComedicChimera/olive"
	"github.com/charmbracelet/log"

	"github.com/turbulenz/typescript/common"
	"github.com/turbulenz/typescript/depm"
	"github.com/turbulenz/typescript/host"
	"github.com/turbulenz/typescript/report"
)

// Execute is the main entry point for the `tsc` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("tsc", "tsc compiles TypeScript source trees", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "resolve and compile source code", true)
	buildCmd.AddPrimaryArg("path", "the path to an entry file or a project directory", true)
	buildCmd.AddStringArg("out", "o", "the path for compilation output", false)
	buildCmd.AddFlag("case-sensitive", "cs", "resolve file paths case-sensitively")
	buildCmd.AddFlag("exec", "e", "execute the output after an error-free compilation")

	watchCmd := cli.AddSubcommand("watch", "compile, then recompile as files change", true)
	watchCmd.AddPrimaryArg("path", "the path to an entry file or a project directory", true)
	watchCmd.AddStringArg("out", "o", "the path for compilation output", false)
	watchCmd.AddFlag("case-sensitive", "cs", "resolve file paths case-sensitively")
	watchCmd.AddFlag("exec", "e", "execute the output after an error-free compilation")

	cli.AddSubcommand("version", "print the tsc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		execBuildCommand(subResult, result.Arguments["loglevel"].(string), false)
	case "watch":
		execBuildCommand(subResult, result.Arguments["loglevel"].(string), true)
	case "version":
		report.DisplayInfoMessage("tsc version", common.ToolVersion)
	}
}

// execBuildCommand executes the build and watch subcommands and handles all
// errors related to them.
func execBuildCommand(result *olive.ArgParseResult, loglevel string, watchMode bool) {
	report.InitReporter(logLevelFromName(loglevel))
	if loglevel == "verbose" {
		log.SetLevel(log.DebugLevel)
	}

	fs := host.NewOSFS()

	// the primary argument is either a single entry file or a directory
	// holding a project manifest
	rootPath, _ := result.PrimaryArg()
	absPath := fs.ResolvePath(rootPath)

	var profile *BuildProfile
	if finfo, err := os.Stat(filepath.FromSlash(absPath)); err == nil && finfo.IsDir() {
		loaded, ok := LoadProject(absPath)
		if !ok {
			os.Exit(1)
		}

		profile = loaded
	} else {
		// a missing entry file is not fatal here: the driver reports it as
		// part of the resolution pass
		profile = &BuildProfile{
			Entries:  []string{absPath},
			Settings: depm.CompilationSettings{CaseSensitivePaths: result.HasFlag("case-sensitive")},
			Exec:     result.HasFlag("exec"),
		}

		if outVal, ok := result.Arguments["out"]; ok {
			profile.OutputPath = outVal.(string)
		}
	}

	report.ReportCompileHeader(common.ToolVersion, watchMode)

	driver := NewDriver(fs, profile.Settings, profile.Entries, profile.OutputPath)

	env := driver.ResolveEnvironment()
	if driver.Compile(env, NewBatchCompiler()) && profile.Exec {
		execOutput(profile.OutputPath)
	}

	report.ReportCompilationFinished(profile.OutputPath)

	if watchMode {
		watcher, err := host.NewFSWatcher()
		if err != nil {
			report.ReportFatal("unable to start file watcher: %s", err.Error())
		}

		recompile := func(env *depm.CompilationEnvironment) bool {
			return driver.Compile(env, NewBatchCompiler())
		}

		var onClean func()
		if profile.Exec {
			onClean = func() { execOutput(profile.OutputPath) }
		}

		wr := NewWatchReconciler(driver, watcher, recompile, onClean)
		wr.Start(env)

		// watch mode runs until interrupted
		select {}
	}

	if report.AnyErrors() {
		os.Exit(1)
	}
}

// execOutput runs the compiled output under node.
func execOutput(outputPath string) {
	run := exec.Command("node", filepath.FromSlash(outputPath))
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr

	if err := run.Run(); err != nil {
		report.ReportWarning("error executing output: %s", err.Error())
	}
}

// logLevelFromName converts a log level name from the command line to its
// enumerated value.
func logLevelFromName(name string) int {
	switch name {
	case "silent":
		return report.LogLevelSilent
	case "error":
		return report.LogLevelError
	case "warn":
		return report.LogLevelWarn
	default:
		return report.LogLevelVerbose
	}
}
