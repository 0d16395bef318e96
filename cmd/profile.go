package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/turbulenz/typescript/common"
	"github.com/turbulenz/typescript/depm"
	"github.com/turbulenz/typescript/report"
)

// ProjectFileName is the name of the project manifest within a project
// directory.
const ProjectFileName = "tsproject.toml"

// tomlProject represents a project as it is encoded in TOML.
type tomlProject struct {
	Name               string   `toml:"name"`
	Entries            []string `toml:"entries"`
	Output             string   `toml:"output"`
	CaseSensitivePaths bool     `toml:"case-sensitive-paths"`
	Exec               bool     `toml:"exec"`
	ToolVersion        string   `toml:"tsc-version"`
}

// BuildProfile holds the validated configuration for one compilation.
type BuildProfile struct {
	Name       string
	Entries    []string
	OutputPath string
	Settings   depm.CompilationSettings
	Exec       bool
}

// LoadProject loads and validates a project manifest.  `abspath` is the
// absolute path to the project directory.  This function returns the
// deserialized profile and a success boolean.
func LoadProject(abspath string) (*BuildProfile, bool) {
	// open file
	f, err := os.Open(filepath.Join(abspath, ProjectFileName))
	if err != nil {
		report.ReportFatal("unable to open project file at `%s`: %s", abspath, err.Error())
		return nil, false
	}
	defer f.Close()

	// unmarshal the contents
	buff, err := io.ReadAll(f)
	if err != nil {
		report.ReportFatal("error reading project file at `%s`: %s", abspath, err.Error())
		return nil, false
	}

	tomlProj := &tomlProject{}
	if err := toml.Unmarshal(buff, tomlProj); err != nil {
		report.ReportFatal("error parsing project file at `%s`: %s", abspath, err.Error())
		return nil, false
	}

	if !validateProject(abspath, tomlProj) {
		return nil, false
	}

	// entry paths in the manifest are relative to the project directory
	profile := &BuildProfile{
		Name:       tomlProj.Name,
		OutputPath: tomlProj.Output,
		Settings:   depm.CompilationSettings{CaseSensitivePaths: tomlProj.CaseSensitivePaths},
		Exec:       tomlProj.Exec,
	}

	for _, entry := range tomlProj.Entries {
		if !depm.IsRootedPath(entry) {
			entry = filepath.ToSlash(filepath.Join(abspath, entry))
		}

		profile.Entries = append(profile.Entries, entry)
	}

	return profile, true
}

// validateProject checks that the top level manifest contents are valid.
func validateProject(abspath string, tomlProj *tomlProject) bool {
	if len(tomlProj.Entries) == 0 {
		report.ReportError("project at `%s` names no entry files", abspath)
		return false
	}

	if tomlProj.ToolVersion != "" && tomlProj.ToolVersion != common.ToolVersion {
		report.ReportWarning("project `%s` targets tsc v%s but the current version is v%s",
			tomlProj.Name, tomlProj.ToolVersion, common.ToolVersion)
	}

	return true
}
