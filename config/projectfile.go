// Package config loads the .phraseup.yaml project file and environment settings.
//
// A .phraseup.yaml in the working directory supplies defaults for a
// project so they do not have to be repeated on every invocation:
//
//	project_name: Demo
//	locale: de
//	api_url: https://api.phrase.com
//
// Command-line flags always win over the file. The access token is never
// read from the project file; see Env.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the default project file name.
const ProjectFileName = ".phraseup.yaml"

// DefaultLocale is used when neither flag nor file name a locale.
const DefaultLocale = "en"

// ProjectFile is the top-level .phraseup.yaml structure.
type ProjectFile struct {
	// ProjectName is the Phrase project keys are created in.
	ProjectName string `yaml:"project_name,omitempty"`
	// Locale is the locale name translations are attached to.
	Locale string `yaml:"locale,omitempty"`
	// APIURL overrides the Phrase API host.
	APIURL string `yaml:"api_url,omitempty"`

	// path the file was loaded from.
	path string
}

// Path returns the file the settings were read from.
func (pf *ProjectFile) Path() string {
	return pf.path
}

// LoadProjectFile loads .phraseup.yaml from dir. Returns nil if it does not
// exist.
func LoadProjectFile(dir string) (*ProjectFile, error) {
	pf, err := LoadProjectFilePath(filepath.Join(dir, ProjectFileName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return pf, err
}

// LoadProjectFilePath loads and validates a project file at an explicit
// path. A missing file is an error the caller can test with os.IsNotExist.
func LoadProjectFilePath(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	pf.path = path

	pf.ProjectName = strings.TrimSpace(pf.ProjectName)
	pf.Locale = strings.TrimSpace(pf.Locale)
	pf.APIURL = strings.TrimSpace(pf.APIURL)

	if pf.APIURL != "" && !strings.HasPrefix(pf.APIURL, "http://") && !strings.HasPrefix(pf.APIURL, "https://") {
		return nil, fmt.Errorf("%s: api_url %q must start with http:// or https://", path, pf.APIURL)
	}

	return &pf, nil
}

// ---------------------------------------------------------------------------
// Resolution
// ---------------------------------------------------------------------------

// Settings are the resolved, non-secret run settings.
type Settings struct {
	ProjectName string
	Locale      string
	APIURL      string
}

// Resolve merges explicit values (flags) over env over the project file over
// defaults. Any of env and pf may be nil.
func Resolve(flags Settings, env *Env, pf *ProjectFile) Settings {
	out := flags

	if out.ProjectName == "" && pf != nil {
		out.ProjectName = pf.ProjectName
	}

	if out.Locale == "" && pf != nil {
		out.Locale = pf.Locale
	}
	if out.Locale == "" {
		out.Locale = DefaultLocale
	}

	if out.APIURL == "" && env != nil {
		out.APIURL = env.APIURL
	}
	if out.APIURL == "" && pf != nil {
		out.APIURL = pf.APIURL
	}

	return out
}
