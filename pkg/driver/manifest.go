// Package driver loads project configuration and C# sources from disk or
// from a git repository, and writes translated programs back out.
package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sdi1982/CSharpToPython/pkg/translator"
)

// DefaultManifestName is the file LoadManifest looks for in a directory.
const DefaultManifestName = "cs2py.yml"

// Manifest represents the parsed contents of cs2py.yml.
type Manifest struct {
	Path string
	Name string
	// Sources lists .cs files or directories, relative to the manifest.
	Sources []string
	Git     *GitSpec
	// Entry is the dotted path of the class to instantiate on run.
	Entry          string
	Output         string
	StrictDefaults bool
	// Defaults maps type names to the literal used for fields without an
	// initializer. A null value makes the type default to None.
	Defaults    map[string]any
	Parallelism int
}

// GitSpec locates sources in a git repository. Exactly one of Rev, Tag and
// Branch selects the revision.
type GitSpec struct {
	URL    string
	Rev    string
	Tag    string
	Branch string
	// Dir is the directory inside the repository that holds the sources.
	Dir string
}

type manifestFile struct {
	Name           string         `yaml:"name"`
	Sources        []string       `yaml:"sources"`
	Git            *gitFile       `yaml:"git"`
	Entry          string         `yaml:"entry"`
	Output         string         `yaml:"output"`
	StrictDefaults bool           `yaml:"strict_defaults"`
	Defaults       map[string]any `yaml:"defaults"`
	Parallelism    int            `yaml:"parallelism"`
}

type gitFile struct {
	URL    string `yaml:"url"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Dir    string `yaml:"dir"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses cs2py.yml from disk. A directory path selects the
// cs2py.yml inside it.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		absPath = filepath.Join(absPath, DefaultManifestName)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()
	return ParseManifest(file, absPath)
}

// ParseManifest decodes a manifest from r. path is recorded on the result
// and anchors relative source paths.
func ParseManifest(r io.Reader, path string) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", path)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	manifest := raw.toManifest(path)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (f manifestFile) toManifest(path string) *Manifest {
	m := &Manifest{
		Path:           path,
		Name:           strings.TrimSpace(f.Name),
		Sources:        f.Sources,
		Entry:          strings.TrimSpace(f.Entry),
		Output:         strings.TrimSpace(f.Output),
		StrictDefaults: f.StrictDefaults,
		Defaults:       f.Defaults,
		Parallelism:    f.Parallelism,
	}
	if f.Git != nil {
		m.Git = &GitSpec{
			URL:    strings.TrimSpace(f.Git.URL),
			Rev:    strings.TrimSpace(f.Git.Rev),
			Tag:    strings.TrimSpace(f.Git.Tag),
			Branch: strings.TrimSpace(f.Git.Branch),
			Dir:    strings.TrimSpace(f.Git.Dir),
		}
	}
	return m
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if len(m.Sources) == 0 && m.Git == nil {
		errs.Issues = append(errs.Issues, "sources or git must be provided")
	}
	for i, src := range m.Sources {
		if strings.TrimSpace(src) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("sources[%d] must be a non-empty path", i))
		}
	}
	if m.Git != nil {
		if m.Git.URL == "" {
			errs.Issues = append(errs.Issues, "git.url must be provided")
		}
		selectors := 0
		for _, value := range []string{m.Git.Rev, m.Git.Tag, m.Git.Branch} {
			if value != "" {
				selectors++
			}
		}
		if selectors != 1 {
			errs.Issues = append(errs.Issues, "git requires exactly one of rev, tag or branch")
		}
	}
	if m.Parallelism < 0 {
		errs.Issues = append(errs.Issues, "parallelism must not be negative")
	}
	if m.Entry != "" && (strings.HasPrefix(m.Entry, ".") || strings.HasSuffix(m.Entry, ".")) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q is not a dotted class path", m.Entry))
	}

	names := make([]string, 0, len(m.Defaults))
	for name := range m.Defaults {
		names = append(names, name)
	}
	sort.Strings(names)
	policy := translator.StrictDefaultPolicy()
	for _, name := range names {
		if err := policy.Set(name, m.Defaults[name]); err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("defaults.%s: %v", name, err))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Dir is the directory relative sources resolve against.
func (m *Manifest) Dir() string {
	if m.Path == "" {
		return "."
	}
	return filepath.Dir(m.Path)
}

// Policy builds the default-value table the manifest describes: the
// built-in table, or an empty one under strict_defaults, with the manifest's
// entries applied on top.
func (m *Manifest) Policy() (*translator.DefaultPolicy, error) {
	policy := translator.NewDefaultPolicy()
	if m.StrictDefaults {
		policy = translator.StrictDefaultPolicy()
	}
	for name, value := range m.Defaults {
		if err := policy.Set(name, value); err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
	}
	return policy, nil
}
