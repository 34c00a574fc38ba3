package prog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/patrickelectric/sixtyfps/pkg/buildinfo"
	"github.com/patrickelectric/sixtyfps/pkg/compiler"
	"github.com/patrickelectric/sixtyfps/pkg/env"
	"github.com/patrickelectric/sixtyfps/pkg/store"
)

// Project files looked up in the working directory when -project is not
// given, in order.
const (
	DefaultProject     = "sixtyfps.yaml"
	DefaultTOMLProject = "sixtyfps.toml"
)

// Project is the content of a project file.
type Project struct {
	// Requires is the minimal version of sixtyfps the project needs, e.g.
	// "0.1" or "v0.1.2".
	Requires       string   `yaml:"requires,omitempty" toml:"requires,omitempty"`
	IncludePaths   []string `yaml:"include_paths,omitempty" toml:"include_paths,omitempty"`
	EmbedResources bool     `yaml:"embed_resources,omitempty" toml:"embed_resources,omitempty"`
	ResourceCache  string   `yaml:"resource_cache,omitempty" toml:"resource_cache,omitempty"`
}

// LoadProject reads a project file, in TOML if its name ends in .toml and
// in YAML otherwise. Relative paths in the file are made relative to the
// directory of the file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Project
	if filepath.Ext(path) == ".toml" {
		err = decodeTOML(data, &p)
	} else {
		err = decodeYAML(data, &p)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := checkRequires(p.Requires, buildinfo.Value.Version); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, include := range p.IncludePaths {
		p.IncludePaths[i] = relativeTo(dir, include)
	}
	if p.ResourceCache != "" {
		p.ResourceCache = relativeTo(dir, p.ResourceCache)
	}
	return &p, nil
}

func decodeYAML(data []byte, p *Project) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func decodeTOML(data []byte, p *Project) error {
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(p)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("field %s not found in type prog.Project", undecoded[0])
	}
	return nil
}

func relativeTo(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func canonicalVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// checkRequires checks that the running version satisfies the requirement.
// Prereleases of the required version satisfy it, so that development
// builds can be used with projects that require the release being built.
func checkRequires(requires, version string) error {
	if requires == "" {
		return nil
	}
	req := canonicalVersion(requires)
	if !semver.IsValid(req) {
		return fmt.Errorf("invalid version in requires: %q", requires)
	}
	have := canonicalVersion(version)
	if !semver.IsValid(have) {
		// Unknown versions are not checked.
		return nil
	}
	release := strings.TrimSuffix(have, semver.Prerelease(have)+semver.Build(have))
	if semver.Compare(release, req) < 0 {
		return fmt.Errorf("project requires sixtyfps %s, this is %s", requires, version)
	}
	return nil
}

// Configuration returns the compiler configuration for the flags, merged
// with the project file. The returned function releases the resource cache
// and must be called when the configuration is no longer used.
func (f *Flags) Configuration() (*compiler.Configuration, func(), error) {
	project, err := f.project()
	if err != nil {
		return nil, nil, err
	}
	cfg := &compiler.Configuration{
		IncludePaths:   project.IncludePaths,
		EmbedResources: project.EmbedResources || f.Embed,
	}
	includes := append(f.Include[:len(f.Include):len(f.Include)], env.IncludePaths()...)
	for _, include := range includes {
		abs, err := filepath.Abs(include)
		if err != nil {
			return nil, nil, err
		}
		cfg.IncludePaths = append(cfg.IncludePaths, abs)
	}

	cache := f.Cache
	if cache == "" {
		cache = project.ResourceCache
	}
	if cache == "" || !cfg.EmbedResources {
		return cfg, func() {}, nil
	}
	st, err := store.NewStore(cache)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open resource cache: %w", err)
	}
	cfg.ResourceCache = st
	return cfg, func() { st.Close() }, nil
}

func (f *Flags) project() (*Project, error) {
	if f.Project != "" {
		return LoadProject(f.Project)
	}
	for _, name := range []string{DefaultProject, DefaultTOMLProject} {
		p, err := LoadProject(name)
		if !errors.Is(err, os.ErrNotExist) {
			return p, err
		}
	}
	return &Project{}, nil
}
