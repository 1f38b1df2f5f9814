package recipe

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Format identifies a manifest encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// DefaultVersion is the recipe version returned by Default
const DefaultVersion = "0.0.8"

//go:embed manifests/*.yaml
var builtinFS embed.FS

// FormatFromPath infers the manifest format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unsupported manifest extension %q", ErrInvalidRecipe, filepath.Ext(path))
}

// manifestOption and manifest mirror the on-disk layout, where references
// are plain "name/version" strings
type manifestOption struct {
	Name    string `yaml:"name" toml:"name" json:"name"`
	Values  []bool `yaml:"values" toml:"values" json:"values"`
	Default *bool  `yaml:"default" toml:"default" json:"default"`
}

type manifest struct {
	Name              string           `yaml:"name" toml:"name" json:"name"`
	Version           string           `yaml:"version" toml:"version" json:"version"`
	License           string           `yaml:"license" toml:"license" json:"license"`
	Author            string           `yaml:"author" toml:"author" json:"author"`
	URL               string           `yaml:"url" toml:"url" json:"url"`
	Description       string           `yaml:"description" toml:"description" json:"description"`
	Topics            []string         `yaml:"topics" toml:"topics" json:"topics"`
	Options           []manifestOption `yaml:"options" toml:"options" json:"options"`
	DependencyOptions map[string]bool  `yaml:"dependency_options" toml:"dependency_options" json:"dependency_options"`
	Settings          []string         `yaml:"settings" toml:"settings" json:"settings"`
	Requires          []string         `yaml:"requires" toml:"requires" json:"requires"`
	ToolRequires      []string         `yaml:"tool_requires" toml:"tool_requires" json:"tool_requires"`
	TestRequires      []string         `yaml:"test_requires" toml:"test_requires" json:"test_requires"`
	ExportsSources    []string         `yaml:"exports_sources" toml:"exports_sources" json:"exports_sources"`
	PackageIDMode     string           `yaml:"package_id_mode" toml:"package_id_mode" json:"package_id_mode"`
}

// Parse decodes a recipe manifest and validates it
func Parse(data []byte, format Format) (*Recipe, error) {
	var m manifest
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &m)
	case FormatTOML:
		err = toml.Unmarshal(data, &m)
	case FormatJSON:
		err = sonic.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidRecipe, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s manifest: %w", format, err)
	}
	return m.toRecipe()
}

// LoadFile reads and parses a manifest, picking the format by extension
func LoadFile(path string) (*Recipe, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	r, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Builtin returns one of the recipe versions shipped with the binary
func Builtin(version string) (*Recipe, error) {
	data, err := builtinFS.ReadFile("manifests/terminus_math-" + version + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrVersionNotFound, version, strings.Join(BuiltinVersions(), ", "))
	}
	return Parse(data, FormatYAML)
}

// BuiltinVersions lists the shipped recipe versions in ascending order
func BuiltinVersions() []string {
	entries, _ := builtinFS.ReadDir("manifests")
	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".yaml")
		versions = append(versions, strings.TrimPrefix(name, "terminus_math-"))
	}
	sort.Strings(versions)
	return versions
}

// Default returns the current built-in recipe
func Default() *Recipe {
	r, err := Builtin(DefaultVersion)
	if err != nil {
		panic(fmt.Sprintf("built-in recipe %s is broken: %v", DefaultVersion, err))
	}
	return r
}

func (m *manifest) toRecipe() (*Recipe, error) {
	r := &Recipe{
		Name:              m.Name,
		Version:           m.Version,
		License:           m.License,
		Author:            m.Author,
		URL:               m.URL,
		Description:       m.Description,
		Topics:            m.Topics,
		DependencyOptions: m.DependencyOptions,
		Settings:          m.Settings,
		ExportsSources:    m.ExportsSources,
		PackageIDMode:     PackageIDMode(m.PackageIDMode),
	}
	if r.PackageIDMode == "" {
		r.PackageIDMode = PackageIDFull
	}

	for _, o := range m.Options {
		r.Options = append(r.Options, Option(o))
	}

	var err error
	if r.Requires, err = parseReferences(m.Requires); err != nil {
		return nil, err
	}
	if r.ToolRequires, err = parseReferences(m.ToolRequires); err != nil {
		return nil, err
	}
	if r.TestRequires, err = parseReferences(m.TestRequires); err != nil {
		return nil, err
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func parseReferences(raw []string) ([]Reference, error) {
	refs := make([]Reference, 0, len(raw))
	for _, s := range raw {
		ref, err := ParseReference(s)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
