// Package recipe models the terminus_math package recipe: its identity,
// option space, settings tuple, requirements and export set, plus the
// operations that drive an external CMake build from it.
package recipe

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidRecipe      = errors.New("invalid recipe")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrUnknownOption      = errors.New("unknown option")
	ErrInvalidOptionValue = errors.New("option value not allowed")
	ErrMissingSetting     = errors.New("missing setting")
	ErrUnknownSetting     = errors.New("unknown setting")
	ErrVersionNotFound    = errors.New("recipe version not found")
)

// Reference names a package as name/version
type Reference struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ParseReference parses "name/version"
func ParseReference(s string) (Reference, error) {
	name, version, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || name == "" || version == "" || strings.Contains(version, "/") {
		return Reference{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	return Reference{Name: name, Version: version}, nil
}

func (r Reference) String() string {
	return r.Name + "/" + r.Version
}

// Option is one recipe option with its allowed values. A nil Default
// resolves to false.
type Option struct {
	Name    string `json:"name"`
	Values  []bool `json:"values"`
	Default *bool  `json:"default,omitempty"`
}

// Allows reports whether v is one of the option's values. An option
// without declared values accepts both.
func (o Option) Allows(v bool) bool {
	if len(o.Values) == 0 {
		return true
	}
	for _, allowed := range o.Values {
		if allowed == v {
			return true
		}
	}
	return false
}

// DefaultValue returns the declared default or false
func (o Option) DefaultValue() bool {
	if o.Default == nil {
		return false
	}
	return *o.Default
}

// PackageIDMode selects what feeds the package ID
type PackageIDMode string

const (
	// PackageIDClear drops settings, options and requirements
	PackageIDClear PackageIDMode = "clear"
	// PackageIDFull hashes settings, options and requirements
	PackageIDFull PackageIDMode = "full"
)

// Recipe is a declarative package description
type Recipe struct {
	Name              string          `json:"name"`
	Version           string          `json:"version"`
	License           string          `json:"license,omitempty"`
	Author            string          `json:"author,omitempty"`
	URL               string          `json:"url,omitempty"`
	Description       string          `json:"description,omitempty"`
	Topics            []string        `json:"topics,omitempty"`
	Options           []Option        `json:"options"`
	DependencyOptions map[string]bool `json:"dependency_options,omitempty"`
	Settings          []string        `json:"settings"`
	Requires          []Reference     `json:"requires"`
	ToolRequires      []Reference     `json:"tool_requires,omitempty"`
	TestRequires      []Reference     `json:"test_requires,omitempty"`
	ExportsSources    []string        `json:"exports_sources"`
	PackageIDMode     PackageIDMode   `json:"package_id_mode"`
}

// Ref returns the recipe's own reference
func (r *Recipe) Ref() Reference {
	return Reference{Name: r.Name, Version: r.Version}
}

// Option looks up an option by name
func (r *Recipe) Option(name string) (Option, bool) {
	for _, o := range r.Options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// Validate checks identity, option uniqueness, requirement references and
// the package ID mode
func (r *Recipe) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecipe)
	}
	if r.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidRecipe)
	}

	seen := make(map[string]bool, len(r.Options))
	for _, o := range r.Options {
		if o.Name == "" {
			return fmt.Errorf("%w: option without a name", ErrInvalidRecipe)
		}
		if seen[o.Name] {
			return fmt.Errorf("%w: duplicate option %q", ErrInvalidRecipe, o.Name)
		}
		seen[o.Name] = true
		if o.Default != nil && !o.Allows(*o.Default) {
			return fmt.Errorf("%w: default of %q is not an allowed value", ErrInvalidRecipe, o.Name)
		}
	}

	for _, group := range [][]Reference{r.Requires, r.ToolRequires, r.TestRequires} {
		for _, ref := range group {
			if ref.Name == "" || ref.Version == "" {
				return fmt.Errorf("%w: %q", ErrInvalidReference, ref.String())
			}
		}
	}

	switch r.PackageIDMode {
	case PackageIDClear, PackageIDFull:
	default:
		return fmt.Errorf("%w: package_id_mode %q", ErrInvalidRecipe, r.PackageIDMode)
	}
	return nil
}

// Settings holds concrete values for the settings tuple
type Settings map[string]string

// Configuration is a resolved option and settings assignment
type Configuration struct {
	Options  map[string]bool `json:"options"`
	Settings Settings        `json:"settings"`
}

// Configure resolves overrides against the option space. Every declared
// setting must be supplied; unset options take their defaults.
func (r *Recipe) Configure(overrides map[string]bool, settings Settings) (Configuration, error) {
	cfg := Configuration{
		Options:  make(map[string]bool, len(r.Options)),
		Settings: make(Settings, len(settings)),
	}

	for _, name := range sortedKeys(overrides) {
		opt, ok := r.Option(name)
		if !ok {
			return Configuration{}, fmt.Errorf("%w: %q", ErrUnknownOption, name)
		}
		if !opt.Allows(overrides[name]) {
			return Configuration{}, fmt.Errorf("%w: %s=%t", ErrInvalidOptionValue, name, overrides[name])
		}
	}
	for _, opt := range r.Options {
		v, ok := overrides[opt.Name]
		if !ok {
			v = opt.DefaultValue()
		}
		cfg.Options[opt.Name] = v
	}

	declared := make(map[string]bool, len(r.Settings))
	for _, s := range r.Settings {
		declared[s] = true
		v, ok := settings[s]
		if !ok || v == "" {
			return Configuration{}, fmt.Errorf("%w: %q", ErrMissingSetting, s)
		}
		cfg.Settings[s] = v
	}
	for _, s := range sortedKeys(settings) {
		if !declared[s] {
			return Configuration{}, fmt.Errorf("%w: %q", ErrUnknownSetting, s)
		}
	}
	return cfg, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
