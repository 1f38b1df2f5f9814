package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToolchainFile is the file name Generate output is written to
const ToolchainFile = "conan_toolchain.cmake"

// VariableType is a CMake cache entry type
type VariableType string

const (
	TypeString VariableType = "STRING"
	TypeBool   VariableType = "BOOL"
)

// Variable is a single CMake cache entry
type Variable struct {
	Name  string       `json:"name"`
	Value string       `json:"value"`
	Type  VariableType `json:"type"`
}

// Toolchain is an ordered set of cache variables
type Toolchain struct {
	Variables []Variable `json:"variables"`
}

// Lookup returns the variable called name
func (t *Toolchain) Lookup(name string) (Variable, bool) {
	for _, v := range t.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Bool reports a BOOL variable's value; ok is false when the variable is
// missing or not boolean
func (t *Toolchain) Bool(name string) (value, ok bool) {
	v, found := t.Lookup(name)
	if !found || v.Type != TypeBool {
		return false, false
	}
	return v.Value == "ON", true
}

func (t *Toolchain) setString(name, value string) {
	t.Variables = append(t.Variables, Variable{Name: name, Value: value, Type: TypeString})
}

func (t *Toolchain) setBool(name string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	t.Variables = append(t.Variables, Variable{Name: name, Value: v, Type: TypeBool})
}

// FeaturePrefix is the option name prefix that maps onto ENABLE variables
const FeaturePrefix = "with_"

// FeatureVariable names the cache variable for a with_<feature> option,
// e.g. terminus_math + with_tests -> TERMINUS_MATH_ENABLE_TESTS
func FeatureVariable(pkg, option string) string {
	feature := strings.TrimPrefix(option, FeaturePrefix)
	return strings.ToUpper(pkg) + "_ENABLE_" + strings.ToUpper(feature)
}

// Generate forwards package metadata and feature flags into cache
// variables: metadata first, then features in option declaration order
func (r *Recipe) Generate(cfg Configuration) Toolchain {
	var tc Toolchain
	tc.setString("CONAN_PKG_NAME", r.Name)
	tc.setString("CONAN_PKG_VERSION", r.Version)
	tc.setString("CONAN_PKG_DESCRIPTION", r.Description)
	tc.setString("CONAN_PKG_URL", r.URL)

	for _, opt := range r.Options {
		if strings.HasPrefix(opt.Name, FeaturePrefix) {
			tc.setBool(FeatureVariable(r.Name, opt.Name), cfg.Options[opt.Name])
		}
	}

	if _, ok := r.Option("shared"); ok {
		tc.setBool("BUILD_SHARED_LIBS", cfg.Options["shared"])
	}
	if bt, ok := cfg.Settings["build_type"]; ok {
		tc.setString("CMAKE_BUILD_TYPE", bt)
	}
	return tc
}

// Render formats the toolchain as CMake set() commands
func (t *Toolchain) Render() string {
	var sb strings.Builder
	sb.WriteString("# Generated by terminus-pkg. Do not edit.\n")
	for _, v := range t.Variables {
		value := v.Value
		if v.Type != TypeBool {
			value = quoteCMake(value)
		}
		fmt.Fprintf(&sb, "set(%s %s CACHE %s \"\" FORCE)\n", v.Name, value, v.Type)
	}
	return sb.String()
}

// WriteFile writes the toolchain into dir and returns the file path
func (t *Toolchain) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create toolchain dir: %w", err)
	}
	path := filepath.Join(dir, ToolchainFile)
	if err := os.WriteFile(path, []byte(t.Render()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write toolchain: %w", err)
	}
	return path, nil
}

var cmakeEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)

func quoteCMake(s string) string {
	return `"` + cmakeEscaper.Replace(s) + `"`
}
