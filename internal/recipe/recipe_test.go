package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/terminus-math/internal/shared/utils"
)

func linuxSettings() Settings {
	return Settings{"os": "Linux", "compiler": "gcc", "build_type": "Release", "arch": "x86_64"}
}

func TestParseReference(t *testing.T) {
	ref, err := ParseReference("boost/1.82.0")
	require.NoError(t, err)
	assert.Equal(t, Reference{Name: "boost", Version: "1.82.0"}, ref)
	assert.Equal(t, "boost/1.82.0", ref.String())

	for _, bad := range []string{"", "boost", "/1.0", "boost/", "a/b/c"} {
		_, err := ParseReference(bad)
		assert.ErrorIs(t, err, ErrInvalidReference, bad)
	}
}

func TestBuiltinRecipes(t *testing.T) {
	t.Run("current", func(t *testing.T) {
		r := Default()
		assert.Equal(t, "terminus_math", r.Name)
		assert.Equal(t, "0.0.8", r.Version)
		assert.Equal(t, "Straightforward Math APIs", r.Description)
		assert.Equal(t, []string{"terminus", "math"}, r.Topics)
		assert.Equal(t, PackageIDClear, r.PackageIDMode)
		assert.Equal(t, []string{"os", "compiler", "build_type", "arch"}, r.Settings)
		assert.True(t, r.DependencyOptions["boost/*:shared"])

		var requires []string
		for _, ref := range r.Requires {
			requires = append(requires, ref.String())
		}
		assert.Equal(t, []string{
			"boost/1.82.0",
			"eigen/3.4.0",
			"terminus_core/0.0.3",
			"terminus_log/0.0.3",
			"terminus_outcome/0.0.2",
		}, requires)
		assert.Equal(t, []Reference{{"terminus_cmake", "1.0.1"}}, r.ToolRequires)
		assert.Equal(t, []Reference{{"gtest", "1.13.0"}}, r.TestRequires)
	})

	t.Run("first release", func(t *testing.T) {
		r, err := Builtin("0.0.1")
		require.NoError(t, err)
		assert.Equal(t, []Reference{{"boost", "1.82.0"}}, r.Requires)
		assert.Empty(t, r.ToolRequires)
		assert.Empty(t, r.TestRequires)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Builtin("9.9.9")
		assert.ErrorIs(t, err, ErrVersionNotFound)
		assert.Contains(t, err.Error(), "0.0.1, 0.0.8")
	})

	assert.Equal(t, []string{"0.0.1", "0.0.8"}, BuiltinVersions())
}

func TestConfigure(t *testing.T) {
	r := Default()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := r.Configure(nil, linuxSettings())
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{
			"shared":        false,
			"with_tests":    true,
			"with_docs":     true,
			"with_coverage": false,
		}, cfg.Options)
		assert.Equal(t, "Release", cfg.Settings["build_type"])
	})

	t.Run("override", func(t *testing.T) {
		cfg, err := r.Configure(map[string]bool{"with_coverage": true, "shared": true}, linuxSettings())
		require.NoError(t, err)
		assert.True(t, cfg.Options["with_coverage"])
		assert.True(t, cfg.Options["shared"])
	})

	t.Run("unknown option", func(t *testing.T) {
		_, err := r.Configure(map[string]bool{"with_fortran": true}, linuxSettings())
		assert.ErrorIs(t, err, ErrUnknownOption)
	})

	t.Run("missing setting", func(t *testing.T) {
		s := linuxSettings()
		delete(s, "arch")
		_, err := r.Configure(nil, s)
		assert.ErrorIs(t, err, ErrMissingSetting)
	})

	t.Run("unknown setting", func(t *testing.T) {
		s := linuxSettings()
		s["cppstd"] = "20"
		_, err := r.Configure(nil, s)
		assert.ErrorIs(t, err, ErrUnknownSetting)
	})

	t.Run("disallowed value", func(t *testing.T) {
		only := true
		custom := &Recipe{
			Name: "x", Version: "1", PackageIDMode: PackageIDFull,
			Options: []Option{{Name: "with_magic", Values: []bool{true}, Default: &only}},
		}
		_, err := custom.Configure(map[string]bool{"with_magic": false}, nil)
		assert.ErrorIs(t, err, ErrInvalidOptionValue)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Recipe)
		err    error
	}{
		{"missing name", func(r *Recipe) { r.Name = "" }, ErrInvalidRecipe},
		{"missing version", func(r *Recipe) { r.Version = "" }, ErrInvalidRecipe},
		{"duplicate option", func(r *Recipe) { r.Options = append(r.Options, r.Options[0]) }, ErrInvalidRecipe},
		{"bad reference", func(r *Recipe) { r.Requires = append(r.Requires, Reference{Name: "zlib"}) }, ErrInvalidReference},
		{"bad mode", func(r *Recipe) { r.PackageIDMode = "partial" }, ErrInvalidRecipe},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Default()
			tt.mutate(r)
			assert.ErrorIs(t, r.Validate(), tt.err)
		})
	}
}

func TestPackageID(t *testing.T) {
	r := Default()

	release, err := r.Configure(nil, linuxSettings())
	require.NoError(t, err)

	other := linuxSettings()
	other["compiler"] = "clang"
	other["build_type"] = "Debug"
	debug, err := r.Configure(map[string]bool{"with_tests": false}, other)
	require.NoError(t, err)

	id := func(cfg Configuration) string {
		t.Helper()
		out, err := r.PackageID(cfg)
		require.NoError(t, err)
		return out
	}

	t.Run("clear", func(t *testing.T) {
		assert.Equal(t, id(release), id(debug))
		assert.Len(t, id(release), 64)
	})

	t.Run("full", func(t *testing.T) {
		r.PackageIDMode = PackageIDFull
		assert.NotEqual(t, id(release), id(debug))
		assert.Equal(t, id(release), id(release))
		assert.NotEqual(t, id(release), utils.DefaultHasher().HashFields())

		// key order in the settings map never changes the ID
		reordered := Configuration{Options: release.Options, Settings: Settings{}}
		for _, k := range []string{"arch", "build_type", "compiler", "os"} {
			reordered.Settings[k] = release.Settings[k]
		}
		assert.Equal(t, id(release), id(reordered))
	})
}
