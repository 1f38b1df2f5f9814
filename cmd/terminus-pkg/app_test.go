package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/GriffinCanCode/terminus-math/internal/recipe"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	return m.Called(name, strings.Join(args, " ")).Error(0)
}

func newTestApp(t *testing.T, runner recipe.Runner) (*app, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return &app{
		stdout:         &stdout,
		stderr:         &stderr,
		logger:         zaptest.NewLogger(t),
		runner:         runner,
		now:            func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) },
		defaultVersion: recipe.DefaultVersion,
	}, &stdout, &stderr
}

var linux = []string{"-s", "os=Linux", "-s", "compiler=gcc", "-s", "build_type=Release", "-s", "arch=x86_64"}

func args(cmd string, extra ...string) []string {
	return append([]string{cmd}, extra...)
}

func TestUsage(t *testing.T) {
	a, _, stderr := newTestApp(t, nil)
	ctx := context.Background()

	assert.Equal(t, exitUsage, a.run(ctx, nil))
	assert.Contains(t, stderr.String(), "collect-libs")
	assert.Equal(t, exitOK, a.run(ctx, []string{"help"}))
	assert.Equal(t, exitUsage, a.run(ctx, []string{"deploy"}))
	assert.Equal(t, exitUsage, a.run(ctx, []string{"info", "-bogus"}))
	assert.Equal(t, exitUsage, a.run(ctx, []string{"info", "extra"}))
}

func TestInfo(t *testing.T) {
	a, stdout, _ := newTestApp(t, nil)
	require.Equal(t, exitOK, a.run(context.Background(), []string{"info"}))
	assert.Contains(t, stdout.String(), `"name": "terminus_math"`)
	assert.Contains(t, stdout.String(), `"version": "0.0.8"`)

	a, stdout, _ = newTestApp(t, nil)
	require.Equal(t, exitOK, a.run(context.Background(), []string{"info", "-version", "0.0.1"}))
	assert.Contains(t, stdout.String(), `"version": "0.0.1"`)

	a, _, _ = newTestApp(t, nil)
	assert.Equal(t, exitError, a.run(context.Background(), []string{"info", "-version", "9.9.9"}))
}

func TestPackageIDIsSettingsIndependent(t *testing.T) {
	ctx := context.Background()

	a, gcc, _ := newTestApp(t, nil)
	require.Equal(t, exitOK, a.run(ctx, args("package-id", linux...)))

	a, clang, _ := newTestApp(t, nil)
	require.Equal(t, exitOK, a.run(ctx, args("package-id",
		"-s", "os=Linux", "-s", "compiler=clang", "-s", "build_type=Debug", "-s", "arch=x86_64")))

	assert.NotEmpty(t, strings.TrimSpace(gcc.String()))
	assert.Equal(t, gcc.String(), clang.String())
}

func TestGenerate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "conan_toolchain.cmake")
	a, _, _ := newTestApp(t, nil)

	code := a.run(context.Background(), args("generate", append(linux, "-o", "with_tests=False", "-out", out)...))
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "set(TERMINUS_MATH_ENABLE_TESTS OFF")

	a, _, stderr := newTestApp(t, nil)
	assert.Equal(t, exitUsage, a.run(context.Background(), args("generate", append(linux, "-o", "with_tests=maybe")...)))
	assert.Contains(t, stderr.String(), "not a boolean")

}

const coverageOffRecipe = `name: terminus_math
version: 0.0.1
license: Terminus Proprietary
options:
  - name: shared
    values: [true, false]
  - name: with_coverage
    values: [false]
    default: false
settings: [os, compiler, build_type, arch]
requires:
  - boost/1.82.0
package_id_mode: clear
`

func TestOptionErrorsAreUsage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(coverageOffRecipe), 0o644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown option", []string{"-o", "turbo=true"}, "unknown option"},
		{"disallowed value", []string{"-recipe", path, "-o", "with_coverage=true"}, "option value not allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, stderr := newTestApp(t, nil)
			code := a.run(context.Background(), args("generate", append(linux, tt.args...)...))
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr.String(), tt.wantErr)
		})
	}
}

func TestBuildPropagatesExitCode(t *testing.T) {
	runner := &mockRunner{}
	runner.On("Run", "cmake", mock.MatchedBy(func(a string) bool { return strings.HasPrefix(a, "-S ") })).Return(nil)
	runner.On("Run", "cmake", mock.MatchedBy(func(a string) bool { return strings.HasPrefix(a, "--build ") })).
		Return(&recipe.ExitError{Command: "cmake --build", Code: 3})

	root := t.TempDir()
	a, _, _ := newTestApp(t, runner)
	code := a.run(context.Background(), args("build",
		append(linux, "-source", root, "-build", filepath.Join(root, "build"))...))

	assert.Equal(t, 3, code)
	runner.AssertNumberOfCalls(t, "Run", 2)
}

func TestPackage(t *testing.T) {
	runner := &mockRunner{}
	runner.On("Run", "cmake", mock.Anything).Return(nil)

	root := t.TempDir()
	pkg := filepath.Join(root, "pkg")
	a, _, _ := newTestApp(t, runner)
	code := a.run(context.Background(), args("package",
		append(linux, "-source", root, "-build", filepath.Join(root, "build"), "-package-dir", pkg)...))

	require.Equal(t, exitOK, code)
	runner.AssertCalled(t, "Run", "cmake", "--install "+filepath.Join(root, "build")+" --prefix "+pkg)
}

func TestExportAndCollectLibs(t *testing.T) {
	src := t.TempDir()
	for _, f := range []string{"CMakeLists.txt", "include/terminus/math/vector.hpp", "docs/index.md"} {
		path := filepath.Join(src, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	a, stdout, _ := newTestApp(t, nil)
	require.Equal(t, exitOK, a.run(context.Background(), []string{"export", "-source", src}))
	assert.Equal(t, "CMakeLists.txt\ninclude/terminus/math/vector.hpp\n", stdout.String())

	dest := t.TempDir()
	a, _, _ = newTestApp(t, nil)
	require.Equal(t, exitOK, a.run(context.Background(), []string{"export", "-source", src, "-dest", dest}))
	_, err := os.Stat(filepath.Join(dest, "include", "terminus", "math", "vector.hpp"))
	assert.NoError(t, err)

	pkg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(pkg, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "lib", "libterminus_math.so.1"), nil, 0o644))

	a, stdout, _ = newTestApp(t, nil)
	require.Equal(t, exitOK, a.run(context.Background(), []string{"collect-libs", "-package-dir", pkg}))
	assert.Contains(t, stdout.String(), `"terminus_math"`)
}

func TestLock(t *testing.T) {
	out := filepath.Join(t.TempDir(), "conan.lock")
	a, _, _ := newTestApp(t, nil)
	require.Equal(t, exitOK, a.run(context.Background(), []string{"lock", "-out", out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lf, err := recipe.UnmarshalLockfile(data)
	require.NoError(t, err)
	assert.Equal(t, "terminus_math/0.0.8", lf.Requires[0])
	assert.True(t, a.now().Equal(lf.Created))
}

func TestKeyValues(t *testing.T) {
	kv := keyValues{}
	require.NoError(t, kv.Set("shared=True"))
	require.NoError(t, kv.Set(" with_docs = false "))
	assert.Error(t, kv.Set("shared"))
	assert.Error(t, kv.Set("=true"))
	assert.Equal(t, "shared=True,with_docs=false", kv.String())
}

func TestHostSettings(t *testing.T) {
	s := hostSettings()
	assert.Equal(t, "Release", s["build_type"])
	assert.NotEmpty(t, s["compiler"])
}
