package recipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ExitError reports an external command that exited non-zero
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.Code)
}

// Runner executes an external command in dir
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, streaming their output
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the command and converts a non-zero exit into *ExitError
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: commandLine(name, args), Code: exitErr.ExitCode()}
	}
	if err != nil {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}
	return nil
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// Builder drives configure, build and install through CMake
type Builder struct {
	Recipe     *Recipe
	Config     Configuration
	SourceDir  string
	BuildDir   string
	PackageDir string
	CMake      string
	Runner     Runner
	Logger     *zap.Logger
}

func (b *Builder) cmake() string {
	if b.CMake == "" {
		return "cmake"
	}
	return b.CMake
}

func (b *Builder) runner() Runner {
	if b.Runner == nil {
		return ExecRunner{}
	}
	return b.Runner
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

func (b *Builder) run(ctx context.Context, args ...string) error {
	b.logger().Info("running build step",
		zap.String("command", commandLine(b.cmake(), args)),
		zap.String("dir", b.SourceDir))
	return b.runner().Run(ctx, b.SourceDir, b.cmake(), args...)
}

// Configure writes the toolchain into the build directory and runs the
// CMake configure step
func (b *Builder) Configure(ctx context.Context) error {
	if b.Recipe == nil {
		return fmt.Errorf("%w: builder has no recipe", ErrInvalidRecipe)
	}
	if b.SourceDir == "" || b.BuildDir == "" {
		return fmt.Errorf("%w: source and build directories are required", ErrInvalidRecipe)
	}

	tc := b.Recipe.Generate(b.Config)
	path, err := tc.WriteFile(b.BuildDir)
	if err != nil {
		return err
	}

	args := []string{"-S", b.SourceDir, "-B", b.BuildDir, "-DCMAKE_TOOLCHAIN_FILE=" + path}
	if bt := b.Config.Settings["build_type"]; bt != "" {
		args = append(args, "-DCMAKE_BUILD_TYPE="+bt)
	}
	return b.run(ctx, args...)
}

// Build configures, then compiles
func (b *Builder) Build(ctx context.Context) error {
	if err := b.Configure(ctx); err != nil {
		return err
	}
	args := []string{"--build", b.BuildDir}
	if bt := b.Config.Settings["build_type"]; bt != "" {
		args = append(args, "--config", bt)
	}
	return b.run(ctx, args...)
}

// Package configures, then installs into PackageDir
func (b *Builder) Package(ctx context.Context) error {
	if b.PackageDir == "" {
		return fmt.Errorf("%w: package directory is required", ErrInvalidRecipe)
	}
	if err := b.Configure(ctx); err != nil {
		return err
	}
	return b.run(ctx, "--install", b.BuildDir, "--prefix", b.PackageDir)
}
