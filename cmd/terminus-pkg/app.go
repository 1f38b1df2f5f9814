package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/terminus-math/internal/recipe"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
	runner recipe.Runner
	now    func() time.Time

	defaultRecipe  string
	defaultVersion string
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, inv *invocation) error
}

var commands = []command{
	{"info", "print recipe metadata", runInfo},
	{"generate", "write the CMake toolchain for a configuration", runGenerate},
	{"package-id", "print the binary package ID of a configuration", runPackageID},
	{"export", "list or copy the exported sources", runExport},
	{"build", "configure and compile with CMake", runBuild},
	{"package", "configure and install into a package directory", runPackage},
	{"collect-libs", "list the libraries of an installed package", runCollectLibs},
	{"lock", "write the requirement lockfile", runLock},
}

// invocation holds the parsed flags shared by every subcommand
type invocation struct {
	recipePath string
	version    string
	options    keyValues
	settings   keyValues
	sourceDir  string
	buildDir   string
	packageDir string
	dest       string
	cmake      string
	output     string
}

// keyValues collects repeatable key=value flags
type keyValues map[string]string

func (kv keyValues) String() string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + kv[k]
	}
	return strings.Join(parts, ",")
}

func (kv keyValues) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	kv[k] = strings.TrimSpace(v)
	return nil
}

func (a *app) usage() {
	fmt.Fprintln(a.stderr, "usage: terminus-pkg <command> [flags]")
	fmt.Fprintln(a.stderr)
	fmt.Fprintln(a.stderr, "commands:")
	for _, c := range commands {
		fmt.Fprintf(a.stderr, "  %-13s %s\n", c.name, c.summary)
	}
}

// run executes one subcommand and returns the process exit code. A failing
// external tool's exit status is passed through.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "-help" || args[0] == "help" {
		a.usage()
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(a.stderr, "unknown command %q\n", args[0])
		a.usage()
		return exitUsage
	}

	inv, err := a.parse(cmd.name, args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if err := cmd.run(ctx, a, inv); err != nil {
		var exitErr *recipe.ExitError
		if errors.As(err, &exitErr) {
			a.logger.Error("external command failed",
				zap.String("command", exitErr.Command),
				zap.Int("exit_code", exitErr.Code))
			return exitErr.Code
		}
		fmt.Fprintf(a.stderr, "terminus-pkg %s: %v\n", cmd.name, err)
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

func (a *app) parse(name string, args []string) (*invocation, error) {
	inv := &invocation{options: keyValues{}, settings: keyValues{}}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.StringVar(&inv.recipePath, "recipe", a.defaultRecipe, "recipe manifest (yaml, toml or json); built-in when empty")
	fs.StringVar(&inv.version, "version", a.defaultVersion, "built-in recipe version")
	fs.Var(inv.options, "o", "option override key=value (repeatable)")
	fs.Var(inv.settings, "s", "setting key=value (repeatable); host defaults fill the rest")
	fs.StringVar(&inv.sourceDir, "source", ".", "source tree")
	fs.StringVar(&inv.buildDir, "build", "build", "build directory")
	fs.StringVar(&inv.packageDir, "package-dir", "package", "install prefix")
	fs.StringVar(&inv.dest, "dest", "", "export destination; list only when empty")
	fs.StringVar(&inv.cmake, "cmake", "cmake", "cmake executable")
	fs.StringVar(&inv.output, "out", "", "output file; stdout when empty")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(a.stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return nil, errUsage
	}
	return inv, nil
}

func (inv *invocation) loadRecipe() (*recipe.Recipe, error) {
	if inv.recipePath != "" {
		return recipe.LoadFile(inv.recipePath)
	}
	return recipe.Builtin(inv.version)
}

// configuration resolves -o and -s against the recipe. Settings the user
// leaves out are taken from the host.
func (inv *invocation) configuration(r *recipe.Recipe) (recipe.Configuration, error) {
	overrides := make(map[string]bool, len(inv.options))
	for k, v := range inv.options {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return recipe.Configuration{}, fmt.Errorf("%w: option %s=%q is not a boolean", errUsage, k, v)
		}
		overrides[k] = b
	}

	settings := hostSettings()
	for k, v := range inv.settings {
		settings[k] = v
	}
	declared := make(map[string]bool, len(r.Settings))
	for _, s := range r.Settings {
		declared[s] = true
	}
	for k := range settings {
		if !declared[k] && inv.settings[k] == "" {
			delete(settings, k)
		}
	}
	cfg, err := r.Configure(overrides, settings)
	if errors.Is(err, recipe.ErrUnknownOption) || errors.Is(err, recipe.ErrInvalidOptionValue) {
		return recipe.Configuration{}, fmt.Errorf("%w: %w", errUsage, err)
	}
	return cfg, err
}

func hostSettings() recipe.Settings {
	osName := map[string]string{"linux": "Linux", "darwin": "Macos", "windows": "Windows", "freebsd": "FreeBSD"}[runtime.GOOS]
	arch := map[string]string{"amd64": "x86_64", "arm64": "armv8", "386": "x86"}[runtime.GOARCH]
	compiler := "gcc"
	switch runtime.GOOS {
	case "darwin":
		compiler = "apple-clang"
	case "windows":
		compiler = "msvc"
	}

	s := recipe.Settings{"compiler": compiler, "build_type": "Release"}
	if osName != "" {
		s["os"] = osName
	}
	if arch != "" {
		s["arch"] = arch
	}
	return s
}

func (a *app) writeOutput(inv *invocation, data []byte) error {
	if inv.output == "" {
		_, err := a.stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(inv.output), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	return os.WriteFile(inv.output, data, 0o644)
}

func (a *app) writeJSON(inv *invocation, v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return a.writeOutput(inv, append(data, '\n'))
}

func (a *app) builder(r *recipe.Recipe, cfg recipe.Configuration, inv *invocation) *recipe.Builder {
	return &recipe.Builder{
		Recipe:     r,
		Config:     cfg,
		SourceDir:  inv.sourceDir,
		BuildDir:   inv.buildDir,
		PackageDir: inv.packageDir,
		CMake:      inv.cmake,
		Runner:     a.runner,
		Logger:     a.logger,
	}
}
