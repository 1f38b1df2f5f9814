package packaging

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/GriffinCanCode/terminus-math/internal/providers/math"
	"github.com/GriffinCanCode/terminus-math/internal/recipe"
	"github.com/GriffinCanCode/terminus-math/internal/shared/utils"
	"github.com/GriffinCanCode/terminus-math/internal/types"
)

// Provider exposes the package recipe under the "package" service
type Provider struct {
	recipe *recipe.Recipe
	now    func() time.Time
}

// NewProvider creates a package provider for r
func NewProvider(r *recipe.Recipe) *Provider {
	return &Provider{recipe: r, now: time.Now}
}

var configParams = []types.Parameter{
	{Name: "options", Type: "object", Description: "Option overrides, e.g. {\"shared\": true}", Required: false},
	{Name: "settings", Type: "object", Description: "Settings values: os, compiler, build_type, arch", Required: true},
}

var dirParam = func(name, desc string) []types.Parameter {
	return []types.Parameter{{Name: name, Type: "string", Description: desc, Required: true}}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "package",
		Name:         "Package Service",
		Description:  fmt.Sprintf("Build recipe for %s: toolchain generation, package IDs, exports and lockfiles", p.recipe.Ref()),
		Category:     types.CategoryPackage,
		Capabilities: []string{"recipe", "toolchain", "package_id", "exports", "lockfile"},
		Tools: []types.Tool{
			{ID: "package.info", Name: "Info", Description: "Recipe metadata, options and requirements", Parameters: []types.Parameter{}, Returns: "object"},
			{ID: "package.configure", Name: "Configure", Description: "Resolve options and settings against the recipe", Parameters: configParams, Returns: "object"},
			{ID: "package.toolchain", Name: "Toolchain", Description: "CMake cache variables for a configuration", Parameters: configParams, Returns: "object"},
			{ID: "package.id", Name: "Package ID", Description: "Binary package ID of a configuration", Parameters: configParams, Returns: "string"},
			{ID: "package.exports", Name: "Exports", Description: "Source files matched by the export patterns", Parameters: dirParam("source_dir", "Source tree root"), Returns: "array"},
			{ID: "package.libs", Name: "Collect Libs", Description: "Library names found in an installed package", Parameters: dirParam("package_dir", "Install prefix"), Returns: "object"},
			{ID: "package.lock", Name: "Lock", Description: "Lockfile of the requirement graph", Parameters: []types.Parameter{}, Returns: "object"},
		},
	}
}

// Execute routes package tools
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "package.info":
		return p.info()
	case "package.configure":
		return p.configure(params)
	case "package.toolchain":
		return p.toolchain(params)
	case "package.id":
		return p.packageID(params)
	case "package.exports":
		return p.exports(params)
	case "package.libs":
		return p.libs(params)
	case "package.lock":
		return p.lock()
	default:
		return math.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// DecodeConfiguration resolves the "options" and "settings" objects of a
// tool call. Option values may be booleans or strings such as "True".
func DecodeConfiguration(r *recipe.Recipe, params map[string]interface{}) (recipe.Configuration, error) {
	overrides := map[string]bool{}
	if raw, ok := params["options"]; ok && raw != nil {
		opts, ok := raw.(map[string]interface{})
		if !ok {
			return recipe.Configuration{}, fmt.Errorf("options must be an object")
		}
		for name, v := range opts {
			switch val := v.(type) {
			case bool:
				overrides[name] = val
			case string:
				b, err := strconv.ParseBool(val)
				if err != nil {
					return recipe.Configuration{}, fmt.Errorf("option %s: %w", name, err)
				}
				overrides[name] = b
			default:
				return recipe.Configuration{}, fmt.Errorf("option %s must be a boolean", name)
			}
		}
	}

	settings := recipe.Settings{}
	if raw, ok := params["settings"]; ok && raw != nil {
		vals, ok := raw.(map[string]interface{})
		if !ok {
			return recipe.Configuration{}, fmt.Errorf("settings must be an object")
		}
		for name, v := range vals {
			s, ok := v.(string)
			if !ok {
				return recipe.Configuration{}, fmt.Errorf("setting %s must be a string", name)
			}
			settings[name] = s
		}
	}

	return r.Configure(overrides, settings)
}

func (p *Provider) info() (*types.Result, error) {
	r := p.recipe
	refs := func(in []recipe.Reference) []string {
		out := make([]string, len(in))
		for i, ref := range in {
			out[i] = ref.String()
		}
		return out
	}
	options := make(map[string]interface{}, len(r.Options))
	for _, o := range r.Options {
		options[o.Name] = map[string]interface{}{
			"values":  o.Values,
			"default": o.DefaultValue(),
		}
	}

	return math.Success(map[string]interface{}{
		"reference":       r.Ref().String(),
		"license":         r.License,
		"author":          r.Author,
		"url":             r.URL,
		"description":     r.Description,
		"topics":          r.Topics,
		"options":         options,
		"settings":        r.Settings,
		"requires":        refs(r.Requires),
		"tool_requires":   refs(r.ToolRequires),
		"test_requires":   refs(r.TestRequires),
		"exports_sources": r.ExportsSources,
		"package_id_mode": string(r.PackageIDMode),
	})
}

func (p *Provider) configure(params map[string]interface{}) (*types.Result, error) {
	cfg, err := DecodeConfiguration(p.recipe, params)
	if err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{
		"options":  cfg.Options,
		"settings": map[string]string(cfg.Settings),
	})
}

func (p *Provider) toolchain(params map[string]interface{}) (*types.Result, error) {
	cfg, err := DecodeConfiguration(p.recipe, params)
	if err != nil {
		return math.Failure(err.Error())
	}
	tc := p.recipe.Generate(cfg)
	return math.Success(map[string]interface{}{
		"file":      recipe.ToolchainFile,
		"variables": tc.Variables,
		"content":   tc.Render(),
	})
}

func (p *Provider) packageID(params map[string]interface{}) (*types.Result, error) {
	cfg, err := DecodeConfiguration(p.recipe, params)
	if err != nil {
		return math.Failure(err.Error())
	}
	id, err := p.recipe.PackageID(cfg)
	if err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{
		"package_id": id,
		"short_id":   utils.ShortHash(id),
		"mode":       string(p.recipe.PackageIDMode),
	})
}

func (p *Provider) exports(params map[string]interface{}) (*types.Result, error) {
	dir, ok := math.GetString(params, "source_dir")
	if !ok || dir == "" {
		return math.Failure("source_dir parameter required")
	}
	files, err := p.recipe.MatchExports(dir)
	if err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{
		"files": files,
		"count": len(files),
	})
}

func (p *Provider) libs(params map[string]interface{}) (*types.Result, error) {
	dir, ok := math.GetString(params, "package_dir")
	if !ok || dir == "" {
		return math.Failure("package_dir parameter required")
	}
	info, err := recipe.PackageInfo(dir)
	if err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{
		"libs":         info.Libs,
		"include_dirs": info.IncludeDirs,
		"lib_dirs":     info.LibDirs,
	})
}

func (p *Provider) lock() (*types.Result, error) {
	lf := p.recipe.Lock(p.now())
	return math.Success(map[string]interface{}{
		"version":        lf.Version,
		"requires":       lf.Requires,
		"build_requires": lf.BuildRequires,
		"created":        lf.Created,
	})
}
