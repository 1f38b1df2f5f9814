package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/terminus-math/internal/recipe"
	"github.com/GriffinCanCode/terminus-math/internal/shared/utils"
)

func runInfo(_ context.Context, a *app, inv *invocation) error {
	r, err := inv.loadRecipe()
	if err != nil {
		return err
	}
	return a.writeJSON(inv, r)
}

func runGenerate(_ context.Context, a *app, inv *invocation) error {
	r, cfg, err := configured(inv)
	if err != nil {
		return err
	}
	tc := r.Generate(cfg)
	if inv.output != "" {
		return a.writeOutput(inv, []byte(tc.Render()))
	}
	path, err := tc.WriteFile(inv.buildDir)
	if err != nil {
		return err
	}
	a.logger.Info("toolchain written", zap.String("path", path))
	fmt.Fprintln(a.stdout, path)
	return nil
}

func runPackageID(_ context.Context, a *app, inv *invocation) error {
	r, cfg, err := configured(inv)
	if err != nil {
		return err
	}
	id, err := r.PackageID(cfg)
	if err != nil {
		return err
	}
	a.logger.Debug("package id computed",
		zap.String("mode", string(r.PackageIDMode)),
		zap.String("short_id", utils.ShortHash(id)),
	)
	return a.writeOutput(inv, []byte(id+"\n"))
}

func runExport(_ context.Context, a *app, inv *invocation) error {
	r, err := inv.loadRecipe()
	if err != nil {
		return err
	}

	var files []string
	if inv.dest == "" {
		files, err = r.MatchExports(inv.sourceDir)
	} else {
		files, err = r.ExportSources(inv.sourceDir, inv.dest)
	}
	if err != nil {
		return err
	}
	if inv.dest != "" {
		a.logger.Info("sources exported", zap.Int("files", len(files)), zap.String("dest", inv.dest))
	}
	for _, f := range files {
		fmt.Fprintln(a.stdout, f)
	}
	return nil
}

func runBuild(ctx context.Context, a *app, inv *invocation) error {
	r, cfg, err := configured(inv)
	if err != nil {
		return err
	}
	return a.builder(r, cfg, inv).Build(ctx)
}

func runPackage(ctx context.Context, a *app, inv *invocation) error {
	r, cfg, err := configured(inv)
	if err != nil {
		return err
	}
	return a.builder(r, cfg, inv).Package(ctx)
}

func runCollectLibs(_ context.Context, a *app, inv *invocation) error {
	info, err := recipe.PackageInfo(inv.packageDir)
	if err != nil {
		return err
	}
	return a.writeJSON(inv, info)
}

func runLock(_ context.Context, a *app, inv *invocation) error {
	r, err := inv.loadRecipe()
	if err != nil {
		return err
	}
	data, err := r.Lock(a.now()).Marshal()
	if err != nil {
		return err
	}
	return a.writeOutput(inv, append(data, '\n'))
}

func configured(inv *invocation) (*recipe.Recipe, recipe.Configuration, error) {
	r, err := inv.loadRecipe()
	if err != nil {
		return nil, recipe.Configuration{}, err
	}
	cfg, err := inv.configuration(r)
	if err != nil {
		return nil, recipe.Configuration{}, err
	}
	return r, cfg, nil
}
