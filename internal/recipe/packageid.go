package recipe

import (
	"fmt"

	"github.com/GriffinCanCode/terminus-math/internal/shared/utils"
)

// packageIDInfo is the canonical document hashed in full mode
type packageIDInfo struct {
	Settings Settings        `json:"settings"`
	Options  map[string]bool `json:"options"`
	Requires []string        `json:"requires"`
}

// PackageID fingerprints one binary configuration. Under PackageIDClear
// nothing about the configuration is hashed, so every configuration of
// the recipe shares one ID.
func (r *Recipe) PackageID(cfg Configuration) (string, error) {
	hasher := utils.DefaultHasher()
	if r.PackageIDMode == PackageIDClear {
		return hasher.HashFields(), nil
	}

	info := packageIDInfo{
		Settings: cfg.Settings,
		Options:  cfg.Options,
		Requires: make([]string, 0, len(r.Requires)),
	}
	for _, ref := range r.Requires {
		info.Requires = append(info.Requires, ref.String())
	}
	id, err := hasher.HashJSON(info)
	if err != nil {
		return "", fmt.Errorf("package id for %s: %w", r.Ref(), err)
	}
	return id, nil
}
