package recipe

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// Lockfile pins the resolved requirement graph of one recipe version
type Lockfile struct {
	Version       string    `json:"version"`
	Requires      []string  `json:"requires"`
	BuildRequires []string  `json:"build_requires"`
	Created       time.Time `json:"created"`
}

// LockfileVersion is the schema version written by Lock
const LockfileVersion = "0.5"

// Lock builds a lockfile from the recipe. Tool and test requirements are
// recorded as build requirements.
func (r *Recipe) Lock(now time.Time) Lockfile {
	lf := Lockfile{
		Version:       LockfileVersion,
		Requires:      make([]string, 0, len(r.Requires)+1),
		BuildRequires: make([]string, 0, len(r.ToolRequires)+len(r.TestRequires)),
		Created:       now.UTC(),
	}
	lf.Requires = append(lf.Requires, r.Ref().String())
	for _, ref := range r.Requires {
		lf.Requires = append(lf.Requires, ref.String())
	}
	for _, ref := range r.ToolRequires {
		lf.BuildRequires = append(lf.BuildRequires, ref.String())
	}
	for _, ref := range r.TestRequires {
		lf.BuildRequires = append(lf.BuildRequires, ref.String())
	}
	return lf
}

// Marshal encodes the lockfile as indented JSON
func (l Lockfile) Marshal() ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode lockfile: %w", err)
	}
	return data, nil
}

// UnmarshalLockfile decodes a lockfile and checks its references
func UnmarshalLockfile(data []byte) (Lockfile, error) {
	var lf Lockfile
	if err := sonic.Unmarshal(data, &lf); err != nil {
		return Lockfile{}, fmt.Errorf("failed to decode lockfile: %w", err)
	}
	for _, group := range [][]string{lf.Requires, lf.BuildRequires} {
		for _, s := range group {
			if _, err := ParseReference(s); err != nil {
				return Lockfile{}, err
			}
		}
	}
	return lf, nil
}
