package recipe

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// exportPattern turns a recipe glob into a doublestar pattern. A trailing
// "/*" copies the whole subtree, as the recipe globs always have.
func exportPattern(p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	if strings.HasSuffix(p, "/*") {
		return strings.TrimSuffix(p, "*") + "**"
	}
	return p
}

// MatchExports returns the files under srcDir selected by the export globs,
// as sorted slash-separated relative paths
func (r *Recipe) MatchExports(srcDir string) ([]string, error) {
	fsys := os.DirFS(srcDir)
	seen := map[string]bool{}

	for _, raw := range r.ExportsSources {
		pattern := exportPattern(raw)
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: bad export pattern %q", ErrInvalidRecipe, raw)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("export pattern %q: %w", raw, err)
		}
		for _, m := range matches {
			seen[m] = true
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// ExportSources copies the export set from srcDir into dstDir, preserving
// relative paths, and returns the copied paths. Patterns that match
// nothing are skipped.
func (r *Recipe) ExportSources(srcDir, dstDir string) ([]string, error) {
	files, err := r.MatchExports(srcDir)
	if err != nil {
		return nil, err
	}
	for _, rel := range files {
		src := filepath.Join(srcDir, filepath.FromSlash(rel))
		dst := filepath.Join(dstDir, filepath.FromSlash(rel))
		if err := copyFile(src, dst); err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", rel, err)
		}
	}
	return files, nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()|fs.FileMode(0o200))
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
