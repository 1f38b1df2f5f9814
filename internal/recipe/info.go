package recipe

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// CppInfo describes what consumers link against
type CppInfo struct {
	Libs        []string `json:"libs"`
	IncludeDirs []string `json:"include_dirs"`
	LibDirs     []string `json:"lib_dirs"`
}

// PackageInfo collects library names from the lib and bin directories of
// an installed package. Only top-level files are considered.
func PackageInfo(packageDir string) (CppInfo, error) {
	info := CppInfo{IncludeDirs: []string{"include"}, LibDirs: []string{"lib"}}

	var mu sync.Mutex
	names := map[string]bool{}

	for _, sub := range []string{"lib", "bin"} {
		root := filepath.Join(packageDir, sub)
		if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		conf := fastwalk.Config{Follow: false}
		err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p == root {
				return nil
			}
			if d.IsDir() {
				return filepath.SkipDir
			}
			if name, ok := LibraryName(d.Name()); ok {
				mu.Lock()
				names[name] = true
				mu.Unlock()
			}
			return nil
		})
		if err != nil {
			return CppInfo{}, err
		}
	}

	info.Libs = make([]string, 0, len(names))
	for n := range names {
		info.Libs = append(info.Libs, n)
	}
	sort.Strings(info.Libs)
	return info, nil
}

// LibraryName maps an artifact file name to its link name:
// libfoo.a, libfoo.so.1, libfoo.dylib -> foo; foo.lib, foo.dll -> foo
func LibraryName(file string) (string, bool) {
	var stem string
	switch {
	case strings.Contains(file, ".so."):
		stem = file[:strings.Index(file, ".so.")]
	case strings.HasSuffix(file, ".so"), strings.HasSuffix(file, ".a"), strings.HasSuffix(file, ".dylib"):
		stem = strings.TrimSuffix(file, filepath.Ext(file))
	case strings.HasSuffix(file, ".lib"), strings.HasSuffix(file, ".dll"):
		stem = strings.TrimSuffix(file, filepath.Ext(file))
		if stem == "" {
			return "", false
		}
		return stem, true
	default:
		return "", false
	}
	stem = strings.TrimPrefix(stem, "lib")
	if stem == "" {
		return "", false
	}
	return stem, true
}
