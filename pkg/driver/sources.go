package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExt is the extension of files LoadSources picks up from directories.
const SourceExt = ".cs"

// Source is one C# compilation unit read from disk.
type Source struct {
	// Path is the file path as found; Rel is relative to the root it was
	// found under and is used to name outputs.
	Path string
	Rel  string
	Code []byte
}

// LoadSources reads every path, resolving relative ones against base.
// Directories are walked recursively for .cs files; explicit files are read
// whatever their extension. The result is sorted by Rel and free of
// duplicates.
func LoadSources(base string, paths []string) ([]Source, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("driver: no sources given")
	}
	seen := make(map[string]struct{})
	var out []Source
	add := func(path, rel string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("driver: resolve %s: %w", path, err)
		}
		if _, dup := seen[abs]; dup {
			return nil
		}
		seen[abs] = struct{}{}
		code, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("driver: read %s: %w", path, err)
		}
		out = append(out, Source{Path: path, Rel: filepath.ToSlash(rel), Code: code})
		return nil
	}

	for _, p := range paths {
		path := p
		if !filepath.IsAbs(path) && base != "" {
			path = filepath.Join(base, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("driver: source %s: %w", p, err)
		}
		if !info.IsDir() {
			if err := add(path, filepath.Base(path)); err != nil {
				return nil, err
			}
			continue
		}
		root := path
		err = filepath.WalkDir(root, func(current string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if current != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.EqualFold(filepath.Ext(current), SourceExt) {
				return nil
			}
			rel, err := filepath.Rel(root, current)
			if err != nil {
				return err
			}
			return add(current, rel)
		})
		if err != nil {
			return nil, fmt.Errorf("driver: walk %s: %w", p, err)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("driver: no %s files found in %s", SourceExt, strings.Join(paths, ", "))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rel < out[j].Rel })
	return out, nil
}
