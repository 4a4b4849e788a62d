package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputPath maps a source's relative path onto the .py file written for it.
func OutputPath(outDir string, src Source) string {
	rel := filepath.FromSlash(src.Rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".py"
	return filepath.Join(outDir, rel)
}

// WriteOutput writes a rendered program for src below outDir and returns the
// file path.
func WriteOutput(outDir string, src Source, program string) (string, error) {
	path := OutputPath(outDir, src)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("driver: %w", err)
	}
	if err := os.WriteFile(path, []byte(program), 0o644); err != nil {
		return "", fmt.Errorf("driver: write %s: %w", path, err)
	}
	return path, nil
}
