package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// courseFile is the on-disk shape of one catalog YAML file.
type courseFile struct {
	Courses []Course `yaml:"courses"`
}

// Load walks rootDir and builds a catalog from every courses YAML file
// found. Files that fail to parse are skipped with a warning; an empty or
// missing directory yields an empty catalog, not an error.
func Load(rootDir string) (*Catalog, error) {
	var courses []Course

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		var file courseFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			slog.Warn("skipping invalid catalog YAML", "path", path, "error", err)
			return nil
		}
		for _, c := range file.Courses {
			if c.Code == "" {
				slog.Warn("skipping course with empty code", "path", path)
				continue
			}
			courses = append(courses, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	cat := New(courses)
	slog.Info("catalog loaded", "courses", cat.Len())
	return cat, nil
}
