package degree

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// programSchema validates the structural shape of a program document before
// decoding. Semantic oddities (a selection count larger than its pool, an
// unknown footnote reference) are accepted as-is; evaluation degrades
// gracefully on those.
const programSchema = `{
  "type": "object",
  "required": ["id", "name", "categories"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "total_credits": {"type": "integer", "minimum": 0},
    "gpa_requirement": {"type": "number", "minimum": 0, "maximum": 4},
    "categories": {"type": "array", "items": {"$ref": "#/definitions/category"}},
    "threads": {"type": "array", "items": {"$ref": "#/definitions/category"}},
    "footnotes": {"type": "object"}
  },
  "definitions": {
    "category": {
      "type": "object",
      "required": ["name", "nodes"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "min_credits": {"type": "integer", "minimum": 0},
        "nodes": {"type": "array", "items": {"$ref": "#/definitions/node"}}
      }
    },
    "node": {
      "type": "object",
      "required": ["kind", "credits"],
      "properties": {
        "kind": {"enum": ["regular", "or_group", "and_group", "selection"]},
        "course": {"type": "string"},
        "courses": {"type": "array", "items": {"type": "string"}},
        "credits": {"type": "integer", "minimum": 0},
        "selection_count": {"type": "integer", "minimum": 1},
        "shareable": {"type": "boolean"},
        "footnote": {"type": "integer"},
        "pool": {
          "type": "object",
          "properties": {
            "codes": {"type": "array", "items": {"type": "string"}},
            "subject": {"type": "string"},
            "min_level": {"type": "integer", "minimum": 0},
            "max_level": {"type": "integer", "minimum": 0}
          }
        }
      }
    }
  }
}`

// ParseProgram validates and decodes a degree program JSON document.
func ParseProgram(data []byte) (*DegreeProgram, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(programSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validating program document: %w", err)
	}
	if !result.Valid() {
		var violations []string
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}
		return nil, fmt.Errorf("invalid program document: %s", strings.Join(violations, "; "))
	}

	var program DegreeProgram
	if err := json.Unmarshal(data, &program); err != nil {
		return nil, fmt.Errorf("decoding program document: %w", err)
	}
	program.normalize()
	return &program, nil
}

// Loader loads degree programs from a directory and serves them read-only,
// keyed by program name and ID.
type Loader struct {
	programs map[string]*DegreeProgram
	mu       sync.RWMutex
}

// NewLoader loads every program JSON document under rootDir. Documents that
// fail schema validation are skipped with a warning so one bad file cannot
// take down the rest of the catalog of programs.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{programs: make(map[string]*DegreeProgram)}

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		program, err := ParseProgram(data)
		if err != nil {
			slog.Warn("skipping invalid program document", "path", path, "error", err)
			return nil
		}

		l.mu.Lock()
		l.programs[program.Name] = program
		l.programs[program.ID] = program
		l.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading programs: %w", err)
	}

	slog.Info("degree programs loaded", "programs", len(l.programs))
	return l, nil
}

// DegreeProgram returns the program for a major name or program ID.
func (l *Loader) DegreeProgram(major string) (*DegreeProgram, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.programs[major]
	return p, ok
}
