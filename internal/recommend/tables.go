package recommend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tables holds the scoring heuristics: which subjects belong to a major,
// which title keywords mark a course as thread-related, and which courses
// are the known successor of another in a sequence. Loaded once at startup
// and passed by reference so the scoring function stays pure and testable
// against swapped tables.
type Tables struct {
	MajorSubjects  map[string][]string `yaml:"major_subjects"`
	ThreadKeywords []ThreadKeywordRule `yaml:"thread_keywords"`
	Sequences      map[string]string   `yaml:"sequences"` // completed course -> unlocked successor
}

// ThreadKeywordRule matches declared threads by substring and flags courses
// whose title or subject contains one of its keywords, within a course
// number range.
type ThreadKeywordRule struct {
	ThreadContains string   `yaml:"thread_contains"`
	Keywords       []string `yaml:"keywords"`
	MinLevel       int      `yaml:"min_level"`
	MaxLevel       int      `yaml:"max_level"`
}

// DefaultTables returns the compiled-in heuristics.
func DefaultTables() *Tables {
	return &Tables{
		MajorSubjects: map[string][]string{
			"Computer Science":     {"CS", "MATH"},
			"Computational Media":  {"CS", "LMC"},
			"Computer Engineering": {"CS", "ECE"},
			"Mathematics":          {"MATH"},
			"Industrial Engineering": {"ISYE", "MATH"},
		},
		ThreadKeywords: []ThreadKeywordRule{
			{
				ThreadContains: "intelligence",
				Keywords:       []string{"machine", "learning", "vision", "robotics", "intelligence"},
				MinLevel:       3000,
				MaxLevel:       4999,
			},
			{
				ThreadContains: "systems",
				Keywords:       []string{"systems", "architecture", "operating", "networks", "compilers"},
				MinLevel:       2000,
				MaxLevel:       4999,
			},
			{
				ThreadContains: "theory",
				Keywords:       []string{"algorithms", "theory", "discrete", "automata", "complexity"},
				MinLevel:       3000,
				MaxLevel:       4999,
			},
			{
				ThreadContains: "information",
				Keywords:       []string{"database", "information", "data", "analytics"},
				MinLevel:       3000,
				MaxLevel:       4999,
			},
			{
				ThreadContains: "media",
				Keywords:       []string{"graphics", "media", "game", "animation"},
				MinLevel:       3000,
				MaxLevel:       4999,
			},
		},
		Sequences: map[string]string{
			"CS 1301":   "CS 1331",
			"CS 1331":   "CS 1332",
			"CS 2110":   "CS 2200",
			"CS 2340":   "CS 3300",
			"MATH 1551": "MATH 1552",
			"MATH 1552": "MATH 2551",
		},
	}
}

// LoadTables reads heuristic tables from a YAML file. Missing sections fall
// back to the defaults so an override file only needs to name what it
// changes.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading heuristic tables: %w", err)
	}

	tables := &Tables{}
	if err := yaml.Unmarshal(data, tables); err != nil {
		return nil, fmt.Errorf("parsing heuristic tables: %w", err)
	}

	defaults := DefaultTables()
	if tables.MajorSubjects == nil {
		tables.MajorSubjects = defaults.MajorSubjects
	}
	if tables.ThreadKeywords == nil {
		tables.ThreadKeywords = defaults.ThreadKeywords
	}
	if tables.Sequences == nil {
		tables.Sequences = defaults.Sequences
	}
	return tables, nil
}
