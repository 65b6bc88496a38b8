// Package mapping manages a student's explicit bindings of real courses to
// open-ended (selection) requirement nodes. The resolver is the only writer
// of a student's mapping set; all validation happens before the sink is
// touched.
package mapping

import (
	"errors"
	"time"
)

// Sentinel failures callers branch on with errors.Is.
var (
	// ErrNotInPool means the course is not eligible for the requirement
	// node, or does not appear in the student's course set.
	ErrNotInPool = errors.New("course not in requirement pool")
	// ErrAlreadyMapped means the course already satisfies a different
	// non-shareable requirement path.
	ErrAlreadyMapped = errors.New("course already mapped to another requirement")
	// ErrSlotFull means the requirement path already holds its full
	// selection count. The caller must remove a mapping first; there is no
	// implicit eviction.
	ErrSlotFull = errors.New("requirement slot is full")
	// ErrUnknownPath means the requirement path does not name a selection
	// node in the program.
	ErrUnknownPath = errors.New("unknown requirement path")
)

// Mapping binds one of a student's courses to one selection requirement
// path.
type Mapping struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Path       string    `json:"path"`
	CourseCode string    `json:"course_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// ByPath groups mappings by requirement path.
func ByPath(maps []Mapping) map[string][]Mapping {
	grouped := make(map[string][]Mapping)
	for _, m := range maps {
		grouped[m.Path] = append(grouped[m.Path], m)
	}
	return grouped
}
