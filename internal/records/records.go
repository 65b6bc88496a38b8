// Package records models a student's course history: completed, in-progress,
// and planned courses, each tied to a semester slot.
package records

import (
	"fmt"
	"sort"
)

// Season is one term of an academic year.
type Season string

const (
	Spring Season = "Spring"
	Summer Season = "Summer"
	Fall   Season = "Fall"
)

// Order returns the within-year ordering of a season: Spring < Summer < Fall.
// Unknown seasons sort last.
func (s Season) Order() int {
	switch s {
	case Spring:
		return 1
	case Summer:
		return 2
	case Fall:
		return 3
	}
	return 4
}

// Semester is a (season, year) pair.
type Semester struct {
	Season Season `json:"season" yaml:"season"`
	Year   int    `json:"year" yaml:"year"`
}

func (s Semester) String() string {
	return fmt.Sprintf("%s %d", s.Season, s.Year)
}

// Compare orders semesters by year ascending, then season order.
func (s Semester) Compare(other Semester) int {
	if s.Year != other.Year {
		if s.Year < other.Year {
			return -1
		}
		return 1
	}
	if s.Season.Order() != other.Season.Order() {
		if s.Season.Order() < other.Season.Order() {
			return -1
		}
		return 1
	}
	return 0
}

// Status is the state of a course on a student's plan.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in-progress"
	StatusPlanned    Status = "planned"
)

// CourseRecord is one course on a student's plan. A student may retake a
// course in different semesters; each attempt is a distinct record keyed by
// (Code, SlotID).
type CourseRecord struct {
	Code     string   `json:"code" yaml:"code"`
	Status   Status   `json:"status" yaml:"status"`
	Grade    string   `json:"grade,omitempty" yaml:"grade,omitempty"` // only meaningful when completed
	Credits  int      `json:"credits" yaml:"credits"`
	Semester Semester `json:"semester" yaml:"semester"`
	SlotID   string   `json:"slot_id,omitempty" yaml:"slot_id,omitempty"`
}

// ByStatus partitions records into code sets per status. A code appears in
// the completed set if any attempt of it completed.
func ByStatus(recs []CourseRecord) (completed, inProgress, planned map[string]bool) {
	completed = make(map[string]bool)
	inProgress = make(map[string]bool)
	planned = make(map[string]bool)
	for _, r := range recs {
		switch r.Status {
		case StatusCompleted:
			completed[r.Code] = true
		case StatusInProgress:
			inProgress[r.Code] = true
		case StatusPlanned:
			planned[r.Code] = true
		}
	}
	return completed, inProgress, planned
}

// CreditsByCode returns the credit hours of each course the student holds a
// record for. When a course appears more than once the latest semester wins.
func CreditsByCode(recs []CourseRecord) map[string]int {
	sorted := make([]CourseRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Semester.Compare(sorted[j].Semester) < 0
	})
	credits := make(map[string]int, len(sorted))
	for _, r := range sorted {
		credits[r.Code] = r.Credits
	}
	return credits
}
