// Package recommend scores candidate courses a student has not yet taken
// or planned, producing a ranked, deterministic suggestion list. Scoring is
// additive over heuristic bonuses; recommendations are advisory and degrade
// to an empty list when the catalog is missing.
package recommend

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pathwise/degree-audit/internal/catalog"
	"github.com/pathwise/degree-audit/internal/records"
)

// Bonus values. All additive and order-independent.
const (
	bonusPrereqReady = 50
	bonusMajor       = 40
	bonusThread      = 30
	bonusFoundation  = 20
	bonusSequence    = 25
	bonusCredits     = 5
	bonusCore        = 15
	bonusRequired    = 10
)

// Priority buckets by total score.
const (
	PriorityHigh   = "high"   // score >= 70
	PriorityMedium = "medium" // score >= 40
	PriorityLow    = "low"
)

// Category tags, by precedence of the highest bonus that fired.
const (
	CategoryPrereqReady = "prerequisite-ready"
	CategoryMajor       = "major-requirement"
	CategoryThread      = "thread-related"
	CategoryFoundation  = "foundation"
	CategoryElective    = "elective"
)

// Foundation course-number range: [1000, 3000).
const (
	foundationMin = 1000
	foundationMax = 3000
)

// Recommendation is one scored suggestion.
type Recommendation struct {
	Course   catalog.Course `json:"course"`
	Score    int            `json:"score"`
	Priority string         `json:"priority"`
	Category string         `json:"category"`
	Reasons  []string       `json:"reasons"`
}

// Filters restrict an already-sorted recommendation list. They never change
// scores.
type Filters struct {
	MaxResults int
	Priority   string // "", "high", "medium", or "low"
}

// Engine scores candidates against a fixed set of heuristic tables.
type Engine struct {
	tables *Tables
}

// NewEngine creates a recommendation engine. A nil tables argument uses the
// defaults.
func NewEngine(tables *Tables) *Engine {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Engine{tables: tables}
}

// Recommend ranks every catalog course the student has neither taken nor
// planned. Courses with an unmet prerequisite are excluded outright. Output
// is deterministic: descending score, ties broken by course code ascending.
func (e *Engine) Recommend(cat *catalog.Catalog, recs []records.CourseRecord, major string, threads []string, f Filters) []Recommendation {
	if cat == nil || cat.Len() == 0 {
		return []Recommendation{}
	}

	completed, inProgress, planned := records.ByStatus(recs)
	majorSubjects := make(map[string]bool)
	for _, s := range e.tables.MajorSubjects[major] {
		majorSubjects[s] = true
	}

	var out []Recommendation
	for _, course := range cat.AllCourses() {
		if completed[course.Code] || inProgress[course.Code] || planned[course.Code] {
			continue
		}
		if !prereqsMet(course, completed) {
			continue
		}
		out = append(out, e.score(course, completed, majorSubjects, threads))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Course.Code < out[j].Course.Code
	})

	return applyFilters(out, f)
}

// prereqsMet is the exclusion gate: a flat AND over the course's listed
// prerequisite codes, no partial credit.
func prereqsMet(course catalog.Course, completed map[string]bool) bool {
	for _, code := range course.Prerequisites {
		if !completed[code] {
			return false
		}
	}
	return true
}

func (e *Engine) score(course catalog.Course, completed map[string]bool, majorSubjects map[string]bool, threads []string) Recommendation {
	rec := Recommendation{Course: course, Category: CategoryElective}
	add := func(points int, reason string) {
		rec.Score += points
		rec.Reasons = append(rec.Reasons, reason)
	}

	// Category precedence mirrors the order the bonuses are applied in.
	setCategory := func(c string) {
		if rec.Category == CategoryElective {
			rec.Category = c
		}
	}

	if len(course.Prerequisites) > 0 {
		add(bonusPrereqReady, CategoryPrereqReady)
		setCategory(CategoryPrereqReady)
	}
	if majorSubjects[course.Subject()] {
		add(bonusMajor, CategoryMajor)
		setCategory(CategoryMajor)
	}
	if e.matchesThread(course, threads) {
		add(bonusThread, CategoryThread)
		setCategory(CategoryThread)
	}
	if level := course.Level(); level >= foundationMin && level < foundationMax {
		add(bonusFoundation, CategoryFoundation)
		setCategory(CategoryFoundation)
	}
	if e.isSequenceSuccessor(course.Code, completed) {
		add(bonusSequence, "sequence-successor")
	}
	if course.Credits >= 3 && course.Credits <= 4 {
		add(bonusCredits, "standard-credits")
	}
	switch course.Type {
	case "Core":
		add(bonusCore, "core-course")
	case "Required":
		add(bonusRequired, "required-course")
	}

	switch {
	case rec.Score >= 70:
		rec.Priority = PriorityHigh
	case rec.Score >= 40:
		rec.Priority = PriorityMedium
	default:
		rec.Priority = PriorityLow
	}
	return rec
}

// matchesThread reports whether the course title or subject matches a
// keyword rule for any of the student's declared threads, within the
// rule's course-number range.
func (e *Engine) matchesThread(course catalog.Course, threads []string) bool {
	if len(threads) == 0 {
		return false
	}
	title := fold(course.Title)
	subject := fold(course.Subject())
	level := course.Level()

	for _, rule := range e.tables.ThreadKeywords {
		if rule.MinLevel > 0 && level < rule.MinLevel {
			continue
		}
		if rule.MaxLevel > 0 && level > rule.MaxLevel {
			continue
		}
		if !threadDeclared(threads, rule.ThreadContains) {
			continue
		}
		for _, kw := range rule.Keywords {
			kw = fold(kw)
			if strings.Contains(title, kw) || strings.Contains(subject, kw) {
				return true
			}
		}
	}
	return false
}

func threadDeclared(threads []string, substr string) bool {
	substr = fold(substr)
	for _, t := range threads {
		if strings.Contains(fold(t), substr) {
			return true
		}
	}
	return false
}

// isSequenceSuccessor reports whether some completed course names this one
// as its successor in the sequence table.
func (e *Engine) isSequenceSuccessor(code string, completed map[string]bool) bool {
	for done, next := range e.tables.Sequences {
		if next == code && completed[done] {
			return true
		}
	}
	return false
}

func applyFilters(recs []Recommendation, f Filters) []Recommendation {
	if f.Priority != "" {
		filtered := make([]Recommendation, 0, len(recs))
		for _, r := range recs {
			if r.Priority == f.Priority {
				filtered = append(filtered, r)
			}
		}
		recs = filtered
	}
	if f.MaxResults > 0 && len(recs) > f.MaxResults {
		recs = recs[:f.MaxResults]
	}
	if recs == nil {
		recs = []Recommendation{}
	}
	return recs
}

// fold lowercases with full Unicode case folding. Caser values are
// stateful, so a fresh one is used per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
