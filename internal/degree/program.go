// Package degree models a degree program as an immutable requirement tree:
// categories of requirement nodes referencing catalog courses. Programs are
// loaded once and shared read-only across evaluations.
package degree

import (
	"fmt"

	"github.com/pathwise/degree-audit/internal/catalog"
)

// NodeKind discriminates requirement node variants. The set is closed;
// evaluation dispatches on it with a switch.
type NodeKind string

const (
	// NodeRegular references a single required course.
	NodeRegular NodeKind = "regular"
	// NodeOrGroup is satisfied when any one listed course is completed.
	NodeOrGroup NodeKind = "or_group"
	// NodeAndGroup requires every listed course.
	NodeAndGroup NodeKind = "and_group"
	// NodeSelection is an open-ended slot: choose SelectionCount courses
	// from a pool, bound via flexible mappings.
	NodeSelection NodeKind = "selection"
)

// PoolFilter describes the courses eligible to fill a selection node. A
// course qualifies if its code is listed explicitly, or if it matches the
// subject and level range ("any 3000+ CS course").
type PoolFilter struct {
	Codes    []string `json:"codes,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	MinLevel int      `json:"min_level,omitempty"`
	MaxLevel int      `json:"max_level,omitempty"`
}

// Eligible reports whether a course may satisfy this pool.
func (p PoolFilter) Eligible(c catalog.Course) bool {
	for _, code := range p.Codes {
		if code == c.Code {
			return true
		}
	}
	if p.Subject == "" {
		return false
	}
	if c.Subject() != p.Subject {
		return false
	}
	level := c.Level()
	if p.MinLevel > 0 && level < p.MinLevel {
		return false
	}
	if p.MaxLevel > 0 && level > p.MaxLevel {
		return false
	}
	return true
}

// EligibleCourses lists the pool members present in a catalog, ordered by
// code.
func (p PoolFilter) EligibleCourses(cat *catalog.Catalog) []catalog.Course {
	var pool []catalog.Course
	for _, c := range cat.AllCourses() {
		if p.Eligible(c) {
			pool = append(pool, c)
		}
	}
	return pool
}

// RequirementNode is one constraint unit inside a category. Which fields
// are meaningful depends on Kind: Course for regular, Courses for the group
// kinds, Pool/SelectionCount/Shareable for selection.
type RequirementNode struct {
	Path           string     `json:"-"` // assigned at load: "<category>/<index>"
	Kind           NodeKind   `json:"kind"`
	Course         string     `json:"course,omitempty"`
	Courses        []string   `json:"courses,omitempty"`
	Credits        int        `json:"credits"`
	SelectionCount int        `json:"selection_count,omitempty"` // defaults to 1
	Shareable      bool       `json:"shareable,omitempty"`
	Pool           PoolFilter `json:"pool,omitempty"`
	Footnote       int        `json:"footnote,omitempty"`
}

// FlattenCourses returns every course code referenced anywhere in the node.
// Selection pools contribute only their explicit codes; open-ended subject
// filters have no enumerable members without a catalog.
func (n RequirementNode) FlattenCourses() []string {
	seen := make(map[string]bool)
	var codes []string
	add := func(code string) {
		if code != "" && !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	add(n.Course)
	for _, code := range n.Courses {
		add(code)
	}
	for _, code := range n.Pool.Codes {
		add(code)
	}
	return codes
}

// RequirementCategory is a named grouping of nodes with a minimum credit
// threshold.
type RequirementCategory struct {
	Name       string            `json:"name"`
	MinCredits int               `json:"min_credits,omitempty"` // defaults to sum of node credits
	Nodes      []RequirementNode `json:"nodes"`
}

// FlattenCourses returns every course code referenced by the category.
func (c RequirementCategory) FlattenCourses() []string {
	seen := make(map[string]bool)
	var codes []string
	for _, n := range c.Nodes {
		for _, code := range n.FlattenCourses() {
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	}
	return codes
}

// DegreeProgram is the full requirement tree for one major, plus thread
// (specialization) requirements evaluated with the same node logic.
type DegreeProgram struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Categories     []RequirementCategory `json:"categories"`
	Threads        []RequirementCategory `json:"threads,omitempty"`
	TotalCredits   int                   `json:"total_credits"`
	GPARequirement float64               `json:"gpa_requirement,omitempty"`
	Footnotes      map[int]string        `json:"footnotes,omitempty"` // display only, never evaluated
}

// Node finds a requirement node by its path. Threads are searched after
// categories.
func (p *DegreeProgram) Node(path string) (RequirementNode, bool) {
	for _, cat := range p.Categories {
		for _, n := range cat.Nodes {
			if n.Path == path {
				return n, true
			}
		}
	}
	for _, th := range p.Threads {
		for _, n := range th.Nodes {
			if n.Path == path {
				return n, true
			}
		}
	}
	return RequirementNode{}, false
}

// FlattenCourses returns every course code referenced anywhere in the
// program, categories and threads alike.
func (p *DegreeProgram) FlattenCourses() []string {
	seen := make(map[string]bool)
	var codes []string
	collect := func(cats []RequirementCategory) {
		for _, cat := range cats {
			for _, code := range cat.FlattenCourses() {
				if !seen[code] {
					seen[code] = true
					codes = append(codes, code)
				}
			}
		}
	}
	collect(p.Categories)
	collect(p.Threads)
	return codes
}

// normalize assigns node paths and fills defaulted fields. Called once at
// load; programs never mutate afterwards.
func (p *DegreeProgram) normalize() {
	fill := func(cats []RequirementCategory) {
		for ci := range cats {
			cat := &cats[ci]
			sum := 0
			for ni := range cat.Nodes {
				n := &cat.Nodes[ni]
				n.Path = fmt.Sprintf("%s/%d", cat.Name, ni)
				if n.Kind == NodeSelection && n.SelectionCount == 0 {
					n.SelectionCount = 1
				}
				sum += n.Credits
			}
			if cat.MinCredits == 0 {
				cat.MinCredits = sum
			}
		}
	}
	fill(p.Categories)
	fill(p.Threads)
}
