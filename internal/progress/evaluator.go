// Package progress walks a degree program's requirement tree against a
// student's course records and flexible mappings, producing per-node and
// per-category completion state. Evaluation is pure and never fails: data
// gaps and unsatisfiable nodes degrade to incomplete results, not errors.
package progress

import (
	"math"

	"github.com/pathwise/degree-audit/internal/catalog"
	"github.com/pathwise/degree-audit/internal/degree"
	"github.com/pathwise/degree-audit/internal/mapping"
	"github.com/pathwise/degree-audit/internal/records"
)

// NodeProgress is the evaluation state of one requirement node.
type NodeProgress struct {
	Path              string          `json:"path"`
	Kind              degree.NodeKind `json:"kind"`
	Satisfied         bool            `json:"satisfied"`
	CompletedCredits  float64         `json:"completed_credits"`
	InProgressCredits float64         `json:"in_progress_credits"`
	PlannedCredits    float64         `json:"planned_credits"`
}

// CategoryProgress is the aggregated state of one requirement category (or
// thread). Recomputed fresh on every evaluation; never persisted.
type CategoryProgress struct {
	Name              string         `json:"name"`
	MinCredits        int            `json:"min_credits"`
	CompletedCredits  float64        `json:"completed_credits"`
	InProgressCredits float64        `json:"in_progress_credits"`
	PlannedCredits    float64        `json:"planned_credits"`
	PercentComplete   float64        `json:"percent_complete"`
	Complete          bool           `json:"complete"`
	Nodes             []NodeProgress `json:"nodes"`
}

// Report holds category and thread results from one evaluation.
type Report struct {
	Categories []CategoryProgress `json:"categories"`
	Threads    []CategoryProgress `json:"threads,omitempty"`
}

// studentState is the precomputed view of the inputs shared by every node
// evaluation.
type studentState struct {
	completed  map[string]bool
	inProgress map[string]bool
	planned    map[string]bool
	credits    map[string]int
	mappings   map[string][]mapping.Mapping
	catalog    *catalog.Catalog
}

// Evaluate walks every category and thread of a program. A nil program
// yields an empty report.
func Evaluate(program *degree.DegreeProgram, recs []records.CourseRecord, maps []mapping.Mapping, cat *catalog.Catalog) Report {
	if program == nil {
		return Report{}
	}
	if cat == nil {
		cat = catalog.New(nil)
	}

	completed, inProgress, planned := records.ByStatus(recs)
	state := &studentState{
		completed:  completed,
		inProgress: inProgress,
		planned:    planned,
		credits:    records.CreditsByCode(recs),
		mappings:   mapping.ByPath(maps),
		catalog:    cat,
	}

	report := Report{
		Categories: make([]CategoryProgress, 0, len(program.Categories)),
		Threads:    make([]CategoryProgress, 0, len(program.Threads)),
	}
	for _, c := range program.Categories {
		report.Categories = append(report.Categories, evaluateCategory(c, state))
	}
	for _, t := range program.Threads {
		report.Threads = append(report.Threads, evaluateCategory(t, state))
	}
	return report
}

func evaluateCategory(c degree.RequirementCategory, state *studentState) CategoryProgress {
	cp := CategoryProgress{
		Name:       c.Name,
		MinCredits: c.MinCredits,
		Nodes:      make([]NodeProgress, 0, len(c.Nodes)),
	}

	allFixedSatisfied := true
	for _, n := range c.Nodes {
		np := evaluateNode(n, state)
		cp.CompletedCredits += np.CompletedCredits
		cp.InProgressCredits += np.InProgressCredits
		cp.PlannedCredits += np.PlannedCredits
		if n.Kind != degree.NodeSelection && !np.Satisfied {
			allFixedSatisfied = false
		}
		cp.Nodes = append(cp.Nodes, np)
	}

	if cp.MinCredits == 0 {
		cp.PercentComplete = 100
		cp.Complete = true
		return cp
	}
	cp.PercentComplete = math.Min(100, 100*cp.CompletedCredits/float64(cp.MinCredits))
	cp.Complete = cp.CompletedCredits >= float64(cp.MinCredits) && allFixedSatisfied
	return cp
}

func evaluateNode(n degree.RequirementNode, state *studentState) NodeProgress {
	np := NodeProgress{Path: n.Path, Kind: n.Kind}

	switch n.Kind {
	case degree.NodeRegular:
		evaluateRegular(n, state, &np)
	case degree.NodeOrGroup:
		evaluateOrGroup(n, state, &np)
	case degree.NodeAndGroup:
		evaluateAndGroup(n, state, &np)
	case degree.NodeSelection:
		evaluateSelection(n, state, &np)
	}
	return np
}

func evaluateRegular(n degree.RequirementNode, state *studentState, np *NodeProgress) {
	credits := float64(n.Credits)
	switch {
	case state.completed[n.Course]:
		np.Satisfied = true
		np.CompletedCredits = credits
	case state.inProgress[n.Course]:
		np.InProgressCredits = credits
	case state.planned[n.Course]:
		np.PlannedCredits = credits
	}
}

// evaluateOrGroup awards the node's nominal credit value once, regardless
// of how many listed alternatives the student happens to hold. Summing
// child credits here would double-count the group.
func evaluateOrGroup(n degree.RequirementNode, state *studentState, np *NodeProgress) {
	credits := float64(n.Credits)
	anyInProgress, anyPlanned := false, false
	for _, code := range n.Courses {
		if state.completed[code] {
			np.Satisfied = true
			np.CompletedCredits = credits
			return
		}
		anyInProgress = anyInProgress || state.inProgress[code]
		anyPlanned = anyPlanned || state.planned[code]
	}
	if anyInProgress {
		np.InProgressCredits = credits
	} else if anyPlanned {
		np.PlannedCredits = credits
	}
}

// evaluateAndGroup requires every listed course. Partial completion
// contributes proportional credits for progress display, but the node
// stays unsatisfied until all children are done.
func evaluateAndGroup(n degree.RequirementNode, state *studentState, np *NodeProgress) {
	total := len(n.Courses)
	if total == 0 {
		np.Satisfied = true
		np.CompletedCredits = float64(n.Credits)
		return
	}

	var done, inProg, planned int
	for _, code := range n.Courses {
		switch {
		case state.completed[code]:
			done++
		case state.inProgress[code]:
			inProg++
		case state.planned[code]:
			planned++
		}
	}

	credits := float64(n.Credits)
	np.CompletedCredits = credits * float64(done) / float64(total)
	np.InProgressCredits = credits * float64(inProg) / float64(total)
	np.PlannedCredits = credits * float64(planned) / float64(total)
	np.Satisfied = done == total
}

// evaluateSelection counts resolved mappings toward the node's selection
// count. Each mapped course contributes its actual credit hours by record
// status, capped so the sum never exceeds credits × selectionCount.
func evaluateSelection(n degree.RequirementNode, state *studentState, np *NodeProgress) {
	maps := state.mappings[n.Path]
	np.Satisfied = len(maps) >= n.SelectionCount

	remaining := float64(n.Credits * n.SelectionCount)
	for _, m := range maps {
		if remaining <= 0 {
			break
		}
		credits := math.Min(remaining, float64(state.courseCredits(m.CourseCode)))
		switch {
		case state.completed[m.CourseCode]:
			np.CompletedCredits += credits
		case state.inProgress[m.CourseCode]:
			np.InProgressCredits += credits
		case state.planned[m.CourseCode]:
			np.PlannedCredits += credits
		default:
			continue // mapped course no longer on the plan; contributes nothing
		}
		remaining -= credits
	}
}

// courseCredits resolves a course's credit hours from the student's records
// first, falling back to the catalog.
func (s *studentState) courseCredits(code string) int {
	if credits, ok := s.credits[code]; ok {
		return credits
	}
	if course, ok := s.catalog.Course(code); ok {
		return course.Credits
	}
	return 0
}
