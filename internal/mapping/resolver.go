package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pathwise/degree-audit/internal/catalog"
	"github.com/pathwise/degree-audit/internal/degree"
	"github.com/pathwise/degree-audit/internal/records"
)

// Snapshot is the read-only evaluation context a proposal is validated
// against: the student's program, course set, and the course catalog.
type Snapshot struct {
	Program *degree.DegreeProgram
	Records []records.CourseRecord
	Catalog *catalog.Catalog
}

// Resolver owns mutation of students' mapping sets. Propose and Remove for
// one student run inside a single per-student critical section, so two
// concurrent proposals cannot both win the last slot of a node.
type Resolver struct {
	store    Store
	mu       sync.Mutex
	students map[string]*sync.Mutex
}

// NewResolver creates a resolver over a mapping store. A nil store falls
// back to an in-memory one.
func NewResolver(store Store) *Resolver {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Resolver{
		store:    store,
		students: make(map[string]*sync.Mutex),
	}
}

// studentLock returns the mutex serializing one student's mutations.
func (r *Resolver) studentLock(studentID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.students[studentID]
	if !ok {
		lock = &sync.Mutex{}
		r.students[studentID] = lock
	}
	return lock
}

// Propose binds a course to a selection requirement path after validating
// pool eligibility, cross-path conflicts, and slot capacity. Proposing an
// already-present (path, course) pair returns the existing mapping. Sink
// failures are surfaced unchanged.
func (r *Resolver) Propose(ctx context.Context, studentID, path, courseCode string, snap Snapshot) (Mapping, error) {
	lock := r.studentLock(studentID)
	lock.Lock()
	defer lock.Unlock()

	node, ok := snap.Program.Node(path)
	if !ok || node.Kind != degree.NodeSelection {
		return Mapping{}, fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}

	if err := checkEligibility(node, courseCode, snap); err != nil {
		return Mapping{}, err
	}

	existing, err := r.store.Mappings(ctx, studentID)
	if err != nil {
		return Mapping{}, fmt.Errorf("loading mappings: %w", err)
	}

	var inPath int
	for _, m := range existing {
		if m.Path == path {
			if m.CourseCode == courseCode {
				return m, nil
			}
			inPath++
			continue
		}
		if m.CourseCode != courseCode || node.Shareable {
			continue
		}
		other, ok := snap.Program.Node(m.Path)
		if ok && other.Shareable {
			continue
		}
		return Mapping{}, fmt.Errorf("%w: %s already satisfies %s", ErrAlreadyMapped, courseCode, m.Path)
	}

	if inPath >= node.SelectionCount {
		return Mapping{}, fmt.Errorf("%w: %s holds %d of %d selections", ErrSlotFull, path, inPath, node.SelectionCount)
	}

	m := Mapping{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		Path:       path,
		CourseCode: courseCode,
		CreatedAt:  time.Now(),
	}
	if err := r.store.SaveMapping(ctx, m); err != nil {
		return Mapping{}, err
	}

	slog.Info("mapping proposed", "student_id", studentID, "path", path, "course", courseCode)
	return m, nil
}

// Remove deletes a mapping. Removing a mapping that does not exist is a
// no-op, not an error.
func (r *Resolver) Remove(ctx context.Context, studentID, path, courseCode string) error {
	lock := r.studentLock(studentID)
	lock.Lock()
	defer lock.Unlock()

	return r.store.DeleteMapping(ctx, studentID, path, courseCode)
}

// checkEligibility verifies the course belongs to the node's pool and to
// the student's course set.
func checkEligibility(node degree.RequirementNode, courseCode string, snap Snapshot) error {
	course, ok := snap.Catalog.Course(courseCode)
	if !ok {
		return fmt.Errorf("%w: %s is not in the catalog", ErrNotInPool, courseCode)
	}
	if !node.Pool.Eligible(course) {
		return fmt.Errorf("%w: %s does not match the pool for %s", ErrNotInPool, courseCode, node.Path)
	}
	for _, rec := range snap.Records {
		if rec.Code == courseCode {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not on the student's plan", ErrNotInPool, courseCode)
}

// ValidationError reports one stored mapping that is no longer valid.
type ValidationError struct {
	Mapping Mapping `json:"mapping"`
	Reason  string  `json:"reason"`
}

// ValidationReport is the outcome of re-checking a mapping set.
type ValidationReport struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidateAll re-checks every stored mapping against current pool
// eligibility. Pools shift when a student's program or threads change.
// Nothing is mutated; invalid mappings stay stored until the caller removes
// them explicitly.
func ValidateAll(maps []Mapping, snap Snapshot) ValidationReport {
	report := ValidationReport{Valid: true}
	for _, m := range maps {
		node, ok := snap.Program.Node(m.Path)
		if !ok || node.Kind != degree.NodeSelection {
			report.Errors = append(report.Errors, ValidationError{
				Mapping: m,
				Reason:  fmt.Sprintf("requirement path %s no longer exists", m.Path),
			})
			continue
		}
		if err := checkEligibility(node, m.CourseCode, snap); err != nil {
			report.Errors = append(report.Errors, ValidationError{
				Mapping: m,
				Reason:  err.Error(),
			})
		}
	}
	report.Valid = len(report.Errors) == 0
	return report
}
