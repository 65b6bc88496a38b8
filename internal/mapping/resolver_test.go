package mapping_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pathwise/degree-audit/internal/catalog"
	"github.com/pathwise/degree-audit/internal/degree"
	"github.com/pathwise/degree-audit/internal/mapping"
	"github.com/pathwise/degree-audit/internal/records"
)

func testSnapshot(t *testing.T) mapping.Snapshot {
	t.Helper()

	program, err := degree.ParseProgram([]byte(`{
		"id": "bscs",
		"name": "Computer Science",
		"categories": [
			{
				"name": "Electives",
				"nodes": [
					{
						"kind": "selection",
						"credits": 3,
						"selection_count": 2,
						"pool": {"subject": "CS", "min_level": 3000}
					},
					{
						"kind": "selection",
						"credits": 3,
						"pool": {"subject": "CS", "min_level": 3000}
					},
					{
						"kind": "selection",
						"credits": 3,
						"shareable": true,
						"pool": {"subject": "CS", "min_level": 3000}
					}
				]
			}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}

	cat := catalog.New([]catalog.Course{
		{Code: "CS 3510", Title: "Design & Analysis of Algorithms", Credits: 3},
		{Code: "CS 3600", Title: "Introduction to AI", Credits: 3},
		{Code: "CS 4641", Title: "Machine Learning", Credits: 3},
		{Code: "MATH 3012", Title: "Applied Combinatorics", Credits: 3},
	})

	sem := records.Semester{Season: records.Fall, Year: 2024}
	recs := []records.CourseRecord{
		{Code: "CS 3510", Status: records.StatusCompleted, Grade: "A", Credits: 3, Semester: sem},
		{Code: "CS 3600", Status: records.StatusCompleted, Grade: "B", Credits: 3, Semester: sem},
		{Code: "CS 4641", Status: records.StatusPlanned, Credits: 3, Semester: sem},
		{Code: "MATH 3012", Status: records.StatusCompleted, Grade: "A", Credits: 3, Semester: sem},
	}

	return mapping.Snapshot{Program: program, Records: recs, Catalog: cat}
}

func TestResolver_Propose(t *testing.T) {
	r := mapping.NewResolver(nil)
	snap := testSnapshot(t)

	m, err := r.Propose(context.Background(), "s1", "Electives/0", "CS 3510", snap)
	if err != nil {
		t.Fatalf("Propose() error = %v", err)
	}
	if m.CourseCode != "CS 3510" || m.Path != "Electives/0" {
		t.Errorf("Propose() = %+v, want CS 3510 at Electives/0", m)
	}
}

func TestResolver_Propose_NotInPool(t *testing.T) {
	r := mapping.NewResolver(nil)
	snap := testSnapshot(t)

	// MATH course against a CS-only pool.
	_, err := r.Propose(context.Background(), "s1", "Electives/0", "MATH 3012", snap)
	if !errors.Is(err, mapping.ErrNotInPool) {
		t.Errorf("Propose() error = %v, want ErrNotInPool", err)
	}

	// Course not in the catalog at all.
	_, err = r.Propose(context.Background(), "s1", "Electives/0", "CS 9999", snap)
	if !errors.Is(err, mapping.ErrNotInPool) {
		t.Errorf("Propose() error = %v, want ErrNotInPool for unknown course", err)
	}
}

func TestResolver_Propose_CourseNotOnPlan(t *testing.T) {
	r := mapping.NewResolver(nil)
	snap := testSnapshot(t)
	snap.Records = nil

	_, err := r.Propose(context.Background(), "s1", "Electives/0", "CS 3510", snap)
	if !errors.Is(err, mapping.ErrNotInPool) {
		t.Errorf("Propose() error = %v, want ErrNotInPool when course absent from plan", err)
	}
}

func TestResolver_Propose_UnknownPath(t *testing.T) {
	r := mapping.NewResolver(nil)
	snap := testSnapshot(t)

	_, err := r.Propose(context.Background(), "s1", "Nope/7", "CS 3510", snap)
	if !errors.Is(err, mapping.ErrUnknownPath) {
		t.Errorf("Propose() error = %v, want ErrUnknownPath", err)
	}
}

func TestResolver_Propose_AlreadyMapped(t *testing.T) {
	r := mapping.NewResolver(nil)
	snap := testSnapshot(t)
	ctx := context.Background()

	if _, err := r.Propose(ctx, "s1", "Electives/0", "CS 3510", snap); err != nil {
		t.Fatalf("first Propose() error = %v", err)
	}
	_, err := r.Propose(ctx, "s1", "Electives/1", "CS 3510", snap)
	if !errors.Is(err, mapping.ErrAlreadyMapped) {
		t.Errorf("Propose() error = %v, want ErrAlreadyMapped", err)
	}
}

func TestResolver_Propose_ShareableNode(t *testing.T) {
	r := mapping.NewResolver(nil)
	snap := testSnapshot(t)
	ctx := context.Background()

	if _, err := r.Propose(ctx, "s1", "Electives/0", "CS 3510", snap); err != nil {
		t.Fatalf("first Propose() error = %v", err)
	}
	// Electives/2 is shareable; the same course may satisfy it too.
	if _, err := r.Propose(ctx, "s1", "Electives/2", "CS 3510", snap); err != nil {
		t.Errorf("Propose() onto shareable node error = %v, want nil", err)
	}
}

func TestResolver_Propose_SlotFull(t *testing.T) {
	r := mapping.NewResolver(nil)
	snap := testSnapshot(t)
	ctx := context.Background()

	// Electives/0 takes 2 selections.
	if _, err := r.Propose(ctx, "s1", "Electives/0", "CS 3510", snap); err != nil {
		t.Fatalf("Propose(CS 3510) error = %v", err)
	}
	if _, err := r.Propose(ctx, "s1", "Electives/0", "CS 3600", snap); err != nil {
		t.Fatalf("Propose(CS 3600) error = %v", err)
	}

	_, err := r.Propose(ctx, "s1", "Electives/0", "CS 4641", snap)
	if !errors.Is(err, mapping.ErrSlotFull) {
		t.Fatalf("third Propose() error = %v, want ErrSlotFull", err)
	}

	// After removing one mapping the same proposal succeeds.
	if err := r.Remove(ctx, "s1", "Electives/0", "CS 3600"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := r.Propose(ctx, "s1", "Electives/0", "CS 4641", snap); err != nil {
		t.Errorf("Propose() after Remove() error = %v, want nil", err)
	}
}

func TestResolver_Propose_Idempotent(t *testing.T) {
	r := mapping.NewResolver(nil)
	snap := testSnapshot(t)
	ctx := context.Background()

	first, err := r.Propose(ctx, "s1", "Electives/0", "CS 3510", snap)
	if err != nil {
		t.Fatalf("Propose() error = %v", err)
	}
	second, err := r.Propose(ctx, "s1", "Electives/0", "CS 3510", snap)
	if err != nil {
		t.Fatalf("repeated Propose() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("repeated Propose() created a new mapping: %q vs %q", second.ID, first.ID)
	}
}

func TestResolver_Remove_Idempotent(t *testing.T) {
	r := mapping.NewResolver(nil)

	if err := r.Remove(context.Background(), "s1", "Electives/0", "CS 3510"); err != nil {
		t.Errorf("Remove() of missing mapping error = %v, want nil", err)
	}
}

func TestResolver_Propose_SerializedPerStudent(t *testing.T) {
	store := mapping.NewMemoryStore()
	r := mapping.NewResolver(store)
	snap := testSnapshot(t)
	ctx := context.Background()

	// Electives/1 has a single slot; concurrent proposals must not both win.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	courses := []string{"CS 3510", "CS 3600"}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Propose(ctx, "s1", "Electives/1", courses[i], snap)
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
		} else if !errors.Is(err, mapping.ErrSlotFull) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Errorf("%d proposals won the single slot, want exactly 1", won)
	}

	maps, err := store.Mappings(ctx, "s1")
	if err != nil {
		t.Fatalf("Mappings() error = %v", err)
	}
	if len(maps) != 1 {
		t.Errorf("store holds %d mappings, want 1", len(maps))
	}
}

func TestValidateAll(t *testing.T) {
	snap := testSnapshot(t)
	maps := []mapping.Mapping{
		{StudentID: "s1", Path: "Electives/0", CourseCode: "CS 3510"},
		{StudentID: "s1", Path: "Electives/0", CourseCode: "MATH 3012"}, // outside pool
		{StudentID: "s1", Path: "Gone/0", CourseCode: "CS 3600"},        // path no longer exists
	}

	report := mapping.ValidateAll(maps, snap)
	if report.Valid {
		t.Error("report.Valid = true, want false")
	}
	if len(report.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %+v", len(report.Errors), report.Errors)
	}
}

func TestValidateAll_AllValid(t *testing.T) {
	snap := testSnapshot(t)
	maps := []mapping.Mapping{
		{StudentID: "s1", Path: "Electives/0", CourseCode: "CS 3510"},
	}

	report := mapping.ValidateAll(maps, snap)
	if !report.Valid {
		t.Errorf("report.Valid = false, want true: %+v", report.Errors)
	}
}
