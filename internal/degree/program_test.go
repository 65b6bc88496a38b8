package degree_test

import (
	"sort"
	"testing"

	"github.com/pathwise/degree-audit/internal/catalog"
	"github.com/pathwise/degree-audit/internal/degree"
)

func TestPoolFilter_Eligible(t *testing.T) {
	cs3510 := catalog.Course{Code: "CS 3510", Credits: 3}
	cs1301 := catalog.Course{Code: "CS 1301", Credits: 3}
	math3012 := catalog.Course{Code: "MATH 3012", Credits: 3}

	tests := []struct {
		name   string
		pool   degree.PoolFilter
		course catalog.Course
		want   bool
	}{
		{"explicit code", degree.PoolFilter{Codes: []string{"CS 3510"}}, cs3510, true},
		{"explicit code miss", degree.PoolFilter{Codes: []string{"CS 3510"}}, cs1301, false},
		{"subject and min level", degree.PoolFilter{Subject: "CS", MinLevel: 3000}, cs3510, true},
		{"below min level", degree.PoolFilter{Subject: "CS", MinLevel: 3000}, cs1301, false},
		{"wrong subject", degree.PoolFilter{Subject: "CS", MinLevel: 3000}, math3012, false},
		{"above max level", degree.PoolFilter{Subject: "CS", MaxLevel: 2999}, cs3510, false},
		{"code overrides subject filter", degree.PoolFilter{Codes: []string{"MATH 3012"}, Subject: "CS"}, math3012, true},
		{"empty pool rejects", degree.PoolFilter{}, cs3510, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pool.Eligible(tt.course); got != tt.want {
				t.Errorf("Eligible(%s) = %v, want %v", tt.course.Code, got, tt.want)
			}
		})
	}
}

func TestPoolFilter_EligibleCourses(t *testing.T) {
	cat := catalog.New([]catalog.Course{
		{Code: "CS 3510"},
		{Code: "CS 4641"},
		{Code: "CS 1301"},
		{Code: "MATH 3012"},
	})
	pool := degree.PoolFilter{Subject: "CS", MinLevel: 3000}

	got := pool.EligibleCourses(cat)
	codes := make([]string, len(got))
	for i, c := range got {
		codes[i] = c.Code
	}
	if !sort.StringsAreSorted(codes) {
		t.Errorf("EligibleCourses not sorted: %v", codes)
	}
	if len(codes) != 2 || codes[0] != "CS 3510" || codes[1] != "CS 4641" {
		t.Errorf("EligibleCourses = %v, want [CS 3510 CS 4641]", codes)
	}
}

func TestRequirementNode_FlattenCourses(t *testing.T) {
	n := degree.RequirementNode{
		Kind:    degree.NodeAndGroup,
		Course:  "CS 1301",
		Courses: []string{"CS 1331", "CS 1301"},
		Pool:    degree.PoolFilter{Codes: []string{"CS 1332"}, Subject: "CS"},
	}
	got := n.FlattenCourses()
	want := []string{"CS 1301", "CS 1331", "CS 1332"}
	if len(got) != len(want) {
		t.Fatalf("FlattenCourses() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FlattenCourses()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDegreeProgram_NormalizeAndNode(t *testing.T) {
	program, err := degree.ParseProgram([]byte(`{
		"id": "bscs",
		"name": "Computer Science",
		"total_credits": 126,
		"categories": [
			{
				"name": "Core",
				"nodes": [
					{"kind": "regular", "course": "CS 1301", "credits": 3},
					{"kind": "selection", "credits": 3, "pool": {"subject": "CS", "min_level": 3000}}
				]
			}
		],
		"threads": [
			{
				"name": "Intelligence",
				"nodes": [
					{"kind": "regular", "course": "CS 3600", "credits": 3}
				]
			}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}

	n, ok := program.Node("Core/1")
	if !ok {
		t.Fatal("Node(Core/1) not found")
	}
	if n.Kind != degree.NodeSelection {
		t.Errorf("Node(Core/1).Kind = %s, want selection", n.Kind)
	}
	if n.SelectionCount != 1 {
		t.Errorf("SelectionCount = %d, want default 1", n.SelectionCount)
	}

	// Thread nodes are addressable too.
	if _, ok := program.Node("Intelligence/0"); !ok {
		t.Error("Node(Intelligence/0) not found")
	}
	if _, ok := program.Node("Core/7"); ok {
		t.Error("Node(Core/7) found, want miss")
	}

	// MinCredits defaults to the node credit sum.
	if program.Categories[0].MinCredits != 6 {
		t.Errorf("Core MinCredits = %d, want 6", program.Categories[0].MinCredits)
	}
}

func TestDegreeProgram_FlattenCourses(t *testing.T) {
	program, err := degree.ParseProgram([]byte(`{
		"id": "bscs",
		"name": "Computer Science",
		"categories": [
			{
				"name": "Core",
				"nodes": [
					{"kind": "regular", "course": "CS 1301", "credits": 3},
					{"kind": "or_group", "courses": ["MATH 1551", "MATH 1501"], "credits": 4}
				]
			}
		],
		"threads": [
			{
				"name": "Intelligence",
				"nodes": [
					{"kind": "regular", "course": "CS 3600", "credits": 3}
				]
			}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}

	codes := program.FlattenCourses()
	want := map[string]bool{"CS 1301": true, "MATH 1551": true, "MATH 1501": true, "CS 3600": true}
	if len(codes) != len(want) {
		t.Fatalf("FlattenCourses() = %v, want %d codes", codes, len(want))
	}
	for _, code := range codes {
		if !want[code] {
			t.Errorf("unexpected code %s", code)
		}
	}
}
