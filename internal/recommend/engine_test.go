package recommend_test

import (
	"reflect"
	"testing"

	"github.com/pathwise/degree-audit/internal/catalog"
	"github.com/pathwise/degree-audit/internal/recommend"
	"github.com/pathwise/degree-audit/internal/records"
)

func completedCourse(code string) records.CourseRecord {
	return records.CourseRecord{
		Code:     code,
		Status:   records.StatusCompleted,
		Grade:    "A",
		Credits:  3,
		Semester: records.Semester{Season: records.Fall, Year: 2024},
	}
}

func introCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Course{
		{Code: "CS 1301", Title: "Introduction to Computing", Credits: 3},
		{Code: "CS 1331", Title: "Object-Oriented Programming", Credits: 3, Prerequisites: []string{"CS 1301"}},
		{Code: "CS 1332", Title: "Data Structures and Algorithms", Credits: 3, Prerequisites: []string{"CS 1331"}},
		{Code: "CS 3600", Title: "Introduction to Artificial Intelligence", Credits: 3, Prerequisites: []string{"CS 1332"}},
		{Code: "MATH 1551", Title: "Differential Calculus", Credits: 2},
		{Code: "ENGL 1101", Title: "English Composition I", Credits: 3},
	})
}

func TestRecommend_EndToEnd(t *testing.T) {
	engine := recommend.NewEngine(nil)
	recs := []records.CourseRecord{
		completedCourse("CS 1301"),
		completedCourse("CS 1331"),
	}

	out := engine.Recommend(introCatalog(), recs, "Computer Science", nil, recommend.Filters{})
	if len(out) == 0 {
		t.Fatal("Recommend() returned no results")
	}

	var cs1332 *recommend.Recommendation
	for i := range out {
		if out[i].Course.Code == "CS 1332" {
			cs1332 = &out[i]
		}
		if out[i].Course.Code == "CS 3600" {
			t.Error("CS 3600 surfaced despite unmet prerequisite CS 1332")
		}
	}
	if cs1332 == nil {
		t.Fatal("CS 1332 missing from recommendations")
	}
	// prerequisite-ready (+50) + major (+40) + foundation (+20) + sequence
	// (+25) + credits (+5) puts it well past the high-priority line.
	if cs1332.Score < 90 {
		t.Errorf("CS 1332 score = %d, want >= 90", cs1332.Score)
	}
	if cs1332.Priority != recommend.PriorityHigh {
		t.Errorf("CS 1332 priority = %q, want high", cs1332.Priority)
	}
	if cs1332.Category != recommend.CategoryPrereqReady {
		t.Errorf("CS 1332 category = %q, want prerequisite-ready", cs1332.Category)
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	engine := recommend.NewEngine(nil)
	recs := []records.CourseRecord{completedCourse("CS 1301")}

	first := engine.Recommend(introCatalog(), recs, "Computer Science", nil, recommend.Filters{})
	second := engine.Recommend(introCatalog(), recs, "Computer Science", nil, recommend.Filters{})
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two identical runs differ:\n%+v\n%+v", first, second)
	}
}

func TestRecommend_TieBreakByCode(t *testing.T) {
	// Two courses with identical scores must order by code ascending.
	cat := catalog.New([]catalog.Course{
		{Code: "CS 2200", Title: "Systems and Networks", Credits: 3},
		{Code: "CS 2110", Title: "Computer Organization", Credits: 3},
	})
	engine := recommend.NewEngine(nil)

	out := engine.Recommend(cat, nil, "Computer Science", nil, recommend.Filters{})
	if len(out) != 2 {
		t.Fatalf("got %d results, want 2", len(out))
	}
	if out[0].Score != out[1].Score {
		t.Fatalf("scores differ (%d vs %d); fixture should tie", out[0].Score, out[1].Score)
	}
	if out[0].Course.Code != "CS 2110" {
		t.Errorf("out[0] = %s, want CS 2110 first on tie", out[0].Course.Code)
	}
}

func TestRecommend_PrerequisiteGate(t *testing.T) {
	// A course with everything going for it is still excluded outright when
	// a prerequisite is unmet.
	cat := catalog.New([]catalog.Course{
		{Code: "CS 4641", Title: "Machine Learning", Credits: 3, Type: "Core", Prerequisites: []string{"CS 1332"}},
	})
	engine := recommend.NewEngine(nil)

	out := engine.Recommend(cat, nil, "Computer Science", []string{"Intelligence"}, recommend.Filters{})
	if len(out) != 0 {
		t.Errorf("got %d results, want 0: %+v", len(out), out)
	}
}

func TestRecommend_SkipsTakenAndPlanned(t *testing.T) {
	engine := recommend.NewEngine(nil)
	recs := []records.CourseRecord{
		completedCourse("CS 1301"),
		{Code: "MATH 1551", Status: records.StatusPlanned, Credits: 2},
		{Code: "ENGL 1101", Status: records.StatusInProgress, Credits: 3},
	}

	out := engine.Recommend(introCatalog(), recs, "Computer Science", nil, recommend.Filters{})
	for _, r := range out {
		switch r.Course.Code {
		case "CS 1301", "MATH 1551", "ENGL 1101":
			t.Errorf("%s should not be recommended", r.Course.Code)
		}
	}
}

func TestRecommend_ThreadKeywords(t *testing.T) {
	cat := catalog.New([]catalog.Course{
		{Code: "CS 3600", Title: "Introduction to Artificial Intelligence and Machine Learning", Credits: 3},
		{Code: "CS 3251", Title: "Computer Networking I", Credits: 3},
	})
	engine := recommend.NewEngine(nil)

	out := engine.Recommend(cat, nil, "Computer Science", []string{"Intelligence"}, recommend.Filters{})
	scores := make(map[string]int)
	for _, r := range out {
		scores[r.Course.Code] = r.Score
	}
	if scores["CS 3600"] <= scores["CS 3251"] {
		t.Errorf("thread-matching CS 3600 (%d) should outscore CS 3251 (%d)", scores["CS 3600"], scores["CS 3251"])
	}
}

func TestRecommend_SequenceBonus(t *testing.T) {
	cat := catalog.New([]catalog.Course{
		{Code: "CS 1331", Title: "Object-Oriented Programming", Credits: 3},
		{Code: "ENGL 1102", Title: "English Composition II", Credits: 3},
	})
	engine := recommend.NewEngine(nil)
	recs := []records.CourseRecord{completedCourse("CS 1301")}

	out := engine.Recommend(cat, recs, "", nil, recommend.Filters{})
	scores := make(map[string]int)
	for _, r := range out {
		scores[r.Course.Code] = r.Score
	}
	// CS 1301 -> CS 1331 is in the sequence table.
	if scores["CS 1331"]-scores["ENGL 1102"] != 25 {
		t.Errorf("sequence bonus delta = %d, want 25 (scores: %v)", scores["CS 1331"]-scores["ENGL 1102"], scores)
	}
}

func TestRecommend_CourseTypeBonus(t *testing.T) {
	cat := catalog.New([]catalog.Course{
		{Code: "CS 2050", Title: "Discrete Mathematics", Credits: 3, Type: "Core"},
		{Code: "CS 2051", Title: "Honors Discrete Mathematics", Credits: 3, Type: "Required"},
		{Code: "CS 2052", Title: "Elective Discrete Mathematics", Credits: 3},
	})
	engine := recommend.NewEngine(nil)

	out := engine.Recommend(cat, nil, "", nil, recommend.Filters{})
	scores := make(map[string]int)
	for _, r := range out {
		scores[r.Course.Code] = r.Score
	}
	if scores["CS 2050"]-scores["CS 2052"] != 15 {
		t.Errorf("Core bonus delta = %d, want 15", scores["CS 2050"]-scores["CS 2052"])
	}
	if scores["CS 2051"]-scores["CS 2052"] != 10 {
		t.Errorf("Required bonus delta = %d, want 10", scores["CS 2051"]-scores["CS 2052"])
	}
}

func TestRecommend_Filters(t *testing.T) {
	engine := recommend.NewEngine(nil)
	recs := []records.CourseRecord{
		completedCourse("CS 1301"),
		completedCourse("CS 1331"),
	}

	limited := engine.Recommend(introCatalog(), recs, "Computer Science", nil, recommend.Filters{MaxResults: 1})
	if len(limited) != 1 {
		t.Errorf("MaxResults=1 returned %d results", len(limited))
	}

	all := engine.Recommend(introCatalog(), recs, "Computer Science", nil, recommend.Filters{})
	high := engine.Recommend(introCatalog(), recs, "Computer Science", nil, recommend.Filters{Priority: recommend.PriorityHigh})
	for _, r := range high {
		if r.Priority != recommend.PriorityHigh {
			t.Errorf("priority filter leaked %q result %s", r.Priority, r.Course.Code)
		}
	}
	if len(high) >= len(all) && len(all) > 1 {
		t.Errorf("high filter (%d) should restrict the full list (%d)", len(high), len(all))
	}

	// Filters truncate the sorted list; they never reorder it.
	if len(all) > 0 && len(limited) > 0 && all[0].Course.Code != limited[0].Course.Code {
		t.Errorf("MaxResults changed ordering: %s vs %s", all[0].Course.Code, limited[0].Course.Code)
	}
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	engine := recommend.NewEngine(nil)

	if out := engine.Recommend(catalog.New(nil), nil, "Computer Science", nil, recommend.Filters{}); len(out) != 0 {
		t.Errorf("empty catalog returned %d results", len(out))
	}
	if out := engine.Recommend(nil, nil, "Computer Science", nil, recommend.Filters{}); out == nil || len(out) != 0 {
		t.Errorf("nil catalog should return an empty, non-nil list, got %v", out)
	}
}
