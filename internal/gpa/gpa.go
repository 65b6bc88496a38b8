// Package gpa computes grade point averages, trends, and goal projections
// from completed course records. All functions are pure; numeric edge cases
// resolve to zero values rather than errors.
package gpa

import (
	"math"
	"sort"

	"github.com/pathwise/degree-audit/internal/records"
)

// gradePoints maps letter grades to quality point values. Grades absent
// from the table (W, I, IP, S, U, ...) are excluded from GPA entirely: no
// quality points and no credits in the denominator. F stays in the table at
// 0.0 so its credits still count against the student.
var gradePoints = map[string]float64{
	"A":  4.0,
	"A-": 3.7,
	"B+": 3.3,
	"B":  3.0,
	"B-": 2.7,
	"C+": 2.3,
	"C":  2.0,
	"C-": 1.7,
	"D+": 1.3,
	"D":  1.0,
	"F":  0.0,
}

// GradePoints returns the point value for a letter grade. ok is false for
// non-letter statuses, which must be excluded from both quality points and
// credit totals.
func GradePoints(grade string) (float64, bool) {
	points, ok := gradePoints[grade]
	return points, ok
}

// SemesterGPA is the GPA summary of one semester.
type SemesterGPA struct {
	Semester      records.Semester `json:"semester"`
	GPA           float64          `json:"gpa"`
	Credits       int              `json:"credits"`
	QualityPoints float64          `json:"quality_points"`
}

// Cumulative is the GPA summary over a full record set.
type Cumulative struct {
	GPA           float64 `json:"gpa"`
	TotalCredits  int     `json:"total_credits"`
	QualityPoints float64 `json:"quality_points"`
}

// Data bundles every GPA view the engine exposes.
type Data struct {
	Semesters  []SemesterGPA `json:"semesters"`
	Cumulative Cumulative    `json:"cumulative"`
	Trend      Trend         `json:"trend"`
}

// Compute produces semester, cumulative, and trend GPA data in one pass.
func Compute(recs []records.CourseRecord) Data {
	semesters := ComputeSemesterGPAs(recs)
	return Data{
		Semesters:  semesters,
		Cumulative: ComputeCumulativeGPA(recs),
		Trend:      AnalyzeTrend(semesters),
	}
}

// ComputeSemesterGPAs groups completed, graded records by semester and
// returns one GPA record per semester, ordered by year then Spring <
// Summer < Fall.
func ComputeSemesterGPAs(recs []records.CourseRecord) []SemesterGPA {
	type bucket struct {
		credits       int
		qualityPoints float64
	}
	buckets := make(map[records.Semester]*bucket)

	for _, r := range recs {
		points, counted := gradedPoints(r)
		if !counted {
			continue
		}
		b, ok := buckets[r.Semester]
		if !ok {
			b = &bucket{}
			buckets[r.Semester] = b
		}
		b.credits += r.Credits
		b.qualityPoints += points * float64(r.Credits)
	}

	out := make([]SemesterGPA, 0, len(buckets))
	for sem, b := range buckets {
		out = append(out, SemesterGPA{
			Semester:      sem,
			GPA:           safeGPA(b.qualityPoints, b.credits),
			Credits:       b.credits,
			QualityPoints: b.qualityPoints,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Semester.Compare(out[j].Semester) < 0
	})
	return out
}

// ComputeCumulativeGPA aggregates every completed, graded record. The
// result is invariant under reordering of the input.
func ComputeCumulativeGPA(recs []records.CourseRecord) Cumulative {
	var credits int
	var qualityPoints float64
	for _, r := range recs {
		points, counted := gradedPoints(r)
		if !counted {
			continue
		}
		credits += r.Credits
		qualityPoints += points * float64(r.Credits)
	}
	return Cumulative{
		GPA:           safeGPA(qualityPoints, credits),
		TotalCredits:  credits,
		QualityPoints: qualityPoints,
	}
}

// gradedPoints returns the per-credit point value of a record and whether
// it counts toward GPA at all.
func gradedPoints(r records.CourseRecord) (float64, bool) {
	if r.Status != records.StatusCompleted {
		return 0, false
	}
	return GradePoints(r.Grade)
}

// safeGPA divides quality points by credits, rounded half-up to two decimal
// places. Zero credits yields 0, never NaN.
func safeGPA(qualityPoints float64, credits int) float64 {
	if credits == 0 {
		return 0
	}
	return round2(qualityPoints / float64(credits))
}

// round2 rounds half-up to two decimal places. math.Round would round
// half-away-from-zero; GPA values are non-negative so floor(x*100+0.5)
// matches the required rule exactly.
func round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
