package gpa

import "math"

// Trend directions. Changes of at most 0.1 between the last two semesters
// count as stable.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// stableBand is the |Δ| threshold for a stable classification. The epsilon
// keeps a change of exactly 0.10 on the stable side despite float
// representation (3.65-3.55 != 0.1 exactly).
const stableBand = 0.1 + 1e-9

// Trend summarizes the direction of recent semester GPAs and projects the
// next one.
type Trend struct {
	Direction      string  `json:"direction"`
	ChangeFromLast float64 `json:"change_from_last"`
	Average        float64 `json:"average"`
	ProjectedNext  float64 `json:"projected_next"`
}

// AnalyzeTrend classifies the GPA trajectory over semesters ordered by
// (year, season). Fewer than two semesters report stable with no change.
func AnalyzeTrend(semesters []SemesterGPA) Trend {
	n := len(semesters)
	if n == 0 {
		return Trend{Direction: TrendStable}
	}

	var sum float64
	for _, s := range semesters {
		sum += s.GPA
	}
	average := round2(sum / float64(n))
	last := semesters[n-1].GPA

	if n == 1 {
		return Trend{
			Direction:     TrendStable,
			Average:       average,
			ProjectedNext: last,
		}
	}

	change := round2(last - semesters[n-2].GPA)
	direction := TrendStable
	if math.Abs(change) > stableBand {
		if change > 0 {
			direction = TrendImproving
		} else {
			direction = TrendDeclining
		}
	}

	return Trend{
		Direction:      direction,
		ChangeFromLast: change,
		Average:        average,
		ProjectedNext:  projectNext(semesters),
	}
}

// projectNext extrapolates the next semester GPA from the average slope
// over up to the last three semesters, clamped to [0, 4].
func projectNext(semesters []SemesterGPA) float64 {
	window := semesters
	if len(window) > 3 {
		window = window[len(window)-3:]
	}

	var slopeSum float64
	steps := len(window) - 1
	for i := 1; i < len(window); i++ {
		slopeSum += window[i].GPA - window[i-1].GPA
	}

	last := semesters[len(semesters)-1].GPA
	projected := last
	if steps > 0 {
		projected = last + slopeSum/float64(steps)
	}
	return round2(math.Max(0, math.Min(4.0, projected)))
}
