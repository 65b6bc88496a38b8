package gpa

import "fmt"

// GoalPlan answers "what must I average from here to reach a target GPA".
type GoalPlan struct {
	RequiredFutureGPA float64 `json:"required_future_gpa"`
	Achievable        bool    `json:"achievable"`
	Explanation       string  `json:"explanation"`
}

// RequiredGPAForGoal solves
//
//	target × (currentCredits + futureCredits) =
//	    currentQualityPoints + requiredFutureGPA × futureCredits
//
// for requiredFutureGPA. A result below 0 means the target is already
// exceeded; above 4.0 means it cannot be reached in the remaining credits.
func RequiredGPAForGoal(current Cumulative, targetGPA float64, remainingSemesters, creditsPerSemester int) GoalPlan {
	futureCredits := remainingSemesters * creditsPerSemester
	if futureCredits <= 0 {
		if current.GPA >= targetGPA {
			return GoalPlan{
				Achievable:  true,
				Explanation: fmt.Sprintf("current GPA %.2f already meets the %.2f target", current.GPA, targetGPA),
			}
		}
		return GoalPlan{
			Achievable:  false,
			Explanation: "no remaining credits to raise the GPA",
		}
	}

	totalCredits := current.TotalCredits + futureCredits
	required := (targetGPA*float64(totalCredits) - current.QualityPoints) / float64(futureCredits)

	switch {
	case required <= 0:
		return GoalPlan{
			RequiredFutureGPA: 0,
			Achievable:        true,
			Explanation:       fmt.Sprintf("target %.2f is already exceeded; any passing performance keeps it", targetGPA),
		}
	case required > 4.0:
		return GoalPlan{
			RequiredFutureGPA: round2(required),
			Achievable:        false,
			Explanation: fmt.Sprintf("reaching %.2f would require a %.2f average over the remaining %d credits, above the 4.0 maximum",
				targetGPA, required, futureCredits),
		}
	default:
		return GoalPlan{
			RequiredFutureGPA: round2(required),
			Achievable:        true,
			Explanation: fmt.Sprintf("average %.2f over the remaining %d credits to reach %.2f",
				required, futureCredits, targetGPA),
		}
	}
}
