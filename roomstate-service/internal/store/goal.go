package store

import "github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"

// GoalDelta is the outcome of comparing two consecutive goals.
type GoalDelta struct {
	Progress bool
	Reached  bool
}

// DetectGoalDelta compares the previous and next goal. Nothing is reported
// unless both are present. Progress is a change of Current. Completion is
// a rising Count in multi-goal rooms, otherwise Remaining falling from a
// positive value to zero.
func DetectGoalDelta(prev, next *domain.Goal, multiGoal bool) GoalDelta {
	if prev == nil || next == nil {
		return GoalDelta{}
	}

	var d GoalDelta
	d.Progress = prev.Current != next.Current

	if multiGoal {
		d.Reached = next.Count > prev.Count
	} else {
		d.Reached = prev.Remaining > 0 && next.Remaining == 0
	}

	return d
}
