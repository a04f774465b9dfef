package panel

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

// GoalExtractor derives a goal from the panel rows of the named
// integration. A nil goal means the panel carries none.
type GoalExtractor interface {
	Extract(app string, rows []domain.PanelRow) *domain.Goal
}

var numberPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// LabelExtractor reads goals from rows labelled in the common panel
// layouts: "Goal: 120 / 500", "Received: 120", "Remaining: 380",
// "Goals Reached: 2".
type LabelExtractor struct{}

func (LabelExtractor) Extract(_ string, rows []domain.PanelRow) *domain.Goal {
	var (
		goal                            domain.Goal
		found, haveRemaining, haveTotal bool
		total                           float64
	)

	for _, row := range rows {
		label := strings.ToLower(row.Label)
		nums := numbers(row.Value)
		if len(nums) == 0 {
			continue
		}

		switch {
		case strings.Contains(label, "remain"):
			goal.Remaining = nums[0]
			haveRemaining, found = true, true
		case strings.Contains(label, "reached") || strings.Contains(label, "count") || strings.Contains(label, "round"):
			goal.Count = nums[0]
			found = true
		case strings.Contains(label, "received") || strings.Contains(label, "current") || strings.Contains(label, "progress"):
			goal.Current = nums[0]
			found = true
		case strings.Contains(label, "goal"):
			if len(nums) >= 2 {
				goal.Current = nums[0]
				total, haveTotal = nums[1], true
			} else {
				total, haveTotal = nums[0], true
			}
			found = true
		}
	}

	if !found {
		return nil
	}
	if !haveRemaining && haveTotal {
		goal.Remaining = max(total-goal.Current, 0)
	}
	return &goal
}

func numbers(s string) []float64 {
	var out []float64
	for _, m := range numberPattern.FindAllString(s, -1) {
		f, err := cast.ToFloat64E(strings.ReplaceAll(m, ",", ""))
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}
