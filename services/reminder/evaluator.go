package reminder

import (
	"math"
	"sort"
	"time"

	"taskmos/models"
)

// Date thresholds, in days before the due date. A stage fires only on the
// exact day; there is no catch-up for a day the scan did not run.
var dateStages = []struct {
	label string
	days  int
}{
	{models.StageD7, 7},
	{models.StageD3, 3},
	{models.StageD1, 1},
	{models.StageD0, 0},
}

// Time thresholds, applied only when the task is due today with a due time.
var timeStages = []struct {
	label  string
	within time.Duration
}{
	{models.StageT2H, 2 * time.Hour},
	{models.StageT30M, 30 * time.Minute},
}

// ComputeStages evaluates which escalation stages a task is in at the
// given instant. It is a pure function: the calendar day and time-of-day
// are derived from now's location. The result is ordered most urgent
// first and may be empty.
func ComputeStages(task *models.Task, now time.Time) []string {
	if models.IsTerminalStatus(task.Status) {
		return nil
	}
	if task.DueDate == "" {
		return nil
	}

	loc := now.Location()
	due, err := time.ParseInLocation(models.DateLayout, task.DueDate, loc)
	if err != nil {
		return nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	// Rounding keeps the day count exact across DST transitions.
	daysLeft := int(math.Round(due.Sub(today).Hours() / 24))

	// Date-based overdue suppresses all date-threshold stages.
	if daysLeft < 0 {
		return []string{models.StageOverdue}
	}

	var stages []string
	for _, s := range dateStages {
		if daysLeft == s.days {
			stages = append(stages, s.label)
		}
	}

	if task.DueTime != "" && daysLeft == 0 {
		if t, err := time.Parse(models.TimeLayout, task.DueTime); err == nil {
			dueAt := time.Date(due.Year(), due.Month(), due.Day(), t.Hour(), t.Minute(), 0, 0, loc)
			delta := dueAt.Sub(now)

			// Time-based overdue also discards any date stages collected.
			if delta < 0 {
				return []string{models.StageOverdue}
			}
			for _, s := range timeStages {
				if delta <= s.within {
					stages = append(stages, s.label)
				}
			}
		}
	}

	sort.SliceStable(stages, func(i, j int) bool {
		return models.StageRank(stages[i]) < models.StageRank(stages[j])
	})
	return stages
}
