package reminder

import (
	"testing"
	"time"

	"taskmos/models"

	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

// evalNow is 2026-08-25 10:00 JST for every evaluator case.
var evalNow = time.Date(2026, 8, 25, 10, 0, 0, 0, jst)

func dueTask(status, dueDate, dueTime string) *models.Task {
	return &models.Task{
		ID:       "t1",
		Title:    "write report",
		Status:   status,
		Priority: models.TaskPriorityNormal,
		DueDate:  dueDate,
		DueTime:  dueTime,
	}
}

func TestComputeStages(t *testing.T) {
	cases := []struct {
		name string
		task *models.Task
		want []string
	}{
		{
			name: "date overdue",
			task: dueTask(models.TaskStatusDoing, "2026-08-24", ""),
			want: []string{models.StageOverdue},
		},
		{
			name: "due today without time",
			task: dueTask(models.TaskStatusDoing, "2026-08-25", ""),
			want: []string{models.StageD0},
		},
		{
			name: "due in three days",
			task: dueTask(models.TaskStatusBacklog, "2026-08-28", ""),
			want: []string{models.StageD3},
		},
		{
			name: "due in seven days",
			task: dueTask(models.TaskStatusWaiting, "2026-09-01", ""),
			want: []string{models.StageD7},
		},
		{
			name: "due tomorrow",
			task: dueTask(models.TaskStatusDoing, "2026-08-26", ""),
			want: []string{models.StageD1},
		},
		{
			name: "between thresholds fires nothing",
			task: dueTask(models.TaskStatusDoing, "2026-08-30", ""),
			want: nil,
		},
		{
			name: "due in fifteen minutes",
			task: dueTask(models.TaskStatusDoing, "2026-08-25", "10:15"),
			want: []string{models.StageT30M, models.StageT2H, models.StageD0},
		},
		{
			name: "due in ninety minutes",
			task: dueTask(models.TaskStatusDoing, "2026-08-25", "11:30"),
			want: []string{models.StageT2H, models.StageD0},
		},
		{
			name: "due later today outside time thresholds",
			task: dueTask(models.TaskStatusDoing, "2026-08-25", "15:00"),
			want: []string{models.StageD0},
		},
		{
			name: "time overdue suppresses date stages",
			task: dueTask(models.TaskStatusDoing, "2026-08-25", "09:00"),
			want: []string{models.StageOverdue},
		},
		{
			name: "due time on another day is ignored",
			task: dueTask(models.TaskStatusDoing, "2026-08-26", "10:15"),
			want: []string{models.StageD1},
		},
		{
			name: "done task is silent",
			task: dueTask(models.TaskStatusDone, "2026-08-25", ""),
			want: nil,
		},
		{
			name: "canceled task is silent",
			task: dueTask(models.TaskStatusCanceled, "2026-08-24", ""),
			want: nil,
		},
		{
			name: "no due date is silent",
			task: dueTask(models.TaskStatusDoing, "", "10:15"),
			want: nil,
		},
		{
			name: "unparseable due date is silent",
			task: dueTask(models.TaskStatusDoing, "someday", ""),
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeStages(tc.task, evalNow)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestComputeStagesOrderIsMostUrgentFirst(t *testing.T) {
	// All applicable stages collected at once still come back sorted.
	got := ComputeStages(dueTask(models.TaskStatusDoing, "2026-08-25", "10:20"), evalNow)
	require.Equal(t, []string{models.StageT30M, models.StageT2H, models.StageD0}, got)
	for i := 1; i < len(got); i++ {
		require.Less(t, models.StageRank(got[i-1]), models.StageRank(got[i]))
	}
}
