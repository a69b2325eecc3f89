package task

import (
	"fmt"
	"testing"

	"taskmos/models"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	created *models.Task
	updated *models.Task
	deleted string
	byID    map[string]*models.Task
}

func (f *fakeRepo) Create(task *models.Task) error {
	f.created = task
	return nil
}

func (f *fakeRepo) GetByID(id string) (*models.Task, error) {
	return f.byID[id], nil
}

func (f *fakeRepo) GetAll(limit int) ([]models.Task, error) { return nil, nil }

func (f *fakeRepo) Update(task *models.Task) error {
	f.updated = task
	return nil
}

func (f *fakeRepo) Delete(id string) error {
	f.deleted = id
	return nil
}

func (f *fakeRepo) ListDue(int) ([]models.Task, error)      { return nil, nil }
func (f *fakeRepo) CountOverdue(string) (int64, error)      { return 0, nil }
func (f *fakeRepo) CountDueOn(string) (int64, error)        { return 0, nil }
func (f *fakeRepo) CountByStatus(string) (int64, error)     { return 0, nil }

func TestCreateAppliesDefaults(t *testing.T) {
	repo := &fakeRepo{}
	svc := &DefaultTaskService{Repo: repo}

	task := &models.Task{Title: "write report"}
	require.NoError(t, svc.Create(task))

	require.NotNil(t, repo.created)
	require.NotEmpty(t, repo.created.ID)
	require.Equal(t, models.TaskStatusBacklog, repo.created.Status)
	require.Equal(t, models.TaskPriorityNormal, repo.created.Priority)
	require.Equal(t, "api", repo.created.Source)
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name    string
		task    models.Task
		wantErr string
	}{
		{
			name:    "missing title",
			task:    models.Task{},
			wantErr: "title is required",
		},
		{
			name:    "bad status",
			task:    models.Task{Title: "x", Status: "paused"},
			wantErr: "invalid status",
		},
		{
			name:    "bad priority",
			task:    models.Task{Title: "x", Priority: "critical"},
			wantErr: "invalid priority",
		},
		{
			name:    "bad due date format",
			task:    models.Task{Title: "x", DueDate: "25-08-2026"},
			wantErr: "invalid due_date",
		},
		{
			name:    "due time without due date",
			task:    models.Task{Title: "x", DueTime: "10:00"},
			wantErr: "due_time requires due_date",
		},
		{
			name:    "bad due time format",
			task:    models.Task{Title: "x", DueDate: "2026-08-25", DueTime: "10am"},
			wantErr: "invalid due_time",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := &DefaultTaskService{Repo: repo}
			err := svc.Create(&tc.task)
			require.Error(t, err)
			require.ErrorContains(t, err, tc.wantErr)
			require.Nil(t, repo.created)
		})
	}
}

func TestCreateAcceptsFullDueSpec(t *testing.T) {
	repo := &fakeRepo{}
	svc := &DefaultTaskService{Repo: repo}

	task := &models.Task{
		Title:    "ship release",
		Status:   models.TaskStatusDoing,
		Priority: models.TaskPriorityHigh,
		DueDate:  "2026-08-25",
		DueTime:  "18:30",
	}
	require.NoError(t, svc.Create(task))
	require.Equal(t, models.TaskStatusDoing, repo.created.Status)
}

func TestUpdateValidatesBeforeStoring(t *testing.T) {
	repo := &fakeRepo{}
	svc := &DefaultTaskService{Repo: repo}

	err := svc.Update(&models.Task{ID: "t1", Title: "", Status: models.TaskStatusDoing, Priority: models.TaskPriorityNormal})
	require.Error(t, err)
	require.Nil(t, repo.updated)

	ok := &models.Task{ID: "t1", Title: "write report", Status: models.TaskStatusDone, Priority: models.TaskPriorityLow}
	require.NoError(t, svc.Update(ok))
	require.Equal(t, ok, repo.updated)
}

func TestListClampsLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := &DefaultTaskService{Repo: repo}

	for _, limit := range []int{0, -5, 1000} {
		_, err := svc.List(limit)
		require.NoError(t, err, fmt.Sprintf("limit %d", limit))
	}
}

func TestDeleteDelegates(t *testing.T) {
	repo := &fakeRepo{}
	svc := &DefaultTaskService{Repo: repo}
	require.NoError(t, svc.Delete("t1"))
	require.Equal(t, "t1", repo.deleted)
}
