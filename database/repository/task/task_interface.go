package taskRepo

import "taskmos/models"

// TaskRepository defines persistence for tasks. The escalation pipeline
// only ever calls the read methods; writes belong to the CRUD endpoints.
type TaskRepository interface {
	Create(task *models.Task) error
	GetByID(id string) (*models.Task, error)
	GetAll(limit int) ([]models.Task, error)
	Update(task *models.Task) error
	Delete(id string) error

	// ListDue returns up to maxRows tasks with a non-empty due date and a
	// non-terminal status, ordered by due date ascending.
	ListDue(maxRows int) ([]models.Task, error)

	// Followup counters. Dates are "2006-01-02" strings in the app timezone.
	CountOverdue(today string) (int64, error)
	CountDueOn(date string) (int64, error)
	CountByStatus(status string) (int64, error)
}
