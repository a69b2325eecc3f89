package task

import (
	"fmt"
	"time"

	taskRepo "taskmos/database/repository/task"
	"taskmos/models"

	"github.com/google/uuid"
)

// TaskService handles task CRUD. The escalation pipeline never goes
// through here; it reads tasks directly from the repository.
type TaskService interface {
	Create(task *models.Task) error
	Get(id string) (*models.Task, error)
	List(limit int) ([]models.Task, error)
	Update(task *models.Task) error
	Delete(id string) error
}

// DefaultTaskService implements TaskService.
type DefaultTaskService struct {
	Repo taskRepo.TaskRepository
}

func validateTask(task *models.Task) error {
	if task.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !models.ValidTaskStatus(task.Status) {
		return fmt.Errorf("invalid status: %s", task.Status)
	}
	if !models.ValidTaskPriority(task.Priority) {
		return fmt.Errorf("invalid priority: %s", task.Priority)
	}
	if task.DueDate != "" {
		if _, err := time.Parse(models.DateLayout, task.DueDate); err != nil {
			return fmt.Errorf("invalid due_date %q: expected YYYY-MM-DD", task.DueDate)
		}
	}
	if task.DueTime != "" {
		if task.DueDate == "" {
			return fmt.Errorf("due_time requires due_date")
		}
		if _, err := time.Parse(models.TimeLayout, task.DueTime); err != nil {
			return fmt.Errorf("invalid due_time %q: expected HH:MM", task.DueTime)
		}
	}
	return nil
}

// Create validates and stores a new task.
func (s *DefaultTaskService) Create(task *models.Task) error {
	if task.Status == "" {
		task.Status = models.TaskStatusBacklog
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityNormal
	}
	if task.Source == "" {
		task.Source = "api"
	}
	if err := validateTask(task); err != nil {
		return err
	}
	task.ID = uuid.NewString()
	return s.Repo.Create(task)
}

// Get returns one task, or nil when it does not exist.
func (s *DefaultTaskService) Get(id string) (*models.Task, error) {
	return s.Repo.GetByID(id)
}

// List returns tasks for display.
func (s *DefaultTaskService) List(limit int) ([]models.Task, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	return s.Repo.GetAll(limit)
}

// Update validates and stores changes to an existing task.
func (s *DefaultTaskService) Update(task *models.Task) error {
	if err := validateTask(task); err != nil {
		return err
	}
	return s.Repo.Update(task)
}

// Delete removes a task.
func (s *DefaultTaskService) Delete(id string) error {
	return s.Repo.Delete(id)
}
