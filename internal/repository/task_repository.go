package repository

import (
	"github.com/taskflowhq/taskflow-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindByProject returns tasks of a project ordered by order_index, with
// unordered tasks last
func (r *GormTaskRepository) FindByProject(projectID uint64, status *models.TaskStatus) ([]models.Task, error) {
	var tasks []models.Task
	query := r.db.Where("project_id = ?", projectID)

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Preload("Assignee").Preload("CreatedBy").
		Order("CASE WHEN order_index IS NULL THEN 1 ELSE 0 END, order_index ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByAssignee returns tasks assigned to the user
func (r *GormTaskRepository) FindByAssignee(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("Project").
		Where("assignee_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit("Project", "Assignee", "CreatedBy", "Comments").Save(task).Error
}

// Delete deletes a task and its comments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}
