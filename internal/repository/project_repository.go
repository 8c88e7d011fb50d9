package repository

import (
	"github.com/taskflowhq/taskflow-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project together with its member set
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with owner and members preloaded
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("Owner").Preload("Members").First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindInvolving returns projects where the user is owner or member, without
// duplicates, in insertion order
func (r *GormProjectRepository) FindInvolving(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	memberSubQuery := r.db.Table("project_members").
		Select("project_id").
		Where("user_id = ?", userID)

	if err := r.db.Preload("Owner").Preload("Members").
		Where("owner_id = ? OR id IN (?)", userID, memberSubQuery).
		Order("id").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update saves project fields without touching the member set
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Omit("Members", "Owner", "Tasks").Save(project).Error
}

// ReplaceMembers swaps the full member set in one transaction so no reader
// observes a project with an empty member set mid-update
func (r *GormProjectRepository) ReplaceMembers(project *models.Project, members []models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(project).Association("Members").Replace(members); err != nil {
			return err
		}
		project.Members = members
		return nil
	})
}

// AddMember appends a user to the member set
func (r *GormProjectRepository) AddMember(project *models.Project, user *models.User) error {
	return r.db.Model(project).Association("Members").Append(user)
}

// RemoveMember removes a user from the member set
func (r *GormProjectRepository) RemoveMember(project *models.Project, userID uint64) error {
	return r.db.Model(project).Association("Members").Delete(&models.User{ID: userID})
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Collect the project's task IDs so their comments go too
		var taskIDs []uint64
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Exec("DELETE FROM project_members WHERE project_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}
