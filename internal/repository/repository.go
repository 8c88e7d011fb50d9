package repository

import (
	"github.com/taskflowhq/taskflow-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with roles preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByIDs finds all users with the given IDs
	FindByIDs(ids []uint64) ([]models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// ExistsByUsername reports whether a user with the username exists
	ExistsByUsername(username string) (bool, error)

	// ExistsByEmail reports whether a user with the email exists
	ExistsByEmail(email string) (bool, error)

	// Update saves the user and replaces its role set atomically
	Update(user *models.User) error

	// List returns all users
	List() ([]models.User, error)

	// Count returns the total number of users ever registered
	Count() (int64, error)
}

// RoleRepository defines the interface for role reference data access
type RoleRepository interface {
	// Create creates a role
	Create(role *models.Role) error

	// FindByName finds a role by its fixed name
	FindByName(name models.RoleName) (*models.Role, error)

	// Count returns the number of seeded roles
	Count() (int64, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project together with its member set
	Create(project *models.Project) error

	// FindByID finds a project by ID with owner and members preloaded
	FindByID(id uint64) (*models.Project, error)

	// FindInvolving returns projects where the user is owner or member
	FindInvolving(userID uint64) ([]models.Project, error)

	// Update saves project fields without touching the member set
	Update(project *models.Project) error

	// ReplaceMembers swaps the full member set in one transaction
	ReplaceMembers(project *models.Project, members []models.User) error

	// AddMember appends a user to the member set
	AddMember(project *models.Project, user *models.User) error

	// RemoveMember removes a user from the member set
	RemoveMember(project *models.Project, userID uint64) error

	// Delete deletes the project and cascades to its tasks and their comments
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// FindByProject returns tasks of a project, optionally filtered by status,
	// ordered by order_index
	FindByProject(projectID uint64, status *models.TaskStatus) ([]models.Task, error)

	// FindByAssignee returns tasks assigned to the user
	FindByAssignee(userID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task and its comments
	Delete(id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID
	FindByID(id uint64) (*models.Comment, error)

	// FindByTask returns a task's comments, newest first
	FindByTask(taskID uint64) ([]models.Comment, error)

	// Delete deletes a comment
	Delete(id uint64) error
}
