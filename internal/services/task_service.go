package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskflowhq/taskflow-api/internal/constants"
	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/notifier"
	"github.com/taskflowhq/taskflow-api/internal/policy"
	"github.com/taskflowhq/taskflow-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService owns the task lifecycle, assignment rules and comments. The
// membership gate runs before every operation scoped to a project; deleting a
// task needs membership only, unlike deleting a project.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	notifier    notifier.Notifier
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, commentRepo repository.CommentRepository, userRepo repository.UserRepository, n notifier.Notifier) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		notifier:    n,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	ProjectID      uint64
	Title          string
	Description    string
	Status         models.TaskStatus
	Priority       models.TaskPriority
	AssigneeID     *uint64
	DueDate        *time.Time
	EstimatedHours *float64
	OrderIndex     *int
}

// CreateTask creates a task in a project the actor belongs to. Status and
// priority default to TODO and MEDIUM. An assignee, when given, must be a
// member of the same project.
func (s *TaskService) CreateTask(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierrors.InvalidInput("title is required")
	}

	project, err := s.findProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireMember(project, actor.ID); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	} else if !models.ValidTaskStatus(input.Status) {
		return nil, apierrors.InvalidInput(fmt.Sprintf("unknown task status %q", input.Status))
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	} else if !models.ValidTaskPriority(input.Priority) {
		return nil, apierrors.InvalidInput(fmt.Sprintf("unknown task priority %q", input.Priority))
	}

	var assignee *models.User
	if input.AssigneeID != nil {
		assignee, err = s.resolveAssignee(project, *input.AssigneeID)
		if err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		Status:         input.Status,
		Priority:       input.Priority,
		ProjectID:      project.ID,
		AssigneeID:     input.AssigneeID,
		CreatedByID:    actor.ID,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		OrderIndex:     input.OrderIndex,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if assignee != nil {
		s.notifier.NotifyTaskAssigned(assignee.Email, assignee.FullName, task.Title, project.Name)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "Assignee", "CreatedBy")
}

// ListTasksByProject returns a project's tasks, optionally filtered by
// status. Member gate applies.
func (s *TaskService) ListTasksByProject(projectID uint64, actor *models.User, status *models.TaskStatus) ([]models.Task, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireMember(project, actor.ID); err != nil {
		return nil, err
	}

	if status != nil && !models.ValidTaskStatus(*status) {
		return nil, apierrors.InvalidInput(fmt.Sprintf("unknown task status %q", *status))
	}

	tasks, err := s.taskRepo.FindByProject(projectID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task if the actor belongs to its project.
func (s *TaskService) GetTask(id uint64, actor *models.User) (*models.Task, error) {
	task, project, err := s.findTaskWithProject(id)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireMember(project, actor.ID); err != nil {
		return nil, err
	}

	return task, nil
}

// ListMyTasks returns tasks assigned to the actor. The scope is the actor
// itself, so no membership gate is needed.
func (s *TaskService) ListMyTasks(actor *models.User) ([]models.Task, error) {
	tasks, err := s.taskRepo.FindByAssignee(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTaskInput carries the full replacement field set for a task.
type UpdateTaskInput struct {
	Title          string
	Description    string
	Status         models.TaskStatus
	Priority       models.TaskPriority
	AssigneeID     *uint64
	DueDate        *time.Time
	EstimatedHours *float64
	OrderIndex     *int
}

// UpdateTask replaces a task's fields. A nil AssigneeID unassigns the task; a
// non-nil one is re-validated against the project member set.
func (s *TaskService) UpdateTask(id uint64, actor *models.User, input UpdateTaskInput) (*models.Task, error) {
	task, project, err := s.findTaskWithProject(id)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireMember(project, actor.ID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, apierrors.InvalidInput("title is required")
	}
	if !models.ValidTaskStatus(input.Status) {
		return nil, apierrors.InvalidInput(fmt.Sprintf("unknown task status %q", input.Status))
	}
	if !models.ValidTaskPriority(input.Priority) {
		return nil, apierrors.InvalidInput(fmt.Sprintf("unknown task priority %q", input.Priority))
	}

	var newAssignee *models.User
	if input.AssigneeID != nil {
		assigneeChanged := task.AssigneeID == nil || *task.AssigneeID != *input.AssigneeID
		assignee, err := s.resolveAssignee(project, *input.AssigneeID)
		if err != nil {
			return nil, err
		}
		if assigneeChanged {
			newAssignee = assignee
		}
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status
	task.Priority = input.Priority
	task.AssigneeID = input.AssigneeID
	task.DueDate = input.DueDate
	task.EstimatedHours = input.EstimatedHours
	task.OrderIndex = input.OrderIndex

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if newAssignee != nil {
		s.notifier.NotifyTaskAssigned(newAssignee.Email, newAssignee.FullName, task.Title, project.Name)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "Assignee", "CreatedBy")
}

// UpdateTaskStatus moves a task to a new status. There is no transition
// graph: any status may follow any other.
func (s *TaskService) UpdateTaskStatus(id uint64, actor *models.User, status models.TaskStatus) (*models.Task, error) {
	task, project, err := s.findTaskWithProject(id)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireMember(project, actor.ID); err != nil {
		return nil, err
	}

	if !models.ValidTaskStatus(status) {
		return nil, apierrors.InvalidInput(fmt.Sprintf("unknown task status %q", status))
	}

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "Assignee", "CreatedBy")
}

// DeleteTask removes a task and its comments. Any project member may delete
// any task; deletion is deliberately not restricted to the owner.
func (s *TaskService) DeleteTask(id uint64, actor *models.User) error {
	task, project, err := s.findTaskWithProject(id)
	if err != nil {
		return err
	}

	if err := policy.RequireMember(project, actor.ID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AddComment attaches a comment to a task, stamping the actor as author.
func (s *TaskService) AddComment(taskID uint64, actor *models.User, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apierrors.InvalidInput("comment content cannot be empty")
	}
	if utf8.RuneCountInString(content) > constants.MaxCommentLength {
		return nil, apierrors.InvalidInput(fmt.Sprintf("comment content exceeds %d characters", constants.MaxCommentLength))
	}

	task, project, err := s.findTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireMember(project, actor.ID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  content,
		TaskID:   task.ID,
		AuthorID: actor.ID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ListComments returns a task's comments, newest first.
func (s *TaskService) ListComments(taskID uint64, actor *models.User) ([]models.Comment, error) {
	_, project, err := s.findTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireMember(project, actor.ID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment. Only its author may do so; project
// membership is irrelevant to this check.
func (s *TaskService) DeleteComment(commentID uint64, actor *models.User) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NotFound("comment not found with id: %d", commentID)
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}

	if err := policy.RequireCommentAuthor(comment, actor.ID); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// resolveAssignee loads the candidate assignee and checks the assignment
// constraints: must exist, must be active, must belong to the project.
func (s *TaskService) resolveAssignee(project *models.Project, assigneeID uint64) (*models.User, error) {
	assignee, err := s.userRepo.FindByID(assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("user not found with id: %d", assigneeID)
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}

	if !assignee.Active {
		return nil, apierrors.InvalidState("cannot assign work to a deactivated user")
	}

	if err := policy.RequireMember(project, assignee.ID); err != nil {
		return nil, apierrors.Forbidden("assignee is not a member of this project")
	}

	return assignee, nil
}

func (s *TaskService) findProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("project not found with id: %d", id)
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *TaskService) findTaskWithProject(id uint64) (*models.Task, *models.Project, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apierrors.NotFound("task not found with id: %d", id)
		}
		return nil, nil, fmt.Errorf("failed to find task: %w", err)
	}

	project, err := s.findProject(task.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return task, project, nil
}
