package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflowhq/taskflow-api/internal/dto"
	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
	"github.com/taskflowhq/taskflow-api/internal/middleware"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type taskRequest struct {
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssigneeID     *uint64    `json:"assignee_id"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
	OrderIndex     *int       `json:"order_index"`
}

// CreateTask creates a task in a project the caller belongs to
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	type createTaskRequest struct {
		taskRequest
		ProjectID uint64 `json:"project_id" binding:"required"`
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(actor, services.CreateTaskInput{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         models.TaskStatus(req.Status),
		Priority:       models.TaskPriority(req.Priority),
		AssigneeID:     req.AssigneeID,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		OrderIndex:     req.OrderIndex,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasksByProject returns a project's tasks, optionally filtered by status
func (h *TaskHandler) ListTasksByProject(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	projectID, ok := parseIDParam(c, "project_id")
	if !ok {
		return
	}

	var status *models.TaskStatus
	if s := c.Query("status"); s != "" {
		st := models.TaskStatus(s)
		status = &st
	}

	tasks, err := h.taskService.ListTasksByProject(projectID, actor, status)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns one task if the caller belongs to its project
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(id, actor)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListMyTasks returns tasks assigned to the caller
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	tasks, err := h.taskService.ListMyTasks(actor)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// UpdateTask replaces a task's fields
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(id, actor, services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         models.TaskStatus(req.Status),
		Priority:       models.TaskPriority(req.Priority),
		AssigneeID:     req.AssigneeID,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		OrderIndex:     req.OrderIndex,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTaskStatus moves a task to a new status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type statusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	task, err := h.taskService.UpdateTaskStatus(id, actor, models.TaskStatus(req.Status))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task; any project member may do this
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(id, actor); err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted successfully"})
}

// AddComment attaches a comment to a task
func (h *TaskHandler) AddComment(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type commentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	comment, err := h.taskService.AddComment(id, actor, req.Content)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments returns a task's comments, newest first
func (h *TaskHandler) ListComments(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.taskService.ListComments(id, actor)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCommentDTOs(comments))
}

// DeleteComment removes a comment; author only
func (h *TaskHandler) DeleteComment(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	id, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteComment(id, actor); err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted successfully"})
}
