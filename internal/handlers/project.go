package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflowhq/taskflow-api/internal/dto"
	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
	"github.com/taskflowhq/taskflow-api/internal/middleware"
	"github.com/taskflowhq/taskflow-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type projectRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	ProjectKey  string   `json:"project_key"`
	MemberIDs   []uint64 `json:"member_ids"`
}

// CreateProject creates a project owned by the caller
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(actor, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		ProjectKey:  req.ProjectKey,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the caller's projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	projects, err := h.projectService.ListProjects(actor)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

// GetProject returns one project the caller is involved in
func (h *ProjectHandler) GetProject(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(id, actor)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject replaces project fields; owner only
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(id, actor, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		ProjectKey:  req.ProjectKey,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project and its tasks; owner only
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(id, actor); err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted successfully"})
}

// AddMember adds a user to the project; owner only
func (h *ProjectHandler) AddMember(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	project, err := h.projectService.AddMember(id, actor, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// RemoveMember removes a user from the project; owner only, never the owner itself
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthenticated("authentication required"))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	project, err := h.projectService.RemoveMember(id, actor, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}
