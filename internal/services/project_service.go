package services

import (
	"errors"
	"fmt"
	"strings"

	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/policy"
	"github.com/taskflowhq/taskflow-api/internal/repository"
	"gorm.io/gorm"
)

// ProjectService owns the project entity and its membership rules. Every
// mutating operation is gated through the policy package before it touches
// storage.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	ProjectKey  string
	MemberIDs   []uint64
}

// CreateProject creates a project owned by the actor. The owner is always
// added to the member set.
func (s *ProjectService) CreateProject(actor *models.User, input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apierrors.InvalidInput("project name cannot be empty")
	}

	members, err := s.resolveMembers(actor, input.MemberIDs)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		ProjectKey:  input.ProjectKey,
		OwnerID:     actor.ID,
		Active:      true,
		Members:     members,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.findProject(project.ID)
}

// ListProjects returns all projects the user owns or is a member of.
func (s *ProjectService) ListProjects(actor *models.User) ([]models.Project, error) {
	projects, err := s.projectRepo.FindInvolving(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project the actor is involved in.
func (s *ProjectService) GetProject(id uint64, actor *models.User) (*models.Project, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireMember(project, actor.ID); err != nil {
		return nil, err
	}

	return project, nil
}

// UpdateProjectInput carries the replacement field values. MemberIDs of nil
// leaves the member set alone; non-nil replaces it wholesale.
type UpdateProjectInput struct {
	Name        string
	Description string
	ProjectKey  string
	MemberIDs   []uint64
}

// UpdateProject replaces the project's fields. Only the owner may update, and
// a supplied member list is recomputed as {owner} union the resolved ids --
// never merged with the previous set.
func (s *ProjectService) UpdateProject(id uint64, actor *models.User, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireOwner(project, actor.ID); err != nil {
		return nil, err
	}

	project.Name = input.Name
	project.Description = input.Description
	project.ProjectKey = input.ProjectKey

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if input.MemberIDs != nil {
		members, err := s.resolveMembers(&project.Owner, input.MemberIDs)
		if err != nil {
			return nil, err
		}
		if err := s.projectRepo.ReplaceMembers(project, members); err != nil {
			return nil, fmt.Errorf("failed to replace members: %w", err)
		}
	}

	return s.findProject(project.ID)
}

// DeleteProject removes a project and cascades to its tasks and their
// comments. Owner only.
func (s *ProjectService) DeleteProject(id uint64, actor *models.User) error {
	project, err := s.findProject(id)
	if err != nil {
		return err
	}

	if err := policy.RequireOwner(project, actor.ID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddMember adds a user to the project. Owner only.
func (s *ProjectService) AddMember(projectID uint64, actor *models.User, userID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireOwner(project, actor.ID); err != nil {
		return nil, err
	}

	if policy.IsMember(project, userID) {
		return project, nil
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("user not found with id: %d", userID)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.projectRepo.AddMember(project, user); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return s.findProject(projectID)
}

// RemoveMember removes a user from the project. Owner only, and the owner can
// never be removed from the member set.
func (s *ProjectService) RemoveMember(projectID uint64, actor *models.User, userID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireOwner(project, actor.ID); err != nil {
		return nil, err
	}

	if userID == project.OwnerID {
		return nil, apierrors.Forbidden("cannot remove project owner from members")
	}

	if err := s.projectRepo.RemoveMember(project, userID); err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	return s.findProject(projectID)
}

// resolveMembers builds the member set {owner} union the given ids, failing
// with NotFound when any id does not resolve.
func (s *ProjectService) resolveMembers(owner *models.User, memberIDs []uint64) ([]models.User, error) {
	members := []models.User{*owner}

	if len(memberIDs) == 0 {
		return members, nil
	}

	ids := make([]uint64, 0, len(memberIDs))
	seen := map[uint64]struct{}{owner.ID: {}}
	for _, id := range memberIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve members: %w", err)
	}
	if len(users) != len(ids) {
		found := make(map[uint64]struct{}, len(users))
		for _, u := range users {
			found[u.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				return nil, apierrors.NotFound("user not found with id: %d", id)
			}
		}
	}

	return append(members, users...), nil
}

func (s *ProjectService) findProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("project not found with id: %d", id)
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
