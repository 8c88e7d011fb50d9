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

// UserService is the identity directory: lookup, listing, activation state
// and role updates. Users are never hard-deleted.
type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("user not found with id: %d", id)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user, active or not.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SearchUsers returns active users whose username, full name or email
// contains the keyword.
func (s *UserService) SearchUsers(keyword string) ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	kw := strings.ToLower(keyword)
	matched := make([]models.User, 0, len(users))
	for _, u := range users {
		if !u.Active {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), kw) ||
			strings.Contains(strings.ToLower(u.FullName), kw) ||
			strings.Contains(strings.ToLower(u.Email), kw) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// DeactivateUser soft-deletes a user. Deactivating an already inactive user
// is a no-op. Existing assignments and comments are untouched.
func (s *UserService) DeactivateUser(id uint64) error {
	return s.setActive(id, false)
}

// ActivateUser re-activates a user. Idempotent.
func (s *UserService) ActivateUser(id uint64) error {
	return s.setActive(id, true)
}

func (s *UserService) setActive(id uint64, active bool) error {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NotFound("user not found with id: %d", id)
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.Active == active {
		return nil
	}

	user.Active = active
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdateUserInput carries the optional profile fields. A non-empty role list
// replaces the full role set; names map leniently, unknown falling back to
// the user role.
type UpdateUserInput struct {
	FullName string
	Roles    []string
}

// UpdateUser updates profile fields and, when requested, the role set.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("user not found with id: %d", id)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}

	if len(input.Roles) > 0 {
		seen := make(map[models.RoleName]struct{}, len(input.Roles))
		roles := make([]models.Role, 0, len(input.Roles))
		for _, requested := range input.Roles {
			name := policy.NormalizeRoleName(requested)
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}

			role, err := s.roleRepo.FindByName(name)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apierrors.RoleNotSeeded(string(name))
				}
				return nil, fmt.Errorf("failed to find role %s: %w", name, err)
			}
			roles = append(roles, *role)
		}
		user.Roles = roles
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
