package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskflowhq/taskflow-api/internal/constants"
	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/notifier"
	"github.com/taskflowhq/taskflow-api/internal/policy"
	"github.com/taskflowhq/taskflow-api/internal/repository"
	"github.com/taskflowhq/taskflow-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration, login and password reset.
type AuthService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	tokens   *token.Manager
	notifier notifier.Notifier
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, tokens *token.Manager, n notifier.Notifier) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		tokens:   tokens,
		notifier: n,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Roles    []string
}

// Register creates a new user. The very first user registered in the system
// is granted the product owner and admin roles regardless of the request;
// everyone after that gets the requested roles (lenient name mapping) or the
// plain user role.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" {
		return nil, apierrors.InvalidInput("username and email are required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, apierrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	}

	taken, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, apierrors.DuplicateIdentity("username is already taken")
	}

	taken, err = s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, apierrors.DuplicateIdentity("email is already in use")
	}

	count, err := s.userRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	roles, err := s.resolveRoles(policy.ResolveRegistrationRoles(input.Roles, count == 0))
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     input.FullName,
		Active:       true,
		Roles:        roles,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication. Login accepts either a
// username or an email address.
type LoginInput struct {
	Login    string
	Password string
}

// Login verifies credentials and returns the user with a session token.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	var (
		user *models.User
		err  error
	)
	if strings.Contains(input.Login, "@") {
		user, err = s.userRepo.FindByEmail(input.Login)
	} else {
		user, err = s.userRepo.FindByUsername(input.Login)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apierrors.Unauthenticated("invalid username or password")
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !user.Active {
		return nil, "", apierrors.InvalidState("user account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", apierrors.Unauthenticated("invalid username or password")
	}

	sessionToken, err := s.tokens.IssueSessionToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	return user, sessionToken, nil
}

// ForgotPassword issues a reset token and mails it to the user. Email
// delivery is fire-and-forget; a failed send never fails this call.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NotFound("email not found")
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !user.Active {
		return apierrors.InvalidState("user account is deactivated")
	}

	resetToken, err := s.tokens.IssuePasswordResetToken(user.Email)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	s.notifier.NotifyPasswordReset(user.Email, resetToken)
	return nil
}

// ResetPassword sets a new password for the account a valid reset token was
// issued to.
func (s *AuthService) ResetPassword(resetToken, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return apierrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	}

	email, err := s.tokens.ResolvePasswordResetToken(resetToken)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.ExpiredOrInvalid("reset token is invalid or has expired")
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// resolveRoles maps role names to seeded rows. A missing row is a startup
// configuration fault, not a user error.
func (s *AuthService) resolveRoles(names []models.RoleName) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(names))
	for _, name := range names {
		role, err := s.roleRepo.FindByName(name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierrors.RoleNotSeeded(string(name))
			}
			return nil, fmt.Errorf("failed to find role %s: %w", name, err)
		}
		roles = append(roles, *role)
	}
	return roles, nil
}
