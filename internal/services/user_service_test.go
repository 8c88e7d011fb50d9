package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/repository"
	"gorm.io/gorm"
)

type UserServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *UserService
}

func (s *UserServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewUserService(repository.NewUserRepository(s.db), repository.NewRoleRepository(s.db))
}

func (s *UserServiceTestSuite) TestGetUser() {
	alice := createTestUser(s.T(), s.db, "alice", "alice@example.com")

	user, err := s.service.GetUser(alice.ID)
	s.Require().NoError(err)
	s.Equal("alice", user.Username)
	s.Require().Len(user.Roles, 1)
	s.Equal(models.RoleUser, user.Roles[0].Name)
}

func (s *UserServiceTestSuite) TestGetUserNotFound() {
	_, err := s.service.GetUser(999)
	s.Require().Error(err)
	s.True(apierrors.IsKind(err, apierrors.KindNotFound))
}

func (s *UserServiceTestSuite) TestListUsers() {
	createTestUser(s.T(), s.db, "alice", "alice@example.com")
	createTestUser(s.T(), s.db, "bob", "bob@example.com")

	users, err := s.service.ListUsers()
	s.Require().NoError(err)
	s.Len(users, 2)
}

func (s *UserServiceTestSuite) TestSearchUsersMatchesSubstringsCaseInsensitively() {
	createTestUser(s.T(), s.db, "alice", "alice@example.com")
	createTestUser(s.T(), s.db, "bob", "bob@example.com")

	users, err := s.service.SearchUsers("ALI")
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal("alice", users[0].Username)
}

func (s *UserServiceTestSuite) TestSearchUsersSkipsDeactivated() {
	alice := createTestUser(s.T(), s.db, "alice", "alice@example.com")
	s.Require().NoError(s.service.DeactivateUser(alice.ID))

	users, err := s.service.SearchUsers("alice")
	s.Require().NoError(err)
	s.Empty(users)
}

func (s *UserServiceTestSuite) TestDeactivateAndActivateAreIdempotent() {
	alice := createTestUser(s.T(), s.db, "alice", "alice@example.com")

	s.Require().NoError(s.service.DeactivateUser(alice.ID))
	s.Require().NoError(s.service.DeactivateUser(alice.ID))

	user, err := s.service.GetUser(alice.ID)
	s.Require().NoError(err)
	s.False(user.Active)

	s.Require().NoError(s.service.ActivateUser(alice.ID))
	s.Require().NoError(s.service.ActivateUser(alice.ID))

	user, err = s.service.GetUser(alice.ID)
	s.Require().NoError(err)
	s.True(user.Active)
}

func (s *UserServiceTestSuite) TestDeactivateUnknownUser() {
	err := s.service.DeactivateUser(999)
	s.Require().Error(err)
	s.True(apierrors.IsKind(err, apierrors.KindNotFound))
}

func (s *UserServiceTestSuite) TestUpdateUserReplacesRoleSet() {
	alice := createTestUser(s.T(), s.db, "alice", "alice@example.com")

	user, err := s.service.UpdateUser(alice.ID, UpdateUserInput{
		FullName: "Alice Liddell",
		Roles:    []string{"manager", "admin"},
	})
	s.Require().NoError(err)
	s.Equal("Alice Liddell", user.FullName)
	s.Len(user.Roles, 2)
	s.True(user.HasRole(models.RoleManager))
	s.True(user.HasRole(models.RoleAdmin))
	s.False(user.HasRole(models.RoleUser))
}

func (s *UserServiceTestSuite) TestUpdateUserUnknownRoleFallsBackToUser() {
	alice := createTestUser(s.T(), s.db, "alice", "alice@example.com")

	// neither invented names nor ROLE_-prefixed strings are recognized
	user, err := s.service.UpdateUser(alice.ID, UpdateUserInput{
		FullName: alice.FullName,
		Roles:    []string{"superhero", "ROLE_ADMIN"},
	})
	s.Require().NoError(err)
	s.Require().Len(user.Roles, 1)
	s.Equal(models.RoleUser, user.Roles[0].Name)
}

func (s *UserServiceTestSuite) TestUpdateUserKeepsRolesWhenNoneGiven() {
	alice := createTestUser(s.T(), s.db, "alice", "alice@example.com")

	user, err := s.service.UpdateUser(alice.ID, UpdateUserInput{FullName: "Alice Liddell"})
	s.Require().NoError(err)
	s.Equal("Alice Liddell", user.FullName)
	s.Require().Len(user.Roles, 1)
	s.Equal(models.RoleUser, user.Roles[0].Name)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
