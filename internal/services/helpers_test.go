package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory SQLite database, migrates the schema and
// seeds the fixed role set.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.Comment{},
	)
	require.NoError(t, err)

	for _, name := range models.AllRoleNames {
		require.NoError(t, db.Create(&models.Role{Name: name}).Error)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// fakeNotifier records notifications instead of delivering them.
type fakeNotifier struct {
	assignedEmails []string
	assignedTitles []string
	resetTokens    map[string]string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{resetTokens: make(map[string]string)}
}

func (f *fakeNotifier) NotifyTaskAssigned(email, userName, taskTitle, projectName string) {
	f.assignedEmails = append(f.assignedEmails, email)
	f.assignedTitles = append(f.assignedTitles, taskTitle)
}

func (f *fakeNotifier) NotifyPasswordReset(email, resetToken string) {
	f.resetTokens[email] = resetToken
}

// createTestUser inserts a user with the plain user role and a bcrypt hash of
// "password123".
func createTestUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	var userRole models.Role
	require.NoError(t, db.Where("name = ?", models.RoleUser).First(&userRole).Error)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     username,
		Active:       true,
		Roles:        []models.Role{userRole},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// newProjectService builds a ProjectService over the given database.
func newProjectService(db *gorm.DB) *ProjectService {
	return NewProjectService(repository.NewProjectRepository(db), repository.NewUserRepository(db))
}

// newTaskService builds a TaskService over the given database.
func newTaskService(db *gorm.DB, n *fakeNotifier) *TaskService {
	return NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewProjectRepository(db),
		repository.NewCommentRepository(db),
		repository.NewUserRepository(db),
		n,
	)
}
