package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSeedRoles(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Role{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, SeedRoles(db))

	var names []models.RoleName
	require.NoError(t, db.Model(&models.Role{}).Order("id").Pluck("name", &names).Error)
	require.ElementsMatch(t, models.AllRoleNames, names)

	// seeding again must not duplicate reference rows
	require.NoError(t, SeedRoles(db))

	var count int64
	require.NoError(t, db.Model(&models.Role{}).Count(&count).Error)
	require.Equal(t, int64(len(models.AllRoleNames)), count)
}
