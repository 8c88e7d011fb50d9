package database

import (
	"fmt"

	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/repository"
	"gorm.io/gorm"
)

// SeedRoles inserts the fixed role set if the table is empty. Roles are
// immutable reference data; every registration resolves against them, so a
// missing role after startup is a configuration fault.
func SeedRoles(db *gorm.DB) error {
	roles := repository.NewRoleRepository(db)

	count, err := roles.Count()
	if err != nil {
		return fmt.Errorf("failed to count roles: %w", err)
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		txRoles := repository.NewRoleRepository(tx)
		for _, name := range models.AllRoleNames {
			if err := txRoles.Create(&models.Role{Name: name}); err != nil {
				return fmt.Errorf("failed to seed role %s: %w", name, err)
			}
		}
		return nil
	})
}
