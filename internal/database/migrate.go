package database

import (
	"gorm.io/gorm"

	"github.com/cookio/cookio/backend/internal/model"
)

// AutoMigrate creates or updates the schema. The same migration runs
// against Postgres in deployments and SQLite in tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Recipe{},
	)
}
