package api

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cookio/cookio/backend/config"
	"github.com/cookio/cookio/backend/internal/database"
	"github.com/cookio/cookio/backend/internal/model"
	"github.com/cookio/cookio/backend/internal/service"
)

const testJWTSecret = "test-secret"

// setupTestRouter builds the full route tree against an in-memory store,
// without Redis or Google credentials.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	router := gin.New()
	SetupAPI(router, db, nil, &config.Config{JWTSecret: testJWTSecret})
	return router, db
}

// newTestUserToken creates a user and returns a bearer token for it.
func newTestUserToken(t *testing.T, db *gorm.DB) (model.User, string) {
	t.Helper()

	user := model.User{
		GoogleID: "google-" + t.Name(),
		Name:     "Test Cook",
		Email:    t.Name() + "@example.com",
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := service.NewAuthService(db, testJWTSecret).GenerateToken(user.ID, user.Name)
	require.NoError(t, err)
	return user, token
}
