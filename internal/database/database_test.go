package database

import (
	"testing"

	"gloryharbor/internal/config"
	"gloryharbor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_TestEnvironmentUsesSQLite(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	db, err := Connect(&config.Config{Env: "test"})
	require.NoError(t, err)
	require.NotNil(t, db)

	// AutoMigrate should have created all registered tables.
	for _, model := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}

	// A basic round trip through the migrated schema.
	user := models.User{
		Email:     "pastor@gloryharbor.org",
		Password:  "hashed",
		FirstName: "Victor",
		LastName:  "Akinde",
		Role:      models.RolePastor,
		Status:    models.UserStatusActive,
	}
	require.NoError(t, db.Create(&user).Error)
	assert.NotZero(t, user.ID)
}

func TestPersistentModels_IncludesSermonEngagement(t *testing.T) {
	var hasLike, hasComment bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *models.SermonLike:
			hasLike = true
		case *models.SermonComment:
			hasComment = true
		}
	}
	require.True(t, hasLike, "PersistentModels should include SermonLike")
	require.True(t, hasComment, "PersistentModels should include SermonComment")
}
