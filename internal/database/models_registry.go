package database

import "gloryharbor/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Availability{},
		&models.Sermon{},
		&models.SermonLike{},
		&models.SermonComment{},
		&models.Contact{},
	}
}
