package seed

import (
	"fmt"
	"log"

	"gloryharbor/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the dev seeder
type Options struct {
	NumUsers    int
	NumSermons  int
	NumContacts int
	ShouldClean bool
}

// Run populates the database with demo data for local development. It always
// starts by installing the built-in fallback sermons so the catalog matches a
// fresh production install.
func Run(db *gorm.DB, opts Options) error {
	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}

	if err := Sermons(db); err != nil {
		return fmt.Errorf("seed built-in sermons: %w", err)
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		overrides := []func(*models.User){}
		// The first two seeded accounts get elevated roles so the admin
		// surfaces are reachable out of the box.
		switch i {
		case 0:
			overrides = append(overrides, func(u *models.User) {
				u.Email = "pastor@gloryharbor.dev"
				u.Role = models.RolePastor
			})
		case 1:
			overrides = append(overrides, func(u *models.User) {
				u.Email = "leader@gloryharbor.dev"
				u.Role = models.RoleLeader
			})
		}
		user, err := f.CreateUser(overrides...)
		if err != nil {
			return fmt.Errorf("seed user %d: %w", i, err)
		}
		users = append(users, user)
	}

	for i := 0; i < opts.NumSermons; i++ {
		sermon, err := f.CreateSermon()
		if err != nil {
			return fmt.Errorf("seed sermon %d: %w", i, err)
		}
		if len(users) > 0 {
			if err := f.AddEngagement(sermon, users); err != nil {
				return fmt.Errorf("seed engagement for sermon %d: %w", sermon.ID, err)
			}
		}
	}

	for i := 0; i < opts.NumContacts; i++ {
		if _, err := f.CreateContact(); err != nil {
			return fmt.Errorf("seed contact %d: %w", i, err)
		}
	}

	log.Printf("Seed complete: %d users, %d sermons, %d contacts", opts.NumUsers, opts.NumSermons, opts.NumContacts)
	return nil
}

// Clean removes all seeded data. Hard deletes so reruns start from a truly
// empty catalog.
func Clean(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.SermonComment{},
		&models.SermonLike{},
		&models.Sermon{},
		&models.Contact{},
		&models.Availability{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
