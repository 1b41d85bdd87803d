// Package seed provides helpers to create demo and fallback data for the
// application database.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"gloryharbor/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var sermonTopics = []string{
	"Prayer", "Faith", "Holy Spirit", "Grace", "Worship",
	"Giving", "Family", "Healing", "Evangelism", "Discipleship",
}

var sermonSeries = []string{
	"Holy Spirit", "Kingdom Living", "Foundations", "The Book of Romans",
	"Psalms of Ascent", "Walking in Love",
}

var commentLines = []string{
	"Amen! This message blessed me.",
	"Powerful word, thank you Pastor.",
	"Listening again for the third time.",
	"This answered a question I prayed about this week.",
	"Sharing this with my small group.",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the dev seeder and tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a fake congregation member. Overrides run before insert.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     gofakeit.Email(),
		Password:  string(hashed),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Role:      models.RoleMember,
		Status:    models.UserStatusActive,
	}
	for _, o := range overrides {
		o(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSermon persists a fake sermon with a realistic publish date spread
// over the past year.
func (f *Factory) CreateSermon(overrides ...func(*models.Sermon)) (*models.Sermon, error) {
	mediaType := models.MediaTypeVideo
	url := fmt.Sprintf("https://www.youtube.com/embed/%s", gofakeit.LetterN(11))
	if f.rand.Intn(3) == 0 {
		mediaType = models.MediaTypeAudio
		url = fmt.Sprintf("https://soundcloud.com/gloryharbor/%s", gofakeit.Word())
	}

	daysBack := f.rand.Intn(365)
	sermon := &models.Sermon{
		Title:       gofakeit.Sentence(4),
		Speaker:     "Pastor " + gofakeit.Name(),
		Topic:       sermonTopics[f.rand.Intn(len(sermonTopics))],
		Series:      sermonSeries[f.rand.Intn(len(sermonSeries))],
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		MediaType:   mediaType,
		URL:         url,
		PublishedAt: time.Now().UTC().AddDate(0, 0, -daysBack).Truncate(24 * time.Hour),
	}
	for _, o := range overrides {
		o(sermon)
	}

	if err := f.db.Create(sermon).Error; err != nil {
		return nil, err
	}
	return sermon, nil
}

// CreateContact persists a fake contact form submission.
func (f *Factory) CreateContact(overrides ...func(*models.Contact)) (*models.Contact, error) {
	contact := &models.Contact{
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		Phone:   gofakeit.Phone(),
		Subject: gofakeit.Sentence(3),
		Message: gofakeit.Paragraph(1, 2, 10, " "),
		Status:  models.ContactStatusNew,
	}
	for _, o := range overrides {
		o(contact)
	}

	if err := f.db.Create(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

// AddEngagement sprinkles likes and comments from the given users onto the sermon.
func (f *Factory) AddEngagement(sermon *models.Sermon, users []*models.User) error {
	for _, user := range users {
		if f.rand.Intn(2) == 0 {
			like := models.SermonLike{UserID: user.ID, SermonID: sermon.ID}
			if err := f.db.Create(&like).Error; err != nil {
				return err
			}
		}
		if f.rand.Intn(4) == 0 {
			comment := models.SermonComment{
				SermonID:  sermon.ID,
				UserID:    user.ID,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Role:      user.Role,
				AvatarURL: user.AvatarURL,
				Text:      commentLines[f.rand.Intn(len(commentLines))],
			}
			if err := f.db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
