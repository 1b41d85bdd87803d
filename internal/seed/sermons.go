package seed

import (
	"time"

	"gloryharbor/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInSermon is a permanent catalog entry inserted when the sermon table
// is completely empty, so the media page is never blank on a fresh install.
type BuiltInSermon struct {
	Title       string
	Speaker     string
	Topic       string
	Series      string
	Description string
	MediaType   string
	URL         string
	PublishedAt time.Time
}

// BuiltInSermons defines the fallback sermon catalog.
var BuiltInSermons = []BuiltInSermon{
	{
		Title:       "Benefits of Praying In Tongues (Part 2)",
		Speaker:     "Pastor Victor Akinde",
		Topic:       "Prayer",
		Series:      "Holy Spirit",
		Description: "How praying in tongues strengthens spiritual life and bold faith.",
		MediaType:   models.MediaTypeVideo,
		URL:         "https://www.youtube.com/embed/kFdr4v678dw",
		PublishedAt: time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
	},
	{
		Title:       "Intimacy With The Holy Spirit",
		Speaker:     "Pastor Victor Akinde",
		Topic:       "Holy Spirit",
		Series:      "Holy Spirit",
		Description: "A teaching on building a deeper and consistent fellowship with the Spirit.",
		MediaType:   models.MediaTypeVideo,
		URL:         "https://www.youtube.com/embed/cRQYRSn0nq8",
		PublishedAt: time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC),
	},
	{
		Title:       "Living by Faith Daily",
		Speaker:     "Pastor Victor Akinde",
		Topic:       "Faith",
		Series:      "Kingdom Living",
		Description: "Practical keys for walking in faith across everyday decisions.",
		MediaType:   models.MediaTypeAudio,
		URL:         "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
		PublishedAt: time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC),
	},
}

// Sermons inserts the built-in fallback catalog. Each entry upserts on its
// natural key (title, speaker, published_at), so running it repeatedly, or
// concurrently from several instances, inserts each sermon at most once.
func Sermons(db *gorm.DB) error {
	for _, item := range BuiltInSermons {
		sermon := models.Sermon{
			Title:       item.Title,
			Speaker:     item.Speaker,
			Topic:       item.Topic,
			Series:      item.Series,
			Description: item.Description,
			MediaType:   item.MediaType,
			URL:         item.URL,
			PublishedAt: item.PublishedAt,
		}

		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}, {Name: "speaker"}, {Name: "published_at"}},
			DoNothing: true,
		}).Create(&sermon).Error; err != nil {
			return err
		}
	}
	return nil
}
