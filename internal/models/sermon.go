package models

import "time"

// Sermon media types.
const (
	MediaTypeVideo = "video"
	MediaTypeAudio = "audio"
)

// ValidMediaType reports whether t is a persistable media type.
func ValidMediaType(t string) bool {
	return t == MediaTypeVideo || t == MediaTypeAudio
}

// Sermon represents a published sermon recording in the media hub.
//
// The combination of title, speaker and published_at is a natural key used by
// the built-in seeder to avoid duplicate insertion.
type Sermon struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"not null;uniqueIndex:idx_sermon_natural" json:"title"`
	Speaker      string    `gorm:"not null;uniqueIndex:idx_sermon_natural" json:"speaker"`
	Topic        string    `json:"topic"`
	Series       string    `json:"series"`
	Description  string    `gorm:"type:text" json:"description"`
	MediaType    string    `gorm:"not null;default:video" json:"media_type"`
	URL          string    `gorm:"not null" json:"url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	PublishedAt  time.Time `gorm:"not null;index;uniqueIndex:idx_sermon_natural" json:"published_at"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this sermon (computed)
	Liked     bool            `gorm:"->" json:"liked"`
	Comments  []SermonComment `gorm:"foreignKey:SermonID" json:"comments,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SermonLike records a user's like on a sermon.
// The combination of UserID and SermonID must be unique.
type SermonLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_sermon" json:"user_id"`
	SermonID  uint      `gorm:"not null;uniqueIndex:idx_user_sermon" json:"sermon_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SermonComment is a comment left on a sermon. The author's display fields are
// snapshotted at posting time and are not updated when the profile changes.
type SermonComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SermonID  uint      `gorm:"not null;index" json:"sermon_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `gorm:"not null" json:"last_name"`
	Role      Role      `gorm:"not null;default:member" json:"role"`
	AvatarURL string    `json:"avatar_url"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
