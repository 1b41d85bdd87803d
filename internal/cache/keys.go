package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	SermonKeyPrefix     = "sermon:%d"
	SermonListKeyPrefix = "sermons:%s"
)

const (
	UserTTL       = 5 * time.Minute
	SermonTTL     = 10 * time.Minute
	SermonListTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func SermonKey(sermonID uint) string {
	return fmt.Sprintf(SermonKeyPrefix, sermonID)
}

// SermonListKey builds a cache key for a filtered sermon listing. The hash
// argument must deterministically encode the filter and pagination so distinct
// queries never share an entry.
func SermonListKey(hash string) string {
	return fmt.Sprintf(SermonListKeyPrefix, hash)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateSermon(ctx context.Context, sermonID uint) {
	Invalidate(ctx, SermonKey(sermonID))
}

// InvalidateSermonLists drops every cached sermon listing. Any write to the
// catalog (create, update, delete, like, comment) changes listing contents or
// their computed counts, so the whole family goes.
func InvalidateSermonLists(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "sermons:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
