package domain

import (
	"context"
	"time"
)

// MaxPostLength is the maximum number of characters in a post body.
const MaxPostLength = 280

// Post is a single microblog entry shown in the feed.
type Post struct {
	ID        int64
	UserID    int64
	Author    string // username of the post's author, populated on reads
	Body      string
	CreatedAt time.Time
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	ListRecent(ctx context.Context, limit int) ([]Post, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]Post, error)
}
