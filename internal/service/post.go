package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pjansen/microblog/internal/domain"
)

// defaultFeedSize is how many posts the home feed shows.
const defaultFeedSize = 25

// PostService handles creating posts and reading the feed.
type PostService struct {
	posts domain.PostRepository
}

// NewPostService creates a new PostService.
func NewPostService(posts domain.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// Create validates and persists a new post for the user.
func (s *PostService) Create(ctx context.Context, user *domain.User, body string) (*domain.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: post body is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(body) > domain.MaxPostLength {
		return nil, fmt.Errorf("%w: post must be at most %d characters", domain.ErrInvalidInput, domain.MaxPostLength)
	}

	post := &domain.Post{
		UserID: user.ID,
		Body:   body,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Author = user.Username
	return post, nil
}

// Feed returns the most recent posts, newest first.
func (s *PostService) Feed(ctx context.Context) ([]domain.Post, error) {
	return s.posts.ListRecent(ctx, defaultFeedSize)
}

// UserPosts returns the most recent posts by a single user, newest first.
func (s *PostService) UserPosts(ctx context.Context, userID int64) ([]domain.Post, error) {
	return s.posts.ListByUser(ctx, userID, defaultFeedSize)
}
