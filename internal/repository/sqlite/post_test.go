package sqlite_test

import (
	"context"
	"testing"

	"github.com/pjansen/microblog/internal/domain"
	"github.com/pjansen/microblog/internal/repository/sqlite"
)

func createTestPost(t *testing.T, repo *sqlite.PostRepository, userID int64, body string) *domain.Post {
	t.Helper()
	post := &domain.Post{UserID: userID, Body: body}
	if err := repo.Create(context.Background(), post); err != nil {
		t.Fatalf("Create post: %v", err)
	}
	return post
}

func TestPostRepository_Create(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "poster", "poster@example.com")

	post := createTestPost(t, db.Posts(), user.ID, "hello world")

	if post.ID == 0 {
		t.Fatal("expected post ID to be set after create")
	}
	if post.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestPostRepository_ListRecent(t *testing.T) {
	db := newTestDB(t)
	posts := db.Posts()
	user := createTestUser(t, db.Users(), "feeder", "feeder@example.com")

	createTestPost(t, posts, user.ID, "first")
	createTestPost(t, posts, user.ID, "second")
	createTestPost(t, posts, user.ID, "third")

	got, err := posts.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(got))
	}
	// Newest first.
	if got[0].Body != "third" {
		t.Fatalf("expected newest post first, got %q", got[0].Body)
	}
	if got[0].Author != "feeder" {
		t.Fatalf("expected author username to be joined, got %q", got[0].Author)
	}
}

func TestPostRepository_ListRecent_Limit(t *testing.T) {
	db := newTestDB(t)
	posts := db.Posts()
	user := createTestUser(t, db.Users(), "limited", "limited@example.com")

	for i := 0; i < 5; i++ {
		createTestPost(t, posts, user.ID, "post")
	}

	got, err := posts.ListRecent(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 posts with limit, got %d", len(got))
	}
}

func TestPostRepository_ListByUser(t *testing.T) {
	db := newTestDB(t)
	posts := db.Posts()
	alice := createTestUser(t, db.Users(), "alice", "alice@example.com")
	bob := createTestUser(t, db.Users(), "bob", "bob@example.com")

	createTestPost(t, posts, alice.ID, "alice post")
	createTestPost(t, posts, bob.ID, "bob post")

	got, err := posts.ListByUser(context.Background(), alice.ID, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 post for alice, got %d", len(got))
	}
	if got[0].Body != "alice post" {
		t.Fatalf("expected alice's post, got %q", got[0].Body)
	}
}
