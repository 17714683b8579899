package handler_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestHandleHome_PublicFeed(t *testing.T) {
	h := newTestHarness(t)

	status, body := h.get(t, "/")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	// Anonymous visitors see no composer.
	if strings.Contains(body, `action="/post"`) {
		t.Fatal("expected no composer for anonymous visitor")
	}
}

func TestHandleHome_NotFoundForUnknownPath(t *testing.T) {
	h := newTestHarness(t)

	status, _ := h.get(t, "/nonexistent")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestHandlePostCreate_AppearsInFeed(t *testing.T) {
	h := newTestHarness(t)
	h.register(t, "poster", "poster@example.com", "password123")
	h.login(t, "poster", "password123")

	resp := h.postForm(t, "/post", url.Values{"body": {"my first post"}})
	if loc := redirectTarget(t, resp); loc != "/" {
		t.Fatalf("expected redirect to /, got %s", loc)
	}

	_, body := h.get(t, "/")
	if !strings.Contains(body, "my first post") {
		t.Fatal("expected post to appear in the feed")
	}
	if !strings.Contains(body, "poster") {
		t.Fatal("expected author username in the feed")
	}
}

func TestHandlePostCreate_RequiresAuth(t *testing.T) {
	h := newTestHarness(t)

	resp := h.postForm(t, "/post", url.Values{"body": {"drive-by post"}})
	loc := redirectTarget(t, resp)
	if !strings.HasPrefix(loc, "/login") {
		t.Fatalf("expected redirect to login, got %s", loc)
	}

	_, body := h.get(t, "/")
	if strings.Contains(body, "drive-by post") {
		t.Fatal("unauthenticated post must not be persisted")
	}
}

func TestHandlePostCreate_BlankBodyRejected(t *testing.T) {
	h := newTestHarness(t)
	h.register(t, "blanker", "blanker@example.com", "password123")
	h.login(t, "blanker", "password123")

	resp := h.postForm(t, "/post", url.Values{"body": {"   "}})
	if loc := redirectTarget(t, resp); loc != "/" {
		t.Fatalf("expected redirect to /, got %s", loc)
	}

	_, body := h.get(t, "/")
	if !strings.Contains(body, "post body is required") {
		t.Fatal("expected validation flash for blank post")
	}
}
