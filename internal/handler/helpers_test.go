package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSafeNextTarget(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/"},
		{"/profile", "/profile"},
		{"/a/b?c=d", "/a/b?c=d"},
		{"http://evil.example/x", "/"},
		{"https://evil.example", "/"},
		{"//evil.example/x", "/"},
		{"/\\evil.example", "/"},
		{"javascript:alert(1)", "/"},
		{"relative-no-slash", "/"},
	}

	for _, tc := range tests {
		if got := safeNextTarget(tc.next); got != tc.want {
			t.Errorf("safeNextTarget(%q) = %q, want %q", tc.next, got, tc.want)
		}
	}
}

func TestFlashRoundtrip(t *testing.T) {
	// Queue a flash.
	w := httptest.NewRecorder()
	setFlash(w, "Check your email")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	// Read it back on the next request.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()

	if got := popFlash(w2, req); got != "Check your email" {
		t.Fatalf("expected flash to round-trip, got %q", got)
	}

	// popFlash clears the cookie.
	var cleared bool
	for _, c := range w2.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected flash cookie to be cleared")
	}
}

func TestPopFlash_NoCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	if got := popFlash(w, req); got != "" {
		t.Fatalf("expected empty flash, got %q", got)
	}
}

func TestPopFlash_BadEncoding(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: "%%%not-base64%%%"})
	w := httptest.NewRecorder()

	if got := popFlash(w, req); got != "" {
		t.Fatalf("expected empty flash for undecodable cookie, got %q", got)
	}
}
