package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pjansen/microblog/internal/domain"
	"github.com/pjansen/microblog/internal/handler"
	"github.com/pjansen/microblog/internal/repository/sqlite"
	"github.com/pjansen/microblog/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests"

// recordingMailer captures mail handed to Send so tests can assert on
// dispatch without a mail server.
type recordingMailer struct {
	mu   sync.Mutex
	sent []*domain.Email
}

func (m *recordingMailer) Send(email *domain.Email) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type testHarness struct {
	db     *sqlite.DB
	auth   *service.AuthService
	reset  *service.PasswordResetService
	codec  *service.ResetTokenCodec
	mailer *recordingMailer
	srv    *httptest.Server
	client *http.Client
}

// newTestHarness builds the full handler stack on a temp database. The test
// client carries cookies but does not follow redirects, so Location headers
// and flash behavior can be asserted directly.
func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mailer := &recordingMailer{}
	codec := service.NewResetTokenCodec(db.Users(), testJWTSecret, 10*time.Minute)
	// Use cost 4 for fast tests.
	auth := service.NewAuthService(db.Users(), testJWTSecret, 4)
	reset := service.NewPasswordResetService(db.Users(), codec, mailer, "http://localhost:8080", "no-reply@microblog.local")
	posts := service.NewPostService(db.Posts())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, reset, posts, false)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // don't follow redirects automatically
		},
	}

	return &testHarness{
		db:     db,
		auth:   auth,
		reset:  reset,
		codec:  codec,
		mailer: mailer,
		srv:    srv,
		client: client,
	}
}

func (h *testHarness) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := h.client.PostForm(h.srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	resp.Body.Close()
	return resp
}

func (h *testHarness) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := h.client.Get(h.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body of %s: %v", path, err)
	}
	return resp.StatusCode, string(body)
}

func (h *testHarness) register(t *testing.T, username, email, password string) {
	t.Helper()
	resp := h.postForm(t, "/register", url.Values{
		"username":  {username},
		"email":     {email},
		"password":  {password},
		"password2": {password},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("register %s: expected 303, got %d", username, resp.StatusCode)
	}
}

func (h *testHarness) login(t *testing.T, username, password string) {
	t.Helper()
	resp := h.postForm(t, "/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login %s: expected 303, got %d", username, resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("login %s: expected redirect to /, got %s", username, loc)
	}
}

func redirectTarget(t *testing.T, resp *http.Response) string {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d", resp.StatusCode)
	}
	return resp.Header.Get("Location")
}
