package handler

import (
	"net/http"

	"github.com/pjansen/microblog/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, reset *service.PasswordResetService, posts *service.PostService, cookieSecure bool) {
	// One bucket shared by the credential endpoints: 5 quick attempts per
	// client, refilling one every 5 seconds.
	limiter := service.NewTokenBucket(0.2, 5)

	ah := NewAuthHandler(auth, reset, limiter, cookieSecure)
	hh := NewHomeHandler(posts)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.Handle("GET /{$}", OptionalAuth(auth, http.HandlerFunc(hh.HandleHome)))
	mux.Handle("POST /post", RequireAuth(auth, http.HandlerFunc(hh.HandlePostCreate)))

	mux.Handle("GET /login", OptionalAuth(auth, http.HandlerFunc(ah.HandleLoginPage)))
	mux.Handle("POST /login", OptionalAuth(auth, http.HandlerFunc(ah.HandleLogin)))
	mux.HandleFunc("GET /logout", ah.HandleLogout)

	mux.Handle("GET /register", OptionalAuth(auth, http.HandlerFunc(ah.HandleRegisterPage)))
	mux.Handle("POST /register", OptionalAuth(auth, http.HandlerFunc(ah.HandleRegister)))

	mux.Handle("GET /reset_password_request", OptionalAuth(auth, http.HandlerFunc(ah.HandleResetRequestPage)))
	mux.Handle("POST /reset_password_request", OptionalAuth(auth, http.HandlerFunc(ah.HandleResetRequest)))

	mux.Handle("GET /reset_password/{token}", OptionalAuth(auth, http.HandlerFunc(ah.HandleResetPasswordPage)))
	mux.Handle("POST /reset_password/{token}", OptionalAuth(auth, http.HandlerFunc(ah.HandleResetPassword)))
}
