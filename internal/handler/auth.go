package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/pjansen/microblog/internal/domain"
	"github.com/pjansen/microblog/internal/service"
	"github.com/pjansen/microblog/internal/view"
)

// AuthHandler handles the login, logout, registration, and password-reset
// HTTP flows. All pages are server-rendered; successful form posts answer
// with a 303 redirect.
type AuthHandler struct {
	auth         *service.AuthService
	reset        *service.PasswordResetService
	limiter      *service.TokenBucket
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, reset *service.PasswordResetService, limiter *service.TokenBucket, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		reset:        reset,
		limiter:      limiter,
		cookieSecure: cookieSecure,
	}
}

// HandleLoginPage renders the login form.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	view.LoginPage(r.URL.Query().Get("next"), popFlash(w, r)).Render(r.Context(), w)
}

// HandleLogin processes a login form submission.
// POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if !h.limiter.Allow(clientIP(r)) {
		setFlash(w, "Too many attempts. Please try again later.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	token, err := h.auth.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			// Identical message for unknown username and wrong password.
			setFlash(w, "Invalid username or password")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("login user", "error", err)
		http.Error(w, "An unexpected error occurred. Please try again.", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, token, 86400)
	http.Redirect(w, r, safeNextTarget(r.FormValue("next")), http.StatusSeeOther)
}

// HandleLogout tears down the session.
// GET /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.setSessionCookie(w, "", -1)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleRegisterPage renders the registration form.
// GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	view.RegisterPage(popFlash(w, r)).Render(r.Context(), w)
}

// HandleRegister processes a registration form submission.
// POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	_, err := h.auth.Register(r.Context(),
		r.FormValue("username"), r.FormValue("email"),
		r.FormValue("password"), r.FormValue("password2"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			setFlash(w, "Please use a different username.")
		case errors.Is(err, domain.ErrDuplicateEmail):
			setFlash(w, "Please use a different email address.")
		case errors.Is(err, domain.ErrInvalidInput):
			setFlash(w, validationMessage(err))
		default:
			slog.Error("register user", "error", err)
			http.Error(w, "An unexpected error occurred. Please try again.", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	setFlash(w, "Congratulations, you are now a registered user!")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleResetRequestPage renders the reset-request form.
// GET /reset_password_request
func (h *AuthHandler) HandleResetRequestPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	view.ResetRequestPage(popFlash(w, r)).Render(r.Context(), w)
}

// HandleResetRequest processes a reset-request form submission. The flash
// message is identical whether or not the email is registered; mail is only
// dispatched on a match.
// POST /reset_password_request
func (h *AuthHandler) HandleResetRequest(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if !h.limiter.Allow(clientIP(r)) {
		setFlash(w, "Too many attempts. Please try again later.")
		http.Redirect(w, r, "/reset_password_request", http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		setFlash(w, "Email is required.")
		http.Redirect(w, r, "/reset_password_request", http.StatusSeeOther)
		return
	}

	if err := h.reset.Request(r.Context(), email); err != nil {
		slog.Error("request password reset", "error", err)
		http.Error(w, "An unexpected error occurred. Please try again.", http.StatusInternalServerError)
		return
	}

	setFlash(w, "Check your email for the instructions to reset your password")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleResetPasswordPage verifies the token and renders the new-password
// form. Invalid or expired tokens redirect home without explanation.
// GET /reset_password/{token}
func (h *AuthHandler) HandleResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	token := r.PathValue("token")
	if h.reset.VerifyToken(r.Context(), token) == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	view.ResetPasswordPage(token, popFlash(w, r)).Render(r.Context(), w)
}

// HandleResetPassword verifies the token and updates the password.
// POST /reset_password/{token}
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	token := r.PathValue("token")
	user := h.reset.VerifyToken(r.Context(), token)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	err := h.auth.SetPassword(r.Context(), user.ID, r.FormValue("password"), r.FormValue("password2"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			setFlash(w, validationMessage(err))
			http.Redirect(w, r, "/reset_password/"+url.PathEscape(token), http.StatusSeeOther)
			return
		}
		slog.Error("reset password", "error", err)
		http.Error(w, "An unexpected error occurred. Please try again.", http.StatusInternalServerError)
		return
	}

	setFlash(w, "Your password has been reset.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// safeNextTarget validates a post-login redirect target. Only same-origin
// relative paths are honored; anything absolute, external, or malformed
// falls back to the home page.
func safeNextTarget(next string) string {
	if next == "" {
		return "/"
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return next
}

// validationMessage strips the sentinel prefix from a validation error so
// only the user-facing part is shown.
func validationMessage(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, domain.ErrInvalidInput.Error()+": "); ok {
		return rest
	}
	return msg
}

// clientIP extracts the remote host from the request, used as the rate-limit
// key.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
