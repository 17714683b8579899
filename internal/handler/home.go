package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pjansen/microblog/internal/domain"
	"github.com/pjansen/microblog/internal/service"
	"github.com/pjansen/microblog/internal/view"
)

// HomeHandler serves the post feed and accepts new posts.
type HomeHandler struct {
	posts *service.PostService
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(posts *service.PostService) *HomeHandler {
	return &HomeHandler{posts: posts}
}

// HandleHome renders the home page with the recent post feed. The feed is
// public; the composer is shown only to authenticated users.
// GET /
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	feed, err := h.posts.Feed(r.Context())
	if err != nil {
		slog.Error("load feed", "error", err)
		http.Error(w, "An unexpected error occurred. Please try again.", http.StatusInternalServerError)
		return
	}

	view.HomePage(UserFromContext(r.Context()), feed, popFlash(w, r)).Render(r.Context(), w)
}

// HandlePostCreate accepts a new post from the composer form.
// POST /post
func (h *HomeHandler) HandlePostCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if _, err := h.posts.Create(r.Context(), user, r.FormValue("body")); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			setFlash(w, validationMessage(err))
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		slog.Error("create post", "error", err)
		http.Error(w, "An unexpected error occurred. Please try again.", http.StatusInternalServerError)
		return
	}

	setFlash(w, "Your post is now live!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
