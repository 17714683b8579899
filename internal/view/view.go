// Package view renders the application's HTML pages as templ components.
package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/pjansen/microblog/internal/domain"
)

// page wraps body in the shared layout: navbar, flash banner, footer.
// username is empty for anonymous visitors.
func page(title, username, flash string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s - Microblog</title>
</head>
<body>
<nav>
<a href="/">Microblog</a>
`, templ.EscapeString(title)); err != nil {
			return err
		}

		if username != "" {
			if _, err := fmt.Fprintf(w, `<span>Hi, %s!</span>
<a href="/logout">Logout</a>
`, templ.EscapeString(username)); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<a href="/login">Login</a>
<a href="/register">Register</a>
`); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "</nav>\n"); err != nil {
			return err
		}

		if flash != "" {
			if _, err := fmt.Fprintf(w, `<div class="flash">%s</div>
`, templ.EscapeString(flash)); err != nil {
				return err
			}
		}

		if err := body(w); err != nil {
			return err
		}

		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

// HomePage renders the post feed. The composer form is shown only when a
// user is logged in.
func HomePage(user *domain.User, posts []domain.Post, flash string) templ.Component {
	username := ""
	if user != nil {
		username = user.Username
	}
	return page("Home", username, flash, func(w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>Home</h1>\n"); err != nil {
			return err
		}

		if user != nil {
			if _, err := fmt.Fprintf(w, `<form action="/post" method="post">
<textarea name="body" rows="3" maxlength="%d" placeholder="Say something"></textarea>
<button type="submit">Post</button>
</form>
`, domain.MaxPostLength); err != nil {
				return err
			}
		}

		for _, p := range posts {
			if _, err := fmt.Fprintf(w, `<article>
<strong>%s</strong> <time datetime="%s">%s</time>
<p>%s</p>
</article>
`,
				templ.EscapeString(p.Author),
				p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
				p.CreatedAt.UTC().Format("Jan 2, 2006 15:04"),
				templ.EscapeString(p.Body)); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoginPage renders the sign-in form. next is carried through as a hidden
// field so the post-login redirect can be validated server-side.
func LoginPage(next, flash string) templ.Component {
	return page("Sign In", "", flash, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1>Sign In</h1>
<form action="/login" method="post">
<input type="hidden" name="next" value="%s">
<label>Username <input type="text" name="username" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign In</button>
</form>
<p>New user? <a href="/register">Click to register!</a></p>
<p>Forgot your password? <a href="/reset_password_request">Click to reset it</a></p>
`, templ.EscapeString(next))
		return err
	})
}

// RegisterPage renders the registration form.
func RegisterPage(flash string) templ.Component {
	return page("Register", "", flash, func(w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Register</h1>
<form action="/register" method="post">
<label>Username <input type="text" name="username" required></label>
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<label>Repeat password <input type="password" name="password2" required></label>
<button type="submit">Register</button>
</form>
`)
		return err
	})
}

// ResetRequestPage renders the form asking for the account email.
func ResetRequestPage(flash string) templ.Component {
	return page("Reset Password", "", flash, func(w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Reset Password</h1>
<form action="/reset_password_request" method="post">
<label>Email <input type="email" name="email" required></label>
<button type="submit">Request Password Reset</button>
</form>
`)
		return err
	})
}

// ResetPasswordPage renders the new-password form for a verified token.
func ResetPasswordPage(token, flash string) templ.Component {
	return page("Reset Your Password", "", flash, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1>Reset Your Password</h1>
<form action="/reset_password/%s" method="post">
<label>New password <input type="password" name="password" required></label>
<label>Repeat password <input type="password" name="password2" required></label>
<button type="submit">Reset Password</button>
</form>
`, templ.EscapeString(token))
		return err
	})
}
