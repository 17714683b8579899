package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pjansen/microblog/internal/domain"
)

// PasswordResetService orchestrates the password-reset request flow: email
// lookup, token minting, and notification dispatch.
type PasswordResetService struct {
	users   domain.UserRepository
	tokens  *ResetTokenCodec
	mailer  domain.Mailer
	baseURL string
	sender  string
}

// NewPasswordResetService creates a new PasswordResetService. baseURL is the
// externally visible origin used to build reset links; sender is the From
// address of outbound mail.
func NewPasswordResetService(users domain.UserRepository, tokens *ResetTokenCodec, mailer domain.Mailer, baseURL, sender string) *PasswordResetService {
	return &PasswordResetService{
		users:   users,
		tokens:  tokens,
		mailer:  mailer,
		baseURL: baseURL,
		sender:  sender,
	}
}

// Request looks up the address and, when it belongs to a user, mints a reset
// token and queues the notification email. The returned value is identical
// whether or not the address is registered, so callers cannot probe which
// emails exist; mail is only dispatched on a match.
func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user by email: %w", err)
	}

	token, err := s.tokens.Mint(user)
	if err != nil {
		return fmt.Errorf("mint reset token: %w", err)
	}

	s.mailer.Send(s.resetEmail(user, token))
	return nil
}

// VerifyToken resolves a reset token to the user it was minted for, or nil
// for any invalid token.
func (s *PasswordResetService) VerifyToken(ctx context.Context, token string) *domain.User {
	return s.tokens.Verify(ctx, token)
}

func (s *PasswordResetService) resetEmail(user *domain.User, token string) *domain.Email {
	link := s.baseURL + "/reset_password/" + token

	textBody := fmt.Sprintf(`Dear %s,

To reset your password click on the following link:

%s

If you have not requested a password reset simply ignore this message.

Sincerely,

The Microblog Team`, user.Username, link)

	htmlBody := fmt.Sprintf(`<p>Dear %s,</p>
<p>To reset your password <a href="%s">click here</a>.</p>
<p>Alternatively, you can paste the following link in your browser's address bar:</p>
<p>%s</p>
<p>If you have not requested a password reset simply ignore this message.</p>
<p>Sincerely,</p>
<p>The Microblog Team</p>`, user.Username, link, link)

	return &domain.Email{
		Subject:  "[Microblog] Reset Your Password",
		From:     s.sender,
		To:       []string{user.Email},
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
