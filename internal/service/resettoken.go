package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pjansen/microblog/internal/domain"
)

// resetClaim carries the subject user ID in reset tokens. A dedicated claim
// name keeps session tokens and reset tokens from being interchangeable even
// though both are signed with HMAC-SHA256.
const resetClaim = "reset_password"

// ResetTokenCodec mints and verifies signed, time-limited password-reset
// tokens. Tokens are stateless: nothing is stored server-side and validity
// is bounded solely by the embedded expiration.
type ResetTokenCodec struct {
	users  domain.UserRepository
	secret []byte
	ttl    time.Duration
}

// NewResetTokenCodec creates a codec signing tokens with the given secret
// and limiting their validity to ttl.
func NewResetTokenCodec(users domain.UserRepository, secret string, ttl time.Duration) *ResetTokenCodec {
	return &ResetTokenCodec{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Mint produces a signed token authorizing a password reset for the user.
func (c *ResetTokenCodec) Mint(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		resetClaim: strconv.FormatInt(user.ID, 10),
		"iat":      now.Unix(),
		"exp":      now.Add(c.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

// Verify decodes the token and returns the user it authorizes a reset for.
// It returns nil for any invalid token: bad signature, malformed payload,
// elapsed expiration, or a subject that no longer resolves to a user. The
// failure reason is deliberately not exposed.
func (c *ResetTokenCodec) Verify(ctx context.Context, tokenString string) *domain.User {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	sub, ok := claims[resetClaim].(string)
	if !ok {
		return nil
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil
	}

	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil
	}
	return user
}
