package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/app/repositories"
	"github.com/shashiranjanraj/backoffice/pkg/auth"
	"github.com/shashiranjanraj/backoffice/pkg/logger"
	"github.com/shashiranjanraj/backoffice/pkg/mail"
)

// ResetLinkFunc builds the absolute reset URL for a uid/token pair.
type ResetLinkFunc func(uidb64, token string) string

// PasswordResetService runs the request → sent → confirm → complete flow.
type PasswordResetService struct {
	users  *repositories.UserRepository
	tokens *auth.ResetTokens
	mailer mail.Mailer
}

func NewPasswordResetService(users *repositories.UserRepository, tokens *auth.ResetTokens, mailer mail.Mailer) *PasswordResetService {
	return &PasswordResetService{users: users, tokens: tokens, mailer: mailer}
}

func subject(u models.User) auth.ResetSubject {
	return auth.ResetSubject{UserID: u.ID, PasswordHash: u.Password, LastLogin: u.LastLogin}
}

// Request mails a reset link to every user registered with email. Unknown
// addresses succeed silently so the response never reveals who exists.
func (s *PasswordResetService) Request(ctx context.Context, email string, link ResetLinkFunc) error {
	users, err := s.users.ByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return fmt.Errorf("password reset: %w", err)
	}

	for _, u := range users {
		token, err := s.tokens.Make(subject(u))
		if err != nil {
			return err
		}
		msg := mail.Message{
			To:      []string{u.Email},
			Subject: "Password reset",
			Text: "You're receiving this email because you requested a password reset for your user account.\n\n" +
				"Please go to the following page and choose a new password:\n\n" +
				link(auth.EncodeUID(u.ID), token) + "\n\n" +
				"Your username, in case you've forgotten: " + u.Username + "\n",
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			// Keep the response identical to the success path.
			logger.WithCtx(ctx).Error("password reset mail failed", "user_id", u.ID, "error", err)
		}
	}
	return nil
}

// Check resolves the user behind a reset link, or auth.ErrInvalidResetToken.
func (s *PasswordResetService) Check(ctx context.Context, uidb64, token string) (*models.User, error) {
	id, err := auth.DecodeUID(uidb64)
	if err != nil {
		return nil, err
	}
	u, err := s.users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, auth.ErrInvalidResetToken
		}
		return nil, err
	}
	if err := s.tokens.Check(subject(*u), token); err != nil {
		return nil, err
	}
	return u, nil
}

// Complete sets a new password; the link stops working afterwards because
// the password hash is part of the token fingerprint.
func (s *PasswordResetService) Complete(ctx context.Context, uidb64, token, password string) error {
	u, err := s.Check(ctx, uidb64, token)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("password reset: hash: %w", err)
	}
	return s.users.SetPassword(ctx, u.ID, hash)
}
