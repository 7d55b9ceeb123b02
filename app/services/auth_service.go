package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shashiranjanraj/backoffice/app/forms"
	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/app/repositories"
	"github.com/shashiranjanraj/backoffice/pkg/auth"
	"github.com/shashiranjanraj/backoffice/pkg/metrics"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// MsgUsernameTaken is shown when registering an existing username.
const MsgUsernameTaken = "A user with that username already exists."

type AuthService struct {
	users *repositories.UserRepository
	now   func() time.Time
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users, now: time.Now}
}

// Register creates a user with no group; roles are assigned out of band.
// Returns field errors when the form is not acceptable.
func (s *AuthService) Register(ctx context.Context, in forms.Register) (*models.User, map[string]string, error) {
	taken, err := s.users.UsernameTaken(ctx, in.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("register: %w", err)
	}
	if taken {
		return nil, map[string]string{"username": MsgUsernameTaken}, nil
	}

	hash, err := auth.HashPassword(in.Password1)
	if err != nil {
		return nil, nil, fmt.Errorf("register: hash: %w", err)
	}

	u := &models.User{Username: in.Username, Email: in.Email, Password: hash}
	err = s.users.Create(ctx, u)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, map[string]string{"username": MsgUsernameTaken}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("register: %w", err)
	}
	return u, nil, nil
}

// Authenticate checks a username/password pair. Unknown users cost the same
// bcrypt work as wrong passwords.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.ByUsername(ctx, username)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		auth.BurnCompare(password)
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !auth.CheckPassword(u.Password, password) {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, u.ID, now); err != nil {
		return nil, fmt.Errorf("authenticate: last login: %w", err)
	}
	u.LastLogin = &now
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return u, nil
}

// CreateUser is the CLI path for user:create; group may be empty.
func (s *AuthService) CreateUser(ctx context.Context, username, email, password, group string) (*models.User, error) {
	u, errs, err := s.Register(ctx, forms.Register{Username: username, Email: email, Password1: password, Password2: password})
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		fields := make([]string, 0, len(errs))
		for f, msg := range errs {
			fields = append(fields, f+": "+msg)
		}
		sort.Strings(fields)
		return nil, fmt.Errorf("create user: %s", strings.Join(fields, "; "))
	}
	if group != "" {
		if err := s.users.SetGroup(ctx, u.ID, group); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	}
	return u, nil
}

// AssignRole moves username into group (admin or customer).
func (s *AuthService) AssignRole(ctx context.Context, username, group string) error {
	if auth.RoleFromGroup(group) == auth.RoleOther {
		return fmt.Errorf("unknown role %q (want %s or %s)", group, auth.GroupAdmin, auth.GroupCustomer)
	}
	u, err := s.users.ByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return s.users.SetGroup(ctx, u.ID, auth.RoleFromGroup(group).String())
}
