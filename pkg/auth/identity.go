// Package auth resolves who is making a request and what role they hold,
// hashes passwords, and issues password-reset tokens.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/backoffice/pkg/logger"
	"github.com/shashiranjanraj/backoffice/pkg/session"
)

// Role is the coarse permission category derived from group membership.
type Role int

const (
	RoleOther Role = iota
	RoleAdmin
	RoleCustomer
)

// Group names as stored in the groups table.
const (
	GroupAdmin    = "admin"
	GroupCustomer = "customer"
)

// RoleFromGroup maps a group name to a Role; unknown or empty is RoleOther.
func RoleFromGroup(name string) Role {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case GroupAdmin:
		return RoleAdmin
	case GroupCustomer:
		return RoleCustomer
	}
	return RoleOther
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return GroupAdmin
	case RoleCustomer:
		return GroupCustomer
	}
	return "other"
}

// Identity is the authenticated principal of one request. It is rebuilt
// from the database on every request and never stored in the session.
type Identity struct {
	UserID   uint
	Username string
	Role     Role
	// CustomerID is the linked customer profile, nil when there is none.
	CustomerID *uint
}

// ErrUnknownUser is returned by a Loader when the session names a user that
// no longer exists.
var ErrUnknownUser = errors.New("auth: unknown user")

// Loader resolves an Identity for a user id.
type Loader interface {
	LoadIdentity(ctx context.Context, userID uint) (Identity, error)
}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns the request identity; ok is false for anonymous requests.
func FromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// Middleware resolves the session's user into an Identity. Runs after
// session.Middleware and before any rbac guard.
func Middleware(loader Loader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromCtx(r)
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := sess.UserID()
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			id, err := loader.LoadIdentity(r.Context(), userID)
			switch {
			case errors.Is(err, ErrUnknownUser):
				sess.Destroy()
				next.ServeHTTP(w, r)
				return
			case err != nil:
				logger.WithCtx(r.Context()).Error("identity lookup failed", "user_id", userID, "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
