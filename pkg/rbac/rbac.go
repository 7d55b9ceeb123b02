// Package rbac provides the page guards of the back office. Guards run after
// auth.Middleware has resolved the request identity, in the order
// Authenticated → HasRole/AdminOnly → handler.
package rbac

import (
	"net/http"
	"net/url"

	"github.com/shashiranjanraj/backoffice/pkg/auth"
	"github.com/shashiranjanraj/backoffice/pkg/logger"
	"github.com/shashiranjanraj/backoffice/pkg/metrics"
)

// DeniedMessage is the body of the soft-denial page.
const DeniedMessage = "You are not authorized to view this page"

// DenyText is the fallback soft-denial handler: HTTP 200 with DeniedMessage.
func DenyText(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(DeniedMessage))
}

// Authenticated redirects anonymous requests to loginURL, carrying the
// requested path in ?next=.
func Authenticated(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.FromCtx(r.Context()); !ok {
				target := loginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guest redirects authenticated requests to homeURL (login, register, reset).
func Guest(homeURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.FromCtx(r.Context()); ok {
				http.Redirect(w, r, homeURL, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HasRole lets through identities whose role is in roles and hands every
// other request to deny. A nil deny uses DenyText.
func HasRole(deny http.HandlerFunc, roles ...auth.Role) func(http.Handler) http.Handler {
	allowed := make(map[auth.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	if deny == nil {
		deny = DenyText
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromCtx(r.Context())
			if !ok || !allowed[id.Role] {
				denied(r, id)
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly guards the dashboard: customers are sent to userURL, admins
// proceed, anyone else gets deny.
func AdminOnly(userURL string, deny http.HandlerFunc) func(http.Handler) http.Handler {
	if deny == nil {
		deny = DenyText
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := auth.FromCtx(r.Context())
			switch id.Role {
			case auth.RoleAdmin:
				next.ServeHTTP(w, r)
			case auth.RoleCustomer:
				http.Redirect(w, r, userURL, http.StatusFound)
			default:
				denied(r, id)
				deny(w, r)
			}
		})
	}
}

func denied(r *http.Request, id auth.Identity) {
	metrics.AccessDenied.WithLabelValues(id.Role.String()).Inc()
	logger.WithCtx(r.Context()).Warn("access denied",
		"path", r.URL.Path,
		"user_id", id.UserID,
		"role", id.Role.String(),
	)
}
