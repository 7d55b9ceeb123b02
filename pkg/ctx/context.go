// Package ctx provides the request context handed to page handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context that knows the request identity, the session
// and how to render pages:
//
//	func (h *Customers) Show(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    if !ok {
//	        c.NotFound()
//	        return
//	    }
//	    c.Render("customer", view.Data{"Customer": customer})
//	}
//
//	router.Get("/customers/{id}/", "customer", kit.Wrap(h.Show))
package ctx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/backoffice/pkg/auth"
	"github.com/shashiranjanraj/backoffice/pkg/bind"
	"github.com/shashiranjanraj/backoffice/pkg/logger"
	"github.com/shashiranjanraj/backoffice/pkg/rbac"
	"github.com/shashiranjanraj/backoffice/pkg/session"
	"github.com/shashiranjanraj/backoffice/pkg/view"
)

// Page names rendered by the error helpers.
const (
	PageNotFound = "not_found"
	PageDenied   = "denied"
	PageError    = "error"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Renderer renders a named page.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// Kit binds handlers to the page renderer and the route reverser.
type Kit struct {
	views Renderer
	urls  view.URLBuilder
}

func NewKit(views Renderer, urls view.URLBuilder) *Kit {
	return &Kit{views: views, urls: urls}
}

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func (k *Kit) Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := &Context{W: w, R: r, kit: k}
		// Middleware hands the handler a copy of the request, so net/http
		// never sees the parsed form and cannot remove its temp files.
		defer func() {
			if c.R.MultipartForm != nil {
				if err := c.R.MultipartForm.RemoveAll(); err != nil {
					logger.WithCtx(c.R.Context()).Warn("multipart temp files not removed", "error", err)
				}
			}
		}()
		h(c)
	}
}

// Deny is the soft-denial page as a plain handler, for rbac guards.
func (k *Kit) Deny(w http.ResponseWriter, r *http.Request) {
	(&Context{W: w, R: r, kit: k}).Deny()
}

// NotFound is the 404 page as a plain handler, for the router fallback.
func (k *Kit) NotFound(w http.ResponseWriter, r *http.Request) {
	(&Context{W: w, R: r, kit: k}).NotFound()
}

// Context wraps a request/response pair.
type Context struct {
	W   http.ResponseWriter
	R   *http.Request
	kit *Kit
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/customers/{id}/" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a positive integer path parameter.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// QueryValues returns the parsed query string.
func (c *Context) QueryValues() url.Values { return c.R.URL.Query() }

// PostForm returns a submitted form field.
func (c *Context) PostForm(key string) string {
	if err := bind.Parse(c.R); err != nil {
		return ""
	}
	return c.R.PostForm.Get(key)
}

// IsPost reports whether the request submits a form.
func (c *Context) IsPost() bool { return c.R.Method == http.MethodPost }

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Identity returns the resolved identity; guards guarantee it on gated pages.
func (c *Context) Identity() (auth.Identity, bool) {
	return auth.FromCtx(c.R.Context())
}

// Session returns the request session, or nil outside session.Middleware.
func (c *Context) Session() *session.Session { return session.FromCtx(c.R) }

// Flash queues a message for the next rendered page.
func (c *Context) Flash(level, text string) {
	if s := c.Session(); s != nil {
		s.Flash(level, text)
	}
}

// Bind decodes and validates the submitted form into dest.
// Returns (errs, nil) on validation failure, (nil, err) on a broken body.
func (c *Context) Bind(dest any) (map[string]string, error) {
	return bind.Form(c.R, dest)
}

// URL reverses a named route with key/value parameters.
func (c *Context) URL(name string, kv ...string) string {
	params := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params[kv[i]] = kv[i+1]
	}
	u, err := c.kit.urls.URL(name, params)
	if err != nil {
		logger.WithCtx(c.Context()).Error("reverse route failed", "route", name, "error", err)
		return "/"
	}
	return u
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// Render writes page name with HTTP 200.
func (c *Context) Render(name string, data view.Data) {
	c.RenderStatus(http.StatusOK, name, data)
}

// RenderStatus renders page name with the given status. The identity, the
// flash messages and the current path are added to data.
func (c *Context) RenderStatus(code int, name string, data view.Data) {
	if data == nil {
		data = view.Data{}
	}
	if id, ok := c.Identity(); ok {
		data["Identity"] = id
	}
	if s := c.Session(); s != nil {
		data["Flashes"] = s.Flashes()
	}
	data["Path"] = c.R.URL.Path

	var buf bytes.Buffer
	if err := c.kit.views.Render(&buf, name, data); err != nil {
		c.fail(err)
		return
	}

	c.saveSession()
	c.W.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.W.WriteHeader(code)
	_, _ = buf.WriteTo(c.W)
}

// Redirect answers with 302 Found.
func (c *Context) Redirect(target string) {
	c.saveSession()
	http.Redirect(c.W, c.R, target, http.StatusFound)
}

// RedirectRoute redirects to a named route.
func (c *Context) RedirectRoute(name string, kv ...string) {
	c.Redirect(c.URL(name, kv...))
}

// NotFound renders the 404 page.
func (c *Context) NotFound() {
	c.RenderStatus(http.StatusNotFound, PageNotFound, view.Data{})
}

// Deny renders the soft-denial page: HTTP 200 with a "not authorized" message.
func (c *Context) Deny() {
	c.RenderStatus(http.StatusOK, PageDenied, view.Data{"Message": rbac.DeniedMessage})
}

// ServerError logs err and renders the 500 page. Body-size errors get 413.
func (c *Context) ServerError(err error) {
	if errors.Is(err, bind.ErrTooLarge) {
		c.saveSession()
		http.Error(c.W, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
		return
	}
	logger.WithCtx(c.Context()).Error("request failed", "path", c.R.URL.Path, "error", err)
	c.RenderStatus(http.StatusInternalServerError, PageError, view.Data{})
}

// fail is the last resort when the error page itself cannot render.
func (c *Context) fail(err error) {
	logger.WithCtx(c.Context()).Error("render failed", "path", c.R.URL.Path, "error", err)
	http.Error(c.W, "Internal Server Error", http.StatusInternalServerError)
}

func (c *Context) saveSession() {
	s := c.Session()
	if s == nil {
		return
	}
	if err := s.Save(c.Context(), c.W); err != nil {
		logger.WithCtx(c.Context()).Error("session save failed", "error", err)
	}
}
