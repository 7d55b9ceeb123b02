package ctx_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/backoffice/pkg/auth"
	"github.com/shashiranjanraj/backoffice/pkg/bind"
	"github.com/shashiranjanraj/backoffice/pkg/cache"
	appctx "github.com/shashiranjanraj/backoffice/pkg/ctx"
	"github.com/shashiranjanraj/backoffice/pkg/session"
	"github.com/shashiranjanraj/backoffice/pkg/view"
)

// stubViews prints the page name and the sorted data keys it was given.
type stubViews struct{ fail bool }

func (s stubViews) Render(w io.Writer, name string, data any) error {
	if s.fail {
		return errors.New("boom")
	}
	d := data.(view.Data)
	_, err := fmt.Fprintf(w, "page=%s identity=%v flashes=%v msg=%v", name, d["Identity"] != nil, d["Flashes"], d["Message"])
	return err
}

type stubURLs map[string]string

func (u stubURLs) URL(name string, params map[string]string) (string, error) {
	p, ok := u[name]
	if !ok {
		return "", errors.New("no route")
	}
	for k, v := range params {
		p = strings.ReplaceAll(p, "{"+k+"}", v)
	}
	return p, nil
}

func newKit(fail bool) *appctx.Kit {
	return appctx.NewKit(stubViews{fail: fail}, stubURLs{"home": "/", "customer": "/customers/{id}/"})
}

func TestRenderAddsIdentity(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: 1, Role: auth.RoleAdmin}))

	newKit(false).Wrap(func(c *appctx.Context) {
		c.Render("dashboard", nil)
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "page=dashboard identity=true")
}

func TestRenderFailureIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	newKit(true).Wrap(func(c *appctx.Context) {
		c.Render("dashboard", nil)
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestParamUint(t *testing.T) {
	kit := newKit(false)
	r := chi.NewRouter()
	r.Get("/customers/{id}/", kit.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamUint("id")
		if !ok {
			c.NotFound()
			return
		}
		c.Redirect(c.URL("customer", "id", fmt.Sprint(id+1)))
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/41/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/customers/42/", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/abc/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "page=not_found")
}

func TestDenyIsSoft(t *testing.T) {
	rec := httptest.NewRecorder()
	newKit(false).Deny(rec, httptest.NewRequest(http.MethodGet, "/products/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "page=denied")
	assert.Contains(t, rec.Body.String(), "You are not authorized to view this page")
}

func TestUnknownRouteFallsBackToRoot(t *testing.T) {
	rec := httptest.NewRecorder()
	newKit(false).Wrap(func(c *appctx.Context) {
		c.RedirectRoute("missing")
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestFlashSurvivesRedirect(t *testing.T) {
	mgr := session.NewManager(cache.NewMemory(), session.DefaultOptions())
	kit := newKit(false)

	redirect := session.Middleware(mgr)(kit.Wrap(func(c *appctx.Context) {
		c.Flash(session.Success, "Account was created for alice")
		c.RedirectRoute("home")
	}))
	rec := httptest.NewRecorder()
	redirect.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register/", nil))
	require.Equal(t, http.StatusFound, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	page := session.Middleware(mgr)(kit.Wrap(func(c *appctx.Context) {
		c.Render("login", nil)
	}))
	req := httptest.NewRequest(http.MethodGet, "/login/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	page.ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), "Account was created for alice")
}

func TestPostForm(t *testing.T) {
	form := url.Values{"status": {"Pending"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(context.Background())

	newKit(false).Wrap(func(c *appctx.Context) {
		assert.True(t, c.IsPost())
		assert.Equal(t, "Pending", c.PostForm("status"))
	})(httptest.NewRecorder(), req)
}

type copiedKey struct{}

func TestWrapRemovesMultipartSpillFiles(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "big.png")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("x"), 2<<20))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	// The middleware chain hands handlers a copy of the request.
	req = req.WithContext(context.WithValue(req.Context(), copiedKey{}, true))

	var spilled int
	newKit(false).Wrap(func(c *appctx.Context) {
		require.NoError(t, bind.Parse(c.R))
		require.NotNil(t, bind.File(c.R, "image"))
		left, err := os.ReadDir(tmp)
		require.NoError(t, err)
		spilled = len(left)
	})(httptest.NewRecorder(), req)

	assert.Equal(t, 1, spilled, "a 2MB upload spills to disk while the handler runs")
	left, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, left)
}
