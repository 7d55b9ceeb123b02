package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/backoffice/pkg/cache"
)

func testManager() (*Manager, *cache.Memory) {
	store := cache.NewMemory()
	return NewManager(store, Options{
		CookieName: "sid",
		TTL:        time.Hour,
		HTTPOnly:   true,
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}), store
}

func cookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestLoginPersistsAcrossRequests(t *testing.T) {
	m, _ := testManager()

	req := httptest.NewRequest(http.MethodPost, "/login/", nil)
	sess, err := m.Load(req)
	require.NoError(t, err)
	before := sess.ID()

	require.NoError(t, sess.Login(42))
	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(req.Context(), rec))

	c := cookieFrom(t, rec)
	assert.NotEqual(t, before, c.Value, "login must rotate the session id")
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(c)
	loaded, err := m.Load(next)
	require.NoError(t, err)
	uid, ok := loaded.UserID()
	assert.True(t, ok)
	assert.Equal(t, uint(42), uid)
}

func TestLoginDropsPreviousRecord(t *testing.T) {
	m, store := testManager()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := m.Load(req)
	require.NoError(t, err)
	sess.Set("k", "v")
	require.NoError(t, sess.Save(req.Context(), httptest.NewRecorder()))
	old := sess.ID()

	require.NoError(t, sess.Login(1))
	require.NoError(t, sess.Save(req.Context(), httptest.NewRecorder()))

	var rec record
	found, err := store.Get(req.Context(), storeKey(old), &rec)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDestroyExpiresCookie(t *testing.T) {
	m, _ := testManager()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, _ := m.Load(req)
	require.NoError(t, sess.Login(3))
	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(req.Context(), rec))
	c := cookieFrom(t, rec)

	req2 := httptest.NewRequest(http.MethodGet, "/logout/", nil)
	req2.AddCookie(c)
	sess2, err := m.Load(req2)
	require.NoError(t, err)
	sess2.Destroy()
	rec2 := httptest.NewRecorder()
	require.NoError(t, sess2.Save(req2.Context(), rec2))
	assert.Equal(t, -1, cookieFrom(t, rec2).MaxAge)

	req3 := httptest.NewRequest(http.MethodGet, "/", nil)
	req3.AddCookie(c)
	sess3, err := m.Load(req3)
	require.NoError(t, err)
	_, ok := sess3.UserID()
	assert.False(t, ok, "old cookie must not resolve after logout")
}

func TestFlashesAreOneShot(t *testing.T) {
	m, _ := testManager()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, _ := m.Load(req)

	sess.Flash(Success, "saved")
	assert.Equal(t, []Message{{Level: Success, Text: "saved"}}, sess.Flashes())
	assert.Empty(t, sess.Flashes())
}

func TestUnchangedAnonymousSessionSetsNoCookie(t *testing.T) {
	m, _ := testManager()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, _ := m.Load(req)

	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(req.Context(), rec))
	assert.Empty(t, rec.Result().Cookies())
}

func TestMiddlewareInjectsSession(t *testing.T) {
	m, _ := testManager()
	var got *Session
	h := Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromCtx(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, got)
	assert.NotEmpty(t, got.ID())
}

type countingStore struct {
	*cache.Memory
	sets int
}

func (c *countingStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.sets++
	return c.Memory.Set(ctx, key, value, ttl)
}

func TestActivityExtendsSignedInSession(t *testing.T) {
	store := &countingStore{Memory: cache.NewMemory()}
	m := NewManager(store, Options{CookieName: "sid", TTL: time.Hour, Path: "/"})
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	req := httptest.NewRequest(http.MethodPost, "/login/", nil)
	sess, err := m.Load(req)
	require.NoError(t, err)
	require.NoError(t, sess.Login(7))
	require.NoError(t, sess.Save(req.Context(), httptest.NewRecorder()))
	c := &http.Cookie{Name: "sid", Value: sess.ID()}
	require.Equal(t, 1, store.sets)

	visit := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(c)
		s, err := m.Load(r)
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		require.NoError(t, s.Save(r.Context(), rec))
		return rec
	}

	now = now.Add(5 * time.Minute)
	rec := visit()
	assert.Empty(t, rec.Result().Cookies(), "recently written session is left alone")
	assert.Equal(t, 1, store.sets)

	now = now.Add(40 * time.Minute)
	rec = visit()
	assert.Equal(t, 2, store.sets, "store TTL is refreshed")
	assert.Equal(t, 3600, cookieFrom(t, rec).MaxAge)

	var stored record
	found, err := store.Get(context.Background(), storeKey(c.Value), &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, now.Unix(), stored.Touched)
}

func TestAnonymousSessionIsNotRefreshed(t *testing.T) {
	m, _ := testManager()
	assert.False(t, m.due(record{Flashes: []Message{{Level: Info, Text: "hi"}}}))
	assert.True(t, m.due(record{UserID: 1}), "never-stamped signed-in record")
}
