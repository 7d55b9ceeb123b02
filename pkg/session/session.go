// Package session provides cookie-identified server-side sessions stored in
// a cache.Store (Redis in production, memory in tests).
//
// Usage (middleware):
//
//	r.Use(session.Middleware(manager))
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Login(user.ID)
//	sess.Flash(session.Info, "Welcome back")
//	_ = sess.Save(r.Context(), w)
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/backoffice/config"
	"github.com/shashiranjanraj/backoffice/pkg/cache"
	"github.com/shashiranjanraj/backoffice/pkg/logger"
)

// ------------------- Options -------------------

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions reads TTL and the Secure flag from config.
// SameSite=Lax keeps the cookie off cross-site POSTs.
func DefaultOptions() Options {
	return Options{
		CookieName: "backoffice_session",
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     config.SessionSecure(),
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// ------------------- Manager -------------------

// Manager binds a Store to cookie options.
type Manager struct {
	store cache.Store
	opts  Options
	now   func() time.Time
}

func NewManager(store cache.Store, opts Options) *Manager {
	return &Manager{store: store, opts: opts, now: time.Now}
}

// due reports whether a signed-in record should be rewritten to push its
// expiry back. Rewrites happen at most once per TTL/4.
func (m *Manager) due(rec record) bool {
	if rec.UserID == 0 {
		return false
	}
	touched := time.Unix(rec.Touched, 0)
	return m.now().Sub(touched) >= m.opts.TTL/4
}

func storeKey(id string) string { return "backoffice:session:" + id }

// newID generates a cryptographically random 32-byte hex session ID.
func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ------------------- Session -------------------

// Flash levels, rendered as CSS classes by the templates.
const (
	Success = "success"
	Info    = "info"
	Error   = "error"
)

// Message is a one-shot notice shown on the next rendered page.
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type record struct {
	UserID  uint              `json:"user_id,omitempty"`
	Touched int64             `json:"touched,omitempty"`
	Flashes []Message         `json:"flashes,omitempty"`
	Values  map[string]string `json:"values,omitempty"`
}

type ctxKey struct{}

// Session is an in-request session handle. It is not safe for concurrent use.
type Session struct {
	id      string
	data    record
	manager *Manager
	changed bool
	// stale holds an ID whose stored record must be removed on Save.
	stale string
	// expire tells Save to clear the cookie instead of refreshing it.
	expire bool
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// UserID returns the authenticated user stored in the session.
func (s *Session) UserID() (uint, bool) {
	return s.data.UserID, s.data.UserID != 0
}

// Login binds userID to a fresh session ID so a pre-login ID can never be
// reused after authentication.
func (s *Session) Login(userID uint) error {
	if err := s.regenerate(); err != nil {
		return err
	}
	s.data.UserID = userID
	s.changed = true
	return nil
}

// Destroy drops all data and expires the cookie (logout).
func (s *Session) Destroy() {
	if s.stale == "" {
		s.stale = s.id
	}
	s.data = record{}
	s.expire = true
	s.changed = true
}

// Set stores a string value under key.
func (s *Session) Set(key, value string) {
	if s.data.Values == nil {
		s.data.Values = map[string]string{}
	}
	s.data.Values[key] = value
	s.changed = true
}

// Get retrieves a string value.
func (s *Session) Get(key string) (string, bool) {
	v, ok := s.data.Values[key]
	return v, ok
}

// Delete removes a key.
func (s *Session) Delete(key string) {
	delete(s.data.Values, key)
	s.changed = true
}

// Flash queues a message for the next rendered page.
func (s *Session) Flash(level, text string) {
	s.data.Flashes = append(s.data.Flashes, Message{Level: level, Text: text})
	s.changed = true
}

// Flashes returns and clears the queued messages.
func (s *Session) Flashes() []Message {
	out := s.data.Flashes
	if len(out) > 0 {
		s.data.Flashes = nil
		s.changed = true
	}
	return out
}

func (s *Session) regenerate() error {
	id, err := newID()
	if err != nil {
		return fmt.Errorf("session: new id: %w", err)
	}
	if s.stale == "" {
		s.stale = s.id
	}
	s.id = id
	s.changed = true
	return nil
}

func (s *Session) empty() bool {
	return s.data.UserID == 0 && len(s.data.Flashes) == 0 && len(s.data.Values) == 0
}

// Save persists the session and writes the cookie. It must run before the
// response header is written; pkg/ctx does this for every render/redirect.
// A signed-in session is rewritten periodically even when unchanged, which
// refreshes both the store TTL and the cookie Max-Age.
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}
	m := s.manager

	if s.stale != "" {
		if err := m.store.Del(ctx, storeKey(s.stale)); err != nil {
			return fmt.Errorf("session: delete stale: %w", err)
		}
		s.stale = ""
	}

	cookie := &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    s.id,
		Path:     m.opts.Path,
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: m.opts.HTTPOnly,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	}

	switch {
	case s.expire || s.empty():
		if err := m.store.Del(ctx, storeKey(s.id)); err != nil {
			return fmt.Errorf("session: delete: %w", err)
		}
		cookie.Value = ""
		cookie.MaxAge = -1
	default:
		s.data.Touched = m.now().Unix()
		if err := m.store.Set(ctx, storeKey(s.id), s.data, m.opts.TTL); err != nil {
			return fmt.Errorf("session: save: %w", err)
		}
	}

	http.SetCookie(w, cookie)
	s.changed = false
	s.expire = false
	return nil
}

// ------------------- Middleware -------------------

// Load returns the session named by the request cookie, or a fresh one.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	sess := &Session{manager: m}

	if cookie, err := r.Cookie(m.opts.CookieName); err == nil && cookie.Value != "" {
		found, err := m.store.Get(r.Context(), storeKey(cookie.Value), &sess.data)
		if err != nil {
			return nil, err
		}
		if found {
			sess.id = cookie.Value
			sess.changed = m.due(sess.data)
			return sess, nil
		}
	}

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("session: new id: %w", err)
	}
	sess.id = id
	sess.data = record{}
	return sess, nil
}

// Middleware loads (or creates) the session for every request and injects it
// into the request context. A store failure degrades to an anonymous session.
func Middleware(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := m.Load(r)
			if err != nil {
				logger.WithCtx(r.Context()).Error("session load failed", "error", err)
				id, _ := newID()
				sess = &Session{id: id, manager: m}
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromCtx retrieves the session from the request context, or nil when the
// middleware did not run.
func FromCtx(r *http.Request) *Session {
	s, _ := r.Context().Value(ctxKey{}).(*Session)
	return s
}
