// Package view renders server-side HTML pages with html/template.
//
// Layout: a template set is built per page from
//
//	layouts/*.html   base skeleton, must define "layout"
//	partials/*.html  shared fragments
//	pages/<name>.html the page itself, defines "title" and "content"
//
// so every page can define its own "content" block without clashing.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Data is the template payload of one page.
type Data map[string]any

// Engine holds one parsed template set per page.
type Engine struct {
	pages map[string]*template.Template
}

// DefaultFuncs are available to every template. Callers may override them
// (the kernel replaces "url" with the router's reverse lookup).
func DefaultFuncs() template.FuncMap {
	return template.FuncMap{
		"url": func(name string, _ ...any) (string, error) {
			return "", fmt.Errorf("view: url(%q) called without a router", name)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			if t.Hour() < 12 {
				return t.Format("Jan 2, 2006, 3:04") + " a.m."
			}
			return t.Format("Jan 2, 2006, 3:04") + " p.m."
		},
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"add":   func(a, b int) int { return a + b },
		"lower": strings.ToLower,
	}
}

// New parses every page under fsys.
func New(fsys fs.FS, funcs template.FuncMap) (*Engine, error) {
	all := DefaultFuncs()
	for k, v := range funcs {
		all[k] = v
	}

	base := template.New("").Funcs(all)
	for _, pattern := range []string{"layouts/*.html", "partials/*.html"} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			continue
		}
		if base, err = base.ParseFS(fsys, pattern); err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", pattern, err)
		}
	}

	pages, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, err
	}

	e := &Engine{pages: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if t, err = t.ParseFS(fsys, p); err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", p, err)
		}
		e.pages[strings.TrimSuffix(path.Base(p), ".html")] = t
	}
	return e, nil
}

// Has reports whether a page called name exists.
func (e *Engine) Has(name string) bool {
	_, ok := e.pages[name]
	return ok
}

// Render executes page name into w. Output is buffered so a template error
// never leaves a half-written page.
func (e *Engine) Render(w io.Writer, name string, data any) error {
	t, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("view: page %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("view: render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// URLBuilder reverses a named route.
type URLBuilder interface {
	URL(name string, params map[string]string) (string, error)
}

// URLFunc adapts b to the template call form {{url "customer" "id" .ID}}.
func URLFunc(b URLBuilder) func(name string, kv ...any) (string, error) {
	return func(name string, kv ...any) (string, error) {
		if len(kv)%2 != 0 {
			return "", fmt.Errorf("view: url(%q) needs key/value pairs", name)
		}
		params := make(map[string]string, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			params[fmt.Sprint(kv[i])] = fmt.Sprint(kv[i+1])
		}
		return b.URL(name, params)
	}
}
