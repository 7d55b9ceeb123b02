package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

// RouteInfo describes one registered route, for route:list.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

type Router struct {
	mux    chi.Router
	routes map[string]string
	infos  []RouteInfo
	mu     sync.RWMutex

	notFound http.HandlerFunc
}

type Group struct {
	router      *Router
	prefix      string
	middlewares []Middleware
}

func New() *Router {
	r := &Router{
		mux:    chi.NewRouter(),
		routes: make(map[string]string),
	}
	r.mux.NotFound(r.appendSlash)
	return r
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      prefix,
		middlewares: append([]Middleware(nil), middlewares...),
	}
}

func (r *Router) Get(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount([]string{http.MethodGet}, path, name, handler, middlewares...)
}

// Form registers a GET+POST route: GET renders the form, POST submits it.
func (r *Router) Form(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount([]string{http.MethodGet, http.MethodPost}, path, name, handler, middlewares...)
}

// Any registers handler for every method.
func (r *Router) Any(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount(nil, path, name, handler, middlewares...)
}

// HandleFunc mounts an unnamed GET route outside any group (ops endpoints).
func (r *Router) HandleFunc(path string, handler http.HandlerFunc) {
	r.mux.Get(path, handler)
}

// Static serves h under prefix (e.g. "/storage/"), stripping the prefix.
func (r *Router) Static(prefix string, h http.Handler) {
	prefix = "/" + strings.Trim(prefix, "/") + "/"
	r.mux.Handle(prefix+"*", http.StripPrefix(prefix, h))
}

func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.routes[name]
	return path, ok
}

// URL builds the path of a named route, substituting {param} placeholders.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}

	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", value)
	}

	if strings.Contains(path, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}

	return path, nil
}

// Routes returns every named route sorted by path then method.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	out := append([]RouteInfo(nil), r.infos...)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func (r *Router) mount(methods []string, path, name string, handler http.Handler, middlewares ...Middleware) {
	h := chain(handler, middlewares...)

	if len(methods) == 0 {
		r.mux.Handle(path, h)
	}
	for _, m := range methods {
		r.mux.Method(m, path, h)
	}

	if name == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[name] = path
	if len(methods) == 0 {
		methods = []string{"ANY"}
	}
	r.infos = append(r.infos, RouteInfo{Method: strings.Join(methods, "|"), Path: path, Name: name})
}

// appendSlash redirects "/customers/3" to "/customers/3/" when only the
// slashed form is routed; everything else is a plain 404.
func (r *Router) appendSlash(w http.ResponseWriter, req *http.Request) {
	if req.Method == http.MethodGet && !strings.HasSuffix(req.URL.Path, "/") {
		target := req.URL.Path + "/"
		if r.mux.Match(chi.NewRouteContext(), req.Method, target) {
			if req.URL.RawQuery != "" {
				target += "?" + req.URL.RawQuery
			}
			http.Redirect(w, req, target, http.StatusMovedPermanently)
			return
		}
	}

	r.mu.RLock()
	h := r.notFound
	r.mu.RUnlock()
	if h == nil {
		h = http.NotFound
	}
	h(w, req)
}

// NotFound replaces the fallback handler for unmatched paths.
func (r *Router) NotFound(h http.HandlerFunc) {
	r.mu.Lock()
	r.notFound = h
	r.mu.Unlock()
}

func (g *Group) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      g.router,
		prefix:      joinPath(g.prefix, prefix),
		middlewares: append(append([]Middleware(nil), g.middlewares...), middlewares...),
	}
}

func (g *Group) Get(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount([]string{http.MethodGet}, path, name, handler, middlewares...)
}

func (g *Group) Form(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount([]string{http.MethodGet, http.MethodPost}, path, name, handler, middlewares...)
}

func (g *Group) mount(methods []string, path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	combined := append(append([]Middleware(nil), g.middlewares...), middlewares...)
	g.router.mount(methods, joinPath(g.prefix, path), name, handler, combined...)
}

func chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

// joinPath joins segments with single slashes, keeping a trailing slash
// when the last non-empty part has one.
func joinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	trailing := false
	for _, part := range parts {
		trimmed := strings.Trim(part, "/")
		if trimmed != "" {
			segments = append(segments, trimmed)
			trailing = strings.HasSuffix(part, "/")
		}
	}

	if len(segments) == 0 {
		return "/"
	}

	path := "/" + strings.Join(segments, "/")
	if trailing {
		path += "/"
	}
	return path
}
