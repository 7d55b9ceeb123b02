package app

import (
	"html/template"
	"net/http"

	"github.com/shashiranjanraj/backoffice/config"
	"github.com/shashiranjanraj/backoffice/pkg/auth"
	"github.com/shashiranjanraj/backoffice/pkg/ctx"
	"github.com/shashiranjanraj/backoffice/pkg/logger"
	"github.com/shashiranjanraj/backoffice/pkg/metrics"
	"github.com/shashiranjanraj/backoffice/pkg/middleware"
	"github.com/shashiranjanraj/backoffice/pkg/reqid"
	"github.com/shashiranjanraj/backoffice/pkg/router"
	"github.com/shashiranjanraj/backoffice/pkg/session"
	"github.com/shashiranjanraj/backoffice/pkg/storage"
	"github.com/shashiranjanraj/backoffice/pkg/view"
)

// Kernel is what route callbacks receive: the router to mount on, the kit
// that turns ctx handlers into http handlers, and the booted resources.
type Kernel struct {
	Router *router.Router
	Kit    *ctx.Kit
	Deps   Deps
}

// Handler is the complete HTTP handler.
func (k *Kernel) Handler() http.Handler { return k.Router.Handler() }

// Kernel builds the HTTP stack over d.
func (a *Application) Kernel(d Deps) (*Kernel, error) {
	r := router.New()

	var views ctx.Renderer
	if a.views != nil {
		engine, err := view.New(a.views, template.FuncMap{"url": view.URLFunc(r)})
		if err != nil {
			return nil, err
		}
		views = engine
	}
	k := &Kernel{Router: r, Kit: ctx.NewKit(views, r), Deps: d}
	r.NotFound(k.Kit.NotFound)

	// Outermost first: metrics see total latency, recovery catches
	// everything below it, and the logger needs the request id.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(config.RequestTimeout()))
	r.Use(middleware.MaxBody(config.MaxBodyBytes()))
	if d.Sessions != nil {
		r.Use(session.Middleware(session.NewManager(d.Sessions, session.DefaultOptions())))
	}
	if a.identity != nil && d.DB != nil {
		r.Use(auth.Middleware(a.identity(d.DB)))
	}

	r.HandleFunc("/metrics", metrics.Handler())
	r.HandleFunc("/healthz", k.healthz)
	if a.static != nil {
		r.Static("/static/", http.FileServer(http.FS(a.static)))
	}
	if local, ok := d.Disk.(*storage.Local); ok {
		r.Static(config.StorageURL(), local.Handler())
	}

	for _, fn := range a.routes {
		fn(k)
	}
	return k, nil
}

func (k *Kernel) healthz(w http.ResponseWriter, r *http.Request) {
	if k.Deps.DB != nil {
		sqlDB, err := k.Deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			logger.WithCtx(r.Context()).Error("healthz: database unreachable", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
