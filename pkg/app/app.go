// Package app assembles the back office: configuration, database, session
// store, media disk, mailer, the HTTP kernel and the cobra CLI.
//
//	func main() {
//	    app.New("backoffice").
//	        Views(resources.Views()).
//	        Static(resources.Static()).
//	        Identity(routes.Identity).
//	        Routes(routes.Register).
//	        Seeder(seeders.RunAll).
//	        Run()
//	}
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/backoffice/config"
	"github.com/shashiranjanraj/backoffice/pkg/auth"
	"github.com/shashiranjanraj/backoffice/pkg/cache"
	"github.com/shashiranjanraj/backoffice/pkg/database"
	"github.com/shashiranjanraj/backoffice/pkg/logger"
	"github.com/shashiranjanraj/backoffice/pkg/mail"
	"github.com/shashiranjanraj/backoffice/pkg/storage"
)

// SeederFunc fills the database with its initial rows.
type SeederFunc func(ctx context.Context, db *gorm.DB, out io.Writer) error

// Deps are the external resources a running application holds.
type Deps struct {
	DB       *gorm.DB
	Sessions cache.Store
	Disk     storage.Disk
	Mailer   mail.Mailer
}

// Application is the builder passed around by main.
type Application struct {
	name     string
	views    fs.FS
	static   fs.FS
	identity func(db *gorm.DB) auth.Loader
	routes   []func(*Kernel)
	seeder   SeederFunc
	commands []func(*Application) *cobra.Command
}

func New(name string) *Application {
	return &Application{name: name}
}

// Views sets the template tree (layouts/, partials/, pages/).
func (a *Application) Views(fsys fs.FS) *Application {
	a.views = fsys
	return a
}

// Static sets the assets served under /static/.
func (a *Application) Static(fsys fs.FS) *Application {
	a.static = fsys
	return a
}

// Identity sets how a session user id is resolved to an auth.Identity.
func (a *Application) Identity(fn func(db *gorm.DB) auth.Loader) *Application {
	a.identity = fn
	return a
}

// Routes adds a route-registration callback. Callbacks run in order.
func (a *Application) Routes(fn func(*Kernel)) *Application {
	a.routes = append(a.routes, fn)
	return a
}

func (a *Application) Seeder(fn SeederFunc) *Application {
	a.seeder = fn
	return a
}

// Command adds a project-specific CLI command.
func (a *Application) Command(fn func(*Application) *cobra.Command) *Application {
	a.commands = append(a.commands, fn)
	return a
}

// Run executes the CLI and exits non-zero on failure.
func (a *Application) Run() {
	if err := a.RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// OpenDB loads the configuration and connects to the configured database.
func (a *Application) OpenDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}
	return database.DB, nil
}

// Boot opens every resource of Deps. The returned func releases them.
func (a *Application) Boot(ctx context.Context) (Deps, func(), error) {
	var d Deps
	var closers []func() error
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("shutdown: release failed", "error", err)
			}
		}
	}

	db, err := a.OpenDB()
	if err != nil {
		return d, release, err
	}
	d.DB = db
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, sqlDB.Close)
	}

	switch config.SessionDriver() {
	case "memory":
		d.Sessions = cache.NewMemory()
	case "redis":
		r, err := cache.ConnectRedis(ctx)
		if err != nil {
			release()
			return d, func() {}, err
		}
		d.Sessions = r
		closers = append(closers, r.Close)
	default:
		release()
		return d, func() {}, errors.New("unsupported SESSION_DRIVER (supported: redis, memory)")
	}

	if d.Disk, err = storage.FromConfig(ctx); err != nil {
		release()
		return d, func() {}, err
	}
	d.Mailer = mail.FromConfig()
	if _, ok := d.Mailer.(*mail.SMTP); ok {
		bg := mail.NewBackground(d.Mailer, config.Int("MAIL_WORKERS", 2))
		d.Mailer = bg
		closers = append(closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return bg.Close(ctx)
		})
	}
	return d, release, nil
}
