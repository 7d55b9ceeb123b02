// Package controllers holds one handler per page. Guards are attached in
// app/routes; a handler only runs once its role check has passed.
package controllers

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/backoffice/app/repositories"
	"github.com/shashiranjanraj/backoffice/app/services"
	"github.com/shashiranjanraj/backoffice/pkg/ctx"
	"github.com/shashiranjanraj/backoffice/pkg/view"
)

// Controllers groups the page handlers over one set of services.
type Controllers struct {
	svc *services.Services
	// baseURL prefixes links mailed to users (APP_URL).
	baseURL string
}

func New(svc *services.Services, baseURL string) *Controllers {
	return &Controllers{svc: svc, baseURL: baseURL}
}

// Form is the view model of an HTML form: submitted (or current) values
// plus per-field errors, both keyed by input name.
type Form struct {
	Values map[string]string
	Errors map[string]string
}

func newForm(values map[string]string, errs map[string]string) Form {
	if values == nil {
		values = map[string]string{}
	}
	if errs == nil {
		errs = map[string]string{}
	}
	return Form{Values: values, Errors: errs}
}

// submitted copies the posted values of names into a Form.
func submitted(c *ctx.Context, errs map[string]string, names ...string) Form {
	values := make(map[string]string, len(names))
	for _, n := range names {
		values[n] = c.PostForm(n)
	}
	return newForm(values, errs)
}

// fail renders the 404 page for ErrNotFound and the 500 page otherwise.
func fail(c *ctx.Context, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		c.NotFound()
		return
	}
	c.ServerError(err)
}

func id(n uint) string { return fmt.Sprint(n) }

// render is shorthand for pages that only need their form.
func render(c *ctx.Context, page string, f Form, extra view.Data) {
	data := view.Data{"Form": f}
	for k, v := range extra {
		data[k] = v
	}
	c.Render(page, data)
}
