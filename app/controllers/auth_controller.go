package controllers

import (
	"errors"
	"strings"

	"github.com/shashiranjanraj/backoffice/app/forms"
	"github.com/shashiranjanraj/backoffice/app/services"
	"github.com/shashiranjanraj/backoffice/pkg/ctx"
	"github.com/shashiranjanraj/backoffice/pkg/logger"
	"github.com/shashiranjanraj/backoffice/pkg/session"
	"github.com/shashiranjanraj/backoffice/pkg/view"
)

// MsgBadCredentials is the only feedback a failed login gets.
const MsgBadCredentials = "Username or Password is incorrect!"

// Register GET renders the sign-up form; POST creates the user and sends
// them to the login page.
func (h *Controllers) Register(c *ctx.Context) {
	if !c.IsPost() {
		render(c, "register", newForm(nil, nil), nil)
		return
	}

	var in forms.Register
	errs, err := c.Bind(&in)
	if err != nil {
		c.ServerError(err)
		return
	}
	if len(errs) == 0 {
		if _, errs, err = h.svc.Auth.Register(c.Context(), in); err != nil {
			c.ServerError(err)
			return
		}
	}
	if len(errs) > 0 {
		render(c, "register", submitted(c, errs, "username", "email"), nil)
		return
	}

	c.Flash(session.Success, "Account has been created for "+in.Username+"! You are now able to log in.")
	c.RedirectRoute("login")
}

// Login GET renders the form; POST checks the credentials and starts a
// fresh session.
func (h *Controllers) Login(c *ctx.Context) {
	if !c.IsPost() {
		render(c, "login", newForm(nil, nil), loginData(c))
		return
	}

	var in forms.Login
	if _, err := c.Bind(&in); err != nil {
		c.ServerError(err)
		return
	}

	u, err := h.svc.Auth.Authenticate(c.Context(), in.Username, in.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		logger.WithCtx(c.Context()).Info("login failed", "username", in.Username)
		c.Flash(session.Info, MsgBadCredentials)
		render(c, "login", newForm(map[string]string{"username": in.Username}, nil), loginData(c))
		return
	}
	if err != nil {
		c.ServerError(err)
		return
	}

	sess := c.Session()
	if sess == nil {
		c.ServerError(errors.New("login: no session"))
		return
	}
	if err := sess.Login(u.ID); err != nil {
		c.ServerError(err)
		return
	}
	logger.WithCtx(c.Context()).Info("login", "user_id", u.ID)

	if next := safeNext(c.PostForm("next")); next != "" {
		c.Redirect(next)
		return
	}
	c.RedirectRoute("home")
}

// Logout always succeeds, whoever asks.
func (h *Controllers) Logout(c *ctx.Context) {
	if sess := c.Session(); sess != nil {
		sess.Destroy()
	}
	c.RedirectRoute("login")
}

// loginData carries ?next= from the login URL into the form.
func loginData(c *ctx.Context) view.Data {
	next := c.Query("next")
	if next == "" {
		next = c.PostForm("next")
	}
	return view.Data{"Next": safeNext(next)}
}

// safeNext accepts only local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return ""
	}
	return next
}
