package controllers

import (
	"errors"

	"github.com/shashiranjanraj/backoffice/app/forms"
	"github.com/shashiranjanraj/backoffice/pkg/auth"
	"github.com/shashiranjanraj/backoffice/pkg/ctx"
)

// PasswordReset asks for an email address and mails reset links. The
// outcome is the same whether or not the address is registered.
func (h *Controllers) PasswordReset(c *ctx.Context) {
	if !c.IsPost() {
		render(c, "reset_password", newForm(nil, nil), nil)
		return
	}

	var in forms.PasswordReset
	errs, err := c.Bind(&in)
	if err != nil {
		c.ServerError(err)
		return
	}
	if len(errs) > 0 {
		render(c, "reset_password", submitted(c, errs, "email"), nil)
		return
	}

	link := func(uidb64, token string) string {
		return h.baseURL + c.URL("password_reset_confirm", "uidb64", uidb64, "token", token)
	}
	if err := h.svc.Reset.Request(c.Context(), in.Email, link); err != nil {
		c.ServerError(err)
		return
	}
	c.RedirectRoute("password_reset_done")
}

// ResetSent confirms that a link was mailed.
func (h *Controllers) ResetSent(c *ctx.Context) {
	c.Render("reset_password_sent", nil)
}

// ResetConfirm lets the holder of a valid link choose a new password. An
// invalid or used link renders the same page without the form.
func (h *Controllers) ResetConfirm(c *ctx.Context) {
	uidb64, token := c.Param("uidb64"), c.Param("token")

	if _, err := h.svc.Reset.Check(c.Context(), uidb64, token); err != nil {
		if errors.Is(err, auth.ErrInvalidResetToken) {
			render(c, "reset_password_confirm", newForm(nil, nil), map[string]any{"Valid": false})
			return
		}
		c.ServerError(err)
		return
	}

	form := newForm(nil, nil)
	if c.IsPost() {
		var in forms.SetPassword
		errs, err := c.Bind(&in)
		if err != nil {
			c.ServerError(err)
			return
		}
		if len(errs) == 0 {
			err := h.svc.Reset.Complete(c.Context(), uidb64, token, in.NewPassword1)
			switch {
			case err == nil:
				c.RedirectRoute("password_reset_complete")
				return
			case errors.Is(err, auth.ErrInvalidResetToken):
				render(c, "reset_password_confirm", form, map[string]any{"Valid": false})
				return
			default:
				c.ServerError(err)
				return
			}
		}
		form = newForm(nil, errs)
	}

	render(c, "reset_password_confirm", form, map[string]any{"Valid": true})
}

// ResetComplete tells the user the password was changed.
func (h *Controllers) ResetComplete(c *ctx.Context) {
	c.Render("reset_password_complete", nil)
}
