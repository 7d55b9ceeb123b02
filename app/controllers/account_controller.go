package controllers

import (
	"github.com/shashiranjanraj/backoffice/app/forms"
	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/pkg/bind"
	"github.com/shashiranjanraj/backoffice/pkg/ctx"
	"github.com/shashiranjanraj/backoffice/pkg/view"
)

// AccountSettings edits the requesting customer's profile. A successful POST
// re-renders the page with the saved values.
func (h *Controllers) AccountSettings(c *ctx.Context) {
	who, _ := c.Identity()
	if who.CustomerID == nil {
		c.NotFound()
		return
	}

	customer, err := h.svc.Accounts.Profile(c.Context(), *who.CustomerID)
	if err != nil {
		fail(c, err)
		return
	}

	form := profileForm(customer)
	if c.IsPost() {
		var in forms.Customer
		errs, err := c.Bind(&in)
		if err != nil {
			c.ServerError(err)
			return
		}
		if len(errs) == 0 {
			errs, err = h.svc.Accounts.Update(c.Context(), customer, in, bind.File(c.R, "profile_pic"))
			if err != nil {
				c.ServerError(err)
				return
			}
		}
		form = submitted(c, errs, "name", "phone", "email")
	}

	c.Render("account", view.Data{
		"Form":       form,
		"Customer":   customer,
		"PictureURL": h.svc.Accounts.PictureURL(customer.ProfilePic),
	})
}

func profileForm(cu *models.Customer) Form {
	return newForm(map[string]string{
		"name":  cu.Name,
		"phone": cu.Phone,
		"email": cu.Email,
	}, nil)
}
