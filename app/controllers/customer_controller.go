package controllers

import (
	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/pkg/ctx"
	"github.com/shashiranjanraj/backoffice/pkg/view"
)

// Customer shows one customer with its orders narrowed by the filter form.
func (h *Controllers) Customer(c *ctx.Context) {
	customerID, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	d, err := h.svc.Orders.CustomerDetail(c.Context(), customerID, c.QueryValues())
	if err != nil {
		fail(c, err)
		return
	}
	products, err := h.svc.Orders.Products(c.Context())
	if err != nil {
		c.ServerError(err)
		return
	}

	c.Render("customer", view.Data{
		"Customer":   d.Customer,
		"Orders":     d.Filter.Orders,
		"OrderCount": d.OrderCount,
		"Filter":     d.Filter,
		"Products":   products,
		"Statuses":   models.Statuses,
	})
}

// DeleteCustomer asks for confirmation on GET and deletes on POST.
func (h *Controllers) DeleteCustomer(c *ctx.Context) {
	customerID, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	customer, err := h.svc.Orders.Customer(c.Context(), customerID)
	if err != nil {
		fail(c, err)
		return
	}

	if c.IsPost() {
		if err := h.svc.Orders.DeleteCustomer(c.Context(), customer.ID); err != nil {
			fail(c, err)
			return
		}
		c.RedirectRoute("home")
		return
	}

	c.Render("delete", view.Data{
		"Kind":   "customer",
		"Item":   customer.Name,
		"Cancel": c.URL("customer", "id", id(customer.ID)),
	})
}
