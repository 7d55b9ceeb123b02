package controllers

import (
	"github.com/shashiranjanraj/backoffice/pkg/ctx"
	"github.com/shashiranjanraj/backoffice/pkg/view"
)

// Home is the admin dashboard.
func (h *Controllers) Home(c *ctx.Context) {
	d, err := h.svc.Orders.Dashboard(c.Context())
	if err != nil {
		c.ServerError(err)
		return
	}
	c.Render("dashboard", view.Data{
		"Orders":         d.Orders,
		"Customers":      d.Customers,
		"TotalCustomers": d.TotalCustomers,
		"TotalOrders":    d.Counts.Total,
		"Delivered":      d.Counts.Delivered,
		"Pending":        d.Counts.Pending,
		"Manage":         true,
	})
}

// UserPage lists the requesting customer's own orders.
func (h *Controllers) UserPage(c *ctx.Context) {
	who, _ := c.Identity()
	if who.CustomerID == nil {
		c.NotFound()
		return
	}

	d, err := h.svc.Orders.ForCustomer(c.Context(), *who.CustomerID)
	if err != nil {
		c.ServerError(err)
		return
	}
	c.Render("user", view.Data{
		"Orders":      d.Orders,
		"TotalOrders": d.Counts.Total,
		"Delivered":   d.Counts.Delivered,
		"Pending":     d.Counts.Pending,
	})
}
