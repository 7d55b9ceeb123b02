package controllers

import (
	"github.com/shashiranjanraj/backoffice/app/forms"
	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/pkg/bind"
	"github.com/shashiranjanraj/backoffice/pkg/ctx"
	"github.com/shashiranjanraj/backoffice/pkg/view"
)

// CreateOrder presents forms.OrderRows blank rows for one customer and stores
// the filled ones in one transaction.
func (h *Controllers) CreateOrder(c *ctx.Context) {
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

	rows := make([]forms.OrderRow, forms.OrderRows)
	if c.IsPost() {
		if err := bind.Parse(c.R); err != nil {
			c.ServerError(err)
			return
		}
		rows = forms.ParseOrderRows(c.R.PostForm)
		_, saved, err := h.svc.Orders.CreateBatch(c.Context(), customer.ID, rows)
		if err != nil {
			c.ServerError(err)
			return
		}
		if saved {
			c.RedirectRoute("home")
			return
		}
	}

	products, err := h.svc.Orders.Products(c.Context())
	if err != nil {
		c.ServerError(err)
		return
	}
	c.Render("order_form", view.Data{
		"Customer": customer,
		"Rows":     orderRows(rows),
		"Products": products,
		"Statuses": models.Statuses,
	})
}

// orderRowView is one batch row as the template sees it.
type orderRowView struct {
	Prefix  string
	Product uint
	Status  string
	Note    string
	Errors  map[string]string
}

func orderRows(rows []forms.OrderRow) []orderRowView {
	out := make([]orderRowView, len(rows))
	for i, r := range rows {
		v := orderRowView{Prefix: forms.RowPrefix(i), Status: r.Status, Note: r.Note, Errors: r.Errors}
		if r.Product != nil {
			v.Product = *r.Product
		}
		out[i] = v
	}
	return out
}

// UpdateOrder edits the product, status and note of one order.
func (h *Controllers) UpdateOrder(c *ctx.Context) {
	orderID, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}
	order, err := h.svc.Orders.Order(c.Context(), orderID)
	if err != nil {
		fail(c, err)
		return
	}

	form := newForm(map[string]string{
		"product": id(order.ProductID),
		"status":  order.Status,
		"note":    order.Note,
	}, nil)

	if c.IsPost() {
		var in forms.Order
		errs, err := c.Bind(&in)
		if err != nil {
			c.ServerError(err)
			return
		}
		if len(errs) == 0 {
			if errs, err = h.svc.Orders.UpdateOrder(c.Context(), order.ID, in); err != nil {
				fail(c, err)
				return
			}
		}
		if len(errs) == 0 {
			c.RedirectRoute("home")
			return
		}
		form = submitted(c, errs, "product", "status", "note")
	}

	products, err := h.svc.Orders.Products(c.Context())
	if err != nil {
		c.ServerError(err)
		return
	}
	c.Render("order_update", view.Data{
		"Form":     form,
		"Order":    order,
		"Products": products,
		"Statuses": models.Statuses,
	})
}

// DeleteOrder asks for confirmation on GET and deletes on POST.
func (h *Controllers) DeleteOrder(c *ctx.Context) {
	orderID, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}
	order, err := h.svc.Orders.Order(c.Context(), orderID)
	if err != nil {
		fail(c, err)
		return
	}

	if c.IsPost() {
		if err := h.svc.Orders.DeleteOrder(c.Context(), order.ID); err != nil {
			fail(c, err)
			return
		}
		c.RedirectRoute("home")
		return
	}

	c.Render("delete", view.Data{
		"Kind":   "order",
		"Item":   order.Product.Name + " (" + order.Status + ")",
		"Cancel": c.URL("home"),
	})
}
