package controllers

import (
	"github.com/shashiranjanraj/backoffice/app/forms"
	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/pkg/bind"
	"github.com/shashiranjanraj/backoffice/pkg/ctx"
	"github.com/shashiranjanraj/backoffice/pkg/session"
	"github.com/shashiranjanraj/backoffice/pkg/view"
)

// productRow pairs a product with its resolved image URL.
type productRow struct {
	models.Product
	ImageURL string
}

// Products lists the catalog.
func (h *Controllers) Products(c *ctx.Context) {
	products, err := h.svc.Products.List(c.Context())
	if err != nil {
		c.ServerError(err)
		return
	}
	rows := make([]productRow, len(products))
	for i, p := range products {
		rows[i] = productRow{Product: p, ImageURL: h.svc.Products.ImageURL(p.Image)}
	}
	c.Render("products", view.Data{"Products": rows})
}

// CreateProduct adds a catalog entry.
func (h *Controllers) CreateProduct(c *ctx.Context) {
	h.productForm(c, &models.Product{})
}

// UpdateProduct edits a catalog entry.
func (h *Controllers) UpdateProduct(c *ctx.Context) {
	productID, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}
	p, err := h.svc.Products.ByID(c.Context(), productID)
	if err != nil {
		fail(c, err)
		return
	}
	h.productForm(c, p)
}

func (h *Controllers) productForm(c *ctx.Context, p *models.Product) {
	form := newForm(map[string]string{
		"name":        p.Name,
		"price":       p.Price.StringFixed(2),
		"category":    p.Category,
		"description": p.Description,
	}, nil)
	if p.ID == 0 {
		form.Values["price"] = ""
	}
	selected := make(map[uint]bool, len(p.Tags))
	for _, t := range p.Tags {
		selected[t.ID] = true
	}

	if c.IsPost() {
		var in forms.Product
		errs, err := c.Bind(&in)
		if err != nil {
			c.ServerError(err)
			return
		}
		if len(errs) == 0 {
			errs, err = h.svc.Products.Save(c.Context(), p, in, bind.File(c.R, "image"))
			if err != nil {
				c.ServerError(err)
				return
			}
		}
		if len(errs) == 0 {
			c.Flash(session.Success, "Product "+p.Name+" saved.")
			c.RedirectRoute("products")
			return
		}
		form = submitted(c, errs, "name", "price", "category", "description")
		selected = make(map[uint]bool, len(in.Tags))
		for _, t := range in.Tags {
			selected[t] = true
		}
	}

	tags, err := h.svc.Products.Tags(c.Context())
	if err != nil {
		c.ServerError(err)
		return
	}
	render(c, "product_form", form, view.Data{
		"Product":    p,
		"ImageURL":   h.svc.Products.ImageURL(p.Image),
		"Tags":       tags,
		"Selected":   selected,
		"Categories": models.Categories,
	})
}
