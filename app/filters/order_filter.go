// Package filters narrows already-loaded result sets by query parameters.
package filters

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/pkg/validate"
)

// OrderParams echoes the submitted filter values back to the form.
type OrderParams struct {
	Product   string
	Status    string
	StartDate string
	EndDate   string
	Note      string
}

// Empty reports whether no filter value was supplied.
func (p OrderParams) Empty() bool {
	return p == OrderParams{}
}

// OrderFilter is the outcome of FilterOrders.
type OrderFilter struct {
	Params OrderParams
	// Errors holds messages for date parameters that were ignored.
	Errors map[string]string
	Orders []models.Order
}

// ParseOrderParams reads the filter query parameters, trimmed.
func ParseOrderParams(q url.Values) OrderParams {
	get := func(k string) string { return strings.TrimSpace(q.Get(k)) }
	return OrderParams{
		Product:   get("product"),
		Status:    get("status"),
		StartDate: get("start_date"),
		EndDate:   get("end_date"),
		Note:      get("note"),
	}
}

// FilterOrders returns the orders matching every supplied parameter, in
// their original order. orders itself is never modified; with no
// parameters the result holds the same orders in the same order.
//
//	product     product id (exact) or product name (partial, case-insensitive)
//	status      exact
//	start_date  date_created on or after, YYYY-MM-DD
//	end_date    date_created on or before, YYYY-MM-DD
//	note        partial, case-insensitive
func FilterOrders(orders []models.Order, q url.Values) OrderFilter {
	p := ParseOrderParams(q)
	f := OrderFilter{Params: p, Errors: map[string]string{}}

	start, ok := parseDay(p.StartDate)
	if !ok {
		f.Errors["start_date"] = "Enter a valid date."
	}
	end, ok := parseDay(p.EndDate)
	if !ok {
		f.Errors["end_date"] = "Enter a valid date."
	}

	productID, _ := strconv.ParseUint(p.Product, 10, 64)
	productName := strings.ToLower(p.Product)
	note := strings.ToLower(p.Note)

	f.Orders = make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if p.Product != "" {
			if productID != 0 {
				if uint64(o.ProductID) != productID {
					continue
				}
			} else if !strings.Contains(strings.ToLower(o.Product.Name), productName) {
				continue
			}
		}
		if p.Status != "" && o.Status != p.Status {
			continue
		}
		day := o.DateCreated.UTC().Format(validate.DateLayout)
		if start != "" && day < start {
			continue
		}
		if end != "" && day > end {
			continue
		}
		if note != "" && !strings.Contains(strings.ToLower(o.Note), note) {
			continue
		}
		f.Orders = append(f.Orders, o)
	}
	return f
}

// parseDay normalises a YYYY-MM-DD value. Empty input is valid and yields "".
func parseDay(s string) (string, bool) {
	if s == "" {
		return "", true
	}
	t, err := time.Parse(validate.DateLayout, s)
	if err != nil {
		return "", false
	}
	return t.Format(validate.DateLayout), true
}
