// Package forms declares the HTML forms of the back office: their fields,
// bind names and validation rules.
package forms

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/shashiranjanraj/backoffice/pkg/bind"
	"github.com/shashiranjanraj/backoffice/pkg/validate"
)

// Register creates a login.
type Register struct {
	Username  string `form:"username"  validate:"required,username,max=150"`
	Email     string `form:"email"     validate:"required,email,max=254"`
	Password1 string `form:"password1" validate:"required,min=8,max=128"`
	Password2 string `form:"password2" validate:"required,same=password1"`
}

// Login is checked by the auth service, not by rules.
type Login struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Customer is the self-service profile form. The picture arrives as a
// multipart file named "profile_pic".
type Customer struct {
	Name  string `form:"name"  validate:"required,max=200"`
	Phone string `form:"phone" validate:"required,max=200"`
	Email string `form:"email" validate:"required,email,max=200"`
}

// Order edits one existing order.
type Order struct {
	Product uint   `form:"product" validate:"required"`
	Status  string `form:"status"  validate:"required,in=Pending|Out for delivery|Delivered"`
	Note    string `form:"note"    validate:"nullable,max=1000"`
}

// Product creates or edits a catalog item. The image arrives as a multipart
// file named "image".
type Product struct {
	Name        string `form:"name"        validate:"required,max=200"`
	Price       string `form:"price"       validate:"required,decimal,gte=0"`
	Category    string `form:"category"    validate:"nullable,in=Indoor|Out Door"`
	Description string `form:"description" validate:"nullable,max=200"`
	Tags        []uint `form:"tags"`
}

// PasswordReset asks for a reset link.
type PasswordReset struct {
	Email string `form:"email" validate:"required,email,max=254"`
}

// SetPassword chooses a new password from a reset link.
type SetPassword struct {
	NewPassword1 string `form:"new_password1" validate:"required,min=8,max=128"`
	NewPassword2 string `form:"new_password2" validate:"required,same=new_password1"`
}

// OrderRows is the number of blank rows of the batch order form.
const OrderRows = 10

// OrderRow is one line of the batch order form.
type OrderRow struct {
	Product *uint  `form:"product"`
	Status  string `form:"status"`
	Note    string `form:"note"`

	// Errors is keyed by field name; filled by ParseOrderRows.
	Errors map[string]string `form:"-"`
}

// Filled reports whether the row was touched. Untouched rows are skipped.
func (r OrderRow) Filled() bool {
	return r.Product != nil || r.Status != "" || r.Note != ""
}

// Valid reports whether the row has no errors.
func (r OrderRow) Valid() bool { return len(r.Errors) == 0 }

// RowPrefix is the field name prefix of row i: "orders-{i}-".
func RowPrefix(i int) string { return "orders-" + strconv.Itoa(i) + "-" }

// rowRules validates a filled row.
type rowRules struct {
	Product uint   `form:"product" validate:"required"`
	Status  string `form:"status"  validate:"required,in=Pending|Out for delivery|Delivered"`
	Note    string `form:"note"    validate:"nullable,max=1000"`
}

// ParseOrderRows reads the OrderRows rows of a batch form and validates the
// filled ones. Product existence is checked by the caller.
func ParseOrderRows(vals url.Values) []OrderRow {
	rows := make([]OrderRow, OrderRows)
	for i := range rows {
		row := &rows[i]
		row.Errors = bind.Values(vals, RowPrefix(i), row)
		if !row.Filled() && len(row.Errors) == 0 {
			continue
		}

		check := rowRules{Status: row.Status, Note: row.Note}
		if row.Product != nil {
			check.Product = *row.Product
		}
		for field, msg := range validate.Struct(check) {
			if _, ok := row.Errors[field]; !ok {
				row.Errors[field] = msg
			}
		}
	}
	return rows
}

// InvalidProduct is the message for a product id that does not exist.
func InvalidProduct(id uint) string {
	return fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", id)
}
