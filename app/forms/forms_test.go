package forms_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/backoffice/app/forms"
	"github.com/shashiranjanraj/backoffice/pkg/validate"
)

func TestParseOrderRows(t *testing.T) {
	vals := url.Values{
		"orders-0-product": {"1"},
		"orders-0-status":  {"Pending"},
		"orders-1-product": {""},
		"orders-1-status":  {""},
		"orders-2-product": {"2"},
		"orders-2-status":  {"Lost"},
		"orders-3-note":    {"only a note"},
	}

	rows := forms.ParseOrderRows(vals)
	require.Len(t, rows, forms.OrderRows)

	assert.True(t, rows[0].Filled())
	assert.True(t, rows[0].Valid())
	assert.Equal(t, uint(1), *rows[0].Product)

	assert.False(t, rows[1].Filled())
	assert.True(t, rows[1].Valid())

	assert.Contains(t, rows[2].Errors, "status")

	assert.True(t, rows[3].Filled())
	assert.Contains(t, rows[3].Errors, "product")
	assert.Contains(t, rows[3].Errors, "status")

	for _, r := range rows[4:] {
		assert.False(t, r.Filled())
	}
}

func TestRegisterRules(t *testing.T) {
	errs := validate.Struct(forms.Register{
		Username:  "alice",
		Email:     "alice@example.com",
		Password1: "short",
		Password2: "short",
	})
	assert.Contains(t, errs, "password1")

	errs = validate.Struct(forms.Register{
		Username:  "alice",
		Email:     "alice@example.com",
		Password1: "longenough1",
		Password2: "longenough2",
	})
	assert.Equal(t, map[string]string{"password2": "The two password fields didn't match."}, errs)
}

func TestRowPrefix(t *testing.T) {
	assert.Equal(t, "orders-7-", forms.RowPrefix(7))
}
