package filters_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/backoffice/app/filters"
	"github.com/shashiranjanraj/backoffice/app/models"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04", s)
	return t
}

func sample() []models.Order {
	ball := models.Product{ID: 1, Name: "Ball"}
	pan := models.Product{ID: 2, Name: "Frying Pan"}
	return []models.Order{
		{ID: 1, ProductID: 1, Product: ball, Status: models.StatusPending, DateCreated: day("2024-03-01 09:00"), Note: "leave at door"},
		{ID: 2, ProductID: 2, Product: pan, Status: models.StatusDelivered, DateCreated: day("2024-03-02 23:59")},
		{ID: 3, ProductID: 1, Product: ball, Status: models.StatusPending, DateCreated: day("2024-03-03 00:00"), Note: "Gift wrap"},
		{ID: 4, ProductID: 2, Product: pan, Status: models.StatusOutForDelivery, DateCreated: day("2024-03-04 12:00")},
	}
}

func ids(orders []models.Order) []uint {
	out := make([]uint, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestNoParamsIsIdentity(t *testing.T) {
	in := sample()
	f := filters.FilterOrders(in, url.Values{})

	assert.Equal(t, in, f.Orders)
	assert.True(t, f.Params.Empty())
	assert.Empty(t, f.Errors)
}

func TestStatusIsExact(t *testing.T) {
	f := filters.FilterOrders(sample(), url.Values{"status": {models.StatusPending}})
	assert.Equal(t, []uint{1, 3}, ids(f.Orders))
	for _, o := range f.Orders {
		assert.Equal(t, models.StatusPending, o.Status)
	}

	f = filters.FilterOrders(sample(), url.Values{"status": {"pending"}})
	assert.Empty(t, f.Orders)
}

func TestProductByIDOrName(t *testing.T) {
	assert.Equal(t, []uint{2, 4}, ids(filters.FilterOrders(sample(), url.Values{"product": {"2"}}).Orders))
	assert.Equal(t, []uint{2, 4}, ids(filters.FilterOrders(sample(), url.Values{"product": {"fry"}}).Orders))
}

func TestDateRangeIsInclusive(t *testing.T) {
	f := filters.FilterOrders(sample(), url.Values{"start_date": {"2024-03-02"}, "end_date": {"2024-03-03"}})
	assert.Equal(t, []uint{2, 3}, ids(f.Orders))
	assert.Equal(t, "2024-03-02", f.Params.StartDate)
}

func TestBadDateIsIgnoredAndReported(t *testing.T) {
	f := filters.FilterOrders(sample(), url.Values{"start_date": {"03/02/2024"}, "status": {models.StatusPending}})
	assert.Equal(t, []uint{1, 3}, ids(f.Orders))
	assert.Contains(t, f.Errors, "start_date")
	assert.Equal(t, "03/02/2024", f.Params.StartDate)
}

func TestNoteIsPartial(t *testing.T) {
	f := filters.FilterOrders(sample(), url.Values{"note": {"GIFT"}})
	assert.Equal(t, []uint{3}, ids(f.Orders))
}

func TestInputIsNotMutated(t *testing.T) {
	in := sample()
	before := append([]models.Order(nil), in...)

	f := filters.FilterOrders(in, url.Values{"status": {models.StatusDelivered}})
	assert.Len(t, f.Orders, 1)
	assert.Equal(t, before, in)

	f.Orders[0].Status = "changed"
	assert.Equal(t, models.StatusDelivered, in[1].Status)
}
