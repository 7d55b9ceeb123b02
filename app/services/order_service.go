package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shashiranjanraj/backoffice/app/filters"
	"github.com/shashiranjanraj/backoffice/app/forms"
	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/app/repositories"
	"github.com/shashiranjanraj/backoffice/pkg/logger"
	"github.com/shashiranjanraj/backoffice/pkg/metrics"
)

// OrderService backs the dashboard, the customer pages and order CRUD.
type OrderService struct {
	orders    *repositories.OrderRepository
	customers *repositories.CustomerRepository
	products  *repositories.ProductRepository
}

func NewOrderService(repos *repositories.Repositories) *OrderService {
	return &OrderService{orders: repos.Orders, customers: repos.Customers, products: repos.Products}
}

// Dashboard is the admin home page.
type Dashboard struct {
	Orders         []models.Order
	Customers      []models.Customer
	TotalCustomers int64
	Counts         repositories.Counts
}

func (s *OrderService) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	var err error
	if d.Orders, err = s.orders.All(ctx); err != nil {
		return nil, fmt.Errorf("dashboard: orders: %w", err)
	}
	if d.Customers, err = s.customers.All(ctx); err != nil {
		return nil, fmt.Errorf("dashboard: customers: %w", err)
	}
	if d.TotalCustomers, err = s.customers.Count(ctx); err != nil {
		return nil, fmt.Errorf("dashboard: count customers: %w", err)
	}
	if d.Counts, err = s.orders.Counts(ctx, nil); err != nil {
		return nil, fmt.Errorf("dashboard: count orders: %w", err)
	}
	return d, nil
}

// CustomerOrders is the self-service page of one customer.
type CustomerOrders struct {
	Orders []models.Order
	Counts repositories.Counts
}

func (s *OrderService) ForCustomer(ctx context.Context, customerID uint) (*CustomerOrders, error) {
	orders, err := s.orders.ByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer orders: %w", err)
	}
	counts, err := s.orders.Counts(ctx, &customerID)
	if err != nil {
		return nil, fmt.Errorf("customer orders: counts: %w", err)
	}
	return &CustomerOrders{Orders: orders, Counts: counts}, nil
}

// CustomerDetail is the admin view of one customer.
type CustomerDetail struct {
	Customer   *models.Customer
	OrderCount int
	Filter     filters.OrderFilter
}

// CustomerDetail loads a customer and its orders narrowed by q. OrderCount
// is the unfiltered total. Returns repositories.ErrNotFound for unknown ids.
func (s *OrderService) CustomerDetail(ctx context.Context, id uint, q url.Values) (*CustomerDetail, error) {
	c, err := s.customers.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer detail: %w", err)
	}
	return &CustomerDetail{Customer: c, OrderCount: len(orders), Filter: filters.FilterOrders(orders, q)}, nil
}

func (s *OrderService) Customer(ctx context.Context, id uint) (*models.Customer, error) {
	return s.customers.ByID(ctx, id)
}

// DeleteCustomer removes a customer together with its orders.
func (s *OrderService) DeleteCustomer(ctx context.Context, id uint) error {
	return s.customers.Delete(ctx, id)
}

// Products lists the choices of the order forms.
func (s *OrderService) Products(ctx context.Context) ([]models.Product, error) {
	return s.products.All(ctx)
}

// CreateBatch stores every filled row of a batch order form for customerID.
// When any filled row is invalid nothing is stored, ok is false and the
// offending rows carry their errors.
func (s *OrderService) CreateBatch(ctx context.Context, customerID uint, rows []forms.OrderRow) (created int, ok bool, err error) {
	var ids []uint
	for _, r := range rows {
		if r.Product != nil {
			ids = append(ids, *r.Product)
		}
	}
	known, err := s.products.ExistingIDs(ctx, ids)
	if err != nil {
		return 0, false, fmt.Errorf("create orders: %w", err)
	}

	ok = true
	var orders []models.Order
	for i := range rows {
		r := &rows[i]
		if r.Errors == nil {
			r.Errors = map[string]string{}
		}
		if r.Product != nil && !known[*r.Product] {
			if _, set := r.Errors["product"]; !set {
				r.Errors["product"] = forms.InvalidProduct(*r.Product)
			}
		}
		if !r.Valid() {
			ok = false
			continue
		}
		if !r.Filled() {
			continue
		}
		orders = append(orders, models.Order{
			CustomerID: customerID,
			ProductID:  *r.Product,
			Status:     r.Status,
			Note:       r.Note,
		})
	}
	if !ok {
		return 0, false, nil
	}

	if err := s.orders.CreateBatch(ctx, orders); err != nil {
		return 0, false, fmt.Errorf("create orders: %w", err)
	}
	metrics.OrdersCreated.Add(float64(len(orders)))
	logger.WithCtx(ctx).Info("orders created", "customer_id", customerID, "count", len(orders))
	return len(orders), true, nil
}

func (s *OrderService) Order(ctx context.Context, id uint) (*models.Order, error) {
	return s.orders.ByID(ctx, id)
}

// UpdateOrder applies a validated form to order id. Returns field errors when
// the product does not exist.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, in forms.Order) (map[string]string, error) {
	known, err := s.products.ExistingIDs(ctx, []uint{in.Product})
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if !known[in.Product] {
		return map[string]string{"product": forms.InvalidProduct(in.Product)}, nil
	}
	o := &models.Order{ID: id, ProductID: in.Product, Status: in.Status, Note: in.Note}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return nil, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	return s.orders.Delete(ctx, id)
}
