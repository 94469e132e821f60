package application

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
	"github.com/mercatohq/mercato/pkg/helpers"
	"github.com/mercatohq/mercato/pkg/mailer"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderForbidden     = errors.New("you do not have access to this order")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
)

// ProductMissingError reports an order line whose product no longer exists.
type ProductMissingError struct {
	ProductID string
}

func (e *ProductMissingError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

const (
	taxRate           = 0.08
	shippingFlat      = 5.99
	freeShippingAbove = 50.0
)

// OrderService builds orders from cart payloads. Stock is checked up front
// for a friendly error, then enforced again by the guarded decrement inside
// the repository transaction.
type OrderService struct {
	Orders    repository.OrderRepository
	Products  repository.ProductRepository
	Users     repository.UserRepository
	Publisher *helpers.RabbitPublisher
	Logger    *logrus.Logger
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, users repository.UserRepository, pub *helpers.RabbitPublisher, logger *logrus.Logger) *OrderService {
	return &OrderService{
		Orders:    orders,
		Products:  products,
		Users:     users,
		Publisher: pub,
		Logger:    logger,
	}
}

type OrderLineInput struct {
	ProductID string
	Quantity  int
	Variant   string
}

type CreateOrderInput struct {
	Items           []OrderLineInput
	ShippingAddress entity.ShippingAddress
	PaymentMethod   string
	Notes           string
}

// Totals derives the money fields from a subtotal. Shipping is free above
// the threshold; everything is rounded to cents.
func Totals(subtotal float64) (tax, shipping, total float64) {
	tax = round2(subtotal * taxRate)
	shipping = shippingFlat
	if subtotal > freeShippingAbove {
		shipping = 0
	}
	total = round2(subtotal + tax + shipping)
	return tax, shipping, total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*entity.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]string, 0, len(in.Items))
	for _, line := range in.Items {
		ids = append(ids, line.ProductID)
	}
	products, err := s.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var subtotal float64
	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		p, ok := products[line.ProductID]
		if !ok || !p.IsActive {
			return nil, &ProductMissingError{ProductID: line.ProductID}
		}
		if p.Stock < line.Quantity {
			return nil, &repository.InsufficientStockError{ProductName: p.Name}
		}
		subtotal += p.Price * float64(line.Quantity)
		items = append(items, entity.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			Price:     p.Price,
			Quantity:  line.Quantity,
			Variant:   line.Variant,
			Image:     p.MainImage,
		})
	}
	subtotal = round2(subtotal)
	tax, shipping, total := Totals(subtotal)

	o := &entity.Order{
		UserID:          userID,
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		Shipping:        shipping,
		Total:           total,
		Status:          entity.OrderPending,
		PaymentStatus:   entity.PaymentPending,
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
	}
	if err := s.Orders.Create(ctx, o); err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, o)
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, orderID string, requester *entity.User) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if o.UserID != requester.ID && !requester.IsAdmin() {
		return nil, ErrOrderForbidden
	}
	return o, nil
}

func (s *OrderService) MyOrders(ctx context.Context, userID string, f repository.OrderFilter) ([]entity.Order, int64, error) {
	f.UserID = userID
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
	return s.Orders.List(ctx, f)
}

func (s *OrderService) ListAll(ctx context.Context, f repository.OrderFilter) ([]entity.Order, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.Orders.List(ctx, f)
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status, trackingNumber string) (*entity.Order, error) {
	if !entity.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}
	o, err := s.Orders.UpdateStatus(ctx, orderID, status, trackingNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

func (s *OrderService) sendConfirmation(ctx context.Context, o *entity.Order) {
	if s.Publisher == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, o.UserID)
	if err != nil {
		s.Logger.WithError(err).WithField("order_id", o.ID).Warn("load user for confirmation failed")
		return
	}
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"name":     it.Name,
			"quantity": it.Quantity,
			"price":    it.Price,
		})
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "order_confirmation",
		Data: map[string]any{
			"firstName": u.FirstName,
			"orderId":   o.ID,
			"items":     items,
			"subtotal":  o.Subtotal,
			"tax":       o.Tax,
			"shipping":  o.Shipping,
			"total":     o.Total,
		},
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("order_id", o.ID).Warn("enqueue confirmation email failed")
	}
}
