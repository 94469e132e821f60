package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
)

func TestTotals(t *testing.T) {
	tests := []struct {
		name         string
		subtotal     float64
		wantTax      float64
		wantShipping float64
		wantTotal    float64
	}{
		{"small order pays flat shipping", 20.00, 1.60, 5.99, 27.59},
		{"exactly at threshold still pays shipping", 50.00, 4.00, 5.99, 59.99},
		{"above threshold ships free", 50.01, 4.00, 0, 54.01},
		{"large order", 199.99, 16.00, 0, 215.99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, shipping, total := Totals(tt.subtotal)
			assert.Equal(t, tt.wantTax, tax)
			assert.Equal(t, tt.wantShipping, shipping)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestOrderService_Create_Success(t *testing.T) {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	svc := NewOrderService(orders, products, new(MockUserRepository), nil, testLogger())

	products.On("GetByIDs", mock.Anything, []string{"p1", "p2"}).Return(map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Wireless Earbuds", SKU: "ELEC-0001", Price: 59.99, Stock: 10, IsActive: true, MainImage: "earbuds.jpg"},
		"p2": {ID: "p2", Name: "Cotton T-Shirt", SKU: "CLTH-0001", Price: 19.50, Stock: 5, IsActive: true},
	}, nil)
	orders.On("Create", mock.Anything, mock.AnythingOfType("*entity.Order")).Return(nil)

	o, err := svc.Create(context.Background(), "u1", CreateOrderInput{
		Items: []OrderLineInput{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 2},
		},
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, entity.OrderPending, o.Status)
	assert.Equal(t, entity.PaymentPending, o.PaymentStatus)
	assert.Equal(t, 98.99, o.Subtotal)
	assert.Equal(t, 7.92, o.Tax)
	assert.Equal(t, 0.0, o.Shipping)
	assert.Equal(t, 106.91, o.Total)

	require.Len(t, o.Items, 2)
	assert.Equal(t, "Wireless Earbuds", o.Items[0].Name)
	assert.Equal(t, "earbuds.jpg", o.Items[0].Image)
	assert.Equal(t, 2, o.Items[1].Quantity)

	orders.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestOrderService_Create_EmptyCart(t *testing.T) {
	svc := NewOrderService(new(MockOrderRepository), new(MockProductRepository), new(MockUserRepository), nil, testLogger())

	_, err := svc.Create(context.Background(), "u1", CreateOrderInput{})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestOrderService_Create_ProductMissing(t *testing.T) {
	products := new(MockProductRepository)
	svc := NewOrderService(new(MockOrderRepository), products, new(MockUserRepository), nil, testLogger())

	products.On("GetByIDs", mock.Anything, []string{"gone"}).Return(map[string]*entity.Product{}, nil)

	_, err := svc.Create(context.Background(), "u1", CreateOrderInput{
		Items: []OrderLineInput{{ProductID: "gone", Quantity: 1}},
	})

	var missing *ProductMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "gone", missing.ProductID)
}

func TestOrderService_Create_InactiveProductTreatedAsMissing(t *testing.T) {
	products := new(MockProductRepository)
	svc := NewOrderService(new(MockOrderRepository), products, new(MockUserRepository), nil, testLogger())

	products.On("GetByIDs", mock.Anything, []string{"p1"}).Return(map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Retired", Price: 10, Stock: 3, IsActive: false},
	}, nil)

	_, err := svc.Create(context.Background(), "u1", CreateOrderInput{
		Items: []OrderLineInput{{ProductID: "p1", Quantity: 1}},
	})

	var missing *ProductMissingError
	assert.ErrorAs(t, err, &missing)
}

func TestOrderService_Create_InsufficientStock(t *testing.T) {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	svc := NewOrderService(orders, products, new(MockUserRepository), nil, testLogger())

	products.On("GetByIDs", mock.Anything, []string{"p1"}).Return(map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Ceramic Planter", Price: 24.00, Stock: 2, IsActive: true},
	}, nil)

	_, err := svc.Create(context.Background(), "u1", CreateOrderInput{
		Items: []OrderLineInput{{ProductID: "p1", Quantity: 3}},
	})

	var insufficient *repository.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Ceramic Planter", insufficient.ProductName)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Get_OwnerAndAdmin(t *testing.T) {
	orders := new(MockOrderRepository)
	svc := NewOrderService(orders, new(MockProductRepository), new(MockUserRepository), nil, testLogger())

	orders.On("GetByID", mock.Anything, "o1").Return(&entity.Order{ID: "o1", UserID: "u1"}, nil)

	owner := &entity.User{ID: "u1", Role: entity.RoleCustomer}
	o, err := svc.Get(context.Background(), "o1", owner)
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)

	admin := &entity.User{ID: "u9", Role: entity.RoleAdmin}
	_, err = svc.Get(context.Background(), "o1", admin)
	assert.NoError(t, err)

	stranger := &entity.User{ID: "u2", Role: entity.RoleCustomer}
	_, err = svc.Get(context.Background(), "o1", stranger)
	assert.ErrorIs(t, err, ErrOrderForbidden)
}

func TestOrderService_Get_NotFound(t *testing.T) {
	orders := new(MockOrderRepository)
	svc := NewOrderService(orders, new(MockProductRepository), new(MockUserRepository), nil, testLogger())

	orders.On("GetByID", mock.Anything, "nope").Return(nil, repository.ErrNotFound)

	_, err := svc.Get(context.Background(), "nope", &entity.User{ID: "u1"})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_MyOrders_ForcesOwnerFilter(t *testing.T) {
	orders := new(MockOrderRepository)
	svc := NewOrderService(orders, new(MockProductRepository), new(MockUserRepository), nil, testLogger())

	orders.On("List", mock.Anything, mock.MatchedBy(func(f repository.OrderFilter) bool {
		return f.UserID == "u1" && f.Page == 1 && f.Limit == 10
	})).Return([]entity.Order{}, int64(0), nil)

	// filter arrives with someone else's id; the service overwrites it
	_, _, err := svc.MyOrders(context.Background(), "u1", repository.OrderFilter{UserID: "u2"})
	require.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestOrderService_UpdateStatus_InvalidStatus(t *testing.T) {
	orders := new(MockOrderRepository)
	svc := NewOrderService(orders, new(MockProductRepository), new(MockUserRepository), nil, testLogger())

	_, err := svc.UpdateStatus(context.Background(), "o1", "teleported", "")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_Shipped(t *testing.T) {
	orders := new(MockOrderRepository)
	svc := NewOrderService(orders, new(MockProductRepository), new(MockUserRepository), nil, testLogger())

	orders.On("UpdateStatus", mock.Anything, "o1", entity.OrderShipped, "TRACK123").
		Return(&entity.Order{ID: "o1", Status: entity.OrderShipped, TrackingNumber: "TRACK123"}, nil)

	o, err := svc.UpdateStatus(context.Background(), "o1", entity.OrderShipped, "TRACK123")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderShipped, o.Status)
	assert.Equal(t, "TRACK123", o.TrackingNumber)
}
