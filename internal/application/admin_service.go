package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
)

// AdminService serves the read-only dashboard aggregates.
type AdminService struct {
	Stats  repository.StatsRepository
	Logger *logrus.Logger
}

func NewAdminService(stats repository.StatsRepository, logger *logrus.Logger) *AdminService {
	return &AdminService{Stats: stats, Logger: logger}
}

func (s *AdminService) Dashboard(ctx context.Context) (*repository.DashboardStats, error) {
	return s.Stats.Dashboard(ctx)
}

func (s *AdminService) RecentOrders(ctx context.Context, limit int) ([]entity.Order, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.Stats.RecentOrders(ctx, limit)
}

func (s *AdminService) PopularProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.Stats.PopularProducts(ctx, limit)
}

// SalesStats buckets paid orders by day over the requested window.
// Period is one of week, month, year; anything else means month.
func (s *AdminService) SalesStats(ctx context.Context, period string) ([]repository.SalesBucket, error) {
	now := time.Now()
	var since time.Time
	switch period {
	case "week":
		since = now.AddDate(0, 0, -7)
	case "year":
		since = now.AddDate(-1, 0, 0)
	default:
		since = now.AddDate(0, -1, 0)
	}
	return s.Stats.SalesByDay(ctx, since)
}

func (s *AdminService) CustomerStats(ctx context.Context) (*repository.CustomerStats, error) {
	return s.Stats.Customers(ctx)
}

func (s *AdminService) ProductStats(ctx context.Context) (*repository.ProductStats, error) {
	return s.Stats.Products(ctx)
}

func (s *AdminService) OrderStats(ctx context.Context) (*repository.OrderStats, error) {
	return s.Stats.Orders(ctx)
}

func (s *AdminService) ReviewStats(ctx context.Context) (*repository.ReviewStats, error) {
	return s.Stats.Reviews(ctx)
}
