package repository

import (
	"context"
	"time"

	"github.com/mercatohq/mercato/internal/domain/entity"
)

// Read models for the admin dashboard. These are reporting views with no
// mutation; they serialize straight into the response envelope.

type DashboardStats struct {
	TotalOrders      int64   `json:"totalOrders"`
	TotalProducts    int64   `json:"totalProducts"`
	TotalCustomers   int64   `json:"totalCustomers"`
	TotalReviews     int64   `json:"totalReviews"`
	OrdersThisMonth  int64   `json:"ordersThisMonth"`
	RevenueThisMonth float64 `json:"revenueThisMonth"`
	PendingReviews   int64   `json:"pendingReviews"`
}

type SalesBucket struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Day        int     `json:"day"`
	TotalSales float64 `json:"totalSales"`
	OrderCount int64   `json:"orderCount"`
}

type MonthlyBucket struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

type CustomerStats struct {
	TotalCustomers        int64           `json:"totalCustomers"`
	VerifiedCustomers     int64           `json:"verifiedCustomers"`
	NewCustomersThisMonth int64           `json:"newCustomersThisMonth"`
	MonthlyStats          []MonthlyBucket `json:"monthlyStats"`
}

type CategoryProductStat struct {
	Category string  `json:"category"`
	Count    int64   `json:"count"`
	AvgPrice float64 `json:"avgPrice"`
}

type ProductStats struct {
	TotalProducts    int64                 `json:"totalProducts"`
	ActiveProducts   int64                 `json:"activeProducts"`
	FeaturedProducts int64                 `json:"featuredProducts"`
	LowStockProducts int64                 `json:"lowStockProducts"`
	CategoryStats    []CategoryProductStat `json:"categoryStats"`
}

type StatusOrderStat struct {
	Status       string  `json:"status"`
	Count        int64   `json:"count"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type MonthlyOrderStat struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type OrderStats struct {
	TotalOrders      int64              `json:"totalOrders"`
	PendingOrders    int64              `json:"pendingOrders"`
	ProcessingOrders int64              `json:"processingOrders"`
	ShippedOrders    int64              `json:"shippedOrders"`
	DeliveredOrders  int64              `json:"deliveredOrders"`
	StatusStats      []StatusOrderStat  `json:"orderStatusStats"`
	MonthlyOrders    []MonthlyOrderStat `json:"monthlyOrders"`
}

type RatingBucket struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

type MonthlyReviewStat struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Count     int64   `json:"count"`
	AvgRating float64 `json:"avgRating"`
}

type ReviewStats struct {
	TotalReviews    int64               `json:"totalReviews"`
	ApprovedReviews int64               `json:"approvedReviews"`
	PendingReviews  int64               `json:"pendingReviews"`
	RatingStats     []RatingBucket      `json:"ratingStats"`
	MonthlyReviews  []MonthlyReviewStat `json:"monthlyReviews"`
}

// StatsRepository computes the admin dashboard aggregates with grouping
// queries; no mutation.
type StatsRepository interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	RecentOrders(ctx context.Context, limit int) ([]entity.Order, error)
	PopularProducts(ctx context.Context, limit int) ([]entity.Product, error)
	SalesByDay(ctx context.Context, since time.Time) ([]SalesBucket, error)
	Customers(ctx context.Context) (*CustomerStats, error)
	Products(ctx context.Context) (*ProductStats, error)
	Orders(ctx context.Context) (*OrderStats, error)
	Reviews(ctx context.Context) (*ReviewStats, error)
}
