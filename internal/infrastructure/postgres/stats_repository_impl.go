package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
)

type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

func (r *StatsRepository) Dashboard(ctx context.Context) (*repository.DashboardStats, error) {
	s := &repository.DashboardStats{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM orders),
			(SELECT count(*) FROM products),
			(SELECT count(*) FROM users WHERE role = 'customer'),
			(SELECT count(*) FROM reviews),
			(SELECT count(*) FROM orders WHERE created_at >= date_trunc('month', now())),
			COALESCE((SELECT sum(total) FROM orders
				WHERE created_at >= date_trunc('month', now()) AND payment_status = 'paid'), 0),
			(SELECT count(*) FROM reviews WHERE NOT is_approved)
	`).Scan(&s.TotalOrders, &s.TotalProducts, &s.TotalCustomers, &s.TotalReviews,
		&s.OrdersThisMonth, &s.RevenueThisMonth, &s.PendingReviews)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return s, nil
}

func (r *StatsRepository) RecentOrders(ctx context.Context, limit int) ([]entity.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	defer rows.Close()

	out := []entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *StatsRepository) PopularProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+` FROM products p
		ORDER BY p.view_count DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("popular products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *StatsRepository) SalesByDay(ctx context.Context, since time.Time) ([]repository.SalesBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			EXTRACT(YEAR FROM created_at)::int,
			EXTRACT(MONTH FROM created_at)::int,
			EXTRACT(DAY FROM created_at)::int,
			COALESCE(sum(total), 0),
			count(*)
		FROM orders
		WHERE created_at >= $1 AND payment_status = 'paid'
		GROUP BY 1, 2, 3
		ORDER BY 1, 2, 3
	`, since)
	if err != nil {
		return nil, fmt.Errorf("sales by day: %w", err)
	}
	defer rows.Close()

	out := []repository.SalesBucket{}
	for rows.Next() {
		var b repository.SalesBucket
		if err := rows.Scan(&b.Year, &b.Month, &b.Day, &b.TotalSales, &b.OrderCount); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *StatsRepository) Customers(ctx context.Context) (*repository.CustomerStats, error) {
	s := &repository.CustomerStats{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM users WHERE role = 'customer'),
			(SELECT count(*) FROM users WHERE role = 'customer' AND is_email_verified),
			(SELECT count(*) FROM users WHERE role = 'customer'
				AND created_at >= date_trunc('month', now()))
	`).Scan(&s.TotalCustomers, &s.VerifiedCustomers, &s.NewCustomersThisMonth)
	if err != nil {
		return nil, fmt.Errorf("customer stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM created_at)::int, EXTRACT(MONTH FROM created_at)::int, count(*)
		FROM users
		WHERE role = 'customer' AND created_at >= now() - interval '12 months'
		GROUP BY 1, 2 ORDER BY 1, 2
	`)
	if err != nil {
		return nil, fmt.Errorf("monthly customer stats: %w", err)
	}
	defer rows.Close()

	s.MonthlyStats = []repository.MonthlyBucket{}
	for rows.Next() {
		var b repository.MonthlyBucket
		if err := rows.Scan(&b.Year, &b.Month, &b.Count); err != nil {
			return nil, err
		}
		s.MonthlyStats = append(s.MonthlyStats, b)
	}
	return s, rows.Err()
}

func (r *StatsRepository) Products(ctx context.Context) (*repository.ProductStats, error) {
	s := &repository.ProductStats{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM products),
			(SELECT count(*) FROM products WHERE is_active),
			(SELECT count(*) FROM products WHERE is_featured),
			(SELECT count(*) FROM products WHERE stock < 10)
	`).Scan(&s.TotalProducts, &s.ActiveProducts, &s.FeaturedProducts, &s.LowStockProducts)
	if err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT c.name, count(p.id), COALESCE(avg(p.price), 0)
		FROM categories c LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.name ORDER BY count(p.id) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("category product stats: %w", err)
	}
	defer rows.Close()

	s.CategoryStats = []repository.CategoryProductStat{}
	for rows.Next() {
		var b repository.CategoryProductStat
		if err := rows.Scan(&b.Category, &b.Count, &b.AvgPrice); err != nil {
			return nil, err
		}
		s.CategoryStats = append(s.CategoryStats, b)
	}
	return s, rows.Err()
}

func (r *StatsRepository) Orders(ctx context.Context) (*repository.OrderStats, error) {
	s := &repository.OrderStats{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'processing'),
			count(*) FILTER (WHERE status = 'shipped'),
			count(*) FILTER (WHERE status = 'delivered')
		FROM orders
	`).Scan(&s.TotalOrders, &s.PendingOrders, &s.ProcessingOrders, &s.ShippedOrders, &s.DeliveredOrders)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT status, count(*), COALESCE(sum(total), 0)
		FROM orders GROUP BY status ORDER BY count(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("order status stats: %w", err)
	}
	s.StatusStats = []repository.StatusOrderStat{}
	for rows.Next() {
		var b repository.StatusOrderStat
		if err := rows.Scan(&b.Status, &b.Count, &b.TotalRevenue); err != nil {
			rows.Close()
			return nil, err
		}
		s.StatusStats = append(s.StatusStats, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM created_at)::int, EXTRACT(MONTH FROM created_at)::int,
			count(*), COALESCE(sum(total), 0)
		FROM orders
		WHERE created_at >= now() - interval '12 months'
		GROUP BY 1, 2 ORDER BY 1, 2
	`)
	if err != nil {
		return nil, fmt.Errorf("monthly order stats: %w", err)
	}
	defer rows.Close()

	s.MonthlyOrders = []repository.MonthlyOrderStat{}
	for rows.Next() {
		var b repository.MonthlyOrderStat
		if err := rows.Scan(&b.Year, &b.Month, &b.Count, &b.Revenue); err != nil {
			return nil, err
		}
		s.MonthlyOrders = append(s.MonthlyOrders, b)
	}
	return s, rows.Err()
}

func (r *StatsRepository) Reviews(ctx context.Context) (*repository.ReviewStats, error) {
	s := &repository.ReviewStats{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE is_approved),
			count(*) FILTER (WHERE NOT is_approved)
		FROM reviews
	`).Scan(&s.TotalReviews, &s.ApprovedReviews, &s.PendingReviews)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT rating, count(*) FROM reviews GROUP BY rating ORDER BY rating
	`)
	if err != nil {
		return nil, fmt.Errorf("rating stats: %w", err)
	}
	s.RatingStats = []repository.RatingBucket{}
	for rows.Next() {
		var b repository.RatingBucket
		if err := rows.Scan(&b.Rating, &b.Count); err != nil {
			rows.Close()
			return nil, err
		}
		s.RatingStats = append(s.RatingStats, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM created_at)::int, EXTRACT(MONTH FROM created_at)::int,
			count(*), COALESCE(avg(rating), 0)
		FROM reviews
		WHERE created_at >= now() - interval '12 months'
		GROUP BY 1, 2 ORDER BY 1, 2
	`)
	if err != nil {
		return nil, fmt.Errorf("monthly review stats: %w", err)
	}
	defer rows.Close()

	s.MonthlyReviews = []repository.MonthlyReviewStat{}
	for rows.Next() {
		var b repository.MonthlyReviewStat
		if err := rows.Scan(&b.Year, &b.Month, &b.Count, &b.AvgRating); err != nil {
			return nil, err
		}
		s.MonthlyReviews = append(s.MonthlyReviews, b)
	}
	return s, rows.Err()
}

var _ repository.StatsRepository = (*StatsRepository)(nil)
