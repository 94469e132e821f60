package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `r.id, r.user_id, r.product_id, r.rating, r.title, r.comment,
	r.is_approved, u.first_name || ' ' || u.last_name, r.created_at, r.updated_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	rv := &entity.Review{}
	err := row.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Title, &rv.Comment,
		&rv.IsApproved, &rv.UserName, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rv, nil
}

func (r *ReviewRepository) List(ctx context.Context, f repository.ReviewFilter) ([]entity.Review, int64, error) {
	var conds []string
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.ProductID != "" {
		add("r.product_id = $%d", f.ProductID)
	}
	if f.UserID != "" {
		add("r.user_id = $%d", f.UserID)
	}
	if f.Rating != nil {
		add("r.rating = $%d", *f.Rating)
	}
	if f.Approved != nil {
		add("r.is_approved = $%d", *f.Approved)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(*) FROM reviews r %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+reviewColumns+`, p.id, p.name, p.slug, p.main_image
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN products p ON p.id = r.product_id
		%s ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := []entity.Review{}
	for rows.Next() {
		rv := entity.Review{}
		p := entity.Product{}
		err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Title, &rv.Comment,
			&rv.IsApproved, &rv.UserName, &rv.CreatedAt, &rv.UpdatedAt,
			&p.ID, &p.Name, &p.Slug, &p.MainImage)
		if err != nil {
			return nil, 0, err
		}
		rv.ProductRef = &p
		out = append(out, rv)
	}
	return out, total, rows.Err()
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	return scanReview(r.pool.QueryRow(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews r JOIN users u ON u.id = r.user_id
		WHERE r.id = $1
	`, id))
}

func (r *ReviewRepository) Create(ctx context.Context, rv *entity.Review) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (user_id, product_id, rating, title, comment, is_approved)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING id, created_at, updated_at
	`, rv.UserID, rv.ProductID, rv.Rating, rv.Title, rv.Comment)

	if err := row.Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// Update resets approval; an edited review goes back through moderation.
func (r *ReviewRepository) Update(ctx context.Context, rv *entity.Review) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE reviews
		SET rating = $1, title = $2, comment = $3, is_approved = false, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`, rv.Rating, rv.Title, rv.Comment, rv.ID)

	if err := row.Scan(&rv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update review: %w", err)
	}
	rv.IsApproved = false
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE reviews SET is_approved = $1, updated_at = now() WHERE id = $2
	`, approved, id)
	if err != nil {
		return fmt.Errorf("set review approved: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)
