package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, role,
	is_email_verified, newsletter_opt_in, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Phone,
		&u.Role, &u.IsEmailVerified, &u.Newsletter, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, phone, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.Role)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3, updated_at = $4
		WHERE id = $5
	`, u.FirstName, u.LastName, u.Phone, u.UpdatedAt, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetEmailVerified(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET is_email_verified = true, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("set email verified: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = now() WHERE id = $1`, id)
	return err
}

func (r *UserRepository) List(ctx context.Context, f repository.UserFilter) ([]entity.User, int64, error) {
	where := "WHERE true"
	args := []any{}
	if f.Role != "" {
		args = append(args, f.Role)
		where += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT `+userColumns+` FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

// Addresses

func (r *UserRepository) ListAddresses(ctx context.Context, userID string) ([]entity.Address, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, type, street, city, state, zip_code, country, is_default
		FROM addresses WHERE user_id = $1 ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	out := []entity.Address{}
	for rows.Next() {
		var a entity.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Street, &a.City, &a.State,
			&a.ZipCode, &a.Country, &a.IsDefault); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *UserRepository) AddAddress(ctx context.Context, a *entity.Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if a.IsDefault {
		if _, err := tx.Exec(ctx, `
			UPDATE addresses SET is_default = false WHERE user_id = $1 AND type = $2
		`, a.UserID, a.Type); err != nil {
			return fmt.Errorf("clear default address: %w", err)
		}
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO addresses (user_id, type, street, city, state, zip_code, country, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, a.UserID, a.Type, a.Street, a.City, a.State, a.ZipCode, a.Country, a.IsDefault)
	if err := row.Scan(&a.ID); err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *UserRepository) UpdateAddress(ctx context.Context, a *entity.Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if a.IsDefault {
		if _, err := tx.Exec(ctx, `
			UPDATE addresses SET is_default = false WHERE user_id = $1 AND type = $2 AND id <> $3
		`, a.UserID, a.Type, a.ID); err != nil {
			return fmt.Errorf("clear default address: %w", err)
		}
	}
	res, err := tx.Exec(ctx, `
		UPDATE addresses
		SET type = $1, street = $2, city = $3, state = $4, zip_code = $5, country = $6, is_default = $7
		WHERE id = $8 AND user_id = $9
	`, a.Type, a.Street, a.City, a.State, a.ZipCode, a.Country, a.IsDefault, a.ID, a.UserID)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *UserRepository) DeleteAddress(ctx context.Context, userID, addressID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM addresses WHERE id = $1 AND user_id = $2
	`, addressID, userID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var addrType string
	err = tx.QueryRow(ctx, `
		SELECT type FROM addresses WHERE id = $1 AND user_id = $2
	`, addressID, userID).Scan(&addrType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE addresses SET is_default = false WHERE user_id = $1 AND type = $2
	`, userID, addrType); err != nil {
		return fmt.Errorf("clear default address: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE addresses SET is_default = true WHERE id = $1
	`, addressID); err != nil {
		return fmt.Errorf("set default address: %w", err)
	}
	return tx.Commit(ctx)
}

// Preferences

func (r *UserRepository) UpdatePreferences(ctx context.Context, userID string, newsletter bool, favoriteCategoryIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, `
		UPDATE users SET newsletter_opt_in = $1, updated_at = now() WHERE id = $2
	`, newsletter, userID)
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM user_favorite_categories WHERE user_id = $1
	`, userID); err != nil {
		return err
	}
	for _, cid := range favoriteCategoryIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_favorite_categories (user_id, category_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, userID, cid); err != nil {
			return fmt.Errorf("insert favorite category: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *UserRepository) FavoriteCategoryIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category_id FROM user_favorite_categories WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Wishlist

func (r *UserRepository) Wishlist(ctx context.Context, userID string) ([]entity.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.slug, p.main_image, p.price, p.average_rating
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	out := []entity.Product{}
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.MainImage, &p.Price, &p.AverageRating); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *UserRepository) AddToWishlist(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2)
	`, userID, productID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("add to wishlist: %w", err)
	}
	return nil
}

func (r *UserRepository) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
