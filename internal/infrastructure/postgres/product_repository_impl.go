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

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `p.id, p.name, p.slug, p.sku, p.description, p.price, p.original_price,
	p.brand, p.stock, p.category_id, p.main_image, p.images, p.tags, p.is_featured,
	p.is_active, p.average_rating, p.review_count, p.view_count, p.created_at, p.updated_at`

// Columns callers may sort on. Anything else falls back to created_at.
var productSortColumns = map[string]string{
	"name":       "p.name",
	"price":      "p.price",
	"rating":     "p.average_rating",
	"popularity": "p.view_count",
	"createdAt":  "p.created_at",
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.SKU, &p.Description, &p.Price, &p.OriginalPrice,
		&p.Brand, &p.Stock, &p.CategoryID, &p.MainImage, &p.Images, &p.Tags, &p.IsFeatured,
		&p.IsActive, &p.AverageRating, &p.ReviewCount, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, f repository.ProductFilter) ([]entity.Product, int64, error) {
	var conds []string
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.IsActive != nil {
		add("p.is_active = $%d", *f.IsActive)
	}
	if f.CategoryID != "" {
		add("p.category_id = $%d", f.CategoryID)
	}
	if f.MinPrice != nil {
		add("p.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("p.price <= $%d", *f.MaxPrice)
	}
	if f.MinRating != nil {
		add("p.average_rating >= $%d", *f.MinRating)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(p.name ILIKE $%d OR p.description ILIKE $%d OR p.brand ILIKE $%d OR $%d ILIKE ANY(p.tags))",
			n, n, n, n))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM products p %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	sortCol, ok := productSortColumns[f.Sort]
	if !ok {
		sortCol = "p.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		dir = "ASC"
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT `+productColumns+` FROM products p %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		where, sortCol, dir, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func collectProducts(rows pgx.Rows) ([]entity.Product, error) {
	out := []entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachDetails(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.sku = $1`, sku))
	if err != nil {
		return nil, err
	}
	if err := r.attachDetails(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// attachDetails loads the category and variants for a single-product view.
func (r *ProductRepository) attachDetails(ctx context.Context, p *entity.Product) error {
	cat, err := scanCategory(r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, p.CategoryID))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	p.Category = cat

	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, size, color, sku, price, stock
		FROM product_variants WHERE product_id = $1 ORDER BY sku
	`, p.ID)
	if err != nil {
		return fmt.Errorf("load variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v entity.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Size, &v.Color, &v.SKU, &v.Price, &v.Stock); err != nil {
			return err
		}
		p.Variants = append(p.Variants, v)
	}
	return rows.Err()
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()

	out := map[string]*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO products (name, slug, sku, description, price, original_price, brand,
			stock, category_id, main_image, images, tags, is_featured, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Slug, p.SKU, p.Description, p.Price, p.OriginalPrice, p.Brand,
		p.Stock, p.CategoryID, p.MainImage, p.Images, p.Tags, p.IsFeatured, p.IsActive)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}

	if err := insertVariants(ctx, tx, p); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE categories SET product_count = product_count + 1 WHERE id = $1
	`, p.CategoryID); err != nil {
		return fmt.Errorf("bump category count: %w", err)
	}
	return tx.Commit(ctx)
}

func insertVariants(ctx context.Context, tx pgx.Tx, p *entity.Product) error {
	for i := range p.Variants {
		v := &p.Variants[i]
		v.ProductID = p.ID
		row := tx.QueryRow(ctx, `
			INSERT INTO product_variants (product_id, size, color, sku, price, stock)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, v.ProductID, v.Size, v.Color, v.SKU, v.Price, v.Stock)
		if err := row.Scan(&v.ID); err != nil {
			if isUniqueViolation(err) {
				return repository.ErrDuplicate
			}
			return fmt.Errorf("insert variant: %w", err)
		}
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Moving a product between categories shifts both denormalized counts.
	var oldCategoryID string
	err = tx.QueryRow(ctx, `SELECT category_id FROM products WHERE id = $1`, p.ID).Scan(&oldCategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}

	row := tx.QueryRow(ctx, `
		UPDATE products
		SET name = $1, slug = $2, sku = $3, description = $4, price = $5, original_price = $6,
			brand = $7, stock = $8, category_id = $9, main_image = $10, images = $11, tags = $12,
			is_featured = $13, is_active = $14, updated_at = now()
		WHERE id = $15
		RETURNING updated_at
	`, p.Name, p.Slug, p.SKU, p.Description, p.Price, p.OriginalPrice, p.Brand,
		p.Stock, p.CategoryID, p.MainImage, p.Images, p.Tags, p.IsFeatured, p.IsActive, p.ID)

	if err := row.Scan(&p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}

	if oldCategoryID != p.CategoryID {
		if _, err := tx.Exec(ctx, `
			UPDATE categories SET product_count = product_count - 1 WHERE id = $1
		`, oldCategoryID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE categories SET product_count = product_count + 1 WHERE id = $1
		`, p.CategoryID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_variants WHERE product_id = $1`, p.ID); err != nil {
		return err
	}
	if err := insertVariants(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var categoryID string
	err = tx.QueryRow(ctx, `
		DELETE FROM products WHERE id = $1 RETURNING category_id
	`, id).Scan(&categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE categories SET product_count = product_count - 1 WHERE id = $1
	`, categoryID); err != nil {
		return fmt.Errorf("drop category count: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *ProductRepository) IncrementViewCount(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE products SET view_count = view_count + 1 WHERE id = $1
	`, id)
	return err
}

func (r *ProductRepository) Featured(ctx context.Context, limit int) ([]entity.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+` FROM products p
		WHERE p.is_featured AND p.is_active
		ORDER BY p.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *ProductRepository) Popular(ctx context.Context, limit int) ([]entity.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+` FROM products p
		WHERE p.is_active
		ORDER BY p.average_rating DESC, p.review_count DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("popular products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *ProductRepository) Related(ctx context.Context, productID, categoryID string, limit int) ([]entity.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+` FROM products p
		WHERE p.category_id = $1 AND p.id <> $2 AND p.is_active
		ORDER BY p.average_rating DESC
		LIMIT $3
	`, categoryID, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Search is the SQL fallback path used when Elasticsearch is unavailable.
func (r *ProductRepository) Search(ctx context.Context, q string, limit int) ([]entity.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+` FROM products p
		WHERE p.is_active AND (p.name ILIKE $1 OR p.description ILIKE $1 OR p.brand ILIKE $1 OR $1 ILIKE ANY(p.tags))
		ORDER BY p.view_count DESC
		LIMIT $2
	`, "%"+q+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *ProductRepository) RefreshRating(ctx context.Context, productID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE products SET
			average_rating = COALESCE((
				SELECT ROUND(AVG(rating)::numeric, 1)
				FROM reviews WHERE product_id = $1 AND is_approved
			), 0),
			review_count = (
				SELECT count(*) FROM reviews WHERE product_id = $1 AND is_approved
			)
		WHERE id = $1
	`, productID)
	if err != nil {
		return fmt.Errorf("refresh rating: %w", err)
	}
	return nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
