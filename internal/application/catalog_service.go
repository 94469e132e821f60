package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
	"github.com/mercatohq/mercato/internal/infrastructure/search"
	"github.com/mercatohq/mercato/pkg/helpers"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateSKU     = errors.New("a product with this SKU already exists")
	ErrDuplicateSlug    = errors.New("a category with this slug already exists")
	ErrStorageDisabled  = errors.New("image storage is not configured")
)

// CategoryNotEmptyError rejects deleting a category that still owns products.
type CategoryNotEmptyError struct {
	Count int
}

func (e *CategoryNotEmptyError) Error() string {
	return fmt.Sprintf("cannot delete category with %d products", e.Count)
}

// CatalogService covers categories, products, search and image storage.
type CatalogService struct {
	Categories repository.CategoryRepository
	Products   repository.ProductRepository
	Index      *search.ProductIndex
	GCS        *storage.Client
	GCSBucket  string
	Logger     *logrus.Logger
}

func NewCatalogService(categories repository.CategoryRepository, products repository.ProductRepository, index *search.ProductIndex, gcs *storage.Client, bucket string, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		Categories: categories,
		Products:   products,
		Index:      index,
		GCS:        gcs,
		GCSBucket:  bucket,
		Logger:     logger,
	}
}

// Categories

func (s *CatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]entity.Category, error) {
	return s.Categories.List(ctx, activeOnly)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *entity.Category) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if err := s.Categories.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c *entity.Category) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if err := s.Categories.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrCategoryNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if c.ProductCount > 0 {
		return &CategoryNotEmptyError{Count: c.ProductCount}
	}
	return s.Categories.Delete(ctx, id)
}

// Products

func (s *CatalogService) ListProducts(ctx context.Context, f repository.ProductFilter) ([]entity.Product, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 12
	}
	return s.Products.List(ctx, f)
}

// GetProduct loads a product and bumps its view counter.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if err := s.Products.IncrementViewCount(ctx, id); err != nil {
		s.Logger.WithError(err).WithField("product_id", id).Warn("view count bump failed")
	} else {
		p.ViewCount++
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *entity.Product) error {
	if _, err := s.Categories.GetByID(ctx, p.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if err := s.Products.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateSKU
		}
		return err
	}
	s.Index.Upsert(ctx, p)
	return nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *entity.Product) error {
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if err := s.Products.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrProductNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return ErrDuplicateSKU
		}
		return err
	}
	s.Index.Upsert(ctx, p)
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.Index.Remove(ctx, id)
	return nil
}

func (s *CatalogService) FeaturedProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 8
	}
	return s.Products.Featured(ctx, limit)
}

func (s *CatalogService) PopularProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 8
	}
	return s.Products.Popular(ctx, limit)
}

func (s *CatalogService) RelatedProducts(ctx context.Context, productID string) ([]entity.Product, error) {
	p, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.Products.Related(ctx, p.ID, p.CategoryID, 4)
}

// SearchProducts queries Elasticsearch first and falls back to a SQL ILIKE
// scan when the index is disabled or errors out.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, limit int) ([]entity.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if s.Index.Enabled() {
		ids, err := s.Index.SearchIDs(ctx, q, limit)
		if err == nil {
			return s.productsInOrder(ctx, ids)
		}
		s.Logger.WithError(err).Warn("es search failed, using sql fallback")
	}
	return s.Products.Search(ctx, q, limit)
}

// productsInOrder loads products by id preserving the relevance order.
func (s *CatalogService) productsInOrder(ctx context.Context, ids []string) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	byID, err := s.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok && p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

// UploadProductImage stores an image in GCS and returns its public URL.
func (s *CatalogService) UploadProductImage(ctx context.Context, productID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrStorageDisabled
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("products", productID, uuid.NewString()+ext))
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}
