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

func newCatalogService(categories *MockCategoryRepository, products *MockProductRepository) *CatalogService {
	// nil index: search goes through the SQL fallback
	return NewCatalogService(categories, products, nil, nil, "", testLogger())
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Home & Garden", "home-garden"},
		{"  Wireless   Earbuds  ", "wireless-earbuds"},
		{"Déjà Vu", "d-j-vu"},
		{"UPPERCASE", "uppercase"},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestCatalogService_CreateCategory_DerivesSlug(t *testing.T) {
	categories := new(MockCategoryRepository)
	svc := newCatalogService(categories, new(MockProductRepository))

	categories.On("Create", mock.Anything, mock.MatchedBy(func(c *entity.Category) bool {
		return c.Slug == "home-garden"
	})).Return(nil)

	err := svc.CreateCategory(context.Background(), &entity.Category{Name: "Home & Garden"})
	require.NoError(t, err)
	categories.AssertExpectations(t)
}

func TestCatalogService_CreateCategory_DuplicateSlug(t *testing.T) {
	categories := new(MockCategoryRepository)
	svc := newCatalogService(categories, new(MockProductRepository))

	categories.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	err := svc.CreateCategory(context.Background(), &entity.Category{Name: "Clothing", Slug: "clothing"})
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestCatalogService_DeleteCategory_RefusesNonEmpty(t *testing.T) {
	categories := new(MockCategoryRepository)
	svc := newCatalogService(categories, new(MockProductRepository))

	categories.On("GetByID", mock.Anything, "c1").Return(&entity.Category{ID: "c1", ProductCount: 7}, nil)

	err := svc.DeleteCategory(context.Background(), "c1")
	var notEmpty *CategoryNotEmptyError
	require.ErrorAs(t, err, &notEmpty)
	assert.Equal(t, 7, notEmpty.Count)
	assert.EqualError(t, err, "cannot delete category with 7 products")
	categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCatalogService_DeleteCategory_Empty(t *testing.T) {
	categories := new(MockCategoryRepository)
	svc := newCatalogService(categories, new(MockProductRepository))

	categories.On("GetByID", mock.Anything, "c1").Return(&entity.Category{ID: "c1", ProductCount: 0}, nil)
	categories.On("Delete", mock.Anything, "c1").Return(nil)

	require.NoError(t, svc.DeleteCategory(context.Background(), "c1"))
	categories.AssertExpectations(t)
}

func TestCatalogService_CreateProduct_UnknownCategory(t *testing.T) {
	categories := new(MockCategoryRepository)
	products := new(MockProductRepository)
	svc := newCatalogService(categories, products)

	categories.On("GetByID", mock.Anything, "nope").Return(nil, repository.ErrNotFound)

	err := svc.CreateProduct(context.Background(), &entity.Product{Name: "Thing", CategoryID: "nope"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_CreateProduct_DuplicateSKU(t *testing.T) {
	categories := new(MockCategoryRepository)
	products := new(MockProductRepository)
	svc := newCatalogService(categories, products)

	categories.On("GetByID", mock.Anything, "c1").Return(&entity.Category{ID: "c1"}, nil)
	products.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	err := svc.CreateProduct(context.Background(), &entity.Product{Name: "Thing", SKU: "SKU-1", CategoryID: "c1"})
	assert.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestCatalogService_GetProduct_BumpsViewCount(t *testing.T) {
	products := new(MockProductRepository)
	svc := newCatalogService(new(MockCategoryRepository), products)

	products.On("GetByID", mock.Anything, "p1").Return(&entity.Product{ID: "p1", ViewCount: 41}, nil)
	products.On("IncrementViewCount", mock.Anything, "p1").Return(nil)

	p, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 42, p.ViewCount)
}

func TestCatalogService_ListProducts_Defaults(t *testing.T) {
	products := new(MockProductRepository)
	svc := newCatalogService(new(MockCategoryRepository), products)

	products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Page == 1 && f.Limit == 12
	})).Return([]entity.Product{}, int64(0), nil)

	_, _, err := svc.ListProducts(context.Background(), repository.ProductFilter{Page: 0, Limit: 500})
	require.NoError(t, err)
	products.AssertExpectations(t)
}

func TestCatalogService_SearchProducts_SQLFallbackWhenIndexDisabled(t *testing.T) {
	products := new(MockProductRepository)
	svc := newCatalogService(new(MockCategoryRepository), products)

	products.On("Search", mock.Anything, "earbuds", 10).Return([]entity.Product{{ID: "p1"}}, nil)

	out, err := svc.SearchProducts(context.Background(), "earbuds", 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ID)
}

func TestCatalogService_UploadProductImage_StorageDisabled(t *testing.T) {
	svc := newCatalogService(new(MockCategoryRepository), new(MockProductRepository))

	_, err := svc.UploadProductImage(context.Background(), "p1", nil, "pic.jpg", "image/jpeg")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
