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

func TestReviewService_Create_RefreshesRating(t *testing.T) {
	reviews := new(MockReviewRepository)
	products := new(MockProductRepository)
	svc := NewReviewService(reviews, products, testLogger())

	products.On("GetByID", mock.Anything, "p1").Return(&entity.Product{ID: "p1"}, nil)
	reviews.On("Create", mock.Anything, mock.AnythingOfType("*entity.Review")).Return(nil)
	products.On("RefreshRating", mock.Anything, "p1").Return(nil)

	err := svc.Create(context.Background(), &entity.Review{UserID: "u1", ProductID: "p1", Rating: 4, Comment: "solid"})
	require.NoError(t, err)
	products.AssertCalled(t, "RefreshRating", mock.Anything, "p1")
}

func TestReviewService_Create_Duplicate(t *testing.T) {
	reviews := new(MockReviewRepository)
	products := new(MockProductRepository)
	svc := NewReviewService(reviews, products, testLogger())

	products.On("GetByID", mock.Anything, "p1").Return(&entity.Product{ID: "p1"}, nil)
	reviews.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	err := svc.Create(context.Background(), &entity.Review{UserID: "u1", ProductID: "p1", Rating: 5, Comment: "again"})
	assert.ErrorIs(t, err, ErrDuplicateReview)
	products.AssertNotCalled(t, "RefreshRating", mock.Anything, mock.Anything)
}

func TestReviewService_Create_UnknownProduct(t *testing.T) {
	reviews := new(MockReviewRepository)
	products := new(MockProductRepository)
	svc := NewReviewService(reviews, products, testLogger())

	products.On("GetByID", mock.Anything, "gone").Return(nil, repository.ErrNotFound)

	err := svc.Create(context.Background(), &entity.Review{UserID: "u1", ProductID: "gone", Rating: 3, Comment: "?"})
	assert.ErrorIs(t, err, ErrProductNotFound)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewService_Update_OwnerOnly(t *testing.T) {
	reviews := new(MockReviewRepository)
	products := new(MockProductRepository)
	svc := NewReviewService(reviews, products, testLogger())

	reviews.On("GetByID", mock.Anything, "r1").Return(&entity.Review{ID: "r1", UserID: "u1", ProductID: "p1", Rating: 2}, nil)

	_, err := svc.Update(context.Background(), "u2", "r1", 5, "", "mine now")
	assert.ErrorIs(t, err, ErrReviewForbidden)
	reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReviewService_Update_Success(t *testing.T) {
	reviews := new(MockReviewRepository)
	products := new(MockProductRepository)
	svc := NewReviewService(reviews, products, testLogger())

	reviews.On("GetByID", mock.Anything, "r1").Return(&entity.Review{ID: "r1", UserID: "u1", ProductID: "p1", Rating: 2}, nil)
	reviews.On("Update", mock.Anything, mock.AnythingOfType("*entity.Review")).Return(nil)
	products.On("RefreshRating", mock.Anything, "p1").Return(nil)

	rv, err := svc.Update(context.Background(), "u1", "r1", 4, "better", "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, 4, rv.Rating)
	assert.Equal(t, "better", rv.Title)
	products.AssertCalled(t, "RefreshRating", mock.Anything, "p1")
}

func TestReviewService_Delete_AdminCanDeleteAny(t *testing.T) {
	reviews := new(MockReviewRepository)
	products := new(MockProductRepository)
	svc := NewReviewService(reviews, products, testLogger())

	reviews.On("GetByID", mock.Anything, "r1").Return(&entity.Review{ID: "r1", UserID: "u1", ProductID: "p1"}, nil)
	reviews.On("Delete", mock.Anything, "r1").Return(nil)
	products.On("RefreshRating", mock.Anything, "p1").Return(nil)

	admin := &entity.User{ID: "u9", Role: entity.RoleAdmin}
	require.NoError(t, svc.Delete(context.Background(), admin, "r1"))
	reviews.AssertExpectations(t)
}

func TestReviewService_Delete_StrangerForbidden(t *testing.T) {
	reviews := new(MockReviewRepository)
	svc := NewReviewService(reviews, new(MockProductRepository), testLogger())

	reviews.On("GetByID", mock.Anything, "r1").Return(&entity.Review{ID: "r1", UserID: "u1", ProductID: "p1"}, nil)

	stranger := &entity.User{ID: "u2", Role: entity.RoleCustomer}
	err := svc.Delete(context.Background(), stranger, "r1")
	assert.ErrorIs(t, err, ErrReviewForbidden)
}

func TestReviewService_SetApproved_RefreshesRating(t *testing.T) {
	reviews := new(MockReviewRepository)
	products := new(MockProductRepository)
	svc := NewReviewService(reviews, products, testLogger())

	reviews.On("GetByID", mock.Anything, "r1").Return(&entity.Review{ID: "r1", ProductID: "p1", IsApproved: false}, nil)
	reviews.On("SetApproved", mock.Anything, "r1", true).Return(nil)
	products.On("RefreshRating", mock.Anything, "p1").Return(nil)

	rv, err := svc.SetApproved(context.Background(), "r1", true)
	require.NoError(t, err)
	assert.True(t, rv.IsApproved)
	products.AssertCalled(t, "RefreshRating", mock.Anything, "p1")
}

func TestReviewService_ListForProduct_ForcesApprovedFilter(t *testing.T) {
	reviews := new(MockReviewRepository)
	svc := NewReviewService(reviews, new(MockProductRepository), testLogger())

	reviews.On("List", mock.Anything, mock.MatchedBy(func(f repository.ReviewFilter) bool {
		return f.ProductID == "p1" && f.Approved != nil && *f.Approved && f.Page == 1 && f.Limit == 10
	})).Return([]entity.Review{}, int64(0), nil)

	_, _, err := svc.ListForProduct(context.Background(), "p1", nil, 0, 0)
	require.NoError(t, err)
	reviews.AssertExpectations(t)
}
