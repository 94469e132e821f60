package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrReviewForbidden = errors.New("you can only modify your own reviews")
	ErrDuplicateReview = errors.New("you have already reviewed this product")
)

// ReviewService handles review writes and moderation. Every write finishes
// with an explicit rating recompute on the product so the aggregate always
// reflects the current approved set.
type ReviewService struct {
	Reviews  repository.ReviewRepository
	Products repository.ProductRepository
	Logger   *logrus.Logger
}

func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, logger *logrus.Logger) *ReviewService {
	return &ReviewService{Reviews: reviews, Products: products, Logger: logger}
}

// ListForProduct returns approved reviews only.
func (s *ReviewService) ListForProduct(ctx context.Context, productID string, rating *int, page, limit int) ([]entity.Review, int64, error) {
	approved := true
	f := repository.ReviewFilter{
		ProductID: productID,
		Rating:    rating,
		Approved:  &approved,
		Page:      page,
		Limit:     limit,
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
	return s.Reviews.List(ctx, f)
}

func (s *ReviewService) MyReviews(ctx context.Context, userID string, page, limit int) ([]entity.Review, int64, error) {
	f := repository.ReviewFilter{UserID: userID, Page: page, Limit: limit}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
	return s.Reviews.List(ctx, f)
}

func (s *ReviewService) ListAll(ctx context.Context, f repository.ReviewFilter) ([]entity.Review, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
	return s.Reviews.List(ctx, f)
}

func (s *ReviewService) Create(ctx context.Context, rv *entity.Review) error {
	if _, err := s.Products.GetByID(ctx, rv.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if err := s.Reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateReview
		}
		return err
	}
	s.refresh(ctx, rv.ProductID)
	return nil
}

// Update edits the caller's review; it returns to pending moderation.
func (s *ReviewService) Update(ctx context.Context, userID, reviewID string, rating int, title, comment string) (*entity.Review, error) {
	rv, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if rv.UserID != userID {
		return nil, ErrReviewForbidden
	}
	rv.Rating = rating
	rv.Title = title
	rv.Comment = comment
	if err := s.Reviews.Update(ctx, rv); err != nil {
		return nil, err
	}
	s.refresh(ctx, rv.ProductID)
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, requester *entity.User, reviewID string) error {
	rv, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if rv.UserID != requester.ID && !requester.IsAdmin() {
		return ErrReviewForbidden
	}
	if err := s.Reviews.Delete(ctx, reviewID); err != nil {
		return err
	}
	s.refresh(ctx, rv.ProductID)
	return nil
}

func (s *ReviewService) SetApproved(ctx context.Context, reviewID string, approved bool) (*entity.Review, error) {
	rv, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if err := s.Reviews.SetApproved(ctx, reviewID, approved); err != nil {
		return nil, err
	}
	rv.IsApproved = approved
	s.refresh(ctx, rv.ProductID)
	return rv, nil
}

func (s *ReviewService) refresh(ctx context.Context, productID string) {
	if err := s.Products.RefreshRating(ctx, productID); err != nil {
		s.Logger.WithError(err).WithField("product_id", productID).Error("rating recompute failed")
	}
}
