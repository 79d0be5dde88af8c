package service

import (
	"strings"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

// ListReviews 商品评价列表
func (s *ReviewService) ListReviews(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	product, err := s.productRepo.GetByID(filter.ProductID)
	if err != nil {
		return nil, 0, err
	}
	if product == nil {
		return nil, 0, ErrProductNotFound
	}
	return s.reviewRepo.ListByProduct(filter)
}

// CreateReviewInput 创建评价参数
type CreateReviewInput struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// CreateReview 创建评价（评分 1-5，每个用户对每个商品限一条）
func (s *ReviewService) CreateReview(actor *models.User, productID uint, input CreateReviewInput) (*models.Review, error) {
	if input.Rating < constants.ReviewRatingMin || input.Rating > constants.ReviewRatingMax {
		return nil, ErrInvalidRating
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	existing, err := s.reviewRepo.GetByProductAndUser(productID, actor.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    actor.ID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview 删除评价（本人或管理员）
func (s *ReviewService) DeleteReview(actor *models.User, productID, userID uint) error {
	review, err := s.reviewRepo.GetByProductAndUser(productID, userID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if actor == nil || (!actor.IsAdmin() && review.UserID != actor.ID) {
		return ErrPermissionDenied
	}
	return s.reviewRepo.Delete(review.ID)
}
