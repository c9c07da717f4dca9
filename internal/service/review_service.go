package service

import (
	"context"
	"strings"
	"time"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/repository"

	"github.com/google/uuid"
)

// CreateReviewInput is the parsed multipart form of a review submission.
type CreateReviewInput struct {
	Rating     int
	ReviewText string
	Photo      *Upload
}

type ReviewService interface {
	Create(ctx context.Context, actor Actor, in CreateReviewInput) (*dto.CreateReviewResponse, error)
	ListApproved(ctx context.Context) ([]dto.ReviewResponse, error)
	ListAll(ctx context.Context) ([]dto.ReviewResponse, error)
	Approve(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID) error
}

type reviewService struct {
	repo   repository.ReviewRepository
	images ImageStore
}

func NewReviewService(repo repository.ReviewRepository, images ImageStore) ReviewService {
	return &reviewService{repo: repo, images: images}
}

func (s *reviewService) Create(ctx context.Context, actor Actor, in CreateReviewInput) (*dto.CreateReviewResponse, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apierror.BadRequest("Rating must be between 1 and 5")
	}
	text := strings.TrimSpace(in.ReviewText)
	if text == "" {
		return nil, apierror.BadRequest("Review text cannot be empty")
	}

	r := &model.Review{
		UserID:     actor.UserID,
		Rating:     in.Rating,
		ReviewText: text,
		Approved:   model.ApprovalPending,
	}
	if in.Photo != nil {
		url, err := saveImage(s.images, bucketReviews, prefixReviews, *in.Photo)
		if err != nil {
			return nil, err
		}
		r.ReviewPhoto = &url
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return &dto.CreateReviewResponse{Message: "Review submitted successfully", Review: toReviewResponse(r)}, nil
}

func (s *reviewService) ListApproved(ctx context.Context) ([]dto.ReviewResponse, error) {
	reviews, err := s.repo.ListByApproval(ctx, model.ApprovalApproved)
	if err != nil {
		return nil, err
	}
	return toReviewResponses(reviews), nil
}

func (s *reviewService) ListAll(ctx context.Context) ([]dto.ReviewResponse, error) {
	reviews, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toReviewResponses(reviews), nil
}

func (s *reviewService) Approve(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.SetApproval(ctx, id, model.ApprovalApproved), "Review not found")
}

func (s *reviewService) Reject(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.SetApproval(ctx, id, model.ApprovalRejected), "Review not found")
}

func toReviewResponses(reviews []model.Review) []dto.ReviewResponse {
	out := make([]dto.ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = toReviewResponse(&reviews[i])
	}
	return out
}

func toReviewResponse(r *model.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:          r.ID.String(),
		UserID:      r.UserID.String(),
		Rating:      r.Rating,
		ReviewText:  r.ReviewText,
		ReviewPhoto: r.ReviewPhoto,
		Approved:    int(r.Approved),
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
