package service

import (
	"context"
	"strings"
	"time"

	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/repository"

	"github.com/google/uuid"
)

type PhotoService interface {
	// Upload stores the image and records it pending moderation.
	Upload(ctx context.Context, actor Actor, category string, file Upload) (*dto.PhotoUploadResponse, error)
	ListApproved(ctx context.Context, category string) ([]dto.PhotoResponse, error)
	ListAll(ctx context.Context) ([]dto.PhotoResponse, error)
	Approve(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]string, error)
}

type photoService struct {
	repo   repository.PhotoRepository
	images ImageStore
}

func NewPhotoService(repo repository.PhotoRepository, images ImageStore) PhotoService {
	return &photoService{repo: repo, images: images}
}

func (s *photoService) Upload(ctx context.Context, actor Actor, category string, file Upload) (*dto.PhotoUploadResponse, error) {
	url, err := saveImage(s.images, bucketPhotos, prefixPhotos, file)
	if err != nil {
		return nil, err
	}
	uploader := actor.UserID
	p := &model.Photo{URL: url, UploadedBy: &uploader, Approved: model.ApprovalPending}
	if c := strings.TrimSpace(category); c != "" {
		p.Category = &c
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return &dto.PhotoUploadResponse{Message: "Photo uploaded successfully", PhotoID: p.ID.String()}, nil
}

func (s *photoService) ListApproved(ctx context.Context, category string) ([]dto.PhotoResponse, error) {
	photos, err := s.repo.ListApproved(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	return toPhotoResponses(photos), nil
}

func (s *photoService) ListAll(ctx context.Context) ([]dto.PhotoResponse, error) {
	photos, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toPhotoResponses(photos), nil
}

func (s *photoService) Approve(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.SetApproval(ctx, id, model.ApprovalApproved), "Photo not found")
}

func (s *photoService) Reject(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.SetApproval(ctx, id, model.ApprovalRejected), "Photo not found")
}

func (s *photoService) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

func toPhotoResponses(photos []model.Photo) []dto.PhotoResponse {
	out := make([]dto.PhotoResponse, len(photos))
	for i, p := range photos {
		out[i] = dto.PhotoResponse{
			ID:         p.ID.String(),
			URL:        p.URL,
			Category:   p.Category,
			UploadedBy: uuidPtrString(p.UploadedBy),
			Approved:   int(p.Approved),
			CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return out
}
