package service

import (
	"context"
	"time"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/repository"

	"github.com/google/uuid"
)

type WishlistService interface {
	Add(ctx context.Context, actor Actor, productID uuid.UUID) (*dto.MessageResponse, error)
	Remove(ctx context.Context, actor Actor, productID uuid.UUID) (*dto.MessageResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.WishlistItemResponse, error)
}

type wishlistService struct {
	repo     repository.WishlistRepository
	products repository.ProductRepository
}

func NewWishlistService(repo repository.WishlistRepository, products repository.ProductRepository) WishlistService {
	return &wishlistService{repo: repo, products: products}
}

func (s *wishlistService) Add(ctx context.Context, actor Actor, productID uuid.UUID) (*dto.MessageResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, notFound(err, "Product not found")
	}
	exists, err := s.repo.Exists(ctx, actor.UserID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apierror.BadRequest("Product already in wishlist")
	}
	if err := s.repo.Add(ctx, &model.WishlistItem{UserID: actor.UserID, ProductID: productID}); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "Product added to wishlist"}, nil
}

func (s *wishlistService) Remove(ctx context.Context, actor Actor, productID uuid.UUID) (*dto.MessageResponse, error) {
	removed, err := s.repo.Remove(ctx, actor.UserID, productID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, apierror.NotFound("Item not found in wishlist")
	}
	return &dto.MessageResponse{Message: "Item removed from wishlist"}, nil
}

func (s *wishlistService) List(ctx context.Context, actor Actor) ([]dto.WishlistItemResponse, error) {
	items, err := s.repo.List(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WishlistItemResponse, 0, len(items))
	for _, it := range items {
		resp := dto.WishlistItemResponse{
			ProductID: it.ProductID.String(),
			AddedAt:   it.CreatedAt.UTC().Format(time.RFC3339),
		}
		if it.Product != nil {
			resp.Product = toProductResponse(it.Product)
		}
		out = append(out, resp)
	}
	return out, nil
}
