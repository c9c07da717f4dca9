package service

import (
	"context"
	"errors"
	"strings"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/metrics"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.CreateProductResponse, error)
	List(ctx context.Context) ([]dto.ProductResponse, error)
	GetByName(ctx context.Context, name string) (*dto.ProductResponse, error)
	// UpdateQuantity adds stock to an existing product or creates it.
	UpdateQuantity(ctx context.Context, req dto.UpdateQuantityRequest) (*dto.CreateProductResponse, error)
	UploadImages(ctx context.Context, productID uuid.UUID, files []Upload) (*dto.ImagesUploadedResponse, error)
	UploadImage(ctx context.Context, actor Actor, file Upload) (*dto.ImageURLResponse, error)
}

type productService struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	photos    repository.PhotoRepository
	ledger    stockLedger
	images    ImageStore
	cache     Cache
	metrics   *metrics.AppMetrics
}

func NewProductService(
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	photos repository.PhotoRepository,
	movements repository.StockMovementRepository,
	images ImageStore,
	cache Cache,
	m *metrics.AppMetrics,
) ProductService {
	return &productService{
		products:  products,
		suppliers: suppliers,
		photos:    photos,
		ledger:    stockLedger{products: products, movements: movements},
		images:    images,
		cache:     cache,
		metrics:   m,
	}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.CreateProductResponse, error) {
	name := strings.TrimSpace(req.Name)
	if _, err := s.products.FindByName(ctx, name); err == nil {
		return nil, apierror.BadRequest("Product already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	supplierID, err := s.resolveSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		Name:             name,
		Category:         req.Category,
		ReorderThreshold: req.ReorderThreshold,
		CostPrice:        req.CostPrice,
		Price:            req.Price,
		SupplierID:       supplierID,
		ImageURL:         req.ImageURL,
	}
	if err := s.createWithStock(ctx, p, req.StockLevel); err != nil {
		return nil, err
	}
	s.evict(ctx, p.Name)
	return &dto.CreateProductResponse{Message: "Product added successfully", Product: toProductResponse(p)}, nil
}

// createWithStock inserts p with zero stock and books the opening quantity
// as an initial_stock movement, so the ledger accounts for every unit.
func (s *productService) createWithStock(ctx context.Context, p *model.Product, qty int) error {
	return runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		p.StockLevel = 0
		if err := s.products.CreateTx(tx, p); err != nil {
			return err
		}
		if qty <= 0 {
			return nil
		}
		updated, err := s.ledger.apply(tx, stockChange{
			ProductID:   p.ID,
			ProductName: p.Name,
			StockDelta:  qty,
			Quantity:    qty,
			Type:        model.MovementInitialStock,
			Reason:      "product created",
		})
		if err != nil {
			return err
		}
		p.StockLevel = updated.StockLevel
		return nil
	})
}

func (s *productService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	return out, nil
}

func (s *productService) GetByName(ctx context.Context, name string) (*dto.ProductResponse, error) {
	var cached dto.ProductResponse
	if hit, err := s.cache.Get(ctx, name, &cached); err != nil {
		log.Warn().Err(err).Str("product", name).Msg("product cache read failed")
	} else if hit {
		s.metrics.RecordCache(ctx, "product", true)
		return &cached, nil
	}
	s.metrics.RecordCache(ctx, "product", false)

	p, err := s.products.FindByName(ctx, name)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	resp := toProductResponse(p)
	if err := s.cache.Set(ctx, name, resp); err != nil {
		log.Warn().Err(err).Str("product", name).Msg("product cache write failed")
	}
	return &resp, nil
}

func (s *productService) UpdateQuantity(ctx context.Context, req dto.UpdateQuantityRequest) (*dto.CreateProductResponse, error) {
	if req.StockLevel <= 0 {
		return nil, apierror.BadRequest("Quantity must be positive")
	}
	name := strings.TrimSpace(req.Name)
	supplierID, err := s.resolveSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	existing, err := s.products.FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p := &model.Product{Name: name, SupplierID: supplierID}
		if err := s.createWithStock(ctx, p, req.StockLevel); err != nil {
			return nil, err
		}
		s.evict(ctx, name)
		return &dto.CreateProductResponse{Message: "Product added successfully", Product: toProductResponse(p)}, nil
	}
	if err != nil {
		return nil, err
	}

	var updated *model.Product
	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		var err error
		updated, err = s.ledger.apply(tx, stockChange{
			ProductID:   existing.ID,
			ProductName: existing.Name,
			StockDelta:  req.StockLevel,
			Quantity:    req.StockLevel,
			Type:        model.MovementSupply,
			Reason:      "supplier delivery",
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	existing.StockLevel = updated.StockLevel
	existing.ReservedStock = updated.ReservedStock
	s.evict(ctx, name)
	return &dto.CreateProductResponse{
		Message: "Product quantity updated successfully",
		Product: toProductResponse(existing),
	}, nil
}

func (s *productService) UploadImages(ctx context.Context, productID uuid.UUID, files []Upload) (*dto.ImagesUploadedResponse, error) {
	if len(files) == 0 {
		return nil, apierror.BadRequest("No files uploaded")
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}

	images := make([]model.ProductImage, 0, len(files))
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := saveImage(s.images, bucketPhotos, prefixPhotos, f)
		if err != nil {
			return nil, err
		}
		images = append(images, model.ProductImage{ProductID: p.ID, ImageURL: url})
		urls = append(urls, url)
	}
	if err := s.products.AddImages(ctx, images); err != nil {
		return nil, err
	}
	s.evict(ctx, p.Name)
	return &dto.ImagesUploadedResponse{Message: "Images uploaded successfully", ImageURLs: urls}, nil
}

func (s *productService) UploadImage(ctx context.Context, actor Actor, file Upload) (*dto.ImageURLResponse, error) {
	url, err := saveImage(s.images, bucketPhotos, prefixPhotos, file)
	if err != nil {
		return nil, err
	}
	uploader := actor.UserID
	if err := s.photos.Create(ctx, &model.Photo{
		URL:        url,
		UploadedBy: &uploader,
		Approved:   model.ApprovalApproved,
	}); err != nil {
		return nil, err
	}
	return &dto.ImageURLResponse{ImageURL: url}, nil
}

func (s *productService) resolveSupplier(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apierror.BadRequest("Invalid supplier id")
	}
	if _, err := s.suppliers.FindByID(ctx, id); err != nil {
		return nil, notFound(err, "Supplier not found")
	}
	return &id, nil
}

func (s *productService) evict(ctx context.Context, name string) {
	if err := s.cache.Delete(ctx, name); err != nil {
		log.Warn().Err(err).Str("product", name).Msg("product cache evict failed")
	}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	urls := make([]string, 0, len(p.Images)+1)
	if p.ImageURL != "" {
		urls = append(urls, p.ImageURL)
	}
	for _, img := range p.Images {
		urls = append(urls, img.ImageURL)
	}
	return dto.ProductResponse{
		ID:               p.ID.String(),
		Name:             p.Name,
		Category:         p.Category,
		StockLevel:       p.StockLevel,
		ReservedStock:    p.ReservedStock,
		ReorderThreshold: p.ReorderThreshold,
		CostPrice:        p.CostPrice,
		Price:            p.Price,
		SupplierID:       uuidPtrString(p.SupplierID),
		ImageURL:         p.ImageURL,
		ImageURLs:        urls,
	}
}
