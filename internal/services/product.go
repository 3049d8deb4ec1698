package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/shopsphere/storefront/internal/api/middleware"
	"github.com/shopsphere/storefront/internal/cache"
	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/models"
	repository "github.com/shopsphere/storefront/internal/repositories"
)

type ProductService struct {
	repo      repository.ProductRepository
	cache     cache.Cache
	sanitizer *bluemonday.Policy
}

// NewProductService accepts a nil cache; reads then always hit the store.
func NewProductService(repo repository.ProductRepository, productCache cache.Cache) *ProductService {
	// Seller-supplied text is rendered on the storefront; strip all markup.
	return &ProductService{repo: repo, cache: productCache, sanitizer: bluemonday.StrictPolicy()}
}

func (s *ProductService) CreateProduct(ctx context.Context, claims *models.Claims, req *models.CreateProductRequest) (*models.Product, error) {

	now := time.Now().UTC()

	product := &models.Product{
		ID:          uuid.NewString(),
		SellerID:    claims.UID,
		Name:        s.sanitizer.Sanitize(req.Name),
		Description: s.sanitizer.Sanitize(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, errors.RemoteUnavailableError("Failed to create product").WithError(err)
	}

	s.cacheProduct(ctx, product)

	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {

	if s.cache != nil {
		var cached models.Product

		found, err := s.cache.Get(ctx, cache.Key(cache.ProductKeyPrefix, id), &cached)
		if err != nil {
			middleware.LoggerFromContext(ctx).Warn("Product cache read failed",
				slog.String("productId", id), slog.String("error", err.Error()))
		} else if found {
			return &cached, nil
		}
	}

	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.RemoteUnavailableError("Failed to read product").WithError(err)
	}

	if product == nil {
		return nil, errors.NotFoundError("Product not found")
	}

	s.cacheProduct(ctx, product)

	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, claims *models.Claims, id string, req *models.UpdateProductRequest) (*models.Product, error) {

	// Patch against the store, not the cache; a stale cached copy would
	// resurrect fields the seller already changed.
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.RemoteUnavailableError("Failed to read product").WithError(err)
	}

	if product == nil {
		return nil, errors.NotFoundError("Product not found")
	}

	// Sellers touch only their own listings; admins touch anything.
	if claims.Role != models.RoleAdmin && product.SellerID != claims.UID {
		return nil, errors.ForbiddenError("Not the owner of this product")
	}

	if req.Name != nil {
		product.Name = s.sanitizer.Sanitize(*req.Name)
	}

	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}

	if req.Price != nil {
		product.Price = *req.Price
	}

	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if req.Category != nil {
		product.Category = *req.Category
	}

	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if req.Status != nil {
		product.Status = *req.Status
	}

	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, errors.RemoteUnavailableError("Failed to update product").WithError(err)
	}

	s.cacheProduct(ctx, product)

	return product, nil
}

// cacheProduct is best-effort; a cold or broken cache never fails the request.
func (s *ProductService) cacheProduct(ctx context.Context, product *models.Product) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, cache.Key(cache.ProductKeyPrefix, product.ID), product, 0); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product cache write failed",
			slog.String("productId", product.ID), slog.String("error", err.Error()))
	}
}

func (s *ProductService) ListProducts(ctx context.Context, req models.ListProductsRequest) (*models.PaginatedResponse, error) {

	if req.Page < 1 {
		req.Page = 1
	}

	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	products, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, errors.RemoteUnavailableError("Failed to list products").WithError(err)
	}

	return &models.PaginatedResponse{
		Data:     products,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
