package repository

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/shopsphere/storefront/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	// Get returns (nil, nil) when the product does not exist.
	Get(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	List(ctx context.Context, req models.ListProductsRequest) ([]models.Product, int, error)
}

type productRepository struct {
	client *firestore.Client
}

func NewProductRepo(client *firestore.Client) ProductRepository {
	return &productRepository{client: client}
}

func (r *productRepository) col() *firestore.CollectionRef {
	return r.client.Collection("products")
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.col().Doc(product.ID).Create(dbCtx, product)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("product repository: id is empty")
	}

	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	snap, err := r.col().Doc(id).Get(dbCtx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var product models.Product
	if err := snap.DataTo(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}

	product.ID = snap.Ref.ID

	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.col().Doc(product.ID).Set(dbCtx, product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

func (r *productRepository) List(ctx context.Context, req models.ListProductsRequest) ([]models.Product, int, error) {
	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	q := r.col().Query
	if req.Category != "" {
		q = q.Where("category", "==", req.Category)
	}

	// Total via a refs-only scan; the catalog is small enough that an
	// aggregation query is not worth the extra plumbing.
	refs, err := q.Select().Documents(dbCtx).GetAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	total := len(refs)

	docs, err := q.OrderBy("createdAt", firestore.Desc).
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Documents(dbCtx).GetAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))

	for _, snap := range docs {
		var product models.Product
		if err := snap.DataTo(&product); err != nil {
			return nil, 0, fmt.Errorf("failed to decode product %s: %w", snap.Ref.ID, err)
		}

		product.ID = snap.Ref.ID
		products = append(products, product)
	}

	return products, total, nil
}
