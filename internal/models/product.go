package models

import "time"

type Product struct {
	ID          string    `json:"id"          firestore:"id"`
	SellerID    string    `json:"seller_id"   firestore:"sellerId"`
	Name        string    `json:"name"        firestore:"name"`
	Description string    `json:"description" firestore:"description"`
	Price       float64   `json:"price"       firestore:"price"`
	Stock       int       `json:"stock"       firestore:"stock"`
	Category    string    `json:"category"    firestore:"category"`
	ImageURL    string    `json:"image_url,omitempty" firestore:"imageUrl"`
	Status      string    `json:"status"      firestore:"status"`
	CreatedAt   time.Time `json:"created_at"  firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at"  firestore:"updatedAt"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required,min=3,max=200"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	Category    string  `json:"category"    validate:"required,min=2,max=100"`
	ImageURL    string  `json:"image_url"   validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"        validate:"omitempty,min=3,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price,omitempty"       validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock,omitempty"       validate:"omitempty,gte=0"`
	Category    *string  `json:"category,omitempty"    validate:"omitempty,min=2,max=100"`
	ImageURL    *string  `json:"image_url,omitempty"   validate:"omitempty,url"`
	Status      *string  `json:"status,omitempty"      validate:"omitempty,oneof=active inactive discontinued"`
}

type ListProductsRequest struct {
	Category string
	Page     int
	PageSize int
}
