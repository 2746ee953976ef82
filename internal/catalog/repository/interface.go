package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Vendor represents a delivery vendor and its calendar.
type Vendor struct {
	ID                uuid.UUID
	Name              string
	Email             string
	DeliveryDays      []string
	CutoffHours       int
	Active            bool
	MinimumOrderCents int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Category represents an item category with its own active flag.
type Category struct {
	ID     uuid.UUID
	Name   string
	Active bool
}

// Item represents a catalog item (menu item or meal item).
// VendorID is nil for box-universal items. CategoryActive is nil when the
// item has no category.
type Item struct {
	ID             uuid.UUID
	Name           string
	VendorID       *uuid.UUID
	ValueCents     int64
	Active         bool
	CategoryID     *uuid.UUID
	CategoryActive *bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BoxType represents a box configuration template.
type BoxType struct {
	ID          uuid.UUID
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateVendorParams contains data for creating a vendor.
type CreateVendorParams struct {
	Name              string
	Email             string
	DeliveryDays      []string
	CutoffHours       int
	Active            bool
	MinimumOrderCents int64
}

// UpdateVendorParams contains data for updating a vendor.
type UpdateVendorParams struct {
	ID                uuid.UUID
	Name              *string
	Email             *string
	DeliveryDays      []string
	CutoffHours       *int
	Active            *bool
	MinimumOrderCents *int64
}

// CreateItemParams contains data for creating a catalog item.
type CreateItemParams struct {
	Name       string
	VendorID   *uuid.UUID
	ValueCents int64
	Active     bool
	CategoryID *uuid.UUID
}

// UpdateItemParams contains data for updating a catalog item.
type UpdateItemParams struct {
	ID         uuid.UUID
	Name       *string
	VendorID   *uuid.UUID
	ValueCents *int64
	Active     *bool
	CategoryID *uuid.UUID
}

// Repository defines catalog storage operations.
type Repository interface {
	ListVendors(ctx context.Context) ([]Vendor, error)
	GetVendorByID(ctx context.Context, id uuid.UUID) (Vendor, error)
	CreateVendor(ctx context.Context, params CreateVendorParams) (Vendor, error)
	UpdateVendor(ctx context.Context, params UpdateVendorParams) (Vendor, error)
	DeleteVendor(ctx context.Context, id uuid.UUID) error

	ListItems(ctx context.Context) ([]Item, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (Item, error)
	CreateItem(ctx context.Context, params CreateItemParams) (Item, error)
	UpdateItem(ctx context.Context, params UpdateItemParams) (Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]Category, error)
	ListBoxTypes(ctx context.Context) ([]BoxType, error)
}
