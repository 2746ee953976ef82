// Package transport defines request and response DTOs for the catalog module.
package transport

import "github.com/google/uuid"

// VendorResponse is the API representation of a vendor.
type VendorResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	DeliveryDays      []string  `json:"deliveryDays"`
	CutoffHours       int       `json:"cutoffHours"`
	Active            bool      `json:"active"`
	MinimumOrderCents int64     `json:"minimumOrderCents"`
	CreatedAt         string    `json:"createdAt"`
	UpdatedAt         string    `json:"updatedAt"`
}

// ItemResponse is the API representation of a catalog item.
type ItemResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	VendorID   *uuid.UUID `json:"vendorId,omitempty"`
	ValueCents int64      `json:"valueCents"`
	Active     bool       `json:"active"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty"`
	CreatedAt  string     `json:"createdAt"`
	UpdatedAt  string     `json:"updatedAt"`
}

// CategoryResponse is the API representation of an item category.
type CategoryResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// BoxTypeResponse is the API representation of a box type.
type BoxTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
}

// CreateVendorRequest creates a vendor.
type CreateVendorRequest struct {
	Name              string   `json:"name" validate:"required,min=1,max=200"`
	Email             string   `json:"email" validate:"omitempty,email"`
	DeliveryDays      []string `json:"deliveryDays" validate:"omitempty,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	CutoffHours       int      `json:"cutoffHours" validate:"gte=0"`
	Active            *bool    `json:"active"`
	MinimumOrderCents int64    `json:"minimumOrderCents" validate:"gte=0"`
}

// UpdateVendorRequest updates a vendor; nil fields are left unchanged.
type UpdateVendorRequest struct {
	Name              *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Email             *string  `json:"email" validate:"omitempty,email"`
	DeliveryDays      []string `json:"deliveryDays" validate:"omitempty,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	CutoffHours       *int     `json:"cutoffHours" validate:"omitempty,gte=0"`
	Active            *bool    `json:"active"`
	MinimumOrderCents *int64   `json:"minimumOrderCents" validate:"omitempty,gte=0"`
}

// CreateItemRequest creates a catalog item.
type CreateItemRequest struct {
	Name       string     `json:"name" validate:"required,min=1,max=200"`
	VendorID   *uuid.UUID `json:"vendorId"`
	ValueCents int64      `json:"valueCents" validate:"gte=0"`
	Active     *bool      `json:"active"`
	CategoryID *uuid.UUID `json:"categoryId"`
}

// UpdateItemRequest updates a catalog item; nil fields are left unchanged.
type UpdateItemRequest struct {
	Name       *string    `json:"name" validate:"omitempty,min=1,max=200"`
	VendorID   *uuid.UUID `json:"vendorId"`
	ValueCents *int64     `json:"valueCents" validate:"omitempty,gte=0"`
	Active     *bool      `json:"active"`
	CategoryID *uuid.UUID `json:"categoryId"`
}
