// Package service implements catalog business logic.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mealbenefits_backend/internal/catalog/repository"
	"mealbenefits_backend/internal/catalog/transport"
	"mealbenefits_backend/platform/logger"
)

// Service implements catalog operations.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// LoadSnapshot loads all reference data in one concurrent preload. Runs call
// this once before iterating clients.
func (s *Service) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	var (
		vendors  []repository.Vendor
		items    []repository.Item
		boxTypes []repository.BoxType
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vendors, err = s.repo.ListVendors(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.ListItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		boxTypes, err = s.repo.ListBoxTypes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.DatabaseError("load catalog snapshot", err)
		return nil, err
	}

	return NewSnapshot(vendors, items, boxTypes), nil
}

// ListVendors returns all vendors.
func (s *Service) ListVendors(ctx context.Context) ([]transport.VendorResponse, error) {
	vendors, err := s.repo.ListVendors(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, toVendorResponse(v))
	}
	return out, nil
}

// GetVendorByID returns a single vendor.
func (s *Service) GetVendorByID(ctx context.Context, id uuid.UUID) (transport.VendorResponse, error) {
	v, err := s.repo.GetVendorByID(ctx, id)
	if err != nil {
		return transport.VendorResponse{}, err
	}
	return toVendorResponse(v), nil
}

// CreateVendor creates a vendor.
func (s *Service) CreateVendor(ctx context.Context, req transport.CreateVendorRequest) (transport.VendorResponse, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	v, err := s.repo.CreateVendor(ctx, repository.CreateVendorParams{
		Name:              req.Name,
		Email:             req.Email,
		DeliveryDays:      req.DeliveryDays,
		CutoffHours:       req.CutoffHours,
		Active:            active,
		MinimumOrderCents: req.MinimumOrderCents,
	})
	if err != nil {
		return transport.VendorResponse{}, err
	}
	return toVendorResponse(v), nil
}

// UpdateVendor updates a vendor.
func (s *Service) UpdateVendor(ctx context.Context, id uuid.UUID, req transport.UpdateVendorRequest) (transport.VendorResponse, error) {
	v, err := s.repo.UpdateVendor(ctx, repository.UpdateVendorParams{
		ID:                id,
		Name:              req.Name,
		Email:             req.Email,
		DeliveryDays:      req.DeliveryDays,
		CutoffHours:       req.CutoffHours,
		Active:            req.Active,
		MinimumOrderCents: req.MinimumOrderCents,
	})
	if err != nil {
		return transport.VendorResponse{}, err
	}
	return toVendorResponse(v), nil
}

// DeleteVendor deletes a vendor.
func (s *Service) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteVendor(ctx, id)
}

// ListItems returns all catalog items.
func (s *Service) ListItems(ctx context.Context) ([]transport.ItemResponse, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out, nil
}

// GetItemByID returns a single catalog item.
func (s *Service) GetItemByID(ctx context.Context, id uuid.UUID) (transport.ItemResponse, error) {
	it, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return transport.ItemResponse{}, err
	}
	return toItemResponse(it), nil
}

// CreateItem creates a catalog item.
func (s *Service) CreateItem(ctx context.Context, req transport.CreateItemRequest) (transport.ItemResponse, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	it, err := s.repo.CreateItem(ctx, repository.CreateItemParams{
		Name:       req.Name,
		VendorID:   req.VendorID,
		ValueCents: req.ValueCents,
		Active:     active,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return transport.ItemResponse{}, err
	}
	return toItemResponse(it), nil
}

// UpdateItem updates a catalog item.
func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, req transport.UpdateItemRequest) (transport.ItemResponse, error) {
	it, err := s.repo.UpdateItem(ctx, repository.UpdateItemParams{
		ID:         id,
		Name:       req.Name,
		VendorID:   req.VendorID,
		ValueCents: req.ValueCents,
		Active:     req.Active,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return transport.ItemResponse{}, err
	}
	return toItemResponse(it), nil
}

// DeleteItem deletes a catalog item.
func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteItem(ctx, id)
}

// ListCategories returns all item categories.
func (s *Service) ListCategories(ctx context.Context) ([]transport.CategoryResponse, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, transport.CategoryResponse{ID: c.ID, Name: c.Name, Active: c.Active})
	}
	return out, nil
}

// ListBoxTypes returns all box type definitions.
func (s *Service) ListBoxTypes(ctx context.Context) ([]transport.BoxTypeResponse, error) {
	boxTypes, err := s.repo.ListBoxTypes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.BoxTypeResponse, 0, len(boxTypes))
	for _, b := range boxTypes {
		out = append(out, transport.BoxTypeResponse{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Active:      b.Active,
		})
	}
	return out, nil
}

func toVendorResponse(v repository.Vendor) transport.VendorResponse {
	return transport.VendorResponse{
		ID:                v.ID,
		Name:              v.Name,
		Email:             v.Email,
		DeliveryDays:      v.DeliveryDays,
		CutoffHours:       v.CutoffHours,
		Active:            v.Active,
		MinimumOrderCents: v.MinimumOrderCents,
		CreatedAt:         v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         v.UpdatedAt.Format(time.RFC3339),
	}
}

func toItemResponse(it repository.Item) transport.ItemResponse {
	return transport.ItemResponse{
		ID:         it.ID,
		Name:       it.Name,
		VendorID:   it.VendorID,
		ValueCents: it.ValueCents,
		Active:     it.Active,
		CategoryID: it.CategoryID,
		CreatedAt:  it.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  it.UpdatedAt.Format(time.RFC3339),
	}
}
