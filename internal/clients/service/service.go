package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"mealbenefits_backend/internal/clients/repository"
	"mealbenefits_backend/internal/clients/transport"
	"mealbenefits_backend/internal/clients/upcoming"
	"mealbenefits_backend/platform/apperr"
	"mealbenefits_backend/platform/logger"
	"mealbenefits_backend/platform/phone"
)

// Service provides business logic for the client directory.
type Service struct {
	repo *repository.Repo
	log  *logger.Logger
}

// New creates a new client directory service.
func New(repo *repository.Repo, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID retrieves a client by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ClientResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ClientResponse{}, err
	}
	return toResponse(c), nil
}

// GetByPhone retrieves a client by phone number. The input is normalized to
// E.164 before lookup so voice-assistant callers can pass numbers as dialed.
func (s *Service) GetByPhone(ctx context.Context, rawPhone string) (transport.ClientResponse, error) {
	normalized := phone.NormalizeE164(rawPhone)
	if normalized == "" {
		return transport.ClientResponse{}, apperr.BadRequest("phone is required")
	}

	c, err := s.repo.GetByPhone(ctx, normalized)
	if err != nil {
		return transport.ClientResponse{}, err
	}
	return toResponse(c), nil
}

// List retrieves a page of clients.
func (s *Service) List(ctx context.Context, req transport.ListClientsRequest) (transport.ClientListResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = 50
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return transport.ClientListResponse{}, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return transport.ClientListResponse{}, err
	}

	responses := make([]transport.ClientResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}
	return transport.ClientListResponse{Items: responses, Total: total}, nil
}

// SetUpcomingOrder validates and stores a replacement upcoming-order
// configuration for the client.
func (s *Service) SetUpcomingOrder(ctx context.Context, id uuid.UUID, req transport.PutUpcomingOrderRequest) error {
	cfg, err := upcoming.Decode(req.Config)
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}
	if cfg == nil {
		return apperr.Validation("config must not be empty; use delete to clear")
	}

	raw, err := upcoming.Encode(cfg)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "encode upcoming order config", err)
	}

	if err := s.repo.SetUpcomingConfig(ctx, id, raw); err != nil {
		return err
	}

	s.log.Info("upcoming order config set", "client_id", id, "service_type", cfg.ServiceType)
	return nil
}

// ClearUpcomingOrder removes the client's upcoming-order configuration.
func (s *Service) ClearUpcomingOrder(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.ClearUpcomingConfig(ctx, id); err != nil {
		return err
	}
	s.log.Info("upcoming order config cleared", "client_id", id)
	return nil
}

// Directory exposes the raw records the order pipeline consumes.
// The pipeline needs stable pages, counts, and targeted fetches; it decodes
// each configuration itself so a malformed document skips one client instead
// of failing a page.
func (s *Service) Directory() *repository.Repo {
	return s.repo
}

func toResponse(c repository.Client) transport.ClientResponse {
	var expiration *string
	if c.ExpirationDate != nil {
		formatted := c.ExpirationDate.Format(time.DateOnly)
		expiration = &formatted
	}

	return transport.ClientResponse{
		ID:                c.ID,
		DisplayName:       c.DisplayName,
		Status:            c.StatusName,
		DeliveriesAllowed: c.DeliveriesAllowed,
		ServiceType:       c.ServiceType,
		ExpirationDate:    expiration,
		Phone:             c.Phone,
		UpcomingOrder:     json.RawMessage(c.UpcomingConfig),
		CreatedAt:         c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         c.UpdatedAt.Format(time.RFC3339),
	}
}
