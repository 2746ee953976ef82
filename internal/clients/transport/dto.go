package transport

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ClientResponse represents a client directory record in API responses.
type ClientResponse struct {
	ID                uuid.UUID       `json:"id"`
	DisplayName       string          `json:"displayName"`
	Status            string          `json:"status"`
	DeliveriesAllowed bool            `json:"deliveriesAllowed"`
	ServiceType       string          `json:"serviceType"`
	ExpirationDate    *string         `json:"expirationDate,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	UpcomingOrder     json.RawMessage `json:"upcomingOrder,omitempty"`
	CreatedAt         string          `json:"createdAt"`
	UpdatedAt         string          `json:"updatedAt"`
}

// ClientListResponse wraps a page of clients.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Total int              `json:"total"`
}

// ListClientsRequest carries list pagination parameters.
type ListClientsRequest struct {
	Limit  int `form:"limit" validate:"omitempty,min=1,max=500"`
	Offset int `form:"offset" validate:"omitempty,min=0"`
}

// PutUpcomingOrderRequest carries a replacement upcoming-order configuration.
// The document is validated by decoding it into the tagged union before it is
// stored; shapes the decoder rejects never reach the directory.
type PutUpcomingOrderRequest struct {
	Config json.RawMessage `json:"config" validate:"required"`
}
