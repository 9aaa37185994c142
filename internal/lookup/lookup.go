// Package lookup fetches the external records needed to enrich
// event-triggered notifications, and probes dependent service health.
package lookup

import (
	"context"
	"fmt"
	"time"
)

// UserRecord is the user projection returned by the user service.
type UserRecord struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// OrderItem is a single line in an order.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderRecord is the order projection returned by the order service.
type OrderRecord struct {
	ID              string      `json:"id"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	ShippingAddress string      `json:"shippingAddress"`
}

// HealthStatus is the outcome of a single service health probe.
// Probes never fail: errors fold into StatusUnhealthy with a detail.
type HealthStatus struct {
	Service   string    `json:"service"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Error reports a failed lookup with the service that failed.
type Error struct {
	Service string
	Reason  string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("lookup failed for service %q: %s", e.Service, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client is the external lookup contract consumed by the pipeline.
type Client interface {
	FetchUser(ctx context.Context, id string) (*UserRecord, error)
	FetchOrder(ctx context.Context, id string) (*OrderRecord, error)
	CheckHealth(ctx context.Context, service string) HealthStatus
	Services() []string
}
