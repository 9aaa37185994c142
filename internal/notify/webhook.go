package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/pikad/herald/internal/lookup"
	"github.com/pikad/herald/internal/metrics"
	"github.com/pikad/herald/internal/template"
)

// Event kinds accepted by the webhook mapper.
const (
	EventUserRegistered = "user_registered"
	EventOrderCreated   = "order_created"
	EventOrderShipped   = "order_shipped"
)

// UserRegisteredEvent announces a new account.
type UserRegisteredEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// OrderCreatedEvent announces a new order. Order and user details are
// fetched, not trusted from the event.
type OrderCreatedEvent struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
}

// OrderShippedEvent announces a shipped order. The shipment fields are
// trusted as given; only the recipient is resolved via lookup.
type OrderShippedEvent struct {
	OrderID           string `json:"orderId"`
	UserID            string `json:"userId"`
	TrackingNumber    string `json:"trackingNumber"`
	Carrier           string `json:"carrier"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// EventResult is the outcome of a handled event.
type EventResult struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
}

// WebhookHandler maps business events to templated notifications,
// enriching them through the lookup client where needed.
type WebhookHandler struct {
	notifier *Notifier
	lookups  lookup.Client
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewWebhookHandler creates the event mapper.
func NewWebhookHandler(notifier *Notifier, lookups lookup.Client, m *metrics.Metrics, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &WebhookHandler{notifier: notifier, lookups: lookups, metrics: m, logger: logger}
}

// HandleEvent decodes and dispatches a raw event payload by kind.
// Every outcome, including a payload that never decodes, lands in the
// webhook counters.
func (h *WebhookHandler) HandleEvent(ctx context.Context, kind string, payload json.RawMessage) (*EventResult, error) {
	result, err := h.dispatchEvent(ctx, kind, payload)
	h.metrics.RecordWebhook(kind, err == nil)
	return result, err
}

func (h *WebhookHandler) dispatchEvent(ctx context.Context, kind string, payload json.RawMessage) (*EventResult, error) {
	switch kind {
	case EventUserRegistered:
		var ev UserRegisteredEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, &EventError{Kind: kind, Reason: "invalid payload: " + err.Error()}
		}
		return h.HandleUserRegistered(ctx, ev)
	case EventOrderCreated:
		var ev OrderCreatedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, &EventError{Kind: kind, Reason: "invalid payload: " + err.Error()}
		}
		return h.HandleOrderCreated(ctx, ev)
	case EventOrderShipped:
		var ev OrderShippedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, &EventError{Kind: kind, Reason: "invalid payload: " + err.Error()}
		}
		return h.HandleOrderShipped(ctx, ev)
	default:
		return nil, &EventError{Kind: kind, Reason: "unknown event kind"}
	}
}

// HandleUserRegistered sends the welcome notification straight from
// the event; no enrichment is needed.
func (h *WebhookHandler) HandleUserRegistered(ctx context.Context, ev UserRegisteredEvent) (*EventResult, error) {
	h.logger.Info("handling user_registered event", "user_id", ev.UserID, "email", ev.Email)

	_, err := h.notifier.SendTemplate(ctx, template.TypeWelcome, map[string]any{
		"name":  ev.Name,
		"email": ev.Email,
	}, ev.Email)
	if err != nil {
		return nil, err
	}

	return &EventResult{Success: true, Action: "welcome_email_sent"}, nil
}

// HandleOrderCreated fetches the order and the user, then sends the
// order confirmation. The recipient always comes from the fetched user
// record so a spoofed event cannot redirect the notification. Either
// lookup failing aborts the event with that failure.
func (h *WebhookHandler) HandleOrderCreated(ctx context.Context, ev OrderCreatedEvent) (*EventResult, error) {
	h.logger.Info("handling order_created event", "order_id", ev.OrderID, "user_id", ev.UserID)

	order, err := h.lookups.FetchOrder(ctx, ev.OrderID)
	if err != nil {
		return nil, err
	}
	user, err := h.lookups.FetchUser(ctx, ev.UserID)
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, map[string]any{
			"name":     item.Name,
			"quantity": item.Quantity,
			"price":    fmt.Sprintf("%.2f", item.Price),
		})
	}

	_, err = h.notifier.SendTemplate(ctx, template.TypeOrderConfirmation, map[string]any{
		"orderId":         order.ID,
		"items":           items,
		"total":           fmt.Sprintf("%.2f", order.Total),
		"shippingAddress": order.ShippingAddress,
	}, user.Email)
	if err != nil {
		return nil, err
	}

	return &EventResult{Success: true, Action: "order_confirmation_sent"}, nil
}

// HandleOrderShipped resolves the recipient and sends the shipping
// notification with the shipment fields as given in the event.
func (h *WebhookHandler) HandleOrderShipped(ctx context.Context, ev OrderShippedEvent) (*EventResult, error) {
	h.logger.Info("handling order_shipped event",
		"order_id", ev.OrderID,
		"tracking_number", ev.TrackingNumber,
	)

	user, err := h.lookups.FetchUser(ctx, ev.UserID)
	if err != nil {
		return nil, err
	}

	_, err = h.notifier.SendTemplate(ctx, template.TypeShippingNotification, map[string]any{
		"orderId":           ev.OrderID,
		"trackingNumber":    ev.TrackingNumber,
		"carrier":           ev.Carrier,
		"estimatedDelivery": ev.EstimatedDelivery,
	}, user.Email)
	if err != nil {
		return nil, err
	}

	return &EventResult{Success: true, Action: "shipping_notification_sent"}, nil
}
