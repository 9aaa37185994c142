package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

// HTTPClient talks to the dependent microservices over their JSON
// APIs. Every response is wrapped in a {"data": ...} envelope.
type HTTPClient struct {
	services map[string]string // service name -> base URL
	names    []string          // sorted for stable iteration
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPClient creates a lookup client for the configured services.
func NewHTTPClient(services map[string]string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)

	return &HTTPClient{
		services: services,
		names:    names,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Services lists the configured service names.
func (c *HTTPClient) Services() []string {
	return c.names
}

// FetchUser retrieves a user record from the user service.
func (c *HTTPClient) FetchUser(ctx context.Context, id string) (*UserRecord, error) {
	var user UserRecord
	if err := c.getJSON(ctx, "user", "/api/users/"+id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchOrder retrieves an order record from the order service.
func (c *HTTPClient) FetchOrder(ctx context.Context, id string) (*OrderRecord, error) {
	var order OrderRecord
	if err := c.getJSON(ctx, "order", "/api/orders/"+id, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CheckHealth probes one service. It never returns an error; failures
// fold into an unhealthy status.
func (c *HTTPClient) CheckHealth(ctx context.Context, service string) HealthStatus {
	status := HealthStatus{
		Service:   service,
		CheckedAt: time.Now(),
	}

	base, ok := c.services[service]
	if !ok {
		status.Status = StatusUnhealthy
		status.Detail = "service not configured"
		return status
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		status.Status = StatusUnhealthy
		status.Detail = err.Error()
		return status
	}

	resp, err := c.client.Do(req)
	if err != nil {
		status.Status = StatusUnhealthy
		status.Detail = err.Error()
		return status
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		status.Status = StatusUnhealthy
		status.Detail = fmt.Sprintf("health endpoint returned %d", resp.StatusCode)
		return status
	}

	status.Status = StatusHealthy
	return status
}

// getJSON performs a GET and decodes the data envelope into out.
func (c *HTTPClient) getJSON(ctx context.Context, service, path string, out any) error {
	base, ok := c.services[service]
	if !ok {
		return &Error{Service: service, Reason: "service not configured"}
	}
	url := base + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{Service: service, Reason: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("lookup request", "service", service, "url", url)

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Service: service, Reason: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{
			Service: service,
			Reason:  fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, url),
		}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &Error{Service: service, Reason: "invalid response body", Err: err}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &Error{Service: service, Reason: "invalid data payload", Err: err}
	}

	return nil
}
