package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pikad/herald/internal/logstore"
	"github.com/pikad/herald/internal/lookup"
	"github.com/pikad/herald/internal/message"
	"github.com/pikad/herald/internal/template"
	"github.com/pikad/herald/internal/transport"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockTransport implements transport.Transport for testing.
type mockTransport struct {
	sendFunc   func(ctx context.Context, msg *message.Message) (*transport.Receipt, error)
	verifyFunc func(ctx context.Context) error
	sent       []*message.Message
}

func (m *mockTransport) Send(ctx context.Context, msg *message.Message) (*transport.Receipt, error) {
	m.sent = append(m.sent, msg)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return &transport.Receipt{
		MessageID: fmt.Sprintf("msg-%d", len(m.sent)),
		Accepted:  time.Now(),
	}, nil
}

func (m *mockTransport) VerifyConnection(ctx context.Context) error {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx)
	}
	return nil
}

// mockStore implements logstore.Store for testing.
type mockStore struct {
	appendFunc func(ctx context.Context, rec *logstore.Record) (string, error)
	statsFunc  func(ctx context.Context, now time.Time) (*logstore.Stats, error)
	records    []*logstore.Record
}

func (m *mockStore) Append(ctx context.Context, rec *logstore.Record) (string, error) {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, rec)
	}
	m.records = append(m.records, rec)
	return fmt.Sprintf("rec-%d", len(m.records)), nil
}

func (m *mockStore) Query(ctx context.Context, f logstore.Filter) (*logstore.QueryResult, error) {
	return &logstore.QueryResult{Records: m.records, Total: len(m.records)}, nil
}

func (m *mockStore) Stats(ctx context.Context, now time.Time) (*logstore.Stats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx, now)
	}
	return &logstore.Stats{}, nil
}

func (m *mockStore) Close() error { return nil }

// mockLookup implements lookup.Client for testing.
type mockLookup struct {
	fetchUserFunc  func(ctx context.Context, id string) (*lookup.UserRecord, error)
	fetchOrderFunc func(ctx context.Context, id string) (*lookup.OrderRecord, error)
	healthFunc     func(ctx context.Context, service string) lookup.HealthStatus
	services       []string
}

func (m *mockLookup) FetchUser(ctx context.Context, id string) (*lookup.UserRecord, error) {
	if m.fetchUserFunc != nil {
		return m.fetchUserFunc(ctx, id)
	}
	return &lookup.UserRecord{ID: id, Email: "user@example.com", Name: "User"}, nil
}

func (m *mockLookup) FetchOrder(ctx context.Context, id string) (*lookup.OrderRecord, error) {
	if m.fetchOrderFunc != nil {
		return m.fetchOrderFunc(ctx, id)
	}
	return &lookup.OrderRecord{ID: id}, nil
}

func (m *mockLookup) CheckHealth(ctx context.Context, service string) lookup.HealthStatus {
	if m.healthFunc != nil {
		return m.healthFunc(ctx, service)
	}
	return lookup.HealthStatus{Service: service, Status: lookup.StatusHealthy, CheckedAt: time.Now()}
}

func (m *mockLookup) Services() []string { return m.services }

func newTestNotifier(tr *mockTransport, store *mockStore) *Notifier {
	return NewNotifier(Options{
		Transport:     tr,
		Store:         store,
		Renderer:      template.NewRenderer(),
		Logger:        testLogger(),
		BatchInterval: time.Millisecond,
	})
}
