package notify

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pikad/herald/internal/logstore"
	"github.com/pikad/herald/internal/message"
	"github.com/pikad/herald/internal/metrics"
	"github.com/pikad/herald/internal/template"
	"github.com/pikad/herald/internal/transport"
)

// Result is the success payload of a dispatch operation.
type Result struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	MessageID string    `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
}

// Options wires the notifier's collaborators. Transport, Store and
// Renderer are required; Metrics is optional.
type Options struct {
	Transport     transport.Transport
	Store         logstore.Store
	Renderer      *template.Renderer
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	BatchInterval time.Duration
	MaxRecipients int // batch size cap, 0 means unlimited
}

// Notifier validates, renders, dispatches and logs notifications. All
// collaborators are injected at construction.
type Notifier struct {
	transport     transport.Transport
	store         logstore.Store
	renderer      *template.Renderer
	metrics       *metrics.Metrics
	logger        *slog.Logger
	batchInterval time.Duration
	maxRecipients int
}

// NewNotifier creates a notifier from its collaborators.
func NewNotifier(opts Options) *Notifier {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.BatchInterval == 0 {
		opts.BatchInterval = 100 * time.Millisecond
	}
	return &Notifier{
		transport:     opts.Transport,
		store:         opts.Store,
		renderer:      opts.Renderer,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		batchInterval: opts.BatchInterval,
		maxRecipients: opts.MaxRecipients,
	}
}

// Send validates the message, dispatches it and records the outcome.
// A transport failure propagates unchanged and writes no log record;
// a log-write failure after a successful send is reported but the send
// still counts as successful.
func (n *Notifier) Send(ctx context.Context, msg *message.Message) (*Result, error) {
	return n.dispatch(ctx, msg, "direct")
}

// SendTemplate builds and validates a template intent, renders it and
// delegates to the single-send path. Failures from rendering or sending
// propagate unchanged; the template type and recipient only go into
// diagnostics.
func (n *Notifier) SendTemplate(ctx context.Context, typ template.Type, data map[string]any, recipient string) (*Result, error) {
	intent := template.NewIntent(typ, data)
	if violations := intent.Validate(); len(violations) > 0 {
		return nil, &ValidationError{Kind: "template", Violations: violations}
	}

	rendered, err := n.renderer.Render(intent)
	if err != nil {
		n.logger.Error("template rendering failed",
			"template", typ,
			"recipient", recipient,
			"error", err,
		)
		return nil, err
	}

	msg := message.New(recipient, rendered.Subject, rendered.HTML, rendered.Text)
	result, err := n.dispatch(ctx, msg, string(typ))
	if err != nil {
		n.logger.Error("templated notification failed",
			"template", typ,
			"recipient", recipient,
			"error", err,
		)
		return nil, err
	}
	return result, nil
}

// dispatch runs the validate, send, log sequence for one message. The
// label only feeds metrics.
func (n *Notifier) dispatch(ctx context.Context, msg *message.Message, label string) (*Result, error) {
	if violations := msg.Validate(); len(violations) > 0 {
		return nil, &ValidationError{Kind: "message", Violations: violations}
	}

	summary := msg.Summarize()
	n.logger.Info("sending notification",
		"to", summary.To,
		"subject", summary.Subject,
		"attachments", summary.AttachmentCount,
	)

	receipt, err := n.transport.Send(ctx, msg)
	if err != nil {
		n.metrics.RecordFailed(label)
		return nil, err
	}
	n.metrics.RecordSent(label)

	rec := &logstore.Record{
		To:              summary.To,
		Subject:         summary.Subject,
		HasHTML:         summary.HasHTML,
		HasText:         summary.HasText,
		AttachmentCount: summary.AttachmentCount,
		Status:          logstore.StatusSent,
		MessageID:       receipt.MessageID,
		Timestamp:       receipt.Accepted,
	}
	if _, err := n.store.Append(ctx, rec); err != nil {
		// Logging is best-effort observability; the send succeeded.
		n.logger.Warn("failed to record delivery log",
			"to", summary.To,
			"message_id", receipt.MessageID,
			"error", err,
		)
	}

	n.logger.Info("notification sent",
		"to", summary.To,
		"message_id", receipt.MessageID,
	)

	return &Result{
		Success:   true,
		Message:   "notification sent",
		MessageID: receipt.MessageID,
		SentAt:    receipt.Accepted,
	}, nil
}
