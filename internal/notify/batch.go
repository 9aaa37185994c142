package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/pikad/herald/internal/template"
)

// BatchItem is the per-recipient outcome of a batch send. Items line up
// with the input recipient list: Results[i] belongs to recipients[i].
type BatchItem struct {
	Email     string `json:"email"`
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchSummary aggregates a batch result.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BatchResult is the always-returned outcome of a batch send.
type BatchResult struct {
	Results []BatchItem  `json:"results"`
	Summary BatchSummary `json:"summary"`
}

// SendBatch fans one template payload out to many recipients. One
// recipient failing must not stop the rest: every failure is captured
// in its slot and the batch always produces a full summary. The shared
// payload is validated once up front; an invalid template or a batch
// over the configured recipient cap fails whole before any send.
//
// Sends run sequentially with a pause between them so a large batch
// does not hammer the transport.
func (n *Notifier) SendBatch(ctx context.Context, recipients []string, typ template.Type, data map[string]any) (*BatchResult, error) {
	if n.maxRecipients > 0 && len(recipients) > n.maxRecipients {
		return nil, &ValidationError{
			Kind: "message",
			Violations: []string{
				fmt.Sprintf("batch of %d recipients exceeds the limit of %d", len(recipients), n.maxRecipients),
			},
		}
	}
	if violations := template.NewIntent(typ, data).Validate(); len(violations) > 0 {
		return nil, &ValidationError{Kind: "template", Violations: violations}
	}

	n.logger.Info("starting batch send",
		"template", typ,
		"recipients", len(recipients),
	)

	result := &BatchResult{
		Results: make([]BatchItem, 0, len(recipients)),
	}

	for i, recipient := range recipients {
		if i > 0 && n.batchInterval > 0 {
			select {
			case <-ctx.Done():
				// Mark the rest of the batch as not attempted.
				for _, rest := range recipients[i:] {
					result.Results = append(result.Results, BatchItem{
						Email: rest,
						Error: ctx.Err().Error(),
					})
					result.Summary.Failed++
				}
				result.Summary.Total = len(result.Results)
				n.metrics.ObserveBatch(len(recipients), result.Summary.Failed)
				return result, nil
			case <-time.After(n.batchInterval):
			}
		}

		// Each recipient gets its own copy of the payload so a send
		// can never mutate a sibling's data.
		sendResult, err := n.SendTemplate(ctx, typ, copyData(data), recipient)
		if err != nil {
			result.Results = append(result.Results, BatchItem{
				Email: recipient,
				Error: err.Error(),
			})
			result.Summary.Failed++
			continue
		}

		result.Results = append(result.Results, BatchItem{
			Email:     recipient,
			Success:   true,
			MessageID: sendResult.MessageID,
		})
		result.Summary.Successful++
	}

	result.Summary.Total = len(result.Results)
	n.metrics.ObserveBatch(len(recipients), result.Summary.Failed)

	n.logger.Info("batch send finished",
		"template", typ,
		"total", result.Summary.Total,
		"successful", result.Summary.Successful,
		"failed", result.Summary.Failed,
	)

	return result, nil
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
