// Package notify implements the notification dispatch pipeline: single
// and templated sends, batch fan-out, business-event mapping, and
// delivery statistics.
package notify

import (
	"fmt"
	"strings"
)

// ValidationError reports a message or template intent that failed its
// contract. It carries every violated rule and never reaches the
// transport.
type ValidationError struct {
	Kind       string // "message" or "template"
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s invalid: %s", e.Kind, strings.Join(e.Violations, ", "))
}

// EventError reports a webhook payload the mapper cannot handle.
type EventError struct {
	Kind   string
	Reason string
}

func (e *EventError) Error() string {
	return fmt.Sprintf("cannot handle event %q: %s", e.Kind, e.Reason)
}
