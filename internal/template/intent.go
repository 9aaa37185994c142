// Package template defines the typed notification intents, their
// per-type data contracts, and the renderer that turns an intent into
// subject/html/text content.
package template

import "fmt"

// Type identifies a notification template. The set is closed: templates
// are shipped with the service, not user-authorable.
type Type string

const (
	TypeWelcome              Type = "welcome"
	TypeOrderConfirmation    Type = "order_confirmation"
	TypePasswordReset        Type = "password_reset"
	TypeShippingNotification Type = "shipping_notification"
	TypePromotion            Type = "promotion"
)

// Types lists every known template type.
var Types = []Type{
	TypeWelcome,
	TypeOrderConfirmation,
	TypePasswordReset,
	TypeShippingNotification,
	TypePromotion,
}

// Known reports whether t is a member of the closed template set.
func Known(t Type) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Intent is a typed, unrendered notification request. It is consumed
// once by the renderer and never persisted.
type Intent struct {
	Type Type           `json:"type"`
	Data map[string]any `json:"data"`
}

// NewIntent builds an intent for the given type and payload.
func NewIntent(t Type, data map[string]any) *Intent {
	if data == nil {
		data = map[string]any{}
	}
	return &Intent{Type: t, Data: data}
}

// requiredFields maps each type to the data fields it cannot render
// without. order_confirmation items must additionally be non-empty,
// checked separately in Validate.
var requiredFields = map[Type][]string{
	TypeWelcome:              {"name", "email"},
	TypeOrderConfirmation:    {"orderId", "items", "total"},
	TypePasswordReset:        {"name", "resetToken"},
	TypeShippingNotification: {"orderId", "trackingNumber"},
	TypePromotion:            {"promoTitle", "discountCode"},
}

// Validate checks type membership and the per-type required fields,
// returning every violation. An unknown type is one error; the field
// checks for whatever data exists still run.
func (i *Intent) Validate() []string {
	var errs []string

	if !Known(i.Type) {
		errs = append(errs, fmt.Sprintf("unknown template type %q", i.Type))
	}

	var missing []string
	for _, field := range requiredFields[i.Type] {
		if !present(i.Data[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Sprintf("template %q requires %s", i.Type, joinFields(missing)))
	}

	return errs
}

// present reports whether a data field counts as provided. Empty
// strings and empty lists do not.
func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	default:
		return true
	}
}

func joinFields(fields []string) string {
	switch len(fields) {
	case 1:
		return fields[0]
	case 2:
		return fields[0] + " and " + fields[1]
	default:
		out := ""
		for i, f := range fields {
			switch {
			case i == 0:
				out = f
			case i == len(fields)-1:
				out += " and " + f
			default:
				out += ", " + f
			}
		}
		return out
	}
}
