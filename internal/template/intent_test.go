package template

import (
	"strings"
	"testing"
)

func TestIntentValidate(t *testing.T) {
	tests := []struct {
		name     string
		typ      Type
		data     map[string]any
		wantErrs []string
	}{
		{
			name: "valid welcome",
			typ:  TypeWelcome,
			data: map[string]any{"name": "Ada", "email": "ada@example.com"},
		},
		{
			name:     "welcome missing both fields",
			typ:      TypeWelcome,
			data:     map[string]any{},
			wantErrs: []string{"name and email"},
		},
		{
			name: "valid order confirmation",
			typ:  TypeOrderConfirmation,
			data: map[string]any{
				"orderId": "O1",
				"items":   []any{map[string]any{"name": "Mug", "quantity": 1, "price": 9.5}},
				"total":   9.5,
			},
		},
		{
			name:     "order confirmation missing total",
			typ:      TypeOrderConfirmation,
			data:     map[string]any{"orderId": "O1", "items": []any{map[string]any{}}},
			wantErrs: []string{"total"},
		},
		{
			name:     "order confirmation empty items",
			typ:      TypeOrderConfirmation,
			data:     map[string]any{"orderId": "O1", "items": []any{}, "total": 10},
			wantErrs: []string{"items"},
		},
		{
			name: "valid password reset",
			typ:  TypePasswordReset,
			data: map[string]any{"name": "Ada", "resetToken": "tok123"},
		},
		{
			name:     "password reset missing token",
			typ:      TypePasswordReset,
			data:     map[string]any{"name": "Ada"},
			wantErrs: []string{"resetToken"},
		},
		{
			name: "valid shipping notification",
			typ:  TypeShippingNotification,
			data: map[string]any{"orderId": "O1", "trackingNumber": "TRK9"},
		},
		{
			name: "valid promotion",
			typ:  TypePromotion,
			data: map[string]any{"promoTitle": "Summer Sale", "discountCode": "SUN20"},
		},
		{
			name:     "promotion empty discount code",
			typ:      TypePromotion,
			data:     map[string]any{"promoTitle": "Summer Sale", "discountCode": ""},
			wantErrs: []string{"discountCode"},
		},
		{
			name:     "unknown type",
			typ:      Type("carrier_pigeon"),
			data:     map[string]any{},
			wantErrs: []string{"unknown template type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := NewIntent(tt.typ, tt.data).Validate()
			if len(errs) != len(tt.wantErrs) {
				t.Fatalf("Validate() = %v, want %d errors", errs, len(tt.wantErrs))
			}
			for i, substr := range tt.wantErrs {
				if !strings.Contains(errs[i], substr) {
					t.Errorf("errs[%d] = %q, want it to mention %q", i, errs[i], substr)
				}
			}
		})
	}
}

func TestKnown(t *testing.T) {
	for _, typ := range Types {
		if !Known(typ) {
			t.Errorf("Known(%q) = false", typ)
		}
	}
	if Known(Type("smoke_signal")) {
		t.Error(`Known("smoke_signal") = true, want false`)
	}
}
