package template

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// RenderResult is the rendered output of an intent.
type RenderResult struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// NotFoundError reports a template type that passed validation but has
// no registered renderer. That is a wiring defect, not bad input, so it
// gets its own error type.
type NotFoundError struct {
	Type Type
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no renderer registered for template type %q", e.Type)
}

// entry bundles the three builders for one template type.
type entry struct {
	subject func(data map[string]any) string
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

// Renderer maps template types to their subject/html/text builders.
// All templates are parsed once at construction; rendering is pure.
type Renderer struct {
	entries map[Type]entry
}

// NewRenderer builds the renderer with every shipped template
// registered.
func NewRenderer() *Renderer {
	return &Renderer{
		entries: map[Type]entry{
			TypeWelcome: {
				subject: func(d map[string]any) string {
					return fmt.Sprintf("Welcome, %s!", str(d, "name"))
				},
				html: parseHTML("welcome", welcomeHTML),
				text: parseText("welcome", welcomeText),
			},
			TypeOrderConfirmation: {
				subject: func(d map[string]any) string {
					return fmt.Sprintf("Order confirmation #%s", str(d, "orderId"))
				},
				html: parseHTML("order_confirmation", orderConfirmationHTML),
				text: parseText("order_confirmation", orderConfirmationText),
			},
			TypePasswordReset: {
				subject: func(d map[string]any) string {
					return "Reset your password"
				},
				html: parseHTML("password_reset", passwordResetHTML),
				text: parseText("password_reset", passwordResetText),
			},
			TypeShippingNotification: {
				subject: func(d map[string]any) string {
					return fmt.Sprintf("Your order #%s is on its way", str(d, "orderId"))
				},
				html: parseHTML("shipping_notification", shippingNotificationHTML),
				text: parseText("shipping_notification", shippingNotificationText),
			},
			TypePromotion: {
				subject: func(d map[string]any) string {
					return fmt.Sprintf("Special offer: %s", str(d, "promoTitle"))
				},
				html: parseHTML("promotion", promotionHTML),
				text: parseText("promotion", promotionText),
			},
		},
	}
}

// Render produces the subject and body variants for an intent. The same
// intent always renders to identical output.
func (r *Renderer) Render(intent *Intent) (*RenderResult, error) {
	e, ok := r.entries[intent.Type]
	if !ok {
		return nil, &NotFoundError{Type: intent.Type}
	}

	var html bytes.Buffer
	if err := e.html.Execute(&html, intent.Data); err != nil {
		return nil, fmt.Errorf("failed to render html for %q: %w", intent.Type, err)
	}

	var text bytes.Buffer
	if err := e.text.Execute(&text, intent.Data); err != nil {
		return nil, fmt.Errorf("failed to render text for %q: %w", intent.Type, err)
	}

	return &RenderResult{
		Subject: e.subject(intent.Data),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

// Registered lists the template types the renderer can handle.
func (r *Renderer) Registered() []Type {
	out := make([]Type, 0, len(r.entries))
	for _, t := range Types {
		if _, ok := r.entries[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

func parseHTML(name, body string) *htmltemplate.Template {
	return htmltemplate.Must(htmltemplate.New(name).Parse(body))
}

func parseText(name, body string) *texttemplate.Template {
	return texttemplate.Must(texttemplate.New(name).Parse(body))
}

func str(data map[string]any, key string) string {
	if v, ok := data[key]; ok {
		return fmt.Sprint(v)
	}
	return ""
}
