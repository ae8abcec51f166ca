// Package render maps typed email payloads to fully rendered messages.
//
// Rendering is pure: the same payload always produces the same subject,
// HTML document, and plain-text alternative. The only environmental input
// is the footer year, which comes from an injectable clock so tests can
// pin it.
package render

import (
	"fmt"
	"time"

	"github.com/storely/herald/internal/event"
)

// Email is a fully rendered message ready for transport.
type Email struct {
	Subject string
	HTML    string
	Text    string
}

// TemplateError signals a payload that violates the render contract:
// an unknown event kind or a missing mandatory sub-object. Callers are
// expected to never trigger it in production.
type TemplateError struct {
	Kind   event.Kind
	Reason string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("render %s: %s", e.Kind, e.Reason)
}

// Renderer renders event-typed payloads into email messages.
type Renderer struct {
	storeName string
	baseURL   string
	now       func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock overrides the clock used for the footer year.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// New creates a Renderer. baseURL is the storefront root used for
// call-to-action links.
func New(storeName, baseURL string, opts ...Option) *Renderer {
	r := &Renderer{
		storeName: storeName,
		baseURL:   baseURL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the subject, HTML body, and plain-text body for the
// payload. The switch is exhaustive over event categories; unknown kinds
// and missing mandatory sub-objects return a *TemplateError.
func (r *Renderer) Render(p event.EmailPayload) (Email, error) {
	var body content
	var err error

	switch p.Kind.Category() {
	case event.CategoryOrder:
		if p.Order == nil {
			return Email{}, &TemplateError{Kind: p.Kind, Reason: "order data is required"}
		}
		body, err = r.renderOrder(p)

	case event.CategoryQuotation:
		if p.Quotation == nil {
			return Email{}, &TemplateError{Kind: p.Kind, Reason: "quotation data is required"}
		}
		body, err = r.renderQuotation(p)

	case event.CategoryAccount:
		body, err = r.renderAccount(p)

	case event.CategoryAdmin:
		body, err = r.renderAdmin(p)

	case event.CategoryCampaign:
		if p.ProductLaunch == nil {
			return Email{}, &TemplateError{Kind: p.Kind, Reason: "product launch data is required"}
		}
		body, err = r.renderCampaign(p)

	default:
		return Email{}, &TemplateError{Kind: p.Kind, Reason: "unknown event kind"}
	}

	if err != nil {
		return Email{}, err
	}

	year := r.now().Year()
	return Email{
		Subject: body.subject,
		HTML:    r.htmlDocument(body.subject, body.html, year),
		Text:    r.textDocument(body.text, year),
	}, nil
}

// content is the per-kind rendered body before it is wrapped in the
// shared layout.
type content struct {
	subject string
	html    string
	text    string
}
