package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/storely/herald/internal/event"
)

func fixedClock() time.Time {
	return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
}

func testRenderer() *Renderer {
	return New("Storely", "https://storely.example", WithClock(fixedClock))
}

func sampleOrder() *event.Order {
	return &event.Order{
		ID: "ORD1",
		Items: []event.OrderItem{
			{Title: "Ceramic Mug", Quantity: 2, Price: 15.00},
			{Title: "Tea Sampler", Quantity: 1, Price: 7.50},
		},
		Subtotal:    37.50,
		DeliveryFee: 5.00,
		Total:       42.50,
		Currency:    "USD",
	}
}

func sampleQuotation() *event.Quotation {
	return &event.Quotation{
		ID:           "Q-77",
		ProductTitle: "Oak Dining Table",
		Quantity:     3,
		UnitPrice:    250,
		Total:        750,
		Currency:     "EUR",
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := testRenderer()
	p := event.EmailPayload{
		Kind:  event.OrderCreated,
		To:    "ana@example.com",
		Name:  "Ana",
		Order: sampleOrder(),
	}

	first, err := r.Render(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Render(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Subject != second.Subject || first.HTML != second.HTML || first.Text != second.Text {
		t.Fatal("rendering the same payload twice produced different output")
	}
}

func TestRenderOrderCreated(t *testing.T) {
	r := testRenderer()
	email, err := r.Render(event.EmailPayload{
		Kind:  event.OrderCreated,
		To:    "ana@example.com",
		Name:  "Ana",
		Order: sampleOrder(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(email.Subject, "ORD1") {
		t.Errorf("subject %q does not mention the order id", email.Subject)
	}
	if !strings.Contains(email.HTML, "$42.50") {
		t.Error("html body does not contain the formatted total")
	}
	if !strings.Contains(email.Text, "$42.50") {
		t.Error("text body does not contain the formatted total")
	}
	if !strings.Contains(email.HTML, "Ceramic Mug") {
		t.Error("html body does not list the order items")
	}
	if !strings.Contains(email.HTML, "&copy; 2026 Storely") {
		t.Error("html footer does not carry the pinned year")
	}
}

func TestRenderUnknownCurrencyDegrades(t *testing.T) {
	r := testRenderer()
	order := sampleOrder()
	order.Currency = "XYZ"

	email, err := r.Render(event.EmailPayload{
		Kind:  event.OrderCreated,
		To:    "ana@example.com",
		Name:  "Ana",
		Order: order,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(email.HTML, "42.50 XYZ") {
		t.Error("unknown currency should degrade to amount plus code")
	}
}

func TestRenderAllKnownKinds(t *testing.T) {
	r := testRenderer()

	payloads := []event.EmailPayload{
		{Kind: event.OrderCreated, Order: sampleOrder()},
		{Kind: event.OrderConfirmed, Order: sampleOrder()},
		{Kind: event.OrderPaid, Order: sampleOrder()},
		{Kind: event.OrderProcessing, Order: sampleOrder()},
		{Kind: event.OrderShipped, Order: sampleOrder()},
		{Kind: event.OrderOutForDelivery, Order: sampleOrder()},
		{Kind: event.OrderDelivered, Order: sampleOrder()},
		{Kind: event.OrderCancelled, Order: sampleOrder()},
		{Kind: event.OrderRefunded, Order: sampleOrder()},
		{Kind: event.PaymentFailed, Order: sampleOrder()},
		{Kind: event.QuotationRequested, Quotation: sampleQuotation()},
		{Kind: event.QuotationSent, Quotation: sampleQuotation()},
		{Kind: event.QuotationAccepted, Quotation: sampleQuotation()},
		{Kind: event.QuotationRejected, Quotation: sampleQuotation()},
		{Kind: event.QuotationExpired, Quotation: sampleQuotation()},
		{Kind: event.Welcome, Name: "Ana"},
		{Kind: event.EmailVerification, Name: "Ana", OTP: "123456"},
		{Kind: event.PasswordReset, Name: "Ana", ActionURL: "https://storely.example/reset"},
		{Kind: event.PasswordChanged, Name: "Ana"},
		{Kind: event.AccountDeleted, Name: "Ana"},
		{Kind: event.AdminNewOrder, Name: "Ana", Order: sampleOrder()},
		{Kind: event.AdminOrderPaid, Name: "Ana", Order: sampleOrder()},
		{Kind: event.AdminOrderCancelled, Name: "Ana", Order: sampleOrder()},
		{Kind: event.AdminNewUser, Name: "Ana"},
		{Kind: event.AdminQuotationRequest, Name: "Ana", Quotation: sampleQuotation()},
		{Kind: event.AdminLowStock, LowStock: &event.LowStockInfo{ProductTitle: "Mug", Remaining: 3}},
		{Kind: event.ProductLaunch, ProductLaunch: &event.ProductLaunchInfo{
			Title: "Walnut Desk", Description: "Solid walnut.", Price: 900, Currency: "USD",
		}},
	}

	for _, p := range payloads {
		email, err := r.Render(p)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", p.Kind, err)
			continue
		}
		if email.Subject == "" || email.HTML == "" || email.Text == "" {
			t.Errorf("%s: rendered message has an empty part", p.Kind)
		}
	}
}

func TestRenderContractViolations(t *testing.T) {
	r := testRenderer()

	tests := []struct {
		name    string
		payload event.EmailPayload
	}{
		{"unknown kind", event.EmailPayload{Kind: event.Kind("NOT_A_KIND")}},
		{"order kind without order", event.EmailPayload{Kind: event.OrderCreated, Name: "Ana"}},
		{"quotation kind without quotation", event.EmailPayload{Kind: event.QuotationSent}},
		{"campaign without launch info", event.EmailPayload{Kind: event.ProductLaunch}},
		{"verification without otp", event.EmailPayload{Kind: event.EmailVerification, Name: "Ana"}},
		{"admin order kind without order", event.EmailPayload{Kind: event.AdminNewOrder}},
		{"low stock without info", event.EmailPayload{Kind: event.AdminLowStock}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render(tt.payload)
			if err == nil {
				t.Fatal("expected a template error")
			}
			var terr *TemplateError
			if !errors.As(err, &terr) {
				t.Fatalf("expected *TemplateError, got %T", err)
			}
		})
	}
}

func TestGreetFallsBackWithoutName(t *testing.T) {
	r := testRenderer()
	email, err := r.Render(event.EmailPayload{Kind: event.Welcome})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(email.Text, "Hi there,") {
		t.Error("expected the generic greeting when name is empty")
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{42.5, "USD", "$42.50"},
		{1000, "EUR", "€1000.00"},
		{99.99, "GBP", "£99.99"},
		{5, "XYZ", "5.00 XYZ"},
		{5, "", "5.00"},
	}

	for _, tt := range tests {
		if got := formatAmount(tt.amount, tt.currency); got != tt.want {
			t.Errorf("formatAmount(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}
