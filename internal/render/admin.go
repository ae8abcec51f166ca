package render

import (
	"fmt"
	"strings"

	"github.com/storely/herald/internal/event"
)

func (r *Renderer) renderAdmin(p event.EmailPayload) (content, error) {
	var subject, headline, intro string
	var detailsHTML, detailsText string
	actionURL := r.baseURL + "/admin"

	switch p.Kind {
	case event.AdminNewOrder:
		if p.Order == nil {
			return content{}, &TemplateError{Kind: p.Kind, Reason: "order data is required"}
		}
		o := p.Order
		subject = fmt.Sprintf("New order %s", o.ID)
		headline = "A new order was placed"
		intro = fmt.Sprintf("order %s for %s was just placed by %s.", o.ID, formatAmount(o.Total, o.Currency), displayName(p.Name))
		detailsHTML = orderItemsHTML(o) + orderTotalsHTML(o)
		detailsText = orderItemsText(o) + orderTotalsText(o)
		actionURL = r.baseURL + "/admin/orders/" + o.ID

	case event.AdminOrderPaid:
		if p.Order == nil {
			return content{}, &TemplateError{Kind: p.Kind, Reason: "order data is required"}
		}
		o := p.Order
		subject = fmt.Sprintf("Order %s was paid", o.ID)
		headline = "An order was paid"
		intro = fmt.Sprintf("payment of %s was received for order %s from %s.", formatAmount(o.Total, o.Currency), o.ID, displayName(p.Name))
		detailsHTML = orderTotalsHTML(o)
		detailsText = orderTotalsText(o)
		actionURL = r.baseURL + "/admin/orders/" + o.ID

	case event.AdminOrderCancelled:
		if p.Order == nil {
			return content{}, &TemplateError{Kind: p.Kind, Reason: "order data is required"}
		}
		o := p.Order
		subject = fmt.Sprintf("Order %s was cancelled", o.ID)
		headline = "An order was cancelled"
		intro = fmt.Sprintf("order %s from %s has been cancelled.", o.ID, displayName(p.Name))
		if o.CancelReason != "" {
			intro += " Reason: " + o.CancelReason + "."
		}
		actionURL = r.baseURL + "/admin/orders/" + o.ID

	case event.AdminNewUser:
		subject = "New customer registration"
		headline = "A new customer signed up"
		intro = fmt.Sprintf("%s just created an account.", displayName(p.Name))
		actionURL = r.baseURL + "/admin/customers"

	case event.AdminQuotationRequest:
		if p.Quotation == nil {
			return content{}, &TemplateError{Kind: p.Kind, Reason: "quotation data is required"}
		}
		q := p.Quotation
		subject = fmt.Sprintf("New quotation request %s", q.ID)
		headline = "A quotation was requested"
		intro = fmt.Sprintf("%s requested a quotation for %d x %s.", displayName(p.Name), q.Quantity, q.ProductTitle)
		detailsHTML = keyValueRows([][2]string{
			{"Quotation", q.ID},
			{"Product", q.ProductTitle},
			{"Quantity", fmt.Sprintf("%d", q.Quantity)},
		})
		detailsText = fmt.Sprintf("Quotation: %s\nProduct: %s\nQuantity: %d\n", q.ID, q.ProductTitle, q.Quantity)
		actionURL = r.baseURL + "/admin/quotations/" + q.ID

	case event.AdminLowStock:
		if p.LowStock == nil {
			return content{}, &TemplateError{Kind: p.Kind, Reason: "low stock data is required"}
		}
		ls := p.LowStock
		subject = fmt.Sprintf("Low stock alert: %s", ls.ProductTitle)
		headline = "A product is running low"
		intro = fmt.Sprintf("only %d units of %s remain in stock.", ls.Remaining, ls.ProductTitle)
		actionURL = r.baseURL + "/admin/products"

	default:
		return content{}, &TemplateError{Kind: p.Kind, Reason: "unknown admin event kind"}
	}

	var h strings.Builder
	h.WriteString(heading(headline))
	h.WriteString(paragraph("Hello, " + intro))
	h.WriteString(detailsHTML)
	h.WriteString(button("Open dashboard", actionURL))

	var t strings.Builder
	t.WriteString(headline + "\n\n")
	t.WriteString("Hello, " + intro + "\n\n")
	t.WriteString(detailsText)
	t.WriteString("\nOpen dashboard: " + actionURL + "\n")

	return content{subject: subject, html: h.String(), text: t.String()}, nil
}

// displayName degrades gracefully when the triggering customer's name
// was not supplied.
func displayName(name string) string {
	if name == "" {
		return "a customer"
	}
	return name
}
