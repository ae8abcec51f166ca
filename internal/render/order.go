package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/storely/herald/internal/event"
)

func (r *Renderer) renderOrder(p event.EmailPayload) (content, error) {
	o := p.Order
	orderURL := r.baseURL + "/orders/" + o.ID

	var subject, headline, intro, closing string

	switch p.Kind {
	case event.OrderCreated:
		subject = fmt.Sprintf("We received your order %s", o.ID)
		headline = "Thank you for your order!"
		intro = fmt.Sprintf("thanks for shopping with us. Your order %s has been received and is awaiting confirmation.", o.ID)
		closing = "We will let you know as soon as your order is confirmed."
	case event.OrderConfirmed:
		subject = fmt.Sprintf("Order %s confirmed", o.ID)
		headline = "Your order is confirmed"
		intro = fmt.Sprintf("good news: your order %s has been confirmed and will be prepared shortly.", o.ID)
		closing = "You will receive another update when your order ships."
	case event.OrderPaid:
		subject = fmt.Sprintf("Payment received for order %s", o.ID)
		headline = "Payment received"
		intro = fmt.Sprintf("we have received your payment for order %s.", o.ID)
		closing = "A receipt for your records is included above."
	case event.OrderProcessing:
		subject = fmt.Sprintf("Order %s is being prepared", o.ID)
		headline = "Your order is being prepared"
		intro = fmt.Sprintf("your order %s is now being prepared for shipment.", o.ID)
		closing = "We will notify you once it is on its way."
	case event.OrderShipped:
		subject = fmt.Sprintf("Order %s has shipped", o.ID)
		headline = "Your order is on its way"
		intro = fmt.Sprintf("your order %s has been handed to the carrier.", o.ID)
		closing = "You can follow the delivery from your account page."
	case event.OrderOutForDelivery:
		subject = fmt.Sprintf("Order %s is out for delivery", o.ID)
		headline = "Out for delivery"
		intro = fmt.Sprintf("your order %s is out for delivery and should arrive today.", o.ID)
		closing = "Please make sure someone is available to receive it."
	case event.OrderDelivered:
		subject = fmt.Sprintf("Order %s was delivered", o.ID)
		headline = "Your order has arrived"
		intro = fmt.Sprintf("your order %s was delivered. We hope you enjoy it!", o.ID)
		closing = "If anything is wrong with your order, reply to this email and we will sort it out."
	case event.OrderCancelled:
		subject = fmt.Sprintf("Order %s was cancelled", o.ID)
		headline = "Your order was cancelled"
		intro = fmt.Sprintf("your order %s has been cancelled.", o.ID)
		if o.CancelReason != "" {
			intro += " Reason: " + o.CancelReason + "."
		}
		closing = "If you did not request this cancellation, please contact support."
	case event.OrderRefunded:
		subject = fmt.Sprintf("Refund issued for order %s", o.ID)
		headline = "Refund issued"
		refund := o.RefundAmount
		if refund == 0 {
			refund = o.Total
		}
		intro = fmt.Sprintf("a refund of %s for order %s has been issued to your original payment method.", formatAmount(refund, o.Currency), o.ID)
		closing = "Refunds usually appear within 5 to 10 business days."
	case event.PaymentFailed:
		subject = fmt.Sprintf("Payment failed for order %s", o.ID)
		headline = "We could not process your payment"
		intro = fmt.Sprintf("the payment for your order %s could not be processed.", o.ID)
		closing = "Please update your payment details and try again."
	default:
		return content{}, &TemplateError{Kind: p.Kind, Reason: "unknown order event kind"}
	}

	var h strings.Builder
	h.WriteString(heading(headline))
	h.WriteString(paragraph(greet(p.Name) + " " + intro))
	h.WriteString(orderItemsHTML(o))
	h.WriteString(orderTotalsHTML(o))
	if o.TrackingNumber != "" {
		h.WriteString(keyValueRows([][2]string{{"Tracking number", o.TrackingNumber}}))
	}
	h.WriteString(button("View your order", orderURL))
	h.WriteString(paragraph(closing))

	var t strings.Builder
	t.WriteString(headline + "\n\n")
	t.WriteString(greet(p.Name) + " " + intro + "\n\n")
	t.WriteString(orderItemsText(o))
	t.WriteString(orderTotalsText(o))
	if o.TrackingNumber != "" {
		t.WriteString("Tracking number: " + o.TrackingNumber + "\n")
	}
	t.WriteString("\nView your order: " + orderURL + "\n\n")
	t.WriteString(closing + "\n")

	return content{subject: subject, html: h.String(), text: t.String()}, nil
}

func orderItemsHTML(o *event.Order) string {
	if len(o.Items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="margin:0 0 16px;border-collapse:collapse;">` + "\n")
	b.WriteString(`<tr style="background-color:#f4f4f5;text-align:left;">`)
	b.WriteString(`<th style="padding:8px;font-size:12px;text-transform:uppercase;color:#71717a;">Item</th>`)
	b.WriteString(`<th style="padding:8px;font-size:12px;text-transform:uppercase;color:#71717a;">Qty</th>`)
	b.WriteString(`<th style="padding:8px;font-size:12px;text-transform:uppercase;color:#71717a;text-align:right;">Price</th>`)
	b.WriteString("</tr>\n")
	for _, item := range o.Items {
		b.WriteString(`<tr>`)
		b.WriteString(`<td style="padding:8px;border-bottom:1px solid #e4e4e7;">` + html.EscapeString(item.Title) + "</td>")
		b.WriteString(fmt.Sprintf(`<td style="padding:8px;border-bottom:1px solid #e4e4e7;">%d</td>`, item.Quantity))
		b.WriteString(`<td style="padding:8px;border-bottom:1px solid #e4e4e7;text-align:right;">` + formatAmount(item.Price, o.Currency) + "</td>")
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")
	return b.String()
}

func orderTotalsHTML(o *event.Order) string {
	var b strings.Builder
	b.WriteString(`<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="margin:0 0 16px;">` + "\n")
	b.WriteString(totalsRow("Subtotal", formatAmount(o.Subtotal, o.Currency), false))
	b.WriteString(totalsRow("Delivery fee", formatAmount(o.DeliveryFee, o.Currency), false))
	b.WriteString(totalsRow("Total", formatAmount(o.Total, o.Currency), true))
	b.WriteString("</table>\n")
	return b.String()
}

func totalsRow(label, value string, emphasize bool) string {
	style := `padding:4px 0;`
	if emphasize {
		style = `padding:8px 0;font-weight:bold;font-size:16px;border-top:1px solid #e4e4e7;`
	}
	return `<tr><td style="` + style + `color:#71717a;">` + html.EscapeString(label) +
		`</td><td style="` + style + `text-align:right;">` + value + "</td></tr>\n"
}

func orderItemsText(o *event.Order) string {
	if len(o.Items) == 0 {
		return ""
	}
	var b strings.Builder
	for _, item := range o.Items {
		b.WriteString(fmt.Sprintf("  - %s x%d  %s\n", item.Title, item.Quantity, formatAmount(item.Price, o.Currency)))
	}
	b.WriteString("\n")
	return b.String()
}

func orderTotalsText(o *event.Order) string {
	var b strings.Builder
	b.WriteString("Subtotal:     " + formatAmount(o.Subtotal, o.Currency) + "\n")
	b.WriteString("Delivery fee: " + formatAmount(o.DeliveryFee, o.Currency) + "\n")
	b.WriteString("Total:        " + formatAmount(o.Total, o.Currency) + "\n")
	return b.String()
}
