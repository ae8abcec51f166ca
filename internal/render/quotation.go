package render

import (
	"fmt"
	"strings"

	"github.com/storely/herald/internal/event"
)

func (r *Renderer) renderQuotation(p event.EmailPayload) (content, error) {
	q := p.Quotation
	quotationURL := r.baseURL + "/quotations/" + q.ID

	var subject, headline, intro, closing string

	switch p.Kind {
	case event.QuotationRequested:
		subject = fmt.Sprintf("Quotation request %s received", q.ID)
		headline = "We received your quotation request"
		intro = fmt.Sprintf("thanks for your interest in %s. Your quotation request %s has been received and our team is reviewing it.", q.ProductTitle, q.ID)
		closing = "We will send you a detailed quotation shortly."
	case event.QuotationSent:
		subject = fmt.Sprintf("Your quotation %s is ready", q.ID)
		headline = "Your quotation is ready"
		intro = fmt.Sprintf("we have prepared quotation %s for %s.", q.ID, q.ProductTitle)
		closing = "Review the quotation and accept it from your account page when you are ready."
	case event.QuotationAccepted:
		subject = fmt.Sprintf("Quotation %s accepted", q.ID)
		headline = "Quotation accepted"
		intro = fmt.Sprintf("you have accepted quotation %s. We will convert it into an order and follow up with payment details.", q.ID)
		closing = "Thank you for your business."
	case event.QuotationRejected:
		subject = fmt.Sprintf("Quotation %s declined", q.ID)
		headline = "Quotation declined"
		intro = fmt.Sprintf("quotation %s has been marked as declined.", q.ID)
		closing = "If you changed your mind or need an adjusted offer, just reply to this email."
	case event.QuotationExpired:
		subject = fmt.Sprintf("Quotation %s has expired", q.ID)
		headline = "Quotation expired"
		intro = fmt.Sprintf("quotation %s has passed its validity date and is no longer available.", q.ID)
		closing = "Request a new quotation any time and we will price it again."
	default:
		return content{}, &TemplateError{Kind: p.Kind, Reason: "unknown quotation event kind"}
	}

	details := [][2]string{
		{"Quotation", q.ID},
		{"Product", q.ProductTitle},
		{"Quantity", fmt.Sprintf("%d", q.Quantity)},
		{"Unit price", formatAmount(q.UnitPrice, q.Currency)},
		{"Total", formatAmount(q.Total, q.Currency)},
	}
	if q.ValidUntil != "" {
		details = append(details, [2]string{"Valid until", q.ValidUntil})
	}

	var h strings.Builder
	h.WriteString(heading(headline))
	h.WriteString(paragraph(greet(p.Name) + " " + intro))
	h.WriteString(keyValueRows(details))
	if q.Notes != "" {
		h.WriteString(paragraph("Notes: " + q.Notes))
	}
	h.WriteString(button("View quotation", quotationURL))
	h.WriteString(paragraph(closing))

	var t strings.Builder
	t.WriteString(headline + "\n\n")
	t.WriteString(greet(p.Name) + " " + intro + "\n\n")
	for _, kv := range details {
		t.WriteString(fmt.Sprintf("%s: %s\n", kv[0], kv[1]))
	}
	if q.Notes != "" {
		t.WriteString("Notes: " + q.Notes + "\n")
	}
	t.WriteString("\nView quotation: " + quotationURL + "\n\n")
	t.WriteString(closing + "\n")

	return content{subject: subject, html: h.String(), text: t.String()}, nil
}
