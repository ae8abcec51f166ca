package render

import (
	"html"
	"strings"

	"github.com/storely/herald/internal/event"
)

func (r *Renderer) renderCampaign(p event.EmailPayload) (content, error) {
	pl := p.ProductLaunch

	switch p.Kind {
	case event.ProductLaunch:
		subject := "Just launched: " + pl.Title
		productURL := pl.URL
		if productURL == "" {
			productURL = r.baseURL
		}

		var h strings.Builder
		h.WriteString(heading("New arrival: " + pl.Title))
		h.WriteString(paragraph(greet(p.Name) + " something new just landed in the store."))
		if pl.ImageURL != "" {
			h.WriteString(`<p style="margin:0 0 16px;"><img src="` + html.EscapeString(pl.ImageURL) +
				`" alt="` + html.EscapeString(pl.Title) + `" width="536" style="max-width:100%;border-radius:6px;"></p>` + "\n")
		}
		h.WriteString(paragraph(pl.Description))
		h.WriteString(paragraph("Price: " + formatAmount(pl.Price, pl.Currency)))
		h.WriteString(button("Shop now", productURL))

		var t strings.Builder
		t.WriteString("New arrival: " + pl.Title + "\n\n")
		t.WriteString(greet(p.Name) + " something new just landed in the store.\n\n")
		t.WriteString(pl.Description + "\n\n")
		t.WriteString("Price: " + formatAmount(pl.Price, pl.Currency) + "\n")
		t.WriteString("Shop now: " + productURL + "\n")

		return content{subject: subject, html: h.String(), text: t.String()}, nil

	default:
		return content{}, &TemplateError{Kind: p.Kind, Reason: "unknown campaign event kind"}
	}
}
