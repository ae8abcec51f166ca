package render

import (
	"fmt"
	"html"
	"strings"
)

// htmlDocument wraps a rendered body in the shared self-contained layout.
// All styling is inline; the document references no external stylesheets.
func (r *Renderer) htmlDocument(title, body string, year int) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html lang="en">` + "\n<head>\n")
	b.WriteString(`<meta charset="utf-8">` + "\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">` + "\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("</head>\n")
	b.WriteString(`<body style="margin:0;padding:0;background-color:#f4f4f5;font-family:Arial,Helvetica,sans-serif;color:#27272a;">` + "\n")
	b.WriteString(`<table role="presentation" width="100%" cellpadding="0" cellspacing="0"><tr><td align="center" style="padding:24px 12px;">` + "\n")
	b.WriteString(`<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="max-width:600px;width:100%;background-color:#ffffff;border-radius:8px;overflow:hidden;">` + "\n")

	// Header
	b.WriteString(`<tr><td style="background-color:#18181b;padding:20px 32px;">`)
	b.WriteString(`<span style="color:#ffffff;font-size:20px;font-weight:bold;letter-spacing:1px;">` + html.EscapeString(r.storeName) + `</span>`)
	b.WriteString("</td></tr>\n")

	// Body
	b.WriteString(`<tr><td style="padding:32px;font-size:14px;line-height:1.6;">` + "\n")
	b.WriteString(body)
	b.WriteString("\n</td></tr>\n")

	// Footer
	b.WriteString(`<tr><td style="background-color:#fafafa;padding:20px 32px;border-top:1px solid #e4e4e7;font-size:12px;color:#71717a;">`)
	b.WriteString(fmt.Sprintf("&copy; %d %s. All rights reserved.", year, html.EscapeString(r.storeName)))
	b.WriteString("</td></tr>\n")

	b.WriteString("</table>\n</td></tr></table>\n</body>\n</html>\n")
	return b.String()
}

// textDocument wraps the plain-text body with the shared header and footer.
func (r *Renderer) textDocument(body string, year int) string {
	var b strings.Builder
	b.WriteString(r.storeName + "\n")
	b.WriteString(strings.Repeat("=", len(r.storeName)) + "\n\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n(c) %d %s. All rights reserved.\n", year, r.storeName))
	return b.String()
}

// heading renders a section heading.
func heading(text string) string {
	return `<h1 style="margin:0 0 16px;font-size:20px;color:#18181b;">` + html.EscapeString(text) + "</h1>\n"
}

// paragraph renders an escaped paragraph.
func paragraph(text string) string {
	return `<p style="margin:0 0 16px;">` + html.EscapeString(text) + "</p>\n"
}

// button renders a call-to-action link.
func button(label, url string) string {
	if url == "" {
		return ""
	}
	return `<p style="margin:24px 0;"><a href="` + html.EscapeString(url) +
		`" style="background-color:#18181b;color:#ffffff;padding:12px 24px;border-radius:6px;text-decoration:none;display:inline-block;">` +
		html.EscapeString(label) + "</a></p>\n"
}

// keyValueRows renders a two-column detail table from label/value pairs.
func keyValueRows(pairs [][2]string) string {
	var b strings.Builder
	b.WriteString(`<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="margin:0 0 16px;">` + "\n")
	for _, kv := range pairs {
		b.WriteString(`<tr><td style="padding:6px 0;color:#71717a;width:40%;">` + html.EscapeString(kv[0]) + `</td>`)
		b.WriteString(`<td style="padding:6px 0;font-weight:bold;">` + html.EscapeString(kv[1]) + "</td></tr>\n")
	}
	b.WriteString("</table>\n")
	return b.String()
}

// greet builds the salutation line, degrading gracefully when the
// recipient name is unknown.
func greet(name string) string {
	if name == "" {
		return "Hi there,"
	}
	return "Hi " + name + ","
}
