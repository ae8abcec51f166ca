package render

import (
	"html"
	"strings"

	"github.com/storely/herald/internal/event"
)

func (r *Renderer) renderAccount(p event.EmailPayload) (content, error) {
	var subject, headline, intro, closing string
	var extraHTML, extraText string
	actionLabel := ""
	actionURL := ""

	switch p.Kind {
	case event.Welcome:
		subject = "Welcome to " + r.storeName
		headline = "Welcome aboard!"
		intro = "your account has been created. Browse the catalog, save your favorites, and track your orders all in one place."
		closing = "Happy shopping!"
		actionLabel = "Start shopping"
		actionURL = r.baseURL

	case event.EmailVerification:
		if p.OTP == "" {
			return content{}, &TemplateError{Kind: p.Kind, Reason: "verification code is required"}
		}
		subject = "Your verification code"
		headline = "Verify your email address"
		intro = "use the code below to verify your email address. The code expires in 10 minutes."
		extraHTML = `<p style="margin:24px 0;text-align:center;"><span style="font-size:28px;font-weight:bold;letter-spacing:8px;background-color:#f4f4f5;padding:12px 24px;border-radius:6px;">` +
			html.EscapeString(p.OTP) + "</span></p>\n"
		extraText = "Verification code: " + p.OTP + "\n"
		closing = "If you did not create an account, you can safely ignore this email."

	case event.PasswordReset:
		subject = "Reset your password"
		headline = "Password reset requested"
		intro = "we received a request to reset the password for your account. Use the button below to choose a new one."
		closing = "If you did not request a reset, no action is needed and your password remains unchanged."
		actionLabel = "Reset password"
		actionURL = p.ActionURL
		if actionURL == "" {
			actionURL = r.baseURL + "/reset-password"
		}

	case event.PasswordChanged:
		subject = "Your password was changed"
		headline = "Password changed"
		intro = "the password for your account was just changed."
		closing = "If this was not you, reset your password immediately and contact support."

	case event.AccountDeleted:
		subject = "Your account has been deleted"
		headline = "Account deleted"
		intro = "your account and its data have been removed as requested."
		closing = "We are sorry to see you go. You are welcome back any time."

	default:
		return content{}, &TemplateError{Kind: p.Kind, Reason: "unknown account event kind"}
	}

	var h strings.Builder
	h.WriteString(heading(headline))
	h.WriteString(paragraph(greet(p.Name) + " " + intro))
	h.WriteString(extraHTML)
	h.WriteString(button(actionLabel, actionURL))
	h.WriteString(paragraph(closing))

	var t strings.Builder
	t.WriteString(headline + "\n\n")
	t.WriteString(greet(p.Name) + " " + intro + "\n\n")
	t.WriteString(extraText)
	if actionURL != "" {
		t.WriteString(actionLabel + ": " + actionURL + "\n")
	}
	t.WriteString("\n" + closing + "\n")

	return content{subject: subject, html: h.String(), text: t.String()}, nil
}
