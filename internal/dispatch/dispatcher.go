// Package dispatch exposes one method per business event. Each method
// persists a notification record and independently delivers the matching
// email. The two writes are not transactional: the email outcome is
// logged and never propagated to the caller.
package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/storely/herald/internal/event"
	"github.com/storely/herald/internal/mail"
	"github.com/storely/herald/internal/store"
)

// Config carries the dispatcher's environment-derived settings.
type Config struct {
	// BaseURL is the storefront origin used to build deep links.
	BaseURL string
	// AdminRecipientID is the shared recipient id admin alert records
	// are written to.
	AdminRecipientID string
}

// Dispatcher composes the notification store and the email transport
// behind per-event trigger methods.
type Dispatcher struct {
	store     *store.Service
	mail      *mail.Service
	directory store.Directory
	cfg       Config
	logger    *zap.Logger
}

// New creates a dispatcher. The directory resolves admin addresses for
// broadcast events.
func New(st *store.Service, ml *mail.Service, dir store.Directory, cfg Config, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:     st,
		mail:      ml,
		directory: dir,
		cfg:       cfg,
		logger:    logger,
	}
}

// notify persists a record and returns the store's response unchanged.
func (d *Dispatcher) notify(ctx context.Context, p store.CreateParams) store.NotificationResponse {
	resp := d.store.CreateNotification(ctx, p)
	if !resp.Success {
		d.logger.Error("notification record write failed",
			zap.String("kind", string(p.Kind)),
			zap.String("recipient_id", p.RecipientID),
			zap.String("error", resp.Error),
		)
	}
	return resp
}

// email sends a single email and logs the outcome on failure.
func (d *Dispatcher) email(ctx context.Context, p event.EmailPayload) {
	if resp := d.mail.SendEmail(ctx, p); !resp.Success {
		d.logger.Warn("event email delivery failed",
			zap.String("kind", string(p.Kind)),
			zap.String("to", p.To),
			zap.String("error", resp.Error),
		)
	}
}

// broadcastAdminEmail resolves every admin address and fans the payload
// out to all of them. Directory failures degrade to sending nothing.
func (d *Dispatcher) broadcastAdminEmail(ctx context.Context, p event.EmailPayload) {
	emails, err := d.directory.AdminEmails(ctx)
	if err != nil {
		d.logger.Error("failed to resolve admin emails",
			zap.Error(err),
			zap.String("kind", string(p.Kind)),
		)
		return
	}

	payloads := make([]event.EmailPayload, 0, len(emails))
	for _, addr := range emails {
		cp := p
		cp.To = addr
		payloads = append(payloads, cp)
	}

	for i, resp := range d.mail.SendMultipleEmails(ctx, payloads) {
		if !resp.Success {
			d.logger.Warn("admin broadcast email failed",
				zap.String("kind", string(p.Kind)),
				zap.String("to", payloads[i].To),
				zap.String("error", resp.Error),
			)
		}
	}
}

func (d *Dispatcher) orderURL(orderID string) string {
	return fmt.Sprintf("%s/orders/%s", d.cfg.BaseURL, orderID)
}

func (d *Dispatcher) quotationURL(quotationID string) string {
	return fmt.Sprintf("%s/quotations/%s", d.cfg.BaseURL, quotationID)
}

func orderData(order event.Order) map[string]any {
	return map[string]any{
		"order_id": order.ID,
		"total":    order.Total,
		"currency": order.Currency,
	}
}

func quotationData(q event.Quotation) map[string]any {
	return map[string]any{
		"quotation_id":  q.ID,
		"product_title": q.ProductTitle,
		"total":         q.Total,
		"currency":      q.Currency,
	}
}

// orderEvent is the shared shape of every user-facing order helper.
func (d *Dispatcher) orderEvent(ctx context.Context, kind event.Kind, userID, email, name, title, message string, order event.Order) store.NotificationResponse {
	resp := d.notify(ctx, store.CreateParams{
		RecipientID:   userID,
		RecipientRole: store.RoleUser,
		Kind:          kind,
		Title:         title,
		Message:       message,
		URL:           d.orderURL(order.ID),
		Data:          orderData(order),
	})

	d.email(ctx, event.EmailPayload{
		Kind:  kind,
		To:    email,
		Name:  name,
		Order: &order,
	})

	return resp
}

// OrderPlaced records and mails an order confirmation request.
func (d *Dispatcher) OrderPlaced(ctx context.Context, userID, email, name string, order event.Order) store.NotificationResponse {
	return d.orderEvent(ctx, event.OrderCreated, userID, email, name,
		"Order placed",
		fmt.Sprintf("Thanks %s, we received your order %s and will confirm it shortly.", name, order.ID),
		order,
	)
}

// OrderConfirmed records and mails an order confirmation.
func (d *Dispatcher) OrderConfirmed(ctx context.Context, userID, email, name string, order event.Order) store.NotificationResponse {
	return d.orderEvent(ctx, event.OrderConfirmed, userID, email, name,
		"Order confirmed",
		fmt.Sprintf("Your order %s has been confirmed and is moving to processing.", order.ID),
		order,
	)
}

// OrderPaid records and mails a payment receipt.
func (d *Dispatcher) OrderPaid(ctx context.Context, userID, email, name string, order event.Order) store.NotificationResponse {
	return d.orderEvent(ctx, event.OrderPaid, userID, email, name,
		"Payment received",
		fmt.Sprintf("We received your payment for order %s.", order.ID),
		order,
	)
}

// OrderProcessing records and mails a processing update.
func (d *Dispatcher) OrderProcessing(ctx context.Context, userID, email, name string, order event.Order) store.NotificationResponse {
	return d.orderEvent(ctx, event.OrderProcessing, userID, email, name,
		"Order processing",
		fmt.Sprintf("Order %s is being prepared for shipment.", order.ID),
		order,
	)
}

// OrderShipped records and mails a shipping update. The tracking number
// travels inside the order.
func (d *Dispatcher) OrderShipped(ctx context.Context, userID, email, name string, order event.Order) store.NotificationResponse {
	message := fmt.Sprintf("Order %s is on its way.", order.ID)
	if order.TrackingNumber != "" {
		message = fmt.Sprintf("Order %s is on its way. Tracking number: %s.", order.ID, order.TrackingNumber)
	}
	return d.orderEvent(ctx, event.OrderShipped, userID, email, name,
		"Order shipped", message, order)
}

// OrderOutForDelivery records and mails a delivery-day update.
func (d *Dispatcher) OrderOutForDelivery(ctx context.Context, userID, email, name string, order event.Order) store.NotificationResponse {
	return d.orderEvent(ctx, event.OrderOutForDelivery, userID, email, name,
		"Out for delivery",
		fmt.Sprintf("Order %s is out for delivery and should arrive today.", order.ID),
		order,
	)
}

// OrderDelivered records and mails a delivery confirmation.
func (d *Dispatcher) OrderDelivered(ctx context.Context, userID, email, name string, order event.Order) store.NotificationResponse {
	return d.orderEvent(ctx, event.OrderDelivered, userID, email, name,
		"Order delivered",
		fmt.Sprintf("Order %s was delivered. We hope you enjoy it!", order.ID),
		order,
	)
}

// OrderCancelled records and mails a cancellation notice.
func (d *Dispatcher) OrderCancelled(ctx context.Context, userID, email, name string, order event.Order) store.NotificationResponse {
	message := fmt.Sprintf("Order %s was cancelled.", order.ID)
	if order.CancelReason != "" {
		message = fmt.Sprintf("Order %s was cancelled: %s.", order.ID, order.CancelReason)
	}
	return d.orderEvent(ctx, event.OrderCancelled, userID, email, name,
		"Order cancelled", message, order)
}

// OrderRefunded records and mails a refund notice.
func (d *Dispatcher) OrderRefunded(ctx context.Context, userID, email, name string, order event.Order) store.NotificationResponse {
	return d.orderEvent(ctx, event.OrderRefunded, userID, email, name,
		"Refund issued",
		fmt.Sprintf("A refund for order %s has been issued and should reach you within a few business days.", order.ID),
		order,
	)
}

// PaymentFailed records and mails a payment failure notice.
func (d *Dispatcher) PaymentFailed(ctx context.Context, userID, email, name string, order event.Order) store.NotificationResponse {
	return d.orderEvent(ctx, event.PaymentFailed, userID, email, name,
		"Payment failed",
		fmt.Sprintf("Payment for order %s did not go through. Please try again.", order.ID),
		order,
	)
}

// quotationEvent is the shared shape of every user-facing quotation helper.
func (d *Dispatcher) quotationEvent(ctx context.Context, kind event.Kind, userID, email, name, title, message string, q event.Quotation) store.NotificationResponse {
	resp := d.notify(ctx, store.CreateParams{
		RecipientID:   userID,
		RecipientRole: store.RoleUser,
		Kind:          kind,
		Title:         title,
		Message:       message,
		URL:           d.quotationURL(q.ID),
		Data:          quotationData(q),
	})

	d.email(ctx, event.EmailPayload{
		Kind:      kind,
		To:        email,
		Name:      name,
		Quotation: &q,
	})

	return resp
}

// QuotationRequested records and mails a request acknowledgement.
func (d *Dispatcher) QuotationRequested(ctx context.Context, userID, email, name string, q event.Quotation) store.NotificationResponse {
	return d.quotationEvent(ctx, event.QuotationRequested, userID, email, name,
		"Quotation requested",
		fmt.Sprintf("We received your quotation request for %s and will get back to you soon.", q.ProductTitle),
		q,
	)
}

// QuotationReady records and mails the prepared quotation.
func (d *Dispatcher) QuotationReady(ctx context.Context, userID, email, name string, q event.Quotation) store.NotificationResponse {
	return d.quotationEvent(ctx, event.QuotationSent, userID, email, name,
		"Your quotation is ready",
		fmt.Sprintf("Your quotation for %s is ready for review.", q.ProductTitle),
		q,
	)
}

// QuotationAccepted records and mails an acceptance confirmation.
func (d *Dispatcher) QuotationAccepted(ctx context.Context, userID, email, name string, q event.Quotation) store.NotificationResponse {
	return d.quotationEvent(ctx, event.QuotationAccepted, userID, email, name,
		"Quotation accepted",
		fmt.Sprintf("You accepted the quotation for %s. We will follow up with the next steps.", q.ProductTitle),
		q,
	)
}

// QuotationRejected records and mails a rejection confirmation.
func (d *Dispatcher) QuotationRejected(ctx context.Context, userID, email, name string, q event.Quotation) store.NotificationResponse {
	return d.quotationEvent(ctx, event.QuotationRejected, userID, email, name,
		"Quotation declined",
		fmt.Sprintf("You declined the quotation for %s.", q.ProductTitle),
		q,
	)
}

// QuotationExpired records and mails an expiry notice.
func (d *Dispatcher) QuotationExpired(ctx context.Context, userID, email, name string, q event.Quotation) store.NotificationResponse {
	return d.quotationEvent(ctx, event.QuotationExpired, userID, email, name,
		"Quotation expired",
		fmt.Sprintf("The quotation for %s has expired. Request a new one anytime.", q.ProductTitle),
		q,
	)
}

// WelcomeUser records and mails the new-account welcome.
func (d *Dispatcher) WelcomeUser(ctx context.Context, userID, email, name string) store.NotificationResponse {
	resp := d.notify(ctx, store.CreateParams{
		RecipientID:   userID,
		RecipientRole: store.RoleUser,
		Kind:          event.Welcome,
		Title:         "Welcome aboard",
		Message:       fmt.Sprintf("Welcome %s! Your account is ready.", name),
		URL:           d.cfg.BaseURL,
	})

	d.email(ctx, event.EmailPayload{
		Kind:      event.Welcome,
		To:        email,
		Name:      name,
		ActionURL: d.cfg.BaseURL,
	})

	return resp
}

// EmailVerificationRequested delivers the verification code. Email only,
// no record is written.
func (d *Dispatcher) EmailVerificationRequested(ctx context.Context, email, name, otp string) mail.Response {
	return d.mail.SendEmail(ctx, event.EmailPayload{
		Kind: event.EmailVerification,
		To:   email,
		Name: name,
		OTP:  otp,
	})
}

// PasswordResetRequested delivers the reset link. Email only, no record
// is written.
func (d *Dispatcher) PasswordResetRequested(ctx context.Context, email, name, resetURL string) mail.Response {
	return d.mail.SendEmail(ctx, event.EmailPayload{
		Kind:      event.PasswordReset,
		To:        email,
		Name:      name,
		ActionURL: resetURL,
	})
}

// PasswordChanged records and mails a security notice.
func (d *Dispatcher) PasswordChanged(ctx context.Context, userID, email, name string) store.NotificationResponse {
	resp := d.notify(ctx, store.CreateParams{
		RecipientID:   userID,
		RecipientRole: store.RoleUser,
		Kind:          event.PasswordChanged,
		Title:         "Password changed",
		Message:       "Your password was changed. If this was not you, contact support immediately.",
	})

	d.email(ctx, event.EmailPayload{
		Kind: event.PasswordChanged,
		To:   email,
		Name: name,
	})

	return resp
}

// AccountDeleted mails a closure confirmation. Email only: the account
// the record would belong to no longer exists.
func (d *Dispatcher) AccountDeleted(ctx context.Context, email, name string) mail.Response {
	return d.mail.SendEmail(ctx, event.EmailPayload{
		Kind: event.AccountDeleted,
		To:   email,
		Name: name,
	})
}

// adminEvent writes a single record to the shared admin recipient and
// broadcasts the email to every admin address. One record, many emails.
func (d *Dispatcher) adminEvent(ctx context.Context, title, message string, p event.EmailPayload, data map[string]any) store.NotificationResponse {
	resp := d.notify(ctx, store.CreateParams{
		RecipientID:   d.cfg.AdminRecipientID,
		RecipientRole: store.RoleAdmin,
		Kind:          p.Kind,
		Title:         title,
		Message:       message,
		Data:          data,
	})

	d.broadcastAdminEmail(ctx, p)

	return resp
}

// AdminNewOrder alerts admins about a new order.
func (d *Dispatcher) AdminNewOrder(ctx context.Context, customerName string, order event.Order) store.NotificationResponse {
	return d.adminEvent(ctx,
		"New order",
		fmt.Sprintf("%s placed order %s.", customerName, order.ID),
		event.EmailPayload{Kind: event.AdminNewOrder, Name: customerName, Order: &order},
		orderData(order),
	)
}

// AdminOrderPaid alerts admins about a completed payment.
func (d *Dispatcher) AdminOrderPaid(ctx context.Context, customerName string, order event.Order) store.NotificationResponse {
	return d.adminEvent(ctx,
		"Order paid",
		fmt.Sprintf("Payment received for order %s from %s.", order.ID, customerName),
		event.EmailPayload{Kind: event.AdminOrderPaid, Name: customerName, Order: &order},
		orderData(order),
	)
}

// AdminOrderCancelled alerts admins about a cancellation.
func (d *Dispatcher) AdminOrderCancelled(ctx context.Context, customerName string, order event.Order) store.NotificationResponse {
	return d.adminEvent(ctx,
		"Order cancelled",
		fmt.Sprintf("Order %s from %s was cancelled.", order.ID, customerName),
		event.EmailPayload{Kind: event.AdminOrderCancelled, Name: customerName, Order: &order},
		orderData(order),
	)
}

// AdminNewUser alerts admins about a signup.
func (d *Dispatcher) AdminNewUser(ctx context.Context, name, email string) store.NotificationResponse {
	return d.adminEvent(ctx,
		"New user",
		fmt.Sprintf("%s (%s) just signed up.", name, email),
		event.EmailPayload{Kind: event.AdminNewUser, Name: name},
		map[string]any{"email": email},
	)
}

// AdminQuotationRequest alerts admins about a quotation request.
func (d *Dispatcher) AdminQuotationRequest(ctx context.Context, customerName string, q event.Quotation) store.NotificationResponse {
	return d.adminEvent(ctx,
		"Quotation request",
		fmt.Sprintf("%s requested a quotation for %s.", customerName, q.ProductTitle),
		event.EmailPayload{Kind: event.AdminQuotationRequest, Name: customerName, Quotation: &q},
		quotationData(q),
	)
}

// AdminLowStock alerts admins about inventory running out.
func (d *Dispatcher) AdminLowStock(ctx context.Context, info event.LowStockInfo) store.NotificationResponse {
	return d.adminEvent(ctx,
		"Low stock",
		fmt.Sprintf("%s is down to %d units.", info.ProductTitle, info.Remaining),
		event.EmailPayload{Kind: event.AdminLowStock, LowStock: &info},
		map[string]any{"product_title": info.ProductTitle, "remaining": info.Remaining},
	)
}

// ProductLaunchAnnouncement mails a launch campaign to the given
// subscriber addresses. Email only, no records are written.
func (d *Dispatcher) ProductLaunchAnnouncement(ctx context.Context, emails []string, info event.ProductLaunchInfo) []mail.Response {
	payloads := make([]event.EmailPayload, 0, len(emails))
	for _, addr := range emails {
		payloads = append(payloads, event.EmailPayload{
			Kind:          event.ProductLaunch,
			To:            addr,
			ProductLaunch: &info,
		})
	}
	return d.mail.SendMultipleEmails(ctx, payloads)
}
