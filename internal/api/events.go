package api

import (
	"encoding/json"
	"net/http"

	"github.com/storely/herald/internal/event"
	"github.com/storely/herald/internal/mail"
	"github.com/storely/herald/internal/store"
)

// OrderEventRequest triggers a user-facing order event.
type OrderEventRequest struct {
	Kind   event.Kind  `json:"kind"`
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Name   string      `json:"name"`
	Order  event.Order `json:"order"`
}

// TriggerOrderEvent handles POST /v1/events/order
func (h *Handler) TriggerOrderEvent(w http.ResponseWriter, r *http.Request) {
	var req OrderEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body", err.Error())
		return
	}
	if req.UserID == "" || req.Order.ID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Missing required fields", "user_id and order.id are required")
		return
	}

	ctx := r.Context()
	var resp store.NotificationResponse

	switch req.Kind {
	case event.OrderCreated:
		resp = h.dispatcher.OrderPlaced(ctx, req.UserID, req.Email, req.Name, req.Order)
	case event.OrderConfirmed:
		resp = h.dispatcher.OrderConfirmed(ctx, req.UserID, req.Email, req.Name, req.Order)
	case event.OrderPaid:
		resp = h.dispatcher.OrderPaid(ctx, req.UserID, req.Email, req.Name, req.Order)
	case event.OrderProcessing:
		resp = h.dispatcher.OrderProcessing(ctx, req.UserID, req.Email, req.Name, req.Order)
	case event.OrderShipped:
		resp = h.dispatcher.OrderShipped(ctx, req.UserID, req.Email, req.Name, req.Order)
	case event.OrderOutForDelivery:
		resp = h.dispatcher.OrderOutForDelivery(ctx, req.UserID, req.Email, req.Name, req.Order)
	case event.OrderDelivered:
		resp = h.dispatcher.OrderDelivered(ctx, req.UserID, req.Email, req.Name, req.Order)
	case event.OrderCancelled:
		resp = h.dispatcher.OrderCancelled(ctx, req.UserID, req.Email, req.Name, req.Order)
	case event.OrderRefunded:
		resp = h.dispatcher.OrderRefunded(ctx, req.UserID, req.Email, req.Name, req.Order)
	case event.PaymentFailed:
		resp = h.dispatcher.PaymentFailed(ctx, req.UserID, req.Email, req.Name, req.Order)
	default:
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid kind", "kind must be an order event")
		return
	}

	h.writeNotificationResponse(w, resp)
}

// QuotationEventRequest triggers a user-facing quotation event.
type QuotationEventRequest struct {
	Kind      event.Kind      `json:"kind"`
	UserID    string          `json:"user_id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Quotation event.Quotation `json:"quotation"`
}

// TriggerQuotationEvent handles POST /v1/events/quotation
func (h *Handler) TriggerQuotationEvent(w http.ResponseWriter, r *http.Request) {
	var req QuotationEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body", err.Error())
		return
	}
	if req.UserID == "" || req.Quotation.ID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Missing required fields", "user_id and quotation.id are required")
		return
	}

	ctx := r.Context()
	var resp store.NotificationResponse

	switch req.Kind {
	case event.QuotationRequested:
		resp = h.dispatcher.QuotationRequested(ctx, req.UserID, req.Email, req.Name, req.Quotation)
	case event.QuotationSent:
		resp = h.dispatcher.QuotationReady(ctx, req.UserID, req.Email, req.Name, req.Quotation)
	case event.QuotationAccepted:
		resp = h.dispatcher.QuotationAccepted(ctx, req.UserID, req.Email, req.Name, req.Quotation)
	case event.QuotationRejected:
		resp = h.dispatcher.QuotationRejected(ctx, req.UserID, req.Email, req.Name, req.Quotation)
	case event.QuotationExpired:
		resp = h.dispatcher.QuotationExpired(ctx, req.UserID, req.Email, req.Name, req.Quotation)
	default:
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid kind", "kind must be a quotation event")
		return
	}

	h.writeNotificationResponse(w, resp)
}

// AccountEventRequest triggers an account lifecycle event.
type AccountEventRequest struct {
	Kind      event.Kind `json:"kind"`
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	OTP       string     `json:"otp,omitempty"`
	ActionURL string     `json:"action_url,omitempty"`
}

// TriggerAccountEvent handles POST /v1/events/account
func (h *Handler) TriggerAccountEvent(w http.ResponseWriter, r *http.Request) {
	var req AccountEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body", err.Error())
		return
	}

	ctx := r.Context()

	switch req.Kind {
	case event.Welcome:
		h.writeNotificationResponse(w, h.dispatcher.WelcomeUser(ctx, req.UserID, req.Email, req.Name))
	case event.PasswordChanged:
		h.writeNotificationResponse(w, h.dispatcher.PasswordChanged(ctx, req.UserID, req.Email, req.Name))
	case event.EmailVerification:
		h.writeMailResponse(w, h.dispatcher.EmailVerificationRequested(ctx, req.Email, req.Name, req.OTP))
	case event.PasswordReset:
		h.writeMailResponse(w, h.dispatcher.PasswordResetRequested(ctx, req.Email, req.Name, req.ActionURL))
	case event.AccountDeleted:
		h.writeMailResponse(w, h.dispatcher.AccountDeleted(ctx, req.Email, req.Name))
	default:
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid kind", "kind must be an account event")
	}
}

// AdminEventRequest triggers an admin alert broadcast.
type AdminEventRequest struct {
	Kind         event.Kind          `json:"kind"`
	CustomerName string              `json:"customer_name,omitempty"`
	Email        string              `json:"email,omitempty"`
	Order        *event.Order        `json:"order,omitempty"`
	Quotation    *event.Quotation    `json:"quotation,omitempty"`
	LowStock     *event.LowStockInfo `json:"low_stock,omitempty"`
}

// TriggerAdminEvent handles POST /v1/events/admin
func (h *Handler) TriggerAdminEvent(w http.ResponseWriter, r *http.Request) {
	var req AdminEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body", err.Error())
		return
	}

	ctx := r.Context()

	switch req.Kind {
	case event.AdminNewOrder, event.AdminOrderPaid, event.AdminOrderCancelled:
		if req.Order == nil {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "Missing order", "order is required for this kind")
			return
		}
		var resp store.NotificationResponse
		switch req.Kind {
		case event.AdminNewOrder:
			resp = h.dispatcher.AdminNewOrder(ctx, req.CustomerName, *req.Order)
		case event.AdminOrderPaid:
			resp = h.dispatcher.AdminOrderPaid(ctx, req.CustomerName, *req.Order)
		case event.AdminOrderCancelled:
			resp = h.dispatcher.AdminOrderCancelled(ctx, req.CustomerName, *req.Order)
		}
		h.writeNotificationResponse(w, resp)
	case event.AdminNewUser:
		h.writeNotificationResponse(w, h.dispatcher.AdminNewUser(ctx, req.CustomerName, req.Email))
	case event.AdminQuotationRequest:
		if req.Quotation == nil {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "Missing quotation", "quotation is required for this kind")
			return
		}
		h.writeNotificationResponse(w, h.dispatcher.AdminQuotationRequest(ctx, req.CustomerName, *req.Quotation))
	case event.AdminLowStock:
		if req.LowStock == nil {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "Missing low_stock", "low_stock is required for this kind")
			return
		}
		h.writeNotificationResponse(w, h.dispatcher.AdminLowStock(ctx, *req.LowStock))
	default:
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid kind", "kind must be an admin event")
	}
}

// ProductLaunchRequest triggers a launch campaign to subscriber addresses.
type ProductLaunchRequest struct {
	Emails []string                `json:"emails"`
	Info   event.ProductLaunchInfo `json:"info"`
}

// TriggerProductLaunch handles POST /v1/events/product-launch
func (h *Handler) TriggerProductLaunch(w http.ResponseWriter, r *http.Request) {
	var req ProductLaunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body", err.Error())
		return
	}
	if len(req.Emails) == 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Missing emails", "at least one recipient email is required")
		return
	}

	responses := h.dispatcher.ProductLaunchAnnouncement(r.Context(), req.Emails, req.Info)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": responses,
		"count":   len(responses),
	})
}

func (h *Handler) writeNotificationResponse(w http.ResponseWriter, resp store.NotificationResponse) {
	status := http.StatusCreated
	if !resp.Success {
		status = http.StatusInternalServerError
	}
	h.writeJSON(w, status, resp)
}

func (h *Handler) writeMailResponse(w http.ResponseWriter, resp mail.Response) {
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, resp)
}
