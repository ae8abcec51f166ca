// Package event defines the business event catalog shared by the
// notification store, the template renderer, and the email transport.
package event

// Kind identifies a single business event.
type Kind string

// Order lifecycle events.
const (
	OrderCreated        Kind = "ORDER_CREATED"
	OrderConfirmed      Kind = "ORDER_CONFIRMED"
	OrderPaid           Kind = "ORDER_PAID"
	OrderProcessing     Kind = "ORDER_PROCESSING"
	OrderShipped        Kind = "ORDER_SHIPPED"
	OrderOutForDelivery Kind = "ORDER_OUT_FOR_DELIVERY"
	OrderDelivered      Kind = "ORDER_DELIVERED"
	OrderCancelled      Kind = "ORDER_CANCELLED"
	OrderRefunded       Kind = "ORDER_REFUNDED"
	PaymentFailed       Kind = "PAYMENT_FAILED"
)

// Quotation lifecycle events.
const (
	QuotationRequested Kind = "QUOTATION_REQUESTED"
	QuotationSent      Kind = "QUOTATION_SENT"
	QuotationAccepted  Kind = "QUOTATION_ACCEPTED"
	QuotationRejected  Kind = "QUOTATION_REJECTED"
	QuotationExpired   Kind = "QUOTATION_EXPIRED"
)

// Account lifecycle events.
const (
	Welcome           Kind = "WELCOME"
	EmailVerification Kind = "EMAIL_VERIFICATION"
	PasswordReset     Kind = "PASSWORD_RESET"
	PasswordChanged   Kind = "PASSWORD_CHANGED"
	AccountDeleted    Kind = "ACCOUNT_DELETED"
)

// Admin alert events.
const (
	AdminNewOrder         Kind = "ADMIN_NEW_ORDER"
	AdminOrderPaid        Kind = "ADMIN_ORDER_PAID"
	AdminOrderCancelled   Kind = "ADMIN_ORDER_CANCELLED"
	AdminNewUser          Kind = "ADMIN_NEW_USER"
	AdminQuotationRequest Kind = "ADMIN_QUOTATION_REQUEST"
	AdminLowStock         Kind = "ADMIN_LOW_STOCK"
)

// Campaign events (email only, no in-app record).
const (
	ProductLaunch Kind = "PRODUCT_LAUNCH"
)

// Category groups kinds so each group can share payload requirements
// and template structure.
type Category string

const (
	CategoryOrder     Category = "order"
	CategoryQuotation Category = "quotation"
	CategoryAccount   Category = "account"
	CategoryAdmin     Category = "admin"
	CategoryCampaign  Category = "campaign"
	CategoryUnknown   Category = "unknown"
)

// Category returns the event group a kind belongs to.
func (k Kind) Category() Category {
	switch k {
	case OrderCreated, OrderConfirmed, OrderPaid, OrderProcessing,
		OrderShipped, OrderOutForDelivery, OrderDelivered,
		OrderCancelled, OrderRefunded, PaymentFailed:
		return CategoryOrder
	case QuotationRequested, QuotationSent, QuotationAccepted,
		QuotationRejected, QuotationExpired:
		return CategoryQuotation
	case Welcome, EmailVerification, PasswordReset, PasswordChanged,
		AccountDeleted:
		return CategoryAccount
	case AdminNewOrder, AdminOrderPaid, AdminOrderCancelled,
		AdminNewUser, AdminQuotationRequest, AdminLowStock:
		return CategoryAdmin
	case ProductLaunch:
		return CategoryCampaign
	default:
		return CategoryUnknown
	}
}

// Valid reports whether the kind is part of the catalog.
func (k Kind) Valid() bool {
	return k.Category() != CategoryUnknown
}

// OrderItem is a single purchased line in an order.
type OrderItem struct {
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
}

// Order carries the order data referenced by order-category templates.
type Order struct {
	ID             string      `json:"id"`
	Items          []OrderItem `json:"items"`
	Subtotal       float64     `json:"subtotal"`
	DeliveryFee    float64     `json:"delivery_fee"`
	Total          float64     `json:"total"`
	Currency       string      `json:"currency"`
	PaymentMethod  string      `json:"payment_method,omitempty"`
	TrackingNumber string      `json:"tracking_number,omitempty"`
	CancelReason   string      `json:"cancel_reason,omitempty"`
	RefundAmount   float64     `json:"refund_amount,omitempty"`
}

// Quotation carries the quotation data referenced by quotation-category templates.
type Quotation struct {
	ID           string  `json:"id"`
	ProductTitle string  `json:"product_title"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Total        float64 `json:"total"`
	Currency     string  `json:"currency"`
	ValidUntil   string  `json:"valid_until,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// ProductLaunchInfo carries the campaign data for product announcements.
type ProductLaunchInfo struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url,omitempty"`
	URL         string  `json:"url,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
}

// LowStockInfo carries the data for admin low-stock alerts.
type LowStockInfo struct {
	ProductTitle string `json:"product_title"`
	Remaining    int    `json:"remaining"`
}

// EmailPayload is the transient input to the template renderer and the
// email transport. Each kind mandates a specific sub-object; the renderer
// enforces the contract at render time, not at construction.
type EmailPayload struct {
	Kind          Kind
	To            string
	Name          string
	Order         *Order
	Quotation     *Quotation
	ProductLaunch *ProductLaunchInfo
	LowStock      *LowStockInfo
	OTP           string
	ActionURL     string
}
