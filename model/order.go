package model

import (
	"time"

	"github.com/aditpras/storefront/constant"
)

// LineItemRequest is one product/variant/size entry submitted at checkout.
// Price is a unit price in minor units (cents) snapshotted by the client;
// the server recomputes every total from it.
type LineItemRequest struct {
	ProductID uint64 `json:"product_id" validate:"required"`
	VariantID uint64 `json:"variant_id" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Image     string `json:"image"`
	Price     int64  `json:"price" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Size      string `json:"size" validate:"required"`
	Color     string `json:"color" validate:"required"`
}

// ShippingAddress is copied into the order at checkout time. Later edits to
// the user's saved addresses never touch historical orders.
type ShippingAddress struct {
	FullName   string `db:"full_name" json:"full_name" validate:"required"`
	Street     string `db:"street" json:"street" validate:"required"`
	City       string `db:"city" json:"city" validate:"required"`
	State      string `db:"state" json:"state"`
	PostalCode string `db:"postal_code" json:"postal_code" validate:"required"`
	Country    string `db:"country" json:"country" validate:"required"`
	Phone      string `db:"phone" json:"phone"`
}

// PaymentConfirmation is what the client echoes back after paying at the
// gateway. It is validated once against the shared secret and discarded.
type PaymentConfirmation struct {
	GatewayOrderID   string `json:"gateway_order_id" validate:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required"`
	Signature        string `json:"signature" validate:"required"`
}

type PlaceOrderRequest struct {
	Items         []LineItemRequest      `json:"items" validate:"required,dive,required"`
	Address       ShippingAddress        `json:"address"`
	Confirmation  PaymentConfirmation    `json:"confirmation"`
	PaymentMethod constant.PaymentMethod `json:"payment_method" validate:"required,oneof=card paypal cod"`
	Email         string                 `json:"email" validate:"required,email"`
}

// PaymentResult is the gateway confirmation embedded into the order row.
type PaymentResult struct {
	PaymentID  string    `db:"payment_id" json:"payment_id"`
	Status     string    `db:"payment_status" json:"status"`
	PayerEmail string    `db:"payer_email" json:"payer_email"`
	PaidAt     time.Time `db:"paid_at" json:"paid_at"`
}

type OrderItem struct {
	ID        uint64 `db:"id" json:"id"`
	OrderID   uint64 `db:"order_id" json:"order_id"`
	ProductID uint64 `db:"product_id" json:"product_id"`
	VariantID uint64 `db:"variant_id" json:"variant_id"`
	Title     string `db:"title" json:"title"`
	Image     string `db:"image" json:"image"`
	Price     int64  `db:"price" json:"price"`
	Quantity  int    `db:"quantity" json:"quantity"`
	Size      string `db:"size" json:"size"`
	Color     string `db:"color" json:"color"`
}

// Order is the committed aggregate returned to the caller.
type Order struct {
	ID            uint64                 `json:"id"`
	UserID        uint64                 `json:"user_id"`
	Items         []OrderItem            `json:"items"`
	Address       ShippingAddress        `json:"address"`
	PaymentMethod constant.PaymentMethod `json:"payment_method"`
	PaymentResult PaymentResult          `json:"payment_result"`
	ItemsPrice    int64                  `json:"items_price"`
	ShippingPrice int64                  `json:"shipping_price"`
	TaxPrice      int64                  `json:"tax_price"`
	TotalPrice    int64                  `json:"total_price"`
	IsPaid        bool                   `json:"is_paid"`
	IsDelivered   bool                   `json:"is_delivered"`
	DeliveredAt   *time.Time             `json:"delivered_at,omitempty"`
	Status        constant.OrderStatus   `json:"status"`
	CreatedAt     time.Time              `json:"created_at"`
}

// InsertOrderTxItem carries everything the order insert needs inside the
// checkout transaction.
type InsertOrderTxItem struct {
	UserID        uint64
	Status        constant.OrderStatus
	Address       ShippingAddress
	PaymentMethod constant.PaymentMethod
	PaymentResult PaymentResult
	ItemsPrice    int64
	ShippingPrice int64
	TaxPrice      int64
	TotalPrice    int64
}

type OrderDetail struct {
	ID          uint64               `db:"id"`
	UserID      uint64               `db:"user_id"`
	Status      constant.OrderStatus `db:"status"`
	TotalPrice  int64                `db:"total_price"`
	IsPaid      bool                 `db:"is_paid"`
	IsDelivered bool                 `db:"is_delivered"`
}

type OrderListItem struct {
	ID         uint64               `db:"id" json:"id"`
	Status     constant.OrderStatus `db:"status" json:"status"`
	TotalPrice int64                `db:"total_price" json:"total_price"`
	CreatedAt  time.Time            `db:"created_at" json:"created_at"`
}
