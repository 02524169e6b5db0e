package constant

type OrderStatus int

const (
	OrderStatusProcessing OrderStatus = 1
	OrderStatusShipped    OrderStatus = 2
	OrderStatusDelivered  OrderStatus = 3
	OrderStatusCancelled  OrderStatus = 4
)

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodPaypal PaymentMethod = "paypal"
	PaymentMethodCOD    PaymentMethod = "cod"
)
