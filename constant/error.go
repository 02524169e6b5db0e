package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrCredentialExists
	ErrInvalidPassword
	ErrInvalidLineItems
	ErrInvalidAddress
	ErrPaymentVerificationFailed
	ErrPaymentAlreadyUsed
	ErrAmountExceedsLimit
	ErrInsufficientStock
	ErrInvalidOrderStatus
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:                   "success",
	ErrInternal:                  "error internal",
	ErrNotFound:                  "data not found",
	ErrInvalidRequest:            "invalid request",
	ErrUnauthorize:               "unauthorize request",
	ErrCredentialExists:          "email or phone already exists",
	ErrInvalidPassword:           "password invalid",
	ErrInvalidLineItems:          "order items invalid",
	ErrInvalidAddress:            "shipping address invalid",
	ErrPaymentVerificationFailed: "payment verification failed",
	ErrPaymentAlreadyUsed:        "payment already used for another order",
	ErrAmountExceedsLimit:        "amount exceeds gateway limit",
	ErrInsufficientStock:         "insufficient stock",
	ErrInvalidOrderStatus:        "invalid order status",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:                   http.StatusOK,
	ErrInternal:                  http.StatusInternalServerError,
	ErrNotFound:                  http.StatusBadRequest,
	ErrInvalidRequest:            http.StatusBadRequest,
	ErrUnauthorize:               http.StatusUnauthorized,
	ErrCredentialExists:          http.StatusBadRequest,
	ErrInvalidPassword:           http.StatusBadRequest,
	ErrInvalidLineItems:          http.StatusBadRequest,
	ErrInvalidAddress:            http.StatusBadRequest,
	ErrPaymentVerificationFailed: http.StatusBadRequest,
	ErrPaymentAlreadyUsed:        http.StatusConflict,
	ErrAmountExceedsLimit:        http.StatusBadRequest,
	ErrInsufficientStock:         http.StatusConflict,
	ErrInvalidOrderStatus:        http.StatusBadRequest,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:                   "0000",
	ErrInternal:                  "0001",
	ErrNotFound:                  "0002",
	ErrInvalidRequest:            "0003",
	ErrUnauthorize:               "0004",
	ErrCredentialExists:          "0005",
	ErrInvalidPassword:           "0006",
	ErrInvalidLineItems:          "0007",
	ErrInvalidAddress:            "0008",
	ErrPaymentVerificationFailed: "0009",
	ErrPaymentAlreadyUsed:        "0010",
	ErrAmountExceedsLimit:        "0011",
	ErrInsufficientStock:         "0012",
	ErrInvalidOrderStatus:        "0013",
}
