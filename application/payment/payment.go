package payment

import (
	"context"
	"fmt"

	"github.com/aditpras/storefront/cmd/config"
	"github.com/aditpras/storefront/constant"
	"github.com/aditpras/storefront/model"
	"github.com/aditpras/storefront/thirdparty/paygate"
	"github.com/aditpras/storefront/utils/errors"
	"github.com/aditpras/storefront/utils/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentApp interface {
	CreatePaymentIntent(ctx context.Context, userID uint64, req *model.PaymentIntentRequest) (*model.GatewayOrder, error)
}

type paymentAppImpl struct {
	config  *config.Config
	gateway paygate.Client
}

func NewPaymentApp(config *config.Config, gateway paygate.Client) PaymentApp {
	return &paymentAppImpl{config: config, gateway: gateway}
}

// CreatePaymentIntent registers an order with the payment gateway so the
// client can pay against it. The gateway ceiling is enforced before any
// outbound call; over-limit requests never reach the gateway.
func (s *paymentAppImpl) CreatePaymentIntent(ctx context.Context, userID uint64, req *model.PaymentIntentRequest) (*model.GatewayOrder, error) {
	if req.Amount <= 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	if req.Amount > s.config.Payment.MaxAmount {
		return nil, errors.SetCustomError(constant.ErrAmountExceedsLimit)
	}

	currency := req.Currency
	if currency == "" {
		currency = s.config.Payment.Currency
	}

	receipt := fmt.Sprintf("rcpt-%d-%s", userID, uuid.NewString())
	order, err := s.gateway.CreateOrder(ctx, req.Amount, currency, receipt)
	if err != nil {
		logger.Error("[CreatePaymentIntent] gateway create order", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return order, nil
}
