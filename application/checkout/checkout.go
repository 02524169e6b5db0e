package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/aditpras/storefront/application/payment"
	"github.com/aditpras/storefront/cmd/config"
	"github.com/aditpras/storefront/constant"
	"github.com/aditpras/storefront/model"
	orderrepo "github.com/aditpras/storefront/repository/order"
	stockrepo "github.com/aditpras/storefront/repository/stock"
	txrepo "github.com/aditpras/storefront/repository/tx"
	"github.com/aditpras/storefront/thirdparty/rabbitmq"
	"github.com/aditpras/storefront/utils/errors"
	"github.com/aditpras/storefront/utils/logger"
	validatorx "github.com/aditpras/storefront/utils/validator"
	"go.uber.org/zap"
)

type CheckoutApp interface {
	PlaceOrder(ctx context.Context, userID uint64, req *model.PlaceOrderRequest) (*model.Order, error)
}

type checkoutAppImpl struct {
	config    *config.Config
	txRepo    txrepo.TxRepository
	orderRepo orderrepo.OrderRepository
	stockRepo stockrepo.StockRepository
	notifier  rabbitmq.Notifier
}

func NewCheckoutApp(config *config.Config, txRepo txrepo.TxRepository, orderRepo orderrepo.OrderRepository, stockRepo stockrepo.StockRepository, notifier rabbitmq.Notifier) CheckoutApp {
	return &checkoutAppImpl{config: config, txRepo: txRepo, orderRepo: orderRepo, stockRepo: stockRepo, notifier: notifier}
}

// PlaceOrder turns a verified payment confirmation plus cart snapshot into a
// durable order. Validation and signature checks run before the transaction
// opens and have zero side effects. The order insert and every conditional
// stock decrement commit together or not at all. The confirmation publish
// happens only after commit and its failure is only logged.
func (s *checkoutAppImpl) PlaceOrder(ctx context.Context, userID uint64, req *model.PlaceOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidLineItems)
	}
	for i := range req.Items {
		if err := validatorx.ValidateStruct(&req.Items[i]); err != nil {
			return nil, errors.SetCustomError(constant.ErrInvalidLineItems)
		}
	}
	if err := validatorx.ValidateStruct(&req.Address); err != nil {
		return nil, errors.SetCustomError(constant.ErrInvalidAddress)
	}
	if err := validatorx.ValidateVar(req.Email, "required,email"); err != nil {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	if err := validatorx.ValidateVar(string(req.PaymentMethod), "required,oneof=card paypal cod"); err != nil {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	conf := req.Confirmation
	if !payment.VerifySignature(conf.GatewayOrderID, conf.GatewayPaymentID, conf.Signature, s.config.Payment.GatewaySecret) {
		return nil, errors.SetCustomError(constant.ErrPaymentVerificationFailed)
	}

	// totals are recomputed server-side in minor units, never trusted from
	// the client
	var itemsPrice int64
	for _, item := range req.Items {
		itemsPrice += item.Price * int64(item.Quantity)
	}
	shippingPrice := s.config.Payment.ShippingFee
	taxPrice := itemsPrice * s.config.Payment.TaxRateBps / 10000
	totalPrice := itemsPrice + shippingPrice + taxPrice
	if totalPrice <= 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidLineItems)
	}

	// one order per gateway payment; payment_id also has a unique index
	used, err := s.orderRepo.ExistsByPaymentID(ctx, conf.GatewayPaymentID)
	if err != nil {
		logger.Error("[PlaceOrder] check payment id", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if used {
		return nil, errors.SetCustomError(constant.ErrPaymentAlreadyUsed)
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[PlaceOrder] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	now := time.Now()
	paymentResult := model.PaymentResult{
		PaymentID:  conf.GatewayPaymentID,
		Status:     "captured",
		PayerEmail: req.Email,
		PaidAt:     now,
	}

	orderID, err := s.orderRepo.InsertOrderTx(ctx, tx, &model.InsertOrderTxItem{
		UserID:        userID,
		Status:        constant.OrderStatusProcessing,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		PaymentResult: paymentResult,
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TaxPrice:      taxPrice,
		TotalPrice:    totalPrice,
	})
	if err != nil {
		logger.Error("[PlaceOrder] insert order", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.orderRepo.InsertOrderItemsTx(ctx, tx, orderID, req.Items); err != nil {
		logger.Error("[PlaceOrder] insert items", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	// conditional decrement per item; a miss dooms the whole transaction,
	// the remaining items are still checked so the caller gets the full list
	var outOfStock []string
	for _, item := range req.Items {
		ok, err := s.stockRepo.DecrementStockTx(ctx, tx, &model.StockDecrement{
			ProductID: item.ProductID,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
		})
		if err != nil {
			logger.Error("[PlaceOrder] decrement stock", zap.Uint64("product_id", item.ProductID), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		if !ok {
			logger.Info("[PlaceOrder] insufficient stock",
				zap.Uint64("product_id", item.ProductID),
				zap.String("color", item.Color),
				zap.String("size", item.Size),
				zap.Int("need", item.Quantity))
			outOfStock = append(outOfStock, fmt.Sprintf("%s (%s/%s)", item.Title, item.Color, item.Size))
		}
	}
	if len(outOfStock) > 0 {
		return nil, errors.SetCustomErrorWithDetails(constant.ErrInsufficientStock, outOfStock)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[PlaceOrder] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	// Publish order confirmation, best effort after commit
	if s.notifier != nil {
		msg := rabbitmq.OrderConfirmationMessage{
			OrderID:    orderID,
			UserID:     userID,
			Email:      req.Email,
			TotalPrice: totalPrice,
			PlacedAt:   now,
		}
		if err := s.notifier.PublishOrderConfirmation(msg); err != nil {
			logger.Error("[PlaceOrder] publish order confirmation", zap.String("error", err.Error()))
		}
	}

	return buildOrder(orderID, userID, req, paymentResult, itemsPrice, shippingPrice, taxPrice, totalPrice, now), nil
}

func buildOrder(orderID, userID uint64, req *model.PlaceOrderRequest, pr model.PaymentResult, itemsPrice, shippingPrice, taxPrice, totalPrice int64, now time.Time) *model.Order {
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.OrderItem{
			OrderID:   orderID,
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Title:     it.Title,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
		})
	}

	return &model.Order{
		ID:            orderID,
		UserID:        userID,
		Items:         items,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		PaymentResult: pr,
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TaxPrice:      taxPrice,
		TotalPrice:    totalPrice,
		IsPaid:        true,
		Status:        constant.OrderStatusProcessing,
		CreatedAt:     now,
	}
}
