package order

import (
	"context"
	"database/sql"

	"github.com/aditpras/storefront/constant"
	"github.com/aditpras/storefront/model"
	orderrepo "github.com/aditpras/storefront/repository/order"
	stockrepo "github.com/aditpras/storefront/repository/stock"
	txrepo "github.com/aditpras/storefront/repository/tx"
	"github.com/aditpras/storefront/utils/errors"
	"github.com/aditpras/storefront/utils/logger"
	"go.uber.org/zap"
)

// OrderApp covers everything after checkout: the shipping/delivery
// progression, cancellation with restock, and the read paths.
type OrderApp interface {
	ShipOrder(ctx context.Context, orderID uint64) error
	DeliverOrder(ctx context.Context, orderID uint64) error
	CancelOrder(ctx context.Context, orderID uint64) error
	GetOrder(ctx context.Context, userID, orderID uint64) (*model.Order, error)
	ListOrders(ctx context.Context, userID uint64) ([]model.OrderListItem, error)
}

type orderAppImpl struct {
	txRepo    txrepo.TxRepository
	orderRepo orderrepo.OrderRepository
	stockRepo stockrepo.StockRepository
}

func NewOrderApp(txRepo txrepo.TxRepository, orderRepo orderrepo.OrderRepository, stockRepo stockrepo.StockRepository) OrderApp {
	return &orderAppImpl{txRepo: txRepo, orderRepo: orderRepo, stockRepo: stockRepo}
}

func (s *orderAppImpl) ShipOrder(ctx context.Context, orderID uint64) error {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[ShipOrder] begin tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	orderDetail, err := s.orderRepo.GetOrderDetailTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[ShipOrder] get order detail", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	if orderDetail.Status != constant.OrderStatusProcessing {
		return errors.SetCustomError(constant.ErrInvalidOrderStatus)
	}

	if err := s.orderRepo.UpdateOrderStatusTx(ctx, tx, orderID, int(constant.OrderStatusShipped)); err != nil {
		logger.Error("[ShipOrder] update status", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[ShipOrder] commit tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	committed = true
	return nil
}

func (s *orderAppImpl) DeliverOrder(ctx context.Context, orderID uint64) error {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[DeliverOrder] begin tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	orderDetail, err := s.orderRepo.GetOrderDetailTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[DeliverOrder] get order detail", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	if orderDetail.Status != constant.OrderStatusShipped {
		return errors.SetCustomError(constant.ErrInvalidOrderStatus)
	}

	if err := s.orderRepo.UpdateOrderStatusTx(ctx, tx, orderID, int(constant.OrderStatusDelivered)); err != nil {
		logger.Error("[DeliverOrder] update status", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.orderRepo.SetDeliveredTx(ctx, tx, orderID); err != nil {
		logger.Error("[DeliverOrder] set delivered", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[DeliverOrder] commit tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	committed = true
	return nil
}

// CancelOrder returns a processing order's stock to the shelf and marks the
// order cancelled, all inside one transaction.
func (s *orderAppImpl) CancelOrder(ctx context.Context, orderID uint64) error {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[CancelOrder] begin tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	orderDetail, err := s.orderRepo.GetOrderDetailTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[CancelOrder] get order detail", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	if orderDetail.Status != constant.OrderStatusProcessing {
		return errors.SetCustomError(constant.ErrInvalidOrderStatus)
	}

	items, err := s.orderRepo.GetOrderItemsTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[CancelOrder] get order items", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	for _, item := range items {
		if err := s.stockRepo.RestockTx(ctx, tx, &model.StockDecrement{
			ProductID: item.ProductID,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
		}); err != nil {
			logger.Error("[CancelOrder] restock", zap.Uint64("product_id", item.ProductID), zap.String("error", err.Error()))
			return errors.SetCustomError(constant.ErrInternal)
		}
	}

	if err := s.orderRepo.UpdateOrderStatusTx(ctx, tx, orderID, int(constant.OrderStatusCancelled)); err != nil {
		logger.Error("[CancelOrder] update status", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[CancelOrder] commit tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	committed = true
	return nil
}

func (s *orderAppImpl) GetOrder(ctx context.Context, userID, orderID uint64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		logger.Error("[GetOrder] get order", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	// orders are only visible to their owner
	if order.UserID != userID {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}
	return order, nil
}

func (s *orderAppImpl) ListOrders(ctx context.Context, userID uint64) ([]model.OrderListItem, error) {
	items, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error("[ListOrders] list orders", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return items, nil
}
