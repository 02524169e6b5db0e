package order

import (
	"context"
	"database/sql"

	"github.com/aditpras/storefront/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

type OrderRepository interface {
	InsertOrderTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertOrderTxItem) (uint64, error)
	InsertOrderItemsTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, items []model.LineItemRequest) error
	UpdateOrderStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, status int) error
	SetDeliveredTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) error
	GetOrderDetailTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.OrderDetail, error)
	GetOrderItemsTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) ([]model.OrderItem, error)
	ExistsByPaymentID(ctx context.Context, paymentID string) (bool, error)
	GetByID(ctx context.Context, orderID uint64) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.OrderListItem, error)
}

func NewOrderRepository(conn *sqlx.DB) OrderRepository {
	return &SQL{conn: conn}
}

const (
	insertOrderQuery = "INSERT INTO `order` (user_id, status, payment_method, payment_id, payment_status, payer_email, is_paid, paid_at, " +
		"items_price, shipping_price, tax_price, total_price, full_name, street, city, state, postal_code, country, phone, created_at) " +
		"VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())"

	insertOrderItemQuery = "INSERT INTO order_item (order_id, product_id, variant_id, title, image, price, quantity, size, color) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"

	orderBaseQuery = "SELECT id, user_id, status, payment_method, payment_id, payment_status, payer_email, paid_at, " +
		"items_price, shipping_price, tax_price, total_price, is_paid, is_delivered, delivered_at, " +
		"full_name, street, city, state, postal_code, country, phone, created_at FROM `order`"
)

func (r *SQL) InsertOrderTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertOrderTxItem) (uint64, error) {
	res, err := tx.ExecContext(ctx, insertOrderQuery,
		req.UserID, req.Status, req.PaymentMethod,
		req.PaymentResult.PaymentID, req.PaymentResult.Status, req.PaymentResult.PayerEmail, req.PaymentResult.PaidAt,
		req.ItemsPrice, req.ShippingPrice, req.TaxPrice, req.TotalPrice,
		req.Address.FullName, req.Address.Street, req.Address.City, req.Address.State,
		req.Address.PostalCode, req.Address.Country, req.Address.Phone)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *SQL) InsertOrderItemsTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, items []model.LineItemRequest) error {
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, insertOrderItemQuery,
			orderID, it.ProductID, it.VariantID, it.Title, it.Image, it.Price, it.Quantity, it.Size, it.Color); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQL) UpdateOrderStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, status int) error {
	_, err := tx.ExecContext(ctx, "UPDATE `order` SET status = ? WHERE id = ?", status, orderID)
	return err
}

func (r *SQL) SetDeliveredTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	_, err := tx.ExecContext(ctx, "UPDATE `order` SET is_delivered = 1, delivered_at = NOW() WHERE id = ?", orderID)
	return err
}

func (r *SQL) GetOrderDetailTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.OrderDetail, error) {
	var detail model.OrderDetail
	row := tx.QueryRowxContext(ctx, "SELECT id, user_id, status, total_price, is_paid, is_delivered FROM `order` WHERE id = ? FOR UPDATE", orderID)
	if err := row.StructScan(&detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *SQL) GetOrderItemsTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) ([]model.OrderItem, error) {
	rows, err := tx.QueryxContext(ctx, "SELECT id, order_id, product_id, variant_id, title, image, price, quantity, size, color FROM order_item WHERE order_id = ?", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// ExistsByPaymentID backs the replay guard: payment_id also carries a unique
// index, so a race past this check still cannot commit two orders for one
// gateway payment.
func (r *SQL) ExistsByPaymentID(ctx context.Context, paymentID string) (bool, error) {
	var id uint64
	err := r.conn.GetContext(ctx, &id, "SELECT id FROM `order` WHERE payment_id = ?", paymentID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SQL) GetByID(ctx context.Context, orderID uint64) (*model.Order, error) {
	row := r.conn.QueryRowxContext(ctx, orderBaseQuery+" WHERE id = ?", orderID)

	var (
		o           model.Order
		deliveredAt sql.NullTime
	)
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentMethod,
		&o.PaymentResult.PaymentID, &o.PaymentResult.Status, &o.PaymentResult.PayerEmail, &o.PaymentResult.PaidAt,
		&o.ItemsPrice, &o.ShippingPrice, &o.TaxPrice, &o.TotalPrice,
		&o.IsPaid, &o.IsDelivered, &deliveredAt,
		&o.Address.FullName, &o.Address.Street, &o.Address.City, &o.Address.State,
		&o.Address.PostalCode, &o.Address.Country, &o.Address.Phone, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if deliveredAt.Valid {
		o.DeliveredAt = &deliveredAt.Time
	}

	rows, err := r.conn.QueryxContext(ctx, "SELECT id, order_id, product_id, variant_id, title, image, price, quantity, size, color FROM order_item WHERE order_id = ?", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it model.OrderItem
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, nil
}

func (r *SQL) ListByUser(ctx context.Context, userID uint64) ([]model.OrderListItem, error) {
	rows, err := r.conn.QueryxContext(ctx, "SELECT id, status, total_price, created_at FROM `order` WHERE user_id = ? ORDER BY id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.OrderListItem, 0)
	for rows.Next() {
		var it model.OrderListItem
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
