package stock

import (
	"context"

	"github.com/aditpras/storefront/model"
	"github.com/jmoiron/sqlx"
)

type StockRepository interface {
	DecrementStockTx(ctx context.Context, tx *sqlx.Tx, req *model.StockDecrement) (bool, error)
	RestockTx(ctx context.Context, tx *sqlx.Tx, req *model.StockDecrement) error
}

type SQL struct {
	conn *sqlx.DB
}

func NewStockRepository(conn *sqlx.DB) StockRepository {
	return &SQL{conn: conn}
}

const (
	decrementSizeQuery = `UPDATE variant_size vs
JOIN product_variant pv ON vs.variant_id = pv.id
SET vs.stock = vs.stock - ?, vs.sold = vs.sold + ?
WHERE pv.product_id = ? AND pv.color = ? AND vs.size = ? AND vs.stock >= ?`

	decrementProductQuery = `UPDATE product SET stock = stock - ?, sold = sold + ? WHERE id = ?`

	restockSizeQuery = `UPDATE variant_size vs
JOIN product_variant pv ON vs.variant_id = pv.id
SET vs.stock = vs.stock + ?, vs.sold = vs.sold - ?
WHERE pv.product_id = ? AND pv.color = ? AND vs.size = ?`

	restockProductQuery = `UPDATE product SET stock = stock + ?, sold = sold - ? WHERE id = ?`
)

// DecrementStockTx applies one conditional decrement against the exact
// (product, color, size) row. The stock >= quantity predicate is part of the
// UPDATE itself, so two concurrent checkouts can never both pass a stale
// read: the row either matches at write time or it does not. Returns false
// when no row matched (insufficient stock or unknown variant/size).
func (r *SQL) DecrementStockTx(ctx context.Context, tx *sqlx.Tx, req *model.StockDecrement) (bool, error) {
	res, err := tx.ExecContext(ctx, decrementSizeQuery,
		req.Quantity, req.Quantity, req.ProductID, req.Color, req.Size, req.Quantity)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	// keep the product-level aggregate counters in step
	if _, err := tx.ExecContext(ctx, decrementProductQuery, req.Quantity, req.Quantity, req.ProductID); err != nil {
		return false, err
	}
	return true, nil
}

// RestockTx reverses a committed decrement, used when a processing order is
// cancelled.
func (r *SQL) RestockTx(ctx context.Context, tx *sqlx.Tx, req *model.StockDecrement) error {
	if _, err := tx.ExecContext(ctx, restockSizeQuery,
		req.Quantity, req.Quantity, req.ProductID, req.Color, req.Size); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, restockProductQuery, req.Quantity, req.Quantity, req.ProductID)
	return err
}
