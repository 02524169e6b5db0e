package product

import (
	"context"
	"fmt"

	"github.com/aditpras/storefront/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

type ProductRepository interface {
	List(ctx context.Context, page, perPage int) ([]model.ProductListItem, int64, error)
	GetByID(ctx context.Context, id uint64) (*model.ProductDetail, error)
}

func NewProductRepository(conn *sqlx.DB) ProductRepository {
	return &SQL{conn: conn}
}

const (
	listProductsBase = `SELECT id, name, image, price, stock as available_stock FROM product`

	countProductsQuery = `SELECT COUNT(*) FROM product`

	getProductDetail = `SELECT id, name, description, image, price, stock as available_stock FROM product WHERE id = ?`

	getVariantsQuery = `SELECT id, color FROM product_variant WHERE product_id = ? ORDER BY id`

	getSizesQuery = `SELECT id, size, stock, sold FROM variant_size WHERE variant_id = ? ORDER BY id`
)

func (s *SQL) List(ctx context.Context, page, perPage int) ([]model.ProductListItem, int64, error) {
	offset := (page - 1) * perPage

	query := listProductsBase + " ORDER BY id LIMIT ? OFFSET ?"
	rows, err := s.conn.QueryxContext(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]model.ProductListItem, 0)
	for rows.Next() {
		var it model.ProductListItem
		if err := rows.StructScan(&it); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}

	// get total count
	var total int64
	if err := s.conn.GetContext(ctx, &total, countProductsQuery); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (s *SQL) GetByID(ctx context.Context, id uint64) (*model.ProductDetail, error) {
	var detail model.ProductDetail
	if err := s.conn.QueryRowxContext(ctx, getProductDetail, id).StructScan(&detail); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	vrows, err := s.conn.QueryxContext(ctx, getVariantsQuery, id)
	if err != nil {
		return nil, err
	}
	defer vrows.Close()

	variants := make([]model.ProductVariant, 0)
	for vrows.Next() {
		var v model.ProductVariant
		if err := vrows.StructScan(&v); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}

	for i := range variants {
		srows, err := s.conn.QueryxContext(ctx, getSizesQuery, variants[i].ID)
		if err != nil {
			return nil, err
		}
		sizes := make([]model.VariantSize, 0)
		for srows.Next() {
			var sz model.VariantSize
			if err := srows.StructScan(&sz); err != nil {
				srows.Close()
				return nil, err
			}
			sizes = append(sizes, sz)
		}
		srows.Close()
		variants[i].Sizes = sizes
	}

	detail.Variants = variants
	return &detail, nil
}
