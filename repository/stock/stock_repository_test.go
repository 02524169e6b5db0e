package stock_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aditpras/storefront/model"
	"github.com/aditpras/storefront/repository/stock"
	"github.com/jmoiron/sqlx"
)

func newMockTx(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, *sqlx.Tx) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	mock.ExpectBegin()
	tx, err := sqlxDB.Beginx()
	if err != nil {
		t.Fatalf("Beginx() error = %v", err)
	}
	return sqlxDB, mock, tx
}

func TestSQL_DecrementStockTx(t *testing.T) {
	req := &model.StockDecrement{ProductID: 1, Color: "black", Size: "42", Quantity: 2}

	t.Run("success: size row matched, product aggregate updated", func(t *testing.T) {
		sqlxDB, mock, tx := newMockTx(t)
		defer sqlxDB.Close()

		mock.ExpectExec("UPDATE variant_size vs").
			WithArgs(2, 2, uint64(1), "black", "42", 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE product SET").
			WithArgs(2, 2, uint64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := stock.NewStockRepository(sqlxDB)
		ok, err := repo.DecrementStockTx(context.Background(), tx, req)
		if err != nil {
			t.Fatalf("DecrementStockTx() error = %v", err)
		}
		if !ok {
			t.Fatal("DecrementStockTx() = false, want true")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("insufficient stock: zero rows matched, aggregate untouched", func(t *testing.T) {
		sqlxDB, mock, tx := newMockTx(t)
		defer sqlxDB.Close()

		mock.ExpectExec("UPDATE variant_size vs").
			WithArgs(2, 2, uint64(1), "black", "42", 2).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := stock.NewStockRepository(sqlxDB)
		ok, err := repo.DecrementStockTx(context.Background(), tx, req)
		if err != nil {
			t.Fatalf("DecrementStockTx() error = %v", err)
		}
		if ok {
			t.Fatal("DecrementStockTx() = true, want false")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("db error propagated", func(t *testing.T) {
		sqlxDB, mock, tx := newMockTx(t)
		defer sqlxDB.Close()

		mock.ExpectExec("UPDATE variant_size vs").
			WithArgs(2, 2, uint64(1), "black", "42", 2).
			WillReturnError(sqlmock.ErrCancelled)

		repo := stock.NewStockRepository(sqlxDB)
		if _, err := repo.DecrementStockTx(context.Background(), tx, req); err == nil {
			t.Fatal("DecrementStockTx() error = nil, want error")
		}
	})
}

// Two buyers racing for the last unit: the write-time stock >= quantity
// predicate lets exactly one decrement match. Ordered expectations play the
// serialized outcome MySQL row locks produce, so the second buyer must see
// zero rows and no aggregate update.
func TestSQL_DecrementStockTx_LastUnitRace(t *testing.T) {
	lastUnit := &model.StockDecrement{ProductID: 1, Color: "black", Size: "42", Quantity: 1}

	sqlxDB, mock, tx := newMockTx(t)
	defer sqlxDB.Close()

	mock.MatchExpectationsInOrder(true)
	// first buyer drains the row
	mock.ExpectExec("UPDATE variant_size vs").
		WithArgs(1, 1, uint64(1), "black", "42", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE product SET").
		WithArgs(1, 1, uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// second buyer finds stock = 0, the predicate matches nothing
	mock.ExpectExec("UPDATE variant_size vs").
		WithArgs(1, 1, uint64(1), "black", "42", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := stock.NewStockRepository(sqlxDB)

	ok, err := repo.DecrementStockTx(context.Background(), tx, lastUnit)
	if err != nil {
		t.Fatalf("first DecrementStockTx() error = %v", err)
	}
	if !ok {
		t.Fatal("first DecrementStockTx() = false, want true")
	}

	ok, err = repo.DecrementStockTx(context.Background(), tx, lastUnit)
	if err != nil {
		t.Fatalf("second DecrementStockTx() error = %v", err)
	}
	if ok {
		t.Fatal("second DecrementStockTx() = true, want false")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQL_RestockTx(t *testing.T) {
	req := &model.StockDecrement{ProductID: 2, Color: "red", Size: "M", Quantity: 1}

	t.Run("success", func(t *testing.T) {
		sqlxDB, mock, tx := newMockTx(t)
		defer sqlxDB.Close()

		mock.ExpectExec("UPDATE variant_size vs").
			WithArgs(1, 1, uint64(2), "red", "M").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE product SET").
			WithArgs(1, 1, uint64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := stock.NewStockRepository(sqlxDB)
		if err := repo.RestockTx(context.Background(), tx, req); err != nil {
			t.Fatalf("RestockTx() error = %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("db error propagated", func(t *testing.T) {
		sqlxDB, mock, tx := newMockTx(t)
		defer sqlxDB.Close()

		mock.ExpectExec("UPDATE variant_size vs").
			WithArgs(1, 1, uint64(2), "red", "M").
			WillReturnError(sqlmock.ErrCancelled)

		repo := stock.NewStockRepository(sqlxDB)
		if err := repo.RestockTx(context.Background(), tx, req); err == nil {
			t.Fatal("RestockTx() error = nil, want error")
		}
	})
}
