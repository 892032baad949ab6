package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImpactGLX323/IntelliFlow/internal/apperr"
)

// scanRow satisfies pgx.Row with a canned Scan.
type scanRow struct {
	err error
	fn  func(dest ...any) error
}

func (r scanRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return r.fn(dest...)
}

// saleTx fakes the transaction CreateSale runs in, recording every
// write so tests can assert on the exact statements issued.
type saleTx struct {
	stock   int
	missing bool

	committed   bool
	rolledBack  bool
	stockWrites []int
	history     []InventoryChange
}

func (t *saleTx) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	switch {
	case strings.Contains(sql, "SELECT current_stock"):
		if t.missing {
			return scanRow{err: pgx.ErrNoRows}
		}
		return scanRow{fn: func(dest ...any) error {
			*(dest[0].(*int)) = t.stock
			return nil
		}}
	case strings.Contains(sql, "INSERT INTO sales"):
		return scanRow{fn: func(dest ...any) error {
			*(dest[0].(*int64)) = 101
			*(dest[1].(*time.Time)) = time.Now()
			return nil
		}}
	}
	return scanRow{err: fmt.Errorf("unexpected query: %s", sql)}
}

func (t *saleTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	switch {
	case strings.Contains(sql, "UPDATE products"):
		t.stockWrites = append(t.stockWrites, args[0].(int))
	case strings.Contains(sql, "INSERT INTO inventory_history"):
		t.history = append(t.history, InventoryChange{
			ProductID:      args[0].(int64),
			QuantityChange: args[1].(int),
			PreviousStock:  args[2].(int),
			NewStock:       args[3].(int),
			ChangeType:     args[4].(string),
			Notes:          args[5].(string),
		})
	default:
		return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", sql)
	}
	return pgconn.CommandTag{}, nil
}

func (t *saleTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *saleTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *saleTx) Begin(context.Context) (pgx.Tx, error) { return t, nil }
func (t *saleTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}
func (t *saleTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not supported")
}
func (t *saleTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (t *saleTx) LargeObjects() pgx.LargeObjects                        { return pgx.LargeObjects{} }
func (t *saleTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not supported")
}
func (t *saleTx) Conn() *pgx.Conn { return nil }

// salePool hands out one fake transaction.
type salePool struct {
	tx    *saleTx
	began bool
}

func (p *salePool) Begin(context.Context) (pgx.Tx, error) {
	p.began = true
	return p.tx, nil
}

func (p *salePool) QueryRow(context.Context, string, ...any) pgx.Row {
	return scanRow{err: errors.New("not supported")}
}

func (p *salePool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (p *salePool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not supported")
}

func saleInput(qty int) SaleInput {
	return SaleInput{
		ProductID: 7,
		Quantity:  qty,
		UnitPrice: 3.50,
		SaleDate:  time.Date(2026, 8, 27, 14, 0, 0, 0, time.UTC),
	}
}

func TestCreateSaleDecrementsStockAndWritesLedger(t *testing.T) {
	pool := &salePool{tx: &saleTx{stock: 10}}

	sale, err := CreateSale(context.Background(), pool, 1, saleInput(5))
	require.NoError(t, err)

	assert.InDelta(t, 17.5, sale.TotalAmount, 0.001)
	assert.NotEmpty(t, sale.OrderID, "empty order_id must be replaced with a generated one")

	assert.Equal(t, []int{5}, pool.tx.stockWrites)
	require.Len(t, pool.tx.history, 1, "exactly one ledger row per sale")
	assert.Equal(t, InventoryChange{
		ProductID:      7,
		QuantityChange: -5,
		PreviousStock:  10,
		NewStock:       5,
		ChangeType:     ChangeSale,
		Notes:          "sale #101",
	}, pool.tx.history[0])
	assert.True(t, pool.tx.committed)
	assert.False(t, pool.tx.rolledBack)
}

func TestCreateSaleInsufficientStockLeavesStockUntouched(t *testing.T) {
	pool := &salePool{tx: &saleTx{stock: 3}}

	_, err := CreateSale(context.Background(), pool, 1, saleInput(5))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.Empty(t, pool.tx.stockWrites, "rejected sale must not touch stock")
	assert.Empty(t, pool.tx.history)
	assert.False(t, pool.tx.committed)
	assert.True(t, pool.tx.rolledBack)
}

func TestCreateSaleKeepsCallerOrderID(t *testing.T) {
	pool := &salePool{tx: &saleTx{stock: 10}}
	in := saleInput(1)
	in.OrderID = "order-abc"

	sale, err := CreateSale(context.Background(), pool, 1, in)
	require.NoError(t, err)
	assert.Equal(t, "order-abc", sale.OrderID)
}

func TestCreateSaleUnknownProductIsNotFound(t *testing.T) {
	pool := &salePool{tx: &saleTx{missing: true}}

	_, err := CreateSale(context.Background(), pool, 1, saleInput(1))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateSaleInputValidation(t *testing.T) {
	pool := &salePool{tx: &saleTx{stock: 10}}

	in := saleInput(0)
	_, err := CreateSale(context.Background(), pool, 1, in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	in = saleInput(1)
	in.UnitPrice = -1
	_, err = CreateSale(context.Background(), pool, 1, in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	in = saleInput(1)
	in.SaleDate = time.Time{}
	_, err = CreateSale(context.Background(), pool, 1, in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.False(t, pool.began, "validation failures must not open a transaction")
}
