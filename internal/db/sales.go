package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ImpactGLX323/IntelliFlow/internal/apperr"
)

type Sale struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TotalAmount float64   `json:"total_amount"`
	SaleDate    time.Time `json:"sale_date"`
	CustomerID  string    `json:"customer_id,omitempty"`
	OrderID     string    `json:"order_id,omitempty"`
	OwnerID     int64     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

type SaleInput struct {
	ProductID  int64     `json:"product_id"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	SaleDate   time.Time `json:"sale_date"`
	CustomerID string    `json:"customer_id"`
	OrderID    string    `json:"order_id"`
}

// CreateSale records a sale, decrements product stock, and appends the
// corresponding inventory ledger row, all in one transaction. The product
// row is locked so concurrent sales cannot both pass the stock check.
func CreateSale(ctx context.Context, pool TxStarter, ownerID int64, in SaleInput) (*Sale, error) {
	if in.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}
	if in.UnitPrice < 0 {
		return nil, apperr.Validation("unit_price must not be negative")
	}
	if in.SaleDate.IsZero() {
		return nil, apperr.Validation("sale_date is required")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var currentStock int
	err = tx.QueryRow(ctx, `
		SELECT current_stock FROM products
		WHERE id = $1 AND owner_id = $2 FOR UPDATE`,
		in.ProductID, ownerID).Scan(&currentStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, err
	}

	if currentStock < in.Quantity {
		return nil, apperr.Validation(
			"insufficient stock: available %d, requested %d", currentStock, in.Quantity)
	}

	orderID := in.OrderID
	if orderID == "" {
		orderID = uuid.NewString()
	}

	// total_amount is computed here once and never recomputed.
	sale := Sale{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		TotalAmount: float64(in.Quantity) * in.UnitPrice,
		SaleDate:    in.SaleDate,
		CustomerID:  in.CustomerID,
		OrderID:     orderID,
		OwnerID:     ownerID,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (product_id, quantity, unit_price, total_amount, sale_date,
			customer_id, order_id, owner_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
		RETURNING id, created_at`,
		sale.ProductID, sale.Quantity, sale.UnitPrice, sale.TotalAmount, sale.SaleDate,
		sale.CustomerID, sale.OrderID, sale.OwnerID,
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return nil, err
	}

	newStock := currentStock - in.Quantity
	_, err = tx.Exec(ctx,
		`UPDATE products SET current_stock = $1, updated_at = now() WHERE id = $2`,
		newStock, in.ProductID)
	if err != nil {
		return nil, err
	}

	err = InsertInventoryHistory(ctx, tx, InventoryChange{
		ProductID:      in.ProductID,
		QuantityChange: -in.Quantity,
		PreviousStock:  currentStock,
		NewStock:       newStock,
		ChangeType:     ChangeSale,
		Notes:          fmt.Sprintf("sale #%d", sale.ID),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &sale, nil
}

type SaleFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

func ListSales(ctx context.Context, q Querier, ownerID int64, f SaleFilter) ([]Sale, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}

	query := `
		SELECT id, product_id, quantity, unit_price, total_amount, sale_date,
			COALESCE(customer_id, ''), COALESCE(order_id, ''), owner_id, created_at
		FROM sales
		WHERE owner_id = $1`
	args := []any{ownerID}

	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		query += " AND sale_date >= $" + strconv.Itoa(len(args))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		query += " AND sale_date <= $" + strconv.Itoa(len(args))
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY sale_date DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.UnitPrice, &s.TotalAmount,
			&s.SaleDate, &s.CustomerID, &s.OrderID, &s.OwnerID, &s.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func GetSale(ctx context.Context, q Querier, ownerID, saleID int64) (*Sale, error) {
	var s Sale
	err := q.QueryRow(ctx, `
		SELECT id, product_id, quantity, unit_price, total_amount, sale_date,
			COALESCE(customer_id, ''), COALESCE(order_id, ''), owner_id, created_at
		FROM sales WHERE id = $1 AND owner_id = $2`, saleID, ownerID,
	).Scan(&s.ID, &s.ProductID, &s.Quantity, &s.UnitPrice, &s.TotalAmount,
		&s.SaleDate, &s.CustomerID, &s.OrderID, &s.OwnerID, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("sale not found")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SalesTotals is the owner's aggregate revenue and order count since a
// point in time.
type SalesTotals struct {
	Revenue float64
	Orders  int
}

func GetSalesTotals(ctx context.Context, q Querier, ownerID int64, since time.Time) (SalesTotals, error) {
	var t SalesTotals
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM sales
		WHERE owner_id = $1 AND sale_date >= $2`, ownerID, since,
	).Scan(&t.Revenue, &t.Orders)
	return t, err
}

type BestSellerRow struct {
	ProductID     int64   `json:"product_id"`
	ProductName   string  `json:"product_name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalSales    int     `json:"total_sales"`
}

// GetTopSellers ranks by revenue descending; product id ascending breaks
// ties deterministically.
func GetTopSellers(ctx context.Context, q Querier, ownerID int64, since time.Time, limit int) ([]BestSellerRow, error) {
	rows, err := q.Query(ctx, `
		SELECT s.product_id, p.name, SUM(s.quantity), SUM(s.total_amount), COUNT(s.id)
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE s.owner_id = $1 AND s.sale_date >= $2
		GROUP BY s.product_id, p.name
		ORDER BY SUM(s.total_amount) DESC, s.product_id ASC
		LIMIT $3`, ownerID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sellers []BestSellerRow
	for rows.Next() {
		var b BestSellerRow
		if err := rows.Scan(&b.ProductID, &b.ProductName, &b.TotalQuantity,
			&b.TotalRevenue, &b.TotalSales); err != nil {
			return nil, err
		}
		sellers = append(sellers, b)
	}
	return sellers, rows.Err()
}

// DailyTotalRow aggregates one UTC calendar day of sales.
type DailyTotalRow struct {
	Day      time.Time
	Revenue  float64
	Quantity int
	Orders   int
}

func GetDailyTotals(ctx context.Context, q Querier, ownerID int64, since time.Time) ([]DailyTotalRow, error) {
	rows, err := q.Query(ctx, `
		SELECT date_trunc('day', sale_date AT TIME ZONE 'UTC') AS day,
			SUM(total_amount), SUM(quantity), COUNT(*)
		FROM sales
		WHERE owner_id = $1 AND sale_date >= $2
		GROUP BY day
		ORDER BY day`, ownerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []DailyTotalRow
	for rows.Next() {
		var d DailyTotalRow
		if err := rows.Scan(&d.Day, &d.Revenue, &d.Quantity, &d.Orders); err != nil {
			return nil, err
		}
		totals = append(totals, d)
	}
	return totals, rows.Err()
}

// GetSoldQuantities maps product id to units sold since the given time,
// for velocity computation.
func GetSoldQuantities(ctx context.Context, q Querier, ownerID int64, since time.Time) (map[int64]int, error) {
	rows, err := q.Query(ctx, `
		SELECT product_id, SUM(quantity)
		FROM sales
		WHERE owner_id = $1 AND sale_date >= $2
		GROUP BY product_id`, ownerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sold := make(map[int64]int)
	for rows.Next() {
		var id int64
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		sold[id] = qty
	}
	return sold, rows.Err()
}

// SaleSummaryRow is the per-product 30-day aggregate fed to the AI
// context builder.
type SaleSummaryRow struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
	Count     int     `json:"count"`
}

func GetSalesSummary(ctx context.Context, q Querier, ownerID int64, since time.Time) ([]SaleSummaryRow, error) {
	rows, err := q.Query(ctx, `
		SELECT product_id, SUM(quantity), SUM(total_amount), COUNT(*)
		FROM sales
		WHERE owner_id = $1 AND sale_date >= $2
		GROUP BY product_id
		ORDER BY product_id`, ownerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summary []SaleSummaryRow
	for rows.Next() {
		var r SaleSummaryRow
		if err := rows.Scan(&r.ProductID, &r.Quantity, &r.Revenue, &r.Count); err != nil {
			return nil, err
		}
		summary = append(summary, r)
	}
	return summary, rows.Err()
}
