package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ImpactGLX323/IntelliFlow/internal/apperr"
)

type Product struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	SKU               string     `json:"sku"`
	Description       string     `json:"description,omitempty"`
	Category          string     `json:"category,omitempty"`
	Price             float64    `json:"price"`
	Cost              float64    `json:"cost"`
	CurrentStock      int        `json:"current_stock"`
	MinStockThreshold int        `json:"min_stock_threshold"`
	Supplier          string     `json:"supplier,omitempty"`
	OwnerID           int64      `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

type ProductInput struct {
	Name              string  `json:"name"`
	SKU               string  `json:"sku"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	Price             float64 `json:"price"`
	Cost              float64 `json:"cost"`
	CurrentStock      int     `json:"current_stock"`
	MinStockThreshold int     `json:"min_stock_threshold"`
	Supplier          string  `json:"supplier"`
}

// ProductPatch carries partial updates; nil fields are left untouched.
type ProductPatch struct {
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	Category          *string  `json:"category"`
	Price             *float64 `json:"price"`
	Cost              *float64 `json:"cost"`
	CurrentStock      *int     `json:"current_stock"`
	MinStockThreshold *int     `json:"min_stock_threshold"`
	Supplier          *string  `json:"supplier"`
}

const productColumns = `id, name, sku, COALESCE(description, ''), COALESCE(category, ''),
	price, cost, current_stock, min_stock_threshold, COALESCE(supplier, ''),
	owner_id, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &p.Category,
		&p.Price, &p.Cost, &p.CurrentStock, &p.MinStockThreshold, &p.Supplier,
		&p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func InsertProduct(ctx context.Context, q Querier, ownerID int64, in ProductInput) (*Product, error) {
	row := q.QueryRow(ctx, `
		INSERT INTO products (name, sku, description, category, price, cost,
			current_stock, min_stock_threshold, supplier, owner_id)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, NULLIF($9, ''), $10)
		RETURNING `+productColumns,
		in.Name, in.SKU, in.Description, in.Category, in.Price, in.Cost,
		in.CurrentStock, in.MinStockThreshold, in.Supplier, ownerID)
	p, err := scanProduct(row)
	if isUniqueViolation(err) {
		return nil, apperr.Conflict("product with this SKU already exists")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func GetProduct(ctx context.Context, q Querier, ownerID, productID int64) (*Product, error) {
	row := q.QueryRow(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = $1 AND owner_id = $2`,
		productID, ownerID)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func ListProducts(ctx context.Context, q Querier, ownerID int64, limit, offset int) ([]Product, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE owner_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3`, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// UpdateProduct applies the patch and, when the patch changes current_stock,
// appends a matching "adjustment" row to the inventory ledger in the same
// transaction.
func UpdateProduct(ctx context.Context, pool TxStarter, ownerID, productID int64, patch ProductPatch) (*Product, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE id = $1 AND owner_id = $2 FOR UPDATE`, productID, ownerID)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, err
	}

	previousStock := p.CurrentStock
	applyPatch(p, patch)

	row = tx.QueryRow(ctx, `
		UPDATE products
		SET name = $1, description = NULLIF($2, ''), category = NULLIF($3, ''),
			price = $4, cost = $5, current_stock = $6, min_stock_threshold = $7,
			supplier = NULLIF($8, ''), updated_at = now()
		WHERE id = $9 AND owner_id = $10
		RETURNING `+productColumns,
		p.Name, p.Description, p.Category, p.Price, p.Cost,
		p.CurrentStock, p.MinStockThreshold, p.Supplier, productID, ownerID)
	updated, err := scanProduct(row)
	if err != nil {
		return nil, err
	}

	if updated.CurrentStock != previousStock {
		err = InsertInventoryHistory(ctx, tx, InventoryChange{
			ProductID:      productID,
			QuantityChange: updated.CurrentStock - previousStock,
			PreviousStock:  previousStock,
			NewStock:       updated.CurrentStock,
			ChangeType:     ChangeAdjustment,
			Notes:          "manual stock adjustment",
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func applyPatch(p *Product, patch ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Cost != nil {
		p.Cost = *patch.Cost
	}
	if patch.CurrentStock != nil {
		p.CurrentStock = *patch.CurrentStock
	}
	if patch.MinStockThreshold != nil {
		p.MinStockThreshold = *patch.MinStockThreshold
	}
	if patch.Supplier != nil {
		p.Supplier = *patch.Supplier
	}
}

func DeleteProduct(ctx context.Context, q Querier, ownerID, productID int64) error {
	tag, err := q.Exec(ctx,
		`DELETE FROM products WHERE id = $1 AND owner_id = $2`, productID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

// ListLowStockProducts returns the owner's products at or below their
// minimum stock threshold, ordered by id for deterministic output.
func ListLowStockProducts(ctx context.Context, q Querier, ownerID int64) ([]Product, error) {
	rows, err := q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE owner_id = $1 AND current_stock <= min_stock_threshold
		ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func CountProducts(ctx context.Context, q Querier, ownerID int64) (int, error) {
	var n int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE owner_id = $1`, ownerID).Scan(&n)
	return n, err
}

func CountLowStockProducts(ctx context.Context, q Querier, ownerID int64) (int, error) {
	var n int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM products
		WHERE owner_id = $1 AND current_stock <= min_stock_threshold`, ownerID).Scan(&n)
	return n, err
}
