package db

import (
	"context"
	"time"
)

const (
	ChangeSale       = "sale"
	ChangeRestock    = "restock"
	ChangeAdjustment = "adjustment"
	ChangeReturn     = "return"
)

// InventoryHistory is an append-only ledger row; entries are never
// updated or deleted.
type InventoryHistory struct {
	ID             int64     `json:"id"`
	ProductID      int64     `json:"product_id"`
	QuantityChange int       `json:"quantity_change"`
	PreviousStock  int       `json:"previous_stock"`
	NewStock       int       `json:"new_stock"`
	ChangeType     string    `json:"change_type"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type InventoryChange struct {
	ProductID      int64
	QuantityChange int
	PreviousStock  int
	NewStock       int
	ChangeType     string
	Notes          string
}

func InsertInventoryHistory(ctx context.Context, q Querier, c InventoryChange) error {
	_, err := q.Exec(ctx, `
		INSERT INTO inventory_history (product_id, quantity_change, previous_stock,
			new_stock, change_type, notes)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`,
		c.ProductID, c.QuantityChange, c.PreviousStock, c.NewStock, c.ChangeType, c.Notes)
	return err
}

func ListInventoryHistory(ctx context.Context, q Querier, ownerID, productID int64, limit int) ([]InventoryHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := q.Query(ctx, `
		SELECT h.id, h.product_id, h.quantity_change, h.previous_stock, h.new_stock,
			h.change_type, COALESCE(h.notes, ''), h.created_at
		FROM inventory_history h
		JOIN products p ON p.id = h.product_id
		WHERE h.product_id = $1 AND p.owner_id = $2
		ORDER BY h.created_at DESC, h.id DESC
		LIMIT $3`, productID, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []InventoryHistory
	for rows.Next() {
		var h InventoryHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.QuantityChange, &h.PreviousStock,
			&h.NewStock, &h.ChangeType, &h.Notes, &h.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
