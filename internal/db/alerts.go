package db

import (
	"context"
	"time"

	"github.com/ImpactGLX323/IntelliFlow/internal/apperr"
)

const (
	AlertLowStock     = "low_stock"
	AlertSlowMoving   = "slow_moving"
	AlertHighDemand   = "high_demand"
	AlertPriceAnomaly = "price_anomaly"
)

type RiskAlert struct {
	ID         int64     `json:"id"`
	ProductID  *int64    `json:"product_id,omitempty"`
	AlertType  string    `json:"alert_type"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	IsResolved bool      `json:"is_resolved"`
	OwnerID    int64     `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func InsertRiskAlert(ctx context.Context, q Querier, ownerID int64, productID *int64, alertType, severity, message string) (*RiskAlert, error) {
	a := RiskAlert{
		ProductID: productID,
		AlertType: alertType,
		Severity:  severity,
		Message:   message,
		OwnerID:   ownerID,
	}
	err := q.QueryRow(ctx, `
		INSERT INTO risk_alerts (product_id, alert_type, severity, message, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		productID, alertType, severity, message, ownerID,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UnresolvedAlertProducts returns the product ids that already carry an
// open alert of the given type, so detection does not stack duplicates.
func UnresolvedAlertProducts(ctx context.Context, q Querier, ownerID int64, alertType string) (map[int64]bool, error) {
	rows, err := q.Query(ctx, `
		SELECT DISTINCT product_id
		FROM risk_alerts
		WHERE owner_id = $1 AND alert_type = $2 AND is_resolved = false
			AND product_id IS NOT NULL`,
		ownerID, alertType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func ListRiskAlerts(ctx context.Context, q Querier, ownerID int64, unresolvedOnly bool) ([]RiskAlert, error) {
	query := `
		SELECT id, product_id, alert_type, severity, message, is_resolved, owner_id, created_at
		FROM risk_alerts
		WHERE owner_id = $1`
	if unresolvedOnly {
		query += " AND is_resolved = false"
	}
	// Open alerts come before resolved ones regardless of age.
	query += " ORDER BY is_resolved ASC, created_at DESC, id DESC"

	rows, err := q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []RiskAlert
	for rows.Next() {
		var a RiskAlert
		if err := rows.Scan(&a.ID, &a.ProductID, &a.AlertType, &a.Severity,
			&a.Message, &a.IsResolved, &a.OwnerID, &a.CreatedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func ResolveRiskAlert(ctx context.Context, q Querier, ownerID, alertID int64) error {
	tag, err := q.Exec(ctx, `
		UPDATE risk_alerts SET is_resolved = true
		WHERE id = $1 AND owner_id = $2`, alertID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("alert not found")
	}
	return nil
}
