package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ImpactGLX323/IntelliFlow/internal/db"
)

const (
	RiskCritical = "critical"
	RiskHigh     = "high"
	RiskMedium   = "medium"
	RiskLow      = "low"
)

// RiskAssessment is computed fresh on each request, never persisted.
// DaysOfStock is nil when the product has no sales velocity — undefined
// runway, not zero runway.
type RiskAssessment struct {
	ProductID    int64    `json:"product_id"`
	ProductName  string   `json:"product_name"`
	CurrentStock int      `json:"current_stock"`
	MinThreshold int      `json:"min_threshold"`
	DaysOfStock  *float64 `json:"days_of_stock"`
	RiskLevel    string   `json:"risk_level"`
}

// InventoryRisks classifies every product at or below its minimum stock
// threshold, ordered by severity then product id.
func (e *Engine) InventoryRisks(ctx context.Context, ownerID int64) ([]RiskAssessment, error) {
	ctx, span := e.Tracer.Start(ctx, "analytics inventory_risks")
	defer span.End()

	products, err := db.ListLowStockProducts(ctx, e.DB, ownerID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -lookbackDays)
	sold, err := db.GetSoldQuantities(ctx, e.DB, ownerID, since)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	risks := assessRisks(products, sold)

	// Persist low-stock alerts for the worst tiers. Detection failures
	// must not break the read path, so errors only mark the span.
	if err := e.recordLowStockAlerts(ctx, ownerID, risks); err != nil {
		span.RecordError(err)
	}

	span.SetAttributes(attribute.Int("analytics.risk_count", len(risks)))
	if e.Metrics != nil {
		e.Metrics.RiskProducts.Record(ctx, float64(len(risks)))
	}
	return risks, nil
}

func (e *Engine) recordLowStockAlerts(ctx context.Context, ownerID int64, risks []RiskAssessment) error {
	existing, err := db.UnresolvedAlertProducts(ctx, e.DB, ownerID, db.AlertLowStock)
	if err != nil {
		return err
	}
	for _, r := range alertWorthy(risks, existing) {
		productID := r.ProductID
		msg := fmt.Sprintf("%s has %d units left (threshold %d)",
			r.ProductName, r.CurrentStock, r.MinThreshold)
		if _, err := db.InsertRiskAlert(ctx, e.DB, ownerID, &productID,
			db.AlertLowStock, r.RiskLevel, msg); err != nil {
			return err
		}
	}
	return nil
}

// alertWorthy filters to critical and high assessments that do not
// already have an open low-stock alert.
func alertWorthy(risks []RiskAssessment, existing map[int64]bool) []RiskAssessment {
	var out []RiskAssessment
	for _, r := range risks {
		if r.RiskLevel != RiskCritical && r.RiskLevel != RiskHigh {
			continue
		}
		if existing[r.ProductID] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func assessRisks(products []db.Product, sold map[int64]int) []RiskAssessment {
	risks := make([]RiskAssessment, 0, len(products))
	for _, p := range products {
		risks = append(risks, assessProduct(p, sold[p.ID]))
	}

	// Severity first; product id keeps ordering deterministic within a tier.
	sort.SliceStable(risks, func(i, j int) bool {
		ri, rj := riskRank(risks[i].RiskLevel), riskRank(risks[j].RiskLevel)
		if ri != rj {
			return ri < rj
		}
		return risks[i].ProductID < risks[j].ProductID
	})
	return risks
}

func assessProduct(p db.Product, soldQty int) RiskAssessment {
	r := RiskAssessment{
		ProductID:    p.ID,
		ProductName:  p.Name,
		CurrentStock: p.CurrentStock,
		MinThreshold: p.MinStockThreshold,
	}

	velocity := float64(soldQty) / float64(lookbackDays)
	if velocity > 0 {
		days := float64(p.CurrentStock) / velocity
		r.DaysOfStock = &days
	}

	// First match wins. Exactly half the threshold counts as high; the
	// low tier is only reachable at stock == threshold because the
	// low-stock filter already excludes anything above it.
	switch {
	case p.CurrentStock == 0:
		r.RiskLevel = RiskCritical
	case 2*p.CurrentStock <= p.MinStockThreshold:
		r.RiskLevel = RiskHigh
	case p.CurrentStock < p.MinStockThreshold:
		r.RiskLevel = RiskMedium
	default:
		r.RiskLevel = RiskLow
	}
	return r
}

func riskRank(level string) int {
	switch level {
	case RiskCritical:
		return 0
	case RiskHigh:
		return 1
	case RiskMedium:
		return 2
	case RiskLow:
		return 3
	default:
		return 4
	}
}
