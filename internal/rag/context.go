// Package rag assembles a textual snapshot of a seller's business and
// provides the chunking and similarity-search pieces used to ground the
// roadmap generator's prompt.
package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ImpactGLX323/IntelliFlow/internal/db"
)

const salesLookbackDays = 30

// productListLimit bounds the context document; sellers with more
// products than this get a truncated listing.
const productListLimit = 500

type ContextBuilder struct {
	DB     db.Querier
	Tracer trace.Tracer
}

type productContext struct {
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Cost      float64 `json:"cost"`
	Stock     int     `json:"stock"`
	Threshold int     `json:"threshold"`
}

type alertContext struct {
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	ProductID *int64 `json:"product_id"`
}

// Build serializes the owner's products, 30-day sales summary, and open
// risk alerts into one document. Output is deterministic for identical
// database state: every section is an ordered slice, never a map.
func (b *ContextBuilder) Build(ctx context.Context, ownerID int64) (string, error) {
	ctx, span := b.Tracer.Start(ctx, "rag build_context")
	defer span.End()

	products, err := db.ListProducts(ctx, b.DB, ownerID, productListLimit, 0)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("loading products: %w", err)
	}

	since := time.Now().UTC().AddDate(0, 0, -salesLookbackDays)
	summary, err := db.GetSalesSummary(ctx, b.DB, ownerID, since)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("loading sales summary: %w", err)
	}

	alerts, err := db.ListRiskAlerts(ctx, b.DB, ownerID, true)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("loading risk alerts: %w", err)
	}

	doc := renderContext(products, summary, alerts)

	span.SetAttributes(
		attribute.Int("rag.products", len(products)),
		attribute.Int("rag.sales_summary_rows", len(summary)),
		attribute.Int("rag.open_alerts", len(alerts)),
		attribute.Int("rag.context_bytes", len(doc)),
	)
	return doc, nil
}

func renderContext(products []db.Product, summary []db.SaleSummaryRow, alerts []db.RiskAlert) string {
	productData := make([]productContext, 0, len(products))
	for _, p := range products {
		productData = append(productData, productContext{
			Name:      p.Name,
			SKU:       p.SKU,
			Category:  p.Category,
			Price:     p.Price,
			Cost:      p.Cost,
			Stock:     p.CurrentStock,
			Threshold: p.MinStockThreshold,
		})
	}

	alertData := make([]alertContext, 0, len(alerts))
	for _, a := range alerts {
		alertData = append(alertData, alertContext{
			Type:      a.AlertType,
			Severity:  a.Severity,
			Message:   a.Message,
			ProductID: a.ProductID,
		})
	}

	if summary == nil {
		summary = []db.SaleSummaryRow{}
	}

	sections := []string{
		"Products: " + mustJSON(productData),
		"Sales Summary (last 30 days): " + mustJSON(summary),
		"Active Risk Alerts: " + mustJSON(alertData),
	}
	return strings.Join(sections, "\n\n")
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Only reachable with unmarshalable types, which these are not.
		return "[]"
	}
	return string(data)
}
