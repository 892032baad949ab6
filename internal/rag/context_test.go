package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ImpactGLX323/IntelliFlow/internal/db"
)

func TestRenderContextSections(t *testing.T) {
	productID := int64(2)
	doc := renderContext(
		[]db.Product{
			{ID: 1, Name: "Widget", SKU: "WID-1", Category: "tools", Price: 19.99, Cost: 7.5, CurrentStock: 12, MinStockThreshold: 5},
		},
		[]db.SaleSummaryRow{
			{ProductID: 1, Quantity: 30, Revenue: 599.7, Count: 12},
		},
		[]db.RiskAlert{
			{ID: 9, ProductID: &productID, AlertType: db.AlertLowStock, Severity: "high", Message: "Gadget stock low"},
		},
	)

	assert.Contains(t, doc, "Products: ")
	assert.Contains(t, doc, "Sales Summary (last 30 days): ")
	assert.Contains(t, doc, "Active Risk Alerts: ")
	assert.Contains(t, doc, `"sku": "WID-1"`)
	assert.Contains(t, doc, `"revenue": 599.7`)
	assert.Contains(t, doc, `"severity": "high"`)
	assert.Contains(t, doc, "Gadget stock low")
}

func TestRenderContextDeterministic(t *testing.T) {
	products := []db.Product{
		{ID: 1, Name: "A", SKU: "A-1"},
		{ID: 2, Name: "B", SKU: "B-1"},
	}
	summary := []db.SaleSummaryRow{{ProductID: 1, Quantity: 3, Revenue: 30, Count: 2}}

	first := renderContext(products, summary, nil)
	second := renderContext(products, summary, nil)
	assert.Equal(t, first, second)
}

func TestRenderContextEmptyBusiness(t *testing.T) {
	doc := renderContext(nil, nil, nil)
	assert.Contains(t, doc, "Products: []")
	assert.Contains(t, doc, "Sales Summary (last 30 days): []")
	assert.Contains(t, doc, "Active Risk Alerts: []")
}
