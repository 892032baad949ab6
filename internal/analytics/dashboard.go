// Package analytics computes dashboard aggregates, best-seller rankings,
// and inventory risk assessments from persisted sales and product data.
// All windows are anchored to the current UTC instant and day boundaries
// are UTC calendar days.
package analytics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ImpactGLX323/IntelliFlow/internal/db"
	"github.com/ImpactGLX323/IntelliFlow/internal/telemetry"
)

const (
	lookbackDays = 30
	trendDays    = 7
	topSellerCap = 10
)

type Engine struct {
	DB      db.Querier
	Tracer  trace.Tracer
	Metrics *telemetry.GenAIMetrics
}

type TrendPoint struct {
	Date       string  `json:"date"`
	Revenue    float64 `json:"revenue"`
	Quantity   int     `json:"quantity"`
	OrderCount int     `json:"order_count"`
}

type DashboardStats struct {
	TotalRevenue   float64            `json:"total_revenue"`
	TotalOrders    int                `json:"total_orders"`
	TotalProducts  int                `json:"total_products"`
	LowStockAlerts int                `json:"low_stock_alerts"`
	TopSellers     []db.BestSellerRow `json:"top_sellers"`
	RecentTrends   []TrendPoint       `json:"recent_trends"`
}

func (e *Engine) Dashboard(ctx context.Context, ownerID int64) (*DashboardStats, error) {
	ctx, span := e.Tracer.Start(ctx, "analytics dashboard")
	defer span.End()

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -lookbackDays)

	totals, err := db.GetSalesTotals(ctx, e.DB, ownerID, since)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	totalProducts, err := db.CountProducts(ctx, e.DB, ownerID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	lowStock, err := db.CountLowStockProducts(ctx, e.DB, ownerID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	topSellers, err := db.GetTopSellers(ctx, e.DB, ownerID, since, topSellerCap)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	trendSince := startOfDay(now).AddDate(0, 0, -(trendDays - 1))
	daily, err := db.GetDailyTotals(ctx, e.DB, ownerID, trendSince)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	stats := &DashboardStats{
		TotalRevenue:   totals.Revenue,
		TotalOrders:    totals.Orders,
		TotalProducts:  totalProducts,
		LowStockAlerts: lowStock,
		TopSellers:     topSellers,
		RecentTrends:   buildTrendSeries(now, daily),
	}

	span.SetAttributes(
		attribute.Float64("analytics.total_revenue", stats.TotalRevenue),
		attribute.Int("analytics.total_orders", stats.TotalOrders),
		attribute.Int("analytics.low_stock_alerts", stats.LowStockAlerts),
	)

	return stats, nil
}

// buildTrendSeries zero-fills the last trendDays UTC calendar days,
// oldest first. Days without sales are present with zero values, never
// omitted.
func buildTrendSeries(now time.Time, daily []db.DailyTotalRow) []TrendPoint {
	byDay := make(map[string]db.DailyTotalRow, len(daily))
	for _, d := range daily {
		byDay[d.Day.UTC().Format("2006-01-02")] = d
	}

	points := make([]TrendPoint, 0, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		date := startOfDay(now).AddDate(0, 0, -i).Format("2006-01-02")
		p := TrendPoint{Date: date}
		if d, ok := byDay[date]; ok {
			p.Revenue = d.Revenue
			p.Quantity = d.Quantity
			p.OrderCount = d.Orders
		}
		points = append(points, p)
	}
	return points
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
