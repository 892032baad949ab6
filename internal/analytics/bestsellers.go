package analytics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ImpactGLX323/IntelliFlow/internal/apperr"
	"github.com/ImpactGLX323/IntelliFlow/internal/db"
)

const (
	DefaultBestSellerDays  = 30
	DefaultBestSellerLimit = 10
)

// BestSellers ranks the owner's products by revenue over the trailing
// window. Both days and limit must be positive.
func (e *Engine) BestSellers(ctx context.Context, ownerID int64, days, limit int) ([]db.BestSellerRow, error) {
	ctx, span := e.Tracer.Start(ctx, "analytics best_sellers")
	defer span.End()

	if days <= 0 {
		return nil, apperr.Validation("days must be a positive integer")
	}
	if limit <= 0 {
		return nil, apperr.Validation("limit must be a positive integer")
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	sellers, err := db.GetTopSellers(ctx, e.DB, ownerID, since, limit)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("analytics.window_days", days),
		attribute.Int("analytics.result_count", len(sellers)),
	)
	return sellers, nil
}
