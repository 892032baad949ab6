// Package roadmap turns a seller's business snapshot plus a free-text
// query into a structured action plan via retrieval-augmented prompting
// of an external language model.
package roadmap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ImpactGLX323/IntelliFlow/internal/apperr"
	"github.com/ImpactGLX323/IntelliFlow/internal/llm"
	"github.com/ImpactGLX323/IntelliFlow/internal/rag"
	"github.com/ImpactGLX323/IntelliFlow/internal/telemetry"
)

const retrievalK = 3

const systemPrompt = `You are an AI business advisor for an e-commerce seller. ` +
	`You give concrete, prioritized recommendations grounded in the seller's own data.`

const promptTemplate = `Based on the following business data, generate an actionable roadmap.

Business Context:
%s

User Query: %s

Generate a comprehensive roadmap with:
1. A summary of the current situation
2. Prioritized tasks with:
   - Title
   - Description
   - Priority (low, medium, high, critical)
   - Category (inventory, sales, pricing, marketing, operations)
   - Estimated impact
   - Specific action items
3. Key insights

Format your response as JSON with this structure:
{
  "summary": "...",
  "tasks": [
    {
      "title": "...",
      "description": "...",
      "priority": "high",
      "category": "inventory",
      "estimated_impact": "...",
      "action_items": ["...", "..."]
    }
  ],
  "insights": ["...", "..."]
}`

// insightsQuery drives the quick-insights endpoint through the same
// pipeline as a user-authored query.
const insightsQuery = "Provide 3-5 key insights about my business performance, " +
	"inventory status, and sales trends. Be concise and actionable."

// ContextSource produces the business snapshot document for one owner.
type ContextSource interface {
	Build(ctx context.Context, ownerID int64) (string, error)
}

type Generator struct {
	Context     ContextSource
	Embedder    llm.Embedder
	LLM         *llm.Client
	Splitter    rag.Splitter
	Tracer      trace.Tracer
	Metrics     *telemetry.GenAIMetrics
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Generate runs the full pipeline: rebuild the context document, index
// it into a request-scoped vector store, retrieve the chunks most
// relevant to the query, and ask the model for a structured roadmap.
// Upstream failures propagate; an unparseable model reply does not — it
// degrades into a reviewable placeholder roadmap.
func (g *Generator) Generate(ctx context.Context, ownerID int64, query string) (*Roadmap, error) {
	start := time.Now()

	ctx, span := g.Tracer.Start(ctx, "roadmap generate")
	defer span.End()

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	// The context and its index are rebuilt on every call so the model
	// always sees current data. Nothing survives this invocation.
	doc, err := g.Context.Build(ctx, ownerID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, apperr.Upstream(err, "building business context")
	}

	store, err := rag.IndexDocument(ctx, g.Embedder, g.Splitter, doc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, apperr.Upstream(err, "indexing business context")
	}
	if g.Metrics != nil {
		g.Metrics.ContextChunks.Record(ctx, float64(store.Len()))
	}

	queryVectors, err := g.Embedder.Embed(ctx, []string{query})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, apperr.Upstream(err, "embedding query")
	}

	retrieved := store.Search(queryVectors[0], retrievalK)
	prompt := fmt.Sprintf(promptTemplate, strings.Join(retrieved, "\n\n"), query)

	resp, err := g.LLM.Generate(ctx, llm.GenerateRequest{
		Model:       g.Model,
		System:      systemPrompt,
		Prompt:      prompt,
		Temperature: g.Temperature,
		MaxTokens:   g.MaxTokens,
		Stage:       "roadmap",
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, apperr.Upstream(err, "model invocation failed")
	}

	result, degraded := parseResponse(resp.Content)
	result.GeneratedAt = time.Now().UTC()

	if degraded && g.Metrics != nil {
		g.Metrics.ParseFallbacks.Add(ctx, 1)
	}
	if g.Metrics != nil {
		g.Metrics.RoadmapDuration.Record(ctx, time.Since(start).Seconds(),
			telemetry.WithBoolAttr("copilot.degraded", degraded))
	}

	span.SetAttributes(
		attribute.Int("copilot.retrieved_chunks", len(retrieved)),
		attribute.Int("copilot.tasks", len(result.Tasks)),
		attribute.Bool("copilot.degraded", degraded),
	)
	return result, nil
}

// QuickInsights runs the generator with a canned query and keeps only
// the summary and insight lines.
func (g *Generator) QuickInsights(ctx context.Context, ownerID int64) (string, []string, error) {
	result, err := g.Generate(ctx, ownerID, insightsQuery)
	if err != nil {
		return "", nil, err
	}
	return result.Summary, result.Insights, nil
}
