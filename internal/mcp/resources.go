package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/shelfsearch/internal/telemetry"
)

// QueryMetricsURI addresses the query telemetry resource.
const QueryMetricsURI = "shelfsearch://query_metrics"

// QueryMetricsOutput is the JSON structure for the query_metrics resource.
type QueryMetricsOutput struct {
	Summary             QueryMetricsSummary   `json:"summary"`
	TierCounts          map[string]int64      `json:"tier_counts"`
	TopTerms            []telemetry.TermCount `json:"top_terms"`
	ZeroResultQueries   []string              `json:"zero_result_queries"`
	LatencyDistribution map[string]int64      `json:"latency_distribution"`
}

// QueryMetricsSummary holds the headline numbers.
type QueryMetricsSummary struct {
	TotalQueries     int64   `json:"total_queries"`
	TimePeriod       string  `json:"time_period"`
	ZeroResultPct    float64 `json:"zero_result_pct"`
	EscalationRate   float64 `json:"escalation_rate"`
	ExactRepeatCount int64   `json:"exact_repeat_count"`
}

func (s *Server) registerQueryMetricsResource() {
	s.mcp.AddResource(
		&mcp.Resource{
			Name:        "query_metrics",
			URI:         QueryMetricsURI,
			Description: "Query telemetry: tier mix, top terms, zero-result queries, latency",
			MIMEType:    "application/json",
		},
		s.makeQueryMetricsHandler(),
	)
}

func (s *Server) makeQueryMetricsHandler() mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		content, err := s.queryMetricsJSON()
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      QueryMetricsURI,
					MIMEType: "application/json",
					Text:     string(content),
				},
			},
		}, nil
	}
}

// queryMetricsJSON renders the current telemetry snapshot.
func (s *Server) queryMetricsJSON() ([]byte, error) {
	s.mu.RLock()
	metrics := s.metrics
	s.mu.RUnlock()

	if metrics == nil {
		return nil, NewInvalidParamsError("query metrics not available")
	}

	snap := metrics.Snapshot()
	out := QueryMetricsOutput{
		Summary: QueryMetricsSummary{
			TotalQueries:     snap.TotalQueries,
			TimePeriod:       "session",
			ZeroResultPct:    snap.ZeroResultPercentage(),
			EscalationRate:   snap.EscalationRate(),
			ExactRepeatCount: snap.ExactRepeatCount,
		},
		TierCounts:          make(map[string]int64, len(snap.TierCounts)),
		TopTerms:            snap.TopTerms,
		ZeroResultQueries:   snap.ZeroResultQueries,
		LatencyDistribution: make(map[string]int64, len(snap.LatencyDistribution)),
	}
	for tier, n := range snap.TierCounts {
		out.TierCounts[string(tier)] = n
	}
	for bucket, n := range snap.LatencyDistribution {
		out.LatencyDistribution[string(bucket)] = n
	}

	content, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, MapError(err)
	}
	return content, nil
}
