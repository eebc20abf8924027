// ABOUTME: MCP resource implementations for the readiness engine.
// ABOUTME: Provides readiness://latest, readiness://trend, and readiness://baselines.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/readiness/internal/models"
)

func (s *Server) registerResources() {
	// readiness://latest - most recent stored result
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "readiness://latest",
		Name:        "Latest Readiness Result",
		Description: "The most recent stored readiness result for the configured user",
		MIMEType:    "application/json",
	}, s.handleLatestResource)

	// readiness://trend - last 28 results
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "readiness://trend",
		Name:        "Readiness Trend",
		Description: "Readiness, recovery and sleep scores over the last 28 days",
		MIMEType:    "application/json",
	}, s.handleTrendResource)

	// readiness://baselines - current baseline per metric type
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "readiness://baselines",
		Name:        "Metric Baselines",
		Description: "Rolling median/MAD baseline for each tracked metric type",
		MIMEType:    "application/json",
	}, s.handleBaselinesResource)
}

// Resource handlers

func (s *Server) handleLatestResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	results, err := s.repo.ListResults(s.defaultUser, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	var payload interface{}
	if len(results) == 0 {
		payload = map[string]interface{}{"message": "No results stored yet."}
	} else {
		payload = results[0]
	}
	return jsonResource("readiness://latest", payload)
}

func (s *Server) handleTrendResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	results, err := s.repo.ListResults(s.defaultUser, 28)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	type trendPoint struct {
		Date         string  `json:"date"`
		Readiness    float64 `json:"readiness"`
		Recovery     float64 `json:"recovery"`
		SleepQuality float64 `json:"sleep_quality"`
		Category     string  `json:"category"`
	}
	points := make([]trendPoint, 0, len(results))
	for _, r := range results {
		points = append(points, trendPoint{
			Date:         models.DateKey(r.Date),
			Readiness:    r.Readiness,
			Recovery:     r.Recovery,
			SleepQuality: r.SleepQuality,
			Category:     string(r.Category),
		})
	}

	return jsonResource("readiness://trend", map[string]interface{}{
		"user":   s.defaultUser,
		"days":   len(points),
		"points": points,
	})
}

func (s *Server) handleBaselinesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	baselines := make(map[string]interface{})
	for _, mt := range models.AllMetricTypes {
		b, err := s.engine.Baselines().Get(ctx, s.defaultUser, mt, 0, false)
		if err != nil {
			continue // Untracked metrics simply stay absent
		}
		baselines[string(mt)] = b
	}

	return jsonResource("readiness://baselines", map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"user":         s.defaultUser,
		"baselines":    baselines,
	})
}

func jsonResource(uri string, payload interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
