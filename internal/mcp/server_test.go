// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/readiness/internal/baseline"
	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/score"
	"github.com/harperreed/readiness/internal/storage"
)

// setupServer creates a server over a temp database and in-memory cache.
func setupServer(t *testing.T) (*Server, storage.Repository) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "readiness.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cache, err := baseline.OpenInMemoryCache()
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	engine := score.NewEngine(db, baseline.NewStore(db, cache))
	server, err := NewServer(db, engine, "op1")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

func TestNewServer(t *testing.T) {
	server, _ := setupServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
	if server.detector == nil {
		t.Error("Expected non-nil detector")
	}
}

func TestHandleAddSample(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addSampleInput
		wantErr   bool
		errSubstr string
	}{
		{
			name: "valid hrv sample",
			input: addSampleInput{
				MetricType: "hrv",
				Value:      48,
			},
			wantErr: false,
		},
		{
			name: "valid sample with RFC3339 timestamp",
			input: addSampleInput{
				MetricType: "resting_heart_rate",
				Value:      52,
				RecordedAt: "2026-01-31T08:00:00Z",
			},
			wantErr: false,
		},
		{
			name: "valid sample with simple timestamp",
			input: addSampleInput{
				MetricType: "steps",
				Value:      10000,
				RecordedAt: "2026-01-31 08:00",
			},
			wantErr: false,
		},
		{
			name: "valid workout interval",
			input: addSampleInput{
				MetricType: "workout",
				Value:      6,
				Start:      "2026-01-31T17:00:00Z",
				End:        "2026-01-31T18:00:00Z",
			},
			wantErr: false,
		},
		{
			name: "workout without interval",
			input: addSampleInput{
				MetricType: "workout",
				Value:      6,
			},
			wantErr:   true,
			errSubstr: "interval start",
		},
		{
			name: "inverted interval",
			input: addSampleInput{
				MetricType: "sleep_auto",
				Start:      "2026-01-31T06:00:00Z",
				End:        "2026-01-30T22:00:00Z",
			},
			wantErr:   true,
			errSubstr: "end must be after start",
		},
		{
			name: "invalid metric type",
			input: addSampleInput{
				MetricType: "invalid_type",
				Value:      100,
			},
			wantErr:   true,
			errSubstr: "unknown metric type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleAddSample(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				} else if tt.errSubstr != "" && !contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if output.MetricType != tt.input.MetricType {
				t.Errorf("MetricType = %s, want %s", output.MetricType, tt.input.MetricType)
			}
			if output.ID == "" {
				t.Error("Expected non-empty ID")
			}
			if output.Message == "" {
				t.Error("Expected non-empty Message")
			}
		})
	}
}

func TestHandleAddSleep(t *testing.T) {
	server, repo := setupServer(t)
	ctx := context.Background()

	_, output, err := server.handleAddSleep(ctx, &mcp.CallToolRequest{}, addSleepInput{
		Date:     "2026-02-01",
		Minutes:  450,
		Override: true,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output.Message == "" {
		t.Error("Expected non-empty message")
	}

	date, _ := time.Parse("2006-01-02", "2026-02-01")
	entries, err := repo.SleepEntriesForDate("op1", date)
	if err != nil {
		t.Fatalf("SleepEntriesForDate failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 sleep entry, got %d", len(entries))
	}
	if !entries[0].IsOverride {
		t.Error("Expected override entry")
	}
}

func TestHandleAddSleepInvalid(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	if _, _, err := server.handleAddSleep(ctx, &mcp.CallToolRequest{}, addSleepInput{Minutes: 0}); err == nil {
		t.Error("Expected error for non-positive minutes")
	}
	if _, _, err := server.handleAddSleep(ctx, &mcp.CallToolRequest{}, addSleepInput{Minutes: 400, Date: "not-a-date"}); err == nil {
		t.Error("Expected error for bad date")
	}
}

func TestHandleComputeAndGetReadiness(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	// Seed some signal so the run has data to chew on.
	for i := 0; i < 8; i++ {
		_, _, err := server.handleAddSample(ctx, &mcp.CallToolRequest{}, addSampleInput{
			MetricType: "hrv",
			Value:      50,
			RecordedAt: time.Now().AddDate(0, 0, -i).Format(time.RFC3339),
		})
		if err != nil {
			t.Fatalf("add sample: %v", err)
		}
	}

	_, computed, err := server.handleComputeReadiness(ctx, &mcp.CallToolRequest{}, dateInput{})
	if err != nil {
		t.Fatalf("compute readiness: %v", err)
	}
	if computed == nil {
		t.Fatal("Expected non-nil result")
	}

	_, stored, err := server.handleGetReadiness(ctx, &mcp.CallToolRequest{}, dateInput{})
	if err != nil {
		t.Fatalf("get readiness: %v", err)
	}
	if stored == nil {
		t.Fatal("Expected stored result")
	}
}

func TestHandleGetReadinessMissing(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	if _, _, err := server.handleGetReadiness(ctx, &mcp.CallToolRequest{}, dateInput{Date: "2020-01-01"}); err == nil {
		t.Error("Expected error for missing result")
	}
}

func TestHandleGetBaseline(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := server.handleAddSample(ctx, &mcp.CallToolRequest{}, addSampleInput{
			MetricType: "hrv",
			Value:      float64(44 + i*2),
			RecordedAt: time.Now().AddDate(0, 0, -i-1).Format(time.RFC3339),
		})
		if err != nil {
			t.Fatalf("add sample: %v", err)
		}
	}

	_, output, err := server.handleGetBaseline(ctx, &mcp.CallToolRequest{}, getBaselineInput{
		MetricType: "hrv",
	})
	if err != nil {
		t.Fatalf("get baseline: %v", err)
	}
	if output == nil {
		t.Fatal("Expected non-nil baseline")
	}

	_, _, err = server.handleGetBaseline(ctx, &mcp.CallToolRequest{}, getBaselineInput{
		MetricType: "bogus",
	})
	if err == nil {
		t.Error("Expected error for unknown metric type")
	}
}

func TestHandleDetectAnomaliesEmpty(t *testing.T) {
	server, repo := setupServer(t)
	ctx := context.Background()

	r := &models.Result{
		UserID:       "op1",
		Date:         models.DateOf(time.Now()),
		Readiness:    70,
		Category:     models.CategoryCaution,
		Confidence:   models.ConfidenceMedium,
		CalculatedAt: time.Now(),
	}
	if err := repo.SaveResult(r); err != nil {
		t.Fatalf("save result: %v", err)
	}

	_, output, err := server.handleDetectAnomalies(ctx, &mcp.CallToolRequest{}, dateInput{})
	if err != nil {
		t.Fatalf("detect anomalies: %v", err)
	}
	if output == nil {
		t.Error("Expected non-nil output")
	}
}

func TestHandleLatestResource(t *testing.T) {
	server, repo := setupServer(t)
	ctx := context.Background()

	r := &models.Result{
		UserID:       "op1",
		Date:         models.DateOf(time.Now()),
		Readiness:    82.5,
		Category:     models.CategoryGo,
		Confidence:   models.ConfidenceHigh,
		CalculatedAt: time.Now(),
	}
	if err := repo.SaveResult(r); err != nil {
		t.Fatalf("save result: %v", err)
	}

	result, err := server.handleLatestResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Contents) == 0 {
		t.Fatal("Expected non-empty contents")
	}
	if result.Contents[0].URI != "readiness://latest" {
		t.Errorf("URI = %s, want readiness://latest", result.Contents[0].URI)
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("MIMEType = %s, want application/json", result.Contents[0].MIMEType)
	}
	if !contains(result.Contents[0].Text, "82.5") {
		t.Error("Expected readiness score in result")
	}
}

func TestHandleLatestResourceEmpty(t *testing.T) {
	server, _ := setupServer(t)

	result, err := server.handleLatestResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !contains(result.Contents[0].Text, "No results") {
		t.Error("Expected empty-state message")
	}
}

func TestHandleTrendResource(t *testing.T) {
	server, repo := setupServer(t)
	ctx := context.Background()

	day := models.DateOf(time.Now())
	for i := 0; i < 5; i++ {
		r := &models.Result{
			UserID:       "op1",
			Date:         day.AddDate(0, 0, -i),
			Readiness:    float64(60 + i),
			Category:     models.CategoryCaution,
			Confidence:   models.ConfidenceMedium,
			CalculatedAt: time.Now(),
		}
		if err := repo.SaveResult(r); err != nil {
			t.Fatalf("save result: %v", err)
		}
	}

	result, err := server.handleTrendResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "readiness://trend" {
		t.Errorf("URI = %s, want readiness://trend", result.Contents[0].URI)
	}
	if !contains(result.Contents[0].Text, "points") {
		t.Error("Expected points in trend output")
	}
}

func TestHandleBaselinesResource(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := server.handleAddSample(ctx, &mcp.CallToolRequest{}, addSampleInput{
			MetricType: "hrv",
			Value:      float64(44 + i*2),
			RecordedAt: time.Now().AddDate(0, 0, -i-1).Format(time.RFC3339),
		})
		if err != nil {
			t.Fatalf("add sample: %v", err)
		}
	}

	result, err := server.handleBaselinesResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !contains(result.Contents[0].Text, "hrv") {
		t.Error("Expected hrv baseline in output")
	}
}

// Helper function.
func contains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
