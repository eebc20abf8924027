// ABOUTME: MCP tool implementations for the readiness engine.
// ABOUTME: Sample and sleep entry, score computation, baselines, anomaly detection.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/readiness/internal/models"
)

func (s *Server) registerTools() {
	// add_sample
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_sample",
		Description: "Record a physiological sample (hrv, resting_heart_rate, spo2, workout, etc.)",
	}, s.handleAddSample)

	// add_sleep
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_sleep",
		Description: "Record a manual sleep duration for a wake date, optionally as an override",
	}, s.handleAddSleep)

	// compute_readiness
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "compute_readiness",
		Description: "Run the full readiness calculation for a date and store the result",
	}, s.handleComputeReadiness)

	// get_readiness
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_readiness",
		Description: "Get the stored readiness result for a date",
	}, s.handleGetReadiness)

	// get_baseline
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_baseline",
		Description: "Get the rolling baseline (median/MAD) for a metric type",
	}, s.handleGetBaseline)

	// detect_anomalies
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "detect_anomalies",
		Description: "Flag scores on a date that fall sharply below their history",
	}, s.handleDetectAnomalies)
}

// Tool input/output types

// The entire jsonschema tag is the field description; required fields are
// the ones whose json tag lacks omitempty.
type addSampleInput struct {
	User       string  `json:"user,omitempty" jsonschema:"User ID, defaults to the configured user"`
	MetricType string  `json:"metric_type" jsonschema:"Type of sample (resting_heart_rate, heart_rate, hrv, respiratory_rate, spo2, temperature, stress, steps, distance, active_calories, calories_intake, workout, sleep_auto)"`
	Value      float64 `json:"value,omitempty" jsonschema:"The sample value; RPE 0-10 for workouts, unused for sleep_auto"`
	RecordedAt string  `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
	Start      string  `json:"start,omitempty" jsonschema:"Interval start (ISO 8601) for workout and sleep_auto samples"`
	End        string  `json:"end,omitempty" jsonschema:"Interval end (ISO 8601) for workout and sleep_auto samples"`
	Source     string  `json:"source,omitempty" jsonschema:"Originating device or app"`
	Notes      string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type sampleOutput struct {
	ID         string  `json:"id"`
	MetricType string  `json:"metric_type"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Message    string  `json:"message"`
}

type addSleepInput struct {
	User     string  `json:"user,omitempty" jsonschema:"User ID, defaults to the configured user"`
	Date     string  `json:"date,omitempty" jsonschema:"Wake date (2006-01-02), defaults to today"`
	Minutes  float64 `json:"minutes" jsonschema:"Sleep duration in minutes"`
	Override bool    `json:"override,omitempty" jsonschema:"Force this entry to win over auto-detected sessions"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type dateInput struct {
	User string `json:"user,omitempty" jsonschema:"User ID, defaults to the configured user"`
	Date string `json:"date,omitempty" jsonschema:"Date (2006-01-02), defaults to today"`
}

type getBaselineInput struct {
	User       string `json:"user,omitempty" jsonschema:"User ID, defaults to the configured user"`
	MetricType string `json:"metric_type" jsonschema:"Metric type to get the baseline for"`
	WindowDays int    `json:"window_days,omitempty" jsonschema:"Trailing window in days (default 28)"`
}

// Tool handlers

func (s *Server) handleAddSample(ctx context.Context, req *mcp.CallToolRequest, input addSampleInput) (*mcp.CallToolResult, sampleOutput, error) {
	if !models.IsValidMetricType(input.MetricType) {
		return nil, sampleOutput{}, fmt.Errorf("unknown metric type: %s", input.MetricType)
	}

	userID := s.user(input.User)
	mt := models.MetricType(input.MetricType)
	sample := models.NewSample(userID, mt, input.Value)

	if models.IsIntervalMetric(mt) {
		start, err := parseTimestamp(input.Start)
		if err != nil {
			return nil, sampleOutput{}, fmt.Errorf("interval start: %w", err)
		}
		end, err := parseTimestamp(input.End)
		if err != nil {
			return nil, sampleOutput{}, fmt.Errorf("interval end: %w", err)
		}
		if !end.After(start) {
			return nil, sampleOutput{}, fmt.Errorf("interval end must be after start")
		}
		sample.WithInterval(start, end)
	} else if input.RecordedAt != "" {
		t, err := parseTimestamp(input.RecordedAt)
		if err != nil {
			return nil, sampleOutput{}, fmt.Errorf("recorded_at: %w", err)
		}
		sample.WithRecordedAt(t)
	}

	if input.Source != "" {
		sample.WithSource(input.Source)
	}
	if input.Notes != "" {
		sample.WithNotes(input.Notes)
	}

	if err := s.repo.CreateSample(sample); err != nil {
		return nil, sampleOutput{}, fmt.Errorf("failed to create sample: %w", err)
	}

	// New data shifts the window; stale baselines must not survive it.
	if err := s.engine.Baselines().Invalidate(userID, &mt); err != nil {
		return nil, sampleOutput{}, fmt.Errorf("invalidate baseline: %w", err)
	}

	return nil, sampleOutput{
		ID:         sample.ID.String()[:8],
		MetricType: input.MetricType,
		Value:      sample.Value,
		Unit:       sample.Unit,
		Message:    fmt.Sprintf("Added %s: %.2f %s (ID: %s)", input.MetricType, sample.Value, sample.Unit, sample.ID.String()[:8]),
	}, nil
}

func (s *Server) handleAddSleep(ctx context.Context, req *mcp.CallToolRequest, input addSleepInput) (*mcp.CallToolResult, simpleOutput, error) {
	if input.Minutes <= 0 {
		return nil, simpleOutput{}, fmt.Errorf("minutes must be positive")
	}

	date, err := parseDate(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	entry := models.NewSleepEntry(s.user(input.User), date, input.Minutes)
	if input.Override {
		entry.WithOverride()
	}
	if err := s.repo.CreateSleepEntry(entry); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to create sleep entry: %w", err)
	}

	kind := "manual"
	if input.Override {
		kind = "override"
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Recorded %.0f min %s sleep for %s", input.Minutes, kind, models.DateKey(date)),
	}, nil
}

func (s *Server) handleComputeReadiness(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.engine.CalculateAndStore(ctx, s.user(input.User), date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute readiness: %w", err)
	}
	return nil, result, nil
}

func (s *Server) handleGetReadiness(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.repo.GetResult(s.user(input.User), models.DateOf(date))
	if err != nil {
		return nil, nil, fmt.Errorf("no result for %s: %w", models.DateKey(date), err)
	}
	return nil, result, nil
}

func (s *Server) handleGetBaseline(ctx context.Context, req *mcp.CallToolRequest, input getBaselineInput) (*mcp.CallToolResult, any, error) {
	if !models.IsValidMetricType(input.MetricType) {
		return nil, nil, fmt.Errorf("unknown metric type: %s", input.MetricType)
	}

	b, err := s.engine.Baselines().Get(ctx, s.user(input.User), models.MetricType(input.MetricType), input.WindowDays, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get baseline: %w", err)
	}
	return nil, b, nil
}

func (s *Server) handleDetectAnomalies(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	anomalies, err := s.detector.Detect(ctx, s.user(input.User), date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to detect anomalies: %w", err)
	}
	if len(anomalies) == 0 {
		return nil, map[string]interface{}{"message": "No anomalies detected."}, nil
	}
	return nil, anomalies, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("timestamp required")
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02 15:04", value)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
	}
	return t, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q (want 2006-01-02)", value)
	}
	return t, nil
}
