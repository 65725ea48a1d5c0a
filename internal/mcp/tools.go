// ABOUTME: MCP tool implementations for daily vitals.
// ABOUTME: Fetches, summarizes and validates metrics, and reports provider status.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/vitals/internal/dashboard"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/harperreed/vitals/internal/validation"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// fetch_metrics
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "fetch_metrics",
		Description: "Fetch steps, HRV, resting heart rate, VO2 max and sleep for one day, with validation",
	}, s.handleFetchMetrics)

	// week_summary
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "week_summary",
		Description: "Fetch the seven days ending on a date and average each metric",
	}, s.handleWeekSummary)

	// validate_metrics
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "validate_metrics",
		Description: "Check a set of metric values against physiological bounds",
	}, s.handleValidateMetrics)

	// provider_status
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "provider_status",
		Description: "Report which data provider is active and whether access is granted",
	}, s.handleProviderStatus)

	// list_samples
	if s.store != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "list_samples",
			Description: "List raw samples held by the backing store, most recent first",
		}, s.handleListSamples)
	}
}

// Tool input/output types

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Calendar date (YYYY-MM-DD), defaults to today"`
}

type weekInput struct {
	End string `json:"end,omitempty" jsonschema:"Last day of the week (YYYY-MM-DD), defaults to today"`
}

type validateInput struct {
	Steps                *int     `json:"steps,omitempty" jsonschema:"Daily step count"`
	HeartRateVariability *float64 `json:"hrv_ms,omitempty" jsonschema:"Heart rate variability in milliseconds"`
	RestingHeartRate     *float64 `json:"resting_heart_rate_bpm,omitempty" jsonschema:"Resting heart rate in beats per minute"`
	VO2Max               *float64 `json:"vo2_max,omitempty" jsonschema:"VO2 max in ml/kg/min"`
	SleepHours           *float64 `json:"sleep_hours,omitempty" jsonschema:"Sleep duration in hours"`
}

type listSamplesInput struct {
	MetricType string `json:"metric_type,omitempty" jsonschema:"Filter by metric type (steps, hrv, resting_heart_rate, vo2_max, sleep_duration)"`
	Batch      string `json:"batch,omitempty" jsonschema:"Filter by injection batch ID"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type dayOutput struct {
	Date                   string            `json:"date"`
	Steps                  *int              `json:"steps,omitempty"`
	HeartRateVariabilityMs *float64          `json:"heart_rate_variability_ms,omitempty"`
	RestingHeartRateBpm    *float64          `json:"resting_heart_rate_bpm,omitempty"`
	VO2MaxMlKgMin          *float64          `json:"vo2_max_ml_kg_min,omitempty"`
	SleepDurationSeconds   *float64          `json:"sleep_duration_seconds,omitempty"`
	Completeness           int               `json:"completeness"`
	Validation             validation.Result `json:"validation"`
}

type weekOutput struct {
	Start     string             `json:"start"`
	End       string             `json:"end"`
	Days      []dayOutput        `json:"days"`
	Averages  map[string]float64 `json:"averages"`
	ValidDays int                `json:"valid_days"`
}

type statusOutput struct {
	Provider  string `json:"provider"`
	Available bool   `json:"available"`
	Access    string `json:"access"`
	Message   string `json:"message"`
}

// parseDate reads YYYY-MM-DD as a UTC date; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func optional[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

func toDayOutput(report *dashboard.DailyReport) dayOutput {
	r := report.Record
	return dayOutput{
		Date:                   r.Date().Format(models.DateLayout),
		Steps:                  optional[int](r.Steps()),
		HeartRateVariabilityMs: optional[float64](r.HeartRateVariability()),
		RestingHeartRateBpm:    optional[float64](r.RestingHeartRate()),
		VO2MaxMlKgMin:          optional[float64](r.VO2Max()),
		SleepDurationSeconds:   optional[float64](r.SleepDuration()),
		Completeness:           r.Completeness(),
		Validation:             report.Validation,
	}
}

func toWeekOutput(week *dashboard.WeekSummary) weekOutput {
	out := weekOutput{
		Start:     week.Start.Format(models.DateLayout),
		End:       week.End.Format(models.DateLayout),
		Averages:  make(map[string]float64, len(week.Averages)),
		ValidDays: week.ValidDays,
	}
	for _, d := range week.Days {
		out.Days = append(out.Days, toDayOutput(d))
	}
	for mt, v := range week.Averages {
		out.Averages[string(mt)] = v
	}
	return out
}

// Tool handlers

func (s *Server) handleFetchMetrics(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, dayOutput, error) {
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, dayOutput{}, err
	}

	report, err := s.svc.Daily(ctx, date)
	if err != nil {
		return nil, dayOutput{}, fmt.Errorf("failed to fetch metrics: %w", err)
	}
	return nil, toDayOutput(report), nil
}

func (s *Server) handleWeekSummary(ctx context.Context, req *mcp.CallToolRequest, input weekInput) (*mcp.CallToolResult, weekOutput, error) {
	end, err := parseDate(input.End)
	if err != nil {
		return nil, weekOutput{}, err
	}

	week, err := s.svc.Week(ctx, end)
	if err != nil {
		return nil, weekOutput{}, fmt.Errorf("failed to summarize week: %w", err)
	}
	return nil, toWeekOutput(week), nil
}

func (s *Server) handleValidateMetrics(ctx context.Context, req *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validation.Result, error) {
	var opts []models.RecordOption
	if input.Steps != nil {
		opts = append(opts, models.WithSteps(*input.Steps))
	}
	if input.HeartRateVariability != nil {
		opts = append(opts, models.WithHeartRateVariability(*input.HeartRateVariability))
	}
	if input.RestingHeartRate != nil {
		opts = append(opts, models.WithRestingHeartRate(*input.RestingHeartRate))
	}
	if input.VO2Max != nil {
		opts = append(opts, models.WithVO2Max(*input.VO2Max))
	}
	if input.SleepHours != nil {
		opts = append(opts, models.WithSleepDuration(*input.SleepHours*models.SecondsPerHour))
	}

	return nil, validation.Validate(models.NewRecord(time.Time{}, opts...)), nil
}

func (s *Server) handleProviderStatus(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, statusOutput, error) {
	p := s.svc.Provider()
	out := statusOutput{
		Provider:  s.providerName,
		Available: p.IsAvailable(),
		Access:    "granted",
	}
	if err := s.svc.RequestAccess(ctx); err != nil {
		out.Access = "error"
		out.Message = err.Error()
		return nil, out, nil
	}
	out.Message = "Provider ready"
	return nil, out, nil
}

func (s *Server) handleListSamples(ctx context.Context, req *mcp.CallToolRequest, input listSamplesInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	filter := storage.SampleFilter{Batch: input.Batch, Limit: input.Limit}
	if input.MetricType != "" {
		if !models.IsValidMetricType(input.MetricType) {
			return nil, nil, fmt.Errorf("unknown metric type: %s", input.MetricType)
		}
		mt := models.MetricType(input.MetricType)
		filter.MetricType = &mt
	}

	samples, err := s.store.ListSamples(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list samples: %w", err)
	}

	if len(samples) == 0 {
		return nil, map[string]interface{}{"message": "No samples found."}, nil
	}

	return nil, map[string]interface{}{"samples": samples}, nil
}
