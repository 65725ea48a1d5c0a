// ABOUTME: MCP resource implementations for daily vitals.
// ABOUTME: Provides vitals://today and vitals://week resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI = "vitals://today"
	weekURI  = "vitals://week"
)

func (s *Server) registerResources() {
	// vitals://today - today's record and validation
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Vitals",
		Description: "Today's five daily metrics with validation result",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// vitals://week - the last seven days with averages
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         weekURI,
		Name:        "Weekly Vitals Summary",
		Description: "The seven days ending today with per-metric averages",
		MIMEType:    "application/json",
	}, s.handleWeekResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	report, err := s.svc.Daily(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch today: %w", err)
	}
	return jsonResource(todayURI, toDayOutput(report))
}

func (s *Server) handleWeekResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	week, err := s.svc.Week(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to summarize week: %w", err)
	}
	return jsonResource(weekURI, toWeekOutput(week))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
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
