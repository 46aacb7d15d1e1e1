package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/karsk/splinefit/core"
	"github.com/karsk/splinefit/internal/contract"
	"github.com/karsk/splinefit/internal/dataio"
	"github.com/karsk/splinefit/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.RunStore
}

// fitSummary is the JSON payload returned by the fit_curve tool. The
// sample table is omitted; clients get the KPI surface and verdicts.
type fitSummary struct {
	SampleCount     int                  `json:"sample_count"`
	BreakpointCount int                  `json:"breakpoint_count"`
	Strategy        schema.StrategyLabel `json:"strategy"`
	KPIs            schema.KPISet        `json:"kpis"`
	Quality         schema.QualityReport `json:"quality"`
}

func (h *toolHandler) handleFitCurve(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data := request.GetString("data", "")
	path := request.GetString("path", "")

	var samples []schema.Sample
	var err error
	switch {
	case data != "" && path != "":
		return mcp.NewToolResultError("provide either 'data' or 'path', not both"), nil
	case data != "":
		samples, err = dataio.Load(strings.NewReader(data))
	case path != "":
		samples, err = dataio.LoadFile(path)
	default:
		return mcp.NewToolResultError("either 'data' or 'path' is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load samples: %v", err)), nil
	}

	opts := core.Options{
		BreakpointCount: h.baseCfg.Breakpoints,
		Engine: core.EngineOptions{
			NearInterpPenalty: h.baseCfg.NearInterpPenalty,
			FixedPenalty:      h.baseCfg.FixedPenalty,
		},
		Thresholds: h.baseCfg.Thresholds,
	}
	if b := request.GetInt("breakpoints", 0); b > 0 {
		if b < schema.MinBreakpointCount || b > contract.MaxBreakpointCount {
			return mcp.NewToolResultError(fmt.Sprintf("breakpoints must be between %d and %d",
				schema.MinBreakpointCount, contract.MaxBreakpointCount)), nil
		}
		opts.BreakpointCount = b
	}

	res, err := core.Run(samples, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fit failed: %v", err)), nil
	}

	summary := fitSummary{
		SampleCount:     res.KPIs.SampleCount,
		BreakpointCount: len(res.Breakpoints),
		Strategy:        res.Fit.Strategy,
		KPIs:            res.KPIs,
		Quality:         res.Quality,
	}
	jsonData, _ := json.MarshalIndent(summary, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetFitHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 10)
	if limit < 1 || limit > contract.MaxHistoryLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d", contract.MaxHistoryLimit)), nil
	}

	runs, err := h.store.GetRuns(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to retrieve history: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetHistoryStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to retrieve status: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
