// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/karsk/splinefit/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Splinefit MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.RunStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Splinefit Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: fit_curve ---
	s.AddTool(mcp.NewTool("fit_curve",
		mcp.WithDescription("Fit a cubic spline to (x, y) sample data and report fit KPIs with quality verdicts."),
		mcp.WithString("data", mcp.Description("Inline sample data: one 'x y' pair per line, whitespace separated. Either this or 'path' is required.")),
		mcp.WithString("path", mcp.Description("Path to a sample data file. Either this or 'data' is required.")),
		mcp.WithNumber("breakpoints", mcp.Description("Number of uniform breakpoints (defaults to the configured value).")),
	), h.handleFitCurve)

	// --- 2. Tool: get_fit_history ---
	s.AddTool(mcp.NewTool("get_fit_history",
		mcp.WithDescription("List previously recorded fit runs with their KPI summaries, newest first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of runs returned. Defaults to 10.")),
	), h.handleGetFitHistory)

	// --- 3. Tool: get_history_status ---
	s.AddTool(mcp.NewTool("get_history_status",
		mcp.WithDescription("Report the history store backend, location and row counts."),
	), h.handleGetHistoryStatus)

	return s
}

// StartMCPServer starts the Splinefit MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.RunStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
