package mcp_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/karsk/splinefit/internal/contract"
	mcp_internal "github.com/karsk/splinefit/internal/mcp"
	"github.com/karsk/splinefit/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		Breakpoints:       schema.DefaultBreakpointCount,
		NearInterpPenalty: schema.DefaultNearInterpPenalty,
		FixedPenalty:      schema.DefaultFixedPenalty,
		Thresholds:        schema.DefaultQualityThresholds(),
	}
}

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	// The store is only needed by the history tools; validation-error
	// paths never reach it.
	var store contract.RunStore
	s := mcp_internal.NewMCPServer(baseConfig(), store)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	t.Run("fit_curve missing input", func(t *testing.T) {
		res := callTool(t, "fit_curve", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "either 'data' or 'path' is required")
	})

	t.Run("fit_curve both inputs", func(t *testing.T) {
		res := callTool(t, "fit_curve", map[string]any{
			"data": "0 1\n1 2",
			"path": "samples.txt",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "not both")
	})

	t.Run("fit_curve malformed data", func(t *testing.T) {
		res := callTool(t, "fit_curve", map[string]any{
			"data": "0 1\n1 2 3",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "expected 2 columns")
	})

	t.Run("fit_curve breakpoints out of range", func(t *testing.T) {
		res := callTool(t, "fit_curve", map[string]any{
			"data":        "0 1\n1 2",
			"breakpoints": 99999.0,
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "breakpoints must be between")
	})

	t.Run("get_fit_history invalid limit", func(t *testing.T) {
		res := callTool(t, "get_fit_history", map[string]any{
			"limit": 0.0,
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "limit must be between")
	})
}

func TestMCPServerFitCurve(t *testing.T) {
	// 100 samples on a parabola keep the fit well determined at the
	// default partition size.
	data := ""
	for i := 0; i < 100; i++ {
		x := float64(i)
		data += fmt.Sprintf("%g %g\n", x, x*x)
	}

	res := callTool(t, "fit_curve", map[string]any{"data": data})
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, `"sample_count": 100`)
	assert.Contains(t, text, `"strategy"`)
	assert.Contains(t, text, `"r_squared"`)
	assert.Contains(t, text, `"quality"`)
}
