package cmd

import (
	"github.com/karsk/splinefit/internal/fitstore"
	"github.com/karsk/splinefit/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Splinefit MCP server",
	Long:  `Launch an MCP server that allows AI agents to fit curves and browse run history via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// All report output goes through MCP results in this mode;
		// stdio is reserved for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, fitstore.Manager.GetHistoryStore())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
