package cmd

import (
	"github.com/chris-regnier/moodiary/internal/mcptools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Run MCP server on stdio",
	Long: `Starts a Model Context Protocol (MCP) server that exposes diary tools
over stdio transport. This allows MCP clients to read and write your diary.

Available tools:
  - get_entry: Fetch the entry for a date
  - list_entries: List entries, optionally within a date range
  - create_entry: Save a new entry with a mood
  - export_entry: Render an entry as a PDF data link

Example client config:
  {
    "mcpServers": {
      "moodiary": {
        "command": "/path/to/moodiary",
        "args": ["mcp-serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	server := mcptools.CreateMCPServer(svc)

	// Logs go to stderr; stdout is reserved for MCP protocol
	log.Info().Str("data_dir", appConfig.DataDir).Msg("starting MCP server (stdio transport)")

	// This blocks until the transport is closed
	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}
