package mcptools

import (
	"context"

	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewDiaryMCPServer creates an in-memory MCP server exposing diary tools.
// Returns the server and a client transport for connecting to it.
func NewDiaryMCPServer(svc *diary.Service) (*mcp.Server, mcp.Transport) {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	server := CreateMCPServer(svc)

	go func() {
		_, _ = server.Connect(context.Background(), serverTransport, nil)
	}()

	return server, clientTransport
}

// CreateMCPServer creates an MCP server with registered diary tools.
func CreateMCPServer(svc *diary.Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "moodiary",
		Version: "1.0.0",
	}, nil)

	// Read tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_entry",
		Description: "Get the diary entry for a date",
	}, GetEntryHandler(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_entries",
		Description: "List diary entries, newest first, optionally within a date range",
	}, ListEntriesHandler(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_entry",
		Description: "Render the diary entry for a date as a PDF data link",
	}, ExportEntryHandler(svc))

	// Write tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_entry",
		Description: "Create a diary entry with text and an optional mood",
	}, CreateEntryHandler(svc))

	return server
}
