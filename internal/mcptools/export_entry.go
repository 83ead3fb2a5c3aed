package mcptools

import (
	"context"
	"fmt"

	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/chris-regnier/moodiary/internal/export"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ExportEntryHandler returns the handler function for the export_entry MCP tool.
func ExportEntryHandler(svc *diary.Service) func(ctx context.Context, req *mcp.CallToolRequest, input ExportEntryInput) (*mcp.CallToolResult, ExportEntryOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ExportEntryInput) (*mcp.CallToolResult, ExportEntryOutput, error) {
		if input.Date == "" {
			return nil, ExportEntryOutput{}, fmt.Errorf("date is required")
		}
		date, err := entry.ParseDate(input.Date)
		if err != nil {
			return nil, ExportEntryOutput{}, err
		}

		exp, err := svc.Export(ctx, date)
		if err != nil {
			return nil, ExportEntryOutput{}, err
		}

		return nil, ExportEntryOutput{
			Filename: exp.Filename,
			Size:     len(exp.PDF),
			Href:     export.DataLink(exp.PDF),
		}, nil
	}
}
