package mcptools

import (
	"context"
	"fmt"

	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GetEntryHandler returns the handler function for the get_entry MCP tool.
func GetEntryHandler(svc *diary.Service) func(ctx context.Context, req *mcp.CallToolRequest, input GetEntryInput) (*mcp.CallToolResult, GetEntryOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetEntryInput) (*mcp.CallToolResult, GetEntryOutput, error) {
		if input.Date == "" {
			return nil, GetEntryOutput{}, fmt.Errorf("date is required")
		}
		date, err := entry.ParseDate(input.Date)
		if err != nil {
			return nil, GetEntryOutput{}, err
		}

		b, err := svc.Fetch(ctx, date)
		if err != nil {
			return nil, GetEntryOutput{}, err
		}

		return nil, GetEntryOutput{
			ID:       b.Entry.ID,
			Date:     b.Entry.DateKey(),
			Text:     b.Entry.Text,
			Mood:     b.Entry.Mood.Label(),
			Photos:   len(b.Photos),
			Stickers: len(b.Stickers),
		}, nil
	}
}
