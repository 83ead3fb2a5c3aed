package mcptools

import (
	"context"
	"time"

	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CreateEntryHandler returns the handler function for the create_entry MCP tool.
func CreateEntryHandler(svc *diary.Service) func(ctx context.Context, req *mcp.CallToolRequest, input CreateEntryInput) (*mcp.CallToolResult, CreateEntryOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateEntryInput) (*mcp.CallToolResult, CreateEntryOutput, error) {
		date, err := parseDateOr(input.Date, time.Now())
		if err != nil {
			return nil, CreateEntryOutput{}, err
		}
		mood, err := parseMood(input.Mood)
		if err != nil {
			return nil, CreateEntryOutput{}, err
		}

		res, err := svc.Save(ctx, diary.Draft{Date: date, Text: input.Text, Mood: mood})
		if err != nil {
			return nil, CreateEntryOutput{}, err
		}

		return nil, CreateEntryOutput{
			ID:       res.Entry.ID,
			Date:     res.Entry.DateKey(),
			Mood:     res.Entry.Mood.Label(),
			Preview:  res.Entry.Preview(200),
			Warnings: res.Warnings,
		}, nil
	}
}
