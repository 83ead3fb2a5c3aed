package mcptools

import (
	"context"

	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

// ListEntriesHandler returns the handler function for the list_entries MCP tool.
func ListEntriesHandler(svc *diary.Service) func(ctx context.Context, req *mcp.CallToolRequest, input ListEntriesInput) (*mcp.CallToolResult, ListEntriesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListEntriesInput) (*mcp.CallToolResult, ListEntriesOutput, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = defaultListLimit
		}

		// Unparseable bounds are ignored rather than rejected.
		var start, end string
		if t, err := entry.ParseDate(input.StartDate); err == nil {
			start = entry.FormatDate(t)
		}
		if t, err := entry.ParseDate(input.EndDate); err == nil {
			end = entry.FormatDate(t)
		}

		entries, err := svc.List(ctx)
		if err != nil {
			return nil, ListEntriesOutput{}, err
		}

		results := []EntryResult{}
		for _, e := range entries {
			key := e.DateKey()
			if (start != "" && key < start) || (end != "" && key > end) {
				continue
			}
			results = append(results, EntryResult{
				ID:      e.ID,
				Date:    key,
				Mood:    e.Mood.Label(),
				Preview: e.Preview(100),
			})
			if len(results) >= limit {
				break
			}
		}

		return nil, ListEntriesOutput{Entries: results}, nil
	}
}
