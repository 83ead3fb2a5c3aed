package mcptools

// CreateEntryInput is the input schema for the create_entry MCP tool.
type CreateEntryInput struct {
	Date string `json:"date,omitempty" jsonschema-description:"Entry date as YYYY-MM-DD; defaults to today"`
	Text string `json:"text" jsonschema-description:"Entry text"`
	Mood string `json:"mood,omitempty" jsonschema-description:"Mood key, name, or label: happy, loved, sleepy, excited, sad, cool, grateful"`
}

// CreateEntryOutput is the output schema for the create_entry MCP tool.
type CreateEntryOutput struct {
	ID       int64    `json:"id"`
	Date     string   `json:"date"`
	Mood     string   `json:"mood"`
	Preview  string   `json:"preview"`
	Warnings []string `json:"warnings,omitempty"`
}

// GetEntryInput is the input schema for the get_entry MCP tool.
type GetEntryInput struct {
	Date string `json:"date" jsonschema-description:"Entry date as YYYY-MM-DD"`
}

// GetEntryOutput is the output schema for the get_entry MCP tool.
type GetEntryOutput struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	Text     string `json:"text"`
	Mood     string `json:"mood"`
	Photos   int    `json:"photos"`
	Stickers int    `json:"stickers"`
}

// ListEntriesInput is the input schema for the list_entries MCP tool.
type ListEntriesInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema-description:"ISO date lower bound (inclusive)"`
	EndDate   string `json:"end_date,omitempty" jsonschema-description:"ISO date upper bound (inclusive)"`
	Limit     int    `json:"limit" jsonschema-description:"Maximum number of results"`
}

// ListEntriesOutput is the output schema for the list_entries MCP tool.
type ListEntriesOutput struct {
	Entries []EntryResult `json:"entries"`
}

// EntryResult is the common output format for entry-related MCP tools.
type EntryResult struct {
	ID      int64  `json:"id"`
	Date    string `json:"date"`
	Mood    string `json:"mood"`
	Preview string `json:"preview"`
}

// ExportEntryInput is the input schema for the export_entry MCP tool.
type ExportEntryInput struct {
	Date string `json:"date" jsonschema-description:"Entry date as YYYY-MM-DD"`
}

// ExportEntryOutput is the output schema for the export_entry MCP tool.
type ExportEntryOutput struct {
	Filename string `json:"filename"`
	Size     int    `json:"size"`
	Href     string `json:"href"`
}
