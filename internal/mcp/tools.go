package mcp

// SearchInput defines the input schema for the search_catalog tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"book title, author, publisher or note text; Latin or Bangla script"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
}

// SearchOutput defines the output schema for the search_catalog tool.
type SearchOutput struct {
	Query   string         `json:"query"`
	Tier    string         `json:"tier" jsonschema:"indexed when the catalog lookup was enough, fuzzy when the ranked scan ran"`
	Results []RecordOutput `json:"results" jsonschema:"matching catalog records, best first"`
	Note    string         `json:"note,omitempty" jsonschema:"set when the catalog could not be read and results are empty"`
}

// RecordOutput is one catalog record in tool output.
type RecordOutput struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Author    string `json:"author,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Notes     string `json:"notes,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// SuggestInput defines the input schema for the suggest_queries tool.
type SuggestInput struct {
	Partial string `json:"partial" jsonschema:"partially typed query"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of suggestions, default 5"`
}

// SuggestOutput defines the output schema for the suggest_queries tool.
type SuggestOutput struct {
	Suggestions []string `json:"suggestions"`
}

// CatalogStatusInput defines the input schema for the catalog_status tool (no parameters).
type CatalogStatusInput struct{}

// CatalogStatusOutput defines the output schema for the catalog_status tool.
type CatalogStatusOutput struct {
	Backend     string      `json:"backend"`
	Path        string      `json:"path"`
	RecordCount int         `json:"record_count"`
	History     int         `json:"suggestion_history"`
	Queries     *QueryStats `json:"queries,omitempty"`
}

// QueryStats summarises query telemetry for the current session.
type QueryStats struct {
	TotalQueries   int64            `json:"total_queries"`
	ZeroResultPct  float64          `json:"zero_result_pct"`
	EscalationRate float64          `json:"escalation_rate"`
	TierCounts     map[string]int64 `json:"tier_counts"`
}
