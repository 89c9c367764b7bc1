package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/shelfsearch/internal/config"
	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
	"github.com/Aman-CERP/shelfsearch/internal/search"
	"github.com/Aman-CERP/shelfsearch/internal/store"
	"github.com/Aman-CERP/shelfsearch/internal/telemetry"
	"github.com/Aman-CERP/shelfsearch/pkg/version"
)

const (
	// DefaultSearchLimit is the result count when the client sends no limit.
	DefaultSearchLimit = 10

	// MaxQueryLength bounds search_catalog queries, in runes.
	MaxQueryLength = 256
)

// Server bridges AI clients with the catalog search engine.
type Server struct {
	mcp     *mcp.Server
	engine  *search.Engine
	catalog store.CatalogStore
	config  *config.Config
	logger  *slog.Logger

	// Query telemetry (optional, set via SetMetrics)
	metrics *telemetry.QueryMetrics

	mu sync.RWMutex
}

// ToolInfo contains information about a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

var tools = []ToolInfo{
	{
		Name:        "search_catalog",
		Description: "Search the local book and order catalog by title, author, publisher or notes. Tolerates typos and accepts Latin transliteration of Bangla (boi, lekhok) as well as Bangla script.",
	},
	{
		Name:        "suggest_queries",
		Description: "Suggest previously searched queries that match a partially typed query. Prefix matches come first.",
	},
	{
		Name:        "catalog_status",
		Description: "Report the catalog backend, record count and query statistics for this session.",
	},
}

// NewServer creates a new MCP server. catalog is used for record counts only;
// searches go through engine.
func NewServer(engine *search.Engine, catalog store.CatalogStore, cfg *config.Config) (*Server, error) {
	if engine == nil {
		return nil, errors.New("search engine is required")
	}
	if catalog == nil {
		return nil, errors.New("catalog store is required")
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}

	s := &Server{
		engine:  engine,
		catalog: catalog,
		config:  cfg,
		logger:  slog.Default(),
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "shelfsearch",
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()

	return s, nil
}

// SetLogger replaces the default logger.
func (s *Server) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// SetMetrics sets the query metrics collector. When set, a query_metrics
// resource is registered.
func (s *Server) SetMetrics(m *telemetry.QueryMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m

	if m != nil {
		s.registerQueryMetricsResource()
	}
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return "shelfsearch", version.Version
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	out := make([]ToolInfo, len(tools))
	copy(out, tools)
	return out
}

// CallTool invokes a tool by name with JSON-decoded arguments. search_catalog
// and suggest_queries return markdown; catalog_status returns *CatalogStatusOutput.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case "search_catalog":
		query, _ := args["query"].(string)
		out, err := s.searchCatalog(ctx, query, intArg(args, "limit"))
		if err != nil {
			return nil, err
		}
		return FormatSearchResults(out), nil
	case "suggest_queries":
		partial, _ := args["partial"].(string)
		out := s.suggestQueries(partial, intArg(args, "limit"))
		return FormatSuggestions(partial, out.Suggestions), nil
	case "catalog_status":
		return s.catalogStatus(ctx)
	default:
		return nil, NewMethodNotFoundError(name)
	}
}

// intArg reads a numeric argument. JSON numbers decode as float64.
func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// searchCatalog runs one search, retrying a busy catalog. Other catalog
// failures are logged and degrade to an empty result with a note;
// cancellation is returned as an error.
func (s *Server) searchCatalog(ctx context.Context, query string, limit int) (SearchOutput, error) {
	if query == "" {
		return SearchOutput{}, NewInvalidParamsError("query parameter is required and must be a non-empty string")
	}
	if n := utf8.RuneCountInString(query); n > MaxQueryLength {
		return SearchOutput{}, MapError(shelferrors.New(shelferrors.ErrCodeQueryTooLong,
			fmt.Sprintf("query is %d characters, limit is %d", n, MaxQueryLength), nil))
	}

	maxResults := s.config.Search.MaxResults
	if maxResults <= 0 {
		maxResults = search.DefaultConfig().MaxResults
	}
	limit = clampLimit(limit, min(DefaultSearchLimit, maxResults), 1, maxResults)

	s.mu.RLock()
	logger := s.logger
	s.mu.RUnlock()

	start := time.Now()
	requestID := generateRequestID()
	logger.Info("search_started",
		slog.String("request_id", requestID),
		slog.String("query", query),
		slog.Int("limit", limit))

	type hit struct {
		records []store.Record
		tier    telemetry.Tier
	}
	retry := shelferrors.DefaultRetryConfig()
	retry.MaxRetries = max(s.config.Search.RetryAttempts, 0)
	res, err := shelferrors.RetryWithResult(ctx, retry, func() (hit, error) {
		records, tier, err := s.engine.SearchWithTier(ctx, query)
		return hit{records, tier}, err
	})
	records, tier := res.records, res.tier
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return SearchOutput{}, MapError(ctx.Err())
		}
		attrs := append([]any{
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
		}, shelferrors.FormatForLog(err)...)
		logger.Error("search_failed", attrs...)

		return SearchOutput{
			Query:   query,
			Results: []RecordOutput{},
			Note:    "Catalog unavailable: " + MapError(err).Message,
		}, nil
	}

	if len(records) > limit {
		records = records[:limit]
	}

	out := SearchOutput{
		Query:   query,
		Tier:    string(tier),
		Results: make([]RecordOutput, 0, len(records)),
	}
	for _, r := range records {
		out.Results = append(out.Results, ToRecordOutput(r))
	}

	logger.Info("search_completed",
		slog.String("request_id", requestID),
		slog.Duration("duration", duration),
		slog.String("tier", out.Tier),
		slog.Int("result_count", len(out.Results)))

	return out, nil
}

func (s *Server) suggestQueries(partial string, limit int) SuggestOutput {
	limit = clampLimit(limit, s.config.Suggestions.Limit, 1, 50)
	return SuggestOutput{Suggestions: s.engine.Suggestions(partial, limit)}
}

func (s *Server) catalogStatus(ctx context.Context) (*CatalogStatusOutput, error) {
	count, err := s.catalog.Count(ctx)
	if err != nil {
		return nil, MapError(err)
	}

	out := &CatalogStatusOutput{
		Backend:     string(s.catalog.Backend()),
		Path:        s.config.Catalog.Path,
		RecordCount: count,
		History:     s.engine.SuggestionStore().Len(),
	}

	s.mu.RLock()
	metrics := s.metrics
	s.mu.RUnlock()

	if metrics != nil {
		snap := metrics.Snapshot()
		stats := &QueryStats{
			TotalQueries:   snap.TotalQueries,
			ZeroResultPct:  snap.ZeroResultPercentage(),
			EscalationRate: snap.EscalationRate(),
			TierCounts:     make(map[string]int64, len(snap.TierCounts)),
		}
		for tier, n := range snap.TierCounts {
			stats.TierCounts[string(tier)] = n
		}
		out.Queries = stats
	}
	return out, nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        tools[0].Name,
		Description: tools[0].Description,
	}, s.mcpSearchHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        tools[1].Name,
		Description: tools[1].Description,
	}, s.mcpSuggestHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        tools[2].Name,
		Description: tools[2].Description,
	}, s.mcpCatalogStatusHandler)

	s.logger.Debug("MCP tools registered", slog.Int("count", len(tools)))
}

func (s *Server) mcpSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	out, err := s.searchCatalog(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) mcpSuggestHandler(_ context.Context, _ *mcp.CallToolRequest, input SuggestInput) (
	*mcp.CallToolResult,
	SuggestOutput,
	error,
) {
	return nil, s.suggestQueries(input.Partial, input.Limit), nil
}

func (s *Server) mcpCatalogStatusHandler(ctx context.Context, _ *mcp.CallToolRequest, _ CatalogStatusInput) (
	*mcp.CallToolResult,
	*CatalogStatusOutput,
	error,
) {
	out, err := s.catalogStatus(ctx)
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

// Serve runs the server on the given transport until ctx is canceled.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("Starting MCP server", slog.String("transport", transport))

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
		} else {
			s.logger.Info("MCP server stopped gracefully")
		}
		return err
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

// Close releases server resources. The SDK server stops when its context is canceled.
func (s *Server) Close() error {
	return nil
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
