package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scent-enricher/backend/internal/repository"
	"scent-enricher/backend/internal/services"
	"scent-enricher/backend/pkg/models"
)

// Server exposes the enrichment operations as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	service   *services.EnrichmentService
}

func NewServer(service *services.EnrichmentService, version string) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Scent Enricher",
			version,
			server.WithToolCapabilities(true),
		),
		service: service,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"process_unprocessed",
			mcp.WithDescription("Enrich every substance that has not been processed yet"),
		),
		s.handleProcessUnprocessed,
	)

	stringArray := mcp.Items(map[string]any{"type": "string"})
	s.mcpServer.AddTool(
		mcp.NewTool(
			"save_batch",
			mcp.WithDescription("Save user-edited rows; arrays are index-aligned with names"),
			mcp.WithArray("names", mcp.Required(), mcp.Description("Substance names"), stringArray),
			mcp.WithArray("notes", mcp.Description("Top/Middle/Base note per row"), stringArray),
			mcp.WithArray("odours", mcp.Description("Odour class per row"), stringArray),
			mcp.WithArray("phs", mcp.Description("pH value per row"), stringArray),
		),
		s.handleSaveBatch,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"enrich_substance",
			mcp.WithDescription("Ask the model about one substance and fill its empty fields"),
			mcp.WithString("name", mcp.Required(), mcp.Description("The substance name")),
		),
		s.handleEnrichSubstance,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_substance",
			mcp.WithDescription("Get the stored record for a substance"),
			mcp.WithString("name", mcp.Required(), mcp.Description("The substance name")),
		),
		s.handleGetSubstance,
	)
}

func (s *Server) handleProcessUnprocessed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.service.AutoProcess(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to process: %v", err)), nil
	}
	return jsonResult(report)
}

func (s *Server) handleSaveBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	names, err := stringSlice(args, "names")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if names == nil {
		return mcp.NewToolResultError("Missing required parameter: names"), nil
	}
	batch := models.Batch{Names: names}
	if batch.Notes, err = stringSlice(args, "notes"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if batch.Odours, err = stringSlice(args, "odours"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if batch.PHs, err = stringSlice(args, "phs"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(s.service.BulkSave(ctx, batch))
}

func (s *Server) handleEnrichSubstance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errResult := requiredName(request)
	if errResult != nil {
		return errResult, nil
	}

	result, outcome, err := s.service.EnrichOne(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to enrich: %v", err)), nil
	}
	if outcome == services.OutcomeNotFound {
		return mcp.NewToolResultError(fmt.Sprintf("Substance %q not found", name)), nil
	}
	return jsonResult(map[string]interface{}{
		"result":  result,
		"outcome": outcome.String(),
		"success": outcome.Success(),
	})
}

func (s *Server) handleGetSubstance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errResult := requiredName(request)
	if errResult != nil {
		return errResult, nil
	}

	sub, err := s.service.GetSubstance(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Substance %q not found", name)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get substance: %v", err)), nil
	}
	return jsonResult(sub)
}

func requiredName(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", mcp.NewToolResultError("Invalid arguments type")
	}
	name, ok := args["name"].(string)
	if !ok || name == "" {
		return "", mcp.NewToolResultError("Missing required parameter: name")
	}
	return name, nil
}

// stringSlice reads an optional array of strings. A missing key yields nil.
func stringSlice(args map[string]interface{}, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("parameter %s must be an array of strings", key)
	}
	out := make([]string, len(items))
	for i, item := range items {
		str, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %s[%d] must be a string", key, i)
		}
		out[i] = str
	}
	return out, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MountHTTPHandlers serves the MCP server under /mcp: streamable HTTP on
// /mcp itself and the SSE transport on /mcp/sse and /mcp/message.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	streamable := server.NewStreamableHTTPServer(mcpServer, server.WithEndpointPath("/mcp"))
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.Handle("/mcp", streamable)
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
