// Package mcpadapter exposes the citation check as an MCP tool.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/citecheck/internal/core/domain"
	"github.com/kirillkom/citecheck/internal/core/ports"
)

const ToolName = "check_citations"

func NewServer(checker ports.CitationChecker, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"citecheck",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTool(CheckTool(), CheckHandler(checker))
	return s
}

func CheckTool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Check legal citations in a .md, .txt or .markdown file against CourtListener. "+
			"Returns the citation report; saves it when output_dir is given."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the document to check"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory to save citations_report.json under"),
		),
	)
}

// CheckHandler returns the check result as JSON text. Failed checks are tool
// errors, not protocol errors.
func CheckHandler(checker ports.CitationChecker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result := checker.Run(ctx, domain.CheckRequest{
			FilePath:  filePath,
			OutputDir: request.GetString("output_dir", ""),
		})

		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal check result: %w", err)
		}
		out := mcp.NewToolResultText(string(payload))
		out.IsError = !result.Success
		return out, nil
	}
}
