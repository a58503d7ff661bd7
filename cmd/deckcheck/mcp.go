package main

import (
	"bytes"
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/ersonp/deckcheck/internal/application/handlers"
	"github.com/ersonp/deckcheck/internal/infrastructure/report"
)

const checkPresentationTool = "check_presentation"

func newMCPCmd() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the analysis as an MCP tool over stdio",
		Long: `Starts a Model Context Protocol server on stdin/stdout exposing the
check_presentation tool, which analyzes a .pptx file or image directory and
returns the findings as JSON. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, analyzeSetup(noCache), func(d *Deps) error {
				return server.ServeStdio(newMCPServer(d.AnalyzeHandler))
			})
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not reuse cached AI responses")

	return cmd
}

func newMCPServer(h *handlers.AnalyzeHandler) *server.MCPServer {
	s := server.NewMCPServer("deckcheck", version, server.WithToolCapabilities(false))

	tool := mcp.NewTool(checkPresentationTool,
		mcp.WithDescription("Find factual and logical inconsistencies across the slides of a presentation. "+
			"Returns a JSON array of findings with type, description, slides_involved, confidence, severity and details."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a .pptx file or to a directory of exported slide images"),
		),
	)
	s.AddTool(tool, checkPresentation(h))

	return s
}

// checkPresentation reports analysis failures as tool errors so the client sees the message.
func checkPresentation(h *handlers.AnalyzeHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		kind := handlers.SourceFile
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			kind = handlers.SourceImages
		}

		analysis, err := h.Handle(ctx, handlers.AnalyzeRequest{Path: path, Kind: kind})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var buf bytes.Buffer
		if err := (report.JSONRenderer{}).Render(&buf, report.FromAnalysis(analysis)); err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(buf.String()), nil
	}
}
