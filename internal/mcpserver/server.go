// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Fehu's document generation tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/fehu/internal/docservice"
	"github.com/starford/fehu/internal/models"
)

// Server wraps the MCP server with Fehu tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all Fehu tools registered.
func New(svc *docservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Fehu",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("generate_invoice",
		mcp.WithDescription("Render an invoice PDF and persist it. Takes the invoice "+
			"as a JSON object string (clientCompanyName, invoiceNumber, services, "+
			"subtotal, taxPercentage, grandTotal, ...). Returns the artifact id."),
		mcp.WithString("invoice", mcp.Required(), mcp.Description("Invoice request as a JSON object string")),
	), s.generateInvoice)

	s.mcp.AddTool(mcp.NewTool("generate_document",
		mcp.WithDescription("Render the generic document shape and persist it. "+
			"All fields are optional and default sensibly."),
		mcp.WithString("title", mcp.Description("Document title")),
		mcp.WithString("body", mcp.Description("Body text")),
		mcp.WithString("code_data", mcp.Description("String to embed as a scannable code")),
	), s.generateDocument)

	s.mcp.AddTool(mcp.NewTool("list_artifacts",
		mcp.WithDescription("List stored artifacts (filename and creation time), newest first."),
	), s.listArtifacts)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) generateInvoice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("invoice")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var invoice models.InvoiceRequest
	if err := json.Unmarshal([]byte(raw), &invoice); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid invoice JSON: %v", err)), nil
	}
	id, filename, err := s.svc.GenerateInvoice(ctx, invoice)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("generated %s (id %s)", filename, id)), nil
}

func (s *Server) generateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := models.DocumentRequest{}
	if v, err := req.RequireString("title"); err == nil {
		doc.Title = v
	}
	if v, err := req.RequireString("body"); err == nil {
		doc.Body = v
	}
	if v, err := req.RequireString("code_data"); err == nil {
		doc.CodeData = v
	}
	id, filename, err := s.svc.GenerateDocument(ctx, doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("generated %s (id %s)", filename, id)), nil
}

func (s *Server) listArtifacts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListArtifacts(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
