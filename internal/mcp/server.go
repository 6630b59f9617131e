package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rafifeedloop/esignature/internal/catalog"
	"github.com/rafifeedloop/esignature/internal/engine"
	"github.com/rafifeedloop/esignature/pkg/models"
)

// mcpActor attributes MCP-initiated operations in the audit trail.
var mcpActor = models.Actor{UserID: "mcp", UserName: "MCP Agent", IPAddress: "127.0.0.1"}

// Server exposes the workflow engine and template catalog as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	engine    *engine.Engine
	catalog   *catalog.Catalog
}

// NewServer creates a new Server wrapping the given engine and catalog.
func NewServer(eng *engine.Engine, cat *catalog.Catalog) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"eSignature Workflow",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		engine:  eng,
		catalog: cat,
	}

	s.registerTools()
	return s
}

// GetMCPServer returns the underlying MCP server for mounting.
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_templates",
			mcp.WithDescription("List available document templates, optionally narrowed to an industry and use case"),
			mcp.WithString("industry", mcp.Description("Industry id (omit for the full industry catalog)")),
			mcp.WithString("use_case", mcp.Description("Use case id within the industry")),
		),
		s.handleListTemplates,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"create_document",
			mcp.WithDescription("Create a draft document from a template"),
			mcp.WithString("template_id", mcp.Required(), mcp.Description("Catalog template id")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Human-readable document title")),
			mcp.WithString("signing_mode", mcp.Description("sequential or parallel (default sequential)")),
			mcp.WithObject("fields", mcp.Description("Field values keyed by template field id")),
		),
		s.handleCreateDocument,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"add_signer",
			mcp.WithDescription("Add a signer to a document"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document id")),
			mcp.WithString("name", mcp.Required(), mcp.Description("Signer name")),
			mcp.WithString("email", mcp.Required(), mcp.Description("Signer email")),
			mcp.WithString("role", mcp.Description("Signer role or title")),
		),
		s.handleAddSigner,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"send_for_signature",
			mcp.WithDescription("Send a draft document to its signers"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document id")),
		),
		s.handleSendForSignature,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"sign_document",
			mcp.WithDescription("Record a signature for a signer"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document id")),
			mcp.WithString("signer_id", mcp.Required(), mcp.Description("Signer id")),
			mcp.WithString("signature", mcp.Description("Opaque signature proof")),
		),
		s.handleSignDocument,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"decline_signature",
			mcp.WithDescription("Record a decline for a signer"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document id")),
			mcp.WithString("signer_id", mcp.Required(), mcp.Description("Signer id")),
			mcp.WithString("reason", mcp.Description("Reason for declining")),
		),
		s.handleDeclineSignature,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_document",
			mcp.WithDescription("Fetch a document with its signers and audit trail"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document id")),
		),
		s.handleGetDocument,
	)
}

func stringArg(request mcp.CallToolRequest, key string) (string, bool) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", false
	}
	v, ok := args[key].(string)
	return v, ok && v != ""
}

func optionalArg(request mcp.CallToolRequest, key string) string {
	v, _ := stringArg(request, key)
	return v
}

func objectArg(request mcp.CallToolRequest, key string) map[string]any {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]any{}
	}
	if v, ok := args[key].(map[string]interface{}); ok {
		return v
	}
	return map[string]any{}
}

func toolResult(v any) *mcp.CallToolResult {
	jsonBytes, _ := json.Marshal(v)
	return mcp.NewToolResultText(string(jsonBytes))
}

func (s *Server) handleListTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	industry := optionalArg(request, "industry")
	if industry == "" {
		return toolResult(map[string]any{"industries": s.catalog.Industries()}), nil
	}
	templates, err := s.catalog.Templates(industry, optionalArg(request, "use_case"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list templates: %v", err)), nil
	}
	return toolResult(map[string]any{"templates": templates}), nil
}

func (s *Server) handleCreateDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, ok := stringArg(request, "template_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: template_id"), nil
	}
	title, ok := stringArg(request, "title")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: title"), nil
	}
	mode := models.SigningMode(optionalArg(request, "signing_mode"))
	if mode == "" {
		mode = models.SigningModeSequential
	}

	doc, err := s.engine.CreateDocument(ctx, mcpActor, templateID, title, objectArg(request, "fields"), mode)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create document: %v", err)), nil
	}
	return toolResult(doc), nil
}

func (s *Server) handleAddSigner(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, ok := stringArg(request, "document_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: document_id"), nil
	}
	name, ok := stringArg(request, "name")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: name"), nil
	}
	email, ok := stringArg(request, "email")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: email"), nil
	}

	doc, err := s.engine.AddSigner(ctx, mcpActor, docID, name, email, optionalArg(request, "role"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add signer: %v", err)), nil
	}
	return toolResult(doc), nil
}

func (s *Server) handleSendForSignature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, ok := stringArg(request, "document_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: document_id"), nil
	}

	doc, err := s.engine.SendForSignature(ctx, mcpActor, docID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send for signature: %v", err)), nil
	}
	return toolResult(doc), nil
}

func (s *Server) handleSignDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, ok := stringArg(request, "document_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: document_id"), nil
	}
	signerID, ok := stringArg(request, "signer_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: signer_id"), nil
	}

	doc, err := s.engine.SignDocument(ctx, mcpActor, docID, signerID, optionalArg(request, "signature"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to sign: %v", err)), nil
	}
	return toolResult(doc), nil
}

func (s *Server) handleDeclineSignature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, ok := stringArg(request, "document_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: document_id"), nil
	}
	signerID, ok := stringArg(request, "signer_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: signer_id"), nil
	}

	doc, err := s.engine.DeclineSignature(ctx, mcpActor, docID, signerID, optionalArg(request, "reason"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to decline: %v", err)), nil
	}
	return toolResult(doc), nil
}

func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, ok := stringArg(request, "document_id")
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: document_id"), nil
	}

	doc, err := s.engine.GetDocument(ctx, docID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch document: %v", err)), nil
	}
	return toolResult(doc), nil
}

// MountHTTPHandlers mounts the MCP SSE endpoints on the given mux.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
