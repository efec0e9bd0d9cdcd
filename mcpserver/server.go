// ABOUTME: Model Context Protocol surface for a preview session: showPreview and focus tools plus the preview resource.
// ABOUTME: Served over stdio so agents and MCP-aware editors can drive the preview.

package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/2389-research/glslpreview/command"
	"github.com/2389-research/glslpreview/extension"
	"github.com/2389-research/glslpreview/preview"
	"github.com/2389-research/glslpreview/workspace"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolShowPreview       = command.ShowPreview
	ToolSetActiveDocument = "setActiveDocument"
	ToolListDocuments     = "listDocuments"
)

// SetActiveInput is the setActiveDocument argument.
type SetActiveInput struct {
	URI string `json:"uri" jsonschema:"URI of an open shader document"`
}

// SetActiveOutput reports the focused document after the call.
type SetActiveOutput struct {
	Active string `json:"active"`
}

// DocumentSummary describes one open document.
type DocumentSummary struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
	Active  bool   `json:"active"`
}

// ListDocumentsOutput is the listDocuments result.
type ListDocumentsOutput struct {
	Documents []DocumentSummary `json:"documents"`
}

// New builds an MCP server bound to ext.
func New(ext *extension.Extension, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "glslpreview", Version: version}, nil)
	h := &handlers{ext: ext}

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolShowPreview,
		Description: "Open the live GLSL preview for the focused shader document.",
	}, h.showPreview)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolSetActiveDocument,
		Description: "Focus an open shader document so edits to it refresh the preview.",
	}, h.setActive)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolListDocuments,
		Description: "List open shader documents and which one is focused.",
	}, h.listDocuments)

	server.AddResource(&mcp.Resource{
		URI:         preview.URI,
		Name:        "glsl-preview",
		Description: "Self-contained HTML page rendering the focused fragment shader.",
		MIMEType:    "text/html",
	}, h.readPreview)

	return server
}

// Run serves ext over stdio until ctx is cancelled or the client disconnects.
func Run(ctx context.Context, ext *extension.Extension, version string) error {
	log.Printf("mcp serving transport=stdio session=%s", ext.SessionID())
	if err := New(ext, version).Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}

type handlers struct {
	ext *extension.Extension
}

func textResult(isError bool, format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: isError,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}

func (h *handlers) showPreview(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	if err := h.ext.ShowPreview(ctx); err != nil {
		return textResult(true, "showPreview failed: %v", err), nil, nil
	}
	return textResult(false, "preview requested for %s", workspace.DisplayName(h.ext.Workspace().ActiveURI())), nil, nil
}

func (h *handlers) setActive(_ context.Context, _ *mcp.CallToolRequest, in SetActiveInput) (*mcp.CallToolResult, SetActiveOutput, error) {
	ws := h.ext.Workspace()
	if err := ws.SetActive(in.URI); err != nil {
		return textResult(true, "%v", err), SetActiveOutput{Active: ws.ActiveURI()}, nil
	}
	return textResult(false, "focused %s", in.URI), SetActiveOutput{Active: in.URI}, nil
}

func (h *handlers) listDocuments(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	ws := h.ext.Workspace()
	out := ListDocumentsOutput{Documents: []DocumentSummary{}}
	for _, d := range ws.Documents() {
		out.Documents = append(out.Documents, DocumentSummary{
			URI:     d.URI(),
			Version: d.Version(),
			Active:  ws.IsActive(d.URI()),
		})
	}
	return textResult(false, "%d open documents", len(out.Documents)), out, nil
}

func (h *handlers) readPreview(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	page, err := h.ext.Providers().Provide(uri)
	if err != nil {
		if errors.Is(err, preview.ErrUnknownResource) || errors.Is(err, preview.ErrNoProvider) {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: "text/html", Text: page}},
	}, nil
}
