package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"noteboard/internal/application/commands"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// RegisterReadTools adds all read-only tree tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, ns ports.Namespace) {
	s.AddTool(listTool(), listHandler(ns))
	s.AddTool(treeTool(), treeHandler(ns))
	s.AddTool(ancestorsTool(), ancestorsHandler(ns))
	s.AddTool(readNoteTool(), readNoteHandler(ns))
}

// locatorParam describes how resources are addressed in every tool
const locatorParam = "Resource address: a token, 'folder:<id>', 'note:<id>' or '<kind>:<id>@<token>'."

// --- list ---

func listTool() mcp.Tool {
	return mcp.NewTool("list",
		mcp.WithDescription("List the direct children of a folder. Without a parent lists the root."),
		mcp.WithString("parent",
			mcp.Description("Parent folder. "+locatorParam+" Omit for the root."),
		),
		mcp.WithString("order_by",
			mcp.Description("Sort order: index (default), name or created"),
		),
	)
}

func listHandler(ns ports.Namespace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		parent, err := domain.ParseLocator(req.GetString("parent", ""))
		if err != nil {
			return toolError(err)
		}

		cmd := commands.NewListChildrenCommand(ns, parent, req.GetString("order_by", commands.OrderByIndex))
		children, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(children, formatResource)
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the whole folder and note hierarchy as a tree."),
	)
}

func treeHandler(ns ports.Namespace) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root, err := commands.NewTreeCommand(ns).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(root.Children) == 0 {
			return mcp.NewToolResultText("Empty."), nil
		}
		var sb strings.Builder
		renderTree(&sb, root, "")
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, node *domain.TreeNode, prefix string) {
	if !node.IsRootNode() {
		fmt.Fprintf(sb, "%s%s\n", prefix, formatResource(node.Resource))
		prefix += "  "
	}
	for _, child := range node.Children {
		renderTree(sb, child, prefix)
	}
}

// --- ancestors ---

func ancestorsTool() mcp.Tool {
	return mcp.NewTool("ancestors",
		mcp.WithDescription("List the folders above a resource, outermost first."),
		mcp.WithString("resource",
			mcp.Description(locatorParam),
			mcp.Required(),
		),
	)
}

func ancestorsHandler(ns ports.Namespace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := requiredLocator(req, "resource")
		if err != nil {
			return toolError(err)
		}

		chain, err := commands.NewAncestorsCommand(ns, target).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(chain) == 0 {
			return mcp.NewToolResultText("/"), nil
		}
		parts := make([]string, len(chain))
		for i, f := range chain {
			parts[i] = f.Name
		}
		return mcp.NewToolResultText("/" + strings.Join(parts, "/")), nil
	}
}

// --- read_note ---

func readNoteTool() mcp.Tool {
	return mcp.NewTool("read_note",
		mcp.WithDescription("Read the text of a note."),
		mcp.WithString("note",
			mcp.Description(locatorParam),
			mcp.Required(),
		),
	)
}

func readNoteHandler(ns ports.Namespace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		note, err := requiredLocator(req, "note")
		if err != nil {
			return toolError(err)
		}

		res, err := commands.NewReadNoteCommand(ns, note).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(res.Text), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func requiredLocator(req mcp.CallToolRequest, key string) (domain.Locator, error) {
	raw := req.GetString(key, "")
	if raw == "" {
		return domain.Locator{}, fmt.Errorf("%s is required", key)
	}
	return domain.ParseLocator(raw)
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatResource(r domain.Resource) string {
	return fmt.Sprintf("%d  %s  %s  %s", r.Index, r.Ref(), r.Name, r.Token)
}
