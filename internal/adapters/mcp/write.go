package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"noteboard/internal/application/commands"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// RegisterWriteTools adds all mutating tree tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, ns ports.Namespace) {
	s.AddTool(createFolderTool(), createFolderHandler(ns))
	s.AddTool(createNoteTool(), createNoteHandler(ns))
	s.AddTool(renameTool(), renameHandler(ns))
	s.AddTool(deleteTool(), deleteHandler(ns))
	s.AddTool(reorderTool(), reorderHandler(ns))
	s.AddTool(transferTool(), transferHandler(ns))
	s.AddTool(saveTextTool(), saveTextHandler(ns))
}

// --- create_folder ---

func createFolderTool() mcp.Tool {
	return mcp.NewTool("create_folder",
		mcp.WithDescription("Create a folder as the last child of a parent folder (or the root)."),
		mcp.WithString("parent",
			mcp.Description("Parent folder. "+locatorParam+" Omit for the root."),
		),
		mcp.WithString("name",
			mcp.Description("Folder name: letters, digits, spaces, '_' and '-'"),
			mcp.Required(),
		),
	)
}

func createFolderHandler(ns ports.Namespace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		parent, err := domain.ParseLocator(req.GetString("parent", ""))
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewCreateFolderCommand(ns, parent, req.GetString("name", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message + "\ntoken: " + result.Folder.Token), nil
	}
}

// --- create_note ---

func createNoteTool() mcp.Tool {
	return mcp.NewTool("create_note",
		mcp.WithDescription("Create a note as the last child of a parent folder (or the root). Without a name the next free NoteN is used."),
		mcp.WithString("parent",
			mcp.Description("Parent folder. "+locatorParam+" Omit for the root."),
		),
		mcp.WithString("name",
			mcp.Description("Note name"),
		),
	)
}

func createNoteHandler(ns ports.Namespace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		parent, err := domain.ParseLocator(req.GetString("parent", ""))
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewCreateNoteCommand(ns, parent, req.GetString("name", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message + "\ntoken: " + result.Note.Token + "\nroom: " + result.Room.Name), nil
	}
}

// --- rename ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename",
		mcp.WithDescription("Rename a folder or note. Its position does not change."),
		mcp.WithString("resource",
			mcp.Description(locatorParam),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("New name"),
			mcp.Required(),
		),
	)
}

func renameHandler(ns ports.Namespace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := requiredLocator(req, "resource")
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewRenameCommand(ns, target, req.GetString("name", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete",
		mcp.WithDescription("Delete a folder with everything inside it, or a note. Remaining siblings close the gap."),
		mcp.WithString("resource",
			mcp.Description(locatorParam),
			mcp.Required(),
		),
	)
}

func deleteHandler(ns ports.Namespace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := requiredLocator(req, "resource")
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewDeleteCommand(ns, target).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- reorder ---

func reorderTool() mcp.Tool {
	return mcp.NewTool("reorder",
		mcp.WithDescription("Move a resource to another position among its siblings."),
		mcp.WithString("resource",
			mcp.Description(locatorParam),
			mcp.Required(),
		),
		mcp.WithNumber("index",
			mcp.Description("Destination index, 0 is first"),
			mcp.Required(),
		),
	)
}

func reorderHandler(ns ports.Namespace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := requiredLocator(req, "resource")
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewReorderCommand(ns, target, req.GetInt("index", -1)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- transfer ---

func transferTool() mcp.Tool {
	return mcp.NewTool("transfer",
		mcp.WithDescription("Move a resource under another folder (or the root) as its last child."),
		mcp.WithString("resource",
			mcp.Description(locatorParam),
			mcp.Required(),
		),
		mcp.WithString("destination",
			mcp.Description("Destination folder. "+locatorParam+" Omit for the root."),
		),
	)
}

func transferHandler(ns ports.Namespace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := requiredLocator(req, "resource")
		if err != nil {
			return toolError(err)
		}
		dest, err := domain.ParseLocator(req.GetString("destination", ""))
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewTransferCommand(ns, target, dest).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- save_text ---

func saveTextTool() mcp.Tool {
	return mcp.NewTool("save_text",
		mcp.WithDescription("Replace the text of a note."),
		mcp.WithString("note",
			mcp.Description(locatorParam),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("New note text"),
			mcp.Required(),
		),
	)
}

func saveTextHandler(ns ports.Namespace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		note, err := requiredLocator(req, "note")
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewSaveTextCommand(ns, note, req.GetString("text", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
