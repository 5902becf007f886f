package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListPostsTool(srv, svc)
	registerListCommentsTool(srv, svc)
	registerGetCommentTool(srv, svc)
	registerCreateCommentTool(srv, svc)
	registerEditCommentTool(srv, svc)
	registerDeleteCommentTool(srv, svc)
	registerToggleLikeTool(srv, svc)
}

func postArg() mcp.ToolOption {
	return mcp.WithString("post",
		mcp.Required(),
		mcp.Description("Post whose comment thread is addressed."),
	)
}

func idArg(desc string) mcp.ToolOption {
	return mcp.WithString("id",
		mcp.Required(),
		mcp.Description(desc),
	)
}

func registerListPostsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_posts",
		mcp.WithDescription("List posts that have comments, most recently active first."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		posts, total, err := svc.ListPosts(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"posts":    posts,
			"count":    len(posts),
			"comments": total,
		})
	})
}

func registerListCommentsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_comments",
		mcp.WithDescription("Return the comment thread of a post as nested replies."),
		postArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		post, err := request.RequireString("post")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		comments, count, err := svc.ListComments(ctx, post)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"post":     post,
			"count":    count,
			"comments": comments,
		})
	})
}

func registerGetCommentTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_comment",
		mcp.WithDescription("Fetch a single comment and its replies."),
		postArg(),
		idArg("Comment identifier to fetch."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Post string `json:"post"`
			ID   string `json:"id"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.GetComment(ctx, args.Post, args.ID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerCreateCommentTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_comment",
		mcp.WithDescription("Post a comment on a post, or a reply when parent_id is set."),
		postArg(),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Comment text."),
		),
		mcp.WithString("parent_id",
			mcp.Description("Comment being replied to. Omit for a top-level comment."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Post     string `json:"post"`
			Message  string `json:"message"`
			ParentID string `json:"parent_id"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.CreateComment(ctx, args.Post, args.ParentID, args.Message)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerEditCommentTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"edit_comment",
		mcp.WithDescription("Replace the message of a comment you wrote."),
		postArg(),
		idArg("Comment identifier to edit."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("New comment text."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Post    string `json:"post"`
			ID      string `json:"id"`
			Message string `json:"message"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.EditComment(ctx, args.Post, args.ID, args.Message)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteCommentTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_comment",
		mcp.WithDescription("Delete a comment you wrote together with its replies."),
		postArg(),
		idArg("Comment identifier to delete."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Post string `json:"post"`
			ID   string `json:"id"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		removed, err := svc.DeleteComment(ctx, args.Post, args.ID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"removed": removed,
			"count":   len(removed),
		})
	})
}

func registerToggleLikeTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"toggle_like",
		mcp.WithDescription("Like a comment, or remove your like if it is already liked."),
		postArg(),
		idArg("Comment identifier to like or unlike."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Post string `json:"post"`
			ID   string `json:"id"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.ToggleLike(ctx, args.Post, args.ID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
