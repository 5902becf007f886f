package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerPostsResource(srv, svc)
	registerThreadTemplate(srv, svc)
}

func registerPostsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"comments://posts",
		"Posts",
		mcp.WithResourceDescription("Posts with comment counts and latest activity."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		posts, total, err := svc.ListPosts(ctx)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"posts":    posts,
			"count":    len(posts),
			"comments": total,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerThreadTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"comments://posts/{post}",
		"Comment Thread",
		mcp.WithTemplateDescription("Nested comment thread of a post."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		post := templateArg(request.Params.Arguments["post"])
		if post == "" {
			return nil, fmt.Errorf("post is required")
		}

		comments, count, err := svc.ListComments(ctx, post)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"post":     post,
			"count":    count,
			"comments": comments,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

// templateArg accepts both the single string and the []string forms the
// template matcher may produce.
func templateArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
