package query

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type runQueryInput struct {
	Query string `json:"query" jsonschema:"the query to execute against the query service"`
}

type describeSchemaInput struct {
	Schema string `json:"schema" jsonschema:"name of the schema to describe"`
}

// NewServer builds the MCP server exposing the two query-service tools.
func NewServer(c *Client, version string) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{Name: "wsline-query", Version: version}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "run_query",
		Description: "Run a query against the remote query service and return the raw result.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in runQueryInput) (*mcp.CallToolResult, any, error) {
		out, err := c.RunQuery(ctx, in.Query)
		if err != nil {
			return nil, nil, err
		}
		return textResult(out), nil, nil
	})

	mcp.AddTool(s, &mcp.Tool{
		Name:        "describe_schema",
		Description: "Describe a schema known to the remote query service.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in describeSchemaInput) (*mcp.CallToolResult, any, error) {
		out, err := c.DescribeSchema(ctx, in.Schema)
		if err != nil {
			return nil, nil, err
		}
		return textResult(out), nil, nil
	})

	return s
}

// Serve runs the MCP server over stdio until the client disconnects or
// ctx is cancelled.
func Serve(ctx context.Context, c *Client, version string) error {
	return NewServer(c, version).Run(ctx, &mcp.StdioTransport{})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
