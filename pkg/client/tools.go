package client

import (
	"context"
	"encoding/json"

	mcperrors "github.com/acai10/mcp-http-go/pkg/errors"
	"github.com/acai10/mcp-http-go/pkg/logging"
	"github.com/acai10/mcp-http-go/pkg/pagination"
	"github.com/acai10/mcp-http-go/pkg/protocol"
	"github.com/acai10/mcp-http-go/pkg/schema"
)

// ListTools fetches one page of the tool listing. Input schemas of the
// returned tools are cached for client-side argument validation.
func (c *clientImpl) ListTools(ctx context.Context, params *protocol.ListToolsParams) (*protocol.ListToolsResult, error) {
	c.mu.Lock()
	switch c.state {
	case Unconnected:
		c.mu.Unlock()
		return nil, mcperrors.NotConnected("list tools")
	case Closed:
		c.mu.Unlock()
		return nil, mcperrors.ClientClosed("list tools")
	}
	sessionID := c.sessionID
	c.mu.Unlock()

	if err := pagination.ValidateParams(params); err != nil {
		return nil, mcperrors.InvalidRequestf("list tools: %v", err)
	}
	params = pagination.ApplyDefaults(params)

	body, err := json.Marshal(params)
	if err != nil {
		return nil, mcperrors.InvalidRequestf("encoding list tools params: %v", err)
	}

	endpoint := c.endpoint(protocol.PathTools)
	c.logger.Debug("listing tools",
		logging.String("cursor", params.Cursor),
		logging.Int("limit", params.Limit),
	)

	resp, err := c.transport.Send(ctx, c.newRequest(endpoint, sessionID, body))
	if err != nil {
		return nil, err
	}

	result, parseErr := protocol.ParseListToolsResult(resp.Body)
	if parseErr != nil {
		return nil, mcperrors.MalformedResponse(endpoint, resp.StatusCode, parseErr)
	}

	c.cacheSchemas(result.Tools)
	c.logger.Debug("received tools", logging.Int("count", len(result.Tools)))
	return result, nil
}

// ListAllTools walks all pages of the tool listing
func (c *clientImpl) ListAllTools(ctx context.Context) ([]protocol.Tool, error) {
	var tools []protocol.Tool
	collector := pagination.NewCollector()
	params := &protocol.ListToolsParams{}

	for collector.HasMore {
		result, err := c.ListTools(ctx, collector.NextParams(params))
		if err != nil {
			return nil, err
		}
		tools = append(tools, result.Tools...)
		collector.Update(result)
	}

	return tools, nil
}

// ToolNames returns only the names of all available tools
func (c *clientImpl) ToolNames(ctx context.Context) ([]string, error) {
	tools, err := c.ListAllTools(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	return names, nil
}

// cacheSchemas remembers tool input schemas for argument validation
func (c *clientImpl) cacheSchemas(tools []protocol.Tool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tool := range tools {
		if len(tool.InputSchema) > 0 {
			c.schemas[tool.Name] = tool.InputSchema
		}
	}
}

// validateArguments checks arguments against a tool's input schema
func validateArguments(inputSchema json.RawMessage, args map[string]interface{}) error {
	return schema.ValidateArguments(inputSchema, args)
}
