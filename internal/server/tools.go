package server

import "github.com/ironsheep/image-filters-mcp/internal/dispatch"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path to the image file",
			},
		},
		"required": []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	ids := dispatch.Identifiers()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}

	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, channel count, format and size.",
			InputSchema: pathSchema(),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: pathSchema(),
		},
		{
			Name:        "image_list_transforms",
			Description: "List the transform identifiers accepted by image_transform, with a short description of each.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name: "image_transform",
			Description: "Apply one noise, denoise, sharpen or edge transform to an image and write the result. " +
				"Edge transforms produce a single-channel image; all others keep the input's channels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the input image",
					},
					"transform": map[string]interface{}{
						"type":        "string",
						"enum":        names,
						"description": "Transform identifier",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Where to write the result. Defaults to processed_<name> in the processed folder",
					},
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Include a base64 PNG thumbnail of the result",
						"default":     false,
					},
				},
				"required": []string{"path", "transform"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
