// Package server implements the MCP (Model Context Protocol) server for the
// image filter transforms.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_list_transforms: Enumerate transform identifiers
//   - image_transform: Apply a transform and write the result
//
// image_transform writes to output_path, or to processed_<name> in the
// processed folder when none is given. The result reports the written file,
// its shape, per-channel statistics and how much it differs from the input.
//
// # Image Caching
//
// Inputs are cached by path for the lifetime of the process. Written outputs
// are evicted so a later load sees the new file.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(proc, store, cfg.PreviewMaxSize, logger)
//	if err := srv.Run(os.Stdin, os.Stdout); err != nil {
//	    logger.Fatal().Err(err).Msg("server error")
//	}
package server
