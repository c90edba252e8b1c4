// Package mcp defines the wire-level types for the subset of the Model
// Context Protocol this server speaks: the initialize handshake and the tools
// surface. Field names and shapes follow the 2024-11-05 protocol revision.
//
// The types here are plain data carriers; protocol semantics live in the
// mcpservice package and transport framing lives in the stdio package.
package mcp
