// Package mcpservice implements the protocol semantics of the server: the
// initialize announcement, the tool listing, and tool dispatch. It is
// transport-agnostic; the stdio package owns framing and JSON-RPC envelopes.
package mcpservice
