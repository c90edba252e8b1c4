// Package stdio implements a minimal single-connection MCP transport over
// stdin/stdout. Each non-empty input line is one JSON-RPC message; each
// response is one output line, written and flushed before the next line is
// read.
//
// Characteristics
//
//	Connection model : 1 process <-> 1 client
//	Sessions         : none; every message is independent
//	Transport        : line / stream oriented JSON-RPC
//
// Options allow supplying alternate io.Reader / io.Writer or a custom logger.
//
// Example:
//
//	srv := mcpservice.NewServer(
//	    mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: "echo-server", Version: "1.0.0"}),
//	)
//	h := stdio.NewHandler(srv)
//	if err := h.Serve(context.Background()); err != nil { log.Fatal(err) }
package stdio
