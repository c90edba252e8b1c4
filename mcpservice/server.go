package mcpservice

import (
	"context"
	"fmt"

	"github.com/trstroem/mcp-echo-server/mcp"
)

// ErrUnknownTool is returned by CallTool when no registered tool matches the
// requested name. Transports surface it as a JSON-RPC method-not-found error.
var ErrUnknownTool = fmt.Errorf("unknown tool")

// Server holds the server identity and the tool set it exposes. It carries no
// per-request state; every method is a pure function of its inputs and the
// construction-time configuration.
type Server struct {
	info  mcp.ImplementationInfo
	tools *StaticTools
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerInfo sets the identity advertised in the initialize result.
func WithServerInfo(info mcp.ImplementationInfo) ServerOption {
	return func(s *Server) {
		s.info = info
	}
}

// WithTools sets the tools container the server dispatches against.
func WithTools(tools *StaticTools) ServerOption {
	return func(s *Server) {
		if tools != nil {
			s.tools = tools
		}
	}
}

// NewServer constructs a Server with defaults and applies options.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		info:  mcp.ImplementationInfo{Name: "mcp-server", Version: "0.0.0"},
		tools: NewStaticTools(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize returns the fixed capability announcement. Client capabilities
// are not inspected; this server does not negotiate.
func (s *Server) Initialize() mcp.InitializeResult {
	return mcp.InitializeResult{
		ProtocolVersion: mcp.ProtocolVersion,
		Capabilities: mcp.ServerCapabilities{
			Tools: &struct {
				ListChanged bool `json:"listChanged,omitempty"`
			}{},
		},
		ServerInfo: s.info,
	}
}

// ListTools returns the descriptors of every registered tool.
func (s *Server) ListTools() mcp.ListToolsResult {
	return mcp.ListToolsResult{Tools: s.tools.Descriptors()}
}

// CallTool dispatches a tool invocation by name. An unrecognized name yields
// an error wrapping ErrUnknownTool.
func (s *Server) CallTool(ctx context.Context, req *mcp.CallToolRequestReceived) (*mcp.CallToolResult, error) {
	handler, ok := s.tools.Handler(req.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, req.Name)
	}
	return handler(ctx, req)
}
