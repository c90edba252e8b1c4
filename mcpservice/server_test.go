package mcpservice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/trstroem/mcp-echo-server/mcp"
)

func newTestServer() *Server {
	return NewServer(
		WithServerInfo(mcp.ImplementationInfo{Name: "echo-server", Version: "1.0.0"}),
		WithTools(NewStaticTools(greetTool())),
	)
}

func TestServerInitialize(t *testing.T) {
	res := newTestServer().Initialize()

	if res.ProtocolVersion != "2024-11-05" {
		t.Errorf("protocolVersion: got %q", res.ProtocolVersion)
	}
	if res.ServerInfo.Name != "echo-server" || res.ServerInfo.Version != "1.0.0" {
		t.Errorf("serverInfo: got %+v", res.ServerInfo)
	}
	if res.Capabilities.Tools == nil {
		t.Error("tools capability not advertised")
	}
}

func TestServerListTools(t *testing.T) {
	res := newTestServer().ListTools()
	if len(res.Tools) != 1 || res.Tools[0].Name != "greet" {
		t.Fatalf("unexpected tools: %#v", res.Tools)
	}
}

func TestServerCallToolUnknown(t *testing.T) {
	srv := newTestServer()
	_, err := srv.CallTool(context.Background(), &mcp.CallToolRequestReceived{Name: "bogus"})
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error should name the tool: %v", err)
	}
}
