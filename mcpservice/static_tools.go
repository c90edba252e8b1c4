package mcpservice

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/trstroem/mcp-echo-server/mcp"
)

// ToolHandler is the function signature used to handle a tool invocation.
type ToolHandler func(ctx context.Context, req *mcp.CallToolRequestReceived) (*mcp.CallToolResult, error)

// StaticTool pairs an MCP tool descriptor with its handler.
type StaticTool struct {
	Descriptor mcp.Tool
	Handler    ToolHandler
}

// StaticTools owns a threadsafe set of tool descriptors and handlers keyed by
// name. Registration order is preserved in listings.
type StaticTools struct {
	mu       sync.RWMutex
	tools    []mcp.Tool
	handlers map[string]ToolHandler
}

// NewStaticTools constructs a container holding the provided tools.
func NewStaticTools(tools ...StaticTool) *StaticTools {
	c := &StaticTools{handlers: make(map[string]ToolHandler)}
	for _, t := range tools {
		c.Register(t)
	}
	return c
}

// Register adds or replaces a tool by name.
func (c *StaticTools) Register(t StaticTool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.handlers[t.Descriptor.Name]; !exists {
		c.tools = append(c.tools, t.Descriptor)
	} else {
		for i := range c.tools {
			if c.tools[i].Name == t.Descriptor.Name {
				c.tools[i] = t.Descriptor
				break
			}
		}
	}
	c.handlers[t.Descriptor.Name] = t.Handler
}

// Descriptors returns a copy of the registered tool descriptors.
func (c *StaticTools) Descriptors() []mcp.Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]mcp.Tool, len(c.tools))
	copy(out, c.tools)
	return out
}

// Handler returns the handler registered for name, if any.
func (c *StaticTools) Handler(name string) (ToolHandler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h, ok := c.handlers[name]
	return h, ok
}

// ToolOption configures TypedTool behavior.
type ToolOption func(*toolConfig)

type toolConfig struct {
	description string
}

// WithToolDescription sets the tool description used in listings.
func WithToolDescription(desc string) ToolOption {
	return func(c *toolConfig) { c.description = desc }
}

// TypedTool constructs a StaticTool from a typed args struct A. It:
//   - Reflects a JSON Schema from A using invopop/jsonschema
//   - Down-converts it to the simplified mcp.ToolInputSchema
//   - Wraps the handler with lenient runtime JSON decoding: undecodable or
//     absent arguments invoke fn with the zero value of A
func TypedTool[A any](name string, fn func(ctx context.Context, args A) (*mcp.CallToolResult, error), opts ...ToolOption) StaticTool {
	cfg := toolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	desc := mcp.Tool{
		Name:        name,
		Description: cfg.description,
		InputSchema: reflectToMCPInputSchema[A](),
	}

	handler := func(ctx context.Context, req *mcp.CallToolRequestReceived) (*mcp.CallToolResult, error) {
		var a A
		if len(req.Arguments) > 0 {
			// Lenient by contract: unknown fields and malformed argument
			// payloads fall back to zero values instead of failing the call.
			_ = json.Unmarshal(req.Arguments, &a)
		}
		return fn(ctx, a)
	}

	return StaticTool{Descriptor: desc, Handler: handler}
}

// TextResult builds a single-block text result.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.ContentBlock{{Type: "text", Text: text}},
	}
}

// reflectToMCPInputSchema reflects a Go type A into a jsonschema.Schema, and
// converts it to the simplified mcp.ToolInputSchema.
func reflectToMCPInputSchema[A any]() mcp.ToolInputSchema {
	r := &jsonschema.Reflector{
		DoNotReference: true, // inline defs
		ExpandedStruct: true, // put struct at root
	}
	// Reflect from a zero value pointer to capture struct tags consistently
	s := r.Reflect(new(A))

	// Only object schemas map cleanly to MCP ToolInputSchema. If not an
	// object, expose an empty object schema.
	if s == nil || s.Type != "object" {
		return mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]mcp.SchemaProperty{},
		}
	}

	props := make(map[string]mcp.SchemaProperty)
	if s.Properties != nil {
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			props[el.Key] = toMCPProperty(el.Value)
		}
	}
	var required []string
	if len(s.Required) > 0 {
		required = append(required, s.Required...)
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// toMCPProperty recursively maps a jsonschema.Schema to the simplified MCP SchemaProperty.
func toMCPProperty(s *jsonschema.Schema) mcp.SchemaProperty {
	if s == nil {
		return mcp.SchemaProperty{}
	}
	p := mcp.SchemaProperty{
		Type:        s.Type,
		Description: s.Description,
	}
	if len(s.Enum) > 0 {
		p.Enum = s.Enum
	}
	// Arrays
	if s.Type == "array" && s.Items != nil {
		item := toMCPProperty(s.Items)
		p.Items = &item
	}
	// Objects
	if s.Type == "object" && s.Properties != nil {
		m := make(map[string]mcp.SchemaProperty, s.Properties.Len())
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			m[el.Key] = toMCPProperty(el.Value)
		}
		p.Properties = m
	}
	return p
}
