package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/trstroem/mcp-echo-server/internal/jsonrpc"
	"github.com/trstroem/mcp-echo-server/internal/logctx"
	"github.com/trstroem/mcp-echo-server/mcp"
	"github.com/trstroem/mcp-echo-server/mcpservice"
)

// maxLineBytes bounds a single JSON-RPC message on the wire. An over-long
// line is answered with a parse error and skipped; it never ends the loop.
const maxLineBytes = 4 * 1024 * 1024

// Handler is a single-connection stdio transport that reads JSON-RPC messages
// from an io.Reader and writes responses to an io.Writer. By default, it uses
// os.Stdin and os.Stdout.
//
// The handler owns framing and the JSON-RPC envelope; it delegates MCP
// semantics to the provided mcpservice.Server. Messages on one stream are
// processed strictly sequentially: a line is fully handled and its response
// flushed before the next line is read.
type Handler struct {
	srv    *mcpservice.Server
	r      io.Reader
	w      io.Writer
	log    *slog.Logger
	connID string
}

// NewHandler constructs a stdio Handler with defaults and applies options.
func NewHandler(srv *mcpservice.Server, opts ...Option) *Handler {
	h := &Handler{
		srv:    srv,
		r:      os.Stdin,
		w:      os.Stdout,
		log:    slog.New(slog.DiscardHandler),
		connID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = slog.New(logctx.Handler{Handler: h.log.Handler()})
	return h
}

// Serve runs the stdio event loop until EOF on the reader or the context is
// canceled (checked between messages). It is safe to call at most once per
// Handler. Serve is responsible for:
//   - JSON-RPC message framing (newline-delimited, empty lines skipped)
//   - parse-error responses for undecodable lines
//   - routing requests to Handle and writing its responses
//
// Protocol-level failures are answered on the wire and never end the loop; the
// returned error reflects transport state only.
func (h *Handler) Serve(ctx context.Context) error {
	ctx = logctx.WithConnData(ctx, &logctx.ConnData{ConnID: h.connID})

	h.log.InfoContext(ctx, "stdio connection started")

	reader := bufio.NewReaderSize(h.r, 64*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, tooLong, err := readLine(reader)
		atEOF := errors.Is(err, io.EOF)
		if err != nil && !atEOF {
			return fmt.Errorf("read message stream: %w", err)
		}

		if tooLong {
			h.log.WarnContext(ctx, "oversized message skipped", slog.Int("limit_bytes", maxLineBytes))
			resp := jsonrpc.NewErrorResponse(nil, jsonrpc.ErrorCodeParseError, fmt.Sprintf("Parse error: message exceeds %d bytes", maxLineBytes), nil)
			if werr := h.writeResponse(resp); werr != nil {
				return werr
			}
			if atEOF {
				break
			}
			continue
		}

		line := strings.TrimSpace(string(raw))
		if line == "" {
			if atEOF {
				break
			}
			continue
		}

		var req jsonrpc.Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			h.log.WarnContext(ctx, "undecodable message", slog.String("err", err.Error()))
			resp := jsonrpc.NewErrorResponse(nil, jsonrpc.ErrorCodeParseError, fmt.Sprintf("Parse error: %v", err), nil)
			if werr := h.writeResponse(resp); werr != nil {
				return werr
			}
			if atEOF {
				break
			}
			continue
		}

		msgCtx := logctx.WithRPCMessage(ctx, &logctx.RPCMessage{
			Method: req.Method,
			ID:     req.ID.String(),
			Type:   messageType(&req),
		})

		if resp := h.Handle(msgCtx, &req); resp != nil {
			if err := h.writeResponse(resp); err != nil {
				return err
			}
		}
		if atEOF {
			break
		}
	}

	h.log.InfoContext(ctx, "stdio connection closed")
	return nil
}

// readLine reads one newline-terminated line, tolerating a missing final
// newline at EOF. A line longer than maxLineBytes is reported oversized with
// its remainder discarded, leaving the reader positioned at the next line so
// the stream stays in sync.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	var buf []byte
	for {
		frag, err := r.ReadSlice('\n')
		if len(buf)+len(frag) > maxLineBytes {
			return nil, true, discardLine(r, err)
		}
		buf = append(buf, frag...)
		if err == nil {
			return buf, false, nil
		}
		if err != bufio.ErrBufferFull {
			return buf, false, err
		}
	}
}

// discardLine consumes input up to and including the next newline. lastErr is
// the error from the read that overflowed, so an already-complete or
// already-EOF line is not read past.
func discardLine(r *bufio.Reader, lastErr error) error {
	for {
		if lastErr == nil || lastErr == io.EOF {
			return lastErr
		}
		if lastErr != bufio.ErrBufferFull {
			return lastErr
		}
		_, lastErr = r.ReadSlice('\n')
	}
}

// Handle maps one decoded JSON-RPC message to its response, or to nil when the
// message is a notification. It performs no I/O and is total over decodable
// input: unknown methods and unknown tools come back as method-not-found error
// responses, never as a Go error.
func (h *Handler) Handle(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	// The initialized notification is one-way by protocol convention even if a
	// client mistakenly attaches an id.
	if req.Method == string(mcp.InitializedNotificationMethod) {
		return nil
	}
	if req.IsNotification() {
		return nil
	}

	switch mcp.Method(req.Method) {
	case mcp.InitializeMethod:
		// Announcement only; params are ignored.
		return h.resultResponse(ctx, req.ID, h.srv.Initialize())

	case mcp.ToolsListMethod:
		return h.resultResponse(ctx, req.ID, h.srv.ListTools())

	case mcp.ToolsCallMethod:
		var params mcp.CallToolRequestReceived
		if len(req.Params) > 0 {
			// Lenient: a malformed params payload dispatches as an unnamed
			// tool call rather than failing validation.
			_ = json.Unmarshal(req.Params, &params)
		}

		result, err := h.srv.CallTool(ctx, &params)
		if err != nil {
			if errors.Is(err, mcpservice.ErrUnknownTool) {
				return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeMethodNotFound, fmt.Sprintf("Unknown tool: %s", params.Name), nil)
			}
			h.log.ErrorContext(ctx, "tool call failed", slog.String("tool", params.Name), slog.String("err", err.Error()))
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, err.Error(), nil)
		}
		return h.resultResponse(ctx, req.ID, result)

	default:
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), nil)
	}
}

func (h *Handler) resultResponse(ctx context.Context, id *jsonrpc.RequestID, result any) *jsonrpc.Response {
	resp, err := jsonrpc.NewResultResponse(id, result)
	if err != nil {
		h.log.ErrorContext(ctx, "marshal result", slog.String("err", err.Error()))
		return jsonrpc.NewErrorResponse(id, jsonrpc.ErrorCodeInternalError, err.Error(), nil)
	}
	return resp
}

// writeResponse serializes a response as a single line and flushes it before
// the next message is read. Responses never contain embedded newlines because
// encoding/json escapes control characters inside strings.
func (h *Handler) writeResponse(resp *jsonrpc.Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	if _, err := h.w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	if f, ok := h.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush response: %w", err)
		}
	}
	return nil
}

func messageType(req *jsonrpc.Request) string {
	if req.IsNotification() {
		return "notification"
	}
	return "request"
}
