package jsonrpc

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRequestDecodeIsPermissive(t *testing.T) {
	cases := []struct {
		name         string
		in           string
		method       string
		notification bool
	}{
		{name: "well formed request", in: `{"jsonrpc":"2.0","id":1,"method":"initialize"}`, method: "initialize"},
		{name: "missing method", in: `{"jsonrpc":"2.0","id":1}`, method: ""},
		{name: "missing jsonrpc version", in: `{"id":1,"method":"tools/list"}`, method: "tools/list"},
		{name: "wrong jsonrpc version", in: `{"jsonrpc":"1.0","id":1,"method":"tools/list"}`, method: "tools/list"},
		{name: "no id", in: `{"jsonrpc":"2.0","method":"notifications/initialized"}`, method: "notifications/initialized", notification: true},
		{name: "null id", in: `{"jsonrpc":"2.0","id":null,"method":"tools/list"}`, method: "tools/list", notification: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req Request
			if err := json.Unmarshal([]byte(tc.in), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if req.Method != tc.method {
				t.Errorf("method: got %q, want %q", req.Method, tc.method)
			}
			if req.IsNotification() != tc.notification {
				t.Errorf("IsNotification: got %v, want %v", req.IsNotification(), tc.notification)
			}
		})
	}
}

func TestResultResponseShape(t *testing.T) {
	resp, err := NewResultResponse(NewRequestID(1), map[string]string{"ok": "yes"})
	if err != nil {
		t.Fatalf("NewResultResponse: %v", err)
	}
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		JSONRPC string          `json:"jsonrpc"`
		Result  json.RawMessage `json:"result"`
		Error   json.RawMessage `json:"error"`
		ID      json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.JSONRPC != "2.0" {
		t.Errorf("jsonrpc: got %q", decoded.JSONRPC)
	}
	if string(decoded.ID) != "1" {
		t.Errorf("id: got %s, want 1", decoded.ID)
	}
	if string(decoded.Result) != `{"ok":"yes"}` {
		t.Errorf("result: got %s", decoded.Result)
	}
	if decoded.Error != nil {
		t.Errorf("error present in success response: %s", decoded.Error)
	}
}

func TestErrorResponseShape(t *testing.T) {
	resp := NewErrorResponse(nil, ErrorCodeParseError, "Parse error: bad input", nil)
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)

	if !strings.Contains(s, `"id":null`) {
		t.Errorf("missing null id: %s", s)
	}
	if !strings.Contains(s, `"code":-32700`) {
		t.Errorf("missing code: %s", s)
	}
	if strings.Contains(s, `"result"`) {
		t.Errorf("result present in error response: %s", s)
	}
}
