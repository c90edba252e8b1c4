package jsonrpc

import (
	"encoding/json"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "integer", in: `1`, out: `1`},
		{name: "large integer", in: `123456789`, out: `123456789`},
		{name: "float", in: `1.5`, out: `1.5`},
		{name: "string", in: `"abc-123"`, out: `"abc-123"`},
		{name: "numeric string stays string", in: `"42"`, out: `"42"`},
		{name: "boolean true", in: `true`, out: `true`},
		{name: "boolean false", in: `false`, out: `false`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var id RequestID
			if err := json.Unmarshal([]byte(tc.in), &id); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			got, err := json.Marshal(&id)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tc.out {
				t.Fatalf("round-trip of %s: got %s, want %s", tc.in, got, tc.out)
			}
		})
	}
}

func TestRequestIDRejectsNonScalar(t *testing.T) {
	for _, in := range []string{`{}`, `[1]`} {
		var id RequestID
		if err := json.Unmarshal([]byte(in), &id); err == nil {
			t.Errorf("unmarshal %s: expected error", in)
		}
	}
}

func TestRequestIDIsNil(t *testing.T) {
	var nilID *RequestID
	if !nilID.IsNil() {
		t.Error("nil pointer should be nil")
	}
	if NewRequestID(nil).IsNil() != true {
		t.Error("unset value should be nil")
	}
	if NewRequestID(7).IsNil() {
		t.Error("numeric id should not be nil")
	}
	if NewRequestID("x").String() != "x" {
		t.Errorf("unexpected String: %q", NewRequestID("x").String())
	}
}

func TestRequestIDMarshalsNullWhenEmpty(t *testing.T) {
	b, err := json.Marshal(NewRequestID(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "null" {
		t.Fatalf("got %s, want null", b)
	}
}
