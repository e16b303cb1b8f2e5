package snowboard

import "testing"

func TestStatusTable(t *testing.T) {
	if len(statusTable) < 60 {
		t.Fatalf("status table has %d entries", len(statusTable))
	}
	seen := make(map[uint16]bool)
	for _, e := range statusTable {
		if seen[e.code] {
			t.Errorf("duplicate code %d", e.code)
		}
		seen[e.code] = true
		if e.code < 100 || e.code > 599 {
			t.Errorf("%s: code %d out of range", e.name, e.code)
		}
		if StatusText(e.code) != e.text {
			t.Errorf("StatusText(%d) = %q, want %q", e.code, StatusText(e.code), e.text)
		}
	}
}

func TestNamedConstructors(t *testing.T) {
	tests := []struct {
		resp *Response
		code uint16
		text string
	}{
		{Continue(nil), 100, "Continue"},
		{SwitchingProtocols(nil), 101, "Switching Protocols"},
		{OK(nil), 200, "Ok"},
		{NoContent(nil), 204, "No Content"},
		{MovedPermanently(nil), 301, "Moved Permanently"},
		{BadRequest(nil), 400, "Bad Request"},
		{NotFound(nil), 404, "Not Found"},
		{PayloadTooLarge(nil), 413, "Payload Too Large"},
		{Teapot(nil), 418, "I'm a teapot"},
		{UpgradeRequired(nil), 426, "Upgrade Required"},
		{InternalServerError(nil), 500, "Internal Server Error"},
		{NotImplemented(nil), 501, "Not Implemented"},
		{NetworkAuthenticationRequired(nil), 511, "Network Authentication Required"},
	}
	for _, tt := range tests {
		if tt.resp.StatusCode != tt.code || tt.resp.StatusText != tt.text {
			t.Errorf("got %d %q, want %d %q", tt.resp.StatusCode, tt.resp.StatusText, tt.code, tt.text)
		}
		if tt.resp.Version != HTTP11 {
			t.Errorf("%d: Version = %v", tt.code, tt.resp.Version)
		}
	}
}

func TestByName(t *testing.T) {
	resp, ok := ByName("payload_too_large", []byte("big"))
	if !ok {
		t.Fatal("ByName(payload_too_large) not found")
	}
	if got := resp.String(); got != "HTTP/1.1 413 Payload Too Large\r\n\r\nbig" {
		t.Errorf("String() = %q", got)
	}
	if _, ok := ByName("continue", nil); !ok {
		t.Error("ByName(continue) not found")
	}
	if _, ok := ByName("no_such_status", nil); ok {
		t.Error("ByName(no_such_status) ok = true")
	}
}

func TestNewStatus(t *testing.T) {
	if got := NewStatus(StatusGone, nil).String(); got != "HTTP/1.1 410 Gone\r\n\r\n" {
		t.Errorf("410 = %q", got)
	}
	if got := NewStatus(299, nil); got.StatusText != "" {
		t.Errorf("unknown code text = %q", got.StatusText)
	}
}
