package snowboard

import (
	"encoding/json"
	"net"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	HeaderConnection         = "Connection"
	HeaderContentLength      = "Content-Length"
	HeaderContentType        = "Content-Type"
	HeaderDate               = "Date"
	HeaderHost               = "Host"
	HeaderLocation           = "Location"
	HeaderServer             = "Server"
	HeaderUpgrade            = "Upgrade"
	HeaderSecWebSocketKey    = "Sec-WebSocket-Key"
	HeaderSecWebSocketAccept = "Sec-WebSocket-Accept"
)

// most browsers send 10-12 headers
const expectedHeaders = 12

// Request is one parsed request. The parser never mutates it after
// returning; handlers may.
type Request struct {
	RemoteAddr net.Addr
	// RawURL is the request target exactly as received. See ParseURL.
	RawURL  string
	Method  Method
	Body    []byte
	Headers map[string]string

	// Logger is scoped to the connection the request arrived on.
	Logger zerolog.Logger

	url *URL
}

// ParseRequest parses the bytes of a single read. The body is whatever
// follows the blank line in b; Content-Length is not consulted.
func ParseRequest(b []byte, addr net.Addr) (*Request, error) {
	line, rest := cutLine(b)

	var tokens [3][]byte
	n := 0
	for _, tok := range splitASCIISpace(line) {
		if n == len(tokens) {
			return nil, errors.Wrap(ErrMalformedRequest, "too many request line tokens")
		}
		tokens[n] = tok
		n++
	}
	if n != len(tokens) {
		return nil, errors.Wrap(ErrMalformedRequest, "missing request line tokens")
	}
	if !utf8.Valid(tokens[1]) {
		return nil, errors.Wrap(ErrMalformedRequest, "request target is not utf-8")
	}

	r := &Request{
		RemoteAddr: addr,
		RawURL:     string(tokens[1]),
		Method:     ParseMethod(string(tokens[0])),
		Headers:    make(map[string]string, expectedHeaders),
		Logger:     zerolog.Nop(),
	}

	terminated := false
	for len(rest) > 0 {
		line, rest = cutLine(rest)
		if len(line) == 0 {
			terminated = true
			break
		}
		key, value, err := parseHeaderLine(line)
		if err != nil {
			return nil, err
		}
		r.Headers[key] = value
	}
	if terminated && len(rest) > 0 {
		r.Body = append([]byte(nil), rest...)
	}
	return r, nil
}

func parseHeaderLine(line []byte) (string, string, error) {
	for i, c := range line {
		if c == ':' {
			return lossyString(trimASCIISpace(line[:i])), lossyString(trimASCIISpace(line[i+1:])), nil
		}
	}
	return "", "", errors.Wrapf(ErrMalformedRequest, "header line without separator: %q", line)
}

func splitASCIISpace(b []byte) [][]byte {
	var out [][]byte
	start := -1
	for i, c := range b {
		if isASCIISpace(c) {
			if start >= 0 {
				out = append(out, b[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, b[start:])
	}
	return out
}

func (r *Request) Header(key string) (string, bool) {
	v, ok := r.Headers[key]
	return v, ok
}

func (r *Request) HeaderOr(key, def string) string {
	if v, ok := r.Headers[key]; ok {
		return v
	}
	return def
}

func (r *Request) HasHeader(key string) bool {
	_, ok := r.Headers[key]
	return ok
}

func (r *Request) SetHeader(key, value string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string, expectedHeaders)
	}
	r.Headers[key] = value
}

// Len is the length of the body.
func (r *Request) Len() int {
	return len(r.Body)
}

func (r *Request) IsEmpty() bool {
	return len(r.Body) == 0
}

// Text decodes the body for display. Invalid bytes become U+FFFD; Body
// itself is left untouched.
func (r *Request) Text() string {
	return lossyString(r.Body)
}

func (r *Request) JSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// ForceJSON decodes the body into v. It returns nil on success and a
// 400 response describing the decode error otherwise, so handlers can
// return it directly.
func (r *Request) ForceJSON(v interface{}) *Response {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return BadRequest([]byte(err.Error()), WithHeaders(Headers{
			HeaderContentType: "text/plain; charset=utf-8",
		}))
	}
	return nil
}

// ContentLength reports the declared Content-Length. It is informational:
// the body is never read or truncated according to it.
func (r *Request) ContentLength() (int, error) {
	v, ok := r.Headers[HeaderContentLength]
	if !ok {
		return 0, errors.Errorf("no %s header", HeaderContentLength)
	}
	return parseContentLength([]byte(v))
}

// ParseURL parses RawURL on first use and caches the result.
func (r *Request) ParseURL() *URL {
	if r.url == nil {
		r.url = ParseURL(r.RawURL)
	}
	return r.url
}

// PrettyAddr formats RemoteAddr, with loopback shown as localhost.
func (r *Request) PrettyAddr() string {
	return formatAddr(r.RemoteAddr)
}
