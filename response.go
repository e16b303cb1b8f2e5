package snowboard

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultServer  = "snowboard"
	httpDateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// Headers is a response header map. Keys are written as given.
type Headers map[string]string

// Response is a status line, optional headers and a raw body. The zero
// value is an empty "HTTP/1.1 200 Ok".
type Response struct {
	Version    HTTPVersion
	StatusCode uint16
	// StatusText defaults to the table's reason phrase when empty.
	StatusText string
	Body       []byte
	Headers    Headers
}

type ResponseOption func(*Response)

// WithHeaders merges h into the response headers.
func WithHeaders(h Headers) ResponseOption {
	return func(r *Response) {
		for k, v := range h {
			r.SetHeader(k, v)
		}
	}
}

func WithVersion(v HTTPVersion) ResponseOption {
	return func(r *Response) {
		r.Version = v
	}
}

// NewResponse builds an HTTP/1.1 response with an explicit reason phrase.
func NewResponse(code uint16, text string, body []byte, headers Headers) *Response {
	return &Response{
		StatusCode: code,
		StatusText: text,
		Body:       body,
		Headers:    headers,
	}
}

func newResponse(code uint16, text string, body []byte, opts []ResponseOption) *Response {
	r := &Response{
		StatusCode: code,
		StatusText: text,
		Body:       body,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Response) SetHeader(key, value string) *Response {
	if r.Headers == nil {
		r.Headers = make(Headers)
	}
	r.Headers[key] = value
	return r
}

// WithHeader is SetHeader for chaining off a constructor.
func (r *Response) WithHeader(key, value string) *Response {
	return r.SetHeader(key, value)
}

// WithContentType does not check that value is a valid media type.
func (r *Response) WithContentType(value string) *Response {
	return r.SetHeader(HeaderContentType, value)
}

func (r *Response) SetContentLength(n int) *Response {
	return r.SetHeader(HeaderContentLength, strconv.Itoa(n))
}

func (r *Response) Len() int {
	return len(r.Body)
}

func (r *Response) IsEmpty() bool {
	return len(r.Body) == 0
}

// WithDefaultHeaders sets Content-Length, Date and Server, overwriting
// any values the handler chose for them.
func (r *Response) WithDefaultHeaders() *Response {
	return r.SetContentLength(r.Len()).
		SetHeader(HeaderDate, time.Now().UTC().Format(httpDateFormat)).
		SetHeader(HeaderServer, defaultServer)
}

func (r *Response) maybeAddDefaults(insert bool) *Response {
	if insert {
		return r.WithDefaultHeaders()
	}
	return r
}

func (r *Response) statusLine(dst []byte) []byte {
	code := r.StatusCode
	if code == 0 {
		code = StatusOK
	}
	text := r.StatusText
	if text == "" {
		text = StatusText(code)
	}
	dst = append(dst, r.Version.String()...)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(code), 10)
	dst = append(dst, ' ')
	dst = append(dst, text...)
	return append(dst, byteCRLF...)
}

// AppendBytes appends the wire form of the response to dst.
func (r *Response) AppendBytes(dst []byte) []byte {
	dst = r.statusLine(dst)
	if len(r.Headers) > 0 {
		keys := make([]string, 0, len(r.Headers))
		for k := range r.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			dst = appendLine(dst, k, r.Headers[k])
		}
	}
	dst = append(dst, byteCRLF...)
	return append(dst, r.Body...)
}

func (r *Response) Bytes() []byte {
	return r.AppendBytes(make([]byte, 0, 64+len(r.Body)))
}

func (r *Response) String() string {
	return string(r.Bytes())
}

var responseBufferPool bytebufferpool.Pool

// WriteTo serializes the response into a pooled buffer and writes it
// with a single Write.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	buf := responseBufferPool.Get()
	defer responseBufferPool.Put(buf)

	buf.B = r.AppendBytes(buf.B[:0])
	n, err := w.Write(buf.B)
	if err != nil {
		return int64(n), errors.WithStack(err)
	}
	return int64(n), nil
}
