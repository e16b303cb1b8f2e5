package snowboard

import "encoding/json"

// Responder is anything a handler may return. The set is closed:
// *Response, Unit, Text, Bytes, JSON and Result.
type Responder interface {
	toResponse() *Response
}

// Unit answers with the default empty 200.
type Unit struct{}

// Text is a 200 with the string as body.
type Text string

// Bytes is a 200 with the bytes as body.
type Bytes []byte

// JSON is a 200 carrying Value encoded as JSON.
type JSON struct {
	Value interface{}
}

// Result picks Err when it is set and Value otherwise. A nil *Response
// in Err counts as unset, so ForceJSON can be used directly.
type Result struct {
	Value Responder
	Err   Responder
}

// ToResponse converts any Responder. A nil Responder, or a nil
// *Response, answers with the default 200.
func ToResponse(r Responder) *Response {
	if r == nil {
		return &Response{}
	}
	return r.toResponse()
}

func (r *Response) toResponse() *Response {
	if r == nil {
		return &Response{}
	}
	return r
}

func (Unit) toResponse() *Response {
	return &Response{}
}

func (t Text) toResponse() *Response {
	return OK([]byte(t))
}

func (b Bytes) toResponse() *Response {
	return OK([]byte(b))
}

func (j JSON) toResponse() *Response {
	body, err := json.Marshal(j.Value)
	if err != nil {
		return InternalServerError([]byte(err.Error()), WithHeaders(Headers{
			HeaderContentType: "text/plain; charset=utf-8",
		}))
	}
	return OK(body, WithHeaders(Headers{
		HeaderContentType: "application/json; charset=utf-8",
	}))
}

func (r Result) toResponse() *Response {
	if !isNilResponder(r.Err) {
		return ToResponse(r.Err)
	}
	return ToResponse(r.Value)
}

func isNilResponder(r Responder) bool {
	if r == nil {
		return true
	}
	p, ok := r.(*Response)
	return ok && p == nil
}
