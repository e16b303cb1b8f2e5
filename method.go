package snowboard

// Method is a request method. Tokens that are not one of the known
// methods parse to MethodUnknown instead of failing.
type Method uint8

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodDelete
	MethodHead
	MethodOptions
	MethodConnect
	MethodPatch
	MethodTrace
	MethodUnknown
)

var methodNames = [...]string{
	MethodGet:     "GET",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodDelete:  "DELETE",
	MethodHead:    "HEAD",
	MethodOptions: "OPTIONS",
	MethodConnect: "CONNECT",
	MethodPatch:   "PATCH",
	MethodTrace:   "TRACE",
	MethodUnknown: "UNKNOWN",
}

func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return methodNames[MethodUnknown]
}

// ParseMethod is case sensitive, as the request line is.
func ParseMethod(s string) Method {
	switch s {
	case "GET":
		return MethodGet
	case "POST":
		return MethodPost
	case "PUT":
		return MethodPut
	case "DELETE":
		return MethodDelete
	case "HEAD":
		return MethodHead
	case "OPTIONS":
		return MethodOptions
	case "CONNECT":
		return MethodConnect
	case "PATCH":
		return MethodPatch
	case "TRACE":
		return MethodTrace
	}
	return MethodUnknown
}

// HTTPVersion is the protocol version written on the status line.
// The zero value is HTTP/1.1.
type HTTPVersion uint8

const (
	HTTP11 HTTPVersion = iota
	HTTP10
	HTTP20
	HTTP30
	HTTPUnknown
)

// String renders the version for a status line. HTTPUnknown falls back
// to HTTP/1.1 so a response can always be written.
func (v HTTPVersion) String() string {
	switch v {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP20:
		return "HTTP/2.0"
	case HTTP30:
		return "HTTP/3.0"
	}
	return "HTTP/1.1"
}

func ParseVersion(s string) HTTPVersion {
	switch s {
	case "HTTP/1.0":
		return HTTP10
	case "HTTP/1.1":
		return HTTP11
	case "HTTP/2.0":
		return HTTP20
	case "HTTP/3.0":
		return HTTP30
	}
	return HTTPUnknown
}
