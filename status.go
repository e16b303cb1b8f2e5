package snowboard

// Status codes known to the status table.
const (
	StatusContinue                      uint16 = 100
	StatusSwitchingProtocols            uint16 = 101
	StatusProcessing                    uint16 = 102
	StatusEarlyHints                    uint16 = 103
	StatusOK                            uint16 = 200
	StatusCreated                       uint16 = 201
	StatusAccepted                      uint16 = 202
	StatusNonAuthoritativeInformation   uint16 = 203
	StatusNoContent                     uint16 = 204
	StatusResetContent                  uint16 = 205
	StatusPartialContent                uint16 = 206
	StatusMultiStatus                   uint16 = 207
	StatusAlreadyReported               uint16 = 208
	StatusIMUsed                        uint16 = 226
	StatusMultipleChoices               uint16 = 300
	StatusMovedPermanently              uint16 = 301
	StatusFound                         uint16 = 302
	StatusSeeOther                      uint16 = 303
	StatusNotModified                   uint16 = 304
	StatusUseProxy                      uint16 = 305
	StatusTemporaryRedirect             uint16 = 307
	StatusPermanentRedirect             uint16 = 308
	StatusBadRequest                    uint16 = 400
	StatusUnauthorized                  uint16 = 401
	StatusPaymentRequired               uint16 = 402
	StatusForbidden                     uint16 = 403
	StatusNotFound                      uint16 = 404
	StatusMethodNotAllowed              uint16 = 405
	StatusNotAcceptable                 uint16 = 406
	StatusProxyAuthenticationRequired   uint16 = 407
	StatusRequestTimeout                uint16 = 408
	StatusConflict                      uint16 = 409
	StatusGone                          uint16 = 410
	StatusLengthRequired                uint16 = 411
	StatusPreconditionFailed            uint16 = 412
	StatusPayloadTooLarge               uint16 = 413
	StatusURITooLong                    uint16 = 414
	StatusUnsupportedMediaType          uint16 = 415
	StatusRangeNotSatisfiable           uint16 = 416
	StatusExpectationFailed             uint16 = 417
	StatusTeapot                        uint16 = 418
	StatusMisdirectedRequest            uint16 = 421
	StatusUnprocessableEntity           uint16 = 422
	StatusLocked                        uint16 = 423
	StatusFailedDependency              uint16 = 424
	StatusTooEarly                      uint16 = 425
	StatusUpgradeRequired               uint16 = 426
	StatusPreconditionRequired          uint16 = 428
	StatusTooManyRequests               uint16 = 429
	StatusRequestHeaderFieldsTooLarge   uint16 = 431
	StatusUnavailableForLegalReasons    uint16 = 451
	StatusInternalServerError           uint16 = 500
	StatusNotImplemented                uint16 = 501
	StatusBadGateway                    uint16 = 502
	StatusServiceUnavailable            uint16 = 503
	StatusGatewayTimeout                uint16 = 504
	StatusHTTPVersionNotSupported       uint16 = 505
	StatusVariantAlsoNegotiates         uint16 = 506
	StatusInsufficientStorage           uint16 = 507
	StatusLoopDetected                  uint16 = 508
	StatusNotExtended                   uint16 = 510
	StatusNetworkAuthenticationRequired uint16 = 511
)

type statusEntry struct {
	name string
	code uint16
	text string
}

var statusTable = [...]statusEntry{
	{"continue", StatusContinue, "Continue"},
	{"switching_protocols", StatusSwitchingProtocols, "Switching Protocols"},
	{"processing", StatusProcessing, "Processing"},
	{"early_hints", StatusEarlyHints, "Early Hints"},
	{"ok", StatusOK, "Ok"},
	{"created", StatusCreated, "Created"},
	{"accepted", StatusAccepted, "Accepted"},
	{"non_authoritative_information", StatusNonAuthoritativeInformation, "Non-Authoritative Information"},
	{"no_content", StatusNoContent, "No Content"},
	{"reset_content", StatusResetContent, "Reset Content"},
	{"partial_content", StatusPartialContent, "Partial Content"},
	{"multi_status", StatusMultiStatus, "Multi-Status"},
	{"already_reported", StatusAlreadyReported, "Already Reported"},
	{"im_used", StatusIMUsed, "IM Used"},
	{"multiple_choices", StatusMultipleChoices, "Multiple Choices"},
	{"moved_permanently", StatusMovedPermanently, "Moved Permanently"},
	{"found", StatusFound, "Found"},
	{"see_other", StatusSeeOther, "See Other"},
	{"not_modified", StatusNotModified, "Not Modified"},
	{"use_proxy", StatusUseProxy, "Use Proxy"},
	{"temporary_redirect", StatusTemporaryRedirect, "Temporary Redirect"},
	{"permanent_redirect", StatusPermanentRedirect, "Permanent Redirect"},
	{"bad_request", StatusBadRequest, "Bad Request"},
	{"unauthorized", StatusUnauthorized, "Unauthorized"},
	{"payment_required", StatusPaymentRequired, "Payment Required"},
	{"forbidden", StatusForbidden, "Forbidden"},
	{"not_found", StatusNotFound, "Not Found"},
	{"method_not_allowed", StatusMethodNotAllowed, "Method Not Allowed"},
	{"not_acceptable", StatusNotAcceptable, "Not Acceptable"},
	{"proxy_authentication_required", StatusProxyAuthenticationRequired, "Proxy Authentication Required"},
	{"request_timeout", StatusRequestTimeout, "Request Timeout"},
	{"conflict", StatusConflict, "Conflict"},
	{"gone", StatusGone, "Gone"},
	{"length_required", StatusLengthRequired, "Length Required"},
	{"precondition_failed", StatusPreconditionFailed, "Precondition Failed"},
	{"payload_too_large", StatusPayloadTooLarge, "Payload Too Large"},
	{"uri_too_long", StatusURITooLong, "URI Too Long"},
	{"unsupported_media_type", StatusUnsupportedMediaType, "Unsupported Media Type"},
	{"range_not_satisfiable", StatusRangeNotSatisfiable, "Range Not Satisfiable"},
	{"expectation_failed", StatusExpectationFailed, "Expectation Failed"},
	{"im_a_teapot", StatusTeapot, "I'm a teapot"},
	{"misdirected_request", StatusMisdirectedRequest, "Misdirected Request"},
	{"unprocessable_entity", StatusUnprocessableEntity, "Unprocessable Entity"},
	{"locked", StatusLocked, "Locked"},
	{"failed_dependency", StatusFailedDependency, "Failed Dependency"},
	{"too_early", StatusTooEarly, "Too Early"},
	{"upgrade_required", StatusUpgradeRequired, "Upgrade Required"},
	{"precondition_required", StatusPreconditionRequired, "Precondition Required"},
	{"too_many_requests", StatusTooManyRequests, "Too Many Requests"},
	{"request_header_fields_too_large", StatusRequestHeaderFieldsTooLarge, "Request Header Fields Too Large"},
	{"unavailable_for_legal_reasons", StatusUnavailableForLegalReasons, "Unavailable For Legal Reasons"},
	{"internal_server_error", StatusInternalServerError, "Internal Server Error"},
	{"not_implemented", StatusNotImplemented, "Not Implemented"},
	{"bad_gateway", StatusBadGateway, "Bad Gateway"},
	{"service_unavailable", StatusServiceUnavailable, "Service Unavailable"},
	{"gateway_timeout", StatusGatewayTimeout, "Gateway Timeout"},
	{"http_version_not_supported", StatusHTTPVersionNotSupported, "HTTP Version Not Supported"},
	{"variant_also_negotiates", StatusVariantAlsoNegotiates, "Variant Also Negotiates"},
	{"insufficient_storage", StatusInsufficientStorage, "Insufficient Storage"},
	{"loop_detected", StatusLoopDetected, "Loop Detected"},
	{"not_extended", StatusNotExtended, "Not Extended"},
	{"network_authentication_required", StatusNetworkAuthenticationRequired, "Network Authentication Required"},
}

var (
	statusByCode = make(map[uint16]*statusEntry, len(statusTable))
	statusByName = make(map[string]*statusEntry, len(statusTable))
)

func init() {
	for i := range statusTable {
		e := &statusTable[i]
		statusByCode[e.code] = e
		statusByName[e.name] = e
	}
}

// StatusText returns the reason phrase for code, or "" for codes that
// are not in the table.
func StatusText(code uint16) string {
	if e, ok := statusByCode[code]; ok {
		return e.text
	}
	return ""
}

// NewStatus builds a response for any code, taking the reason phrase
// from the table.
func NewStatus(code uint16, body []byte, opts ...ResponseOption) *Response {
	return newResponse(code, StatusText(code), body, opts)
}

// ByName looks a constructor up by its snake_case name, e.g. "not_found".
func ByName(name string, body []byte, opts ...ResponseOption) (*Response, bool) {
	e, ok := statusByName[name]
	if !ok {
		return nil, false
	}
	return newResponse(e.code, e.text, body, opts), true
}

// One constructor per table entry. opts default to HTTP/1.1 and no headers.

func Continue(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusContinue, body, opts...)
}

func SwitchingProtocols(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusSwitchingProtocols, body, opts...)
}

func Processing(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusProcessing, body, opts...)
}

func EarlyHints(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusEarlyHints, body, opts...)
}

func OK(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusOK, body, opts...)
}

func Created(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusCreated, body, opts...)
}

func Accepted(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusAccepted, body, opts...)
}

func NonAuthoritativeInformation(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusNonAuthoritativeInformation, body, opts...)
}

func NoContent(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusNoContent, body, opts...)
}

func ResetContent(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusResetContent, body, opts...)
}

func PartialContent(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusPartialContent, body, opts...)
}

func MultiStatus(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusMultiStatus, body, opts...)
}

func AlreadyReported(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusAlreadyReported, body, opts...)
}

func IMUsed(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusIMUsed, body, opts...)
}

func MultipleChoices(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusMultipleChoices, body, opts...)
}

func MovedPermanently(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusMovedPermanently, body, opts...)
}

func Found(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusFound, body, opts...)
}

func SeeOther(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusSeeOther, body, opts...)
}

func NotModified(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusNotModified, body, opts...)
}

func UseProxy(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusUseProxy, body, opts...)
}

func TemporaryRedirect(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusTemporaryRedirect, body, opts...)
}

func PermanentRedirect(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusPermanentRedirect, body, opts...)
}

func BadRequest(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusBadRequest, body, opts...)
}

func Unauthorized(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusUnauthorized, body, opts...)
}

func PaymentRequired(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusPaymentRequired, body, opts...)
}

func Forbidden(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusForbidden, body, opts...)
}

func NotFound(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusNotFound, body, opts...)
}

func MethodNotAllowed(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusMethodNotAllowed, body, opts...)
}

func NotAcceptable(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusNotAcceptable, body, opts...)
}

func ProxyAuthenticationRequired(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusProxyAuthenticationRequired, body, opts...)
}

func RequestTimeout(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusRequestTimeout, body, opts...)
}

func Conflict(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusConflict, body, opts...)
}

func Gone(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusGone, body, opts...)
}

func LengthRequired(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusLengthRequired, body, opts...)
}

func PreconditionFailed(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusPreconditionFailed, body, opts...)
}

func PayloadTooLarge(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusPayloadTooLarge, body, opts...)
}

func URITooLong(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusURITooLong, body, opts...)
}

func UnsupportedMediaType(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusUnsupportedMediaType, body, opts...)
}

func RangeNotSatisfiable(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusRangeNotSatisfiable, body, opts...)
}

func ExpectationFailed(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusExpectationFailed, body, opts...)
}

func Teapot(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusTeapot, body, opts...)
}

func MisdirectedRequest(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusMisdirectedRequest, body, opts...)
}

func UnprocessableEntity(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusUnprocessableEntity, body, opts...)
}

func Locked(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusLocked, body, opts...)
}

func FailedDependency(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusFailedDependency, body, opts...)
}

func TooEarly(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusTooEarly, body, opts...)
}

func UpgradeRequired(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusUpgradeRequired, body, opts...)
}

func PreconditionRequired(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusPreconditionRequired, body, opts...)
}

func TooManyRequests(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusTooManyRequests, body, opts...)
}

func RequestHeaderFieldsTooLarge(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusRequestHeaderFieldsTooLarge, body, opts...)
}

func UnavailableForLegalReasons(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusUnavailableForLegalReasons, body, opts...)
}

func InternalServerError(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusInternalServerError, body, opts...)
}

func NotImplemented(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusNotImplemented, body, opts...)
}

func BadGateway(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusBadGateway, body, opts...)
}

func ServiceUnavailable(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusServiceUnavailable, body, opts...)
}

func GatewayTimeout(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusGatewayTimeout, body, opts...)
}

func HTTPVersionNotSupported(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusHTTPVersionNotSupported, body, opts...)
}

func VariantAlsoNegotiates(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusVariantAlsoNegotiates, body, opts...)
}

func InsufficientStorage(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusInsufficientStorage, body, opts...)
}

func LoopDetected(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusLoopDetected, body, opts...)
}

func NotExtended(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusNotExtended, body, opts...)
}

func NetworkAuthenticationRequired(body []byte, opts ...ResponseOption) *Response {
	return NewStatus(StatusNetworkAuthenticationRequired, body, opts...)
}
