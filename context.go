package snowboard

import (
	"crypto/tls"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
)

type connState uint8

const (
	stateSniffing connState = iota
	stateTLSHandshaking
	stateRedirecting
	stateRequestRead
	stateRouting
	stateResponding
	stateKeepAlive
	stateUpgraded
	stateClosed
)

var connStateNames = [...]string{
	stateSniffing:       "sniffing",
	stateTLSHandshaking: "tls-handshaking",
	stateRedirecting:    "redirecting",
	stateRequestRead:    "request-read",
	stateRouting:        "routing",
	stateResponding:     "responding",
	stateKeepAlive:      "keep-alive",
	stateUpgraded:       "upgraded",
	stateClosed:         "closed",
}

func (s connState) String() string {
	return connStateNames[s]
}

func (s connState) terminal() bool {
	return s == stateClosed || s == stateUpgraded
}

// connContext is the state of one accepted connection. It is owned by a
// single goroutine from accept to close.
type connContext struct {
	s   *Server
	id  string
	raw net.Conn
	bc  *bufferedConn
	// stream is bc, or a *tls.Conn over bc once negotiated.
	stream net.Conn
	buf    *bytebufferpool.ByteBuffer

	bufferSize    int
	keepAlive     bool
	mustClose     bool
	tlsNegotiated bool
	served        uint64

	req  *Request
	resp *Response
	log  zerolog.Logger
}

var (
	contextPool    sync.Pool
	readBufferPool bytebufferpool.Pool
)

func acquireContext(s *Server, id string, conn net.Conn) *connContext {
	size := s.bufferSize()
	ctx, _ := contextPool.Get().(*connContext)
	if ctx == nil {
		ctx = &connContext{bc: newBufferedConn(conn, size+1)}
	} else {
		ctx.bc.reset(conn, size+1)
	}
	ctx.s = s
	ctx.id = id
	ctx.raw = conn
	ctx.stream = ctx.bc
	ctx.bufferSize = size
	ctx.keepAlive = false
	ctx.mustClose = false
	ctx.tlsNegotiated = false
	ctx.served = 0
	ctx.buf = readBufferPool.Get()
	ctx.log = s.Logger.With().
		Str("conn", ctx.id).
		Str("remote", conn.RemoteAddr().String()).
		Logger()
	return ctx
}

func releaseContext(ctx *connContext) {
	readBufferPool.Put(ctx.buf)
	ctx.buf = nil
	ctx.s = nil
	ctx.raw = nil
	ctx.stream = nil
	ctx.bc.reset(nil, 0)
	ctx.req = nil
	ctx.resp = nil
	contextPool.Put(ctx)
}

// serve drives the connection through its states until it is closed
// or handed to a WebSocket handler.
func (c *connContext) serve() {
	state := stateRequestRead
	if c.s.TLSConfig != nil {
		state = stateSniffing
	}
	for !state.terminal() {
		next := c.step(state)
		if next != state {
			c.log.Trace().Stringer("from", state).Stringer("to", next).Msg("state")
		}
		state = next
	}
	c.log.Debug().Stringer("state", state).Uint64("served", c.served).Msg("connection done")
}

func (c *connContext) step(state connState) connState {
	switch state {
	case stateSniffing:
		return c.sniff()
	case stateTLSHandshaking:
		return c.handshakeTLS()
	case stateRedirecting:
		return c.redirect()
	case stateRequestRead:
		return c.readRequest()
	case stateRouting:
		return c.route()
	case stateResponding:
		return c.respond()
	case stateKeepAlive:
		return c.decideKeepAlive()
	}
	return stateClosed
}

func (c *connContext) sniff() connState {
	isTLS, ok := c.bc.looksLikeTLS()
	switch {
	case !ok:
		c.log.Debug().Msg("peer closed before sending anything")
		return stateClosed
	case isTLS:
		return stateTLSHandshaking
	case c.s.RedirectPlaintext:
		return stateRedirecting
	}
	return stateRequestRead
}

func (c *connContext) handshakeTLS() connState {
	tc := tls.Server(c.bc, c.s.TLSConfig)
	if err := tc.Handshake(); err != nil {
		c.log.Debug().Err(errors.Wrap(ErrTLSNegotiation, err.Error())).Msg("tls handshake")
		return stateClosed
	}
	c.stream = tc
	c.tlsNegotiated = true
	return stateRequestRead
}

// redirect answers a plaintext request on a TLS server with a 301 to
// the same target over https.
func (c *connContext) redirect() connState {
	if next := c.readRequest(); next != stateRouting {
		return next
	}
	host := c.req.HeaderOr(HeaderHost, c.s.prettyAddr())
	c.finish(MovedPermanently(nil, WithHeaders(Headers{
		HeaderLocation:      "https://" + host + c.req.RawURL,
		HeaderConnection:    "close",
		HeaderContentLength: "0",
	})))
	return stateClosed
}

// readRequest performs exactly one read. The buffer holds one byte more
// than the limit so an oversized request is detectable.
func (c *connContext) readRequest() connState {
	if cap(c.buf.B) < c.bufferSize+1 {
		c.buf.B = make([]byte, c.bufferSize+1)
	}
	buf := c.buf.B[:c.bufferSize+1]

	n, err := c.stream.Read(buf)
	if n == 0 {
		switch {
		case err == nil:
			c.log.Warn().Err(ErrEmptyRead).Msg("rejecting request")
			c.finish(BadRequest(nil))
		case errors.Is(err, io.EOF):
			c.log.Debug().Msg("peer closed")
		default:
			c.log.Debug().Err(err).Msg("read")
		}
		return stateClosed
	}
	if n > c.bufferSize {
		c.log.Warn().Err(ErrPayloadTooLarge).Int("limit", c.bufferSize).Msg("rejecting request")
		c.finish(PayloadTooLarge(nil))
		return stateClosed
	}

	req, err := ParseRequest(buf[:n], c.raw.RemoteAddr())
	if err != nil {
		c.log.Warn().Err(err).Msg("rejecting request")
		c.finish(BadRequest(nil))
		return stateClosed
	}
	if cl, err := req.ContentLength(); err == nil && cl > c.bufferSize-(n-len(req.Body)) {
		c.log.Warn().Err(ErrPayloadTooLarge).Int("declared", cl).Int("limit", c.bufferSize).Msg("rejecting request")
		c.finish(PayloadTooLarge(nil))
		return stateClosed
	}
	req.Logger = c.log
	c.req = req
	return stateRouting
}

func (c *connContext) route() connState {
	if rt := c.s.WebSocketRoute; rt != nil && rt.Handler != nil &&
		strings.HasPrefix(c.req.RawURL, rt.Prefix) && IsUpgradeRequest(c.req) {
		ws, err := Upgrade(c.req, c.stream)
		if err != nil {
			c.log.Debug().Err(err).Msg("websocket upgrade")
			return stateClosed
		}
		c.log.Debug().Str("url", c.req.RawURL).Msg("websocket upgraded")
		rt.Handler(ws)
		return stateUpgraded
	}
	c.resp = c.invoke(c.req)
	return stateResponding
}

// invoke runs the user handler, turning a panic into a 500 that closes
// the connection.
func (c *connContext) invoke(req *Request) (resp *Response) {
	defer func() {
		if v := recover(); v != nil {
			c.log.Error().Interface("panic", v).Str("url", req.RawURL).Msg("handler panicked")
			c.mustClose = true
			resp = InternalServerError(nil)
		}
	}()
	h := c.s.Handler
	if h == nil {
		return NotFound(nil)
	}
	return ToResponse(h(req))
}

func (c *connContext) respond() connState {
	resp := c.resp.maybeAddDefaults(c.s.InsertDefaultHeaders)
	if _, err := resp.WriteTo(c.stream); err != nil {
		c.log.Debug().Err(err).Msg("write response")
		return stateClosed
	}
	c.served++
	c.s.served.Inc()
	return stateKeepAlive
}

func (c *connContext) decideKeepAlive() connState {
	v, ok := c.req.Header(HeaderConnection)
	c.keepAlive = ok && !strings.EqualFold(v, "close") && !c.mustClose
	if limit := c.s.MaxServeTimesPerConn; limit > 0 && c.served >= limit {
		c.keepAlive = false
	}
	c.req = nil
	c.resp = nil
	if !c.keepAlive {
		return stateClosed
	}
	return stateRequestRead
}

// finish writes a last response on a connection that is about to close.
// Errors are ignored: the peer may already be gone.
func (c *connContext) finish(resp *Response) {
	if _, err := resp.maybeAddDefaults(c.s.InsertDefaultHeaders).WriteTo(c.stream); err != nil {
		c.log.Debug().Err(err).Msg("write final response")
		return
	}
	if c.tlsNegotiated {
		closeWrite(c.stream)
	} else {
		closeWrite(c.raw)
	}
}
