package snowboard

import (
	"crypto/tls"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

// DefaultBufferSize is the read buffer used when Server.BufferSize is
// not set. Requests larger than the buffer are answered with 413.
const DefaultBufferSize = 8 << 10

// HandlerFunc answers one request. It runs on the connection's own
// goroutine and may block.
type HandlerFunc func(req *Request) Responder

// Server accepts connections and serves each one on its own goroutine.
// Its fields must not be changed once Serve has been called. There are
// no read or idle timeouts; a silent peer holds its goroutine until it
// disconnects or Close is called.
type Server struct {
	Addr    string
	Handler HandlerFunc

	// BufferSize bounds a single request, headers and body together.
	BufferSize int
	// InsertDefaultHeaders adds Content-Length, Date and Server to every
	// response, replacing handler values for those keys.
	InsertDefaultHeaders bool

	// TLSConfig enables TLS. Connections are sniffed and only those
	// starting with a TLS record are handshaked.
	TLSConfig *tls.Config
	// RedirectPlaintext answers plaintext requests on a TLS server with
	// a 301 to https instead of serving them.
	RedirectPlaintext bool

	WebSocketRoute *WebSocketRoute

	// MaxServeTimesPerConn closes a keep-alive connection after this many
	// responses. Zero means no limit.
	MaxServeTimesPerConn uint64

	Logger zerolog.Logger

	mu       sync.Mutex
	listener net.Listener
	closed   atomic.Bool
	initOnce sync.Once
	conns    *xsync.MapOf[string, net.Conn]
	active   *xsync.Counter
	served   *xsync.Counter
}

func NewServer(addr string, handler HandlerFunc) *Server {
	return &Server{
		Addr:       addr,
		Handler:    handler,
		BufferSize: DefaultBufferSize,
		Logger:     zerolog.Nop(),
	}
}

// OnWebSocket routes upgrade requests under prefix to h.
func (s *Server) OnWebSocket(prefix string, h WebSocketHandler) *Server {
	s.WebSocketRoute = &WebSocketRoute{Prefix: prefix, Handler: h}
	return s
}

func (s *Server) init() {
	s.initOnce.Do(func() {
		s.conns = xsync.NewMapOf[string, net.Conn]()
		s.active = xsync.NewCounter()
		s.served = xsync.NewCounter()
	})
}

func (s *Server) bufferSize() int {
	if s.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return s.BufferSize
}

// ListenAndServe binds Addr and serves it. A bind failure is returned
// immediately; per-connection failures never stop the server.
func (s *Server) ListenAndServe() error {
	addr := s.Addr
	if addr == "" {
		addr = ":8080"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", addr)
	}
	return s.Serve(ln)
}

// Serve accepts connections on l until Close is called, then returns
// ErrServerClosed. l is closed on return.
func (s *Server) Serve(l net.Listener) error {
	s.init()
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		l.Close()
		return ErrServerClosed
	}
	s.listener = l
	s.mu.Unlock()
	defer l.Close()

	s.Logger.Info().Str("addr", l.Addr().String()).Msg("serving")

	var delay time.Duration
	for {
		conn, err := l.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			if classifyAcceptError(err) == acceptStop {
				return errors.WithStack(err)
			}
			delay = nextAcceptDelay(delay)
			s.Logger.Error().Err(err).Dur("retry_in", delay).Msg("accept")
			time.Sleep(delay)
			continue
		}
		delay = 0

		// Close either finds conn in the registry or we see closed here.
		id := uuid.NewString()
		s.conns.Store(id, conn)
		if s.closed.Load() {
			s.conns.Delete(id)
			conn.Close()
			return ErrServerClosed
		}
		s.active.Inc()
		go s.serveConn(id, conn)
	}
}

func (s *Server) serveConn(id string, conn net.Conn) {
	ctx := acquireContext(s, id, conn)
	defer func() {
		s.active.Dec()
		s.conns.Delete(id)
		conn.Close()
		releaseContext(ctx)
	}()

	ctx.log.Debug().Msg("accepted")
	ctx.serve()
}

// Close stops the accept loop and closes every open connection,
// including upgraded WebSockets.
func (s *Server) Close() error {
	s.init()
	s.mu.Lock()
	s.closed.Store(true)
	ln := s.listener
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	s.conns.Range(func(_ string, c net.Conn) bool {
		c.Close()
		return true
	})
	s.Logger.Info().Msg("closed")
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return errors.WithStack(err)
	}
	return nil
}

// ListenAddr returns the listening address, or nil before Serve.
func (s *Server) ListenAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ActiveConns is the number of connections currently being served.
func (s *Server) ActiveConns() int64 {
	s.init()
	return s.active.Value()
}

// Served is the number of responses written since the server started.
func (s *Server) Served() int64 {
	s.init()
	return s.served.Value()
}

func (s *Server) prettyAddr() string {
	if addr := s.ListenAddr(); addr != nil {
		return formatAddr(addr)
	}
	return s.Addr
}
