package snowboard

import (
	"bufio"
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"math/big"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gobwas/ws/wsutil"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

func startServer(t *testing.T, s *Server) (string, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()
	stop := func() {
		_ = s.Close()
		select {
		case err := <-done:
			if !errors.Is(err, ErrServerClosed) {
				t.Errorf("Serve() = %v, want ErrServerClosed", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("Serve did not return after Close")
		}
	}
	return ln.Addr().String(), stop
}

func dial(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	return conn
}

// roundTrip sends raw and reads until the server closes the connection.
func roundTrip(t *testing.T, conn net.Conn, raw string) string {
	t.Helper()
	if _, err := io.WriteString(conn, raw); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}

func readExactly(t *testing.T, conn net.Conn, n int) string {
	t.Helper()
	buf := make([]byte, n)
	if _, err := io.ReadFull(conn, buf); err != nil {
		t.Fatalf("read %d bytes: %v", n, err)
	}
	return string(buf)
}

func expectClosed(t *testing.T, conn net.Conn) {
	t.Helper()
	var one [1]byte
	if n, err := conn.Read(one[:]); n != 0 || err == nil {
		t.Errorf("connection still open: n=%d err=%v", n, err)
	}
}

func echoPath(req *Request) Responder {
	return Text(req.Method.String() + " " + req.RawURL)
}

func TestServer_Basic(t *testing.T) {
	addr, stop := startServer(t, NewServer("", echoPath))
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	got := roundTrip(t, conn, "GET /hello HTTP/1.1\r\nHost: x\r\n\r\n")
	if want := "HTTP/1.1 200 Ok\r\n\r\nGET /hello"; got != want {
		t.Errorf("response = %q, want %q", got, want)
	}
}

func TestServer_NilHandler(t *testing.T) {
	addr, stop := startServer(t, NewServer("", nil))
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	got := roundTrip(t, conn, "GET / HTTP/1.1\r\n\r\n")
	if got != "HTTP/1.1 404 Not Found\r\n\r\n" {
		t.Errorf("response = %q", got)
	}
}

func TestServer_KeepAlive(t *testing.T) {
	s := NewServer("", echoPath)
	addr, stop := startServer(t, s)
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()

	for _, path := range []string{"/one", "/two"} {
		if _, err := io.WriteString(conn, "GET "+path+" HTTP/1.1\r\nConnection: keep-alive\r\n\r\n"); err != nil {
			t.Fatalf("write: %v", err)
		}
		want := "HTTP/1.1 200 Ok\r\n\r\nGET " + path
		if got := readExactly(t, conn, len(want)); got != want {
			t.Errorf("response = %q, want %q", got, want)
		}
	}

	got := roundTrip(t, conn, "GET /three HTTP/1.1\r\nConnection: Close\r\n\r\n")
	if want := "HTTP/1.1 200 Ok\r\n\r\nGET /three"; got != want {
		t.Errorf("last response = %q, want %q", got, want)
	}
	if s.Served() != 3 {
		t.Errorf("Served() = %d, want 3", s.Served())
	}
}

func TestServer_NoConnectionHeaderCloses(t *testing.T) {
	addr, stop := startServer(t, NewServer("", echoPath))
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	if _, err := io.WriteString(conn, "GET /a HTTP/1.1\r\n\r\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	readExactly(t, conn, len("HTTP/1.1 200 Ok\r\n\r\nGET /a"))
	expectClosed(t, conn)
}

func TestServer_MaxServeTimesPerConn(t *testing.T) {
	s := NewServer("", echoPath)
	s.MaxServeTimesPerConn = 1
	addr, stop := startServer(t, s)
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	got := roundTrip(t, conn, "GET /a HTTP/1.1\r\nConnection: keep-alive\r\n\r\n")
	if got != "HTTP/1.1 200 Ok\r\n\r\nGET /a" {
		t.Errorf("response = %q", got)
	}
}

func TestServer_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"malformed request line", "GARBAGE\r\n\r\n", "HTTP/1.1 400 Bad Request\r\n\r\n"},
		{"header without colon", "GET / HTTP/1.1\r\nbroken\r\n\r\n", "HTTP/1.1 400 Bad Request\r\n\r\n"},
		// exactly one byte more than the buffer
		{"read exceeds buffer", "POST / HTTP/1.1\r\n\r\n" + strings.Repeat("x", 64-18), "HTTP/1.1 413 Payload Too Large\r\n\r\n"},
		{"declared payload exceeds buffer", "POST / HTTP/1.1\r\nContent-Length: 1000\r\n\r\nab", "HTTP/1.1 413 Payload Too Large\r\n\r\n"},
		{"declared max int64", "POST / HTTP/1.1\r\nContent-Length: 9223372036854775807\r\n\r\nab", "HTTP/1.1 413 Payload Too Large\r\n\r\n"},
		{"declared near max int64", "POST / HTTP/1.1\r\nContent-Length: 9223372036854775780\r\n\r\nab", "HTTP/1.1 413 Payload Too Large\r\n\r\n"},
		{"declared beyond int64", "POST / HTTP/1.1\r\nContent-Length: 99999999999999999999\r\n\r\nab", "HTTP/1.1 413 Payload Too Large\r\n\r\n"},
	}
	var called atomic.Bool
	s := NewServer("", func(req *Request) Responder {
		called.Store(true)
		return Unit{}
	})
	s.BufferSize = 64
	addr, stop := startServer(t, s)
	defer stop()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dial(t, addr)
			defer conn.Close()
			if got := roundTrip(t, conn, tt.raw); got != tt.want {
				t.Errorf("response = %q, want %q", got, tt.want)
			}
		})
	}
	if called.Load() {
		t.Error("handler invoked for a rejected request")
	}
}

func TestServer_FitsBuffer(t *testing.T) {
	s := NewServer("", func(req *Request) Responder {
		return Bytes(req.Body)
	})
	s.BufferSize = 64
	addr, stop := startServer(t, s)
	defer stop()

	raw := "POST / HTTP/1.1\r\n\r\n" + strings.Repeat("x", 64-19)
	conn := dial(t, addr)
	defer conn.Close()
	if got := roundTrip(t, conn, raw); got != "HTTP/1.1 200 Ok\r\n\r\n"+strings.Repeat("x", 64-19) {
		t.Errorf("response = %q", got)
	}
}

func TestServer_DefaultHeaders(t *testing.T) {
	s := NewServer("", func(req *Request) Responder {
		return Text("hello")
	})
	s.InsertDefaultHeaders = true
	addr, stop := startServer(t, s)
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	got := roundTrip(t, conn, "GET / HTTP/1.1\r\n\r\n")
	for _, want := range []string{"Content-Length: 5\r\n", "Server: snowboard\r\n", "Date: "} {
		if !strings.Contains(got, want) {
			t.Errorf("response %q missing %q", got, want)
		}
	}
	if !strings.HasSuffix(got, "\r\n\r\nhello") {
		t.Errorf("response = %q", got)
	}
}

func TestServer_HandlerPanic(t *testing.T) {
	s := NewServer("", func(req *Request) Responder {
		if req.RawURL == "/boom" {
			panic("boom")
		}
		return Text("ok")
	})
	addr, stop := startServer(t, s)
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	got := roundTrip(t, conn, "GET /boom HTTP/1.1\r\nConnection: keep-alive\r\n\r\n")
	if got != "HTTP/1.1 500 Internal Server Error\r\n\r\n" {
		t.Errorf("response = %q", got)
	}

	conn2 := dial(t, addr)
	defer conn2.Close()
	if got := roundTrip(t, conn2, "GET / HTTP/1.1\r\n\r\n"); got != "HTTP/1.1 200 Ok\r\n\r\nok" {
		t.Errorf("after panic response = %q", got)
	}
}

func TestServer_PeerClosesImmediately(t *testing.T) {
	s := NewServer("", echoPath)
	addr, stop := startServer(t, s)
	defer stop()

	conn := dial(t, addr)
	conn.Close()

	waitFor(t, func() bool { return s.ActiveConns() == 0 })
	if s.Served() != 0 {
		t.Errorf("Served() = %d", s.Served())
	}
}

func TestServer_Close(t *testing.T) {
	s := NewServer("", echoPath)
	addr, stop := startServer(t, s)

	// an idle keep-alive connection must not keep the server alive
	conn := dial(t, addr)
	defer conn.Close()
	if _, err := io.WriteString(conn, "GET / HTTP/1.1\r\nConnection: keep-alive\r\n\r\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	readExactly(t, conn, len("HTTP/1.1 200 Ok\r\n\r\nGET /"))
	waitFor(t, func() bool { return s.ActiveConns() == 1 })

	stop()
	expectClosed(t, conn)
	waitFor(t, func() bool { return s.ActiveConns() == 0 })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	if err := s.Serve(ln); !errors.Is(err, ErrServerClosed) {
		t.Errorf("Serve() after Close = %v", err)
	}
}

// racingListener hands out one connection that was accepted while the
// server was being closed.
type racingListener struct {
	s    *Server
	conn net.Conn
	done bool
}

func (l *racingListener) Accept() (net.Conn, error) {
	if l.done {
		return nil, net.ErrClosed
	}
	l.done = true
	_ = l.s.Close()
	return l.conn, nil
}

func (l *racingListener) Close() error   { return nil }
func (l *racingListener) Addr() net.Addr { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)} }

func TestServer_CloseDuringAccept(t *testing.T) {
	s := NewServer("", echoPath)
	server, client := net.Pipe()
	defer client.Close()

	if err := s.Serve(&racingListener{s: s, conn: server}); !errors.Is(err, ErrServerClosed) {
		t.Errorf("Serve() = %v, want ErrServerClosed", err)
	}
	_ = client.SetReadDeadline(time.Now().Add(5 * time.Second))
	var one [1]byte
	if _, err := client.Read(one[:]); err != io.EOF {
		t.Errorf("Read() error = %v, want io.EOF", err)
	}
	if s.ActiveConns() != 0 {
		t.Errorf("ActiveConns() = %d", s.ActiveConns())
	}
}

func TestServer_ListenAndServeBindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	s := NewServer(ln.Addr().String(), echoPath)
	if err := s.ListenAndServe(); err == nil || errors.Is(err, ErrServerClosed) {
		t.Errorf("ListenAndServe() = %v, want bind error", err)
	}
}

func TestServer_WebSocket(t *testing.T) {
	s := NewServer("", echoPath).OnWebSocket("/ws", func(sock *WebSocket) {
		for {
			msg, op, err := sock.ReadMessage()
			if err != nil {
				return
			}
			if err := sock.WriteMessage(op, msg); err != nil {
				return
			}
		}
	})
	addr, stop := startServer(t, s)
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	req := "GET /ws/chat HTTP/1.1\r\nHost: x\r\nUpgrade: websocket\r\nConnection: Upgrade\r\n" +
		"Sec-WebSocket-Key: " + rfcKey + "\r\n\r\n"
	if _, err := io.WriteString(conn, req); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := HandshakeResponse(rfcKey).String()
	if got := readExactly(t, conn, len(want)); got != want {
		t.Fatalf("handshake = %q, want %q", got, want)
	}

	for _, msg := range []string{"hello", "again"} {
		if err := wsutil.WriteClientText(conn, []byte(msg)); err != nil {
			t.Fatalf("WriteClientText() error = %v", err)
		}
		got, err := wsutil.ReadServerText(conn)
		if err != nil {
			t.Fatalf("ReadServerText() error = %v", err)
		}
		if string(got) != msg {
			t.Errorf("echo = %q, want %q", got, msg)
		}
	}
}

func TestServer_WebSocketRouteMismatch(t *testing.T) {
	var upgraded atomic.Bool
	s := NewServer("", echoPath).OnWebSocket("/ws", func(sock *WebSocket) {
		upgraded.Store(true)
	})
	addr, stop := startServer(t, s)
	defer stop()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"other prefix",
			"GET /chat HTTP/1.1\r\nUpgrade: websocket\r\nSec-WebSocket-Key: " + rfcKey + "\r\n\r\n",
			"HTTP/1.1 200 Ok\r\n\r\nGET /chat",
		},
		{
			"not an upgrade",
			"GET /ws HTTP/1.1\r\n\r\n",
			"HTTP/1.1 200 Ok\r\n\r\nGET /ws",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dial(t, addr)
			defer conn.Close()
			if got := roundTrip(t, conn, tt.raw); got != tt.want {
				t.Errorf("response = %q, want %q", got, tt.want)
			}
		})
	}
	if upgraded.Load() {
		t.Error("websocket handler invoked")
	}
}

func selfSignedConfig(t *testing.T) *tls.Config {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key}},
	}
}

func TestServer_TLS(t *testing.T) {
	s := NewServer("", echoPath)
	s.TLSConfig = selfSignedConfig(t)
	addr, stop := startServer(t, s)
	defer stop()

	conn, err := tls.Dial("tcp", addr, &tls.Config{InsecureSkipVerify: true})
	if err != nil {
		t.Fatalf("tls dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	if _, err := io.WriteString(conn, "GET /secure HTTP/1.1\r\nConnection: keep-alive\r\n\r\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "HTTP/1.1 200 Ok\r\n\r\nGET /secure"
	if got := readExactly(t, conn, len(want)); got != want {
		t.Errorf("response = %q, want %q", got, want)
	}

	if _, err := io.WriteString(conn, "GET /again HTTP/1.1\r\n\r\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	want = "HTTP/1.1 200 Ok\r\n\r\nGET /again"
	if got := readExactly(t, conn, len(want)); got != want {
		t.Errorf("second response = %q, want %q", got, want)
	}
}

func TestServer_TLSServesPlaintext(t *testing.T) {
	s := NewServer("", echoPath)
	s.TLSConfig = selfSignedConfig(t)
	addr, stop := startServer(t, s)
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	if got := roundTrip(t, conn, "GET /plain HTTP/1.1\r\n\r\n"); got != "HTTP/1.1 200 Ok\r\n\r\nGET /plain" {
		t.Errorf("response = %q", got)
	}
}

func TestServer_TLSRedirectPlaintext(t *testing.T) {
	var called atomic.Bool
	s := NewServer("", func(req *Request) Responder {
		called.Store(true)
		return Unit{}
	})
	s.TLSConfig = selfSignedConfig(t)
	s.RedirectPlaintext = true
	addr, stop := startServer(t, s)
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	got := roundTrip(t, conn, "GET /path?q=1 HTTP/1.1\r\nHost: example.com\r\n\r\n")
	if !strings.HasPrefix(got, "HTTP/1.1 301 Moved Permanently\r\n") {
		t.Errorf("response = %q", got)
	}
	if !strings.Contains(got, "Location: https://example.com/path?q=1\r\n") {
		t.Errorf("response %q missing Location", got)
	}
	if called.Load() {
		t.Error("handler invoked for a redirected request")
	}
}

func TestServer_TLSRedirectWithoutHost(t *testing.T) {
	s := NewServer("", echoPath)
	s.TLSConfig = selfSignedConfig(t)
	s.RedirectPlaintext = true
	addr, stop := startServer(t, s)
	defer stop()

	_, port, _ := net.SplitHostPort(addr)
	conn := dial(t, addr)
	defer conn.Close()
	got := roundTrip(t, conn, "GET /path HTTP/1.1\r\n\r\n")
	if want := "Location: https://localhost:" + port + "/path\r\n"; !strings.Contains(got, want) {
		t.Errorf("response %q missing %q", got, want)
	}
}

func TestServer_TLSHandshakeFailure(t *testing.T) {
	s := NewServer("", echoPath)
	s.TLSConfig = selfSignedConfig(t)
	addr, stop := startServer(t, s)
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	// a handshake record holding a bogus message
	if _, err := conn.Write([]byte{0x16, 0x03, 0x01, 0x00, 0x04, 'a', 'b', 'c', 'd'}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, _ := io.ReadAll(conn)
	if bytes.Contains(got, []byte("HTTP/")) {
		t.Errorf("got an HTTP response after a failed handshake: %q", got)
	}
	waitFor(t, func() bool { return s.ActiveConns() == 0 })
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServer_LogsRejections(t *testing.T) {
	var logs syncBuffer
	s := NewServer("", echoPath)
	s.Logger = zerolog.New(&logs).Level(zerolog.WarnLevel)
	addr, stop := startServer(t, s)
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	roundTrip(t, conn, "NOT-HTTP\r\n\r\n")

	waitFor(t, func() bool { return strings.Contains(logs.String(), "rejecting request") })
	line := logs.String()
	for _, want := range []string{`"level":"warn"`, `"conn":"`, `"remote":"127.0.0.1:`, "malformed request"} {
		if !strings.Contains(line, want) {
			t.Errorf("log %q missing %q", line, want)
		}
	}
}

func TestServer_RequestLogger(t *testing.T) {
	var logs syncBuffer
	s := NewServer("", func(req *Request) Responder {
		req.Logger.Info().Str("url", req.RawURL).Msg("handled")
		return Unit{}
	})
	s.Logger = zerolog.New(&logs)
	addr, stop := startServer(t, s)
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	roundTrip(t, conn, "GET /logged HTTP/1.1\r\n\r\n")

	sc := bufio.NewScanner(strings.NewReader(logs.String()))
	for sc.Scan() {
		if strings.Contains(sc.Text(), `"message":"handled"`) {
			if !strings.Contains(sc.Text(), `"conn":"`) || !strings.Contains(sc.Text(), `"url":"/logged"`) {
				t.Errorf("handler log line = %q", sc.Text())
			}
			return
		}
	}
	t.Errorf("no handler log line in %q", logs.String())
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
