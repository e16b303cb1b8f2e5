package snowboard

import (
	"bufio"
	"net"
)

// tlsRecordMagic opens every TLS handshake record: content type 22
// followed by major version 3.
var tlsRecordMagic = [2]byte{0x16, 0x03}

// bufferedConn lets the dispatcher peek at the first bytes of a
// connection without consuming them. All reads, including those made by
// a TLS server layered on top, go through the bufio.Reader.
type bufferedConn struct {
	net.Conn
	r *bufio.Reader
}

func newBufferedConn(c net.Conn, size int) *bufferedConn {
	return &bufferedConn{Conn: c, r: bufio.NewReaderSize(c, size)}
}

func (c *bufferedConn) reset(conn net.Conn, size int) {
	c.Conn = conn
	if c.r.Size() >= size {
		c.r.Reset(conn)
		return
	}
	c.r = bufio.NewReaderSize(conn, size)
}

// Read performs at most one read on the underlying connection.
func (c *bufferedConn) Read(p []byte) (int, error) {
	return c.r.Read(p)
}

// looksLikeTLS peeks two bytes. ok is false when the peer sent nothing.
func (c *bufferedConn) looksLikeTLS() (tls bool, ok bool) {
	b, _ := c.r.Peek(len(tlsRecordMagic))
	if len(b) == 0 {
		return false, false
	}
	return len(b) == len(tlsRecordMagic) && b[0] == tlsRecordMagic[0] && b[1] == tlsRecordMagic[1], true
}

// closeWrite half-closes TCP connections so a final error response
// reaches the peer before the socket goes away.
func closeWrite(c net.Conn) {
	type closeWriter interface {
		CloseWrite() error
	}
	if cw, ok := c.(closeWriter); ok {
		_ = cw.CloseWrite()
	}
}
