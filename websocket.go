package snowboard

import (
	"crypto/sha1"
	"encoding/base64"
	"net"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/pkg/errors"
)

const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// IsUpgradeRequest reports whether r asks for a WebSocket. Only Upgrade
// and Sec-WebSocket-Key are checked; Sec-WebSocket-Version is not
// required.
func IsUpgradeRequest(r *Request) bool {
	if v, ok := r.Headers[HeaderUpgrade]; !ok || v != "websocket" {
		return false
	}
	_, ok := r.Headers[HeaderSecWebSocketKey]
	return ok
}

// ComputeAccept derives Sec-WebSocket-Accept from a client key.
func ComputeAccept(key string) string {
	h := sha1.New()
	h.Write([]byte(key))
	h.Write([]byte(websocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// HandshakeResponse is the 101 answering a client key.
func HandshakeResponse(key string) *Response {
	return SwitchingProtocols(nil, WithHeaders(Headers{
		HeaderConnection:         "Upgrade",
		HeaderUpgrade:            "websocket",
		HeaderSecWebSocketAccept: ComputeAccept(key),
	}))
}

// Upgrade completes the opening handshake on conn. It writes the 101 and
// reads nothing; whatever the peer sends next belongs to the returned
// WebSocket.
func Upgrade(req *Request, conn net.Conn) (*WebSocket, error) {
	if !IsUpgradeRequest(req) {
		return nil, ErrNotUpgradeRequest
	}
	if _, err := HandshakeResponse(req.Headers[HeaderSecWebSocketKey]).WriteTo(conn); err != nil {
		return nil, errors.Wrap(err, "write handshake")
	}
	return &WebSocket{conn: conn, req: req}, nil
}

// WebSocketHandler owns the connection until it returns.
type WebSocketHandler func(ws *WebSocket)

// WebSocketRoute sends upgrade requests whose raw URL starts with Prefix
// to Handler.
type WebSocketRoute struct {
	Prefix  string
	Handler WebSocketHandler
}

// WebSocket is a server-side WebSocket over an upgraded connection.
// Control frames are answered while reading.
type WebSocket struct {
	conn net.Conn
	req  *Request
}

// ReadMessage blocks for the next data message from the client. A close
// from the peer surfaces as a wsutil.ClosedError.
func (w *WebSocket) ReadMessage() ([]byte, ws.OpCode, error) {
	return wsutil.ReadClientData(w.conn)
}

func (w *WebSocket) WriteMessage(op ws.OpCode, p []byte) error {
	return wsutil.WriteServerMessage(w.conn, op, p)
}

func (w *WebSocket) WriteText(s string) error {
	return w.WriteMessage(ws.OpText, []byte(s))
}

// Close sends a normal closure frame and closes the connection.
func (w *WebSocket) Close() error {
	frame := ws.NewCloseFrame(ws.NewCloseFrameBody(ws.StatusNormalClosure, ""))
	werr := ws.WriteFrame(w.conn, frame)
	if err := w.conn.Close(); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(werr)
}

func (w *WebSocket) RemoteAddr() net.Addr {
	return w.conn.RemoteAddr()
}

// Request is the upgrade request the socket was opened with.
func (w *WebSocket) Request() *Request {
	return w.req
}
