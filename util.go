package snowboard

import (
	"bytes"
	"net"
	"strconv"
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/pingcap/errors"
)

var (
	byteCRLF       = []byte("\r\n")
	byteColonSpace = []byte(": ")
	byteLF         = byte('\n')
)

func b2s(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

func appendLine(dst []byte, key, value string) []byte {
	dst = append(dst, key...)
	dst = append(dst, byteColonSpace...)
	dst = append(dst, value...)
	return append(dst, byteCRLF...)
}

// cutLine splits b after the first '\n'. The returned line has its
// line terminator (and a trailing '\r') removed. Without a '\n' the
// whole input is the line and rest is nil.
func cutLine(b []byte) (line, rest []byte) {
	i := bytes.IndexByte(b, byteLF)
	if i < 0 {
		return trimCR(b), nil
	}
	return trimCR(b[:i]), b[i+1:]
}

func trimCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

func trimASCIISpace(b []byte) []byte {
	for len(b) > 0 && isASCIISpace(b[0]) {
		b = b[1:]
	}
	for len(b) > 0 && isASCIISpace(b[len(b)-1]) {
		b = b[:len(b)-1]
	}
	return b
}

// lossyString decodes b as UTF-8, replacing every byte that does not
// start a valid sequence with U+FFFD.
func lossyString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.Write(b[:size])
		}
		b = b[size:]
	}
	return sb.String()
}

func parseContentLength(cl []byte) (int, error) {
	cl = trimASCIISpace(cl)
	if len(cl) == 0 {
		return 0, errors.Errorf("empty Content-Length")
	}
	n, err := strconv.ParseInt(b2s(cl), 10, strconv.IntSize)
	if err != nil {
		// out of range values saturate to the int limit
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange && n > 0 {
			return int(n), nil
		}
		return 0, errors.Errorf("bad Content-Length %s", cl)
	}
	if n < 0 {
		return 0, errors.Errorf("bad Content-Length %s", cl)
	}
	return int(n), nil
}

// formatAddr renders loopback addresses as localhost:port so they can be
// pasted into a browser.
func formatAddr(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return net.JoinHostPort("localhost", port)
	}
	return net.JoinHostPort(host, port)
}
