// Package websocket carries the device link over binary websocket frames.
package websocket

import (
	"io"
	"net/http"

	"golang.org/x/net/websocket"
)

// Dial connects to a device served at url.
func Dial(url string) (io.ReadWriteCloser, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return conn, nil
}

// HandlerFunc serves one connected host.
type HandlerFunc func(io.ReadWriteCloser)

// Handler wraps fn as an http.Handler accepting websocket connections.
func Handler(fn HandlerFunc) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.BinaryFrame
		fn(conn)
	})
}
