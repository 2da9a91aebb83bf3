package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	pb "mygame/football/proto"
)

const (
	wsReadDeadline  = 60 * time.Second
	wsWriteDeadline = 10 * time.Second
	wsPingPeriod    = 30 * time.Second
)

// WebSocketConn carries encoded messages over one websocket in either
// direction.
type WebSocketConn struct {
	Conn *websocket.Conn
	id   string
	mu   sync.Mutex
	once sync.Once
}

func NewConn(ws *websocket.Conn, id string) *WebSocketConn {
	return &WebSocketConn{Conn: ws, id: id}
}

// Dial opens a participant connection to an authority endpoint.
func Dial(ctx context.Context, url string) (*WebSocketConn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewConn(ws, ""), nil
}

func (c *WebSocketConn) ID() string { return c.id }

func (c *WebSocketConn) Send(m pb.Message) error {
	data, err := pb.Marshal(m)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	// WriteMessage 是线程不安全的，所以需要加锁
	c.Conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
	return c.Conn.WriteMessage(websocket.BinaryMessage, data)
}

func (c *WebSocketConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
	return c.Conn.WriteMessage(websocket.PingMessage, nil)
}

// Close sends a normal close frame and drops the connection.
func (c *WebSocketConn) Close() { c.CloseWith(websocket.CloseNormalClosure, "") }

// CloseWith closes with an explicit code and reason.
func (c *WebSocketConn) CloseWith(code int, reason string) {
	c.once.Do(func() {
		msg := websocket.FormatCloseMessage(code, reason)
		c.Conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.Conn.Close()
	})
}

// ReadLoop delivers every data frame to onData until the peer goes away or
// ctx ends, keeping the connection alive with pings. A normal close
// returns nil.
func (c *WebSocketConn) ReadLoop(ctx context.Context, onData func([]byte)) error {
	ws := c.Conn
	ws.SetReadDeadline(time.Now().Add(wsReadDeadline))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(wsReadDeadline))
		return nil
	})

	pingTicker := time.NewTicker(wsPingPeriod)
	defer pingTicker.Stop()

	messageChan := make(chan []byte)
	errChan := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				errChan <- err
				return
			}
			select {
			case messageChan <- data:
			case <-stop:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-pingTicker.C:
			if err := c.ping(); err != nil {
				return fmt.Errorf("ping: %w", err)
			}

		case data := <-messageChan:
			ws.SetReadDeadline(time.Now().Add(wsReadDeadline))
			onData(data)

		case err := <-errChan:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
	}
}
