package netconn

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn is one client WebSocket connection, read continuously by a
// background goroutine into a buffered channel so Recv never blocks the
// underlying gorilla/websocket connection on a slow Scheme consumer.
type Conn struct {
	ID     string
	URL    string
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
	msgs   chan []byte
}

// Registry tracks open WebSocket connections by ID.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewRegistry creates an empty WebSocket connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Conn)}
}

// Connect dials url and starts the background reader, returning the new
// connection's ID.
func (r *Registry) Connect(url string) (string, error) {
	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return "", fmt.Errorf("websocket dial failed: %w", err)
	}

	c := &Conn{ID: uuid.NewString(), URL: url, conn: conn, msgs: make(chan []byte, 100)}
	go c.readLoop()

	r.mu.Lock()
	r.conns[c.ID] = c
	r.mu.Unlock()
	return c.ID, nil
}

func (c *Conn) readLoop() {
	defer close(c.msgs)
	for {
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			c.closed = true
			c.mu.Unlock()
			return
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}
		select {
		case c.msgs <- message:
		default:
			<-c.msgs
			c.msgs <- message
		}
	}
}

func (r *Registry) get(id string) (*Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	if !ok {
		return nil, fmt.Errorf("websocket connection %s not found", id)
	}
	return c, nil
}

// Send writes a text message to the connection named by id.
func (r *Registry) Send(id, message string) error {
	c, err := r.get(id)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("websocket connection is closed")
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(message))
}

// Recv blocks for the next message, or returns an error after timeout.
func (r *Registry) Recv(id string, timeout time.Duration) (string, error) {
	c, err := r.get(id)
	if err != nil {
		return "", err
	}
	select {
	case msg, ok := <-c.msgs:
		if !ok {
			return "", fmt.Errorf("websocket connection %s closed", id)
		}
		return string(msg), nil
	case <-time.After(timeout):
		return "", fmt.Errorf("receive timeout")
	}
}

// Close sends a close frame, tears down the connection, and forgets it.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	c, ok := r.conns[id]
	if ok {
		delete(r.conns, id)
	}
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("websocket connection %s not found", id)
	}

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
