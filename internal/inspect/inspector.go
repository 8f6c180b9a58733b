// Package inspect streams registry changes to websocket clients for debugging.
package inspect

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/ecs/internal/core/events/bus"
	"github.com/zeusync/ecs/internal/core/observability/log"
	"github.com/zeusync/ecs/internal/core/registry"
)

var ErrClosed = errors.New("inspect: inspector closed")

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Message is the JSON frame sent to clients.
type Message struct {
	Type   string           `json:"type"` // hello | change
	Source string           `json:"source,omitempty"`
	Change *registry.Change `json:"change,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Inspector fans registry change events out to connected clients. Publishing
// never blocks: a client whose queue is full misses messages.
type Inspector struct {
	logger log.Log
	buffer int
	sub    bus.Subscription

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	dropped uint64
}

// New subscribes to registry changes on b.
func New(b bus.EventBus, buffer int, logger log.Log) (*Inspector, error) {
	if logger == nil {
		logger = log.Nop()
	}
	if buffer <= 0 {
		buffer = 1
	}
	in := &Inspector{
		logger:  logger,
		buffer:  buffer,
		clients: make(map[*client]struct{}),
	}
	sub, err := b.SubscribeTopic(registry.Topic, "", in.onEvent)
	if err != nil {
		return nil, err
	}
	in.sub = sub
	return in, nil
}

// Handler serves the websocket endpoint.
func (in *Inspector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", in.serveWS)
	return mux
}

// Clients is the number of connected clients.
func (in *Inspector) Clients() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.clients)
}

// Dropped is the number of messages lost to full client queues.
func (in *Inspector) Dropped() uint64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.dropped
}

// Close unsubscribes from the bus and disconnects every client.
func (in *Inspector) Close() error {
	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		return nil
	}
	in.closed = true
	clients := in.clients
	in.clients = make(map[*client]struct{})
	in.mu.Unlock()

	for c := range clients {
		close(c.done)
	}
	return in.sub.Cancel()
}

func (in *Inspector) serveWS(w http.ResponseWriter, r *http.Request) {
	in.mu.Lock()
	closed := in.closed
	in.mu.Unlock()
	if closed {
		http.Error(w, ErrClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		in.logger.Warn("inspector upgrade failed", log.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, in.buffer), done: make(chan struct{})}
	// Queued before registration so it is always the first frame.
	hello, _ := json.Marshal(Message{Type: "hello", Source: r.RemoteAddr})
	c.send <- hello

	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		_ = conn.Close()
		return
	}
	in.clients[c] = struct{}{}
	in.mu.Unlock()

	in.logger.Debug("inspector client connected", log.String("remote", r.RemoteAddr))
	go in.readLoop(c)
	in.writeLoop(c)
}

// readLoop only watches for the client going away.
func (in *Inspector) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			in.remove(c)
			return
		}
	}
}

func (in *Inspector) writeLoop(c *client) {
	defer c.conn.Close()
	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "inspector closed"),
				time.Now().Add(writeTimeout))
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				in.remove(c)
				return
			}
		}
	}
}

func (in *Inspector) remove(c *client) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if _, ok := in.clients[c]; !ok {
		return
	}
	delete(in.clients, c)
	close(c.done)
}

func (in *Inspector) onEvent(ev bus.Event) error {
	change, ok := ev.Data().(registry.Change)
	if !ok {
		return nil
	}
	msg, err := json.Marshal(Message{Type: "change", Source: ev.Source(), Change: &change})
	if err != nil {
		return err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	for c := range in.clients {
		select {
		case c.send <- msg:
		default:
			in.dropped++
		}
	}
	return nil
}
