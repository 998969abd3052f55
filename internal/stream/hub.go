// Package stream pushes live screen updates to each client's websocket
// connections.
package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
)

const writeWait = 5 * time.Second

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type pendingKey struct {
	clientID string
	msgType  string
}

type registration struct {
	clientID string
	conn     *websocket.Conn
}

// Hub fans messages out to the connections of one client. Run is the only
// writer on any connection. Each message is a full screen, so only the
// newest undelivered one per client and type is kept.
type Hub struct {
	clients    map[string]map[*websocket.Conn]bool
	pending    map[pendingKey][]byte
	pendingMu  sync.Mutex
	wake       chan struct{}
	register   chan registration
	unregister chan registration
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*websocket.Conn]bool),
		pending:    make(map[pendingKey][]byte),
		wake:       make(chan struct{}, 1),
		register:   make(chan registration),
		unregister: make(chan registration),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mutex.Lock()
			for _, conns := range h.clients {
				for c := range conns {
					c.Close()
				}
			}
			h.clients = make(map[string]map[*websocket.Conn]bool)
			h.mutex.Unlock()
			return

		case reg := <-h.register:
			h.mutex.Lock()
			conns, ok := h.clients[reg.clientID]
			if !ok {
				conns = make(map[*websocket.Conn]bool)
				h.clients[reg.clientID] = conns
			}
			conns[reg.conn] = true
			h.mutex.Unlock()
			log.Printf("[stream] client %s connected (%d open)", reg.clientID, len(conns))

		case reg := <-h.unregister:
			h.mutex.Lock()
			h.removeLocked(reg.clientID, reg.conn)
			h.mutex.Unlock()

		case <-h.wake:
			h.flush()
		}
	}
}

// flush writes every pending message. Messages for clients with no open
// socket are discarded.
func (h *Hub) flush() {
	h.pendingMu.Lock()
	batch := h.pending
	h.pending = make(map[pendingKey][]byte)
	h.pendingMu.Unlock()

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for key, data := range batch {
		for c := range h.clients[key.clientID] {
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("[stream] write to %s failed: %v", key.clientID, err)
				h.removeLocked(key.clientID, c)
			}
		}
	}
}

func (h *Hub) removeLocked(clientID string, c *websocket.Conn) {
	conns, ok := h.clients[clientID]
	if !ok || !conns[c] {
		return
	}
	delete(conns, c)
	c.Close()
	if len(conns) == 0 {
		delete(h.clients, clientID)
	}
}

// Stop ends Run and closes every connection.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) Register(clientID string, conn *websocket.Conn) {
	select {
	case h.register <- registration{clientID: clientID, conn: conn}:
	case <-h.done:
		conn.Close()
	}
}

func (h *Hub) Unregister(clientID string, conn *websocket.Conn) {
	select {
	case h.unregister <- registration{clientID: clientID, conn: conn}:
	case <-h.done:
	}
}

// Connections reports how many sockets the client has open.
func (h *Hub) Connections(clientID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[clientID])
}

// Send queues a message for the client's sockets without blocking. A message
// not yet written is replaced by a newer one of the same type, so the last
// update sent is always the one delivered.
func (h *Hub) Send(clientID, msgType string, data interface{}) {
	msgData, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		log.Printf("[stream] marshal %s message: %v", msgType, err)
		return
	}
	h.pendingMu.Lock()
	h.pending[pendingKey{clientID: clientID, msgType: msgType}] = msgData
	h.pendingMu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// pendingMessage returns the undelivered message of the given type for a client.
func (h *Hub) pendingMessage(clientID, msgType string) (Message, bool) {
	h.pendingMu.Lock()
	data, ok := h.pending[pendingKey{clientID: clientID, msgType: msgType}]
	h.pendingMu.Unlock()
	if !ok {
		return Message{}, false
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, false
	}
	return m, true
}

// Serve upgrades the request, registers the socket under clientID and
// blocks reading until the peer goes away. onOpen runs after registration.
func (h *Hub) Serve(upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request, clientID string, onOpen func()) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	h.Register(clientID, conn)
	if onOpen != nil {
		onOpen()
	}
	defer h.Unregister(clientID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
