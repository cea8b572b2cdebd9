package ws

import (
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Session wraps a websocket connection with a write lock so broadcasts and
// per-session replies never interleave frames.
type Session struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *Session) ID() string { return s.id }

// WriteMessage sends one frame, serialized against concurrent writers.
func (s *Session) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}

// Hub tracks the connected layout viewers and fans state updates out to them.
// Viewers are read-mostly: they subscribe, receive layout broadcasts, and are
// dropped on the first failed write.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session
	logger   *log.Logger
	nextID   uint64
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Subscribe registers a connection and returns its session.
func (h *Hub) Subscribe(id string, conn *websocket.Conn) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if id == "" {
		h.nextID++
		id = sessionID(h.nextID)
	}
	session := &Session{id: id, conn: conn}
	h.sessions[id] = session
	return session
}

// Unsubscribe drops a session and closes its connection.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	session, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
	}
	h.mu.Unlock()
	if ok {
		session.conn.Close()
	}
}

// SessionCount reports the number of connected viewers.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Broadcast marshals the payload once and writes it to every session,
// unsubscribing sessions whose writes fail.
func (h *Hub) Broadcast(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("failed to marshal broadcast: %v", err)
		return
	}

	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.mu.Unlock()

	for _, session := range sessions {
		if err := session.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Printf("dropping viewer %s: %v", session.id, err)
			h.Unsubscribe(session.id)
		}
	}
}

func sessionID(n uint64) string {
	return "viewer-" + strconv.FormatUint(n, 10)
}
