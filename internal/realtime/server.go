package realtime

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"sip-call-api/internal/call"
	"sip-call-api/internal/protocol"

	"github.com/gorilla/websocket"
)

const (
	pingInterval  = 30 * time.Second
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow browser clients from any origin.
	},
}

// Server exposes the call registry over a small REST API and streams
// lifecycle notifications to WebSocket clients.
type Server struct {
	registry  *call.Registry
	clients   map[*client]bool
	clientsMu sync.RWMutex

	// subscriptions tracks each client's registry subscription ID.
	subscriptions   map[*client]string
	subscriptionsMu sync.Mutex
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

// New creates a realtime server over the given registry.
func New(registry *call.Registry) *Server {
	return &Server{
		registry:      registry,
		clients:       make(map[*client]bool),
		subscriptions: make(map[*client]string),
	}
}

// Handler returns an http.Handler with all routes configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket notification stream.
	mux.HandleFunc("/ws", s.handleWebSocket)

	// REST API endpoints.
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /call", s.handleStartCall)
	mux.HandleFunc("POST /hangup", s.handleHangup)
	mux.HandleFunc("GET /status", s.handleStatus)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleWebSocket upgrades an HTTP connection and subscribes it to the
// call event feed, starting with the buffered history.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, 256),
		server: s,
	}

	s.clientsMu.Lock()
	s.clients[c] = true
	s.clientsMu.Unlock()

	subID, events, history := s.registry.Subscribe()
	s.subscriptionsMu.Lock()
	s.subscriptions[c] = subID
	s.subscriptionsMu.Unlock()

	go c.writePump()
	go c.readPump()

	// Forward history, then live events until the subscription closes.
	// This goroutine owns c.send: it closes it only after the drain
	// completes, so an unsubscribe racing buffered events can never
	// trigger a send on a closed channel.
	go func() {
		defer close(c.send)
		for _, event := range history {
			s.sendEvent(c, event)
		}
		for event := range events {
			s.sendEvent(c, event)
		}
	}()
}

// readPump reads messages from the WebSocket connection.
func (c *client) readPump() {
	defer func() {
		c.server.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}

		c.server.handleMessage(c, message)
	}
}

// writePump writes messages to the WebSocket connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// removeClient cleans up a disconnected client.
func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	delete(s.clients, c)
	s.clientsMu.Unlock()

	s.subscriptionsMu.Lock()
	subID, ok := s.subscriptions[c]
	delete(s.subscriptions, c)
	s.subscriptionsMu.Unlock()

	if ok {
		// Closing the subscription lets the forwarding goroutine finish
		// its drain and close c.send.
		s.registry.Unsubscribe(subID)
	}
}

// handleMessage processes a validated client message.
func (s *Server) handleMessage(c *client, raw []byte) {
	msg, err := protocol.ValidateClientMessage(raw)
	if err != nil {
		s.sendError(c, protocol.ErrInvalidMessage, err.Error())
		return
	}

	switch msg.Type {
	case protocol.TypeCallStart:
		var payload protocol.CallStartPayload
		json.Unmarshal(msg.Payload, &payload)

		if _, err := s.registry.Start(payload.Destination); err != nil {
			s.sendError(c, startErrorCode(err), err.Error())
		}

	case protocol.TypeCallHangup:
		if _, err := s.registry.Hangup(); err != nil {
			s.sendError(c, hangupErrorCode(err), err.Error())
		}
	}
}

func startErrorCode(err error) string {
	switch {
	case errors.Is(err, call.ErrEmptyDestination):
		return protocol.ErrEmptyDestination
	case errors.Is(err, call.ErrCallActive):
		return protocol.ErrCallActive
	default:
		return protocol.ErrLaunchFailed
	}
}

func hangupErrorCode(err error) string {
	if errors.Is(err, call.ErrNoActiveCall) {
		return protocol.ErrNoActiveCall
	}
	return protocol.ErrTerminationFailed
}

// sendEvent forwards one registry event to a client as either a
// call.output or call.event message.
func (s *Server) sendEvent(c *client, event call.Event) {
	var msg *protocol.Message
	if event.Type == call.EventOutput {
		msg, _ = protocol.NewMessage(protocol.TypeCallOutput, protocol.CallOutputPayload{
			CallID: event.CallID,
			Data:   event.Message,
		})
	} else {
		msg, _ = protocol.NewMessage(protocol.TypeCallEvent, protocol.CallEventPayload{
			CallID:      event.CallID,
			Destination: event.Destination,
			Kind:        string(event.Type),
			Message:     event.Message,
		})
	}
	if msg == nil {
		return
	}
	data, _ := json.Marshal(msg)
	select {
	case c.send <- data:
	default:
	}
}

func (s *Server) sendError(c *client, code, message string) {
	msg, _ := protocol.NewErrorMessage(code, message)
	data, _ := json.Marshal(msg)
	select {
	case c.send <- data:
	default:
	}
}
