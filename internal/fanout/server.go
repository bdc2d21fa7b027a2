package fanout

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/edgeabyss/ridersim/internal/events"
	"github.com/edgeabyss/ridersim/internal/telemetry"
)

const (
	clientSendBuf = 256
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

type courseClient struct {
	course string // empty = all courses
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
}

// Server fans out bus events to connected spectator/HUD WebSocket clients.
type Server struct {
	mu      sync.Mutex
	clients map[*courseClient]struct{}
}

func NewServer(bus *events.Bus) *Server {
	s := &Server{
		clients: make(map[*courseClient]struct{}),
	}
	bus.Subscribe(events.EventRiderSpawn, s.forward)
	bus.Subscribe(events.EventRiderFall, s.forward)
	bus.Subscribe(events.EventRiderReset, s.forward)
	bus.Subscribe(events.EventStateSnapshot, s.forward)
	bus.Subscribe(events.EventSessionClosed, s.forward)
	return s
}

// forward is called on the publisher's goroutine. It serializes the event
// and enqueues it to matching clients' send channels (non-blocking).
func (s *Server) forward(evt events.Event) error {
	data, err := MarshalEvent(evt)
	if err != nil {
		telemetry.Warnf("fanout: marshal error: %v", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		if c.course != "" && c.course != evt.Course {
			continue
		}
		select {
		case c.send <- data:
		default:
			telemetry.Warnf("fanout: dropping message for slow client course=%q", c.course)
		}
	}
	return nil
}

// HandleWS is the HTTP handler for WebSocket upgrade requests.
// Clients may filter with ?course=ridge-north; omitting it subscribes to
// every course.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Warnf("fanout: upgrade failed: %v", err)
		return
	}

	c := &courseClient{
		course: r.URL.Query().Get("course"),
		conn:   conn,
		send:   make(chan []byte, clientSendBuf),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	telemetry.Infof("fanout: client connected course=%q", c.course)

	go s.writePump(c)
	go s.readPump(c)
}

// writePump drains the client's send channel and writes to the WS connection.
// It owns the client lifecycle: on exit it removes the client from the map
// (so forward never sends to a stale channel) and closes the connection.
func (s *Server) writePump(c *courseClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.removeClient(c)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				telemetry.Warnf("fanout: write error course=%q: %v", c.course, err)
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump keeps the connection alive by reading pongs / close frames.
// No upstream messages are expected from spectator clients.
// On exit it signals writePump via c.done (never closes c.send).
func (s *Server) readPump(c *courseClient) {
	defer close(c.done)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
	}
}

func (s *Server) removeClient(c *courseClient) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	telemetry.Infof("fanout: client disconnected course=%q", c.course)
}

// ListenAndServe starts the fanout WebSocket server.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)

	telemetry.Plainf("fanout: server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// Addr formats a host/port pair for ListenAndServe.
func Addr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
