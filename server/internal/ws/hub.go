package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/honeyraes/honeyraes/server/internal/report"
	"github.com/honeyraes/honeyraes/server/internal/store"
)

const (
	writeTimeout = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10 // must stay below pongWait
	queueDepth   = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Message is the JSON envelope pushed to subscribers.
type Message struct {
	Event string  `json:"event"`
	Data  Summary `json:"data"`
}

// Summary is the payload of a push: record counts plus the time they were
// taken.
type Summary struct {
	report.Summary
	GeneratedAt string `json:"generated_at"` // RFC3339
}

// Hub pushes a shop summary to every subscriber on each interval and, when
// wired to Store.OnChange, right after each ticket write.
type Hub struct {
	store    *store.Store
	interval time.Duration
	kick     chan struct{}

	// mu guards subs and stopped. Pushes hold it for reading; membership
	// changes and queue closes hold it for writing, so a queue is never
	// closed while a push is sending on it.
	mu      sync.RWMutex
	subs    map[*subscriber]struct{}
	stopped bool
}

type subscriber struct {
	conn  *websocket.Conn
	queue chan []byte
}

// New creates a Hub that reads from st and pushes every interval.
func New(st *store.Store, interval time.Duration) *Hub {
	return &Hub{
		store:    st,
		interval: interval,
		kick:     make(chan struct{}, 1),
		subs:     make(map[*subscriber]struct{}),
	}
}

// Changed schedules an out-of-band push. It never blocks; changes that arrive
// while a push is pending coalesce into it.
func (h *Hub) Changed() {
	select {
	case h.kick <- struct{}{}:
	default:
	}
}

// Run pushes summaries until ctx is cancelled, then disconnects every
// subscriber and refuses new ones.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(h.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			h.stop()
			return
		case <-t.C:
		case <-h.kick:
		}
		h.push()
	}
}

// ServeHTTP upgrades the request and streams summaries to the client until
// it disconnects. The first summary is queued before the client joins.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return // upgrader already replied
	}

	s := &subscriber{conn: conn, queue: make(chan []byte, queueDepth)}
	if msg, err := h.encode(); err == nil {
		s.queue <- msg
	}
	if !h.join(s) {
		conn.Close()
		return
	}
	defer h.leave(s)

	go s.write()
	s.read()
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) join(s *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.subs[s] = struct{}{}
	return true
}

// leave removes s and closes its queue, which ends its writer. It is safe to
// call more than once.
func (h *Hub) leave(s *subscriber) {
	h.mu.Lock()
	h.removeLocked(s)
	h.mu.Unlock()
}

func (h *Hub) stop() {
	h.mu.Lock()
	h.stopped = true
	for s := range h.subs {
		h.removeLocked(s)
	}
	h.mu.Unlock()
}

func (h *Hub) removeLocked(s *subscriber) {
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.queue)
	}
}

func (h *Hub) push() {
	msg, err := h.encode()
	if err != nil {
		slog.Error("ws: encode summary", "err", err)
		return
	}

	var lagging []*subscriber
	h.mu.RLock()
	for s := range h.subs {
		select {
		case s.queue <- msg:
		default:
			lagging = append(lagging, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range lagging {
		slog.Debug("ws: dropping slow subscriber", "remote", s.remote())
		h.leave(s)
	}
}

func (h *Hub) encode() ([]byte, error) {
	v := h.store.Snapshot()
	return json.Marshal(Message{
		Event: "summary",
		Data: Summary{
			Summary:     report.Summarize(v),
			GeneratedAt: v.Now.UTC().Format(time.RFC3339),
		},
	})
}

func (s *subscriber) remote() string {
	if s.conn == nil {
		return ""
	}
	return s.conn.RemoteAddr().String()
}

// write is the only goroutine that writes data frames to s.conn. It exits
// when the queue is closed or a write fails.
func (s *subscriber) write() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.queue:
			if !ok {
				bye := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
				_ = s.conn.WriteControl(websocket.CloseMessage, bye, time.Now().Add(writeTimeout))
				return
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

// read discards client frames, keeping the read deadline alive on pongs.
// It returns when the connection fails or the client goes away.
func (s *subscriber) read() {
	s.conn.SetReadLimit(512)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.NextReader(); err != nil {
			return
		}
	}
}
