// Package stream broadcasts snapshots to websocket subscribers so external
// renderers can draw the simulation. The feed is strictly read-only; there is
// no mutation path back into the engine.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/san-kum/orbitlab/internal/body"
	"github.com/san-kum/orbitlab/internal/universe"
)

// Frame is one broadcast of the present snapshot.
type Frame struct {
	Index   int         `json:"index"`
	Time    float64     `json:"time"`
	Gravity float64     `json:"gravity"`
	Bodies  []FrameBody `json:"bodies"`
}

type FrameBody struct {
	ID     uint64     `json:"id"`
	Name   string     `json:"name"`
	Pos    [2]float64 `json:"pos"`
	Vel    [2]float64 `json:"vel"`
	Radius float64    `json:"radius"`
	Color  [3]float64 `json:"color"`
}

// NewFrame flattens a snapshot for transport.
func NewFrame(index int, stepSize float64, u *universe.Universe) Frame {
	f := Frame{
		Index:   index,
		Time:    float64(index) * stepSize,
		Gravity: u.Gravity,
		Bodies:  make([]FrameBody, 0, u.Bodies.Len()),
	}
	u.Bodies.Each(func(id body.ID, b *body.Body) {
		f.Bodies = append(f.Bodies, FrameBody{
			ID:     uint64(id),
			Name:   b.Name,
			Pos:    [2]float64{b.Pos.X, b.Pos.Y},
			Vel:    [2]float64{b.Vel.X, b.Vel.Y},
			Radius: b.Radius,
			Color:  [3]float64{b.Color.X, b.Color.Y, b.Color.Z},
		})
	})
	return f
}

// Hub fans frames out to connected websocket clients.
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu         sync.Mutex
	clients    map[*websocket.Conn]bool
	broadcast  chan Frame
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	wg         sync.WaitGroup
}

func NewHub(log *zap.Logger) *Hub {
	h := &Hub{
		log:        log,
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan Frame, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// Publish queues a frame for broadcast. If the queue is full the frame is
// dropped: a state feed tolerates a missing frame better than a stalled
// consumer loop.
func (h *Hub) Publish(f Frame) {
	select {
	case h.broadcast <- f:
	case <-h.done:
	default:
	}
}

// Handler upgrades an HTTP request to a websocket subscription. The read loop
// only exists to notice the peer going away.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		select {
		case h.register <- conn:
		case <-h.done:
			conn.Close()
			return
		}
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					select {
					case h.unregister <- conn:
					case <-h.done:
					}
					return
				}
			}
		}()
	}
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client subscribed", zap.Int("clients", n))

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.clients[conn] {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case frame := <-h.broadcast:
			data, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			h.mu.Lock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.mu.Unlock()

			var failed []*websocket.Conn
			for _, conn := range conns {
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					failed = append(failed, conn)
				}
			}
			if len(failed) > 0 {
				h.mu.Lock()
				for _, conn := range failed {
					if h.clients[conn] {
						delete(h.clients, conn)
						conn.Close()
					}
				}
				h.mu.Unlock()
			}
		}
	}
}

// Close disconnects every client and stops the broadcaster.
func (h *Hub) Close() {
	close(h.done)
	h.mu.Lock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	h.wg.Wait()
}
