package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/outlndrr-pr/pixel-wars/internal/game"
)

// Broadcaster fans game state out to every connected client. It owns the
// client set through register/unregister channels and is the only writer on
// each connection, guarded by per-conn write locks.
type Broadcaster struct {
	game       *game.Game
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex
	WriteMu    map[*websocket.Conn]*sync.Mutex // per-conn write locks
}

func NewBroadcaster(g *game.Game) *Broadcaster {
	return &Broadcaster{
		game:       g,
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		WriteMu:    make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (b *Broadcaster) Run() {
	gridTicker := time.NewTicker(100 * time.Millisecond) // occupancy frames ~10 fps
	statsTicker := time.NewTicker(5 * time.Second)       // keepalive stats push
	defer func() {
		gridTicker.Stop()
		statsTicker.Stop()
	}()

	for {
		select {
		case conn := <-b.register:
			b.mu.Lock()
			b.clients[conn] = true
			b.WriteMu[conn] = &sync.Mutex{}
			b.mu.Unlock()

			// Initial state: occupancy frame then stats
			grid := b.game.Occupancy()
			b.mu.RLock()
			mu, ok := b.WriteMu[conn]
			b.mu.RUnlock()
			if ok {
				mu.Lock()
				if err := conn.WriteMessage(websocket.BinaryMessage, grid); err != nil {
					log.Println("Initial send error:", err)
					mu.Unlock()
					b.drop(conn)
					continue
				}
				mu.Unlock()
			}
			b.sendStatsTo(conn)

		case conn := <-b.unregister:
			b.drop(conn)

		case <-gridTicker.C:
			b.broadcastBinary(b.game.Occupancy())

		case <-statsTicker.C:
			b.BroadcastStats()
		}
	}
}

func (b *Broadcaster) Register(conn *websocket.Conn) {
	b.register <- conn
}

func (b *Broadcaster) Unregister(conn *websocket.Conn) {
	b.unregister <- conn
}

func (b *Broadcaster) drop(conn *websocket.Conn) {
	b.mu.Lock()
	if _, ok := b.clients[conn]; ok {
		delete(b.clients, conn)
		delete(b.WriteMu, conn)
		conn.Close()
	}
	b.mu.Unlock()
}

func (b *Broadcaster) broadcastBinary(frame []uint8) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for conn := range b.clients {
		mu, ok := b.WriteMu[conn]
		if !ok {
			continue
		}
		mu.Lock()
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			log.Println("Grid broadcast error:", err)
			mu.Unlock()
			// Defer full cleanup to the unregister channel
			go func(c *websocket.Conn) { b.unregister <- c }(conn)
			continue
		}
		mu.Unlock()
	}
}

// BroadcastJSON sends one JSON message to every client.
func (b *Broadcaster) BroadcastJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Println("Broadcast marshal error:", err)
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for conn := range b.clients {
		mu, ok := b.WriteMu[conn]
		if !ok {
			continue
		}
		mu.Lock()
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Println("Broadcast error:", err)
			mu.Unlock()
			go func(c *websocket.Conn) { b.unregister <- c }(conn)
			continue
		}
		mu.Unlock()
	}
}

// BroadcastStats pushes the derived stats view (counts, percentages, events,
// power-ups) to all clients. Also wired as the event scheduler's change
// callback.
func (b *Broadcaster) BroadcastStats() {
	b.BroadcastJSON(statsMessage{Action: "stats", Stats: b.game.Stats()})
}

// BroadcastPixels pushes a pixel delta after accepted writes.
func (b *Broadcaster) BroadcastPixels(pixels []game.Pixel) {
	if len(pixels) == 0 {
		return
	}
	b.BroadcastJSON(pixelsMessage{Action: "pixels", Pixels: pixels})
}

// SendJSONTo writes one message to a single client.
func (b *Broadcaster) SendJSONTo(conn *websocket.Conn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Println("Send marshal error:", err)
		return
	}
	b.mu.RLock()
	mu, ok := b.WriteMu[conn]
	b.mu.RUnlock()
	if !ok {
		return
	}
	mu.Lock()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Println("Send error:", err)
	}
	mu.Unlock()
}

func (b *Broadcaster) sendStatsTo(conn *websocket.Conn) {
	b.SendJSONTo(conn, statsMessage{Action: "stats", Stats: b.game.Stats()})
}

type statsMessage struct {
	Action string `json:"action"`
	game.Stats
}

type pixelsMessage struct {
	Action string       `json:"action"`
	Pixels []game.Pixel `json:"pixels"`
}
