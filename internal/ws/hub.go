package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is one dashboard message pushed to connected staff clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sent_at"`
}

// Hub fans student activity events out to the connected dashboard
// clients. The flow is one-way: clients only listen.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a hub; call Run in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run owns the client set; all map access happens on this goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[WSHub] dashboard client connected (%d total)", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("[WSHub] dashboard client disconnected (%d total)", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop it rather than block the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}

		case <-h.done:
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Stop disconnects all clients and ends the Run loop.
func (h *Hub) Stop() {
	h.closeOnce.Do(func() { close(h.done) })
}

// NotifyStudentEvent implements service.DashboardNotifier. Events to a
// stopped hub are dropped.
func (h *Hub) NotifyStudentEvent(eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload, SentAt: time.Now()})
	if err != nil {
		log.Printf("[WSHub] failed to marshal %s event: %v", eventType, err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		log.Printf("[WSHub] broadcast buffer full, dropping %s event", eventType)
	}
}
