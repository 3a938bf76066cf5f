package socket

import (
	"encoding/json"
	"sync"

	"bloglist/pkg/logger"
)

const (
	CreatedType = "CREATED" // A document was added to a collection
	UpdatedType = "UPDATED" // A document was replaced
	DeletedType = "DELETED" // A document was removed

	ResourceBlogs = "blogs"
	ResourceNotes = "notes"
)

// Event describes a committed write on one of the collections.
type Event struct {
	Type     string          `json:"type"`
	Resource string          `json:"resource"`
	ID       string          `json:"id"`
	UserID   string          `json:"user_id,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an event with v encoded as its payload.
func NewEvent(typ, resource, id, userID string, v interface{}) Event {
	ev := Event{Type: typ, Resource: resource, ID: id, UserID: userID}
	if v != nil {
		payload, err := json.Marshal(v)
		if err != nil {
			logger.Sugar.Errorf("Failed to encode %s event payload for %s/%s: %v", typ, resource, id, err)
		} else {
			ev.Payload = payload
		}
	}
	return ev
}

// Hub fans events out to every client subscribed to the event's resource.
type Hub struct {
	Rooms      map[string]map[*Client]bool
	Broadcast  chan Event
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Rooms:      make(map[string]map[*Client]bool),
		Broadcast:  make(chan Event, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Publish hands ev to the hub. It never blocks a request: when the
// broadcast queue is full the event is dropped and logged.
func (h *Hub) Publish(ev Event) {
	select {
	case h.Broadcast <- ev:
	default:
		logger.Sugar.Warnf("Broadcast queue full, dropping %s event for %s/%s", ev.Type, ev.Resource, ev.ID)
	}
}

// Stop makes Run return.
func (h *Hub) Stop() {
	close(h.done)
}

// Subscribers reports how many clients listen on resource.
func (h *Hub) Subscribers(resource string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Rooms[resource])
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for resource, clients := range h.Rooms {
				for client := range clients {
					close(client.Send)
				}
				delete(h.Rooms, resource)
			}
			h.mu.Unlock()
			return

		case client := <-h.Register:
			h.mu.Lock()
			if h.Rooms[client.Resource] == nil {
				h.Rooms[client.Resource] = make(map[*Client]bool)
			}
			h.Rooms[client.Resource][client] = true
			h.mu.Unlock()
			logger.Sugar.Debugf("User %s subscribed to %s", client.UserID, client.Resource)

		case client := <-h.Unregister:
			h.remove(client)

		case ev := <-h.Broadcast:
			payload, err := json.Marshal(ev)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast event: %v", err)
				continue
			}

			// Collect recipients first so no I/O happens under the lock.
			h.mu.Lock()
			clientsToSend := make([]*Client, 0, len(h.Rooms[ev.Resource]))
			for client := range h.Rooms[ev.Resource] {
				clientsToSend = append(clientsToSend, client)
			}
			h.mu.Unlock()

			for _, client := range clientsToSend {
				select {
				case client.Send <- payload:
				default:
					logger.Sugar.Warnf("Client %s's send buffer is full. Unregistering.", client.UserID)
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.Rooms[client.Resource][client]; ok {
		delete(h.Rooms[client.Resource], client)
		close(client.Send)
		if len(h.Rooms[client.Resource]) == 0 {
			delete(h.Rooms, client.Resource)
		}
	}
}
