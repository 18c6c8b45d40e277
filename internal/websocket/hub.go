package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"design-memory-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries project frames between server instances.
const ClusterChannel = "design_chat_events"

type clusterFrame struct {
	Origin    string          `json:"origin"`
	ProjectID uuid.UUID       `json:"project_id"`
	Message   json.RawMessage `json:"message"`
}

// Hub tracks the chat sessions open on each project so every device
// watching a project sees the assistant's replies.
type Hub struct {
	// Registered clients: ProjectID -> sessions (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	// done is closed once Run has returned.
	done chan struct{}

	// mu guards clients and every Client.closed; a session's Send channel is
	// only written or closed while holding it.
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out; nil keeps the hub local.
	rdb *redis.Client
	// instance tags frames this hub published so it skips its own echoes.
	instance string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instance:   uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ProjectID] = append(h.clients[client.ProjectID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Chat session registered", map[string]interface{}{
				"user_id":    client.UserID,
				"project_id": client.ProjectID,
			})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.ProjectID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.ProjectID] = append(clients[:i], clients[i+1:]...)
			client.close()
			break
		}
	}
	if len(h.clients[client.ProjectID]) == 0 {
		delete(h.clients, client.ProjectID)
	}
}

// closeAll ends every session so their write pumps hang up.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for projectID, clients := range h.clients {
		for _, c := range clients {
			c.close()
		}
		delete(h.clients, projectID)
	}
}

// Unregister removes a session. It returns at once when the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Sessions reports how many local sessions are open on a project.
func (h *Hub) Sessions(projectID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[projectID])
}

// Publish delivers a frame to every local session on the project and, when
// Redis is configured, to the other instances.
func (h *Hub) Publish(ctx context.Context, projectID uuid.UUID, data []byte) {
	h.deliver(projectID, data)

	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(clusterFrame{Origin: h.instance, ProjectID: projectID, Message: data})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(ctx, ClusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to publish frame to cluster", map[string]interface{}{
			"project_id": projectID,
			"error":      err.Error(),
		})
	}
}

func (h *Hub) deliver(projectID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[projectID] {
		if !client.trySend(data) {
			h.logger.Warn("Hub", "Session send buffer full, dropping frame", map[string]interface{}{
				"project_id": projectID,
				"user_id":    client.UserID,
			})
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var frame clusterFrame
		if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
			h.logger.Warn("Hub", "Invalid cluster frame", map[string]interface{}{"error": err.Error()})
			continue
		}
		if frame.Origin == h.instance {
			continue
		}
		h.deliver(frame.ProjectID, frame.Message)
	}
}
