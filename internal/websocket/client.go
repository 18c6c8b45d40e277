package websocket

import (
	"context"
	"encoding/json"
	"time"

	"design-memory-be/pkg/memory/agent"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

// Frame types exchanged with the browser.
const (
	FrameConnected        = "connected"
	FrameUserMessage      = "user_message"
	FrameThinking         = "thinking"
	FrameAssistantMessage = "assistant_message"
	FrameError            = "error"
)

// TurnRunner runs one agent turn; *agent.Orchestrator satisfies it.
type TurnRunner interface {
	Turn(ctx context.Context, userId, projectId uuid.UUID, message string) (*agent.TurnResult, error)
}

type inboundFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type outboundFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// AssistantMessage is the data of an assistant_message frame.
type AssistantMessage struct {
	MessageId    uuid.UUID `json:"message_id"`
	Content      string    `json:"content"`
	MetadataJSON string    `json:"metadata_json"`
	CreatedAt    time.Time `json:"created_at"`
}

// Client is one chat session bound to a user and a project.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	UserID    uuid.UUID
	ProjectID uuid.UUID
	Runner    TurnRunner

	// Buffered channel of outbound frames.
	Send chan []byte

	// closed is set, under Hub.mu, when Send has been closed.
	closed bool
}

// readPump reads user frames and runs a turn for each one, in order.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("ChatSession", "Unexpected close", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
			}
			return
		}
		c.HandleFrame(ctx, raw)
	}
}

// HandleFrame processes one inbound frame. Anything that is not a
// user_message with text is ignored.
func (c *Client) HandleFrame(ctx context.Context, raw []byte) {
	var in inboundFrame
	if err := json.Unmarshal(raw, &in); err != nil || in.Type != FrameUserMessage || in.Message == "" {
		return
	}

	c.send(outboundFrame{Type: FrameThinking})

	result, err := c.Runner.Turn(ctx, c.UserID, c.ProjectID, in.Message)
	if err != nil {
		c.Hub.logger.Error("ChatSession", "Turn failed", map[string]interface{}{
			"user_id":    c.UserID,
			"project_id": c.ProjectID,
			"error":      err.Error(),
		})
		c.send(outboundFrame{Type: FrameError, Data: map[string]string{"message": err.Error()}})
		return
	}

	metadata, err := json.Marshal(result.AssistantMetadata)
	if err != nil {
		metadata = []byte("{}")
	}
	data, err := json.Marshal(outboundFrame{Type: FrameAssistantMessage, Data: AssistantMessage{
		MessageId:    result.AssistantMessageId,
		Content:      result.Reply,
		MetadataJSON: string(metadata),
		CreatedAt:    result.AssistantCreatedAt,
	}})
	if err != nil {
		return
	}
	c.Hub.Publish(ctx, c.ProjectID, data)
}

func (c *Client) send(frame outboundFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	c.Hub.mu.RLock()
	defer c.Hub.mu.RUnlock()
	c.trySend(data)
}

// trySend queues data without blocking and reports whether it was queued.
// The caller holds Hub.mu.
func (c *Client) trySend(data []byte) bool {
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// close ends the session's outbound stream. The caller holds Hub.mu for
// writing.
func (c *Client) close() {
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// writePump pumps frames from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
