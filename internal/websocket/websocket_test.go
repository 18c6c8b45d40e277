package websocket_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/pkg/logger"
	"design-memory-be/internal/websocket"
	"design-memory-be/pkg/memory/agent"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	result *agent.TurnResult
	err    error
	calls  []string
}

func (s *stubRunner) Turn(ctx context.Context, userId, projectId uuid.UUID, message string) (*agent.TurnResult, error) {
	s.calls = append(s.calls, message)
	return s.result, s.err
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func startHub(t *testing.T, rdb *redis.Client) *websocket.Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := websocket.NewHub(rdb, logger.NewNopLogger())
	go hub.Run(ctx)
	return hub
}

func next(t *testing.T, c *websocket.Client) frame {
	t.Helper()
	select {
	case raw := <-c.Send:
		var f frame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return frame{}
	}
}

func TestClient_HandleFrame(t *testing.T) {
	hub := startHub(t, nil)
	projectID := uuid.New()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	runner := &stubRunner{result: &agent.TurnResult{
		Reply:              "Here is a warmer take.",
		AssistantMessageId: uuid.New(),
		AssistantCreatedAt: created,
		AssistantMetadata:  entity.MessageMetadata{ActionType: "none"},
	}}

	client := websocket.NewClient(hub, runner, uuid.New(), projectID)
	watcher := websocket.NewClient(hub, runner, uuid.New(), projectID)
	hub.Register(client)
	hub.Register(watcher)
	require.Eventually(t, func() bool { return hub.Sessions(projectID) == 2 }, time.Second, 5*time.Millisecond)

	client.HandleFrame(context.Background(), []byte(`{"type":"user_message","message":"make it warmer"}`))

	assert.Equal(t, websocket.FrameThinking, next(t, client).Type)
	reply := next(t, client)
	assert.Equal(t, websocket.FrameAssistantMessage, reply.Type)

	var msg websocket.AssistantMessage
	require.NoError(t, json.Unmarshal(reply.Data, &msg))
	assert.Equal(t, runner.result.AssistantMessageId, msg.MessageId)
	assert.Equal(t, "Here is a warmer take.", msg.Content)
	assert.Contains(t, msg.MetadataJSON, `"action_type":"none"`)
	assert.True(t, created.Equal(msg.CreatedAt))

	// Other devices on the project see the reply but not the progress frame.
	assert.Equal(t, websocket.FrameAssistantMessage, next(t, watcher).Type)
	assert.Equal(t, []string{"make it warmer"}, runner.calls)
}

func TestClient_HandleFrameIgnoresInvalid(t *testing.T) {
	hub := startHub(t, nil)
	runner := &stubRunner{}
	client := websocket.NewClient(hub, runner, uuid.New(), uuid.New())

	for _, raw := range []string{`not json`, `{"type":"ping"}`, `{"type":"user_message"}`, `{"type":"user_message","message":""}`} {
		client.HandleFrame(context.Background(), []byte(raw))
	}
	assert.Empty(t, runner.calls)
	assert.Len(t, client.Send, 0)
}

func TestClient_HandleFrameError(t *testing.T) {
	hub := startHub(t, nil)
	runner := &stubRunner{err: errors.New("project not found")}
	client := websocket.NewClient(hub, runner, uuid.New(), uuid.New())

	client.HandleFrame(context.Background(), []byte(`{"type":"user_message","message":"hi"}`))

	assert.Equal(t, websocket.FrameThinking, next(t, client).Type)
	f := next(t, client)
	assert.Equal(t, websocket.FrameError, f.Type)
	assert.JSONEq(t, `{"message":"project not found"}`, string(f.Data))
}

func TestHub_ClusterFanOut(t *testing.T) {
	mr := miniredis.RunT(t)
	newClient := func() *redis.Client {
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { rdb.Close() })
		return rdb
	}

	origin := startHub(t, newClient())
	remote := startHub(t, newClient())

	projectID := uuid.New()
	listener := websocket.NewClient(remote, &stubRunner{}, uuid.New(), projectID)
	remote.Register(listener)

	received := func() bool {
		origin.Publish(context.Background(), projectID, []byte(`{"type":"assistant_message"}`))
		select {
		case raw := <-listener.Send:
			return string(raw) == `{"type":"assistant_message"}`
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}
	assert.Eventually(t, received, 2*time.Second, 10*time.Millisecond)
}

// drained reads c.Send until the hub closes it.
func drained(t *testing.T, c *websocket.Client) bool {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-c.Send:
			if !ok {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

func TestHub_PublishWhileSessionsLeave(t *testing.T) {
	hub := startHub(t, nil)
	projectID := uuid.New()

	runner := &stubRunner{err: errors.New("turn failed")}
	clients := make([]*websocket.Client, 20)
	for i := range clients {
		clients[i] = websocket.NewClient(hub, runner, uuid.New(), projectID)
		require.True(t, hub.Register(clients[i]))
	}
	require.Eventually(t, func() bool { return hub.Sessions(projectID) == len(clients) }, time.Second, 5*time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			hub.Publish(context.Background(), projectID, []byte(`{"type":"assistant_message"}`))
		}
	}()
	go func() {
		defer wg.Done()
		for _, c := range clients {
			hub.Unregister(c)
		}
	}()
	wg.Wait()

	assert.Equal(t, 0, hub.Sessions(projectID))
	for _, c := range clients {
		assert.True(t, drained(t, c))
	}

	// A session that already left is skipped rather than written to.
	hub.Publish(context.Background(), projectID, []byte(`{"type":"assistant_message"}`))
	clients[0].HandleFrame(context.Background(), []byte(`{"type":"user_message","message":"hi"}`))
	assert.Equal(t, []string{"hi"}, runner.calls)
}

func TestHub_StopReleasesSessions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := websocket.NewHub(nil, logger.NewNopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	projectID := uuid.New()
	live := websocket.NewClient(hub, &stubRunner{}, uuid.New(), projectID)
	require.True(t, hub.Register(live))
	require.Eventually(t, func() bool { return hub.Sessions(projectID) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	assert.True(t, drained(t, live))
	assert.Equal(t, 0, hub.Sessions(projectID))

	done := make(chan bool)
	go func() {
		hub.Unregister(live)
		done <- hub.Register(websocket.NewClient(hub, &stubRunner{}, uuid.New(), projectID))
	}()
	select {
	case registered := <-done:
		assert.False(t, registered)
	case <-time.After(time.Second):
		t.Fatal("register blocked on a stopped hub")
	}
}
