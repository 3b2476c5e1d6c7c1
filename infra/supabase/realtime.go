package supabase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
)

// RealtimeClient delivers database change events over a Phoenix-protocol
// websocket. Events are at-least-once; no ordering is guaranteed across
// subscriptions.
type RealtimeClient struct {
	mu       sync.RWMutex
	url      string
	conn     *websocket.Conn
	channels map[string]*Channel
	handlers map[string][]ChangeHandler
	done     chan struct{}
	ref      int
}

// Channel represents one realtime topic subscription.
type Channel struct {
	client  *RealtimeClient
	topic   string
	joined  bool
	joinRef string
}

func newRealtimeClient(realtimeURL, apiKey string) *RealtimeClient {
	return &RealtimeClient{
		url:      realtimeURL + "/websocket?apikey=" + apiKey + "&vsn=1.0.0",
		channels: make(map[string]*Channel),
		handlers: make(map[string][]ChangeHandler),
		done:     make(chan struct{}),
	}
}

// Connect establishes the websocket connection. Calling Connect on a
// connected client is a no-op.
func (r *RealtimeClient) Connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn != nil {
		return nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	r.conn = conn
	r.done = make(chan struct{})

	go r.readLoop()
	go r.heartbeat()

	return nil
}

// Disconnect closes the websocket connection.
func (r *RealtimeClient) Disconnect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		return nil
	}

	close(r.done)

	err := r.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	r.conn.Close()
	r.conn = nil
	if err != nil {
		return fmt.Errorf("close message: %w", err)
	}
	return nil
}

// Channel returns or creates a channel for a topic.
func (r *RealtimeClient) Channel(topic string) *Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, ok := r.channels[topic]; ok {
		return ch
	}

	ch := &Channel{client: r, topic: topic}
	r.channels[topic] = ch
	return ch
}

// SubscribeToChanges joins a postgres_changes topic for one table and invokes
// handler for each matching event.
func (r *RealtimeClient) SubscribeToChanges(ctx context.Context, schema, table string, event ChangeType, handler ChangeHandler) (*Channel, error) {
	if schema == "" {
		schema = "public"
	}
	if event == "" {
		event = ChangeAll
	}

	topic := fmt.Sprintf("realtime:%s:%s", schema, table)
	ch := r.Channel(topic)

	switch event {
	case ChangeAll:
		ch.On(ChangeInsert, handler)
		ch.On(ChangeUpdate, handler)
		ch.On(ChangeDelete, handler)
	default:
		ch.On(event, handler)
	}

	if err := ch.Subscribe(ctx); err != nil {
		return nil, err
	}
	return ch, nil
}

// Subscribe joins the channel's topic.
func (c *Channel) Subscribe(ctx context.Context) error {
	c.client.mu.Lock()
	defer c.client.mu.Unlock()

	if c.joined {
		return nil
	}
	if c.client.conn == nil {
		return fmt.Errorf("realtime client not connected")
	}

	c.client.ref++
	ref := fmt.Sprintf("%d", c.client.ref)
	c.joinRef = ref

	msg := map[string]any{
		"topic":    c.topic,
		"event":    "phx_join",
		"payload":  map[string]any{},
		"ref":      ref,
		"join_ref": ref,
	}
	if err := c.client.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	c.joined = true
	return nil
}

// Unsubscribe leaves the channel's topic and drops its handlers.
func (c *Channel) Unsubscribe(ctx context.Context) error {
	c.client.mu.Lock()
	defer c.client.mu.Unlock()

	if !c.joined {
		return nil
	}

	c.client.ref++
	msg := map[string]any{
		"topic":    c.topic,
		"event":    "phx_leave",
		"payload":  map[string]any{},
		"ref":      fmt.Sprintf("%d", c.client.ref),
		"join_ref": c.joinRef,
	}
	if c.client.conn != nil {
		if err := c.client.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("send leave: %w", err)
		}
	}

	c.joined = false
	delete(c.client.channels, c.topic)
	for _, ev := range []ChangeType{ChangeInsert, ChangeUpdate, ChangeDelete} {
		delete(c.client.handlers, c.topic+":"+string(ev))
	}
	return nil
}

// On registers a handler for one change type on this channel.
func (c *Channel) On(event ChangeType, handler ChangeHandler) *Channel {
	c.client.mu.Lock()
	defer c.client.mu.Unlock()

	key := c.topic + ":" + string(event)
	c.client.handlers[key] = append(c.client.handlers[key], handler)
	return c
}

func (r *RealtimeClient) readLoop() {
	for {
		select {
		case <-r.done:
			return
		default:
		}

		r.mu.RLock()
		conn := r.conn
		r.mu.RUnlock()
		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		r.dispatch(message)
	}
}

// dispatch parses a raw realtime frame and fans it out to the registered
// handlers for its topic and change type.
func (r *RealtimeClient) dispatch(message []byte) {
	frame := gjson.ParseBytes(message)

	topic := frame.Get("topic").String()
	event := frame.Get("event").String()
	if topic == "" || event == "phx_reply" || event == "phx_close" {
		return
	}

	payload := frame.Get("payload")
	changeType := event
	if t := payload.Get("type").String(); t != "" {
		changeType = t
	}

	ev := &ChangeEvent{
		Type:      ChangeType(changeType),
		Schema:    payload.Get("schema").String(),
		Table:     payload.Get("table").String(),
		Timestamp: time.Now().UTC(),
	}
	if record := payload.Get("record"); record.Exists() {
		ev.Record, _ = record.Value().(map[string]interface{})
	}
	if old := payload.Get("old_record"); old.Exists() {
		ev.OldRecord, _ = old.Value().(map[string]interface{})
	}

	r.mu.RLock()
	handlers := r.handlers[topic+":"+changeType]
	r.mu.RUnlock()

	for _, handler := range handlers {
		go handler(ev)
	}
}

func (r *RealtimeClient) heartbeat() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.mu.Lock()
			if r.conn != nil {
				r.ref++
				r.conn.WriteJSON(map[string]any{
					"topic":   "phoenix",
					"event":   "heartbeat",
					"payload": map[string]any{},
					"ref":     fmt.Sprintf("%d", r.ref),
				})
			}
			r.mu.Unlock()
		}
	}
}
