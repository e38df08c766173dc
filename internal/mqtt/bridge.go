package mqtt

import (
	"encoding/json"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/AaronLay10/SliderEngine/internal/embed"
	"github.com/AaronLay10/SliderEngine/internal/events"
)

// Conn is the part of Client the bridge uses.
type Conn interface {
	Subscribe(topic string, handler paho.MessageHandler) error
	Publish(topic string, payload []byte) error
	IsConnected() bool
}

// InputSink receives remote commands. *embed.Registry implements it.
type InputSink interface {
	Input(embedID string, cmd embed.Command) (bool, error)
}

// Bridge publishes embed events and forwards input commands to the sink.
type Bridge struct {
	conn   Conn
	topics Topics
	sink   InputSink

	mu         sync.Mutex
	subscribed bool
	sub        events.Subscriber
	done       chan struct{}
	published  int64
	received   int64
}

func NewBridge(conn Conn, topics Topics, sink InputSink) *Bridge {
	return &Bridge{conn: conn, topics: topics, sink: sink}
}

// Subscribe subscribes to the input filter. Safe to call again after a
// reconnect; it re-subscribes only when Reset was called.
func (b *Bridge) Subscribe() error {
	b.mu.Lock()
	if b.subscribed {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	if err := b.conn.Subscribe(b.topics.InputFilter(), b.handleInput); err != nil {
		return err
	}

	b.mu.Lock()
	b.subscribed = true
	b.mu.Unlock()
	return nil
}

// Reset forgets the subscription so the next Subscribe renews it.
func (b *Bridge) Reset() {
	b.mu.Lock()
	b.subscribed = false
	b.mu.Unlock()
}

// Start begins forwarding events that carry an embed_id.
func (b *Bridge) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done != nil {
		return
	}
	b.sub = events.Subscribe()
	b.done = make(chan struct{})
	go b.forward(b.sub, b.done)
}

// Stop ends forwarding and waits for the forwarder to exit.
func (b *Bridge) Stop() {
	b.mu.Lock()
	sub, done := b.sub, b.done
	b.sub, b.done = nil, nil
	b.mu.Unlock()
	if sub == nil {
		return
	}
	events.Unsubscribe(sub)
	<-done
}

// Stats returns the number of events published and commands received.
func (b *Bridge) Stats() (published, received int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.published, b.received
}

func (b *Bridge) forward(sub events.Subscriber, done chan struct{}) {
	defer close(done)
	for e := range sub {
		id := e.Field("embed_id")
		if id == "" || !b.conn.IsConnected() {
			continue
		}
		payload, err := json.Marshal(e)
		if err != nil {
			continue
		}
		if err := b.conn.Publish(b.topics.Events(id), payload); err != nil {
			continue
		}
		b.mu.Lock()
		b.published++
		b.mu.Unlock()
	}
}

func (b *Bridge) handleInput(_ paho.Client, msg paho.Message) {
	id, ok := b.topics.ParseInput(msg.Topic())
	if !ok {
		return
	}
	b.mu.Lock()
	b.received++
	b.mu.Unlock()

	var cmd embed.Command
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		events.Emit("error", "mqtt.error", "invalid input payload", map[string]interface{}{
			"embed_id": id,
			"topic":    msg.Topic(),
			"error":    err.Error(),
		})
		return
	}
	if _, err := b.sink.Input(id, cmd); err != nil {
		events.Emit("error", "mqtt.error", "input rejected", map[string]interface{}{
			"embed_id": id,
			"topic":    msg.Topic(),
			"error":    err.Error(),
		})
	}
}
