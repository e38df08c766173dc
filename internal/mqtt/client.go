package mqtt

import (
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/AaronLay10/SliderEngine/internal/events"
)

const waitTimeout = 10 * time.Second

// Client wraps the Paho MQTT client for the slider engine.
type Client struct {
	client paho.Client
	url    string
	mu     sync.Mutex

	hookMu       sync.Mutex
	onConnect    []func()
	onDisconnect []func(error)
}

// BrokerURL returns url, else MQTT_URL, else the local default.
func BrokerURL(url string) string {
	if url != "" {
		return url
	}
	if env := os.Getenv("MQTT_URL"); env != "" {
		return env
	}
	return "tcp://localhost:1883"
}

// NewClient creates a new MQTT client but does not connect.
func NewClient(url, clientID string) *Client {
	c := &Client{url: BrokerURL(url)}
	opts := paho.NewClientOptions().
		AddBroker(c.url).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second).
		SetOnConnectHandler(func(paho.Client) { c.connected() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) { c.lost(err) })

	c.client = paho.NewClient(opts)
	return c
}

// URL returns the broker the client dials.
func (c *Client) URL() string {
	return c.url
}

// OnConnect registers f to run after every successful (re)connect.
func (c *Client) OnConnect(f func()) {
	c.hookMu.Lock()
	c.onConnect = append(c.onConnect, f)
	c.hookMu.Unlock()
}

func (c *Client) connected() {
	events.Emit("info", "mqtt.connected", "", map[string]interface{}{"broker": c.url})
	c.hookMu.Lock()
	hooks := append([]func(){}, c.onConnect...)
	c.hookMu.Unlock()
	for _, f := range hooks {
		// Paho runs this handler on its own goroutine; subscribing from it
		// must not block the router.
		go f()
	}
}

// OnDisconnect registers f to run when the connection drops.
func (c *Client) OnDisconnect(f func(error)) {
	c.hookMu.Lock()
	c.onDisconnect = append(c.onDisconnect, f)
	c.hookMu.Unlock()
}

func (c *Client) lost(err error) {
	events.Emit("warn", "mqtt.disconnected", err.Error(), map[string]interface{}{"broker": c.url})
	c.hookMu.Lock()
	hooks := append([]func(error){}, c.onDisconnect...)
	c.hookMu.Unlock()
	for _, f := range hooks {
		f(err)
	}
}

// Connect attempts to connect to the broker.
// Returns an error if connection fails, but does not block indefinitely.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := c.client.Connect()
	if !token.WaitTimeout(waitTimeout) {
		return &ConnectTimeoutError{}
	}
	return token.Error()
}

// Subscribe subscribes to a topic with the given handler.
func (c *Client) Subscribe(topic string, handler paho.MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := c.client.Subscribe(topic, 1, handler)
	if !token.WaitTimeout(waitTimeout) {
		return &SubscribeTimeoutError{Topic: topic}
	}
	return token.Error()
}

// Publish sends payload at QoS 0. Notifications are superseded quickly, so
// they are never retained.
func (c *Client) Publish(topic string, payload []byte) error {
	token := c.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(waitTimeout) {
		return &PublishTimeoutError{Topic: topic}
	}
	return token.Error()
}

// Disconnect cleanly disconnects from the broker.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.client.Disconnect(1000)
}

// IsConnected returns true if the client is connected.
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}

// ConnectTimeoutError indicates connection timed out.
type ConnectTimeoutError struct{}

func (e *ConnectTimeoutError) Error() string {
	return "mqtt connect timeout"
}

// SubscribeTimeoutError indicates subscription timed out.
type SubscribeTimeoutError struct {
	Topic string
}

func (e *SubscribeTimeoutError) Error() string {
	return "mqtt subscribe timeout: " + e.Topic
}

// PublishTimeoutError indicates a publish was not acknowledged in time.
type PublishTimeoutError struct {
	Topic string
}

func (e *PublishTimeoutError) Error() string {
	return "mqtt publish timeout: " + e.Topic
}
