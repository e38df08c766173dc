package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AaronLay10/SliderEngine/internal/logger"
)

var buffer = NewRingBuffer(256)

var (
	log   *logger.Logger
	logMu sync.RWMutex

	totalCount atomic.Int64
)

// SetLogger routes non-transient events to l. A nil logger disables
// logging.
func SetLogger(l *logger.Logger) {
	logMu.Lock()
	log = l
	logMu.Unlock()
}

type Event struct {
	Timestamp string                 `json:"ts"`
	Level     string                 `json:"level"`
	Name      string                 `json:"event"`
	Message   string                 `json:"msg,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Field returns the string value of a field, or "" if absent.
func (e Event) Field(key string) string {
	if e.Fields == nil {
		return ""
	}
	if s, ok := e.Fields[key].(string); ok {
		return s
	}
	return ""
}

func Emit(level, name, msg string, fields map[string]interface{}) ([]byte, error) {
	if err := Validate(name); err != nil {
		return nil, err
	}

	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Name:      name,
		Message:   msg,
		Fields:    fields,
	}

	if !IsTransient(name) {
		buffer.Add(e)
		totalCount.Add(1)
		logEvent(e)
	}
	broadcast(e)

	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return b, nil
}

func logEvent(e Event) {
	logMu.RLock()
	l := log
	logMu.RUnlock()
	if l == nil {
		return
	}

	kv := make([]interface{}, 0, 2+2*len(e.Fields))
	kv = append(kv, "event", e.Name)
	for k, v := range e.Fields {
		kv = append(kv, k, v)
	}
	msg := e.Message
	if msg == "" {
		msg = e.Name
	}
	switch e.Level {
	case "error":
		l.Error(msg, kv...)
	case "warn":
		l.Warn(msg, kv...)
	case "debug":
		l.Debug(msg, kv...)
	default:
		l.Info(msg, kv...)
	}
}

func Snapshot() []Event {
	return buffer.Snapshot()
}

// ForEmbed returns the buffered events carrying the given embed_id.
func ForEmbed(embedID string) []Event {
	return buffer.Filter(func(e Event) bool { return e.Field("embed_id") == embedID })
}

// TotalCount returns the number of buffered events emitted since startup.
func TotalCount() int64 {
	return totalCount.Load()
}

// Clear resets the event buffer. Used for testing.
func Clear() {
	buffer.Clear()
}
