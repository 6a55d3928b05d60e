package action

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Call is the webhook payload sent by the dialogue runtime.
type Call struct {
	NextAction string          `json:"next_action"`
	SenderID   string          `json:"sender_id"`
	Tracker    Tracker         `json:"tracker"`
	Domain     json.RawMessage `json:"domain,omitempty"`
	Version    string          `json:"version,omitempty"`
}

// Tracker is the read-only conversation snapshot for one turn.
type Tracker struct {
	SenderID      string         `json:"sender_id"`
	Slots         map[string]any `json:"slots"`
	LatestMessage Message        `json:"latest_message"`
	Events        []Event        `json:"events"`
}

// Message is the latest user message with its extracted entities.
type Message struct {
	Text     string   `json:"text"`
	Intent   Intent   `json:"intent"`
	Entities []Entity `json:"entities"`
}

// Intent is the classified intent of a message.
type Intent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Entity is a value extracted from the user message.
type Entity struct {
	Entity string `json:"entity"`
	Value  any    `json:"value"`
}

// Event is one entry of the conversation history. Only the fields used here are decoded.
type Event struct {
	Event     string  `json:"event"`
	Text      string  `json:"text,omitempty"`
	Name      string  `json:"name,omitempty"`
	Value     any     `json:"value,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty"`
}

const (
	EventUser = "user"
	EventBot  = "bot"
	EventSlot = "slot"
)

// Response is one reply segment delivered back to the user.
type Response struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

// SlotSet instructs the runtime to persist a slot value.
type SlotSet struct {
	Name  string
	Value any
}

// Result is what an action produces for one invocation.
type Result struct {
	Responses []Response
	Slots     []SlotSet
}

// Reply is the webhook response body.
type Reply struct {
	Events    []Event    `json:"events"`
	Responses []Response `json:"responses"`
}

// ToReply converts a result into the wire shape expected by the runtime.
func (r Result) ToReply() Reply {
	events := make([]Event, 0, len(r.Slots))
	for _, s := range r.Slots {
		events = append(events, Event{Event: EventSlot, Name: s.Name, Value: s.Value, Timestamp: float64(time.Now().Unix())})
	}
	responses := r.Responses
	if responses == nil {
		responses = []Response{}
	}
	return Reply{Events: events, Responses: responses}
}

// Request is the per-invocation view handed to an action.
type Request struct {
	Action   string
	SenderID string
	Tracker  Tracker
}

// NewRequest builds a Request from the webhook payload.
func NewRequest(call Call) Request {
	sender := call.SenderID
	if sender == "" {
		sender = call.Tracker.SenderID
	}
	return Request{Action: call.NextAction, SenderID: sender, Tracker: call.Tracker}
}

// LatestEntity returns the first value of the named entity in the latest message.
func (r Request) LatestEntity(name string) (string, bool) {
	for _, e := range r.Tracker.LatestMessage.Entities {
		if e.Entity != name || e.Value == nil {
			continue
		}
		value := strings.TrimSpace(stringify(e.Value))
		if value == "" {
			continue
		}
		return value, true
	}
	return "", false
}

// EntityOr returns the entity value or the given default.
func (r Request) EntityOr(name, fallback string) string {
	if v, ok := r.LatestEntity(name); ok {
		return v
	}
	return fallback
}

// Slot returns the raw slot value.
func (r Request) Slot(name string) (any, bool) {
	if r.Tracker.Slots == nil {
		return nil, false
	}
	v, ok := r.Tracker.Slots[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// DecodeSlot re-encodes a slot value into dst. It reports false when the slot is unset.
func (r Request) DecodeSlot(name string, dst any) (bool, error) {
	raw, ok := r.Slot(name)
	if !ok {
		return false, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return false, fmt.Errorf("encode slot %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode slot %s: %w", name, err)
	}
	return true, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
