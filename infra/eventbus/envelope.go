package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/amirasaad/goldvault/pkg/domain/events"
)

// envelope is the wire format shared by the Redis and Kafka transports.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func encode(event events.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", event.Type(), err)
	}
	env, err := json.Marshal(envelope{Type: event.Type(), Payload: data})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope %s: %w", event.Type(), err)
	}
	return env, nil
}

// decode rebuilds the typed event from an envelope using the events registry.
func decode(raw []byte) (events.Event, string, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, "", fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Type == "" {
		return nil, "", fmt.Errorf("envelope without type")
	}
	constructor, ok := events.EventTypes[env.Type]
	if !ok {
		return nil, env.Type, fmt.Errorf("unknown event type %q", env.Type)
	}
	evt := constructor()
	if err := json.Unmarshal(env.Payload, evt); err != nil {
		return nil, env.Type, fmt.Errorf("unmarshal %s payload: %w", env.Type, err)
	}
	return evt, env.Type, nil
}
