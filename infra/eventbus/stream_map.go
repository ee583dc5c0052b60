package eventbus

import (
	"fmt"
	"strings"
)

// Event types look like "Gold.Invested"; transport names lowercase them.

func streamNameFor(prefix, eventType string) string {
	return nameFor(prefix, "events", eventType)
}

func dlqStreamName(prefix, eventType string) string {
	return nameFor(prefix, "dlq", eventType)
}

func nameFor(prefix, kind, eventType string) string {
	parts := strings.Split(eventType, ".")
	for i := range parts {
		parts[i] = strings.ToLower(parts[i])
	}
	return fmt.Sprintf("%s:%s:%s", prefix, kind, strings.Join(parts, ":"))
}

func topicNameFor(prefix, eventType string) string {
	return fmt.Sprintf("%s.%s", prefix, strings.ToLower(eventType))
}

func dlqTopicNameFor(prefix, eventType string) string {
	return fmt.Sprintf("%s.dlq.%s", prefix, strings.ToLower(eventType))
}
