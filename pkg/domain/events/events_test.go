package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypes_Registry(t *testing.T) {
	for name, ctor := range events.EventTypes {
		assert.Equal(t, name, ctor().Type())
	}
	assert.Len(t, events.EventTypes, 6)
}

func TestGoldSold_DecodesThroughRegistry(t *testing.T) {
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	in := &events.GoldSold{
		LedgerEvent:  events.NewLedgerEvent(uuid.New(), uuid.New(), "01JNE8", at),
		Grams:        "0.010000",
		Proceeds:     "220.00",
		PricePerGram: "22000.00",
	}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	out := events.EventTypes[in.Type()]()
	require.NoError(t, json.Unmarshal(raw, out))
	assert.Equal(t, in, out)
}
