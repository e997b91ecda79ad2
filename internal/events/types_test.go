package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/types"
)

func TestSubscribeMessage_Matches(t *testing.T) {
	tests := []struct {
		name      string
		subscribe string
		event     string
		want      bool
	}{
		{"all projects", "", "p1", true},
		{"broadcast event", "p1", "", true},
		{"same project", "p1", "p1", true},
		{"other project", "p1", "p2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := SubscribeMessage{ProjectID: types.ProjectID(tt.subscribe)}
			event := Event{Type: EventProjectChanged, ProjectID: types.ProjectID(tt.event)}
			assert.Equal(t, tt.want, sub.Matches(event))
		})
	}
}

func TestMessage_WireShape(t *testing.T) {
	event := Event{Type: EventProjectChanged, ProjectID: "p1", SequenceID: 7}
	msg := Message{Version: ProtocolVersion, Type: MsgEvent, Event: &event}

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "event", generic["type"])
	assert.EqualValues(t, 1, generic["v"])
	assert.NotContains(t, generic, "subscribe")

	inner := generic["event"].(map[string]any)
	assert.Equal(t, "project_changed", inner["type"])
	assert.Equal(t, "p1", inner["projectId"])
	assert.EqualValues(t, 7, inner["seq"])
}
