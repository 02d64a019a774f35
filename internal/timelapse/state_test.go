package timelapse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_Allowed(t *testing.T) {
	tests := []struct {
		from State
		ev   Event
		want State
	}{
		{StateIdle, EventStart, StateFetching},
		{StateFetching, EventFetchSucceeded, StateScheduled},
		{StateFetching, EventFetchFailed, StateFailed},
		{StateFetching, EventTokenStale, StateStopped},
		{StateScheduled, EventDelayElapsed, StateFetching},
		{StateScheduled, EventTokenStale, StateStopped},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.ev.String(), func(t *testing.T) {
			got, err := Transition(tt.from, tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_Rejected(t *testing.T) {
	tests := []struct {
		from State
		ev   Event
	}{
		{StateIdle, EventFetchSucceeded},
		{StateFetching, EventStart},
		{StateScheduled, EventFetchFailed},
		{StateStopped, EventDelayElapsed},
		{StateStopped, EventStart},
		{StateFailed, EventStart},
	}
	for _, tt := range tests {
		got, err := Transition(tt.from, tt.ev)
		assert.Error(t, err, "%s on %s", tt.from, tt.ev)
		assert.Equal(t, tt.from, got)
	}
}

func TestState_Terminal(t *testing.T) {
	assert.True(t, StateStopped.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateIdle.Terminal())
	assert.False(t, StateFetching.Terminal())
	assert.False(t, StateScheduled.Terminal())
}

func TestState_MarshalText(t *testing.T) {
	b, err := StateScheduled.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "scheduled", string(b))
	assert.Equal(t, "State(42)", State(42).String())
}

func TestGeneration(t *testing.T) {
	var g Generation
	assert.Equal(t, int64(0), g.Current())

	token := g.Next()
	assert.Equal(t, int64(1), token)
	assert.True(t, g.IsCurrent(token))

	g.Next()
	assert.False(t, g.IsCurrent(token))
	assert.Equal(t, int64(2), g.Current())
}
