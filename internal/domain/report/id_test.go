package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_LocalVsRemote(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	local := NewLocalID(now)
	assert.True(t, local.IsLocal())
	assert.Equal(t, "temp_1700000000000", local.String())

	remote := RemoteID("3f8a2c10-7b44-4b9a-9d2e-1a5c6e7f8a90")
	assert.False(t, remote.IsLocal())

	parsedLocal := ParseID("temp_1700000000000")
	assert.True(t, parsedLocal.IsLocal())
	assert.Equal(t, local, parsedLocal)

	parsedRemote := ParseID("abc-123")
	assert.False(t, parsedRemote.IsLocal())
}

func TestID_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		id   ID
		raw  string
	}{
		{"local", NewLocalID(time.UnixMilli(42)), `"temp_42"`},
		{"remote", RemoteID("srv-1"), `"srv-1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, string(data))

			var back ID
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.id, back)
			assert.Equal(t, tt.id.IsLocal(), back.IsLocal())
		})
	}
}

func TestID_UnmarshalInvalid(t *testing.T) {
	var id ID
	assert.ErrorIs(t, json.Unmarshal([]byte(`42`), &id), ErrInvalidID)
}
