package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-realtime-api/internal/application/realtime"
)

// TestWelcomeMessage el sobre de bienvenida serializa con timestamp RFC3339
// en string, el mismo formato que los sobres del broadcast.
func TestWelcomeMessage(t *testing.T) {
	msg := welcomeMessage()
	assert.Equal(t, "connection_established", msg.Type)

	_, err := time.Parse(time.RFC3339, msg.Timestamp)
	require.NoError(t, err, "el timestamp de bienvenida debe ser RFC3339")

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded realtime.Message
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, msg.Timestamp, decoded.Timestamp)
}
