package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json output filters below level", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "warn", "json")

		log.Info("hidden")
		log.Warn("shown", "browser_session", "bs-1")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "shown", line["msg"])
		assert.Equal(t, "bs-1", line["browser_session"])
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "debug", "TEXT")
		log.Debug("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})
}
