package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONWritesStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(&buf).Level(zerolog.InfoLevel)

	logger.Info().Str("collection", "topics").Msg("snapshot loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "topics", entry["collection"])
	assert.Equal(t, "snapshot loaded", entry["message"])
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
}

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	assert.Equal(t, &logger, FromContext(ctx))
}
