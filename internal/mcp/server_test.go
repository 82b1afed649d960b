package mcp

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
)

func TestNewServer_RequiresApp(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)
}

func TestNewServer_RegistersTools(t *testing.T) {
	srv, err := NewServer(&cli.App{CurrentUserID: uuid.New()}, slog.Default())
	require.NoError(t, err)
	assert.NotNil(t, srv)
}

func TestMiddlewareStack_AddsAuthWhenTokenSet(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	open := middlewareStack("", logger)
	assert.Contains(t, buf.String(), "unauthenticated")

	secured := middlewareStack("s3cret", logger)
	assert.Len(t, secured, len(open)+1)
}

func TestFieldLogger_FlattensFields(t *testing.T) {
	var buf bytes.Buffer
	l := fieldLogger{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	l.Warn("tool call")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "msg=\"tool call\"")

	assert.Empty(t, args(nil))
}
