package cmd

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chatview-go/chatroom"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConnect_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s, err := parseSettings([]string{"CHATVIEW_URL=" + url, "CHATVIEW_HANDSHAKE_TIMEOUT=2s"}, nil)
	require.NoError(t, err)

	err = connect(context.Background(), dial(s, discardLogger()), s.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot reach "+url)
	assert.Equal(t, chatroom.ErrorConnection, chatroom.CodeOf(err))

	var cfgErr *configError
	assert.NotErrorAs(t, err, &cfgErr)
}

func TestConnect_InvalidConfig(t *testing.T) {
	s := Settings{URL: "http://localhost:1", Protocol: "xmpp", HandshakeTimeout: time.Second}
	err := connect(context.Background(), dial(s, discardLogger()), s.URL)
	var cfgErr *configError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, chatroom.ErrorInvalidConfig, chatroom.CodeOf(err))
}
