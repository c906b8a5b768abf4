package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketUpgrade_RequiresUpgradeRequest(t *testing.T) {
	e := newEnv(t)

	// A plain GET is not a WebSocket handshake.
	resp := e.request(t, http.MethodGet, "/ws/messages", "", nil)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestSocketUpgrade_RejectsInvalidToken(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/ws/likes?token=not-a-jwt", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
