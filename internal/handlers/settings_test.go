package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurawall/aurawall-api/internal/hub"
	"github.com/aurawall/aurawall-api/internal/models"
)

// fakeSocket captures events broadcast to a stream, standing in for a
// live WebSocket subscriber.
type fakeSocket struct {
	events []hub.Event
}

func (f *fakeSocket) WriteMessage(messageType int, data []byte) error {
	var evt hub.Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return err
	}
	f.events = append(f.events, evt)
	return nil
}

func TestGetSettings_SeededDefaults(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodGet, "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var settings models.Settings
	decode(t, resp, &settings)
	assert.NotEmpty(t, settings.Input.Question)
	assert.NotEmpty(t, settings.Display.QuestionSize)
}

func TestUpdateSettings_FullDocumentOverwrite(t *testing.T) {
	e := newEnv(t)
	token, _ := e.identity(t)

	full := models.UpdateSettingsRequest{
		Input: models.InputSettings{
			Question:    "How did today feel?",
			Subtitle:    "One sentence is enough",
			Placeholder: "Type here",
			ButtonText:  "Share",
			FontFamily:  "serif",
		},
		Display: models.DisplaySettings{
			Question:     "NEW Q",
			Subtitle:     "Tonight's reflections",
			QuestionSize: "96px",
			FontFamily:   "serif",
		},
	}

	resp := e.request(t, http.MethodPut, "/api/settings", token, full)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var settings models.Settings
	resp = e.request(t, http.MethodGet, "/api/settings", "", nil)
	decode(t, resp, &settings)
	assert.Equal(t, "NEW Q", settings.Display.Question)
	assert.Equal(t, full.Input, settings.Input, "no field reverts to defaults")
	assert.Equal(t, full.Display, settings.Display)
}

func TestUpdateSettings_PartialPayloadReplacesWholeDocument(t *testing.T) {
	e := newEnv(t)
	token, _ := e.identity(t)

	// Send only the display group: full-overwrite semantics zero the rest.
	resp := e.request(t, http.MethodPut, "/api/settings", token, map[string]interface{}{
		"display": map[string]string{"question": "ONLY Q"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var settings models.Settings
	resp = e.request(t, http.MethodGet, "/api/settings", "", nil)
	decode(t, resp, &settings)
	assert.Equal(t, "ONLY Q", settings.Display.Question)
	assert.Empty(t, settings.Input.Question, "missing fields are overwritten, not merged")
}

func TestUpdateSettings_BroadcastsToSubscribers(t *testing.T) {
	e := newEnv(t)
	token, _ := e.identity(t)

	socket := &fakeSocket{}
	e.hub.Register(hub.StreamSettings, hub.NewConn(socket))

	resp := e.request(t, http.MethodPut, "/api/settings", token, models.UpdateSettingsRequest{
		Display: models.DisplaySettings{Question: "NEW Q", QuestionSize: "72px"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, socket.events, 1)
	assert.Equal(t, hub.EventSettingsUpdated, socket.events[0].Type)
}

func TestSubmit_BroadcastsMessageCreated(t *testing.T) {
	e := newEnv(t)
	token, _ := e.identity(t)

	socket := &fakeSocket{}
	e.hub.Register(hub.StreamMessages, hub.NewConn(socket))

	ticket := e.submit(t, token, "hello wall")

	require.Len(t, socket.events, 1)
	assert.Equal(t, hub.EventMessageCreated, socket.events[0].Type)

	data, err := json.Marshal(socket.events[0].Data)
	require.NoError(t, err)
	var view models.MessageView
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, ticket.ID, view.ID)
	assert.Equal(t, ticket.Aura, view.Aura)
}

func TestClearAll_BroadcastsCleared(t *testing.T) {
	e := newEnv(t)
	token, _ := e.identity(t)
	e.submit(t, token, "soon gone")

	socket := &fakeSocket{}
	e.hub.Register(hub.StreamMessages, hub.NewConn(socket))

	resp := e.request(t, http.MethodDelete, "/api/messages", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, socket.events, 1)
	assert.Equal(t, hub.EventMessagesCleared, socket.events[0].Type)
}
