package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aurawall/aurawall-api/internal/classifier"
	"github.com/aurawall/aurawall-api/internal/database"
	"github.com/aurawall/aurawall-api/internal/handlers"
	"github.com/aurawall/aurawall-api/internal/hub"
	"github.com/aurawall/aurawall-api/internal/models"
	"github.com/aurawall/aurawall-api/internal/routes"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "test-secret"

// stubClassifier returns a canned result; degraded simulates an
// unreachable endpoint (random vector path).
type stubClassifier struct {
	scores   models.Scores
	degraded bool
}

func (s *stubClassifier) Classify(ctx context.Context, text string) classifier.Result {
	return classifier.Result{Scores: s.scores, Degraded: s.degraded}
}

type env struct {
	app *fiber.App
	db  *gorm.DB
	hub *hub.Hub
	cl  *stubClassifier
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	// One writer at a time keeps the in-memory SQLite driver happy when
	// tests fire concurrent requests.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	log := zap.NewNop()
	liveHub := hub.New(log)
	cl := &stubClassifier{scores: models.Scores{Positive: 60, Calm: 20, Energetic: 15, Deep: 5}}

	app := fiber.New()
	routes.Setup(app, routes.Deps{
		Auth:     handlers.NewAuthHandler(db, testSecret, log),
		Messages: handlers.NewMessageHandler(db, liveHub, cl, log),
		Likes:    handlers.NewLikeHandler(db, liveHub, log),
		Settings: handlers.NewSettingsHandler(db, liveHub, log),
		Stats:    handlers.NewStatsHandler(db, log),
		Socket:   handlers.NewSocketHandler(db, liveHub, testSecret, log),
		Secret:   testSecret,
	})

	return &env{app: app, db: db, hub: liveHub, cl: cl}
}

func (e *env) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// identity mints an anonymous identity and returns its token and id.
func (e *env) identity(t *testing.T) (string, string) {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/auth/anonymous", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth models.AuthResponse
	decode(t, resp, &auth)
	return auth.Token, auth.Visitor.ID.String()
}

// submit creates a message as the given identity and returns the ticket.
func (e *env) submit(t *testing.T, token, text string) models.Ticket {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/messages", token, models.CreateMessageRequest{Text: text})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var ticket models.Ticket
	decode(t, resp, &ticket)
	return ticket
}
