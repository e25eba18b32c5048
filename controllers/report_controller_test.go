package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/dailybot/config"
	"github.com/teampulse/dailybot/engine"
	"github.com/teampulse/dailybot/messaging"
	"github.com/teampulse/dailybot/storage"
)

type stubMessenger struct {
	members []messaging.Member
}

func (s *stubMessenger) GroupMembers(ctx context.Context, groupID string) ([]messaging.Member, error) {
	return s.members, nil
}

func (s *stubMessenger) OpenDirectChannel(ctx context.Context, userID string) (string, error) {
	return "dm-" + userID, nil
}

func (s *stubMessenger) SendDirect(ctx context.Context, userID string, msg messaging.Message) (string, string, error) {
	return "dm-" + userID, "m1", nil
}

func (s *stubMessenger) SendChannel(ctx context.Context, channelID string, msg messaging.Message) (string, error) {
	return "m1", nil
}

func (s *stubMessenger) EditMessage(ctx context.Context, channelID, messageID string, msg messaging.Message) error {
	return nil
}

func newReportRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := config.AppConfig{GuildID: "team", DailiesChannel: "dailies"}
	sm := &stubMessenger{members: []messaging.Member{
		{ID: "u1", DisplayName: "Ana"},
		{ID: "u2", DisplayName: "Bo"},
	}}
	eng := engine.New(cfg,
		storage.NewScheduleStore(filepath.Join(dir, "schedule.json")),
		storage.NewLedger(filepath.Join(dir, "dailies.json"), time.UTC),
		storage.NewPromptStore(filepath.Join(dir, "messages.json")),
		sm)

	rc := NewReportController(eng, sm, "team")
	r := gin.New()
	r.POST("/reports", rc.Submit)
	r.GET("/reports/today", rc.Today)
	return r
}

func postReport(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitReport(t *testing.T) {
	r := newReportRouter(t)
	body := `{"user_id":"u1","feeling":"good","yesterday":"shipped","today":"reviews"}`

	w := postReport(r, body)
	require.Equal(t, http.StatusOK, w.Code)

	// Same member, same day: rejected, first record kept.
	w = postReport(r, body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitReportValidation(t *testing.T) {
	r := newReportRouter(t)

	w := postReport(r, `{"user_id":"u1","feeling":"good"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTodayCompletionStatus(t *testing.T) {
	r := newReportRouter(t)
	postReport(r, `{"user_id":"u1","feeling":"good","yesterday":"y","today":"t"}`)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/today", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Completed      []string `json:"completed"`
			Pending        []string `json:"pending"`
			CompletionRate float64  `json:"completion_rate"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"u1"}, resp.Data.Completed)
	assert.Equal(t, []string{"u2"}, resp.Data.Pending)
	assert.InDelta(t, 0.5, resp.Data.CompletionRate, 0.001)
}
