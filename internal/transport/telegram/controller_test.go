package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/KotFed0t/stock_sync/internal/model"
	"github.com/KotFed0t/stock_sync/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type fakeSyncService struct {
	report     model.RunReport
	err        error
	last       *model.RunReport
	inProgress bool
	runs       int
}

func (s *fakeSyncService) Run(ctx context.Context) (model.RunReport, error) {
	s.runs++
	return s.report, s.err
}

func (s *fakeSyncService) InProgress() bool {
	return s.inProgress
}

func (s *fakeSyncService) LastReport() (model.RunReport, bool) {
	if s.last == nil {
		return model.RunReport{}, false
	}
	return *s.last, true
}

// botAPI records texts sent through the Bot API.
type botAPI struct {
	mu    sync.Mutex
	texts []string
}

func (a *botAPI) sent() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.texts...)
}

func newContext(t *testing.T, text string) (tele.Context, *botAPI) {
	t.Helper()

	api := &botAPI{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params map[string]any
		_ = json.NewDecoder(r.Body).Decode(&params)

		api.mu.Lock()
		if s, ok := params["text"].(string); ok {
			api.texts = append(api.texts, s)
		}
		api.mu.Unlock()

		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":2,"date":0,"chat":{"id":1,"type":"private"}}}`))
	}))
	t.Cleanup(srv.Close)

	b, err := tele.NewBot(tele.Settings{URL: srv.URL, Token: "token", Offline: true})
	require.NoError(t, err)

	c := b.NewContext(tele.Update{Message: &tele.Message{
		ID:     1,
		Chat:   &tele.Chat{ID: 1, Type: tele.ChatPrivate},
		Sender: &tele.User{ID: 1},
		Text:   text,
	}})
	return c, api
}

func TestController_Sync(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c, api := newContext(t, "/sync")
		srv := &fakeSyncService{}

		require.NoError(t, NewController(srv).Sync(c))

		assert.Equal(t, 1, srv.runs)
		sent := api.sent()
		require.Len(t, sent, 2)
		assert.Equal(t, "Синхронизация завершена успешно", sent[1])
	})

	t.Run("with failures", func(t *testing.T) {
		c, api := newContext(t, "/sync")
		srv := &fakeSyncService{report: model.RunReport{Feed: model.StepResult{Err: errors.New("boom")}}}

		require.NoError(t, NewController(srv).Sync(c))
		assert.Contains(t, api.sent()[1], "с ошибками")
	})

	t.Run("in progress", func(t *testing.T) {
		c, api := newContext(t, "/sync")
		srv := &fakeSyncService{inProgress: true}

		require.NoError(t, NewController(srv).Sync(c))

		assert.Equal(t, 0, srv.runs)
		assert.Equal(t, []string{runInProgressMsg}, api.sent())
	})

	t.Run("lock taken after check", func(t *testing.T) {
		c, api := newContext(t, "/sync")
		srv := &fakeSyncService{err: service.ErrRunInProgress}

		require.NoError(t, NewController(srv).Sync(c))

		sent := api.sent()
		require.Len(t, sent, 2)
		assert.Contains(t, sent[0], "Запрос на синхронизацию принят")
		assert.Equal(t, runInProgressMsg, sent[1])
		assert.NotContains(t, strings.Join(sent, "\n"), "запущена")
	})
}

func TestController_Last(t *testing.T) {
	c, api := newContext(t, "/last")
	srv := &fakeSyncService{}

	require.NoError(t, NewController(srv).Last(c))
	assert.Equal(t, []string{"Синхронизаций ещё не было"}, api.sent())

	c, api = newContext(t, "/last")
	srv.last = &model.RunReport{RunID: "run-7", FeedRecords: 3}

	require.NoError(t, NewController(srv).Last(c))
	require.Len(t, api.sent(), 1)
	assert.Contains(t, api.sent()[0], "run-7")
	assert.Contains(t, api.sent()[0], "строк в фиде: 3")
}

func TestController_LastLongReport(t *testing.T) {
	c, api := newContext(t, "/last")
	srv := &fakeSyncService{last: &model.RunReport{
		RunID: "run-8",
		Feed:  model.StepResult{Err: errors.New(strings.Repeat("ошибка фида ", 1000))},
	}}

	require.NoError(t, NewController(srv).Last(c))

	sent := api.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, MaxMessageLen, utf8.RuneCountInString(sent[0]))
	assert.True(t, strings.HasSuffix(sent[0], "…"))
}
