package kakao_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/angler/internal/config"
	"github.com/cory-johannsen/angler/internal/frontend/kakao"
	"github.com/cory-johannsen/angler/internal/game/command"
	"github.com/cory-johannsen/angler/internal/game/dice"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
	"github.com/cory-johannsen/angler/internal/gameserver"
	"github.com/cory-johannsen/angler/internal/storage"
)

type echoTurns struct {
	mu    sync.Mutex
	calls []string
}

func (e *echoTurns) Handle(_ context.Context, uid, text string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, uid+":"+text)
	return uid + " said " + text
}

type fixedPinger struct{ err error }

func (p fixedPinger) Ping(context.Context) error { return p.err }

var httpCfg = config.HTTPConfig{SkillPath: "/skill"}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, kakao.SkillResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/skill", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp kakao.SkillResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func text(resp kakao.SkillResponse) string {
	if len(resp.Template.Outputs) == 0 {
		return ""
	}
	return resp.Template.Outputs[0].SimpleText.Text
}

func TestSkill_RoutesUtteranceToUser(t *testing.T) {
	turns := &echoTurns{}
	h := kakao.NewRouter(httpCfg, turns, fixedPinger{}, zaptest.NewLogger(t))

	rec, resp := post(t, h, `{"userRequest":{"utterance":" /상태 ","user":{"id":"kakao-42"}}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2.0", resp.Version)
	assert.Equal(t, "kakao-42 said  /상태 ", text(resp))
	assert.NotEmpty(t, rec.Header().Get(kakao.RequestIDHeader))
}

func TestSkill_MissingUserIsAnonymous(t *testing.T) {
	turns := &echoTurns{}
	h := kakao.NewRouter(httpCfg, turns, fixedPinger{}, zaptest.NewLogger(t))

	_, resp := post(t, h, `{"userRequest":{"utterance":"/"}}`)
	assert.Equal(t, "anonymous said /", text(resp))
}

func TestSkill_EmptyOrBrokenPayload(t *testing.T) {
	turns := &echoTurns{}
	h := kakao.NewRouter(httpCfg, turns, fixedPinger{}, zaptest.NewLogger(t))

	for _, body := range []string{`{}`, `not json`, `{"userRequest":{"utterance":""}}`} {
		rec, resp := post(t, h, body)
		assert.Equal(t, http.StatusOK, rec.Code, body)
		assert.Equal(t, "", text(resp), body)
	}
	assert.Empty(t, turns.calls)
}

func TestSkill_PreservesRequestID(t *testing.T) {
	h := kakao.NewRouter(httpCfg, &echoTurns{}, fixedPinger{}, zaptest.NewLogger(t))
	req := httptest.NewRequest(http.MethodPost, "/skill", strings.NewReader(`{}`))
	req.Header.Set(kakao.RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get(kakao.RequestIDHeader))
}

func TestSkill_GetIsNotAllowed(t *testing.T) {
	h := kakao.NewRouter(httpCfg, &echoTurns{}, fixedPinger{}, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/skill", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthz(t *testing.T) {
	ok := kakao.NewRouter(httpCfg, &echoTurns{}, fixedPinger{}, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()
	ok.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	down := kakao.NewRouter(httpCfg, &echoTurns{}, fixedPinger{err: errors.New("down")}, zaptest.NewLogger(t))
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSkill_WithDispatcher(t *testing.T) {
	rules := ruleset.Default()
	clock := gameserver.NewManualClock(time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC))
	logger := zaptest.NewLogger(t)
	store := storage.NewMemory()
	engine := gameserver.NewEngine(rules, dice.NewCryptoSource(), clock, logger)
	d := gameserver.NewDispatcher(engine, store, command.DefaultRegistry(), logger)
	h := kakao.NewRouter(httpCfg, d, store, logger)

	_, resp := post(t, h, `{"userRequest":{"utterance":"/","user":{"id":"u1"}}}`)
	assert.Equal(t, gameserver.WelcomeText, text(resp))

	_, resp = post(t, h, `{"userRequest":{"utterance":"/닉네임 낚시왕","user":{"id":"u1"}}}`)
	assert.Contains(t, text(resp), "낚시왕")

	_, resp = post(t, h, `{"userRequest":{"utterance":"/상태","user":{"id":"u1"}}}`)
	assert.Contains(t, text(resp), "Lv.1")
}
