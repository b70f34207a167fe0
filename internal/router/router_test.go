package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/config"
	"expense-ledger/internal/database"
	"expense-ledger/internal/forecast"
	"expense-ledger/internal/logger"
	"expense-ledger/internal/service"
	"expense-ledger/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	suite.Suite
	engine *gin.Engine
	token  string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(s.T().TempDir(), "api.db")},
		JWT:      config.JWTConfig{Secret: "router-test", Algorithm: "HS256", ExpireMinutes: 30},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	db, err := database.Init(cfg.Database, nil)
	s.Require().NoError(err)
	s.Require().NoError(database.AutoMigrate(db))
	s.T().Cleanup(func() { _ = database.Close(db) })

	tokens, err := auth.NewTokenService(cfg.JWT)
	s.Require().NoError(err)
	st := store.New(db)
	log := logger.Nop()

	s.engine = SetupRouter(cfg, Deps{
		DB:       db,
		Users:    service.NewUserService(st, auth.NewHasher(4), tokens, log),
		Ledger:   service.NewLedgerService(st, forecast.NewEstimator(), log),
		Log:      log,
		TokenTTL: tokens.TTL(),
	})

	s.do(http.MethodPost, "/sign-up", `{"email":"alice@example.com","username":"alice","password":"secret"}`, http.StatusCreated)
	s.token = s.login("alice", "secret")
}

func (s *RouterSuite) login(username, password string) string {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("bearer", body["token_type"])
	return body["access_token"].(string)
}

// do sends a request with the suite's token and checks the status code.
func (s *RouterSuite) do(method, path, body string, wantStatus int) map[string]interface{} {
	w := s.raw(method, path, body, s.token)
	s.Require().Equal(wantStatus, w.Code, "%s %s: %s", method, path, w.Body.String())
	var out map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *RouterSuite) raw(method, path, body, token string) *httptest.ResponseRecorder {
	var r *bytes.Reader
	if body != "" {
		r = bytes.NewReader([]byte(body))
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) TestHealth() {
	out := s.do(http.MethodGet, "/healthz", "", http.StatusOK)
	s.Equal("ok", out["status"])
	out = s.do(http.MethodGet, "/readyz", "", http.StatusOK)
	s.Equal("ready", out["status"])
}

func (s *RouterSuite) TestProfile() {
	out := s.do(http.MethodGet, "/profile", "", http.StatusOK)
	s.Equal("hello there alice", out["message"])
}

func (s *RouterSuite) TestUnauthorized() {
	for _, token := range []string{"", "garbage"} {
		w := s.raw(http.MethodGet, "/list-accounts", "", token)
		s.Equal(http.StatusUnauthorized, w.Code)
		s.Equal("Bearer", w.Header().Get("WWW-Authenticate"))
	}

	forms := []url.Values{
		{"username": {"alice"}, "password": {"wrong"}},
		{"username": {"alice"}},
		{"password": {"secret"}},
		{},
	}
	for _, form := range forms {
		req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		s.Equal(http.StatusUnauthorized, w.Code, "form %v", form)
		s.Equal("Bearer", w.Header().Get("WWW-Authenticate"))
	}
}

func (s *RouterSuite) TestDuplicateSignUp() {
	out := s.do(http.MethodPost, "/sign-up", `{"email":"new@example.com","username":"alice","password":"x"}`, http.StatusConflict)
	s.Equal("failed", out["status"])
}

func (s *RouterSuite) TestAccountAndExpenseFlow() {
	out := s.do(http.MethodGet, "/list-accounts", "", http.StatusOK)
	s.Equal("You have got no accounts yet", out["message"])

	s.do(http.MethodPost, "/new-account", `{"account_name":"groceries","balance":100}`, http.StatusCreated)
	s.do(http.MethodPost, "/new-account", `{"account_name":"groceries","balance":5}`, http.StatusConflict)
	s.do(http.MethodPost, "/new-account", `{"account_name":"bad","balance":-1}`, http.StatusBadRequest)

	s.do(http.MethodPost, "/new-expense", `{"amount":40,"account_name":"groceries","notes":"week1"}`, http.StatusCreated)
	s.do(http.MethodPost, "/new-expense", `{"amount":70,"account_name":"groceries"}`, http.StatusUnprocessableEntity)
	s.do(http.MethodPost, "/new-expense", `{"amount":0,"account_name":"groceries"}`, http.StatusBadRequest)
	s.do(http.MethodPost, "/new-expense", `{"amount":"1.50","account_name":"missing"}`, http.StatusNotFound)

	out = s.do(http.MethodGet, "/list-accounts", "", http.StatusOK)
	s.Equal("Your accounts", out["message"])
	data := out["data"].([]interface{})
	s.Require().Len(data, 1)
	s.Equal(60.0, data[0].(map[string]interface{})["balance"])

	s.do(http.MethodPut, "/update-balance?account_name=groceries&amount=15.5", "", http.StatusOK)
	s.do(http.MethodPut, "/update-balance?account_name=groceries&amount=0", "", http.StatusBadRequest)
	s.do(http.MethodPut, "/update-balance?account_name=nope&amount=1", "", http.StatusNotFound)

	out = s.do(http.MethodGet, "/list-accounts", "", http.StatusOK)
	s.Equal(75.5, out["data"].([]interface{})[0].(map[string]interface{})["balance"])

	out = s.do(http.MethodGet, "/expenses-history", "", http.StatusOK)
	s.Equal("Your payment history", out["message"])
	rows := out["data"].([]interface{})
	s.Require().Len(rows, 1)
	row := rows[0].(map[string]interface{})
	s.Equal(40.0, row["amount"])
	s.Equal("week1", row["note"])
	s.Equal("groceries", row["account_name"])

	out = s.do(http.MethodGet, "/expenses-history?account=groceries", "", http.StatusOK)
	s.Equal("groceries payment history!", out["message"])
	_, hasAccount := out["data"].([]interface{})[0].(map[string]interface{})["account_name"]
	s.False(hasAccount)

	out = s.do(http.MethodGet, "/total-expense?days=7", "", http.StatusOK)
	s.Equal("Your Total expense since last 7 days!", out["message"])
	s.Equal(40.0, out["amount"])
	s.do(http.MethodGet, "/total-expense?days=-1", "", http.StatusBadRequest)
	s.do(http.MethodGet, "/total-expense?days=7&accountName=missing", "", http.StatusNotFound)

	out = s.do(http.MethodGet, "/tell-expense-rate?accountName=groceries", "", http.StatusOK)
	s.Equal("Not enough data", out["message"])
	s.do(http.MethodGet, "/tell-expense-rate?accountName=missing", "", http.StatusNotFound)
}

func (s *RouterSuite) TestExpenseHistoryByDate() {
	s.do(http.MethodPost, "/new-account", `{"account_name":"cash","balance":"50"}`, http.StatusCreated)
	s.do(http.MethodPost, "/new-expense", `{"amount":5,"account_name":"cash"}`, http.StatusCreated)

	day := 24 * time.Hour
	start := time.Now().Add(-day).Format(time.RFC3339)
	end := time.Now().Add(day).Format(time.RFC3339)
	q := url.Values{"start": {start}, "end": {end}}
	out := s.do(http.MethodGet, "/expense-history-date?"+q.Encode(), "", http.StatusOK)
	s.Equal("1 records", out["message"])

	q = url.Values{"start": {"2000-01-01"}, "end": {"2000-01-02"}}
	out = s.do(http.MethodGet, "/expense-history-date?"+q.Encode(), "", http.StatusOK)
	s.Equal("No Records!", out["message"])
	s.Empty(out["data"])

	q = url.Values{"start": {end}, "end": {start}}
	s.do(http.MethodGet, "/expense-history-date?"+q.Encode(), "", http.StatusBadRequest)
	s.do(http.MethodGet, "/expense-history-date?start=yesterday&end=today", "", http.StatusBadRequest)
}

func (s *RouterSuite) TestExports() {
	s.do(http.MethodPost, "/new-account", `{"account_name":"cash","balance":50}`, http.StatusCreated)
	s.do(http.MethodPost, "/new-expense", `{"amount":12.34,"account_name":"cash","notes":"lunch"}`, http.StatusCreated)

	w := s.raw(http.MethodGet, "/export/csv", "", s.token)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Type"), "text/csv")
	s.Contains(w.Header().Get("Content-Disposition"), "attachment")
	s.Contains(w.Body.String(), "12.34")

	w = s.raw(http.MethodGet, "/export/xlsx?account=cash", "", s.token)
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	// downloads may pass the token as a query parameter
	w = s.raw(http.MethodGet, "/export/pdf?token="+url.QueryEscape(s.token), "", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func (s *RouterSuite) TestRequestIDHeader() {
	w := s.raw(http.MethodGet, "/healthz", "", "")
	s.NotEmpty(w.Header().Get("X-Request-ID"))
}

func TestCORSConfig(t *testing.T) {
	_, ok := corsConfig(nil)
	assert.False(t, ok)

	c, ok := corsConfig([]string{"*"})
	require.True(t, ok)
	assert.True(t, c.AllowAllOrigins)
	assert.Empty(t, c.AllowOrigins)

	c, ok = corsConfig([]string{"http://localhost:3000"})
	require.True(t, ok)
	assert.False(t, c.AllowAllOrigins)
	assert.Equal(t, []string{"http://localhost:3000"}, c.AllowOrigins)
}
