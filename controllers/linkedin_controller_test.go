package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/cppla/linkpost/config"
	"github.com/cppla/linkpost/middleware"
	"github.com/cppla/linkpost/models"
	"github.com/cppla/linkpost/storage"
	"github.com/cppla/linkpost/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fakeLinkedIn(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"abc","name":"Jane Doe","email":"jane@example.com"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func linkedInRouter(t *testing.T, srv *httptest.Server) (*gin.Engine, *storage.MemStore) {
	t.Helper()
	store := storage.NewMemStore()
	signer, err := utils.NewSessionSigner("secret", time.Hour)
	require.NoError(t, err)

	l := NewLinkedInController(store, utils.NewStateStore(nil), config.AppConfig{
		LinkedInClientID:     "client",
		LinkedInClientSecret: "secret",
		LinkedInRedirectURL:  "http://localhost/api/linkedin/callback",
	})
	l.oauth.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	l.userInfoURL = srv.URL + "/userinfo"

	r := gin.New()
	r.GET("/api/linkedin/callback", l.Callback)
	user := r.Group("/api", middleware.CurrentUser(store, store.DemoUserID(), signer))
	user.GET("/linkedin/connect", l.Connect)
	user.POST("/linkedin/disconnect", l.Disconnect)
	return r, store
}

func call(r *gin.Engine, method, target string, out any) (int, utils.JSONResponse) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	var env struct {
		utils.JSONResponse
		Data json.RawMessage `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	if out != nil && len(env.Data) > 0 {
		_ = json.Unmarshal(env.Data, out)
	}
	return w.Code, env.JSONResponse
}

func TestLinkedInConnectFlow(t *testing.T) {
	srv := fakeLinkedIn(t)
	r, store := linkedInRouter(t, srv)

	var u models.User
	code, _ := call(r, http.MethodPost, "/api/linkedin/disconnect", &u)
	require.Equal(t, http.StatusOK, code)
	require.False(t, u.IsLinkedinConnected)

	var start struct {
		AuthorizationURL string `json:"authorizationUrl"`
		State            string `json:"state"`
	}
	code, _ = call(r, http.MethodGet, "/api/linkedin/connect", &start)
	require.Equal(t, http.StatusOK, code)
	authURL, err := url.Parse(start.AuthorizationURL)
	require.NoError(t, err)
	assert.Equal(t, start.State, authURL.Query().Get("state"))
	assert.Equal(t, "client", authURL.Query().Get("client_id"))

	code, _ = call(r, http.MethodGet, "/api/linkedin/callback?code=good-code&state="+start.State, &u)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, u.IsLinkedinConnected)
	require.NotNil(t, u.LinkedinHandle)
	assert.Equal(t, "@janedoe", *u.LinkedinHandle)

	stored, err := store.GetUserByEmail(storage.DemoEmail)
	require.NoError(t, err)
	assert.True(t, stored.IsLinkedinConnected)

	code, env := call(r, http.MethodGet, "/api/linkedin/callback?code=good-code&state="+start.State, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, 40042, env.Code, "state is single use")
}

func TestLinkedInCallbackFailures(t *testing.T) {
	srv := fakeLinkedIn(t)
	r, _ := linkedInRouter(t, srv)

	code, env := call(r, http.MethodGet, "/api/linkedin/callback?error=user_cancelled_login", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, 40040, env.Code)

	code, env = call(r, http.MethodGet, "/api/linkedin/callback?code=x", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, 40041, env.Code)

	var start struct {
		State string `json:"state"`
	}
	call(r, http.MethodGet, "/api/linkedin/connect", &start)
	code, env = call(r, http.MethodGet, "/api/linkedin/callback?code=bad-code&state="+start.State, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, 40043, env.Code)
}

func TestLinkedInProfileHandle(t *testing.T) {
	assert.Equal(t, "@janedoe", linkedInProfile{Name: "Jane Doe"}.handle())
	assert.Equal(t, "@adalovelace", linkedInProfile{GivenName: "Ada", FamilyName: "Lovelace"}.handle())
	assert.Empty(t, linkedInProfile{}.handle())
}
