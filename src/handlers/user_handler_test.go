package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finplan/backend/src/config"
	"github.com/username/finplan/backend/src/database"
	"github.com/username/finplan/backend/src/security"
	_ "modernc.org/sqlite"
)

func setupUserHandler(t *testing.T) *UserHandler {
	t.Helper()
	config.Cfg = &config.AppConfig{AccessTokenExpiry: time.Minute}

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	require.NoError(t, err)

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		db.Close()
	})

	return NewUserHandler(security.NewAuthService("0123456789abcdef0123456789abcdef"))
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, target, &buf))
	return rr
}

func TestRegisterThenLogin(t *testing.T) {
	handler := setupUserHandler(t)

	credentials := map[string]string{
		"username": "asha",
		"email":    "asha@example.com",
		"password": "hunter22",
	}

	rr := postJSON(t, handler.RegisterUserHandler, "/api/auth/register", credentials)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = postJSON(t, handler.LoginUserHandler, "/api/auth/login", credentials)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var reply struct {
		AccessToken string `json:"access_token"`
		User        struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reply))
	assert.NotEmpty(t, reply.AccessToken)
	assert.Equal(t, "asha", reply.User.Username)
}

func TestRegister_Rejections(t *testing.T) {
	handler := setupUserHandler(t)

	cases := map[string]map[string]string{
		"missing username": {"email": "a@example.com", "password": "hunter22"},
		"bad username":     {"username": "a", "email": "a@example.com", "password": "hunter22"},
		"bad email":        {"username": "asha", "email": "not-an-email", "password": "hunter22"},
		"short password":   {"username": "asha", "email": "a@example.com", "password": "abc"},
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := postJSON(t, handler.RegisterUserHandler, "/api/auth/register", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	handler := setupUserHandler(t)

	credentials := map[string]string{"username": "asha", "email": "a@example.com", "password": "hunter22"}
	rr := postJSON(t, handler.RegisterUserHandler, "/api/auth/register", credentials)
	require.Equal(t, http.StatusCreated, rr.Code)

	credentials["email"] = "other@example.com"
	rr = postJSON(t, handler.RegisterUserHandler, "/api/auth/register", credentials)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	handler := setupUserHandler(t)

	rr := postJSON(t, handler.RegisterUserHandler, "/api/auth/register",
		map[string]string{"username": "asha", "email": "a@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(t, handler.LoginUserHandler, "/api/auth/login",
		map[string]string{"username": "asha", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = postJSON(t, handler.LoginUserHandler, "/api/auth/login",
		map[string]string{"username": "nobody", "password": "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
