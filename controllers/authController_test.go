package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(users *fakeUserRepo) *gin.Engine {
	ctrl := NewAuthController(users)
	router := gin.New()
	router.POST("/api/auth/register", ctrl.Register)
	router.POST("/api/auth/login", ctrl.Login)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegister_DefaultsToCitizen(t *testing.T) {
	users := newFakeUserRepo()
	router := authRouter(users)

	rec := postJSON(router, "/api/auth/register",
		`{"name":"Asha","email":"asha@example.com","password":"secret123","phone":"+15551234567"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got struct {
		Role models.Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.RoleCitizen, got.Role)

	stored, err := users.FindByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.True(t, stored.ComparePassword("secret123"))
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	users := newFakeUserRepo()
	router := authRouter(users)

	body := `{"name":"Asha","email":"asha@example.com","password":"secret123","phone":"+15551234567"}`
	require.Equal(t, http.StatusCreated, postJSON(router, "/api/auth/register", body).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(router, "/api/auth/register", body).Code)
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	users := newFakeUserRepo()
	router := authRouter(users)

	rec := postJSON(router, "/api/auth/register",
		`{"name":"X","email":"x@example.com","password":"secret123","phone":"+1","role":"superuser"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_SetsCookieAndReturnsToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := newFakeUserRepo()
	router := authRouter(users)

	require.Equal(t, http.StatusCreated, postJSON(router, "/api/auth/register",
		`{"name":"Asha","email":"asha@example.com","password":"secret123","phone":"+15551234567"}`).Code)

	rec := postJSON(router, "/api/auth/login",
		`{"email":"asha@example.com","password":"secret123"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Token string `json:"token"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.Token)
	assert.Equal(t, "asha@example.com", got.Email)

	cookies := rec.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == "auth_token" {
			found = true
			assert.Equal(t, got.Token, cookie.Value)
			assert.True(t, cookie.HttpOnly)
		}
	}
	assert.True(t, found, "auth_token cookie not set")
}

func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := newFakeUserRepo()
	router := authRouter(users)

	require.Equal(t, http.StatusCreated, postJSON(router, "/api/auth/register",
		`{"name":"Asha","email":"asha@example.com","password":"secret123","phone":"+15551234567"}`).Code)

	assert.Equal(t, http.StatusUnauthorized, postJSON(router, "/api/auth/login",
		`{"email":"asha@example.com","password":"wrong"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, postJSON(router, "/api/auth/login",
		`{"email":"nobody@example.com","password":"secret123"}`).Code)
}
