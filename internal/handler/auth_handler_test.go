package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/inzone-go-api/internal/dto"
)

func registerStudent(t *testing.T, app *fiber.App) {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/api/v1/students", `{"first_name":"Grace","last_name":"Hopper","email":"grace@example.com","password":"cobol-forever"}`)
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
}

func TestAuthHandlerLogin(t *testing.T) {
	app := newHandlerTestApp(t)
	registerStudent(t, app)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/login", `{"email":"Grace@Example.com","password":"cobol-forever"}`)
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))

	var payload dto.LoginResponse
	require.NoError(t, json.Unmarshal(resp.body, &payload))
	assert.Equal(t, "Bearer", payload.TokenType)
	assert.Equal(t, "student", payload.Role)
	assert.EqualValues(t, 1, payload.StudentID)

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(payload.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "1", claims["sub"])
}

func TestAuthHandlerRejections(t *testing.T) {
	app := newHandlerTestApp(t)
	registerStudent(t, app)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/login", `{"email":"grace@example.com","password":"wrong-password"}`)
	require.Equal(t, fiber.StatusUnauthorized, resp.status)
	assert.Equal(t, "invalid email or password", resp.message(t))

	resp = doRequest(t, app, http.MethodPost, "/api/v1/auth/login", `{"email":"nobody@example.com","password":"whatever"}`)
	require.Equal(t, fiber.StatusUnauthorized, resp.status)

	resp = doRequest(t, app, http.MethodPost, "/api/v1/auth/login", `{"email":"not-an-email","password":"x"}`)
	require.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.Equal(t, "invalid payload", resp.message(t))

	resp = doRequest(t, app, http.MethodPost, "/api/v1/auth/login", `email=grace`)
	require.Equal(t, fiber.StatusMethodNotAllowed, resp.status)
}
