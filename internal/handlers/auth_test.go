package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arnold/selfcare-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Sam@Example.com")

	status, body := s.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Email: "sam@example.com", Password: "another1",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.JSONEq(t, `{"error":"Email already registered"}`, string(body))

	status, body = s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email: "sam@example.com", Password: "secret123",
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "sam@example.com", resp.User.Email)
	assert.NotContains(t, string(body), "secret123")

	status, body = s.do(t, http.MethodGet, "/api/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var me models.User
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, resp.User.ID, me.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "kim@example.com")

	for _, req := range []models.LoginRequest{
		{Email: "kim@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "secret123"},
	} {
		status, body := s.do(t, http.MethodPost, "/api/auth/login", "", req)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, string(body))
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{Email: "a@b.c"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{Email: "a@b.c", Password: "123"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{Email: "not-an-email", Password: "secret123"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRegisterDeviceToken(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "push@example.com")

	status, _ := s.do(t, http.MethodPost, "/api/device-token", token, map[string]string{"token": ""})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := s.do(t, http.MethodPost, "/api/device-token", token, map[string]string{"token": "fcm-123"})
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"success":true}`, string(body))
}

func TestUploadProfileImage(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "pic@example.com")

	upload := func(filename string) (int, []byte) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/me/avatar", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := s.app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		out, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, out
	}

	status, _ := upload("avatar.gif")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := upload("avatar.png")
	require.Equal(t, http.StatusOK, status, string(body))
	var resp map[string]string
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Regexp(t, `^/uploads/[0-9a-f-]{36}\.png$`, resp["url"])

	status, body = s.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	var me models.User
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, resp["url"], me.ProfileImage)
}
