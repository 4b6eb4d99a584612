package server

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"campfire/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ajaxRequest(target string, form url.Values) *http.Request {
	req := formRequest(http.MethodPost, target, form)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	return req
}

func TestValidateUsername(t *testing.T) {
	s, db, _ := newTestServer(t)
	app := s.App()
	testutil.CreateUser(t, db, "ExistingCamper", "existing@example.com")

	tests := []struct {
		name     string
		username string
		expected interface{}
	}{
		{"too short", "abcde", "Kullanıcı adı en az 6 en çok 30 karakter içerlemidir"},
		{"too long", strings.Repeat("a", 31), "Kullanıcı adı en az 6 en çok 30 karakter içerlemidir"},
		{"multibyte counts runes", "çğıöşü", false},
		{"taken ignoring case", "existingcamper", "Kullanıcı adı mevcut"},
		{"taken exact", "ExistingCamper", "Kullanıcı adı mevcut"},
		{"available", "brand_new_camper", false},
		{"boundary 30", strings.Repeat("b", 30), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(ajaxRequest("/api/validate/username", url.Values{"username": {tt.username}}))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body map[string]interface{}
			decodeJSON(t, resp, &body)
			assert.Equal(t, tt.expected, body["error"])
		})
	}
}

func TestValidateUsername_EnglishLocale(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := ajaxRequest("/api/validate/username", url.Values{"username": {"abc"}})
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	resp, err := s.App().Test(req)
	require.NoError(t, err)

	var body map[string]interface{}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Username must be between 6 and 30 characters", body["error"])
}

func TestValidateEmail(t *testing.T) {
	s, db, _ := newTestServer(t)
	app := s.App()
	testutil.CreateUser(t, db, "email_owner", "taken@example.com")

	resp, err := app.Test(ajaxRequest("/api/validate/email", url.Values{"email": {"taken@example.com"}}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Bu email adresi kullanımda", body["error"])

	resp, err = app.Test(ajaxRequest("/api/validate/email", url.Values{"email": {"free@example.com"}}))
	require.NoError(t, err)
	decodeJSON(t, resp, &body)
	assert.Equal(t, false, body["error"])
}

func TestValidate_RejectsNonAjax(t *testing.T) {
	s, _, _ := newTestServer(t)
	app := s.App()

	for _, target := range []string{"/api/validate/username", "/api/validate/email"} {
		resp, err := app.Test(formRequest(http.MethodPost, target, url.Values{"username": {"whatever"}, "email": {"a@b.co"}}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		decodeJSON(t, resp, &body)
		assert.Equal(t, "This request is not ajax", body["error"], target)
	}
}
