package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"campfire/internal/models"
	"campfire/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanUser(t *testing.T) {
	s, db, _ := newTestServer(t)
	app := s.App()
	admin := testutil.CreateUser(t, db, "camp_admin", "admin@camp.example", testutil.AsAdmin)
	regular := testutil.CreateUser(t, db, "regular_joe", "joe@camp.example")
	target := testutil.CreateUser(t, db, "troublemaker", "trouble@camp.example")

	ban := func(token string, form url.Values) *http.Response {
		req := withAuth(formRequest(http.MethodPost, "/api/bans", form), token)
		req.Header.Set("Referer", "/admin/users")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}
	form := url.Values{"user_id": {fmt.Sprint(target.ID)}, "desc": {"littering"}}

	resp := ban(tokenFor(t, s, regular), form)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ban(tokenFor(t, s, admin), form)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/users", resp.Header.Get("Location"))

	// Banning again appends a second record.
	resp = ban(tokenFor(t, s, admin), form)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	var bans []models.BannedUser
	require.NoError(t, db.Where("user_id = ?", target.ID).Find(&bans).Error)
	require.Len(t, bans, 2)
	assert.Equal(t, "littering", bans[0].Description)
	require.NotNil(t, bans[0].BannedByID)
	assert.Equal(t, admin.ID, *bans[0].BannedByID)

	resp = ban(tokenFor(t, s, admin), url.Values{"user_id": {"99999"}, "desc": {"ghost"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ban(tokenFor(t, s, admin), url.Values{"desc": {"nobody"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListBans(t *testing.T) {
	s, db, _ := newTestServer(t)
	app := s.App()
	admin := testutil.CreateUser(t, db, "list_admin", "la@camp.example", testutil.AsAdmin)
	a := testutil.CreateUser(t, db, "banned_a", "a@camp.example")
	b := testutil.CreateUser(t, db, "banned_b", "b@camp.example")
	require.NoError(t, db.Create(&models.BannedUser{UserID: a.ID, Description: "one"}).Error)
	require.NoError(t, db.Create(&models.BannedUser{UserID: b.ID, Description: "two"}).Error)
	require.NoError(t, db.Create(&models.BannedUser{UserID: a.ID, Description: "three"}).Error)
	token := tokenFor(t, s, admin)

	resp, err := app.Test(withAuth(httptest.NewRequest(http.MethodGet, "/api/bans", nil), token))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []models.BannedUser
	decodeJSON(t, resp, &all)
	assert.Len(t, all, 3)

	resp, err = app.Test(withAuth(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/bans?user_id=%d", a.ID), nil), token))
	require.NoError(t, err)
	var forA []models.BannedUser
	decodeJSON(t, resp, &forA)
	require.Len(t, forA, 2)
	for _, ban := range forA {
		assert.Equal(t, a.ID, ban.UserID)
		require.NotNil(t, ban.User)
		assert.Equal(t, "banned_a", ban.User.Username)
	}

	resp, err = app.Test(withAuth(httptest.NewRequest(http.MethodGet, "/api/bans?user_id=424242", nil), token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
