package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/puoklam/spot-backend/db"
	"github.com/puoklam/spot-backend/env"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type client struct {
	t *testing.T
	h http.Handler
}

func newClient(t *testing.T) *client {
	t.Helper()
	cfg := env.Default()
	cfg.HS256Secret = "routes-secret"
	cfg.BcryptCost = bcrypt.MinCost
	cfg.DBConn = filepath.Join(t.TempDir(), "spot.db")
	store, err := db.Open(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return &client{t: t, h: NewRouter(cfg, store, zerolog.Nop())}
}

func (c *client) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("access-token", token)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (c *client) signup(name string) (uint, string) {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": name,
		"email":    name + "@spot.io",
		"password": "password-" + name,
	})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	u := decode[map[string]any](c.t, rec)

	rec = c.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email":    name + "@spot.io",
		"password": "password-" + name,
	})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	tok := decode[map[string]string](c.t, rec)
	return uint(u["id"].(float64)), tok["token"]
}

func TestAuthFlow(t *testing.T) {
	c := newClient(t)
	_, tok := c.signup("ana")

	rec := c.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": "ana", "email": "other@spot.io", "password": "whatever",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/auth/register", "", map[string]string{"username": "x", "email": "nope", "password": "whatever"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@spot.io", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodGet, "/auth/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"a valid token is missing"}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/auth/user", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"timeout":true,"message":"token is invalid"}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/auth/user", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "ana", me["username"])
	assert.Len(t, me, 4)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestSocialFlow(t *testing.T) {
	c := newClient(t)
	anaID, ana := c.signup("ana")
	boID, bo := c.signup("bo")
	_, cy := c.signup("cy")

	rec := c.do(http.MethodPost, "/groups", ana, map[string]string{"name": "hikers"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	gid := uint(decode[map[string]any](t, rec)["id"].(float64))

	rec = c.do(http.MethodPost, fmt.Sprintf("/groups/%d/join", gid), bo, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = c.do(http.MethodPost, fmt.Sprintf("/groups/%d/join", gid), bo, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodGet, fmt.Sprintf("/groups/%d/members", gid), ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	members := decode[[]map[string]any](t, rec)
	require.Len(t, members, 2)
	assert.Equal(t, "hikers", members[0]["group.name"])

	rec = c.do(http.MethodPost, "/post", cy, map[string]any{"text": "sneaky", "group_id": gid})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodPost, "/post", bo, map[string]any{
		"text": "summit!", "longitude": 7.6586, "latitude": 45.9763, "category": "outdoors", "group_id": gid,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[map[string]any](t, rec)
	pid := uint(post["id"].(float64))
	assert.Equal(t, "bo", post["user.username"])
	assert.Equal(t, "hikers", post["group.name"])
	assert.NotContains(t, post, "user_id")
	assert.NotContains(t, post, "group_id")

	rec = c.do(http.MethodPut, fmt.Sprintf("/post/%d", pid), ana, map[string]any{"text": "mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodPost, "/comment", ana, map[string]any{"text": "nice", "post_id": pid})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = c.do(http.MethodPost, "/comment", ana, map[string]any{"text": "nice", "post_id": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, fmt.Sprintf("/comments/post=%d", pid), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	comments := decode[[]map[string]any](t, rec)
	require.Len(t, comments, 1)
	assert.Equal(t, "ana", comments[0]["user.username"])

	rec = c.do(http.MethodGet, fmt.Sprintf("/feed/post=%d", pid), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPut, "/friend/add", ana, map[string]any{"user_id": boID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, false, decode[map[string]any](t, rec)["accepted"])
	rec = c.do(http.MethodPut, "/friend/add", ana, map[string]any{"user_id": boID})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = c.do(http.MethodPut, "/friend/add", ana, map[string]any{"user_id": anaID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodGet, "/friend/requests", bo, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = c.do(http.MethodPut, "/friend/add", bo, map[string]any{"user_id": anaID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, rec)["accepted"])

	rec = c.do(http.MethodGet, "/friends", ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	friends := decode[[]map[string]any](t, rec)
	require.Len(t, friends, 1)
	assert.Equal(t, "bo", friends[0]["username"])

	rec = c.do(http.MethodGet, "/non-friends", ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	non := decode[[]map[string]any](t, rec)
	require.Len(t, non, 1)
	assert.Equal(t, "cy", non[0]["username"])

	rec = c.do(http.MethodDelete, "/users/me", bo, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = c.do(http.MethodGet, "/feed", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = c.do(http.MethodGet, "/friends", ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = c.do(http.MethodGet, fmt.Sprintf("/groups/%d/members", gid), ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = c.do(http.MethodGet, "/auth/user", bo, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"token user does not exist"}`, rec.Body.String())
}

func TestGroupAdmin(t *testing.T) {
	c := newClient(t)
	_, ana := c.signup("ana")
	boID, bo := c.signup("bo")

	rec := c.do(http.MethodPost, "/groups", ana, map[string]string{"name": "chess"})
	require.Equal(t, http.StatusCreated, rec.Code)
	gid := uint(decode[map[string]any](t, rec)["id"].(float64))
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, fmt.Sprintf("/groups/%d/join", gid), bo, nil).Code)

	rec = c.do(http.MethodDelete, fmt.Sprintf("/groups/%d", gid), bo, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodPut, fmt.Sprintf("/memberships/%d/%d", gid, boID), bo, map[string]any{"admin": true})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodPut, fmt.Sprintf("/memberships/%d/%d", gid, boID), ana, map[string]any{"admin": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, rec)["admin"])

	rec = c.do(http.MethodGet, "/memberships", bo, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = c.do(http.MethodDelete, fmt.Sprintf("/groups/%d", gid), bo, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = c.do(http.MethodGet, fmt.Sprintf("/groups/%d", gid), ana, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterPasswordByteLimit(t *testing.T) {
	c := newClient(t)

	rec := c.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": "eve", "email": "eve@spot.io", "password": strings.Repeat("é", 60),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": "eve", "email": "eve@spot.io", "password": strings.Repeat("é", 36),
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestUpdateMeTakenEmail(t *testing.T) {
	c := newClient(t)
	_, ana := c.signup("ana")
	c.signup("bo")

	rec := c.do(http.MethodPut, "/users/me", ana, map[string]string{"username": "ana", "email": "bo@spot.io"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"message":"email / username exists"}`, rec.Body.String())

	rec = c.do(http.MethodPut, "/users/me", ana, map[string]string{"username": "bo", "email": "ana@spot.io"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPut, "/users/me", ana, map[string]string{"username": "anna", "email": "anna@spot.io"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "anna", decode[map[string]any](t, rec)["username"])
}

func TestFriendAcceptAndRemove(t *testing.T) {
	c := newClient(t)
	anaID, ana := c.signup("ana")
	boID, bo := c.signup("bo")
	cyID, cy := c.signup("cy")

	rec := c.do(http.MethodPut, "/friend/accept", bo, map[string]any{"user_id": anaID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusCreated, c.do(http.MethodPut, "/friend/add", ana, map[string]any{"user_id": boID}).Code)

	// only the recipient can accept
	rec = c.do(http.MethodPut, "/friend/accept", ana, map[string]any{"user_id": boID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPut, "/friend/accept", bo, map[string]any{"user_id": anaID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	f := decode[map[string]any](t, rec)
	assert.Equal(t, true, f["accepted"])
	assert.Equal(t, "ana", f["requester.username"])
	assert.Equal(t, "bo", f["recipient.username"])

	rec = c.do(http.MethodGet, "/friends", bo, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	// removed by the recipient
	rec = c.do(http.MethodPut, "/friend/remove", bo, map[string]any{"user_id": anaID})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = c.do(http.MethodPut, "/friend/remove", bo, map[string]any{"user_id": anaID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// removed by the requester
	require.Equal(t, http.StatusCreated, c.do(http.MethodPut, "/friend/add", ana, map[string]any{"user_id": cyID}).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/friend/accept", cy, map[string]any{"user_id": anaID}).Code)
	rec = c.do(http.MethodPut, "/friend/remove", ana, map[string]any{"user_id": cyID})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = c.do(http.MethodGet, "/friends", cy, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = c.do(http.MethodPut, "/friend/remove", ana, map[string]any{"user_id": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeaveGroup(t *testing.T) {
	c := newClient(t)
	_, ana := c.signup("ana")
	_, bo := c.signup("bo")

	rec := c.do(http.MethodPost, "/groups", ana, map[string]string{"name": "runners"})
	require.Equal(t, http.StatusCreated, rec.Code)
	gid := uint(decode[map[string]any](t, rec)["id"].(float64))
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, fmt.Sprintf("/groups/%d/join", gid), bo, nil).Code)

	rec = c.do(http.MethodDelete, fmt.Sprintf("/groups/%d/leave", gid), bo, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = c.do(http.MethodDelete, fmt.Sprintf("/groups/%d/leave", gid), bo, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = c.do(http.MethodDelete, "/groups/999/leave", bo, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, fmt.Sprintf("/groups/%d/members", gid), ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	members := decode[[]map[string]any](t, rec)
	require.Len(t, members, 1)
	assert.Equal(t, "ana", members[0]["user.username"])

	rec = c.do(http.MethodPost, "/post", bo, map[string]any{"text": "still here?", "group_id": gid})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPostOwnerEdits(t *testing.T) {
	c := newClient(t)
	_, ana := c.signup("ana")
	_, bo := c.signup("bo")

	rec := c.do(http.MethodPost, "/groups", ana, map[string]string{"name": "cyclists"})
	require.Equal(t, http.StatusCreated, rec.Code)
	gid := uint(decode[map[string]any](t, rec)["id"].(float64))
	rec = c.do(http.MethodPost, "/groups", bo, map[string]string{"name": "closed"})
	require.Equal(t, http.StatusCreated, rec.Code)
	closed := uint(decode[map[string]any](t, rec)["id"].(float64))

	rec = c.do(http.MethodPost, "/post", ana, map[string]any{"text": "first ride", "category": "bike"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	pid := uint(decode[map[string]any](t, rec)["id"].(float64))
	path := fmt.Sprintf("/post/%d", pid)

	rec = c.do(http.MethodPut, path, ana, map[string]any{"text": "group ride", "category": "bike", "group_id": gid})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	post := decode[map[string]any](t, rec)
	assert.Equal(t, "group ride", post["text"])
	assert.Equal(t, "cyclists", post["group.name"])

	rec = c.do(http.MethodPut, path, ana, map[string]any{"text": "x", "group_id": closed})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = c.do(http.MethodPut, path, ana, map[string]any{"text": "x", "group_id": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = c.do(http.MethodPut, "/post/999", ana, map[string]any{"text": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPut, path, ana, map[string]any{"text": "solo again", "category": "bike"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	post = decode[map[string]any](t, rec)
	assert.Contains(t, post, "group.name")
	assert.Nil(t, post["group.name"])

	rec = c.do(http.MethodGet, fmt.Sprintf("/groups/%d/posts", gid), ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/comment", bo, map[string]any{"text": "nice", "post_id": pid}).Code)

	rec = c.do(http.MethodDelete, path, bo, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = c.do(http.MethodDelete, path, ana, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = c.do(http.MethodDelete, path, ana, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, fmt.Sprintf("/feed/post=%d", pid), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = c.do(http.MethodGet, fmt.Sprintf("/comments/post=%d", pid), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentOwnerEdits(t *testing.T) {
	c := newClient(t)
	_, ana := c.signup("ana")
	_, bo := c.signup("bo")

	rec := c.do(http.MethodPost, "/post", ana, map[string]any{"text": "sunset"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	pid := uint(decode[map[string]any](t, rec)["id"].(float64))

	rec = c.do(http.MethodPost, "/comment", bo, map[string]any{"text": "wow", "post_id": pid})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cid := uint(decode[map[string]any](t, rec)["id"].(float64))
	path := fmt.Sprintf("/comment/%d", cid)

	rec = c.do(http.MethodPut, path, ana, map[string]any{"text": "hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = c.do(http.MethodPut, path, bo, map[string]any{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = c.do(http.MethodPut, "/comment/999", bo, map[string]any{"text": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPut, path, bo, map[string]any{"text": "wow!!"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cm := decode[map[string]any](t, rec)
	assert.Equal(t, "wow!!", cm["text"])
	assert.Equal(t, "bo", cm["user.username"])

	rec = c.do(http.MethodDelete, path, ana, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = c.do(http.MethodDelete, path, bo, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = c.do(http.MethodDelete, path, bo, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, fmt.Sprintf("/comments/post=%d", pid), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
